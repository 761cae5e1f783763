package corpus

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitLayout(t *testing.T) {
	root := filepath.Join(t.TempDir(), "corpus")
	require.NoError(t, os.MkdirAll(filepath.Join(root, ExemplarsDir), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, ExemplarsDir, "bracket.md"), []byte("# Bracket\n"), 0644))

	created, err := InitLayout(root)
	require.NoError(t, err)

	assert.Equal(t, []string{
		filepath.Join(root, TemplatesDir),
		filepath.Join(root, TemplatesDir, keepFile),
		filepath.Join(root, StyleRulesDir),
		filepath.Join(root, StyleRulesDir, keepFile),
		filepath.Join(root, GlossaryDir),
		filepath.Join(root, GlossaryDir, keepFile),
	}, created)
	assert.NoFileExists(t, filepath.Join(root, ExemplarsDir, keepFile))

	again, err := InitLayout(root)
	require.NoError(t, err)
	assert.Empty(t, again)
}

func TestInitLayout_SelectsNothing(t *testing.T) {
	root := filepath.Join(t.TempDir(), "corpus")
	_, err := InitLayout(root)
	require.NoError(t, err)

	sel, err := Select(SelectOptions{CorpusRoot: root, RepoRoot: root, MaxExemplars: 2})
	require.NoError(t, err)
	assert.Empty(t, sel.Log.FilesUsed)
	assert.Equal(t, NoExemplarsText, sel.ExemplarText)
}
