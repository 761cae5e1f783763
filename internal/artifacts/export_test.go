package artifacts

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExport(t *testing.T) {
	runsRoot := t.TempDir()
	for _, run := range []string{"run_b", "run_a"} {
		dir := filepath.Join(runsRoot, run)
		require.NoError(t, os.MkdirAll(filepath.Join(dir, "nested"), 0755))
		require.NoError(t, os.WriteFile(filepath.Join(dir, OutputFile), []byte(run+" output\n"), 0644))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "nested", "skip.txt"), []byte("x"), 0644))
	}
	require.NoError(t, os.WriteFile(filepath.Join(runsRoot, "stray.txt"), []byte("x"), 0644))

	dest := filepath.Join(t.TempDir(), "export")
	written, err := Export(runsRoot, dest)
	require.NoError(t, err)

	assert.Equal(t, []string{
		filepath.Join(dest, "run_a__output.md"),
		filepath.Join(dest, "run_b__output.md"),
	}, written)

	data, err := os.ReadFile(filepath.Join(dest, "run_b__output.md"))
	require.NoError(t, err)
	assert.Equal(t, "run_b output\n", string(data))
	assert.NoFileExists(t, filepath.Join(dest, "stray.txt"))
}

func TestExport_MissingRoot(t *testing.T) {
	_, err := Export(filepath.Join(t.TempDir(), "absent"), t.TempDir())
	require.Error(t, err)

	var writeErr *WriteError
	assert.ErrorAs(t, err, &writeErr)
}
