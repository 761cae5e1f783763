package corpus

import (
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildManifest(t *testing.T) {
	_, corpusRoot := newCorpus(t)

	m, err := BuildManifest(corpusRoot)
	require.NoError(t, err)

	paths := make([]string, 0, len(m.Entries))
	for _, e := range m.Entries {
		paths = append(paths, e.Path)
	}
	// terms.markdown and notes.txt are not *.md
	assert.Equal(t, []string{
		"exemplars/README.md",
		"exemplars/_draft.md",
		"exemplars/a_housing.md",
		"exemplars/b_bracket.md",
		"exemplars/c_cover.md",
		"style_rules/style.md",
		"templates/part_description.md",
	}, paths)

	assert.Equal(t, []string{"Housing"}, m.Entries[2].Tags)
	assert.Equal(t, []string{"No marketing language."}, m.Entries[5].Tags)
}

func TestBuildManifest_MissingRoot(t *testing.T) {
	_, err := BuildManifest(filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
	var manifestErr *ManifestError
	require.ErrorAs(t, err, &manifestErr)
	assert.Contains(t, err.Error(), "corpus root not accessible")
}

func TestChunkMarkdown(t *testing.T) {
	lines := make([]string, 0, 85)
	for i := range 85 {
		lines = append(lines, fmt.Sprintf("line %d", i))
	}
	chunks := ChunkMarkdown(strings.Join(lines, "\n")+"\n", 40)

	require.Len(t, chunks, 3)
	assert.True(t, strings.HasPrefix(chunks[1], "line 40\n"))
	assert.Equal(t, "line 80\nline 81\nline 82\nline 83\nline 84", chunks[2])

	assert.Empty(t, ChunkMarkdown("", 40))
	assert.Len(t, ChunkMarkdown("a\nb", 0), 1)
}

func TestChunkID(t *testing.T) {
	// sha1("hello") = aaf4c61ddcc5e8a2dabede0f3b482cd9aea9434d
	assert.Equal(t, "a_housing-0003-aaf4c61d", ChunkID("exemplars/a_housing.md", 3, "hello"))
	assert.Equal(t, ChunkID("x.md", 0, "same"), ChunkID("other/x.md", 0, "same"))
}

func TestBuildChunks(t *testing.T) {
	_, corpusRoot := newCorpus(t)
	m, err := BuildManifest(corpusRoot)
	require.NoError(t, err)

	chunks, err := BuildChunks(m, 1)
	require.NoError(t, err)

	// a_housing.md has two lines, so two chunks
	var housing []string
	for _, c := range chunks {
		if c.Path == "exemplars/a_housing.md" {
			housing = append(housing, c.Content)
			assert.True(t, strings.HasPrefix(c.ID, "a_housing-000"))
		}
	}
	assert.Equal(t, []string{"# Housing", "6061-T6 aluminum, ±0.05 mm."}, housing)
}
