package corpus

import (
	"crypto/sha1" //nolint:gosec // content fingerprint for chunk ids, not a security boundary
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/jonathan/nxrag/internal/types"
)

// DefaultChunkLines is the chunk size used when none is given
const DefaultChunkLines = 40

// manifestPattern selects the documents listed in the manifest
const manifestPattern = "**/*.md"

// BuildManifest lists every Markdown document under root, sorted by path.
// Each entry is tagged with its first line, minus heading markers.
func BuildManifest(root string) (*types.Manifest, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, &ManifestError{Message: "corpus root not accessible", Path: root, Cause: err}
	}
	if !info.IsDir() {
		return nil, &ManifestError{Message: "corpus root is not a directory", Path: root}
	}

	matches, err := doublestar.Glob(os.DirFS(root), manifestPattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, &ManifestError{Message: "failed to walk corpus", Path: root, Cause: err}
	}
	sort.Strings(matches)

	entries := make([]types.ManifestEntry, 0, len(matches))
	for _, rel := range matches {
		data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
		if err != nil {
			return nil, &ManifestError{Message: "failed to read document", Path: rel, Cause: err}
		}
		tags := []string{}
		if heading := firstLineTag(string(data)); heading != "" {
			tags = append(tags, heading)
		}
		entries = append(entries, types.ManifestEntry{Path: rel, Tags: tags})
	}

	return &types.Manifest{Root: filepath.ToSlash(root), Entries: entries}, nil
}

func firstLineTag(text string) string {
	line, _, _ := strings.Cut(text, "\n")
	return strings.TrimSpace(strings.TrimLeft(strings.TrimSuffix(line, "\r"), "# "))
}

// ChunkMarkdown splits text into consecutive chunks of at most maxLines lines.
func ChunkMarkdown(text string, maxLines int) []string {
	if maxLines <= 0 {
		maxLines = DefaultChunkLines
	}
	text = strings.TrimSuffix(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	if text == "" {
		return nil
	}
	lines := strings.Split(text, "\n")
	chunks := make([]string, 0, (len(lines)+maxLines-1)/maxLines)
	for start := 0; start < len(lines); start += maxLines {
		end := min(start+maxLines, len(lines))
		chunks = append(chunks, strings.Join(lines[start:end], "\n"))
	}
	return chunks
}

// ChunkID returns a stable id: "<file stem>-<index>-<first 8 hex of sha1(content)>".
func ChunkID(path string, index int, content string) string {
	sum := sha1.Sum([]byte(content)) //nolint:gosec // see import
	base := filepath.Base(filepath.FromSlash(path))
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return fmt.Sprintf("%s-%04d-%s", stem, index, hex.EncodeToString(sum[:])[:8])
}

// BuildChunks reads every manifest document and splits it into chunks.
func BuildChunks(m *types.Manifest, maxLines int) ([]types.Chunk, error) {
	chunks := make([]types.Chunk, 0)
	for _, entry := range m.Entries {
		data, err := os.ReadFile(filepath.Join(filepath.FromSlash(m.Root), filepath.FromSlash(entry.Path)))
		if err != nil {
			return nil, &ManifestError{Message: "failed to read document", Path: entry.Path, Cause: err}
		}
		for i, content := range ChunkMarkdown(string(data), maxLines) {
			chunks = append(chunks, types.Chunk{
				ID:      ChunkID(entry.Path, i, content),
				Path:    entry.Path,
				Index:   i,
				Content: content,
			})
		}
	}
	return chunks, nil
}
