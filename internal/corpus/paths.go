package corpus

import (
	"path/filepath"
	"strings"

	"github.com/jonathan/nxrag/internal/types"
)

// pathRenderer renders every path in one retrieval log against a single base.
type pathRenderer struct {
	base types.PathBase
	root string
}

// choosePathBase picks the first base that every path sits under: repo root, then corpus root,
// else absolute paths.
func choosePathBase(repoRoot, corpusRoot string, paths []string) pathRenderer {
	candidates := []pathRenderer{
		{base: types.PathBaseRepo, root: repoRoot},
		{base: types.PathBaseCorpus, root: corpusRoot},
	}
	for _, c := range candidates {
		if c.root == "" {
			continue
		}
		root, err := filepath.Abs(c.root)
		if err != nil {
			continue
		}
		c.root = root
		if allUnder(root, paths) {
			return c
		}
	}
	return pathRenderer{base: types.PathBaseAbsolute}
}

func allUnder(root string, paths []string) bool {
	for _, p := range paths {
		if _, ok := relativeTo(root, p); !ok {
			return false
		}
	}
	return true
}

func relativeTo(root, p string) (string, bool) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", false
	}
	rel, err := filepath.Rel(root, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return rel, true
}

// render returns p in the chosen form with forward slashes.
func (r pathRenderer) render(p string) string {
	if r.base != types.PathBaseAbsolute {
		if rel, ok := relativeTo(r.root, p); ok {
			return filepath.ToSlash(rel)
		}
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		return filepath.ToSlash(p)
	}
	return filepath.ToSlash(abs)
}

func (r pathRenderer) renderPtr(p string) *string {
	if p == "" {
		return nil
	}
	s := r.render(p)
	return &s
}

func (r pathRenderer) renderAll(paths []string) []string {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		out = append(out, r.render(p))
	}
	return out
}
