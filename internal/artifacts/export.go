package artifacts

import (
	"os"
	"path"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
)

// ExportSeparator joins the run id and the artifact name in exported file names
const ExportSeparator = "__"

// runFilesPattern matches the files directly inside each run folder
const runFilesPattern = "*/*"

// Export copies every artifact under runsRoot into dest as "<run id>__<name>", so artifacts
// from different runs never overwrite each other. It returns the written paths, sorted.
func Export(runsRoot, dest string) ([]string, error) {
	info, err := os.Stat(runsRoot)
	if err != nil {
		return nil, &WriteError{Message: "runs root not accessible", Path: runsRoot, Cause: err}
	}
	if !info.IsDir() {
		return nil, &WriteError{Message: "runs root is not a directory", Path: runsRoot}
	}

	matches, err := doublestar.Glob(os.DirFS(runsRoot), runFilesPattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, &WriteError{Message: "failed to list run artifacts", Path: runsRoot, Cause: err}
	}
	sort.Strings(matches)

	if err := os.MkdirAll(dest, 0755); err != nil {
		return nil, &WriteError{Message: "failed to create export directory", Path: dest, Cause: err}
	}

	written := make([]string, 0, len(matches))
	for _, rel := range matches {
		runID, name := path.Split(rel)
		target := filepath.Join(dest, path.Clean(runID)+ExportSeparator+name)
		if err := copyFile(filepath.Join(runsRoot, filepath.FromSlash(rel)), target); err != nil {
			return written, err
		}
		written = append(written, target)
	}
	return written, nil
}
