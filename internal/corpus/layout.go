package corpus

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

// keepFile holds an otherwise empty category directory in version control
const keepFile = ".gitkeep"

// Categories lists the corpus subdirectories in selection order
var Categories = []string{TemplatesDir, ExemplarsDir, StyleRulesDir, GlossaryDir}

// InitLayout creates the category directories under root. Existing directories and files
// are left alone. It returns the paths it created.
func InitLayout(root string) ([]string, error) {
	var created []string
	for _, name := range Categories {
		dir := filepath.Join(root, name)
		if _, err := os.Stat(dir); errors.Is(err, fs.ErrNotExist) {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return created, &SelectError{Message: "failed to create corpus directory " + dir, Cause: err}
			}
			created = append(created, dir)
		}

		keep := filepath.Join(dir, keepFile)
		entries, err := os.ReadDir(dir)
		if err != nil {
			return created, &SelectError{Message: "failed to read corpus directory " + dir, Cause: err}
		}
		if len(entries) > 0 {
			continue
		}
		if err := os.WriteFile(keep, nil, 0644); err != nil {
			return created, &SelectError{Message: "failed to write " + keep, Cause: err}
		}
		created = append(created, keep)
	}
	return created, nil
}
