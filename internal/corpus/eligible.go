package corpus

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// documentPattern matches corpus documents by file name
const documentPattern = "*.{md,markdown}"

// placeholderPatterns match upper-cased file names that hold no corpus content
var placeholderPatterns = []string{"README*", "_*", "PLACEHOLDER*"}

// isEligible reports whether a file name is a corpus document rather than scaffolding.
func isEligible(name string) bool {
	if strings.HasPrefix(name, ".") {
		return false
	}
	if ok, _ := doublestar.Match(documentPattern, strings.ToLower(name)); !ok {
		return false
	}
	upper := strings.ToUpper(name)
	for _, pattern := range placeholderPatterns {
		if ok, _ := doublestar.Match(pattern, upper); ok {
			return false
		}
	}
	return true
}

// eligibleFiles lists the eligible regular files directly inside dir, sorted by name.
// A missing or unreadable directory yields no files.
func eligibleFiles(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var files []string
	for _, entry := range entries {
		if !entry.Type().IsRegular() || !isEligible(entry.Name()) {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}
	return files
}
