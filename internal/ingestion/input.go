package ingestion

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/jonathan/nxrag/internal/types"
)

// Input is one run's input file, read verbatim
type Input struct {
	Path       string
	Text       string
	SourceType types.SourceType
	Metadata   *Metadata
}

// DetectType maps a file extension to a source type
func DetectType(path string) types.SourceType {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".py":
		return types.SourceNXOpenScript
	case ".txt":
		return types.SourcePlainText
	case ".md", ".markdown":
		return types.SourceMarkdown
	default:
		return types.SourceUnknown
	}
}

// ReadInput reads path without altering its text, so evidence snippets stay verbatim substrings.
// An empty override keeps the detected type.
func ReadInput(path string, override types.SourceType) (*Input, error) {
	if strings.TrimSpace(path) == "" {
		return nil, &InputError{Message: "input path is required"}
	}

	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &InputError{Message: "input not found", Path: path, Cause: err}
		}
		return nil, &InputError{Message: "failed to stat input", Path: path, Cause: err}
	}
	if info.IsDir() {
		return nil, &InputError{Message: "input is a directory", Path: path}
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, &InputError{Message: "failed to read input", Path: path, Cause: err}
	}

	sourceType := DetectType(path)
	if override != "" {
		sourceType = override
	}

	text := string(content)
	return &Input{
		Path:       path,
		Text:       text,
		SourceType: sourceType,
		Metadata:   NewMetadata(text, path, sourceType),
	}, nil
}

// SnapshotName is the file name an input is copied to inside a run folder
func SnapshotName(path string) string {
	ext := filepath.Ext(path)
	if ext == "" {
		ext = ".txt"
	}
	return "input" + ext
}
