package artifacts

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Artifact file names inside a run folder
const (
	InputMetaFile   = "input.meta.json"
	IRFile          = "ir.json"
	IRSummaryFile   = "ir_summary.txt"
	RetrievedFile   = "retrieved.json"
	PromptFile      = "prompt.txt"
	RetryPromptFile = "prompt_retry_1.txt"
	GenerationFile  = "generation.json"
	OutputFile      = "output.md"
	DocumentFile    = "document.md"
)

// stampLayout is the UTC timestamp prefix of a run id
const stampLayout = "20060102T150405Z"

// RunDir is one run's output folder. It records every file written, in order.
type RunDir struct {
	ID   string
	Path string

	mu      sync.Mutex
	written []string
}

// NewRunID returns "<UTC stamp>_<input stem>_<8 hex>". The suffix keeps concurrent runs
// of the same input in the same second apart.
func NewRunID(now time.Time, inputPath string) string {
	base := filepath.Base(inputPath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if stem == "" || stem == "." {
		stem = "input"
	}
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("%s_%s_%s", now.UTC().Format(stampLayout), stem, suffix)
}

// Create makes a fresh run folder under root
func Create(root, inputPath string, now time.Time) (*RunDir, error) {
	id := NewRunID(now, inputPath)
	path := filepath.Join(root, id)
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, &WriteError{Message: "failed to create runs root", Path: root, Cause: err}
	}
	if err := os.Mkdir(path, 0755); err != nil {
		return nil, &WriteError{Message: "failed to create run folder", Path: path, Cause: err}
	}
	return &RunDir{ID: id, Path: path}, nil
}

// Open wraps an existing run folder for reading
func Open(path string) (*RunDir, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, &WriteError{Message: "run folder not accessible", Path: path, Cause: err}
	}
	if !info.IsDir() {
		return nil, &WriteError{Message: "run path is not a directory", Path: path}
	}
	return &RunDir{ID: filepath.Base(path), Path: path}, nil
}

// File returns the path of name inside the run folder
func (r *RunDir) File(name string) string {
	return filepath.Join(r.Path, name)
}

// WriteText writes text verbatim
func (r *RunDir) WriteText(name, text string) (string, error) {
	return r.write(name, []byte(text))
}

// WriteJSON writes v as indented JSON with a trailing newline and returns the bytes
// written. A non-nil check runs on the encoded bytes first; its error aborts the write.
func (r *RunDir) WriteJSON(name string, v any, check func([]byte) error) ([]byte, error) {
	data, err := MarshalJSON(v)
	if err != nil {
		return nil, &WriteError{Message: "failed to marshal " + name, Path: r.File(name), Cause: err}
	}
	if check != nil {
		if err := check(data); err != nil {
			return nil, err
		}
	}
	if _, err := r.write(name, data); err != nil {
		return nil, err
	}
	return data, nil
}

// CopyFrom copies src into the run folder as name
func (r *RunDir) CopyFrom(src, name string) (string, error) {
	dst := r.File(name)
	if err := copyFile(src, dst); err != nil {
		return "", err
	}
	r.record(dst)
	return dst, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return &WriteError{Message: "failed to open copy source", Path: src, Cause: err}
	}
	defer func() { _ = in.Close() }()

	out, err := os.Create(dst)
	if err != nil {
		return &WriteError{Message: "failed to create copy", Path: dst, Cause: err}
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return &WriteError{Message: "failed to copy", Path: dst, Cause: err}
	}
	if err := out.Close(); err != nil {
		return &WriteError{Message: "failed to close copy", Path: dst, Cause: err}
	}
	return nil
}

// ReadFile reads an artifact back
func (r *RunDir) ReadFile(name string) ([]byte, error) {
	return os.ReadFile(r.File(name))
}

// Exists reports whether an artifact is present
func (r *RunDir) Exists(name string) bool {
	_, err := os.Stat(r.File(name))
	return err == nil
}

// Written returns the paths written so far, in order
func (r *RunDir) Written() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.written...)
}

func (r *RunDir) write(name string, data []byte) (string, error) {
	path := r.File(name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", &WriteError{Message: "failed to write " + name, Path: path, Cause: err}
	}
	r.record(path)
	return path, nil
}

func (r *RunDir) record(path string) {
	r.mu.Lock()
	r.written = append(r.written, path)
	r.mu.Unlock()
}

// MarshalJSON renders v the way every JSON artifact is stored
func MarshalJSON(v any) ([]byte, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}
