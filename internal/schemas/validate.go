// Package schemas validates run artifacts against the embedded JSON Schemas.
package schemas

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	rootschemas "github.com/jonathan/nxrag/schemas"
	"github.com/xeipuuv/gojsonschema"
)

// Kind names an artifact type that has a schema
type Kind string

// Artifact kinds
const (
	KindIR           Kind = "ir"
	KindRetrievalLog Kind = "retrieval_log"
	KindGeneration   Kind = "generation"
	KindManifest     Kind = "manifest"
)

// artifactKinds maps run-folder file names to their schema kind
var artifactKinds = map[string]Kind{
	"ir.json":         KindIR,
	"retrieved.json":  KindRetrievalLog,
	"generation.json": KindGeneration,
	"manifest.json":   KindManifest,
}

// KindForFile returns the schema kind for an artifact file name
func KindForFile(name string) (Kind, bool) {
	kind, ok := artifactKinds[filepath.Base(name)]
	return kind, ok
}

// SchemaFile returns the embedded file name for kind
func (k Kind) SchemaFile() string {
	return string(k) + ".schema.json"
}

// ValidationError represents a schema validation error with field paths
type ValidationError struct {
	Kind   Kind
	Errors []FieldError
}

// FieldError represents a single validation error at a specific field
type FieldError struct {
	Field   string
	Message string
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	if ve.Kind != "" {
		sb.WriteString(fmt.Sprintf("%s validation failed:\n", ve.Kind))
	} else {
		sb.WriteString("validation failed:\n")
	}
	for i, err := range ve.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, err.Field, err.Message))
	}
	return sb.String()
}

// SchemaLoadError represents errors loading or parsing the schema itself
type SchemaLoadError struct {
	Path    string
	Message string
	Cause   error
}

func (e *SchemaLoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to load schema %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to load schema %s: %s", e.Path, e.Message)
}

func (e *SchemaLoadError) Unwrap() error {
	return e.Cause
}

// SchemaText returns the embedded schema for kind
func SchemaText(kind Kind) (string, error) {
	data, err := fs.ReadFile(rootschemas.FS, kind.SchemaFile())
	if err != nil {
		return "", &SchemaLoadError{Path: kind.SchemaFile(), Message: "no embedded schema", Cause: err}
	}
	return string(data), nil
}

// ValidateArtifact validates JSON bytes against the embedded schema for kind
func ValidateArtifact(kind Kind, data []byte) error {
	schemaText, err := SchemaText(kind)
	if err != nil {
		return err
	}
	return validate(kind, kind.SchemaFile(),
		gojsonschema.NewStringLoader(schemaText), gojsonschema.NewBytesLoader(data))
}

// ValidateArtifactFile validates a JSON file against the schema picked by its file name
func ValidateArtifactFile(path string) error {
	kind, ok := KindForFile(path)
	if !ok {
		return fmt.Errorf("no schema for artifact %s", filepath.Base(path))
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read artifact %s: %w", path, err)
	}
	return ValidateArtifact(kind, data)
}

func validate(kind Kind, schemaName string, schemaLoader, documentLoader gojsonschema.JSONLoader) error {
	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		// gojsonschema reports unreadable schemas and unparsable documents the same way
		return &SchemaLoadError{
			Path:    schemaName,
			Message: "schema validation failed during load",
			Cause:   err,
		}
	}

	if result.Valid() {
		return nil
	}

	validationErr := &ValidationError{
		Kind:   kind,
		Errors: make([]FieldError, 0, len(result.Errors())),
	}

	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		validationErr.Errors = append(validationErr.Errors, FieldError{
			Field:   field,
			Message: desc.Description(),
		})
	}

	return validationErr
}
