package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jonathan/nxrag/internal/artifacts"
	"github.com/jonathan/nxrag/internal/schemas"
)

// writeJSONFile checks v against the schema for kind, when set, and writes it indented
func writeJSONFile(path string, kind schemas.Kind, v any) error {
	data, err := artifacts.MarshalJSON(v)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", filepath.Base(path), err)
	}
	if kind != "" {
		if err := schemas.ValidateArtifact(kind, data); err != nil {
			return err
		}
	}
	return writeFile(path, data)
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}
