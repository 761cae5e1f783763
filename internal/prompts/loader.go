// Package prompts holds the embedded prompt text used around generation and packs the
// final prompt from a template.
package prompts

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"strings"
	"sync"
)

//go:embed *.json
var promptFiles embed.FS

// GenerationFile holds the prompts used around the generation step
const GenerationFile = "generation.json"

// Keys in GenerationFile
const (
	KeyCorrectiveRetry = "corrective-retry"
	KeyDefaultTemplate = "part-description-template"
	KeyStubCompletion  = "stub-completion"
)

// promptTable maps file name to key to prompt text
type promptTable map[string]map[string]string

var loadTable = sync.OnceValues(func() (promptTable, error) {
	names, err := fs.Glob(promptFiles, "*.json")
	if err != nil {
		return nil, err
	}
	table := make(promptTable, len(names))
	for _, name := range names {
		data, err := promptFiles.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("failed to read prompt file %s: %w", name, err)
		}
		var entries map[string]string
		if err := json.Unmarshal(data, &entries); err != nil {
			return nil, fmt.Errorf("failed to parse prompt file %s: %w", name, err)
		}
		table[name] = entries
	}
	return table, nil
})

func file(filename string) (map[string]string, error) {
	table, err := loadTable()
	if err != nil {
		return nil, err
	}
	entries, ok := table[filename]
	if !ok {
		return nil, fmt.Errorf("unknown prompt file %s", filename)
	}
	return entries, nil
}

// Get returns the prompt stored under key in an embedded file such as "generation.json".
func Get(filename, key string) (string, error) {
	entries, err := file(filename)
	if err != nil {
		return "", err
	}
	text, ok := entries[key]
	if !ok {
		return "", fmt.Errorf("prompt key %q not found in %s", key, filename)
	}
	return text, nil
}

// MustGet is Get for prompts that ship with the binary; a miss is a build defect.
func MustGet(filename, key string) string {
	text, err := Get(filename, key)
	if err != nil {
		panic(fmt.Sprintf("failed to load prompt: %v", err))
	}
	return text
}

// Format replaces {{.Key}} placeholders with values from data in a single pass,
// so a value that itself contains "{{.Other}}" is left as is.
func Format(template string, data map[string]string) string {
	pairs := make([]string, 0, 2*len(data))
	for key, value := range data {
		pairs = append(pairs, "{{."+key+"}}", value)
	}
	return strings.NewReplacer(pairs...).Replace(template)
}

// DefaultTemplate returns the built-in part description template.
func DefaultTemplate() string {
	return MustGet(GenerationFile, KeyDefaultTemplate)
}
