package prompts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet_ValidPrompt(t *testing.T) {
	prompt, err := Get(GenerationFile, KeyCorrectiveRetry)
	require.NoError(t, err)
	assert.Contains(t, prompt, "CORRECTION REQUIRED:")
}

func TestGet_InvalidFile(t *testing.T) {
	_, err := Get("nonexistent.json", "some-key")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown prompt file")
}

func TestGet_InvalidKey(t *testing.T) {
	_, err := Get(GenerationFile, "nonexistent-key")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestMustGet_Panics(t *testing.T) {
	assert.Panics(t, func() {
		MustGet("nonexistent.json", "some-key")
	})
}

func TestFormat(t *testing.T) {
	template := "Model {{.Model}} saw {{.Preview}}"
	result := Format(template, map[string]string{
		"Model":   "stub-1",
		"Preview": "{{.Model}} literal",
	})
	assert.Equal(t, "Model stub-1 saw {{.Model}} literal", result)
}

func TestFormat_MissingPlaceholder(t *testing.T) {
	assert.Equal(t, "no placeholders", Format("no placeholders", map[string]string{"X": "y"}))
	assert.Equal(t, "keep {{.Unknown}}", Format("keep {{.Unknown}}", nil))
}

func TestDefaultTemplate_HasPlaceholders(t *testing.T) {
	tmpl := DefaultTemplate()
	for _, p := range []string{PlaceholderRequest, PlaceholderFacts, PlaceholderApprovedDefaults, PlaceholderContext} {
		assert.Contains(t, tmpl, p)
	}
	assert.Contains(t, tmpl, "## Vibration reliability practices")
}
