// Package llm provides the generation adapter: one Complete call per prompt, behind a
// provider-neutral interface with a deterministic stand-in for tests and offline runs.
package llm

import "strings"

// Provider represents a generation backend
type Provider string

// Provider constants define supported generation backends
const (
	// ProviderStub is the deterministic offline backend
	ProviderStub Provider = "stub"
	// ProviderGemini is the Google Gemini backend
	ProviderGemini Provider = "gemini"
	// ProviderScripted replays recorded completions; it is never selected by config
	ProviderScripted Provider = "scripted"
)

// Defaults used when config leaves values unset
const (
	DefaultModel       = "gemini-2.5-flash"
	DefaultMaxTokens   = 2000
	DefaultTemperature = 0.1
)

// Config holds the resolved generation settings
type Config struct {
	Provider          Provider
	Model             string
	MaxTokens         int
	Temperature       float32
	APIKey            string
	RequestsPerMinute int
}

// DefaultConfig returns the offline stub configuration
func DefaultConfig() *Config {
	return &Config{
		Provider:    ProviderStub,
		Model:       DefaultModel,
		MaxTokens:   DefaultMaxTokens,
		Temperature: DefaultTemperature,
	}
}

// ParseProvider normalizes a provider name. An empty name means the stub.
func ParseProvider(name string) Provider {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return ProviderStub
	}
	return Provider(name)
}
