// Package types provides type definitions for structured data used throughout the nxrag system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// GenerationLog is written to generation.json at the end of a run
type GenerationLog struct {
	Provider        string        `json:"provider"`
	Model           string        `json:"model"`
	MaxTokens       int           `json:"max_tokens"`
	Attempts        int           `json:"attempts"`
	RetryUsed       bool          `json:"retry_used"`
	RetryPromptPath *string       `json:"retry_prompt_path"`
	Validation      Validation    `json:"validation"`
	Sections        SectionReport `json:"sections"`
	Notes           string        `json:"notes"`
}
