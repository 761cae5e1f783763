// Package types provides type definitions for structured data used throughout the nxrag system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// PackedPrompt is the exact text sent to generation together with the exemplar text
// the validator checks against. ExemplarText must reach the validator unchanged.
type PackedPrompt struct {
	Prompt       string `json:"prompt"`
	ExemplarText string `json:"exemplar_text"`
}
