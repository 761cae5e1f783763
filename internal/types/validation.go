// Package types provides type definitions for structured data used throughout the nxrag system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// ValidationResult is the outcome of one lexical check.
// Missing is deduplicated and in first-detection order.
type ValidationResult struct {
	OK      bool     `json:"ok"`
	Missing []string `json:"missing"`
}

// Validation combines the exemplar-inclusion and no-new-claims checks
type Validation struct {
	OK        bool             `json:"ok"`
	Missing   []string         `json:"missing"`
	Exemplars ValidationResult `json:"exemplars"`
	Claims    ValidationResult `json:"claims"`
}

// SectionReport records which required headings a completion contains.
// It is informational and does not affect acceptance.
type SectionReport struct {
	OK      bool     `json:"ok"`
	Found   []string `json:"found"`
	Missing []string `json:"missing"`
}
