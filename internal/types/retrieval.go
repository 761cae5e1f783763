// Package types provides type definitions for structured data used throughout the nxrag system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// PathBase names the root that every path in a RetrievalLog is relative to
type PathBase string

// Path bases, in order of preference
const (
	PathBaseRepo     PathBase = "repo"
	PathBaseCorpus   PathBase = "corpus"
	PathBaseAbsolute PathBase = "absolute"
)

// RetrievalLog records what the context selector considered and picked.
// It is written once per run for auditing and never read back by the pipeline.
type RetrievalLog struct {
	Retriever  string          `json:"retriever"`
	PathBase   PathBase        `json:"path_base"`
	CorpusRoot string          `json:"corpus_root"`
	Dirs       CategoryDirs    `json:"dirs"`
	Selected   SelectedFiles   `json:"selected"`
	FilesUsed  []string        `json:"files_used"`
	Counts     CategoryCounts  `json:"counts"`
	Eligible   CategoryCounts  `json:"eligible"`
	Truncated  []string        `json:"truncated"`
	Skipped    []string        `json:"skipped"`
	Limits     RetrievalLimits `json:"limits"`
	Notes      string          `json:"notes"`
}

// CategoryDirs holds the directory of each corpus category
type CategoryDirs struct {
	Templates  string `json:"templates"`
	Exemplars  string `json:"exemplars"`
	StyleRules string `json:"style_rules"`
	Glossary   string `json:"glossary"`
}

// SelectedFiles holds the files picked per category. Single-file categories are nil when absent.
type SelectedFiles struct {
	Template   *string  `json:"template"`
	Exemplars  []string `json:"exemplars"`
	StyleRules *string  `json:"style_rules"`
	Glossary   *string  `json:"glossary"`
}

// CategoryCounts counts files per corpus category
type CategoryCounts struct {
	Templates  int `json:"templates"`
	Exemplars  int `json:"exemplars"`
	StyleRules int `json:"style_rules"`
	Glossary   int `json:"glossary"`
}

// RetrievalLimits records the limits applied during selection
type RetrievalLimits struct {
	MaxExemplars   int `json:"max_exemplars"`
	MaxCharsPerDoc int `json:"max_chars_per_doc"`
}
