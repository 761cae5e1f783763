// Package types provides type definitions for structured data used throughout the nxrag system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// ManifestEntry is one corpus file with tags taken from its first heading
type ManifestEntry struct {
	Path string   `json:"path"`
	Tags []string `json:"tags"`
}

// Chunk is a retrievable slice of a corpus document
type Chunk struct {
	ID      string `json:"id"`
	Path    string `json:"path"`
	Index   int    `json:"index"`
	Content string `json:"content"`
}

// Manifest lists corpus files and, optionally, their chunks
type Manifest struct {
	Root    string          `json:"root"`
	Entries []ManifestEntry `json:"entries"`
	Chunks  []Chunk         `json:"chunks,omitempty"`
}
