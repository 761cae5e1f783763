package ingestion

import (
	"crypto/sha256"
	"encoding/hex"
	"path/filepath"
	"strings"
	"time"

	"github.com/jonathan/nxrag/internal/types"
)

// Metadata describes an ingested input file; it is written to input.meta.json
type Metadata struct {
	SourcePath string           `json:"source_path"`
	FileName   string           `json:"file_name"`
	Timestamp  string           `json:"timestamp"` // RFC3339 format
	Hash       string           `json:"hash"`      // SHA256 hex digest
	SourceType types.SourceType `json:"source_type"`
	SizeBytes  int              `json:"size_bytes"`
	Lines      int              `json:"lines"`
}

// NewMetadata creates a new Metadata instance with current timestamp
func NewMetadata(content, path string, sourceType types.SourceType) *Metadata {
	return &Metadata{
		SourcePath: filepath.ToSlash(path),
		FileName:   filepath.Base(path),
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		Hash:       computeHash(content),
		SourceType: sourceType,
		SizeBytes:  len(content),
		Lines:      countLines(content),
	}
}

// computeHash computes SHA256 hash of content and returns hex string
func computeHash(content string) string {
	hash := sha256.Sum256([]byte(content))
	return hex.EncodeToString(hash[:])
}

func countLines(content string) int {
	if content == "" {
		return 0
	}
	return strings.Count(strings.TrimSuffix(content, "\n"), "\n") + 1
}
