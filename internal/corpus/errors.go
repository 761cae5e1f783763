// Package corpus selects reference material from the on-disk corpus and builds its manifest.
package corpus

import "fmt"

// SelectError represents a selector misconfiguration. Missing or unreadable corpus files are not errors.
type SelectError struct {
	Message string
	Cause   error
}

func (e *SelectError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("corpus select error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("corpus select error: %s", e.Message)
}

func (e *SelectError) Unwrap() error {
	return e.Cause
}

// ManifestError represents a failure while building the corpus manifest or its chunks
type ManifestError struct {
	Message string
	Path    string
	Cause   error
}

func (e *ManifestError) Error() string {
	msg := fmt.Sprintf("manifest error: %s", e.Message)
	if e.Path != "" {
		msg = fmt.Sprintf("%s (path: %s)", msg, e.Path)
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *ManifestError) Unwrap() error {
	return e.Cause
}
