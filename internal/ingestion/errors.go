// Package ingestion reads the single input file of a run and describes it.
package ingestion

import "fmt"

// InputError represents a missing or unreadable input file. It is fatal before any generation call.
type InputError struct {
	Message string
	Path    string
	Cause   error
}

func (e *InputError) Error() string {
	msg := fmt.Sprintf("input error: %s", e.Message)
	if e.Path != "" {
		msg = fmt.Sprintf("%s (path: %s)", msg, e.Path)
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *InputError) Unwrap() error {
	return e.Cause
}
