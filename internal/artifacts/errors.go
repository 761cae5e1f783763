// Package artifacts manages the per-run output folder and the files written into it.
package artifacts

import "fmt"

// WriteError represents a failure creating a run folder or writing an artifact
type WriteError struct {
	Message string
	Path    string
	Cause   error
}

func (e *WriteError) Error() string {
	msg := fmt.Sprintf("artifact write error: %s", e.Message)
	if e.Path != "" {
		msg = fmt.Sprintf("%s (path: %s)", msg, e.Path)
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *WriteError) Unwrap() error {
	return e.Cause
}
