// Package validation provides the lexical checks applied to generated part descriptions.
package validation

import "fmt"

// FileReadError represents an error reading a file to validate
type FileReadError struct {
	Message string
	Cause   error
}

func (e *FileReadError) Error() string {
	if e.Cause == nil {
		return "cannot read " + e.Message
	}
	return fmt.Sprintf("cannot read %s: %v", e.Message, e.Cause)
}

func (e *FileReadError) Unwrap() error {
	return e.Cause
}
