// Package repair runs generation with a single corrective retry when validation fails.
package repair

import "fmt"

// GenerationError represents a failed generation call on a given attempt
type GenerationError struct {
	Attempt int
	Cause   error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("repair generation error: attempt %d: %v", e.Attempt, e.Cause)
}

func (e *GenerationError) Unwrap() error {
	return e.Cause
}
