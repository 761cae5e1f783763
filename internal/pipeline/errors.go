package pipeline

import "fmt"

// TemplateError represents a missing or unreadable prompt template. It is raised before
// any generation call.
type TemplateError struct {
	Message string
	Path    string
	Cause   error
}

func (e *TemplateError) Error() string {
	msg := fmt.Sprintf("template error: %s", e.Message)
	if e.Path != "" {
		msg = fmt.Sprintf("%s (path: %s)", msg, e.Path)
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *TemplateError) Unwrap() error {
	return e.Cause
}

// ArtifactError represents an artifact that failed to serialize or to match its schema.
// It indicates a bug, not bad input.
type ArtifactError struct {
	Name  string
	Cause error
}

func (e *ArtifactError) Error() string {
	return fmt.Sprintf("artifact error: %s: %v", e.Name, e.Cause)
}

func (e *ArtifactError) Unwrap() error {
	return e.Cause
}
