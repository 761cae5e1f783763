package llm

import "fmt"

// ConfigError represents a misconfigured generation backend, such as a missing API key
// or an unknown provider. It is raised before any request is sent.
type ConfigError struct {
	Message string
	Cause   error
}

func (e *ConfigError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("llm config error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("llm config error: %s", e.Message)
}

func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// APICallError represents a failed generation request
type APICallError struct {
	Message  string
	Provider Provider
	Cause    error
}

func (e *APICallError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("llm call error (%s): %s: %v", e.Provider, e.Message, e.Cause)
	}
	return fmt.Sprintf("llm call error (%s): %s", e.Provider, e.Message)
}

func (e *APICallError) Unwrap() error {
	return e.Cause
}
