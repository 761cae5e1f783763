package llm

import (
	"context"
	"fmt"
)

// Client is an abstraction over generation backends
type Client interface {
	// Complete returns the completion for prompt
	Complete(ctx context.Context, prompt string) (string, error)
	// Model returns the model id recorded in run artifacts
	Model() string
	// Provider returns the backend name recorded in run artifacts
	Provider() Provider
	// Close releases any resources held by the client
	Close() error
}

// NewClient creates a client for the configured provider. When RequestsPerMinute is set
// the client is wrapped in a rate limiter.
func NewClient(ctx context.Context, config *Config) (Client, error) {
	if config == nil {
		config = DefaultConfig()
	}

	var (
		client Client
		err    error
	)
	switch ParseProvider(string(config.Provider)) {
	case ProviderStub:
		client = NewStubClient(config.Model)
	case ProviderGemini:
		client, err = NewGeminiClient(ctx, config)
	default:
		return nil, &ConfigError{Message: fmt.Sprintf("unknown provider %q (expected %q or %q)", config.Provider, ProviderStub, ProviderGemini)}
	}
	if err != nil {
		return nil, err
	}

	if config.RequestsPerMinute > 0 {
		client = NewRateLimitedClient(client, config.RequestsPerMinute)
	}
	return client, nil
}
