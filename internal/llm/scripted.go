package llm

import (
	"context"
	"fmt"
	"os"
	"sync"
)

// ScriptedClient replays fixed completions in order and repeats the last one once exhausted
type ScriptedClient struct {
	model       string
	completions []string

	mu    sync.Mutex
	calls int
}

// NewScriptedClient creates a client that answers with completions in order
func NewScriptedClient(model string, completions ...string) *ScriptedClient {
	if model == "" {
		model = DefaultModel
	}
	return &ScriptedClient{model: model, completions: completions}
}

// NewScriptedClientFromFiles loads one completion per file, in order
func NewScriptedClientFromFiles(model string, paths []string) (*ScriptedClient, error) {
	if len(paths) == 0 {
		return nil, &ConfigError{Message: "replay requires at least one completion file"}
	}
	completions := make([]string, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, &ConfigError{Message: fmt.Sprintf("failed to read replay file %s", path), Cause: err}
		}
		completions = append(completions, string(data))
	}
	return NewScriptedClient(model, completions...), nil
}

// Complete returns the next scripted completion
func (c *ScriptedClient) Complete(ctx context.Context, _ string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", &APICallError{Message: "request canceled", Provider: c.Provider(), Cause: err}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.completions) == 0 {
		return "", &APICallError{Message: "no scripted completions", Provider: c.Provider()}
	}
	idx := min(c.calls, len(c.completions)-1)
	c.calls++
	return c.completions[idx], nil
}

// Calls returns how many completions were requested
func (c *ScriptedClient) Calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

// Model returns the reported model id
func (c *ScriptedClient) Model() string {
	return c.model
}

// Provider returns ProviderScripted
func (c *ScriptedClient) Provider() Provider {
	return ProviderScripted
}

// Close is a no-op
func (c *ScriptedClient) Close() error {
	return nil
}
