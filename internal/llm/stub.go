package llm

import (
	"context"

	"github.com/jonathan/nxrag/internal/prompts"
)

// stubPreviewRunes is how much of the prompt the stub echoes back
const stubPreviewRunes = 160

// StubClient is a deterministic offline backend. Its completion always carries the
// exemplar defaults (6061-T6, ±0.05 mm, threadlocker, anti-seize, 4.5 N·m) plus a
// short preview of the prompt, so a run against the sample corpus validates first time.
type StubClient struct {
	model string
}

// NewStubClient creates a stub that reports model as its model id
func NewStubClient(model string) *StubClient {
	if model == "" {
		model = DefaultModel
	}
	return &StubClient{model: model}
}

// Complete renders the fixed stub answer for prompt
func (c *StubClient) Complete(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", &APICallError{Message: "request canceled", Provider: ProviderStub, Cause: err}
	}
	return prompts.Format(prompts.MustGet(prompts.GenerationFile, prompts.KeyStubCompletion), map[string]string{
		"Model":   c.model,
		"Preview": PromptPreview(prompt, stubPreviewRunes),
	}), nil
}

// Model returns the reported model id
func (c *StubClient) Model() string {
	return c.model
}

// Provider returns ProviderStub
func (c *StubClient) Provider() Provider {
	return ProviderStub
}

// Close is a no-op
func (c *StubClient) Close() error {
	return nil
}
