package repair

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/nxrag/internal/llm"
	"github.com/jonathan/nxrag/internal/types"
	"github.com/jonathan/nxrag/internal/validation"
)

const exemplar = "6061-T6 aluminum, ±0.05 mm, threadlocker, torque M5 to 4.5 N·m."

func validator(prompt string) ValidateFunc {
	return func(output string) types.Validation {
		return validation.Validate(exemplar, prompt, output)
	}
}

// recordingClient keeps every prompt sent through it
type recordingClient struct {
	llm.Client
	prompts []string
}

func (c *recordingClient) Complete(ctx context.Context, prompt string) (string, error) {
	c.prompts = append(c.prompts, prompt)
	return c.Client.Complete(ctx, prompt)
}

// failingClient errors on the given call number (1-based)
type failingClient struct {
	*llm.ScriptedClient
	failOn int
}

func (c *failingClient) Complete(ctx context.Context, prompt string) (string, error) {
	out, err := c.ScriptedClient.Complete(ctx, prompt)
	if c.ScriptedClient.Calls() == c.failOn {
		return "", errors.New("backend down")
	}
	return out, err
}

func TestRunCorrectiveRetry_FirstAttemptPasses(t *testing.T) {
	packed := types.PackedPrompt{Prompt: "prompt", ExemplarText: exemplar}
	client := llm.NewScriptedClient("m", "  6061-T6, ±0.05 mm, threadlocker, 4.5 N·m\n")

	outcome, err := RunCorrectiveRetry(context.Background(), client, packed, validator(packed.Prompt))
	require.NoError(t, err)

	assert.Equal(t, 1, outcome.Attempts)
	assert.False(t, outcome.RetryUsed)
	assert.Empty(t, outcome.RetryPrompt)
	assert.True(t, outcome.Validation.OK)
	assert.Equal(t, "6061-T6, ±0.05 mm, threadlocker, 4.5 N·m", outcome.Completion)
	assert.Equal(t, []State{StateGenerated, StateValidatedOK}, outcome.States)
	assert.Equal(t, 1, client.Calls())
}

func TestRunCorrectiveRetry_RetryFixes(t *testing.T) {
	packed := types.PackedPrompt{Prompt: "prompt", ExemplarText: exemplar}
	client := &recordingClient{Client: llm.NewScriptedClient("m",
		"6061-T6, ±0.05 mm, threadlocker",
		"6061-T6, ±0.05 mm, threadlocker, 4.5 N·m",
	)}

	outcome, err := RunCorrectiveRetry(context.Background(), client, packed, validator(packed.Prompt))
	require.NoError(t, err)

	assert.Equal(t, 2, outcome.Attempts)
	assert.True(t, outcome.RetryUsed)
	assert.True(t, outcome.Validation.OK)
	assert.Equal(t, []State{StateGenerated, StateValidatedFail, StateRetried, StateValidatedFinal}, outcome.States)

	sent := client.prompts
	require.Len(t, sent, 2)
	assert.Equal(t, "prompt", sent[0])
	assert.True(t, strings.HasPrefix(sent[1], "prompt\n\n---\n\nCORRECTION REQUIRED:"))
	assert.Contains(t, sent[1], "* "+validation.MissingTorque+"\n")
	assert.Equal(t, outcome.RetryPrompt, sent[1])
}

func TestRunCorrectiveRetry_PersistentFailureSurfaced(t *testing.T) {
	packed := types.PackedPrompt{Prompt: "prompt", ExemplarText: exemplar}
	client := llm.NewScriptedClient("m", "nothing useful")

	outcome, err := RunCorrectiveRetry(context.Background(), client, packed, validator(packed.Prompt))
	require.NoError(t, err)

	assert.Equal(t, MaxAttempts, outcome.Attempts)
	assert.Equal(t, 2, client.Calls())
	assert.False(t, outcome.Validation.OK)
	assert.Equal(t, "nothing useful", outcome.Completion)
	assert.NotEmpty(t, outcome.Validation.Missing)
}

func TestRunCorrectiveRetry_GenerationErrors(t *testing.T) {
	packed := types.PackedPrompt{Prompt: "prompt", ExemplarText: exemplar}

	t.Run("first call", func(t *testing.T) {
		client := &failingClient{ScriptedClient: llm.NewScriptedClient("m", "x"), failOn: 1}
		outcome, err := RunCorrectiveRetry(context.Background(), client, packed, validator(packed.Prompt))

		var genErr *GenerationError
		require.ErrorAs(t, err, &genErr)
		assert.Equal(t, 1, genErr.Attempt)
		assert.Empty(t, outcome.RetryPrompt)
	})

	t.Run("retry call", func(t *testing.T) {
		client := &failingClient{ScriptedClient: llm.NewScriptedClient("m", "x"), failOn: 2}
		outcome, err := RunCorrectiveRetry(context.Background(), client, packed, validator(packed.Prompt))

		var genErr *GenerationError
		require.ErrorAs(t, err, &genErr)
		assert.Equal(t, 2, genErr.Attempt)
		assert.NotEmpty(t, outcome.RetryPrompt)
		assert.Contains(t, err.Error(), "backend down")
	})
}
