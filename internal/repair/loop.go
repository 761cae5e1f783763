package repair

import (
	"context"
	"strings"

	"github.com/jonathan/nxrag/internal/llm"
	"github.com/jonathan/nxrag/internal/prompts"
	"github.com/jonathan/nxrag/internal/types"
)

// MaxAttempts bounds generation calls per run: the first attempt plus one retry
const MaxAttempts = 2

// State is a step in the generate/validate/retry state machine
type State string

// States, in the order a run can visit them
const (
	StateGenerated      State = "generated"
	StateValidatedOK    State = "validated_ok"
	StateValidatedFail  State = "validated_fail"
	StateRetried        State = "retried"
	StateValidatedFinal State = "validated_final"
)

// ValidateFunc checks one completion
type ValidateFunc func(output string) types.Validation

// Outcome is the result of RunCorrectiveRetry. On error it holds whatever was reached,
// so callers can still persist the retry prompt.
type Outcome struct {
	Completion  string
	Validation  types.Validation
	Attempts    int
	RetryUsed   bool
	RetryPrompt string
	States      []State
}

// RunCorrectiveRetry generates once, validates, and on failure regenerates exactly once with
// the corrective suffix appended to the original prompt. The retry completion is accepted
// whatever its validation says; there is no third call.
func RunCorrectiveRetry(ctx context.Context, client llm.Client, packed types.PackedPrompt, validate ValidateFunc) (*Outcome, error) {
	outcome := &Outcome{}

	completion, err := client.Complete(ctx, packed.Prompt)
	outcome.Attempts++
	if err != nil {
		return outcome, &GenerationError{Attempt: outcome.Attempts, Cause: err}
	}
	outcome.States = append(outcome.States, StateGenerated)
	outcome.Completion = strings.TrimSpace(completion)
	outcome.Validation = validate(outcome.Completion)

	if outcome.Validation.OK {
		outcome.States = append(outcome.States, StateValidatedOK)
		return outcome, nil
	}
	outcome.States = append(outcome.States, StateValidatedFail)

	outcome.RetryPrompt = RetryPrompt(packed.Prompt, outcome.Validation.Missing)
	outcome.RetryUsed = true

	retried, err := client.Complete(ctx, outcome.RetryPrompt)
	outcome.Attempts++
	if err != nil {
		return outcome, &GenerationError{Attempt: outcome.Attempts, Cause: err}
	}
	outcome.States = append(outcome.States, StateRetried)
	outcome.Completion = strings.TrimSpace(retried)
	outcome.Validation = validate(outcome.Completion)
	outcome.States = append(outcome.States, StateValidatedFinal)

	return outcome, nil
}

// RetryPrompt appends the corrective instruction listing missing items to the original prompt.
func RetryPrompt(prompt string, missing []string) string {
	return prompt + prompts.CorrectiveSuffix(missing)
}
