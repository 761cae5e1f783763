package db

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArtifactStepsHaveCategories(t *testing.T) {
	steps := []string{
		StepInputMeta,
		StepIR,
		StepIRSummary,
		StepRetrieval,
		StepPrompt,
		StepRetryPrompt,
		StepGeneration,
		StepOutput,
		StepDocument,
	}

	for _, step := range steps {
		assert.NotEmpty(t, StepCategory[step], "step %s should have a category", step)
	}
	assert.Len(t, StepCategory, len(steps))
}

func TestRunType(t *testing.T) {
	run := Run{
		RunDir:   "var/runs/20240101T000000Z_bracket_0123abcd",
		Provider: "stub",
		Status:   RunStatusRunning,
	}

	assert.Equal(t, RunStatusRunning, run.Status)
	assert.Nil(t, run.CompletedAt)
	assert.Nil(t, run.PartName)
}

func TestArtifactJSON(t *testing.T) {
	raw := json.RawMessage(`{"ir_version":"v1"}`)
	data, err := artifactJSON(raw)
	require.NoError(t, err)
	assert.JSONEq(t, `{"ir_version":"v1"}`, string(data))

	data, err = artifactJSON([]byte(`{"ok":true}`))
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true}`, string(data))

	_, err = artifactJSON([]byte(`not json`))
	assert.Error(t, err)

	data, err = artifactJSON(map[string]int{"attempts": 2})
	require.NoError(t, err)
	assert.JSONEq(t, `{"attempts":2}`, string(data))
}

func TestSchemaSQLEmbedded(t *testing.T) {
	assert.Contains(t, schemaSQL, "CREATE TABLE IF NOT EXISTS pipeline_runs")
	assert.Contains(t, schemaSQL, "CREATE TABLE IF NOT EXISTS artifacts")
}
