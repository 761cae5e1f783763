//go:build integration
// +build integration

package db

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *DB {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Skip("Skipping integration test: DATABASE_URL not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	db, err := Connect(ctx, dbURL)
	if err != nil {
		t.Skipf("Skipping integration test: failed to connect to DB: %v", err)
	}
	require.NoError(t, db.EnsureSchema(ctx))
	return db
}

func TestRunLifecycle_Integration(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	ctx := context.Background()

	runID, err := db.CreateRun(ctx, RunInput{
		RunDir:     t.TempDir(),
		InputPath:  "assets/samples/nx_code/sample_nxopen_export.py",
		SourceType: "nxopen_script_text",
		PartName:   "Bracket",
		Provider:   "stub",
		Model:      "gemini-2.5-flash",
	})
	require.NoError(t, err)
	defer func() { _ = db.DeleteRun(ctx, runID) }()

	require.NoError(t, db.SaveArtifact(ctx, runID, StepIR, map[string]any{"ir_version": "v1"}))
	require.NoError(t, db.SaveTextArtifact(ctx, runID, StepPrompt, "prompt text"))
	require.NoError(t, db.CompleteRun(ctx, runID, RunOutcome{Attempts: 2, RetryUsed: true, ValidationOK: true}))

	run, err := db.GetRun(ctx, runID)
	require.NoError(t, err)
	require.NotNil(t, run)
	assert.Equal(t, RunStatusCompleted, run.Status)
	require.NotNil(t, run.Attempts)
	assert.Equal(t, 2, *run.Attempts)
	require.NotNil(t, run.PartName)
	assert.Equal(t, "Bracket", *run.PartName)

	content, err := db.GetArtifact(ctx, runID, StepIR)
	require.NoError(t, err)
	assert.JSONEq(t, `{"ir_version":"v1"}`, string(content))

	text, err := db.GetTextArtifact(ctx, runID, StepPrompt)
	require.NoError(t, err)
	assert.Equal(t, "prompt text", text)

	summaries, err := db.ListArtifacts(ctx, runID)
	require.NoError(t, err)
	assert.Len(t, summaries, 2)
}

func TestFailRun_Integration(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	ctx := context.Background()

	runID, err := db.CreateRun(ctx, RunInput{RunDir: "x", InputPath: "x.txt", SourceType: "plain_text", Provider: "gemini", Model: "m"})
	require.NoError(t, err)
	defer func() { _ = db.DeleteRun(ctx, runID) }()

	require.NoError(t, db.FailRun(ctx, runID, "api call failed"))

	run, err := db.GetRun(ctx, runID)
	require.NoError(t, err)
	assert.Equal(t, RunStatusFailed, run.Status)
	require.NotNil(t, run.ErrorMessage)
	assert.Equal(t, "api call failed", *run.ErrorMessage)
	assert.Nil(t, run.PartName)
}
