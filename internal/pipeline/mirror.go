package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/nxrag/internal/db"
)

// RunStore is where runs are mirrored; *db.DB implements it
type RunStore interface {
	CreateRun(ctx context.Context, input db.RunInput) (uuid.UUID, error)
	SaveArtifact(ctx context.Context, runID uuid.UUID, step string, content any) error
	SaveTextArtifact(ctx context.Context, runID uuid.UUID, step, text string) error
	CompleteRun(ctx context.Context, runID uuid.UUID, outcome db.RunOutcome) error
	FailRun(ctx context.Context, runID uuid.UUID, message string) error
}

// mirror copies a run into a RunStore. Every failure is reported as a warning and
// never stops the run; a nil store turns every method into a no-op.
type mirror struct {
	store  RunStore
	runID  uuid.UUID
	out    io.Writer
	logger *zap.Logger
}

//nolint:errcheck // progress output; errors are not recoverable
func (m *mirror) warn(msg string, err error) {
	fmt.Fprintf(m.out, "Warning: %s: %v\n", msg, err)
	m.logger.Warn(msg, zap.Error(err))
}

func (m *mirror) active() bool {
	return m != nil && m.store != nil && m.runID != uuid.Nil
}

func (m *mirror) createRun(ctx context.Context, input db.RunInput) {
	if m == nil || m.store == nil {
		return
	}
	id, err := m.store.CreateRun(ctx, input)
	if err != nil {
		m.warn("failed to create database run", err)
		return
	}
	m.runID = id
	m.logger.Debug("created database run", zap.String("db_run_id", id.String()))
}

func (m *mirror) saveJSON(ctx context.Context, step string, data []byte) {
	if !m.active() {
		return
	}
	if err := m.store.SaveArtifact(ctx, m.runID, step, json.RawMessage(data)); err != nil {
		m.warn("failed to mirror artifact "+step, err)
	}
}

func (m *mirror) saveText(ctx context.Context, step, text string) {
	if !m.active() {
		return
	}
	if err := m.store.SaveTextArtifact(ctx, m.runID, step, text); err != nil {
		m.warn("failed to mirror artifact "+step, err)
	}
}

func (m *mirror) complete(ctx context.Context, outcome db.RunOutcome) {
	if !m.active() {
		return
	}
	if err := m.store.CompleteRun(ctx, m.runID, outcome); err != nil {
		m.warn("failed to complete database run", err)
	}
}

func (m *mirror) fail(ctx context.Context, cause error) {
	if !m.active() {
		return
	}
	if err := m.store.FailRun(ctx, m.runID, cause.Error()); err != nil {
		m.warn("failed to mark database run failed", err)
	}
}

// id returns the mirrored run id, or uuid.Nil when not mirrored
func (m *mirror) id() uuid.UUID {
	if m == nil {
		return uuid.Nil
	}
	return m.runID
}
