// Package db mirrors pipeline runs and their artifacts into PostgreSQL.
package db

import (
	"context"
	_ "embed"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed schema.sql
var schemaSQL string

// DB wraps a PostgreSQL connection pool
type DB struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the connection pool
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

// EnsureSchema creates the runs and artifacts tables when they do not exist
func (db *DB) EnsureSchema(ctx context.Context) error {
	if _, err := db.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}
	return nil
}

// CreateRun creates a new pipeline run record and returns its ID
func (db *DB) CreateRun(ctx context.Context, input RunInput) (uuid.UUID, error) {
	var partName *string
	if input.PartName != "" {
		partName = &input.PartName
	}

	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`INSERT INTO pipeline_runs (run_dir, input_path, source_type, part_name, provider, model, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id`,
		input.RunDir, input.InputPath, input.SourceType, partName, input.Provider, input.Model, RunStatusRunning,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create run: %w", err)
	}
	return id, nil
}

// CompleteRun marks a pipeline run as completed and records its outcome
func (db *DB) CompleteRun(ctx context.Context, runID uuid.UUID, outcome RunOutcome) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE pipeline_runs
		 SET status = $1, attempts = $2, retry_used = $3, validation_ok = $4, completed_at = NOW()
		 WHERE id = $5`,
		RunStatusCompleted, outcome.Attempts, outcome.RetryUsed, outcome.ValidationOK, runID,
	)
	if err != nil {
		return fmt.Errorf("failed to complete run: %w", err)
	}
	return nil
}

// FailRun marks a pipeline run as failed with the error that stopped it
func (db *DB) FailRun(ctx context.Context, runID uuid.UUID, message string) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE pipeline_runs SET status = $1, error_message = $2, completed_at = NOW() WHERE id = $3`,
		RunStatusFailed, message, runID,
	)
	if err != nil {
		return fmt.Errorf("failed to mark run failed: %w", err)
	}
	return nil
}

const runColumns = `id, run_dir, input_path, source_type, part_name, provider, model, status,
	attempts, retry_used, validation_ok, error_message, created_at, completed_at`

func scanRun(row pgx.Row) (*Run, error) {
	var run Run
	err := row.Scan(&run.ID, &run.RunDir, &run.InputPath, &run.SourceType, &run.PartName,
		&run.Provider, &run.Model, &run.Status, &run.Attempts, &run.RetryUsed, &run.ValidationOK,
		&run.ErrorMessage, &run.CreatedAt, &run.CompletedAt)
	if err != nil {
		return nil, err
	}
	return &run, nil
}

// GetRun retrieves a pipeline run by ID. It returns nil when the run does not exist.
func (db *DB) GetRun(ctx context.Context, runID uuid.UUID) (*Run, error) {
	run, err := scanRun(db.pool.QueryRow(ctx,
		`SELECT `+runColumns+` FROM pipeline_runs WHERE id = $1`, runID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return run, nil
}

// ListRuns retrieves recent pipeline runs
func (db *DB) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := db.pool.Query(ctx,
		`SELECT `+runColumns+` FROM pipeline_runs ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, *run)
	}
	return runs, rows.Err()
}

// DeleteRun deletes a pipeline run and all its artifacts (via cascade)
func (db *DB) DeleteRun(ctx context.Context, runID uuid.UUID) error {
	result, err := db.pool.Exec(ctx, `DELETE FROM pipeline_runs WHERE id = $1`, runID)
	if err != nil {
		return fmt.Errorf("failed to delete run: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("run not found: %s", runID)
	}
	return nil
}
