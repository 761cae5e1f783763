package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// SaveArtifact stores a JSON artifact for a pipeline run. Raw JSON bytes are stored as-is.
func (db *DB) SaveArtifact(ctx context.Context, runID uuid.UUID, step string, content any) error {
	jsonBytes, err := artifactJSON(content)
	if err != nil {
		return fmt.Errorf("failed to marshal artifact: %w", err)
	}

	_, err = db.pool.Exec(ctx,
		`INSERT INTO artifacts (run_id, step, category, content)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (run_id, step) DO UPDATE SET category = $3, content = $4, created_at = NOW()`,
		runID, step, StepCategory[step], jsonBytes,
	)
	if err != nil {
		return fmt.Errorf("failed to save artifact %s: %w", step, err)
	}
	return nil
}

// SaveTextArtifact stores a text artifact (prompt, summary, Markdown) for a pipeline run
func (db *DB) SaveTextArtifact(ctx context.Context, runID uuid.UUID, step, text string) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO artifacts (run_id, step, category, text_content)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (run_id, step) DO UPDATE SET category = $3, text_content = $4, created_at = NOW()`,
		runID, step, StepCategory[step], text,
	)
	if err != nil {
		return fmt.Errorf("failed to save text artifact %s: %w", step, err)
	}
	return nil
}

func artifactJSON(content any) ([]byte, error) {
	switch v := content.(type) {
	case json.RawMessage:
		return v, nil
	case []byte:
		if !json.Valid(v) {
			return nil, fmt.Errorf("artifact bytes are not valid JSON")
		}
		return v, nil
	default:
		return json.Marshal(content)
	}
}

// GetArtifact retrieves a JSON artifact by run ID and step. It returns nil when absent.
func (db *DB) GetArtifact(ctx context.Context, runID uuid.UUID, step string) ([]byte, error) {
	var content []byte
	err := db.pool.QueryRow(ctx,
		`SELECT content FROM artifacts WHERE run_id = $1 AND step = $2`,
		runID, step,
	).Scan(&content)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get artifact %s: %w", step, err)
	}
	return content, nil
}

// GetTextArtifact retrieves a text artifact by run ID and step
func (db *DB) GetTextArtifact(ctx context.Context, runID uuid.UUID, step string) (string, error) {
	var text *string
	err := db.pool.QueryRow(ctx,
		`SELECT text_content FROM artifacts WHERE run_id = $1 AND step = $2`,
		runID, step,
	).Scan(&text)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("failed to get text artifact %s: %w", step, err)
	}
	if text == nil {
		return "", nil
	}
	return *text, nil
}

// ListArtifacts lists the artifacts of a run in the order they were saved
func (db *DB) ListArtifacts(ctx context.Context, runID uuid.UUID) ([]ArtifactSummary, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, step, COALESCE(category, ''), created_at,
		        content IS NOT NULL AS has_json, text_content IS NOT NULL AS has_text
		 FROM artifacts WHERE run_id = $1 ORDER BY created_at, step`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list artifacts: %w", err)
	}
	defer rows.Close()

	var summaries []ArtifactSummary
	for rows.Next() {
		var s ArtifactSummary
		if err := rows.Scan(&s.ID, &s.Step, &s.Category, &s.CreatedAt, &s.HasJSON, &s.HasText); err != nil {
			return nil, fmt.Errorf("failed to scan artifact: %w", err)
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}
