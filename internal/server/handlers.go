package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/nxrag/internal/pipeline"
	"github.com/jonathan/nxrag/internal/types"
)

// defaultUploadName is used when a request gives no usable file name
const defaultUploadName = "input.txt"

// RunRequest is the body of POST /runs: the input text and the name it would have on disk.
// The extension of FileName drives source type detection unless SourceType is set.
type RunRequest struct {
	FileName   string `json:"file_name"`
	Text       string `json:"text"`
	SourceType string `json:"source_type,omitempty"`
}

func (req *RunRequest) validate() error {
	if strings.TrimSpace(req.Text) == "" {
		return &ErrValidation{Field: "text", Message: "is required"}
	}
	switch types.SourceType(req.SourceType) {
	case "", types.SourceNXOpenScript, types.SourcePlainText, types.SourceMarkdown:
		return nil
	default:
		return &ErrValidation{Field: "source_type", Message: "must be nxopen_script_text, plain_text or markdown"}
	}
}

func (req *RunRequest) uploadName() string {
	name := filepath.Base(strings.TrimSpace(req.FileName))
	if name == "" || name == "." || name == string(filepath.Separator) {
		return defaultUploadName
	}
	return name
}

// RunResponse summarizes a finished run
type RunResponse struct {
	RunID      string           `json:"run_id"`
	RunDir     string           `json:"run_dir"`
	DBRunID    *uuid.UUID       `json:"db_run_id,omitempty"`
	PartName   string           `json:"part_name,omitempty"`
	Attempts   int              `json:"attempts"`
	RetryUsed  bool             `json:"retry_used"`
	Validation types.Validation `json:"validation"`
	Completion string           `json:"completion"`
	Artifacts  []string         `json:"artifacts"`
}

func newRunResponse(result *pipeline.Result) RunResponse {
	resp := RunResponse{
		RunID:      result.RunID,
		RunDir:     filepath.ToSlash(result.RunDir),
		PartName:   result.IR.PartName(),
		Attempts:   result.Generation.Attempts,
		RetryUsed:  result.Generation.RetryUsed,
		Validation: result.Generation.Validation,
		Completion: result.Completion,
		Artifacts:  make([]string, 0, len(result.Artifacts)),
	}
	if result.DBRunID != uuid.Nil {
		id := result.DBRunID
		resp.DBRunID = &id
	}
	for _, path := range result.Artifacts {
		resp.Artifacts = append(resp.Artifacts, filepath.Base(path))
	}
	return resp
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"status":      "ok",
		"persistence": s.runs != nil,
	})
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	s.errorResponse(w, HTTPStatus(err), err.Error())
}

func (s *Server) decodeRunRequest(r *http.Request) (*RunRequest, error) {
	var req RunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, &ErrValidation{Field: "body", Message: "invalid JSON: " + err.Error()}
	}
	if err := req.validate(); err != nil {
		return nil, err
	}
	return &req, nil
}

// runRequest writes the uploaded text to a scratch file and runs the pipeline on it
func (s *Server) runRequest(ctx context.Context, req *RunRequest, out io.Writer) (*pipeline.Result, error) {
	dir, err := os.MkdirTemp("", "nxrag-upload-")
	if err != nil {
		return nil, err
	}
	defer func() { _ = os.RemoveAll(dir) }()

	name := req.uploadName()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(req.Text), 0600); err != nil {
		return nil, err
	}

	opts := s.base
	opts.InputPath = path
	opts.SourceType = types.SourceType(req.SourceType)
	opts.Out = out
	opts.Logger = s.logger.With(zap.String("file_name", name))
	return pipeline.RunPipeline(ctx, opts)
}

// handleCreateRun runs the pipeline synchronously and returns the outcome
func (s *Server) handleCreateRun(w http.ResponseWriter, r *http.Request) {
	req, err := s.decodeRunRequest(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	result, err := s.runRequest(r.Context(), req, io.Discard)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, newRunResponse(result))
}

// handleCreateRunStream runs the pipeline and streams step banners as SSE progress events
func (s *Server) handleCreateRunStream(w http.ResponseWriter, r *http.Request) {
	req, err := s.decodeRunRequest(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	sse, err := NewSSEWriter(w)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	progress := newProgressWriter(sse)
	result, err := s.runRequest(r.Context(), req, progress)
	progress.Flush()
	if err != nil {
		sse.WriteError(err.Error())
		return
	}
	sse.WriteComplete(newRunResponse(result))
}

func (s *Server) requireRuns() error {
	if s.runs == nil {
		return &ErrPersistenceDisabled{}
	}
	return nil
}

func parseRunID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		return uuid.Nil, &ErrValidation{Field: "id", Message: "invalid run ID format"}
	}
	return id, nil
}

// lookupRun resolves the {id} path value to an existing run
func (s *Server) lookupRun(r *http.Request) (uuid.UUID, error) {
	if err := s.requireRuns(); err != nil {
		return uuid.Nil, err
	}
	id, err := parseRunID(r)
	if err != nil {
		return uuid.Nil, err
	}
	run, err := s.runs.GetRun(r.Context(), id)
	if err != nil {
		return uuid.Nil, err
	}
	if run == nil {
		return uuid.Nil, &ErrRunNotFound{RunID: id}
	}
	return id, nil
}

// handleListRuns lists recent mirrored runs
func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	if err := s.requireRuns(); err != nil {
		s.writeError(w, err)
		return
	}

	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			s.writeError(w, &ErrValidation{Field: "limit", Message: "must be a non-negative integer"})
			return
		}
		limit = n
	}

	runs, err := s.runs.ListRuns(r.Context(), limit)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"runs":  runs,
		"count": len(runs),
	})
}

// handleGetRun returns one mirrored run
func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	if err := s.requireRuns(); err != nil {
		s.writeError(w, err)
		return
	}
	id, err := parseRunID(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	run, err := s.runs.GetRun(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if run == nil {
		s.writeError(w, &ErrRunNotFound{RunID: id})
		return
	}
	s.jsonResponse(w, http.StatusOK, run)
}

// handleDeleteRun deletes a mirrored run and its artifacts
func (s *Server) handleDeleteRun(w http.ResponseWriter, r *http.Request) {
	id, err := s.lookupRun(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.runs.DeleteRun(r.Context(), id); err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "deleted", "id": id.String()})
}

// handleRunArtifacts lists the artifacts mirrored for a run
func (s *Server) handleRunArtifacts(w http.ResponseWriter, r *http.Request) {
	id, err := s.lookupRun(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	artifacts, err := s.runs.ListArtifacts(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"artifacts": artifacts,
		"count":     len(artifacts),
	})
}

// handleRunArtifact returns one artifact: JSON artifacts as stored, text artifacts as text/plain
func (s *Server) handleRunArtifact(w http.ResponseWriter, r *http.Request) {
	id, err := s.lookupRun(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	step := r.PathValue("step")

	content, err := s.runs.GetArtifact(r.Context(), id, step)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if content != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(content)
		return
	}

	text, err := s.runs.GetTextArtifact(r.Context(), id, step)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if text == "" {
		s.errorResponse(w, http.StatusNotFound, "artifact not found: "+step)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, text)
}
