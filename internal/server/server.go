// Package server provides the HTTP API for running the part description pipeline and
// browsing runs mirrored to Postgres.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/nxrag/internal/db"
	"github.com/jonathan/nxrag/internal/pipeline"
)

// RunReader is the read side of the run mirror; *db.DB implements it
type RunReader interface {
	ListRuns(ctx context.Context, limit int) ([]db.Run, error)
	GetRun(ctx context.Context, runID uuid.UUID) (*db.Run, error)
	ListArtifacts(ctx context.Context, runID uuid.UUID) ([]db.ArtifactSummary, error)
	GetArtifact(ctx context.Context, runID uuid.UUID, step string) ([]byte, error)
	GetTextArtifact(ctx context.Context, runID uuid.UUID, step string) (string, error)
	DeleteRun(ctx context.Context, runID uuid.UUID) error
}

// Server represents the HTTP server
type Server struct {
	httpServer *http.Server
	base       pipeline.Options
	runs       RunReader
	logger     *zap.Logger
}

// Config holds server configuration
type Config struct {
	Port int
	// Base is applied to every pipeline run; InputPath and Out are set per request
	Base pipeline.Options
	// Runs enables the /runs browsing endpoints; nil disables them
	Runs   RunReader
	Logger *zap.Logger
}

// New creates a new server instance
func New(cfg Config) *Server {
	s := &Server{
		base:   cfg.Base,
		runs:   cfg.Runs,
		logger: cfg.Logger,
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 300 * time.Second, // Long timeout for pipeline runs
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Handler returns the routed handler with middleware applied
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)

	mux.HandleFunc("POST /runs", s.handleCreateRun)
	mux.HandleFunc("POST /runs/stream", s.handleCreateRunStream)

	mux.HandleFunc("GET /runs", s.handleListRuns)
	mux.HandleFunc("GET /runs/{id}", s.handleGetRun)
	mux.HandleFunc("DELETE /runs/{id}", s.handleDeleteRun)
	mux.HandleFunc("GET /runs/{id}/artifacts", s.handleRunArtifacts)
	mux.HandleFunc("GET /runs/{id}/artifacts/{step}", s.handleRunArtifact)

	return s.withLogging(s.withCORS(mux))
}

// Start serves until ctx is canceled, then shuts down gracefully
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", zap.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	s.logger.Info("server stopped")
	return nil
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("remote", r.RemoteAddr),
			zap.Duration("elapsed", time.Since(start)))
	})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Warn("failed to encode JSON response", zap.Error(err))
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}
