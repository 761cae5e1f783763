package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/jonathan/nxrag/internal/ingestion"
	"github.com/jonathan/nxrag/internal/repair"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrRunNotFound indicates a run id with no mirrored run
type ErrRunNotFound struct {
	RunID uuid.UUID
}

func (e *ErrRunNotFound) Error() string {
	return fmt.Sprintf("run not found: %s", e.RunID)
}

// ErrPersistenceDisabled indicates the server has no database to read runs from
type ErrPersistenceDisabled struct{}

func (e *ErrPersistenceDisabled) Error() string {
	return "database persistence is not configured"
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		validationErr *ErrValidation
		inputErr      *ingestion.InputError
		notFoundErr   *ErrRunNotFound
		disabledErr   *ErrPersistenceDisabled
		genErr        *repair.GenerationError
	)
	switch {
	case errors.As(err, &validationErr), errors.As(err, &inputErr):
		return http.StatusBadRequest
	case errors.As(err, &notFoundErr):
		return http.StatusNotFound
	case errors.As(err, &disabledErr):
		return http.StatusServiceUnavailable
	case errors.As(err, &genErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
