package controller

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/jbeshir/template-catalog/internal/domain"
)

type errorResponse struct {
	Error string `json:"error"`
}

// statusForError maps command errors onto HTTP statuses. targetNotFound is the status used
// when the resource being acted on could not be resolved, which differs between endpoints.
func statusForError(err error, targetNotFound int) int {
	switch {
	case errors.Is(err, domain.ErrActorNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrTargetNotFound):
		return targetNotFound
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidKind), errors.Is(err, domain.ErrValidationFailed):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrConstraintViolation):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// writeCommandError logs err and writes the mapped status. Client errors carry the error
// message; server errors carry no detail.
func writeCommandError(ctx context.Context, w http.ResponseWriter, err error, msg string, targetNotFound int) {
	logger := domain.LoggerFromContext(ctx)
	status := statusForError(err, targetNotFound)

	if status >= http.StatusInternalServerError {
		logger.ErrorContext(ctx, msg, "error", err)
		w.WriteHeader(status)
		return
	}

	logger.InfoContext(ctx, msg, "error", err, "status", status)
	writeJSON(ctx, w, status, errorResponse{Error: err.Error()})
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger := domain.LoggerFromContext(ctx)
		logger.ErrorContext(ctx, "unable to write response", "error", err)
	}
}
