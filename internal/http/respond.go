package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"budgetwise/internal/budget"
	"budgetwise/internal/core"
	"budgetwise/internal/store"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.ErrorContext(r.Context(), "Failed to encode response",
			"error", err, "path", r.URL.Path)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, errorResponse{Error: msg})
}

// writeServiceError maps service and store errors onto HTTP statuses.
// Anything unrecognized is a 500 with a generic body; the detail goes to the
// log, not the client.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, budget.ErrNotFound):
		writeError(w, r, http.StatusNotFound, "record not found")
	case errors.Is(err, budget.ErrAlertExists):
		writeError(w, r, http.StatusConflict, "an alert already exists for this category")
	case errors.Is(err, store.ErrNotReady):
		w.Header().Set("Retry-After", "1")
		writeError(w, r, http.StatusServiceUnavailable, "store is not ready yet")
	case isValidationError(err):
		writeError(w, r, http.StatusUnprocessableEntity, err.Error())
	default:
		slog.ErrorContext(r.Context(), "Request failed",
			"error", err, "method", r.Method, "path", r.URL.Path)
		writeError(w, r, http.StatusInternalServerError, "internal error")
	}
}

func isValidationError(err error) bool {
	return errors.Is(err, core.ErrInvalidAmount) ||
		errors.Is(err, core.ErrInvalidDate) ||
		errors.Is(err, core.ErrInvalidCategory) ||
		errors.Is(err, core.ErrInvalidLimit) ||
		errors.Is(err, core.ErrEmptySource) ||
		errors.Is(err, core.ErrLongDescription)
}
