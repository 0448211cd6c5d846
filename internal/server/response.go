package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/splitfair/splitfair/internal/models"
)

// envelope is the common JSON response shape.
type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(envelope{Success: true, Data: data}); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// writeError translates domain errors into protocol status codes:
// not-found -> 404, conflict -> 409, validation -> 400, everything
// else -> 500 with a generic message.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	message := "internal error"

	switch {
	case errors.Is(err, models.ErrGroupNotFound),
		errors.Is(err, models.ErrExpenseNotFound),
		errors.Is(err, models.ErrMemberNotFound):
		status = http.StatusNotFound
		message = err.Error()
	case errors.Is(err, models.ErrNothingToSettle):
		status = http.StatusConflict
		message = err.Error()
	case models.IsValidation(err):
		status = http.StatusBadRequest
		message = err.Error()
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if encErr := json.NewEncoder(w).Encode(envelope{Success: false, Message: message}); encErr != nil {
		slog.Error("failed to encode error response", "error", encErr)
	}
}

// decodeBody decodes a JSON request body, rejecting unknown fields.
func decodeBody(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return models.NewValidationError("invalid request body: " + err.Error())
	}
	return nil
}
