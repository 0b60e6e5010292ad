package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/crucial707/hrms/internal/service"
	"github.com/rs/zerolog"
)

// ErrMessageInternal is the generic message for 500 responses. Do not expose internal details to clients.
const ErrMessageInternal = "internal server error"

// JSONError sends a JSON error response with a single "error" field.
func JSONError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// JSONValidationError sends a JSON error response with "error" and optional "fields" for field-level details.
func JSONValidationError(w http.ResponseWriter, message string, fields map[string]string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	out := map[string]any{"error": message}
	if len(fields) > 0 {
		out["fields"] = fields
	}
	json.NewEncoder(w).Encode(out)
}

// writeServiceError maps a service error to a response. notFound is the
// message used for ErrNotFound. Unexpected errors are logged and answered
// with a generic 500.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, notFound string) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		JSONValidationError(w, verr.Message, verr.Fields, http.StatusBadRequest)
	case errors.Is(err, service.ErrNotFound):
		JSONError(w, notFound, http.StatusNotFound)
	case errors.Is(err, service.ErrEmailTaken):
		JSONError(w, "Email already exists", http.StatusBadRequest)
	case errors.Is(err, service.ErrInvalidCredentials):
		JSONError(w, "Invalid email or password", http.StatusBadRequest)
	default:
		zerolog.Ctx(r.Context()).Error().Err(err).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Msg("request failed")
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
	}
}
