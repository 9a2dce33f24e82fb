package session

import (
	"Gramcache/internal/core/sessions"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"
)

func writeJSON(w http.ResponseWriter, log zerolog.Logger, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}

func writeError(w http.ResponseWriter, log zerolog.Logger, status int, message string) {
	writeJSON(w, log, status, map[string]any{
		"success": false,
		"error":   message,
	})
}

// handleServiceError maps session errors to HTTP responses. A degraded
// store answers 200 with an explicit marker rather than an error status.
func handleServiceError(w http.ResponseWriter, log zerolog.Logger, err error) {
	switch {
	case errors.Is(err, sessions.ErrSessionKeyRequired):
		writeError(w, log, http.StatusBadRequest, err.Error())
	case errors.Is(err, sessions.ErrSessionNotFound):
		writeError(w, log, http.StatusNotFound, err.Error())
	case errors.Is(err, sessions.ErrStoreUnavailable):
		writeJSON(w, log, http.StatusOK, map[string]any{
			"success": false,
			"db":      "unavailable",
		})
	default:
		log.Error().Err(err).Msg("session service error")
		writeError(w, log, http.StatusInternalServerError, "an unexpected error occurred")
	}
}
