package preference

import (
	"Gramcache/internal/core/preferences"
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

// handleServiceError maps preference errors to HTTP responses.
func handleServiceError(w http.ResponseWriter, log zerolog.Logger, err error) {
	switch {
	case errors.Is(err, preferences.ErrUserKeyRequired),
		errors.Is(err, preferences.ErrNameRequired),
		errors.Is(err, preferences.ErrValueRequired):
		writeError(w, log, http.StatusBadRequest, err.Error())
	case errors.Is(err, preferences.ErrPreferenceNotFound):
		writeError(w, log, http.StatusNotFound, err.Error())
	case errors.Is(err, preferences.ErrStoreUnavailable):
		writeJSON(w, log, http.StatusOK, map[string]any{
			"success": false,
			"db":      "unavailable",
		})
	default:
		log.Error().Err(err).Msg("preference service error")
		writeError(w, log, http.StatusInternalServerError, "an unexpected error occurred")
	}
}
