package download

import (
	"Gramcache/internal/core/downloads"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"
)

// writeJSON writes a JSON response with the given status.
func writeJSON(w http.ResponseWriter, log zerolog.Logger, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		// Headers are already sent, all we can do is log
		log.Error().Err(err).Msg("failed to encode response")
	}
}

// writeError writes the standard failure envelope.
func writeError(w http.ResponseWriter, log zerolog.Logger, status int, message string) {
	writeJSON(w, log, status, map[string]any{
		"success": false,
		"error":   message,
	})
}

// handleServiceError maps resolve errors to HTTP responses. Extraction
// failures keep their reason in the body; anything unexpected gets a
// generic message so internals don't leak.
func handleServiceError(w http.ResponseWriter, log zerolog.Logger, err error) {
	switch {
	case errors.Is(err, downloads.ErrUnsupportedURL):
		writeError(w, log, http.StatusBadRequest, err.Error())
	case downloads.IsExtractionFailed(err):
		log.Warn().Err(err).Msg("extraction failed")
		writeError(w, log, http.StatusInternalServerError, err.Error())
	default:
		log.Error().Err(err).Msg("download service error")
		writeError(w, log, http.StatusInternalServerError, "an unexpected error occurred")
	}
}
