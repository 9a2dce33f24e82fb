package status

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// StoreState reports the cached availability flag for the backing store.
type StoreState interface {
	Available() bool
}

// HealthHandler answers liveness checks
type HealthHandler struct {
	store StoreState
	log   zerolog.Logger
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(store StoreState, log zerolog.Logger) *HealthHandler {
	return &HealthHandler{
		store: store,
		log:   log.With().Str("handler", "health").Logger(),
	}
}

// HandleHealth reports process liveness plus the store flag.
// GET /health
// Reads only the in-memory flag, so a hung database never delays the answer.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.log, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"db":        storeLabel(h.store),
	})
}

func storeLabel(store StoreState) string {
	if store.Available() {
		return "available"
	}
	return "unavailable"
}

func writeJSON(w http.ResponseWriter, log zerolog.Logger, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}
