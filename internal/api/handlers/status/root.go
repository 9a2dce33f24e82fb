package status

import (
	"Gramcache/internal/core/downloads"
	"errors"
	"net/http"

	"github.com/rs/zerolog"
)

// RootHandler serves the service banner with cache counts
type RootHandler struct {
	service downloads.Service
	store   StoreState
	name    string
	log     zerolog.Logger
}

// NewRootHandler creates a new root status handler
func NewRootHandler(service downloads.Service, store StoreState, name string, log zerolog.Logger) *RootHandler {
	return &RootHandler{
		service: service,
		store:   store,
		name:    name,
		log:     log.With().Str("handler", "root").Logger(),
	}
}

// HandleRoot reports overall service status.
// GET /
// Cache counts are best-effort: a degraded store yields the banner
// without them, never an error.
func (h *RootHandler) HandleRoot(w http.ResponseWriter, r *http.Request) {
	payload := map[string]any{
		"status":  "online",
		"service": h.name,
		"db":      storeLabel(h.store),
	}

	stats, err := h.service.Stats(r.Context())
	switch {
	case err == nil:
		payload["downloads"] = stats
	case errors.Is(err, downloads.ErrStoreUnavailable):
		// Expected while degraded, nothing to add
	default:
		h.log.Warn().Err(err).Msg("failed to load cache stats")
	}

	writeJSON(w, h.log, http.StatusOK, payload)
}
