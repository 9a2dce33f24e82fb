package session

import (
	"Gramcache/internal/core/sessions"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// GetHandler loads stored sessions by key
type GetHandler struct {
	service sessions.Service
	log     zerolog.Logger
}

// NewGetHandler creates a new session get handler
func NewGetHandler(service sessions.Service, log zerolog.Logger) *GetHandler {
	return &GetHandler{
		service: service,
		log:     log.With().Str("handler", "session-get").Logger(),
	}
}

// HandleGet returns the session stored for a key, or 404.
// GET /session/{key}
func (h *GetHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	session, err := h.service.GetByKey(r.Context(), key)
	if err != nil {
		handleServiceError(w, h.log, err)
		return
	}

	writeJSON(w, h.log, http.StatusOK, map[string]any{
		"success": true,
		"session": session,
	})
}
