package preference

import (
	"Gramcache/internal/core/preferences"
	"net/http"

	"github.com/rs/zerolog"
)

// GetHandler loads stored preferences
type GetHandler struct {
	service preferences.Service
	log     zerolog.Logger
}

// NewGetHandler creates a new preference get handler
func NewGetHandler(service preferences.Service, log zerolog.Logger) *GetHandler {
	return &GetHandler{
		service: service,
		log:     log.With().Str("handler", "preference-get").Logger(),
	}
}

// HandleGet returns one preference, or every preference for the user
// when name is omitted.
// GET /preference?user_key=...&name=...
func (h *GetHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	userKey := r.URL.Query().Get("user_key")
	name := r.URL.Query().Get("name")

	if name == "" {
		prefs, err := h.service.ListByUser(r.Context(), userKey)
		if err != nil {
			handleServiceError(w, h.log, err)
			return
		}
		writeJSON(w, h.log, http.StatusOK, map[string]any{
			"success":     true,
			"preferences": prefs,
		})
		return
	}

	pref, err := h.service.Get(r.Context(), userKey, name)
	if err != nil {
		handleServiceError(w, h.log, err)
		return
	}

	writeJSON(w, h.log, http.StatusOK, map[string]any{
		"success": true,
		"value":   pref.Value,
	})
}
