package preference

import (
	"Gramcache/internal/core/preferences"
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"
)

const maxRequestBody = 64 << 10

// SetHandler stores per-user settings
type SetHandler struct {
	service preferences.Service
	log     zerolog.Logger
}

// NewSetHandler creates a new preference set handler
func NewSetHandler(service preferences.Service, log zerolog.Logger) *SetHandler {
	return &SetHandler{
		service: service,
		log:     log.With().Str("handler", "preference-set").Logger(),
	}
}

type setRequest struct {
	UserKey string          `json:"user_key"`
	Name    string          `json:"name"`
	Value   json.RawMessage `json:"value"`
}

// HandleSet creates or replaces one named preference.
// POST /preference {"user_key": "...", "name": "...", "value": <any JSON>}
func (h *SetHandler) HandleSet(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)

	var req setRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.log, http.StatusBadRequest, "invalid JSON body")
		return
	}

	saved, err := h.service.Set(r.Context(), &preferences.Preference{
		UserKey: req.UserKey,
		Name:    req.Name,
		Value:   req.Value,
	})
	if err != nil {
		handleServiceError(w, h.log, err)
		return
	}

	writeJSON(w, h.log, http.StatusOK, map[string]any{
		"success":    true,
		"preference": saved,
	})
}
