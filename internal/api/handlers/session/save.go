package session

import (
	"Gramcache/internal/core/sessions"
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"
)

const maxRequestBody = 64 << 10

// SaveHandler upserts conversational sessions
type SaveHandler struct {
	service sessions.Service
	log     zerolog.Logger
}

// NewSaveHandler creates a new session save handler
func NewSaveHandler(service sessions.Service, log zerolog.Logger) *SaveHandler {
	return &SaveHandler{
		service: service,
		log:     log.With().Str("handler", "session-save").Logger(),
	}
}

type saveRequest struct {
	SessionKey  string         `json:"session_key"`
	UserID      string         `json:"user_id"`
	Context     map[string]any `json:"context"`
	LastMessage string         `json:"last_message"`
}

// HandleSave creates or replaces the session stored for a key.
// POST /session {"session_key": "...", "user_id": "...", "context": {...}, "last_message": "..."}
func (h *SaveHandler) HandleSave(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)

	var req saveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.log, http.StatusBadRequest, "invalid JSON body")
		return
	}

	saved, err := h.service.Save(r.Context(), &sessions.Session{
		SessionKey:  req.SessionKey,
		UserID:      req.UserID,
		Context:     req.Context,
		LastMessage: req.LastMessage,
	})
	if err != nil {
		handleServiceError(w, h.log, err)
		return
	}

	writeJSON(w, h.log, http.StatusOK, map[string]any{
		"success": true,
		"session": saved,
	})
}
