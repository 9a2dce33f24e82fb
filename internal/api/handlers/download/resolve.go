package download

import (
	"Gramcache/internal/core/downloads"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

// Request bodies larger than this are rejected outright
const maxRequestBody = 64 << 10

// ResolveHandler turns a post URL into a direct media link
type ResolveHandler struct {
	service downloads.Service
	log     zerolog.Logger
}

// NewResolveHandler creates a new resolve handler
func NewResolveHandler(service downloads.Service, log zerolog.Logger) *ResolveHandler {
	return &ResolveHandler{
		service: service,
		log:     log.With().Str("handler", "resolve").Logger(),
	}
}

type resolveRequest struct {
	URL          string `json:"url"`
	ForceRefresh bool   `json:"force_refresh"`
}

// HandleResolve resolves an Instagram post URL to its media link.
// GET /igdl?url=...&force_refresh=true
// POST /igdl {"url": "...", "force_refresh": true}
func (h *ResolveHandler) HandleResolve(w http.ResponseWriter, r *http.Request) {
	req, err := h.parseRequest(w, r)
	if err != nil {
		writeError(w, h.log, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.service.Resolve(r.Context(), req.URL, req.ForceRefresh)
	if err != nil {
		handleServiceError(w, h.log, err)
		return
	}

	writeJSON(w, h.log, http.StatusOK, map[string]any{
		"success": true,
		"cached":  result.Cached,
		"data":    newMediaView(result.Download),
	})
}

func (h *ResolveHandler) parseRequest(w http.ResponseWriter, r *http.Request) (resolveRequest, error) {
	var req resolveRequest

	switch r.Method {
	case http.MethodPost:
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return req, errors.New("invalid JSON body")
		}
	default:
		req.URL = r.URL.Query().Get("url")
		req.ForceRefresh = parseBool(r.URL.Query().Get("force_refresh"))
	}

	req.URL = strings.TrimSpace(req.URL)
	if req.URL == "" {
		return req, errors.New("url is required")
	}

	return req, nil
}

// parseBool treats anything unparseable as false
func parseBool(raw string) bool {
	v, err := strconv.ParseBool(raw)
	return err == nil && v
}
