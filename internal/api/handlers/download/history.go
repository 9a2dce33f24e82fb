package download

import (
	"Gramcache/internal/core/downloads"
	"errors"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"
)

// HistoryHandler serves the recent resolution list
type HistoryHandler struct {
	service downloads.Service
	log     zerolog.Logger
}

// NewHistoryHandler creates a new history handler
func NewHistoryHandler(service downloads.Service, log zerolog.Logger) *HistoryHandler {
	return &HistoryHandler{
		service: service,
		log:     log.With().Str("handler", "history").Logger(),
	}
}

// HandleHistory lists recently accessed records, newest first.
// GET /history?limit=10
// A degraded store answers 200 with an empty list, never an error.
func (h *HistoryHandler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	limit := parseLimit(r.URL.Query().Get("limit"))

	records, err := h.service.History(r.Context(), limit)
	if err != nil {
		if errors.Is(err, downloads.ErrStoreUnavailable) {
			writeJSON(w, h.log, http.StatusOK, map[string]any{
				"success":   false,
				"count":     0,
				"downloads": []mediaView{},
				"db":        "unavailable",
			})
			return
		}
		h.log.Error().Err(err).Msg("failed to load history")
		writeError(w, h.log, http.StatusInternalServerError, "failed to load download history")
		return
	}

	views := make([]mediaView, 0, len(records))
	for _, d := range records {
		views = append(views, newMediaView(d))
	}

	writeJSON(w, h.log, http.StatusOK, map[string]any{
		"success":   true,
		"count":     len(views),
		"downloads": views,
	})
}

// parseLimit returns 0 for absent or unusable values; the service
// applies its own defaults and caps.
func parseLimit(raw string) int {
	if raw == "" {
		return 0
	}
	limit, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return limit
}
