package download

import (
	"Gramcache/internal/core/downloads"
	"errors"
	"net/http"

	"github.com/rs/zerolog"
)

// AnalyticsHandler serves the daily breakdown and most-requested posts
type AnalyticsHandler struct {
	service downloads.Service
	log     zerolog.Logger
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(service downloads.Service, log zerolog.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{
		service: service,
		log:     log.With().Str("handler", "analytics").Logger(),
	}
}

// HandleAnalytics reports per-day counts and the top records.
// GET /analytics?period=7+days&limit=5
func (h *AnalyticsHandler) HandleAnalytics(w http.ResponseWriter, r *http.Request) {
	period := r.URL.Query().Get("period")
	limit := parseLimit(r.URL.Query().Get("limit"))

	analytics, err := h.service.Analytics(r.Context(), period, limit)
	if err != nil {
		if errors.Is(err, downloads.ErrStoreUnavailable) {
			writeJSON(w, h.log, http.StatusOK, map[string]any{
				"success": false,
				"db":      "unavailable",
			})
			return
		}
		h.log.Error().Err(err).Msg("failed to load analytics")
		writeError(w, h.log, http.StatusInternalServerError, "failed to load analytics")
		return
	}

	daily := make([]dailyView, 0, len(analytics.Daily))
	for _, c := range analytics.Daily {
		daily = append(daily, dailyView{Day: c.Day, Type: c.MediaType, Count: c.Count})
	}

	top := make([]topView, 0, len(analytics.Top))
	for _, d := range analytics.Top {
		top = append(top, topView{mediaView: newMediaView(d), DownloadCount: d.DownloadCount})
	}

	writeJSON(w, h.log, http.StatusOK, map[string]any{
		"success": true,
		"period":  analytics.Period,
		"daily":   daily,
		"top":     top,
	})
}
