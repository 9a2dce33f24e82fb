package routes

import (
	"Gramcache/internal/api/handlers/download"
	"Gramcache/internal/core/downloads"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// RegisterDownloadRoutes registers the resolve, history, and analytics endpoints
func RegisterDownloadRoutes(r chi.Router, service downloads.Service, log zerolog.Logger) {
	resolveHandler := download.NewResolveHandler(service, log)
	historyHandler := download.NewHistoryHandler(service, log)
	analyticsHandler := download.NewAnalyticsHandler(service, log)

	// Both verbs resolve; GET for quick links, POST for JSON bodies
	r.Get("/igdl", resolveHandler.HandleResolve)
	r.Post("/igdl", resolveHandler.HandleResolve)

	r.Get("/history", historyHandler.HandleHistory)
	r.Get("/analytics", analyticsHandler.HandleAnalytics)
}
