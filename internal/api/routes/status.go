package routes

import (
	"Gramcache/internal/api/handlers/status"
	"Gramcache/internal/core/downloads"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// RegisterStatusRoutes registers the banner and liveness endpoints
func RegisterStatusRoutes(r chi.Router, service downloads.Service, store status.StoreState, serviceName string, log zerolog.Logger) {
	rootHandler := status.NewRootHandler(service, store, serviceName, log)
	healthHandler := status.NewHealthHandler(store, log)

	r.Get("/", rootHandler.HandleRoot)
	r.Get("/health", healthHandler.HandleHealth)
}
