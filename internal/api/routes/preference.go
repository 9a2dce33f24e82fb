package routes

import (
	"Gramcache/internal/api/handlers/preference"
	"Gramcache/internal/core/preferences"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// RegisterPreferenceRoutes registers per-user preference endpoints
func RegisterPreferenceRoutes(r chi.Router, service preferences.Service, log zerolog.Logger) {
	setHandler := preference.NewSetHandler(service, log)
	getHandler := preference.NewGetHandler(service, log)

	r.Post("/preference", setHandler.HandleSet)
	r.Get("/preference", getHandler.HandleGet)
}
