package routes

import (
	"Gramcache/internal/api/handlers/session"
	"Gramcache/internal/core/sessions"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// RegisterSessionRoutes registers session persistence endpoints
func RegisterSessionRoutes(r chi.Router, service sessions.Service, log zerolog.Logger) {
	saveHandler := session.NewSaveHandler(service, log)
	getHandler := session.NewGetHandler(service, log)

	r.Post("/session", saveHandler.HandleSave)
	r.Get("/session/{key}", getHandler.HandleGet)
}
