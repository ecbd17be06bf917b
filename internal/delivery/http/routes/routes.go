package routes

import (
	"talent-match/internal/delivery/http/handler"

	"github.com/gofiber/fiber/v3"
)

type Handlers struct {
	Health *handler.HealthHandler
	Match  *handler.MatchHandler
	// Stored is nil when no database is configured.
	Stored *handler.StoredMatchHandler
}

type Registry struct {
	handlers Handlers
	auth     fiber.Handler
}

// NewRegistry wires handlers under /api/v1. A nil auth handler leaves the API
// open; /health is never authenticated.
func NewRegistry(h Handlers, auth fiber.Handler) *Registry {
	return &Registry{handlers: h, auth: auth}
}

func (r *Registry) Register(app *fiber.App) {
	if app == nil {
		return
	}
	if r.handlers.Health != nil {
		r.handlers.Health.RegisterRoutes(app)
	}

	var v1 fiber.Router = app.Group("/api/v1")
	if r.auth != nil {
		v1 = app.Group("/api/v1", r.auth)
	}
	if r.handlers.Match != nil {
		r.handlers.Match.RegisterRoutes(v1)
	}
	if r.handlers.Stored != nil {
		r.handlers.Stored.RegisterRoutes(v1)
	}
}
