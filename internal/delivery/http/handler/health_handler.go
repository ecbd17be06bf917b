package handler

import (
	"context"
	"time"

	"talent-match/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
)

const healthCheckTimeout = 2 * time.Second

type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler pings each configured dependency. A nil pinger is reported
// as disabled and does not fail the check.
type HealthHandler struct {
	names   []string
	pingers map[string]Pinger
}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{pingers: map[string]Pinger{}}
}

func (h *HealthHandler) With(name string, p Pinger) *HealthHandler {
	if _, ok := h.pingers[name]; !ok {
		h.names = append(h.names, name)
	}
	h.pingers[name] = p
	return h
}

func (h *HealthHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get("/health", h.Health)
}

func (h *HealthHandler) Health(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), healthCheckTimeout)
	defer cancel()

	checks := make(map[string]string, len(h.names))
	healthy := true
	for _, name := range h.names {
		p := h.pingers[name]
		if p == nil {
			checks[name] = "disabled"
			continue
		}
		if err := p.Ping(ctx); err != nil {
			checks[name] = "down"
			healthy = false
			continue
		}
		checks[name] = "up"
	}

	if !healthy {
		return response.Error(c, fiber.StatusServiceUnavailable, response.MessageServiceUnavailable, checks)
	}
	return response.OK(c, checks)
}
