package app

import (
	"context"
	"fmt"
	"strings"

	"talent-match/internal/config"
	"talent-match/internal/delivery/http/handler"
	"talent-match/internal/delivery/http/middleware"
	"talent-match/internal/delivery/http/routes"
	"talent-match/internal/pkg/jwt"
	"talent-match/internal/pkg/logging"

	"github.com/gofiber/fiber/v3"
)

type App struct {
	Fiber     *fiber.App
	Container *Container
}

// New builds the HTTP application around an existing container.
func New(c *Container) *App {
	cfg := c.Config
	f := fiber.New(fiber.Config{AppName: cfg.App.AppName})

	f.Use(middleware.NewAccessLogMiddleware(c.Logger).Middleware())
	f.Use(middleware.NewErrorMiddleware(c.Logger).Middleware())
	f.Use(middleware.Timeout(cfg.App.RequestTimeout))

	health := handler.NewHealthHandler()
	if c.DB != nil {
		health.With("postgres", c.DB)
	} else {
		health.With("postgres", nil)
	}
	if c.Cache.Available() {
		health.With("redis", c.Cache)
	} else {
		health.With("redis", nil)
	}

	h := routes.Handlers{
		Health: health,
		Match:  handler.NewMatchHandler(c.Matcher, cfg.Matching.MaxK),
	}
	if c.Matching != nil {
		h.Stored = handler.NewStoredMatchHandler(c.Matching)
	}

	var auth fiber.Handler
	if cfg.Auth.Enabled {
		auth = middleware.NewAuthMiddleware(jwt.NewHMACVerifier(cfg.Auth.AccessSecret)).Middleware()
	}
	routes.NewRegistry(h, auth).Register(f)

	return &App{Fiber: f, Container: c}
}

// Bootstrap wires the container and the HTTP app. The returned cleanup
// releases the database pool and Redis client.
func Bootstrap(ctx context.Context, cfg config.Config, logger *logging.Logger) (*App, func() error, error) {
	c, err := NewContainer(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	return New(c), c.Close, nil
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", fmt.Errorf("empty HTTP port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}
