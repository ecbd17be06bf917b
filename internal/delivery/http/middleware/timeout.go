package middleware

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v3"
)

// Timeout bounds the context handed to usecases. Handlers that honour the
// context return context.DeadlineExceeded, which the error middleware maps
// to 504.
func Timeout(d time.Duration) fiber.Handler {
	return func(c fiber.Ctx) error {
		if d <= 0 {
			return c.Next()
		}
		ctx, cancel := context.WithTimeout(c.Context(), d)
		defer cancel()
		c.SetContext(ctx)
		return c.Next()
	}
}
