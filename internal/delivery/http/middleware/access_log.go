package middleware

import (
	"time"

	"talent-match/internal/pkg/logging"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

const (
	HeaderRequestID  = "X-Request-ID"
	CtxRequestIDKey  = "request_id"
	maxRequestIDSize = 128
)

type AccessLogMiddleware struct {
	logger *logging.Logger
}

func NewAccessLogMiddleware(logger *logging.Logger) *AccessLogMiddleware {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &AccessLogMiddleware{logger: logger.Named("access")}
}

// Middleware assigns a request id (reusing a sane inbound X-Request-ID) and
// logs one line per request after the handler chain finishes.
func (m *AccessLogMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		start := time.Now()

		rid := c.Get(HeaderRequestID)
		if rid == "" || len(rid) > maxRequestIDSize {
			rid = uuid.NewString()
		}
		c.Set(HeaderRequestID, rid)
		c.Locals(CtxRequestIDKey, rid)

		err := c.Next()

		m.logger.Info("http request",
			"request_id", rid,
			"method", c.Method(),
			"path", c.OriginalURL(),
			"status", c.Response().StatusCode(),
			"latency_ms", time.Since(start).Milliseconds(),
			"ip", c.IP(),
			"resp_bytes", len(c.Response().Body()),
			"user_agent", c.Get(fiber.HeaderUserAgent),
		)
		return err
	}
}

// RequestID returns the id assigned by the access-log middleware, if any.
func RequestID(c fiber.Ctx) string {
	rid, _ := c.Locals(CtxRequestIDKey).(string)
	return rid
}
