package middleware

import (
	"context"
	"errors"
	"runtime/debug"

	"talent-match/internal/pkg/logging"
	"talent-match/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
)

type AppError struct {
	StatusCode int
	Message    string
	Data       any
	Cause      error
}

func (e *AppError) Error() string {
	if e == nil {
		return ""
	}
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

func NewAppError(statusCode int, message string, data any, cause error) *AppError {
	return &AppError{StatusCode: statusCode, Message: message, Data: data, Cause: cause}
}

func BadRequest(message string, cause error) *AppError {
	return NewAppError(fiber.StatusBadRequest, message, nil, cause)
}

// ErrorMiddleware renders returned errors in the response envelope and turns
// panics into 500s. Server-side failures never leak their cause to clients.
type ErrorMiddleware struct {
	logger *logging.Logger
}

func NewErrorMiddleware(logger *logging.Logger) *ErrorMiddleware {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &ErrorMiddleware{logger: logger.Named("http")}
}

func (m *ErrorMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				m.logger.Error("panic recovered",
					"panic", r,
					"method", c.Method(),
					"path", c.Path(),
					"request_id", RequestID(c),
					"stack", string(debug.Stack()),
				)
				err = response.Error(c, fiber.StatusInternalServerError, response.MessageInternalServerError, nil)
			}
		}()

		err = c.Next()
		if err == nil {
			return nil
		}

		status, msg, data := normalizeError(err)
		if status >= 500 {
			m.logger.Error("request failed",
				"status", status,
				"method", c.Method(),
				"path", c.Path(),
				"request_id", RequestID(c),
				"err", err,
			)
		}
		return response.Error(c, status, msg, data)
	}
}

func normalizeError(err error) (int, string, any) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return clientVisible(appErr.StatusCode, appErr.Message, appErr.Data)
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return clientVisible(fiberErr.Code, fiberErr.Message, nil)
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return fiber.StatusGatewayTimeout, "request timed out", nil
	}

	return fiber.StatusInternalServerError, response.MessageInternalServerError, nil
}

func clientVisible(status int, msg string, data any) (int, string, any) {
	switch {
	case status <= 0 || status == fiber.StatusInternalServerError:
		return fiber.StatusInternalServerError, response.MessageInternalServerError, nil
	case status >= 500:
		return status, response.MessageFor(status), nil
	}
	if msg == "" {
		msg = response.MessageFor(status)
	}
	return status, msg, data
}
