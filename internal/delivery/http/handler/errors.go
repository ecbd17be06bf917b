package handler

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"talent-match/internal/delivery/http/middleware"
	"talent-match/internal/domain/matching"
	"talent-match/internal/pkg/response"
	"talent-match/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

func mapMatchingError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, usecase.ErrJobNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Job not found", nil, err)
	case errors.Is(err, usecase.ErrCandidateNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Candidate not found", nil, err)
	case errors.Is(err, usecase.ErrInvalidInput), errors.Is(err, matching.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, invalidInputMessage(err), nil, err)
	case errors.Is(err, context.DeadlineExceeded):
		return err
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}

// invalidInputMessage keeps the detail after the last "invalid input: ".
func invalidInputMessage(err error) string {
	msg := err.Error()
	if i := strings.LastIndex(msg, "invalid input: "); i >= 0 {
		return "Invalid input: " + msg[i+len("invalid input: "):]
	}
	return "Invalid input"
}

func parseUUIDParam(c fiber.Ctx, key string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(key))
	if err != nil {
		return uuid.Nil, middleware.BadRequest("Invalid "+key, err)
	}
	return id, nil
}

func parseQueryInt(c fiber.Ctx, key string, def int) (int, error) {
	s := strings.TrimSpace(c.Query(key))
	if s == "" {
		return def, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, middleware.BadRequest("Invalid "+key, err)
	}
	return v, nil
}

func parseQueryFloat(c fiber.Ctx, key string, def float64, required bool) (float64, error) {
	s := strings.TrimSpace(c.Query(key))
	if s == "" {
		if required {
			return 0, middleware.BadRequest("Missing "+key, nil)
		}
		return def, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, middleware.BadRequest("Invalid "+key, err)
	}
	return v, nil
}
