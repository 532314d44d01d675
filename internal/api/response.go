package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/thriftstore/pos/internal/repo"
	"go.uber.org/zap"
)

// Response is the envelope of every API response
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func respond(c *fiber.Ctx, status int, message string, data interface{}) error {
	return c.Status(status).JSON(Response{Success: true, Message: message, Data: data})
}

func fail(c *fiber.Ctx, status int, message string, data interface{}) error {
	return c.Status(status).JSON(Response{Success: false, Message: message, Data: data})
}

// statusFor maps the error taxonomy onto HTTP status codes
func statusFor(err error) int {
	var fiberErr *fiber.Error
	switch {
	case errors.As(err, &fiberErr):
		return fiberErr.Code
	case errors.Is(err, repo.ErrInvalidInput):
		return fiber.StatusBadRequest
	case errors.Is(err, repo.ErrNotFound), errors.Is(err, repo.ErrReference):
		return fiber.StatusNotFound
	case errors.Is(err, repo.ErrInsufficientStock), errors.Is(err, repo.ErrWrite):
		return fiber.StatusConflict
	case errors.Is(err, repo.ErrConnectivity):
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}

func errorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := statusFor(err)
		message := err.Error()
		if status == fiber.StatusInternalServerError {
			log.Error("Unexpected error",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.Error(err),
			)
			message = "internal server error"
		}
		return fail(c, status, message, nil)
	}
}
