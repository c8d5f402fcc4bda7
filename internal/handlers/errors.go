package handlers

import (
	"errors"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/finovo/internal/database"
	"github.com/ahmetcoskunkizilkaya/finovo/internal/dto"
	"github.com/ahmetcoskunkizilkaya/finovo/internal/services"
	"github.com/ahmetcoskunkizilkaya/finovo/internal/validation"
	"github.com/gofiber/fiber/v2"
)

var errInvalidBody = errors.New("invalid request body")

// Bind parses the JSON body into dst and validates it.
func Bind(c *fiber.Ctx, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		return errInvalidBody
	}
	return validation.Struct(dst)
}

// RespondError maps a service error to its HTTP status and error body.
func RespondError(c *fiber.Ctx, err error) error {
	status, message := classify(err)
	if status >= fiber.StatusInternalServerError {
		slog.Error("request failed",
			"method", c.Method(),
			"path", c.Path(),
			"request_id", c.Locals("requestid"),
			"status", status,
			"error", err,
		)
	}
	return c.Status(status).JSON(dto.ErrorResponse{Error: true, Message: message})
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, errInvalidBody):
		return fiber.StatusBadRequest, "Invalid request body"
	case errors.Is(err, validation.ErrValidation),
		errors.Is(err, services.ErrInvalidSubscriptionType),
		errors.Is(err, services.ErrInvalidAction),
		errors.Is(err, services.ErrMissingField),
		errors.Is(err, services.ErrDuplicatePendingRequest):
		return fiber.StatusBadRequest, err.Error()
	case errors.Is(err, services.ErrInvalidCredentials),
		errors.Is(err, services.ErrInvalidToken):
		return fiber.StatusUnauthorized, err.Error()
	case errors.Is(err, services.ErrAdminRequired):
		return fiber.StatusForbidden, err.Error()
	case errors.Is(err, services.ErrRequestNotFound),
		errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrExpenseNotFound):
		return fiber.StatusNotFound, err.Error()
	case errors.Is(err, services.ErrRequestAlreadyResolved),
		errors.Is(err, services.ErrEmailTaken):
		return fiber.StatusConflict, err.Error()
	case database.IsTransient(err):
		return fiber.StatusServiceUnavailable, "Database connection issue. Please try again in a moment."
	default:
		return fiber.StatusInternalServerError, "Internal server error"
	}
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
		Error: true, Message: "Unauthorized",
	})
}
