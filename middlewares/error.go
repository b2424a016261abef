package middlewares

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"catering-quotes-backend/services"
)

// ErrorHandler centralizes error responses and keeps messages sanitized.
// Core errors map to 400, missing records to 404, everything else to 500.
func ErrorHandler(c *fiber.Ctx, err error) error {
	// Fiber errors keep their status code + message.
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(fiber.Map{"message": fe.Message})
	}

	// Request validation errors: 400 with per-field info.
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		out := make(map[string]string, len(ve))
		for _, f := range ve {
			out[f.Field()] = f.Tag()
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "validation failed",
			"errors":  out,
		})
	}

	// Violated preconditions on pure computations.
	var ia *services.InvalidArgumentError
	if errors.As(err, &ia) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": ia.Msg})
	}

	// State-dependent business rules (e.g. mutating a non-Draft quote).
	var dr *services.DomainRuleError
	if errors.As(err, &dr) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": dr.Msg})
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "resource not found"})
	}

	log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("internal error")
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"message": "internal server error",
	})
}
