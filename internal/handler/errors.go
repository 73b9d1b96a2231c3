package handler

import (
	"errors"

	"go-farmacia-pos/internal/model"

	"github.com/gofiber/fiber/v2"
)

// statusError maps the domain error taxonomy onto HTTP responses. The
// recoverable operator errors come back as 4xx with a specific message so
// the terminal can prompt a retry; persistence failures are 500.
func statusError(c *fiber.Ctx, err error) error {
	switch {
	case model.IsInsufficientStock(err):
		return c.Status(409).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, model.ErrOutOfStock):
		return c.Status(409).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, model.ErrNotFound):
		return c.Status(404).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, model.ErrEmptyCart), errors.Is(err, model.ErrDuplicateCode):
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, model.ErrPersistence):
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	default:
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
}
