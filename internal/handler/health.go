package handler

import (
	"github.com/gofiber/fiber/v3"
)

// Health returns service health status.
func Health(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"service": "moviesearch-bot",
	})
}
