package controllers

import "github.com/gofiber/fiber/v2"

// Health answers liveness probes and the root path.
func Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"message": "Task Tracking API",
	})
}
