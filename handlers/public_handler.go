package handlers

import (
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/gofiber/fiber/v2"
)

func Welcome(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "success",
		"message": "Welcome to the Certificates API",
	})
}

func Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "ok",
	})
}

// ErrorHandler renders errors that escape a handler, such as unknown
// routes or oversized bodies, with the same body shape as handler errors.
func ErrorHandler(logger log.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		if e, ok := err.(*fiber.Error); ok {
			code = e.Code
		}

		level.Error(logger).Log("err", err, "path", c.Path(), "method", c.Method(), "code", code)
		return c.Status(code).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
}
