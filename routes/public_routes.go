package routes

import (
	"strings"

	"github.com/anjiri1684/certificate_api/handlers"
	"github.com/gofiber/fiber/v2"
)

func PublicRoutes(app *fiber.App) {
	app.Get("/", handlers.Welcome)
	app.Get("/health", handlers.Health)
}

// StaticRoutes serves locally stored images at /<prefix>.
func StaticRoutes(app *fiber.App, prefix, dir string) {
	app.Static("/"+strings.Trim(prefix, "/"), dir, fiber.Static{
		Browse: false,
	})
}
