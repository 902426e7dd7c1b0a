package routes

import (
	"github.com/anjiri1684/certificate_api/handlers"
	"github.com/gofiber/fiber/v2"
)

func CertificateRoutes(app *fiber.App, h *handlers.CertificateHandler) {
	app.Post("/certificate", h.CreateCertificate)
	app.Get("/certificate/:id", h.GetCertificate)
	app.Put("/certificate/:id", h.UpdateCertificate)
	app.Delete("/certificate/:id", h.DeleteCertificate)

	certificates := app.Group("/certificates")
	certificates.Get("", h.ListCertificates)
	certificates.Get("/provider/:provider", h.ListByProvider)
	certificates.Get("/category/:category", h.ListByCategory)
	certificates.Get("/oldest", h.ListOldest)
	certificates.Get("/newest", h.ListNewest)
}
