package handlers

import (
	"errors"
	"net/url"
	"strconv"

	"github.com/anjiri1684/certificate_api/repository"
	"github.com/anjiri1684/certificate_api/services"
	"github.com/gofiber/fiber/v2"
)

type CertificateHandler struct {
	service services.CertificateService
}

func NewCertificateHandler(service services.CertificateService) *CertificateHandler {
	return &CertificateHandler{service: service}
}

func (h *CertificateHandler) CreateCertificate(c *fiber.Ctx) error {
	var fields services.Fields
	if err := c.BodyParser(&fields); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse form data"})
	}

	file, closeFile, err := formImage(c)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to read image file"})
	}
	defer closeFile()

	cert, err := h.service.Create(c.UserContext(), fields, file)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(cert)
}

func (h *CertificateHandler) ListCertificates(c *fiber.Ctx) error {
	certs, err := h.service.List(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(certs)
}

func (h *CertificateHandler) GetCertificate(c *fiber.Ctx) error {
	id, ok := certificateID(c)
	if !ok {
		return respondNotFound(c)
	}

	cert, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(cert)
}

func (h *CertificateHandler) UpdateCertificate(c *fiber.Ctx) error {
	id, ok := certificateID(c)
	if !ok {
		return respondNotFound(c)
	}

	var fields services.Fields
	if err := c.BodyParser(&fields); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse form data"})
	}

	file, closeFile, err := formImage(c)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to read image file"})
	}
	defer closeFile()

	cert, err := h.service.Update(c.UserContext(), id, fields, file)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(cert)
}

func (h *CertificateHandler) DeleteCertificate(c *fiber.Ctx) error {
	id, ok := certificateID(c)
	if !ok {
		return respondNotFound(c)
	}

	cert, err := h.service.Delete(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(cert)
}

func (h *CertificateHandler) ListByProvider(c *fiber.Ctx) error {
	return h.listFiltered(c, repository.Filter{Provider: pathParam(c, "provider")})
}

func (h *CertificateHandler) ListByCategory(c *fiber.Ctx) error {
	return h.listFiltered(c, repository.Filter{Category: pathParam(c, "category")})
}

func (h *CertificateHandler) ListOldest(c *fiber.Ctx) error {
	return h.listFiltered(c, repository.Filter{Order: repository.OldestFirst})
}

func (h *CertificateHandler) ListNewest(c *fiber.Ctx) error {
	return h.listFiltered(c, repository.Filter{Order: repository.NewestFirst})
}

func (h *CertificateHandler) listFiltered(c *fiber.Ctx, filter repository.Filter) error {
	certs, err := h.service.ListFiltered(c.UserContext(), filter)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(certs)
}

// formImage opens the optional "image" part. A request without one yields a
// nil file and a no-op close.
func formImage(c *fiber.Ctx) (*services.File, func(), error) {
	header, err := c.FormFile("image")
	if err != nil {
		return nil, func() {}, nil
	}

	f, err := header.Open()
	if err != nil {
		return nil, func() {}, err
	}

	file := &services.File{
		Filename:    header.Filename,
		ContentType: header.Header.Get(fiber.HeaderContentType),
		Body:        f,
	}
	return file, func() { f.Close() }, nil
}

// certificateID parses :id. Anything that is not an unsigned integer cannot
// name a row.
func certificateID(c *fiber.Ctx) (uint, bool) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}

func pathParam(c *fiber.Ctx, key string) string {
	raw := c.Params(key)
	if v, err := url.PathUnescape(raw); err == nil {
		return v
	}
	return raw
}

func respondNotFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Certificate not found"})
}

func respondError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, services.ErrValidation):
		status = fiber.StatusBadRequest
	case errors.Is(err, services.ErrNotFound):
		status = fiber.StatusNotFound
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}
