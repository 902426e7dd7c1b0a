package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/anjiri1684/certificate_api/models"
	"github.com/anjiri1684/certificate_api/repository"
	"github.com/anjiri1684/certificate_api/services"
	"github.com/go-kit/log"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubService records its inputs and returns canned results.
type stubService struct {
	cert  models.Certificate
	certs []models.Certificate
	err   error

	fields   services.Fields
	fileName string
	fileType string
	fileBody string
	id       uint
	filter   repository.Filter
	called   string
}

func (s *stubService) capture(method string, fields services.Fields, file *services.File) {
	s.called = method
	s.fields = fields
	if file != nil {
		s.fileName = file.Filename
		s.fileType = file.ContentType
		b, _ := io.ReadAll(file.Body)
		s.fileBody = string(b)
	}
}

func (s *stubService) Create(_ context.Context, fields services.Fields, file *services.File) (models.Certificate, error) {
	s.capture("Create", fields, file)
	return s.cert, s.err
}

func (s *stubService) List(_ context.Context) ([]models.Certificate, error) {
	s.called = "List"
	return s.certs, s.err
}

func (s *stubService) Get(_ context.Context, id uint) (models.Certificate, error) {
	s.called, s.id = "Get", id
	return s.cert, s.err
}

func (s *stubService) Update(_ context.Context, id uint, fields services.Fields, file *services.File) (models.Certificate, error) {
	s.capture("Update", fields, file)
	s.id = id
	return s.cert, s.err
}

func (s *stubService) Delete(_ context.Context, id uint) (models.Certificate, error) {
	s.called, s.id = "Delete", id
	return s.cert, s.err
}

func (s *stubService) ListFiltered(_ context.Context, filter repository.Filter) ([]models.Certificate, error) {
	s.called, s.filter = "ListFiltered", filter
	return s.certs, s.err
}

func newTestApp(svc services.CertificateService) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler(log.NewNopLogger())})
	h := NewCertificateHandler(svc)
	app.Post("/certificate", h.CreateCertificate)
	app.Get("/certificate/:id", h.GetCertificate)
	app.Put("/certificate/:id", h.UpdateCertificate)
	app.Delete("/certificate/:id", h.DeleteCertificate)
	app.Get("/certificates", h.ListCertificates)
	app.Get("/certificates/provider/:provider", h.ListByProvider)
	app.Get("/certificates/category/:category", h.ListByCategory)
	app.Get("/certificates/oldest", h.ListOldest)
	app.Get("/certificates/newest", h.ListNewest)
	return app
}

func multipartRequest(t *testing.T, method, target string, fields map[string]string, filename, content string) *http.Request {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if filename != "" {
		part, err := w.CreateFormFile("image", filename)
		require.NoError(t, err)
		_, err = part.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(method, target, &body)
	req.Header.Set(fiber.HeaderContentType, w.FormDataContentType())
	return req
}

func decodeError(t *testing.T, resp *http.Response) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body["error"]
}

func TestCreateCertificateExtractsForm(t *testing.T) {
	svc := &stubService{cert: models.Certificate{ID: 7, Name: "AWS Cert", Image: "https://cdn/certificates/aws.png"}}
	app := newTestApp(svc)

	req := multipartRequest(t, fiber.MethodPost, "/certificate", map[string]string{
		"name":        "AWS Cert",
		"description": "Solutions Architect",
		"category":    "cloud",
		"date":        "2021-01-01",
		"link":        "https://aws.amazon.com",
	}, "aws.png", "PNGDATA")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var got models.Certificate
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, uint(7), got.ID)

	assert.Equal(t, "Create", svc.called)
	assert.Equal(t, services.Fields{
		Name:        "AWS Cert",
		Description: "Solutions Architect",
		Category:    "cloud",
		Date:        "2021-01-01",
		Link:        "https://aws.amazon.com",
	}, svc.fields)
	assert.Equal(t, "aws.png", svc.fileName)
	assert.Equal(t, "application/octet-stream", svc.fileType)
	assert.Equal(t, "PNGDATA", svc.fileBody)
}

func TestCreateCertificateWithoutFilePassesNil(t *testing.T) {
	svc := &stubService{err: &services.Error{Kind: services.ErrValidation, Message: "Image file is required"}}
	app := newTestApp(svc)

	resp, err := app.Test(multipartRequest(t, fiber.MethodPost, "/certificate", map[string]string{"name": "x"}, "", ""), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Image file is required", decodeError(t, resp))
	assert.Empty(t, svc.fileName)
}

func TestErrorStatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"validation", &services.Error{Kind: services.ErrValidation, Message: "Name or title is required"}, fiber.StatusBadRequest},
		{"not found", &services.Error{Kind: services.ErrNotFound, Message: "Certificate not found"}, fiber.StatusNotFound},
		{"upload", &services.Error{Kind: services.ErrUpload, Message: "failed to upload image", Err: errors.New("boom")}, fiber.StatusInternalServerError},
		{"persistence", &services.Error{Kind: services.ErrPersistence, Message: "failed", Err: errors.New("boom")}, fiber.StatusInternalServerError},
		{"unknown", errors.New("surprise"), fiber.StatusInternalServerError},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			app := newTestApp(&stubService{err: tc.err})

			resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/certificate/1", nil), -1)
			require.NoError(t, err)
			assert.Equal(t, tc.status, resp.StatusCode)
			assert.Equal(t, tc.err.Error(), decodeError(t, resp))
		})
	}
}

func TestNonNumericIDIsNotFound(t *testing.T) {
	for _, method := range []string{fiber.MethodGet, fiber.MethodPut, fiber.MethodDelete} {
		svc := &stubService{}
		app := newTestApp(svc)

		resp, err := app.Test(httptest.NewRequest(method, "/certificate/abc", nil), -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode, method)
		assert.Empty(t, svc.called, method)
	}
}

func TestUpdateCertificate(t *testing.T) {
	svc := &stubService{cert: models.Certificate{ID: 3}}
	app := newTestApp(svc)

	t.Run("multipart without file", func(t *testing.T) {
		req := multipartRequest(t, fiber.MethodPut, "/certificate/3", map[string]string{"title": "CKA"}, "", "")
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Equal(t, "Update", svc.called)
		assert.Equal(t, uint(3), svc.id)
		assert.Equal(t, "CKA", svc.fields.Title)
		assert.Empty(t, svc.fileName)
	})

	t.Run("json body", func(t *testing.T) {
		req := httptest.NewRequest(fiber.MethodPut, "/certificate/3", strings.NewReader(`{"name":"renamed","provider":"AWS"}`))
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Equal(t, services.Fields{Name: "renamed", Provider: "AWS"}, svc.fields)
	})
}

func TestDeleteCertificate(t *testing.T) {
	svc := &stubService{cert: models.Certificate{ID: 9, Name: "gone"}}
	app := newTestApp(svc)

	resp, err := app.Test(httptest.NewRequest(fiber.MethodDelete, "/certificate/9", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "Delete", svc.called)
	assert.Equal(t, uint(9), svc.id)
}

func TestListRoutes(t *testing.T) {
	tests := []struct {
		path   string
		method string
		filter repository.Filter
	}{
		{"/certificates", "List", repository.Filter{}},
		{"/certificates/provider/Amazon%20Web%20Services", "ListFiltered", repository.Filter{Provider: "Amazon Web Services"}},
		{"/certificates/category/cloud", "ListFiltered", repository.Filter{Category: "cloud"}},
		{"/certificates/oldest", "ListFiltered", repository.Filter{Order: repository.OldestFirst}},
		{"/certificates/newest", "ListFiltered", repository.Filter{Order: repository.NewestFirst}},
	}

	for _, tc := range tests {
		t.Run(tc.path, func(t *testing.T) {
			svc := &stubService{certs: []models.Certificate{{ID: 1}, {ID: 2}}}
			app := newTestApp(svc)

			resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, tc.path, nil), -1)
			require.NoError(t, err)
			assert.Equal(t, fiber.StatusOK, resp.StatusCode)
			assert.Equal(t, tc.method, svc.called)
			assert.Equal(t, tc.filter, svc.filter)

			var got []models.Certificate
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
			assert.Len(t, got, 2)
		})
	}
}

func TestUnknownRouteUsesErrorBody(t *testing.T) {
	app := newTestApp(&stubService{})

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/nope", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.NotEmpty(t, decodeError(t, resp))
}
