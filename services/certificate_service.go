package services

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/anjiri1684/certificate_api/models"
	"github.com/anjiri1684/certificate_api/repository"
	"github.com/anjiri1684/certificate_api/storage"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Fields is the metadata bundle accepted by Create and Update. At least one
// of Name and Title is required on Create.
type Fields struct {
	Name        string `json:"name" form:"name" validate:"required_without=Title"`
	Title       string `json:"title" form:"title" validate:"required_without=Name"`
	Description string `json:"description" form:"description"`
	Provider    string `json:"provider" form:"provider"`
	Category    string `json:"category" form:"category"`
	Date        string `json:"date" form:"date" validate:"omitempty,datetime=2006-01-02"`
	Link        string `json:"link" form:"link"`
}

// File is an uploaded image; Filename is the client-supplied name.
type File struct {
	Filename    string
	ContentType string
	Body        io.Reader
}

// ImageLocation describes where uploaded images live: object keys are
// <Folder>/<filename> and public URLs are <BaseURL>/<PathPrefix>/<key>.
type ImageLocation struct {
	BaseURL    string
	PathPrefix string
	Folder     string
}

// Key is the object store key for filename.
func (l ImageLocation) Key(filename string) string {
	return l.Folder + "/" + filename
}

// URL is the public address of filename once uploaded.
func (l ImageLocation) URL(filename string) string {
	return strings.TrimRight(l.BaseURL, "/") + "/" + strings.Trim(l.PathPrefix, "/") + "/" + l.Key(filename)
}

// CertificateStore is the relational side of a certificate; see repository.CertificateRepository.
type CertificateStore interface {
	Create(ctx context.Context, cert *models.Certificate) error
	FindAll(ctx context.Context) ([]models.Certificate, error)
	FindByID(ctx context.Context, id uint) (models.Certificate, error)
	Update(ctx context.Context, id uint, v repository.Values, image *string) (models.Certificate, error)
	Delete(ctx context.Context, id uint) (models.Certificate, error)
	FindFiltered(ctx context.Context, f repository.Filter) ([]models.Certificate, error)
}

// CertificateService is the set of operations exposed over HTTP.
type CertificateService interface {
	Create(ctx context.Context, fields Fields, file *File) (models.Certificate, error)
	List(ctx context.Context) ([]models.Certificate, error)
	Get(ctx context.Context, id uint) (models.Certificate, error)
	Update(ctx context.Context, id uint, fields Fields, file *File) (models.Certificate, error)
	Delete(ctx context.Context, id uint) (models.Certificate, error)
	ListFiltered(ctx context.Context, filter repository.Filter) ([]models.Certificate, error)
}

type certificateService struct {
	repo     CertificateStore
	store    storage.ObjectStore
	location ImageLocation
	logger   log.Logger
}

func NewCertificateService(repo CertificateStore, store storage.ObjectStore, location ImageLocation, logger log.Logger) CertificateService {
	return &certificateService{
		repo:     repo,
		store:    store,
		location: location,
		logger:   logger,
	}
}

// Create uploads the image and then inserts the row. The two writes are
// not atomic: if the insert fails the uploaded object stays behind.
func (s *certificateService) Create(ctx context.Context, fields Fields, file *File) (models.Certificate, error) {
	if err := validate.Struct(fields); err != nil {
		return models.Certificate{}, validationError(describe(err))
	}
	if file == nil || file.Filename == "" {
		return models.Certificate{}, validationError("Image file is required")
	}
	date, err := parseDate(fields.Date)
	if err != nil {
		return models.Certificate{}, err
	}

	image, err := s.upload(ctx, file)
	if err != nil {
		return models.Certificate{}, err
	}

	cert := models.Certificate{
		Name:        fields.Name,
		Title:       fields.Title,
		Description: fields.Description,
		Provider:    fields.Provider,
		Category:    fields.Category,
		Date:        date,
		Link:        fields.Link,
		Image:       image,
	}
	if err := s.repo.Create(ctx, &cert); err != nil {
		s.logOrphan(file, err)
		return models.Certificate{}, persistenceError("failed to create certificate", err)
	}
	return cert, nil
}

func (s *certificateService) List(ctx context.Context) ([]models.Certificate, error) {
	certs, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, persistenceError("failed to fetch certificates", err)
	}
	return certs, nil
}

func (s *certificateService) Get(ctx context.Context, id uint) (models.Certificate, error) {
	cert, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return models.Certificate{}, notFoundError()
	}
	if err != nil {
		return models.Certificate{}, persistenceError("failed to fetch certificate", err)
	}
	return cert, nil
}

// Update overwrites every metadata field. The image is replaced only when
// file is non-nil, and that upload happens before the row is touched.
func (s *certificateService) Update(ctx context.Context, id uint, fields Fields, file *File) (models.Certificate, error) {
	if err := validate.StructPartial(fields, "Date"); err != nil {
		return models.Certificate{}, validationError(describe(err))
	}
	date, err := parseDate(fields.Date)
	if err != nil {
		return models.Certificate{}, err
	}

	var image *string
	if file != nil {
		url, err := s.upload(ctx, file)
		if err != nil {
			return models.Certificate{}, err
		}
		image = &url
	}

	cert, err := s.repo.Update(ctx, id, repository.Values{
		Name:        fields.Name,
		Title:       fields.Title,
		Description: fields.Description,
		Provider:    fields.Provider,
		Category:    fields.Category,
		Date:        date,
		Link:        fields.Link,
	}, image)
	if err != nil {
		if file != nil {
			s.logOrphan(file, err)
		}
		if errors.Is(err, repository.ErrNotFound) {
			return models.Certificate{}, notFoundError()
		}
		return models.Certificate{}, persistenceError("failed to update certificate", err)
	}
	return cert, nil
}

func (s *certificateService) Delete(ctx context.Context, id uint) (models.Certificate, error) {
	cert, err := s.repo.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return models.Certificate{}, notFoundError()
	}
	if err != nil {
		return models.Certificate{}, persistenceError("failed to delete certificate", err)
	}
	return cert, nil
}

func (s *certificateService) ListFiltered(ctx context.Context, filter repository.Filter) ([]models.Certificate, error) {
	certs, err := s.repo.FindFiltered(ctx, filter)
	if err != nil {
		return nil, persistenceError("failed to fetch certificates", err)
	}
	return certs, nil
}

func (s *certificateService) upload(ctx context.Context, file *File) (string, error) {
	if err := s.store.Put(ctx, s.location.Key(file.Filename), file.Body, file.ContentType); err != nil {
		return "", uploadError(err)
	}
	return s.location.URL(file.Filename), nil
}

func (s *certificateService) logOrphan(file *File, err error) {
	level.Warn(s.logger).Log(
		"msg", "uploaded image is not referenced by any certificate",
		"key", s.location.Key(file.Filename),
		"err", err,
	)
}

func parseDate(value string) (*models.Date, error) {
	if value == "" {
		return nil, nil
	}
	d, err := models.ParseDate(value)
	if err != nil {
		return nil, validationError("Date must be formatted as YYYY-MM-DD")
	}
	return &d, nil
}

func describe(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err.Error()
	}
	switch verrs[0].Field() {
	case "Name", "Title":
		return "Name or title is required"
	case "Date":
		return "Date must be formatted as YYYY-MM-DD"
	}
	return verrs[0].Error()
}
