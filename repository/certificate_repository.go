package repository

import (
	"context"
	"errors"

	"github.com/anjiri1684/certificate_api/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrNotFound = errors.New("record not found")

type SortOrder int

const (
	Unsorted SortOrder = iota
	OldestFirst
	NewestFirst
)

// Filter selects rows by exact provider or category match and optionally
// orders them by date. Empty fields are ignored.
type Filter struct {
	Provider string
	Category string
	Order    SortOrder
}

// Values is the full set of metadata columns written by an update.
type Values struct {
	Name        string
	Title       string
	Description string
	Provider    string
	Category    string
	Date        *models.Date
	Link        string
}

type CertificateRepository struct {
	db *gorm.DB
}

func NewCertificateRepository(db *gorm.DB) *CertificateRepository {
	return &CertificateRepository{db: db}
}

func (r *CertificateRepository) Create(ctx context.Context, cert *models.Certificate) error {
	return r.db.WithContext(ctx).Create(cert).Error
}

func (r *CertificateRepository) FindAll(ctx context.Context) ([]models.Certificate, error) {
	certs := []models.Certificate{}
	if err := r.db.WithContext(ctx).Find(&certs).Error; err != nil {
		return nil, err
	}
	return certs, nil
}

func (r *CertificateRepository) FindByID(ctx context.Context, id uint) (models.Certificate, error) {
	var cert models.Certificate
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&cert).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Certificate{}, ErrNotFound
	}
	return cert, err
}

// Update overwrites every metadata column of row id in one statement and
// returns the resulting row. image is written only when non-nil.
func (r *CertificateRepository) Update(ctx context.Context, id uint, v Values, image *string) (models.Certificate, error) {
	columns := map[string]interface{}{
		"name":        v.Name,
		"title":       v.Title,
		"description": v.Description,
		"provider":    v.Provider,
		"category":    v.Category,
		"date":        v.Date,
		"link":        v.Link,
	}
	if image != nil {
		columns["image"] = *image
	}

	var cert models.Certificate
	result := r.db.WithContext(ctx).
		Model(&cert).
		Clauses(clause.Returning{}).
		Where("id = ?", id).
		Updates(columns)
	if result.Error != nil {
		return models.Certificate{}, result.Error
	}
	if result.RowsAffected == 0 {
		return models.Certificate{}, ErrNotFound
	}
	return cert, nil
}

func (r *CertificateRepository) Delete(ctx context.Context, id uint) (models.Certificate, error) {
	var cert models.Certificate
	result := r.db.WithContext(ctx).
		Clauses(clause.Returning{}).
		Where("id = ?", id).
		Delete(&cert)
	if result.Error != nil {
		return models.Certificate{}, result.Error
	}
	if result.RowsAffected == 0 {
		return models.Certificate{}, ErrNotFound
	}
	return cert, nil
}

func (r *CertificateRepository) FindFiltered(ctx context.Context, f Filter) ([]models.Certificate, error) {
	query := r.db.WithContext(ctx)
	if f.Provider != "" {
		query = query.Where("provider = ?", f.Provider)
	}
	if f.Category != "" {
		query = query.Where("category = ?", f.Category)
	}

	switch f.Order {
	case OldestFirst:
		query = query.Order("date asc").Order("id asc")
	case NewestFirst:
		query = query.Order("date desc").Order("id desc")
	}

	certs := []models.Certificate{}
	if err := query.Find(&certs).Error; err != nil {
		return nil, err
	}
	return certs, nil
}
