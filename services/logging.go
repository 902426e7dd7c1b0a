package services

import (
	"context"
	"time"

	"github.com/anjiri1684/certificate_api/models"
	"github.com/anjiri1684/certificate_api/repository"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

type Middleware func(CertificateService) CertificateService

func LoggingMiddleware(logger log.Logger) Middleware {
	return func(next CertificateService) CertificateService {
		return &loggingMiddleware{
			next:   next,
			logger: logger,
		}
	}
}

type loggingMiddleware struct {
	next   CertificateService
	logger log.Logger
}

// levelFor logs failed calls at error and successful ones at debug.
func (mw loggingMiddleware) levelFor(err error) log.Logger {
	if err != nil {
		return level.Error(mw.logger)
	}
	return level.Debug(mw.logger)
}

func filename(file *File) string {
	if file == nil {
		return ""
	}
	return file.Filename
}

func (mw loggingMiddleware) Create(ctx context.Context, fields Fields, file *File) (cert models.Certificate, err error) {
	defer func(begin time.Time) {
		mw.levelFor(err).Log("method", "Create", "id", cert.ID, "file", filename(file), "took", time.Since(begin), "err", err)
	}(time.Now())
	return mw.next.Create(ctx, fields, file)
}

func (mw loggingMiddleware) List(ctx context.Context) (certs []models.Certificate, err error) {
	defer func(begin time.Time) {
		mw.levelFor(err).Log("method", "List", "count", len(certs), "took", time.Since(begin), "err", err)
	}(time.Now())
	return mw.next.List(ctx)
}

func (mw loggingMiddleware) Get(ctx context.Context, id uint) (cert models.Certificate, err error) {
	defer func(begin time.Time) {
		mw.levelFor(err).Log("method", "Get", "id", id, "took", time.Since(begin), "err", err)
	}(time.Now())
	return mw.next.Get(ctx, id)
}

func (mw loggingMiddleware) Update(ctx context.Context, id uint, fields Fields, file *File) (cert models.Certificate, err error) {
	defer func(begin time.Time) {
		mw.levelFor(err).Log("method", "Update", "id", id, "file", filename(file), "took", time.Since(begin), "err", err)
	}(time.Now())
	return mw.next.Update(ctx, id, fields, file)
}

func (mw loggingMiddleware) Delete(ctx context.Context, id uint) (cert models.Certificate, err error) {
	defer func(begin time.Time) {
		mw.levelFor(err).Log("method", "Delete", "id", id, "took", time.Since(begin), "err", err)
	}(time.Now())
	return mw.next.Delete(ctx, id)
}

func (mw loggingMiddleware) ListFiltered(ctx context.Context, filter repository.Filter) (certs []models.Certificate, err error) {
	defer func(begin time.Time) {
		mw.levelFor(err).Log("method", "ListFiltered", "provider", filter.Provider, "category", filter.Category, "order", filter.Order, "count", len(certs), "took", time.Since(begin), "err", err)
	}(time.Now())
	return mw.next.ListFiltered(ctx, filter)
}
