package main

import (
	"os"
	"time"

	config "github.com/anjiri1684/certificate_api/configs"
	"github.com/anjiri1684/certificate_api/database"
	"github.com/anjiri1684/certificate_api/handlers"
	"github.com/anjiri1684/certificate_api/logging"
	"github.com/anjiri1684/certificate_api/middleware"
	"github.com/anjiri1684/certificate_api/repository"
	"github.com/anjiri1684/certificate_api/routes"
	"github.com/anjiri1684/certificate_api/services"
	"github.com/anjiri1684/certificate_api/storage"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		level.Error(logging.New("info")).Log("msg", "could not read environment configuration", "err", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.LogLevel)

	db, err := database.Connect(cfg.DatabaseURL, log.With(logger, "component", "database"))
	if err != nil {
		level.Error(logger).Log("msg", "failed to connect to database", "err", err)
		os.Exit(1)
	}
	if err := database.Migrate(db); err != nil {
		level.Error(logger).Log("msg", "failed to migrate database", "err", err)
		os.Exit(1)
	}

	var (
		store    storage.ObjectStore
		location = services.ImageLocation{
			BaseURL:    cfg.StorageBaseURL,
			PathPrefix: cfg.StoragePathPrefix,
			Folder:     cfg.StorageFolder,
		}
		localDir string
	)
	switch cfg.StorageDriver {
	case config.DriverCloudinary:
		cld, err := storage.NewCloudinary(cfg.CloudinaryURL)
		if err != nil {
			level.Error(logger).Log("msg", "failed to initialize object store", "err", err)
			os.Exit(1)
		}
		if location.BaseURL == "" {
			location.BaseURL = cld.BaseURL()
		}
		store = cld
	case config.DriverLocal:
		local, err := storage.NewLocal(cfg.LocalStorageDir)
		if err != nil {
			level.Error(logger).Log("msg", "failed to initialize object store", "err", err)
			os.Exit(1)
		}
		localDir = local.Root()
		store = local
	}
	level.Info(logger).Log("msg", "object store ready", "driver", cfg.StorageDriver, "url", location.URL("<filename>"))

	var svc services.CertificateService
	{
		svc = services.NewCertificateService(
			repository.NewCertificateRepository(db),
			store,
			location,
			log.With(logger, "component", "certificates"),
		)
		svc = services.LoggingMiddleware(log.With(logger, "component", "certificates"))(svc)
	}

	app := fiber.New(fiber.Config{
		Prefork:       false,
		AppName:       "Certificates API",
		CaseSensitive: true,
		StrictRouting: true,
		BodyLimit:     cfg.BodyLimit(),
		ReadTimeout:   15 * time.Second,
		IdleTimeout:   60 * time.Second,
		ErrorHandler:  handlers.ErrorHandler(log.With(logger, "component", "http")),
	})

	app.Use(recover.New())
	app.Use(middleware.CORS(cfg.CORSAllowOrigins))
	app.Use(middleware.RequestID())
	app.Use(middleware.AccessLog(os.Stdout))

	routes.PublicRoutes(app)
	if localDir != "" {
		routes.StaticRoutes(app, cfg.StoragePathPrefix, localDir)
	}
	routes.CertificateRoutes(app, handlers.NewCertificateHandler(svc))

	level.Info(logger).Log("msg", "server listening", "port", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		level.Error(logger).Log("msg", "server failed to start", "err", err)
		os.Exit(1)
	}
}
