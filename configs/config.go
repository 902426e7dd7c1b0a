package config

import (
	"fmt"
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	DriverCloudinary = "cloudinary"
	DriverLocal      = "local"
)

type Config struct {
	Port        string `envconfig:"PORT" default:"8080"`
	DatabaseURL string `envconfig:"DATABASE_URL"`

	StorageDriver     string `envconfig:"STORAGE_DRIVER" default:"cloudinary"`
	CloudinaryURL     string `envconfig:"CLOUDINARY_URL"`
	StorageBaseURL    string `envconfig:"STORAGE_BASE_URL"`
	StoragePathPrefix string `envconfig:"STORAGE_PATH_PREFIX"`
	StorageFolder     string `envconfig:"STORAGE_FOLDER" default:"certificates"`
	LocalStorageDir   string `envconfig:"LOCAL_STORAGE_DIR" default:"./uploads"`

	LogLevel         string `envconfig:"LOG_LEVEL" default:"info"`
	CORSAllowOrigins string `envconfig:"CORS_ALLOW_ORIGINS" default:"*"`
	BodyLimitMB      int    `envconfig:"BODY_LIMIT_MB" default:"10"`
}

// Load reads .env when present and decodes the environment into a Config.
func Load() (Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("Warning: .env file not found, reading from system environment variables")
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, err
	}
	// an empty value counts as missing
	if cfg.DatabaseURL == "" {
		return Config{}, fmt.Errorf("DATABASE_URL is required")
	}

	cfg.StorageDriver = strings.ToLower(strings.TrimSpace(cfg.StorageDriver))
	switch cfg.StorageDriver {
	case DriverCloudinary:
		if cfg.CloudinaryURL == "" {
			return Config{}, fmt.Errorf("CLOUDINARY_URL is required when STORAGE_DRIVER=%s", DriverCloudinary)
		}
		if cfg.StoragePathPrefix == "" {
			cfg.StoragePathPrefix = "raw/upload"
		}
	case DriverLocal:
		if cfg.StoragePathPrefix == "" {
			cfg.StoragePathPrefix = "static"
		}
		if cfg.StorageBaseURL == "" {
			cfg.StorageBaseURL = "http://localhost:" + cfg.Port
		}
	default:
		return Config{}, fmt.Errorf("unknown STORAGE_DRIVER %q", cfg.StorageDriver)
	}

	if cfg.BodyLimitMB <= 0 {
		return Config{}, fmt.Errorf("BODY_LIMIT_MB must be positive, got %d", cfg.BodyLimitMB)
	}

	return cfg, nil
}

func (c Config) BodyLimit() int {
	return c.BodyLimitMB * 1024 * 1024
}
