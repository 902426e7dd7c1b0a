package database

import (
	"time"

	"github.com/anjiri1684/certificate_api/logging"
	"github.com/anjiri1684/certificate_api/models"
	kitlog "github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Connect opens a Postgres connection pool for dsn.
func Connect(dsn string, logger kitlog.Logger) (*gorm.DB, error) {
	return Open(postgres.Open(dsn), logger)
}

// Open is Connect for an arbitrary dialector.
func Open(dialector gorm.Dialector, logger kitlog.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		PrepareStmt:                              false,
		SkipDefaultTransaction:                   true,
		DisableForeignKeyConstraintWhenMigrating: true,
		DisableNestedTransaction:                 true,
		Logger: gormlogger.New(logging.GormWriter{Logger: logger}, gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return nil, err
	}

	level.Info(logger).Log("msg", "database connected")
	return db, nil
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&models.Certificate{})
}
