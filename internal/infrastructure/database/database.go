package database

import (
	"fmt"
	"time"

	"jrcts-claim-tracker/config"
	"jrcts-claim-tracker/internal/domain/entity"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewConnection opens the store selected by cfg.Driver.
func NewConnection(cfg config.DBConfig) (*gorm.DB, error) {
	switch cfg.Driver {
	case config.DBDriverPostgres:
		return NewPostgresConnection(cfg)
	case config.DBDriverSQLite:
		return NewSQLiteConnection(cfg.SQLitePath)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// Migrate creates or updates the claims and claim_histories tables.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&entity.Claim{}, &entity.ClaimHistory{}); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

// gormLogger sends gorm's slow query and error lines through logrus.
func gormLogger(level logger.LogLevel) logger.Interface {
	return logger.New(logrus.StandardLogger(), logger.Config{
		SlowThreshold:             500 * time.Millisecond,
		LogLevel:                  level,
		IgnoreRecordNotFoundError: true,
	})
}
