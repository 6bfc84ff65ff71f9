package database

import (
	"context"
	"fmt"
	"time"

	"jrcts-claim-tracker/config"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	pgMaxIdleConns    = 5
	pgMaxOpenConns    = 25
	pgConnMaxLifetime = 30 * time.Minute
	pgPingTimeout     = 5 * time.Second
)

// NewPostgresConnection opens the claim store on PostgreSQL and checks it
// answers before the server starts taking registrations.
func NewPostgresConnection(cfg config.DBConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable TimeZone=Asia/Jakarta application_name=jrcts-claim-tracker",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormLogger(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open claim store: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get claim store handle: %w", err)
	}
	sqlDB.SetMaxIdleConns(pgMaxIdleConns)
	sqlDB.SetMaxOpenConns(pgMaxOpenConns)
	sqlDB.SetConnMaxLifetime(pgConnMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), pgPingTimeout)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("claim store at %s:%s not reachable: %w", cfg.Host, cfg.Port, err)
	}

	logrus.WithFields(logrus.Fields{
		"host":     cfg.Host,
		"database": cfg.Name,
	}).Info("Claim store connected (postgres)")

	return db, nil
}
