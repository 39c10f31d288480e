// Package db opens the database and keeps its schema current.
package db

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/diewo77/tutorconnect/internal/config"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

var passwordRegex = regexp.MustCompile(`(password=)(\S+)`)

// MaskDSN hides the password of a key=value DSN for logging.
func MaskDSN(dsn string) string {
	return passwordRegex.ReplaceAllString(dsn, `${1}***`)
}

func dialector(cfg config.DatabaseConfig) (gorm.Dialector, error) {
	switch cfg.Driver {
	case DriverPostgres, "":
		return postgres.Open(cfg.DSN()), nil
	case DriverSQLite:
		return sqlite.Open(cfg.DBName), nil
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.Driver)
	}
}

// GormConfig is the gorm configuration every connection uses. TranslateError
// turns driver-specific unique violations into gorm.ErrDuplicatedKey.
func GormConfig(debug bool) *gorm.Config {
	level := logger.Silent
	if debug {
		level = logger.Info
	}
	return &gorm.Config{
		Logger:         logger.Default.LogMode(level),
		TranslateError: true,
	}
}

// Open connects to the configured database, retrying a few times to let a
// freshly started Postgres come up.
func Open(ctx context.Context, cfg config.DatabaseConfig, debug bool, log *zap.Logger) (*gorm.DB, error) {
	d, err := dialector(cfg)
	if err != nil {
		return nil, err
	}
	if cfg.Driver == DriverPostgres || cfg.Driver == "" {
		log.Info("connecting to database", zap.String("dsn", MaskDSN(cfg.DSN())))
	} else {
		log.Info("connecting to database", zap.String("driver", cfg.Driver), zap.String("path", cfg.DBName))
	}

	var conn *gorm.DB
	for i := 1; i <= 5; i++ {
		conn, err = gorm.Open(d, GormConfig(debug))
		if err == nil {
			err = conn.WithContext(ctx).Exec("SELECT 1").Error
		}
		if err == nil {
			return conn, nil
		}
		log.Warn("database not ready", zap.Int("attempt", i), zap.Error(err))
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(2 * time.Second):
		}
	}
	return nil, fmt.Errorf("connect database: %w", err)
}
