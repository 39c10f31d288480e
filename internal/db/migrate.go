package db

import (
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	// Registers the postgres database driver for golang-migrate.
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"gorm.io/gorm"

	"github.com/diewo77/tutorconnect/internal/models"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// Migrate runs AutoMigrate for all models. It is the schema path for SQLite
// and for development databases.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.UserRole{},
		&models.StudentProfile{},
		&models.TutorProfile{},
	)
}

// RunSQLMigrations applies the embedded SQL migrations to the Postgres
// database at url using golang-migrate.
func RunSQLMigrations(url string) error {
	src, err := iofs.New(migrationFiles, "migrations")
	if err != nil {
		return fmt.Errorf("open migrations: %w", err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, url)
	if err != nil {
		return fmt.Errorf("init migrate: %w", err)
	}
	defer m.Close()
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate up: %w", err)
	}
	return nil
}

// RequiredTables must exist once the schema is in place.
var RequiredTables = []string{"users", "user_roles", "student_profiles", "tutor_profiles"}

// CheckSchema reports the first missing required table.
func CheckSchema(db *gorm.DB) error {
	for _, table := range RequiredTables {
		if !db.Migrator().HasTable(table) {
			return errors.New("missing table after migration: " + table)
		}
	}
	return nil
}
