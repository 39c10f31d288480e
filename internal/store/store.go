// Package store is the gorm-backed persistence for users, role assignments
// and profiles.
package store

import (
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrEmailTaken = errors.New("email already registered")
)

// isUniqueViolation recognises a unique-constraint conflict, whether gorm
// translated it or the raw Postgres error came through.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}

// Store bundles the repositories over one connection.
type Store struct {
	Users    *Users
	Roles    *Roles
	Profiles *Profiles
}

func New(db *gorm.DB) *Store {
	return &Store{
		Users:    &Users{db: db},
		Roles:    &Roles{db: db},
		Profiles: &Profiles{db: db},
	}
}
