package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/diewo77/tutorconnect/internal/models"
)

type Users struct {
	db *gorm.DB
}

func NewUsers(db *gorm.DB) *Users { return &Users{db: db} }

// Create inserts a user with an already hashed password. Emails are stored
// lower-cased.
func (s *Users) Create(ctx context.Context, email, name, passwordHash string) (*models.User, error) {
	const op = "store.Users.Create"

	u := models.User{
		Email:    strings.ToLower(strings.TrimSpace(email)),
		Name:     strings.TrimSpace(name),
		Password: passwordHash,
	}
	if err := s.db.WithContext(ctx).Create(&u).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%s: %w", op, ErrEmailTaken)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &u, nil
}

func (s *Users) ByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "store.Users.ByEmail"

	var u models.User
	err := s.db.WithContext(ctx).Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &u, nil
}

func (s *Users) ByID(ctx context.Context, id uint) (*models.User, error) {
	const op = "store.Users.ByID"

	var u models.User
	if err := s.db.WithContext(ctx).First(&u, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &u, nil
}

// Exists reports whether a live user with id exists. Lookup errors count as
// absent.
func (s *Users) Exists(ctx context.Context, id uint) bool {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false
	}
	return count > 0
}
