package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/diewo77/tutorconnect/internal/models"
	"github.com/diewo77/tutorconnect/internal/registration"
)

// Roles persists role assignments. It implements registration.RoleStore.
type Roles struct {
	db *gorm.DB
}

func NewRoles(db *gorm.DB) *Roles { return &Roles{db: db} }

// InsertRole records (user, role). An existing pair is reported as
// registration.ErrDuplicateAssignment.
func (s *Roles) InsertRole(ctx context.Context, a registration.RoleAssignment) error {
	const op = "store.Roles.InsertRole"

	row := models.UserRole{UserID: a.UserID, Role: a.Role.String()}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%s: %w", op, registration.ErrDuplicateAssignment)
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// RolesFor lists the roles a user holds, in the order they were chosen.
func (s *Roles) RolesFor(ctx context.Context, userID uint) ([]registration.Role, error) {
	const op = "store.Roles.RolesFor"

	var rows []models.UserRole
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	out := make([]registration.Role, 0, len(rows))
	for _, r := range rows {
		out = append(out, registration.Role(r.Role))
	}
	return out, nil
}
