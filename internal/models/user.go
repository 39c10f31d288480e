package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents an authenticated user in the system.
type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
	Email     string         `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Name      string         `gorm:"size:255" json:"name,omitempty"`
	Password  string         `gorm:"size:255;not null" json:"-"` // Hashed, never exposed in JSON
	// Roles the user picked during onboarding. A user may hold both.
	Roles []UserRole `gorm:"foreignKey:UserID" json:"roles,omitempty"`
}

// UserRole records that a user chose a role. The (user_id, role) pair is
// unique, so choosing the same role twice is a conflict, not a second row.
type UserRole struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_user_roles_user_role" json:"user_id"`
	Role      string    `gorm:"size:20;not null;uniqueIndex:idx_user_roles_user_role" json:"role"`
}

func (UserRole) TableName() string { return "user_roles" }
