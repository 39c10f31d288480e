// Package registration implements the onboarding flow: the session guard in
// front of role selection, the role registrar, and the per-role profile form
// controllers. It talks to storage and sessions only through the interfaces
// declared here, so every decision can be tested without HTTP or a database.
package registration

import (
	"errors"
	"strings"
)

// Role is the participation mode a user picks during onboarding.
type Role string

const (
	RoleStudent Role = "student"
	RoleTutor   Role = "tutor"
)

// ErrInvalidRole is returned when a role string is neither student nor tutor.
var ErrInvalidRole = errors.New("invalid role")

// Roles lists the selectable roles in display order.
func Roles() []Role { return []Role{RoleStudent, RoleTutor} }

func (r Role) String() string { return string(r) }

func (r Role) IsValid() bool {
	return r == RoleStudent || r == RoleTutor
}

// ParseRole accepts a role name in any case.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if !r.IsValid() {
		return "", ErrInvalidRole
	}
	return r, nil
}
