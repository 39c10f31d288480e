package policy

import (
	"context"

	"github.com/diewo77/tutorconnect/gate"
	"github.com/diewo77/tutorconnect/internal/registration"
)

// RoleLister is the part of the role store the resolver needs.
type RoleLister interface {
	RolesFor(ctx context.Context, userID uint) ([]registration.Role, error)
}

// DBRoleResolver turns stored role assignments into gate grants.
// It implements gate.GrantResolver for uint user IDs.
type DBRoleResolver struct {
	Roles RoleLister
}

func NewDBRoleResolver(roles RoleLister) *DBRoleResolver {
	return &DBRoleResolver{Roles: roles}
}

// Resolve returns one grant per role the user holds.
func (r *DBRoleResolver) Resolve(ctx context.Context, userID uint) (gate.Grants, error) {
	roles, err := r.Roles.RolesFor(ctx, userID)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(roles))
	for i, role := range roles {
		names[i] = role.String()
	}
	return gate.NewGrants(names...), nil
}
