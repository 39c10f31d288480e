package policy

import (
	"context"
	"net/http"
	"time"

	"github.com/diewo77/tutorconnect/auth"
	"github.com/diewo77/tutorconnect/gate"
	"github.com/diewo77/tutorconnect/internal/registration"
)

// ResourceProfile is the gate resource type guarding the profile screens and
// the role home pages. The resource value is the role name.
const ResourceProfile = "profile"

// AuthGate checks role assignments for the profile screens and the role home
// pages, with a per-process cache of each user's roles.
type AuthGate struct {
	Gate          *gate.Gate[uint]
	CacheResolver *gate.CachedResolver[uint]
}

// NewAuthGate registers the role policy for ResourceProfile over roles, with
// each user's roles kept for cacheTTL.
func NewAuthGate(roles RoleLister, cacheTTL time.Duration) *AuthGate {
	cached := gate.NewCachedResolver[uint](NewDBRoleResolver(roles), cacheTTL)

	g := gate.NewGate[uint]()
	g.Register(ResourceProfile, gate.GrantPolicy[uint]{Resolver: cached})

	return &AuthGate{Gate: g, CacheResolver: cached}
}

// CanAccessProfile reports whether the user holds role. Role assignments are
// only ever added, so a denial is checked once more against the store: the
// cached entry may predate a selection handled by another instance.
func (ag *AuthGate) CanAccessProfile(ctx context.Context, userID uint, role registration.Role) bool {
	if ag.Gate.Can(ctx, userID, gate.ActionView, ResourceProfile, role) {
		return true
	}
	if userID == 0 || !role.IsValid() {
		return false
	}
	grants, err := ag.CacheResolver.Refresh(ctx, userID)
	return err == nil && grants.Has(role.String())
}

// InvalidateUser drops the cached roles of userID after a selection.
func (ag *AuthGate) InvalidateUser(userID uint) {
	ag.CacheResolver.Invalidate(userID)
}

// RequireRole returns middleware that only lets users holding role through.
// Anonymous users go to the auth screen; users without the role go back to
// role selection.
func (ag *AuthGate) RequireRole(role registration.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := auth.UserIDFromContext(r.Context())
			if !ok {
				http.Redirect(w, r, string(registration.DestAuth), http.StatusSeeOther)
				return
			}
			if !ag.CanAccessProfile(r.Context(), userID, role) {
				http.Redirect(w, r, string(registration.DestRoleSelect), http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
