package policy

import (
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/diewo77/tutorconnect/internal/handlers"
	"github.com/diewo77/tutorconnect/internal/metrics"
	"github.com/diewo77/tutorconnect/internal/registration"
	"github.com/diewo77/tutorconnect/internal/store"
)

// Deps are the process-wide collaborators the handlers share.
type Deps struct {
	// Flights guards role selection; nil means in-process.
	Flights registration.FlightGuard
	Metrics *metrics.Metrics
	Log     *zap.Logger
	// Pinger backs /healthz; nil reports healthy unconditionally.
	Pinger handlers.Pinger
}

// RouterConfig holds configured handlers and middleware for the application.
type RouterConfig struct {
	// AuthGate provides role checks and middleware
	AuthGate *AuthGate
	Store    *store.Store
	Metrics  *metrics.Metrics

	AuthHandler    *handlers.AuthHandler
	RoleHandler    *handlers.RoleHandler
	ProfileHandler *handlers.ProfileHandler
	PageHandler    *handlers.PageHandler
}

// NewRouterConfig wires the onboarding flow: the session guard, the role
// registrar, both profile form controllers and the role gate in front of the
// screens that need a role.
func NewRouterConfig(db *gorm.DB, deps Deps) *RouterConfig {
	if deps.Log == nil {
		deps.Log = zap.NewNop()
	}
	st := store.New(db)

	// Create authorization gate with 5-minute cache
	authGate := NewAuthGate(st.Roles, 5*time.Minute)

	guard := registration.NewGuard(handlers.RequestSessions, deps.Log.Named("guard"))
	registrar := registration.NewRegistrar(st.Roles, deps.Flights, deps.Log.Named("registrar"))

	return &RouterConfig{
		AuthGate:       authGate,
		Store:          st,
		Metrics:        deps.Metrics,
		AuthHandler:    handlers.NewAuthHandler(st.Users),
		RoleHandler:    handlers.NewRoleHandler(guard, registrar, authGate, deps.Metrics),
		ProfileHandler: handlers.NewProfileHandler(guard, authGate, st.Profiles, deps.Metrics, deps.Log.Named("profiles")),
		PageHandler:    handlers.NewPageHandler(st.Profiles, deps.Pinger),
	}
}
