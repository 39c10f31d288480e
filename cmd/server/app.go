package main

import (
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/diewo77/tutorconnect/auth"
	"github.com/diewo77/tutorconnect/i18n"
	"github.com/diewo77/tutorconnect/internal/logging"
	"github.com/diewo77/tutorconnect/internal/policy"
	"github.com/diewo77/tutorconnect/internal/registration"
)

// App is the main application handler that sets up all routes.
type App struct {
	mux       *http.ServeMux
	routerCfg *policy.RouterConfig
	handler   http.Handler
}

// NewApp creates a new application with all routes configured.
func NewApp(routerCfg *policy.RouterConfig, log *zap.Logger) *App {
	if log == nil {
		log = zap.NewNop()
	}
	app := &App{
		mux:       http.NewServeMux(),
		routerCfg: routerCfg,
	}
	app.setupRoutes()

	// Global middleware, outermost first: request id and logging, panic
	// recovery, client IP, auth context, language preference.
	var h http.Handler = withPreferences(app.mux)
	h = auth.Middleware(h)
	h = middleware.RealIP(h)
	h = middleware.Recoverer(h)
	h = logging.Middleware(log)(h)
	app.handler = h
	return app
}

// ServeHTTP implements http.Handler.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.handler.ServeHTTP(w, r)
}

// setupRoutes configures all application routes.
func (a *App) setupRoutes() {
	cfg := a.routerCfg
	ah := cfg.AuthHandler
	rh := cfg.RoleHandler
	ph := cfg.ProfileHandler
	pages := cfg.PageHandler

	// Public routes
	a.mux.HandleFunc("GET /{$}", pages.Landing)
	a.mux.HandleFunc("GET /auth", ah.Show)
	a.mux.HandleFunc("POST /auth", ah.Submit)
	a.mux.HandleFunc("POST /logout", ah.Logout)
	a.mux.HandleFunc("GET /healthz", pages.Healthz)
	if cfg.Metrics != nil {
		a.mux.Handle("GET /metrics", cfg.Metrics.Handler())
	}

	// Onboarding: the session guard runs inside the handlers.
	a.mux.HandleFunc("GET /role-select", rh.Show)
	a.mux.HandleFunc("POST /role-select", rh.Select)
	a.mux.HandleFunc("GET /profile/{role}", ph.Show)
	a.mux.HandleFunc("POST /profile/{role}", ph.Submit)

	// Role home pages
	a.mux.Handle("GET /search",
		auth.RequireAuth(cfg.AuthGate.RequireRole(registration.RoleStudent)(http.HandlerFunc(pages.Search))))
	a.mux.Handle("GET /dashboard",
		auth.RequireAuth(cfg.AuthGate.RequireRole(registration.RoleTutor)(http.HandlerFunc(pages.Dashboard))))
}

// withPreferences injects the language preference from query, cookie or
// Accept-Language header.
func withPreferences(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lang := ""
		if c, err := r.Cookie("lang"); err == nil && i18n.Supported(c.Value) {
			lang = c.Value
		}
		if q := r.URL.Query().Get("lang"); i18n.Supported(q) {
			lang = q
			http.SetCookie(w, &http.Cookie{
				Name:     "lang",
				Value:    lang,
				Path:     "/",
				MaxAge:   86400 * 365,
				HttpOnly: true,
			})
		}
		if lang == "" {
			lang = i18n.DetectLanguage(r.Header.Get("Accept-Language"))
		}
		next.ServeHTTP(w, r.WithContext(i18n.WithLang(r.Context(), lang)))
	})
}
