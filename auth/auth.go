// Package auth issues and verifies the session cookie. The cookie carries an
// HS256 JWT whose subject is the user id; Middleware exposes the parsed
// session through the request context.
package auth

import (
	"context"
	"errors"
	"net/http"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/diewo77/tutorconnect/httpx"
)

type ctxKey string

const (
	sessionCookieName = "session"
	sessionCtxKey     = ctxKey("session")
	issuer            = "tutorconnect"

	// LoginPath is where unauthenticated browsers are sent.
	LoginPath = "/auth"
)

// Session is the verified content of the session cookie.
type Session struct {
	UserID    uint
	TokenID   string
	ExpiresAt time.Time
}

// UserVerifier is an optional callback to validate that a session's user still exists/is allowed.
// Set it during app bootstrap via SetUserVerifier. If nil, no extra verification is performed.
type UserVerifier func(ctx context.Context, uid uint) bool

var (
	mu       sync.RWMutex
	verifier UserVerifier
	secret   string
	ttl      = 14 * 24 * time.Hour
)

// SetUserVerifier configures the global verifier used by RequireAuth.
func SetUserVerifier(v UserVerifier) {
	mu.Lock()
	verifier = v
	mu.Unlock()
}

// Configure sets the signing secret and session lifetime. Empty or zero values keep the current setting.
func Configure(s string, lifetime time.Duration) {
	mu.Lock()
	defer mu.Unlock()
	if s != "" {
		secret = s
	}
	if lifetime > 0 {
		ttl = lifetime
	}
}

// Secret returns the configured secret, SESSION_SECRET, or a dev value.
func Secret() string {
	mu.RLock()
	s := secret
	mu.RUnlock()
	if s != "" {
		return s
	}
	if s := os.Getenv("SESSION_SECRET"); s != "" {
		return s
	}
	return "devsessionsecret"
}

type claims struct {
	jwt.RegisteredClaims
}

// CreateSession sets a signed cookie with the user id.
func CreateSession(w http.ResponseWriter, userID uint) (Session, error) {
	mu.RLock()
	lifetime := ttl
	mu.RUnlock()
	now := time.Now().UTC()
	sess := Session{
		UserID:    userID,
		TokenID:   uuid.NewString(),
		ExpiresAt: now.Add(lifetime),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{jwt.RegisteredClaims{
		ID:        sess.TokenID,
		Subject:   strconv.FormatUint(uint64(userID), 10),
		Issuer:    issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(sess.ExpiresAt),
	}})
	signed, err := token.SignedString([]byte(Secret()))
	if err != nil {
		return Session{}, err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    signed,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  sess.ExpiresAt,
	})
	return sess, nil
}

// ClearSession deletes the session cookie.
func ClearSession(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{Name: sessionCookieName, Value: "", Path: "/", MaxAge: -1, Expires: time.Unix(0, 0), HttpOnly: true, SameSite: http.SameSiteLaxMode})
}

// ParseToken verifies a signed session token.
func ParseToken(raw string) (Session, error) {
	var c claims
	token, err := jwt.ParseWithClaims(raw, &c, func(*jwt.Token) (any, error) {
		return []byte(Secret()), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithIssuer(issuer))
	if err != nil {
		return Session{}, err
	}
	if !token.Valid {
		return Session{}, jwt.ErrTokenInvalidClaims
	}
	id64, err := strconv.ParseUint(c.Subject, 10, 64)
	if err != nil || id64 == 0 {
		return Session{}, errors.New("auth: invalid subject")
	}
	sess := Session{UserID: uint(id64), TokenID: c.ID}
	if c.ExpiresAt != nil {
		sess.ExpiresAt = c.ExpiresAt.Time
	}
	return sess, nil
}

// ParseSession validates cookie and returns the session.
func ParseSession(r *http.Request) (Session, bool) {
	c, err := r.Cookie(sessionCookieName)
	if err != nil || c.Value == "" {
		return Session{}, false
	}
	sess, err := ParseToken(c.Value)
	if err != nil {
		return Session{}, false
	}
	return sess, true
}

// WithSession stores the session in context.
func WithSession(ctx context.Context, sess Session) context.Context {
	return context.WithValue(ctx, sessionCtxKey, sess)
}

// WithUserID stores a bare user id in context (tests, internal calls).
func WithUserID(ctx context.Context, userID uint) context.Context {
	return WithSession(ctx, Session{UserID: userID})
}

// SessionFromContext extracts the session.
func SessionFromContext(ctx context.Context) (Session, bool) {
	sess, ok := ctx.Value(sessionCtxKey).(Session)
	if !ok || sess.UserID == 0 {
		return Session{}, false
	}
	return sess, true
}

// UserIDFromContext extracts user id.
func UserIDFromContext(ctx context.Context) (uint, bool) {
	sess, ok := SessionFromContext(ctx)
	return sess.UserID, ok
}

// Verify runs the configured UserVerifier, if any.
func Verify(ctx context.Context, uid uint) bool {
	mu.RLock()
	v := verifier
	mu.RUnlock()
	return v == nil || v(ctx, uid)
}

// Middleware attaches the session to request context if present.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if sess, ok := ParseSession(r); ok {
			r = r.WithContext(WithSession(r.Context(), sess))
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAuth redirects to LoginPath if not authenticated (HTML) or returns 401 JSON.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		uid, ok := UserIDFromContext(r.Context())
		if ok && !Verify(r.Context(), uid) {
			// Session refers to a non-existing/disabled user: clear and treat as unauthorized.
			ClearSession(w)
			ok = false
		}
		if !ok {
			if httpx.WantsJSON(r) {
				httpx.JSONError(w, http.StatusUnauthorized, "unauthorized", nil)
				return
			}
			http.Redirect(w, r, LoginPath, http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}
