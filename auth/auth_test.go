package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func sessionCookie(t *testing.T, uid uint) *http.Cookie {
	t.Helper()
	rec := httptest.NewRecorder()
	if _, err := CreateSession(rec, uid); err != nil {
		t.Fatalf("create session: %v", err)
	}
	for _, c := range rec.Result().Cookies() {
		if c.Name == sessionCookieName {
			return c
		}
	}
	t.Fatalf("no session cookie")
	return nil
}

func TestSessionRoundTrip(t *testing.T) {
	c := sessionCookie(t, 42)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(c)
	sess, ok := ParseSession(req)
	if !ok {
		t.Fatalf("expected valid session")
	}
	if sess.UserID != 42 {
		t.Fatalf("expected uid 42 got %d", sess.UserID)
	}
	if sess.TokenID == "" {
		t.Fatalf("expected token id")
	}
	if !sess.ExpiresAt.After(time.Now()) {
		t.Fatalf("expected future expiry, got %v", sess.ExpiresAt)
	}
}

func TestParseSessionRejectsTamperedCookie(t *testing.T) {
	c := sessionCookie(t, 7)
	c.Value = c.Value + "x"
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(c)
	if _, ok := ParseSession(req); ok {
		t.Fatalf("tampered cookie must be rejected")
	}
}

func TestParseSessionRejectsOtherSecret(t *testing.T) {
	c := sessionCookie(t, 7)
	Configure("another-secret", 0)
	t.Cleanup(func() {
		mu.Lock()
		secret = ""
		mu.Unlock()
	})
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(c)
	if _, ok := ParseSession(req); ok {
		t.Fatalf("cookie signed with old secret must be rejected")
	}
}

func TestRequireAuthRedirectsToAuthScreen(t *testing.T) {
	h := Middleware(RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})))

	req := httptest.NewRequest(http.MethodGet, "/role-select", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusSeeOther || rr.Header().Get("Location") != LoginPath {
		t.Fatalf("expected redirect to %s, got %d %q", LoginPath, rr.Code, rr.Header().Get("Location"))
	}

	req = httptest.NewRequest(http.MethodGet, "/role-select", nil)
	req.Header.Set("Accept", "application/json")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for JSON client, got %d", rr.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/role-select", nil)
	req.AddCookie(sessionCookie(t, 9))
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusNoContent {
		t.Fatalf("expected pass-through, got %d", rr.Code)
	}
}

func TestRequireAuthHonoursVerifier(t *testing.T) {
	SetUserVerifier(func(_ context.Context, uid uint) bool { return uid != 13 })
	t.Cleanup(func() { SetUserVerifier(nil) })

	h := Middleware(RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(sessionCookie(t, 13))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusSeeOther {
		t.Fatalf("expected redirect for unknown user, got %d", rr.Code)
	}
	cleared := false
	for _, c := range rr.Result().Cookies() {
		if c.Name == sessionCookieName && c.Value == "" {
			cleared = true
		}
	}
	if !cleared {
		t.Fatalf("expected session cookie to be cleared")
	}
}
