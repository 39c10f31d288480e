package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/diewo77/tutorconnect/auth"
	"github.com/diewo77/tutorconnect/internal/db"
	"github.com/diewo77/tutorconnect/internal/metrics"
	"github.com/diewo77/tutorconnect/internal/models"
	"github.com/diewo77/tutorconnect/internal/policy"
	"github.com/diewo77/tutorconnect/internal/registration"
	"github.com/diewo77/tutorconnect/internal/store"
)

func setupE2EDB(t *testing.T) *gorm.DB {
	t.Helper()
	dbi, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "e2e.db")), db.GormConfig(false))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.Migrate(dbi); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return dbi
}

func newTestApp(t *testing.T, dbi *gorm.DB, flights registration.FlightGuard) *App {
	t.Helper()
	auth.Configure("e2e-secret", time.Hour)
	auth.SetUserVerifier(store.NewUsers(dbi).Exists)
	t.Cleanup(func() { auth.SetUserVerifier(nil) })
	return NewApp(policy.NewRouterConfig(dbi, policy.Deps{Flights: flights, Metrics: metrics.New()}), nil)
}

// browser keeps cookies between requests like a user agent would.
type browser struct {
	t       *testing.T
	app     http.Handler
	cookies map[string]*http.Cookie
}

func newBrowser(t *testing.T, app http.Handler) *browser {
	return &browser{t: t, app: app, cookies: map[string]*http.Cookie{}}
}

func (b *browser) do(req *http.Request) *httptest.ResponseRecorder {
	for _, c := range b.cookies {
		req.AddCookie(c)
	}
	rr := httptest.NewRecorder()
	b.app.ServeHTTP(rr, req)
	for _, c := range rr.Result().Cookies() {
		if c.MaxAge < 0 || c.Value == "" {
			delete(b.cookies, c.Name)
			continue
		}
		b.cookies[c.Name] = c
	}
	return rr
}

func (b *browser) get(path string) *httptest.ResponseRecorder {
	return b.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (b *browser) postForm(path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return b.do(req)
}

func (b *browser) signup(email, name string) {
	b.t.Helper()
	rr := b.postForm("/auth", url.Values{"mode": {"signup"}, "email": {email}, "password": {"secret123"}, "name": {name}})
	expectRedirect(b.t, rr, "/role-select")
	if b.cookies["session"] == nil {
		b.t.Fatalf("no session cookie after signup")
	}
}

func expectRedirect(t *testing.T, rr *httptest.ResponseRecorder, dest string) {
	t.Helper()
	if rr.Code != http.StatusSeeOther {
		t.Fatalf("expected 303 got %d body=%s", rr.Code, rr.Body.String())
	}
	if loc := rr.Header().Get("Location"); loc != dest {
		t.Fatalf("expected redirect to %s got %s", dest, loc)
	}
}

func countRoles(t *testing.T, dbi *gorm.DB) int64 {
	t.Helper()
	var n int64
	if err := dbi.Model(&models.UserRole{}).Count(&n).Error; err != nil {
		t.Fatalf("count roles: %v", err)
	}
	return n
}

func tutorForm() url.Values {
	return url.Values{
		"name":       {"Ana"},
		"email":      {"ana@x.io"},
		"subjects":   {"Mathematics", "Physics"},
		"hourlyRate": {"40"},
		"location":   {"Lyon"},
	}
}

func TestRoleSelectWithoutSessionWritesNothing(t *testing.T) {
	dbi := setupE2EDB(t)
	b := newBrowser(t, newTestApp(t, dbi, nil))

	rr := b.postForm("/role-select", url.Values{"role": {"tutor"}})
	expectRedirect(t, rr, "/auth")
	if n := countRoles(t, dbi); n != 0 {
		t.Fatalf("expected no role rows, got %d", n)
	}

	expectRedirect(t, b.get("/profile/student"), "/auth")
	expectRedirect(t, b.get("/search"), "/auth")
}

func TestTutorOnboardingE2E(t *testing.T) {
	dbi := setupE2EDB(t)
	b := newBrowser(t, newTestApp(t, dbi, nil))
	b.signup("ana@example.com", "Ana")

	rr := b.get("/role-select")
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), "Continue as Tutor") {
		t.Fatalf("role select page: %d %s", rr.Code, rr.Body.String())
	}

	expectRedirect(t, b.postForm("/role-select", url.Values{"role": {"tutor"}}), "/profile/tutor")
	if n := countRoles(t, dbi); n != 1 {
		t.Fatalf("expected 1 role row, got %d", n)
	}

	rr = b.get("/profile/tutor")
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), "Create Your Tutor Profile") {
		t.Fatalf("tutor form: %d %s", rr.Code, rr.Body.String())
	}

	// Missing hourly rate: one aggregated notice, draft kept, nothing saved.
	incomplete := tutorForm()
	incomplete.Del("hourlyRate")
	rr = b.postForm("/profile/tutor", incomplete)
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 got %d", rr.Code)
	}
	body := rr.Body.String()
	for _, want := range []string{"Missing Information", "Please fill in all required fields.", `value="Ana"`} {
		if !strings.Contains(body, want) {
			t.Fatalf("missing %q in body=%s", want, body)
		}
	}
	var profiles int64
	dbi.Model(&models.TutorProfile{}).Count(&profiles)
	if profiles != 0 {
		t.Fatalf("incomplete profile was saved")
	}

	expectRedirect(t, b.postForm("/profile/tutor", tutorForm()), "/dashboard")
	if b.cookies["flash"] == nil {
		t.Fatalf("expected flash cookie after profile creation")
	}

	rr = b.get("/dashboard")
	if rr.Code != http.StatusOK {
		t.Fatalf("dashboard: %d %s", rr.Code, rr.Body.String())
	}
	body = rr.Body.String()
	for _, want := range []string{"Profile Created!", "Your tutor profile has been created successfully.", "Ana", "Mathematics, Physics"} {
		if !strings.Contains(body, want) {
			t.Fatalf("missing %q in dashboard body=%s", want, body)
		}
	}
	if b.cookies["flash"] != nil {
		t.Fatalf("flash should be consumed by the dashboard render")
	}

	// Selecting the same role again is a logical success.
	expectRedirect(t, b.postForm("/role-select", url.Values{"role": {"tutor"}}), "/profile/tutor")
	if n := countRoles(t, dbi); n != 1 {
		t.Fatalf("expected 1 role row after reselect, got %d", n)
	}
}

func TestStudentSearchFindsTutor(t *testing.T) {
	dbi := setupE2EDB(t)
	app := newTestApp(t, dbi, nil)

	tutor := newBrowser(t, app)
	tutor.signup("ana@example.com", "Ana")
	expectRedirect(t, tutor.postForm("/role-select", url.Values{"role": {"tutor"}}), "/profile/tutor")
	expectRedirect(t, tutor.postForm("/profile/tutor", tutorForm()), "/dashboard")

	student := newBrowser(t, app)
	student.signup("ben@example.com", "Ben")
	expectRedirect(t, student.postForm("/role-select", url.Values{"role": {"student"}}), "/profile/student")

	// Search before the profile exists sends the student to the form.
	expectRedirect(t, student.get("/search"), "/profile/student")

	rr := student.postForm("/profile/student", url.Values{
		"name":     {"Ben"},
		"age":      {"16"},
		"grade":    {"Grade 10"},
		"subjects": {"Mathematics"},
	})
	expectRedirect(t, rr, "/search")

	rr = student.get("/search")
	if rr.Code != http.StatusOK {
		t.Fatalf("search: %d %s", rr.Code, rr.Body.String())
	}
	body := rr.Body.String()
	if !strings.Contains(body, "Your student profile has been created successfully.") || !strings.Contains(body, "ana@x.io") {
		t.Fatalf("unexpected search body=%s", body)
	}

	rr = student.get("/search?location=Paris")
	if strings.Contains(rr.Body.String(), "ana@x.io") {
		t.Fatalf("location filter should exclude the Lyon tutor")
	}

	rr = tutor.get("/dashboard")
	if !strings.Contains(rr.Body.String(), "Grade 10") {
		t.Fatalf("tutor dashboard should list Ben: %s", rr.Body.String())
	}

	// A student may not open the tutor screens.
	expectRedirect(t, student.get("/profile/tutor"), "/role-select")
	expectRedirect(t, student.get("/dashboard"), "/role-select")
}

func TestRoleSelectRejectsUnknownRole(t *testing.T) {
	dbi := setupE2EDB(t)
	b := newBrowser(t, newTestApp(t, dbi, nil))
	b.signup("eve@example.com", "Eve")

	rr := b.postForm("/role-select", url.Values{"role": {"admin"}})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "toast-destructive") {
		t.Fatalf("expected destructive toast: %s", rr.Body.String())
	}
	if n := countRoles(t, dbi); n != 0 {
		t.Fatalf("expected no role rows, got %d", n)
	}

	if rr := b.get("/profile/admin"); rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown profile role, got %d", rr.Code)
	}
}

type busyFlights struct{}

func (busyFlights) Acquire(context.Context, string) (bool, error) { return false, nil }
func (busyFlights) Release(context.Context, string) error          { return nil }

func TestRoleSelectWhilePendingIsIgnored(t *testing.T) {
	dbi := setupE2EDB(t)
	b := newBrowser(t, newTestApp(t, dbi, busyFlights{}))
	b.signup("joe@example.com", "Joe")

	rr := b.postForm("/role-select", url.Values{"role": {"student"}})
	if rr.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", rr.Code)
	}
	body := rr.Body.String()
	if !strings.Contains(body, "Loading...") || !strings.Contains(body, "disabled") {
		t.Fatalf("expected pending buttons: %s", body)
	}
	// The pending screen recovers on its own and offers a manual way back.
	if got := rr.Header().Get("Refresh"); got != "2; url=/role-select" {
		t.Fatalf("expected refresh back to role select, got %q", got)
	}
	if !strings.Contains(body, `<a href="/role-select">Still waiting? Reload the choices</a>`) {
		t.Fatalf("expected retry link: %s", body)
	}
	if n := countRoles(t, dbi); n != 0 {
		t.Fatalf("expected no role rows, got %d", n)
	}
}

func TestJSONClients(t *testing.T) {
	dbi := setupE2EDB(t)
	b := newBrowser(t, newTestApp(t, dbi, nil))

	req := httptest.NewRequest(http.MethodPost, "/auth", strings.NewReader(`{"mode":"signup","email":"api@example.com","password":"pw","name":"Api"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	rr := b.do(req)
	if rr.Code != http.StatusOK {
		t.Fatalf("signup: %d %s", rr.Code, rr.Body.String())
	}

	req = httptest.NewRequest(http.MethodPost, "/role-select", strings.NewReader(`{"role":"student"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	rr = b.do(req)
	var got map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v body=%s", err, rr.Body.String())
	}
	if got["redirect"] != "/profile/student" {
		t.Fatalf("unexpected body %v", got)
	}

	req = httptest.NewRequest(http.MethodPost, "/profile/student", strings.NewReader(`{"name":"Api","subjects":["Music"]}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	rr = b.do(req)
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 got %d body=%s", rr.Code, rr.Body.String())
	}
	var invalid struct {
		Violations map[string]string `json:"violations"`
		Notice     struct {
			Title string `json:"t"`
		} `json:"notice"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &invalid); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if invalid.Notice.Title != "Missing Information" {
		t.Fatalf("unexpected notice %+v", invalid.Notice)
	}
	if _, ok := invalid.Violations["age"]; !ok {
		t.Fatalf("expected age violation, got %v", invalid.Violations)
	}
	// Subjects are a set and age is digits only; neither reaches the store.
	req = httptest.NewRequest(http.MethodPost, "/profile/student",
		strings.NewReader(`{"name":"Api","age":"12345678901","grade":"Grade 3","subjects":["Art","Art"]}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	rr = b.do(req)
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 got %d body=%s", rr.Code, rr.Body.String())
	}
	invalid.Violations = nil
	if err := json.Unmarshal(rr.Body.Bytes(), &invalid); err != nil {
		t.Fatalf("decode: %v", err)
	}
	for _, f := range []string{"age", "subjects"} {
		if _, ok := invalid.Violations[f]; !ok {
			t.Fatalf("expected %s violation, got %v", f, invalid.Violations)
		}
	}
	var saved int64
	dbi.Model(&models.StudentProfile{}).Count(&saved)
	if saved != 0 {
		t.Fatalf("invalid profile was saved")
	}
}

func TestHealthAndMetrics(t *testing.T) {
	dbi := setupE2EDB(t)
	b := newBrowser(t, newTestApp(t, dbi, nil))

	rr := b.get("/healthz")
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), `"ok"`) {
		t.Fatalf("healthz: %d %s", rr.Code, rr.Body.String())
	}
	if rr.Header().Get("X-Request-Id") == "" {
		t.Fatalf("missing request id header")
	}

	b.signup("m@example.com", "M")
	b.postForm("/role-select", url.Values{"role": {"student"}})

	rr = b.get("/metrics")
	if !strings.Contains(rr.Body.String(), `tutorconnect_role_selections_total{outcome="ok",role="student"} 1`) {
		t.Fatalf("metrics missing role selection: %s", rr.Body.String())
	}
}

func TestLanguagePreference(t *testing.T) {
	dbi := setupE2EDB(t)
	b := newBrowser(t, newTestApp(t, dbi, nil))

	rr := b.get("/auth?lang=fr")
	if !strings.Contains(rr.Body.String(), `lang="fr"`) {
		t.Fatalf("expected french page")
	}
	// The cookie keeps the choice on the next request.
	rr = b.get("/auth")
	if !strings.Contains(rr.Body.String(), "Se connecter") {
		t.Fatalf("expected french labels from cookie: %s", rr.Body.String())
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Language", "fr-FR,fr;q=0.9")
	rr = httptest.NewRecorder()
	b.app.ServeHTTP(rr, req)
	if !strings.Contains(rr.Body.String(), `lang="fr"`) {
		t.Fatalf("expected Accept-Language detection")
	}
}

func TestSignupRejectsOverlongPassword(t *testing.T) {
	dbi := setupE2EDB(t)
	b := newBrowser(t, newTestApp(t, dbi, nil))

	rr := b.postForm("/auth", url.Values{
		"mode":     {"signup"},
		"email":    {"long@example.com"},
		"password": {strings.Repeat("p", 73)},
		"name":     {"Long"},
	})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d body=%s", rr.Code, rr.Body.String())
	}
	if !strings.Contains(rr.Body.String(), "Password must be at most 72 bytes") {
		t.Fatalf("expected password length message: %s", rr.Body.String())
	}
	var users int64
	dbi.Model(&models.User{}).Count(&users)
	if users != 0 {
		t.Fatalf("no user should be created, got %d", users)
	}

	// 72 bytes is still accepted.
	rr = b.postForm("/auth", url.Values{
		"mode":     {"signup"},
		"email":    {"long@example.com"},
		"password": {strings.Repeat("p", 72)},
		"name":     {"Long"},
	})
	expectRedirect(t, rr, "/role-select")
}
