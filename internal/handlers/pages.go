package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/diewo77/tutorconnect/auth"
	"github.com/diewo77/tutorconnect/httpx"
	"github.com/diewo77/tutorconnect/internal/logging"
	"github.com/diewo77/tutorconnect/internal/models"
	"github.com/diewo77/tutorconnect/internal/registration"
	"github.com/diewo77/tutorconnect/internal/store"
)

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type PageHandler struct {
	profiles *store.Profiles
	db       Pinger
}

func NewPageHandler(profiles *store.Profiles, db Pinger) *PageHandler {
	return &PageHandler{profiles: profiles, db: db}
}

func (h *PageHandler) Landing(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	renderPage(w, r, http.StatusOK, "index.html", nil)
}

// Search lists tutors teaching any of the student's subjects. Students who
// have not filled in their profile yet are sent to the form.
func (h *PageHandler) Search(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())
	student, err := h.profiles.Student(r.Context(), userID)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			logging.FromContext(r.Context()).Error("load student profile", zap.Error(err))
			http.Error(w, "Failed to load profile", http.StatusInternalServerError)
			return
		}
		redirect(w, r, registration.ProfilePath(registration.RoleStudent))
		return
	}

	location := strings.TrimSpace(r.URL.Query().Get("location"))
	tutors, err := h.profiles.MatchTutors(r.Context(), student.Subjects, location)
	if err != nil {
		logging.FromContext(r.Context()).Error("match tutors", zap.Error(err))
		http.Error(w, "Failed to search tutors", http.StatusInternalServerError)
		return
	}
	if httpx.WantsJSON(r) {
		if tutors == nil {
			tutors = []models.TutorProfile{}
		}
		httpx.JSON(w, http.StatusOK, map[string]any{"tutors": tutors})
		return
	}
	renderPage(w, r, http.StatusOK, "search.html", map[string]any{
		"Profile":  student,
		"Tutors":   tutors,
		"Location": location,
	})
}

// Dashboard shows the tutor's profile and the students needing their subjects.
func (h *PageHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())
	tutor, err := h.profiles.Tutor(r.Context(), userID)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			logging.FromContext(r.Context()).Error("load tutor profile", zap.Error(err))
			http.Error(w, "Failed to load profile", http.StatusInternalServerError)
			return
		}
		redirect(w, r, registration.ProfilePath(registration.RoleTutor))
		return
	}

	students, err := h.profiles.MatchStudents(r.Context(), tutor.Subjects, userID)
	if err != nil {
		logging.FromContext(r.Context()).Error("match students", zap.Error(err))
		http.Error(w, "Failed to load students", http.StatusInternalServerError)
		return
	}
	if httpx.WantsJSON(r) {
		if students == nil {
			students = []models.StudentProfile{}
		}
		httpx.JSON(w, http.StatusOK, map[string]any{"profile": tutor, "students": students})
		return
	}
	renderPage(w, r, http.StatusOK, "dashboard.html", map[string]any{
		"Profile":  tutor,
		"Students": students,
	})
}

func (h *PageHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	if h.db != nil {
		if err := h.db.PingContext(r.Context()); err != nil {
			httpx.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable", "error": err.Error()})
			return
		}
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
