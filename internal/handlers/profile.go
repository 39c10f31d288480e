package handlers

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/diewo77/tutorconnect/httpx"
	"github.com/diewo77/tutorconnect/internal/logging"
	"github.com/diewo77/tutorconnect/internal/metrics"
	"github.com/diewo77/tutorconnect/internal/registration"
	"github.com/diewo77/tutorconnect/internal/store"
	"github.com/diewo77/tutorconnect/validation"
	"github.com/diewo77/tutorconnect/view"
)

type ProfileHandler struct {
	guard    *registration.Guard
	authz    Authorizer
	students *registration.FormController[registration.StudentDraft]
	tutors   *registration.FormController[registration.TutorDraft]
	profiles *store.Profiles
	metrics  *metrics.Metrics
}

func NewProfileHandler(guard *registration.Guard, authz Authorizer, profiles *store.Profiles, m *metrics.Metrics, log *zap.Logger) *ProfileHandler {
	return &ProfileHandler{
		guard:    guard,
		authz:    authz,
		students: registration.NewFormController[registration.StudentDraft](profiles.StudentPersister(), log),
		tutors:   registration.NewFormController[registration.TutorDraft](profiles.TutorPersister(), log),
		profiles: profiles,
		metrics:  m,
	}
}

// enter runs the session guard and the role check shared by both verbs.
func (h *ProfileHandler) enter(w http.ResponseWriter, r *http.Request) (registration.Session, registration.Role, bool) {
	role, err := registration.ParseRole(r.PathValue("role"))
	if err != nil {
		http.NotFound(w, r)
		return registration.Session{}, "", false
	}
	sess, out, ok := h.guard.Enter(r.Context())
	if !ok {
		redirect(w, r, out.Redirect)
		return registration.Session{}, "", false
	}
	if !h.authz.CanAccessProfile(r.Context(), sess.UserID, role) {
		redirect(w, r, registration.DestRoleSelect)
		return registration.Session{}, "", false
	}
	return sess, role, true
}

func (h *ProfileHandler) Show(w http.ResponseWriter, r *http.Request) {
	sess, role, ok := h.enter(w, r)
	if !ok {
		return
	}
	switch role {
	case registration.RoleStudent:
		d := h.students.Empty()
		if p, err := h.profiles.Student(r.Context(), sess.UserID); err == nil {
			d = registration.StudentDraft{
				Name: p.Name, Age: p.Age, Grade: p.Grade, Subjects: p.Subjects,
				Availability: p.Availability, Budget: p.Budget, Location: p.Location,
				SpecialRequirements: p.SpecialRequirements,
			}
		} else if !errors.Is(err, store.ErrNotFound) {
			logging.FromContext(r.Context()).Warn("load student profile", zap.Error(err))
		}
		renderProfile(w, r, http.StatusOK, d, nil, nil)
	case registration.RoleTutor:
		d := h.tutors.Empty()
		if p, err := h.profiles.Tutor(r.Context(), sess.UserID); err == nil {
			d = registration.TutorDraft{
				Name: p.Name, Email: p.Email, Phone: p.Phone, Subjects: p.Subjects,
				Education: p.Education, Experience: p.Experience, Bio: p.Bio,
				Availability: p.Availability, HourlyRate: p.HourlyRate, Location: p.Location,
				TravelRadius: p.TravelRadius,
			}
		} else if !errors.Is(err, store.ErrNotFound) {
			logging.FromContext(r.Context()).Warn("load tutor profile", zap.Error(err))
		}
		renderProfile(w, r, http.StatusOK, d, nil, nil)
	}
}

func (h *ProfileHandler) Submit(w http.ResponseWriter, r *http.Request) {
	sess, role, ok := h.enter(w, r)
	if !ok {
		return
	}
	switch role {
	case registration.RoleStudent:
		submitProfile(w, r, h.students, sess, registration.StudentFields, h.metrics)
	case registration.RoleTutor:
		submitProfile(w, r, h.tutors, sess, registration.TutorFields, h.metrics)
	}
}

// readDraft builds a draft from the request. Form posts are folded through
// the draft's edits; JSON bodies decode straight into the draft.
func readDraft[D registration.Draft[D]](r *http.Request, c *registration.FormController[D], fields []registration.Field) (D, error) {
	d := c.Empty()
	if httpx.IsJSONBody(r) {
		err := decodeJSON(r, &d)
		return d, err
	}
	if err := r.ParseForm(); err != nil {
		return d, err
	}
	edits := make([]registration.Edit, 0, len(fields)+len(r.PostForm["subjects"]))
	for _, f := range fields {
		if v, ok := r.PostForm[string(f)]; ok && len(v) > 0 {
			edits = append(edits, registration.SetField(f, v[0]))
		}
	}
	seen := make(map[string]bool)
	for _, s := range r.PostForm["subjects"] {
		// A checkbox posted twice must not toggle itself off.
		if seen[s] {
			continue
		}
		seen[s] = true
		edits = append(edits, registration.ToggleSubject(s))
	}
	return c.Edit(d, edits...)
}

func submitProfile[D registration.Draft[D]](w http.ResponseWriter, r *http.Request, c *registration.FormController[D], sess registration.Session, fields []registration.Field, m *metrics.Metrics) {
	d, err := readDraft(r, c, fields)
	if err != nil {
		if httpx.WantsJSON(r) || httpx.IsJSONBody(r) {
			httpx.JSONError(w, http.StatusBadRequest, "invalid_request", err.Error())
			return
		}
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}

	out := c.Submit(r.Context(), sess, d)
	m.ObserveProfileSubmission(d.Role().String(), out.Label())

	status := http.StatusOK
	switch {
	case out.Redirect != "" && out.Notice != nil:
		if httpx.WantsJSON(r) {
			writeOutcomeJSON(w, r, http.StatusOK, out)
			return
		}
		view.SetFlash(w, toast(r, out.Notice))
		http.Redirect(w, r, string(out.Redirect), http.StatusSeeOther)
		return
	case out.Redirect != "":
		redirect(w, r, out.Redirect)
		return
	case !out.Violations.Empty():
		status = http.StatusUnprocessableEntity
	case out.Err != nil:
		status = http.StatusInternalServerError
	}

	if httpx.WantsJSON(r) {
		writeOutcomeJSON(w, r, status, out)
		return
	}
	var t *view.Toast
	if out.Notice != nil {
		tt := toast(r, out.Notice)
		t = &tt
	}
	renderProfile(w, r, status, d, out.Violations, t)
}

func renderProfile[D registration.Draft[D]](w http.ResponseWriter, r *http.Request, status int, d D, v validation.Violations, t *view.Toast) {
	if v == nil {
		v = validation.Violations{}
	}
	role := d.Role()
	data := map[string]any{
		"Role":       role,
		"Draft":      d,
		"Violations": v,
		"Subjects":   registration.Subjects(),
		"Grades":     registration.Grades(),
		"Back":       registration.BackFrom(registration.ProfilePath(role)),
	}
	if t != nil {
		data["Toast"] = *t
	}
	renderPage(w, r, status, "profile_"+role.String()+".html", data)
}
