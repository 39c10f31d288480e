package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/diewo77/tutorconnect/httpx"
	"github.com/diewo77/tutorconnect/internal/metrics"
	"github.com/diewo77/tutorconnect/internal/registration"
	"github.com/diewo77/tutorconnect/view"
)

// Authorizer decides which profile screens a user may open.
type Authorizer interface {
	CanAccessProfile(ctx context.Context, userID uint, role registration.Role) bool
	InvalidateUser(userID uint)
}

// pendingRefresh reloads the role screen after a selection was ignored as
// already in flight.
const pendingRefresh = "2; url=/role-select"

type RoleHandler struct {
	guard     *registration.Guard
	registrar *registration.Registrar
	authz     Authorizer
	metrics   *metrics.Metrics
}

func NewRoleHandler(guard *registration.Guard, registrar *registration.Registrar, authz Authorizer, m *metrics.Metrics) *RoleHandler {
	return &RoleHandler{guard: guard, registrar: registrar, authz: authz, metrics: m}
}

func (h *RoleHandler) page(w http.ResponseWriter, r *http.Request, status int, pending bool, t *view.Toast) {
	data := map[string]any{
		"Roles":   registration.Roles(),
		"Back":    registration.BackFrom(registration.DestRoleSelect),
		"Pending": pending,
	}
	if t != nil {
		data["Toast"] = *t
	}
	renderPage(w, r, status, "role_select.html", data)
}

func (h *RoleHandler) Show(w http.ResponseWriter, r *http.Request) {
	if _, out, ok := h.guard.Enter(r.Context()); !ok {
		redirect(w, r, out.Redirect)
		return
	}
	h.page(w, r, http.StatusOK, false, nil)
}

// Select records the chosen role and moves on to its profile form.
func (h *RoleHandler) Select(w http.ResponseWriter, r *http.Request) {
	sess, out, ok := h.guard.Enter(r.Context())
	if !ok {
		redirect(w, r, out.Redirect)
		return
	}

	var raw string
	if httpx.IsJSONBody(r) {
		var body struct {
			Role string `json:"role"`
		}
		if err := decodeJSON(r, &body); err != nil {
			httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
			return
		}
		raw = body.Role
	} else {
		raw = r.FormValue("role")
	}
	role, err := registration.ParseRole(raw)
	if err != nil {
		// Let the registrar report it like any other rejected selection.
		role = registration.Role(raw)
	}

	out = h.registrar.SelectRole(r.Context(), sess, role)
	h.metrics.ObserveRoleSelection(metricRole(role), out.Label())

	switch {
	case out.Ignored:
		if httpx.WantsJSON(r) {
			writeOutcomeJSON(w, r, http.StatusConflict, out)
			return
		}
		// The first request's redirect went to another tab or was lost; bring
		// the screen back once that write has had time to settle.
		w.Header().Set("Refresh", pendingRefresh)
		h.page(w, r, http.StatusConflict, true, nil)
	case out.Redirect != "":
		h.authz.InvalidateUser(sess.UserID)
		redirect(w, r, out.Redirect)
	default:
		status := http.StatusInternalServerError
		if errors.Is(out.Err, registration.ErrInvalidRole) {
			status = http.StatusBadRequest
		}
		if httpx.WantsJSON(r) {
			writeOutcomeJSON(w, r, status, out)
			return
		}
		t := toast(r, out.Notice)
		h.page(w, r, status, false, &t)
	}
}

// metricRole keeps label cardinality bounded.
func metricRole(role registration.Role) string {
	if role.IsValid() {
		return role.String()
	}
	return "invalid"
}
