package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/diewo77/tutorconnect/httpx"
	"github.com/diewo77/tutorconnect/i18n"
	"github.com/diewo77/tutorconnect/internal/logging"
	"github.com/diewo77/tutorconnect/internal/registration"
	"github.com/diewo77/tutorconnect/view"
)

const maxJSONBody = 1 << 20

func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxJSONBody))
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// renderPage writes status and renders name. Render errors are logged and
// turned into a 500 when nothing was written yet.
func renderPage(w http.ResponseWriter, r *http.Request, status int, name string, data map[string]any) {
	rw := &deferredStatus{ResponseWriter: w, status: status}
	if err := view.Render(rw, r, name, data); err != nil {
		logging.FromContext(r.Context()).Error("render template", zap.String("template", name), zap.Error(err))
		if !rw.written {
			http.Error(w, "Failed to render template", http.StatusInternalServerError)
		}
	}
}

// deferredStatus holds the status code back until the body is ready, so a
// failed render can still answer 500.
type deferredStatus struct {
	http.ResponseWriter
	status  int
	written bool
}

func (d *deferredStatus) Write(b []byte) (int, error) {
	if !d.written {
		d.written = true
		d.ResponseWriter.WriteHeader(d.status)
	}
	return d.ResponseWriter.Write(b)
}

// redirect sends the client to dest: a 303 for browsers, a JSON body for API
// clients.
func redirect(w http.ResponseWriter, r *http.Request, dest registration.Destination) {
	if httpx.WantsJSON(r) {
		httpx.JSON(w, http.StatusOK, map[string]string{"redirect": string(dest)})
		return
	}
	http.Redirect(w, r, string(dest), http.StatusSeeOther)
}

// toast translates a notice for the request's language. A raw detail, when
// present, replaces the description.
func toast(r *http.Request, n *registration.Notice) view.Toast {
	lang := i18n.LangFromContext(r.Context())
	t := view.Toast{
		Variant: string(n.Variant),
		Title:   i18n.T(lang, n.Title),
	}
	switch {
	case n.Detail != "":
		t.Description = n.Detail
	case n.Description != "":
		t.Description = i18n.T(lang, n.Description)
	}
	return t
}

// outcomeJSON is the API rendering of a registration.Outcome.
type outcomeJSON struct {
	Redirect   string            `json:"redirect,omitempty"`
	Notice     *view.Toast       `json:"notice,omitempty"`
	Ignored    bool              `json:"ignored,omitempty"`
	Violations map[string]string `json:"violations,omitempty"`
}

func writeOutcomeJSON(w http.ResponseWriter, r *http.Request, status int, out registration.Outcome) {
	body := outcomeJSON{
		Redirect:   string(out.Redirect),
		Ignored:    out.Ignored,
		Violations: out.Violations,
	}
	if out.Notice != nil {
		t := toast(r, out.Notice)
		body.Notice = &t
	}
	httpx.JSON(w, status, body)
}
