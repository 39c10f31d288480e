// Package view renders the HTML screens. Pages are wrapped in layout.html and
// share the partials; every page gets the i18n helpers and the pending toast.
package view

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/diewo77/tutorconnect/auth"
	"github.com/diewo77/tutorconnect/i18n"
	"github.com/diewo77/tutorconnect/templates"
)

const flashCookieName = "flash"

var (
	files    fs.FS = templates.FS
	tplCache       = struct {
		sync.RWMutex
		m map[string]*template.Template
	}{m: map[string]*template.Template{}}
	devMode bool

	langResolver = func(r *http.Request) string { return i18n.LangFromContext(r.Context()) }
)

// SetDevMode disables the template cache so edits show up on reload.
func SetDevMode(dev bool) { devMode = dev }

// SetFS overrides the template source (useful for tests).
func SetFS(f fs.FS) {
	if f == nil {
		return
	}
	files = f
	ResetForTests()
}

// SetLangResolver allows the host app to provide a custom language resolver.
func SetLangResolver(f func(*http.Request) string) {
	if f != nil {
		langResolver = f
	}
}

// ResetForTests clears the template cache.
func ResetForTests() {
	tplCache.Lock()
	tplCache.m = map[string]*template.Template{}
	tplCache.Unlock()
}

// Funcs returns the standard func map bound to the request's language.
func Funcs(r *http.Request) template.FuncMap {
	lang := "en"
	if r != nil {
		lang = langResolver(r)
	}
	return template.FuncMap{
		"t":    func(code string) string { return i18n.T(lang, code) },
		"lang": func() string { return lang },
		"year": func() int { return time.Now().Year() },
		"has": func(list []string, s string) bool {
			for _, v := range list {
				if v == s {
					return true
				}
			}
			return false
		},
		"join": strings.Join,
		// dict creates a map from key-value pairs for passing to sub-templates.
		// Usage: {{ template "partial" (dict "Key1" val1 "Key2" val2) }}
		"dict": func(values ...any) map[string]any {
			if len(values)%2 != 0 {
				return nil
			}
			m := make(map[string]any, len(values)/2)
			for i := 0; i < len(values); i += 2 {
				key, ok := values[i].(string)
				if !ok {
					continue
				}
				m[key] = values[i+1]
			}
			return m
		},
	}
}

// parse builds the template set for name. The result is cached with
// placeholder funcs; Render clones it and binds the request's funcs.
func parse(name string) (*template.Template, error) {
	if !devMode {
		tplCache.RLock()
		t, ok := tplCache.m[name]
		tplCache.RUnlock()
		if ok {
			return t, nil
		}
	}

	content, err := fs.ReadFile(files, name)
	if err != nil {
		return nil, err
	}
	var t *template.Template
	if bytes.Contains(bytes.ToLower(content), []byte("<!doctype")) {
		// Full document provided; skip layout wrapping.
		t, err = template.New(path.Base(name)).Funcs(Funcs(nil)).ParseFS(files, name)
	} else {
		patterns := []string{"layout.html", name}
		if matches, _ := fs.Glob(files, "partials/*.html"); len(matches) > 0 {
			patterns = append(patterns, "partials/*.html")
		}
		t, err = template.New("layout.html").Funcs(Funcs(nil)).ParseFS(files, patterns...)
	}
	if err != nil {
		return nil, err
	}
	if !devMode {
		tplCache.Lock()
		tplCache.m[name] = t
		tplCache.Unlock()
	}
	return t, nil
}

// Render executes the page template name with data. The pending toast, if
// any, is consumed and exposed as .Toast.
func Render(w http.ResponseWriter, r *http.Request, name string, data map[string]any) error {
	base, err := parse(name)
	if err != nil {
		return err
	}
	t, err := base.Clone()
	if err != nil {
		return err
	}
	t.Funcs(Funcs(r))

	if data == nil {
		data = map[string]any{}
	}
	if _, exists := data["Year"]; !exists {
		data["Year"] = time.Now().Year()
	}
	if _, exists := data["IsLoggedIn"]; !exists {
		_, loggedIn := auth.UserIDFromContext(r.Context())
		data["IsLoggedIn"] = loggedIn
	}
	if _, exists := data["Toast"]; !exists {
		if toast, ok := PopFlash(w, r); ok {
			data["Toast"] = toast
		}
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return err
	}
	if w.Header().Get("Content-Type") == "" {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
	}
	_, err = buf.WriteTo(w)
	return err
}

// Toast is a translated notification ready for display.
type Toast struct {
	Variant     string `json:"v"`
	Title       string `json:"t"`
	Description string `json:"d,omitempty"`
}

// Destructive reports whether the toast signals a failure.
func (t Toast) Destructive() bool { return t.Variant == "destructive" }

// SetFlash stores toast in a cookie so it survives the next redirect.
func SetFlash(w http.ResponseWriter, toast Toast) {
	b, err := json.Marshal(toast)
	if err != nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    base64.RawURLEncoding.EncodeToString(b),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// PopFlash reads and clears the pending toast.
func PopFlash(w http.ResponseWriter, r *http.Request) (Toast, bool) {
	c, err := r.Cookie(flashCookieName)
	if err != nil || c.Value == "" {
		return Toast{}, false
	}
	http.SetCookie(w, &http.Cookie{Name: flashCookieName, Value: "", Path: "/", MaxAge: -1})
	b, err := base64.RawURLEncoding.DecodeString(c.Value)
	if err != nil {
		return Toast{}, false
	}
	var t Toast
	if err := json.Unmarshal(b, &t); err != nil {
		return Toast{}, false
	}
	return t, true
}
