package handlers

import (
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/diewo77/tutorconnect/auth"
	"github.com/diewo77/tutorconnect/httpx"
	"github.com/diewo77/tutorconnect/i18n"
	"github.com/diewo77/tutorconnect/internal/logging"
	"github.com/diewo77/tutorconnect/internal/registration"
	"github.com/diewo77/tutorconnect/internal/store"
)

const maxPasswordBytes = 72

type AuthHandler struct {
	users *store.Users
}

func NewAuthHandler(users *store.Users) *AuthHandler {
	return &AuthHandler{users: users}
}

type credentials struct {
	Mode     string `json:"mode"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

func (h *AuthHandler) Show(w http.ResponseWriter, r *http.Request) {
	if _, ok := auth.UserIDFromContext(r.Context()); ok {
		http.Redirect(w, r, string(registration.DestRoleSelect), http.StatusSeeOther)
		return
	}
	renderPage(w, r, http.StatusOK, "auth.html", map[string]any{"Email": ""})
}

// Submit handles both forms of the auth screen: mode=login or mode=signup.
func (h *AuthHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var c credentials
	if httpx.IsJSONBody(r) {
		if err := decodeJSON(r, &c); err != nil {
			httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
			return
		}
	} else {
		c = credentials{
			Mode:     r.FormValue("mode"),
			Email:    r.FormValue("email"),
			Password: r.FormValue("password"),
			Name:     r.FormValue("name"),
		}
	}
	if c.Mode == "signup" {
		h.signup(w, r, c)
		return
	}
	h.login(w, r, c)
}

func (h *AuthHandler) fail(w http.ResponseWriter, r *http.Request, status int, code, email string) {
	if httpx.WantsJSON(r) {
		httpx.JSONError(w, status, code, nil)
		return
	}
	lang := i18n.LangFromContext(r.Context())
	renderPage(w, r, status, "auth.html", map[string]any{
		"Error": i18n.T(lang, "auth."+code),
		"Email": email,
	})
}

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request, c credentials) {
	if strings.TrimSpace(c.Email) == "" || c.Password == "" {
		h.fail(w, r, http.StatusBadRequest, "email_password_req", c.Email)
		return
	}
	user, err := h.users.ByEmail(r.Context(), c.Email)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			logging.FromContext(r.Context()).Error("lookup user", zap.Error(err))
		}
		h.fail(w, r, http.StatusUnauthorized, "invalid_credentials", c.Email)
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(c.Password)); err != nil {
		h.fail(w, r, http.StatusUnauthorized, "invalid_credentials", c.Email)
		return
	}
	h.startSession(w, r, user.ID)
}

func (h *AuthHandler) signup(w http.ResponseWriter, r *http.Request, c credentials) {
	if strings.TrimSpace(c.Email) == "" || c.Password == "" {
		h.fail(w, r, http.StatusBadRequest, "email_password_req", c.Email)
		return
	}
	// bcrypt only hashes the first 72 bytes and refuses anything longer.
	if len(c.Password) > maxPasswordBytes {
		h.fail(w, r, http.StatusBadRequest, "password_too_long", c.Email)
		return
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(c.Password), bcrypt.DefaultCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		h.fail(w, r, http.StatusBadRequest, "password_too_long", c.Email)
		return
	}
	if err != nil {
		logging.FromContext(r.Context()).Error("hash password", zap.Error(err))
		h.fail(w, r, http.StatusInternalServerError, "internal", c.Email)
		return
	}
	user, err := h.users.Create(r.Context(), c.Email, c.Name, string(hashed))
	if err != nil {
		if errors.Is(err, store.ErrEmailTaken) {
			h.fail(w, r, http.StatusConflict, "email_taken", c.Email)
			return
		}
		logging.FromContext(r.Context()).Error("create user", zap.Error(err))
		h.fail(w, r, http.StatusInternalServerError, "internal", c.Email)
		return
	}
	h.startSession(w, r, user.ID)
}

func (h *AuthHandler) startSession(w http.ResponseWriter, r *http.Request, userID uint) {
	if _, err := auth.CreateSession(w, userID); err != nil {
		logging.FromContext(r.Context()).Error("create session", zap.Error(err))
		h.fail(w, r, http.StatusInternalServerError, "internal", "")
		return
	}
	redirect(w, r, registration.DestRoleSelect)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	auth.ClearSession(w)
	redirect(w, r, registration.DestHome)
}
