package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofrs/uuid"
	"github.com/rs/zerolog/log"

	"github.com/lexashvetsoff/FlowerShop/internal/auth"
)

type loginForm struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AuthHandler serves the login form flow and logout.
type AuthHandler struct {
	svc        auth.Service
	cookieName string
}

func NewAuthHandler(svc auth.Service, cookieName string) *AuthHandler {
	return &AuthHandler{svc: svc, cookieName: cookieName}
}

// LoginForm returns the context the login template renders from.
func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"fields": []string{"username", "password"},
	})
}

// Login authenticates a submitted credential form. Malformed submissions
// re-render the form with field errors and mutate nothing; success sets the
// session cookie and redirects by role.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		respondError(w, http.StatusBadRequest, "invalid form submission")
		return
	}

	form := loginForm{
		Username: strings.TrimSpace(r.PostFormValue("username")),
		Password: r.PostFormValue("password"),
	}
	if err := validate.Struct(form); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			respondJSON(w, http.StatusBadRequest, map[string]interface{}{"errors": formatFieldErrors(fieldErrs)})
			return
		}

		log.Error().Err(err).Msg("handler: login form validation failed")
		respondError(w, http.StatusInternalServerError, "failed to validate login form")
		return
	}

	user, session, err := h.svc.Login(r.Context(), form.Username, form.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			respondJSON(w, http.StatusBadRequest, map[string]interface{}{"invalid": true})
			return
		}

		log.Error().Err(err).Msg("handler: login failed")
		respondError(w, http.StatusInternalServerError, "failed to log in")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     h.cookieName,
		Value:    session.Token.String(),
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	if user.HasAnyRole(auth.RoleFlorist, auth.RoleAdmin) {
		http.Redirect(w, r, "/orders", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Logout drops the server-side session and clears the cookie.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(h.cookieName); err == nil {
		if token, err := uuid.FromString(cookie.Value); err == nil {
			if err := h.svc.Logout(r.Context(), token); err != nil {
				log.Error().Err(err).Msg("handler: failed to delete session on logout")
			}
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     h.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, auth.LoginPath, http.StatusSeeOther)
}
