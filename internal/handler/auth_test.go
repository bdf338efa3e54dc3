package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexashvetsoff/FlowerShop/internal/auth"
)

type mockAuthService struct {
	LoginFunc        func(ctx context.Context, username, password string) (*auth.User, *auth.Session, error)
	LogoutFunc       func(ctx context.Context, token uuid.UUID) error
	AuthenticateFunc func(ctx context.Context, token uuid.UUID) (*auth.User, error)
}

func (m *mockAuthService) Login(ctx context.Context, username, password string) (*auth.User, *auth.Session, error) {
	return m.LoginFunc(ctx, username, password)
}

func (m *mockAuthService) Logout(ctx context.Context, token uuid.UUID) error {
	return m.LogoutFunc(ctx, token)
}

func (m *mockAuthService) Authenticate(ctx context.Context, token uuid.UUID) (*auth.User, error) {
	return m.AuthenticateFunc(ctx, token)
}

func authRouter(svc auth.Service) *chi.Mux {
	h := NewAuthHandler(svc, "flowershop_session")
	r := chi.NewRouter()
	r.Get("/login", h.LoginForm)
	r.Post("/login", h.Login)
	r.Post("/logout", h.Logout)
	return r
}

func postForm(r http.Handler, path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestAuthHandler_Login(t *testing.T) {
	florist := &auth.User{ID: 1, Username: "masha", Roles: []auth.Role{auth.RoleFlorist}}
	client := &auth.User{ID: 2, Username: "guest"}
	session := &auth.Session{Token: uuid.Must(uuid.NewV4()), ExpiresAt: time.Now().Add(time.Hour)}

	svc := &mockAuthService{
		LoginFunc: func(ctx context.Context, username, password string) (*auth.User, *auth.Session, error) {
			switch {
			case username == "masha" && password == "secret":
				return florist, session, nil
			case username == "guest" && password == "secret":
				return client, session, nil
			default:
				return nil, nil, auth.ErrInvalidCredentials
			}
		},
	}
	r := authRouter(svc)

	t.Run("florist_redirects_to_orders", func(t *testing.T) {
		rec := postForm(r, "/login", url.Values{"username": {"masha"}, "password": {"secret"}})

		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/orders", rec.Header().Get("Location"))

		cookies := rec.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, "flowershop_session", cookies[0].Name)
		assert.Equal(t, session.Token.String(), cookies[0].Value)
		assert.True(t, cookies[0].HttpOnly)
	})

	t.Run("non_staff_redirects_to_start_page", func(t *testing.T) {
		rec := postForm(r, "/login", url.Values{"username": {"guest"}, "password": {"secret"}})

		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/", rec.Header().Get("Location"))
	})

	t.Run("wrong_credentials_rerender_form", func(t *testing.T) {
		rec := postForm(r, "/login", url.Values{"username": {"masha"}, "password": {"nope"}})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), `"invalid":true`)
		assert.Empty(t, rec.Result().Cookies())
	})

	t.Run("blank_fields_report_field_errors", func(t *testing.T) {
		rec := postForm(r, "/login", url.Values{"username": {""}, "password": {""}})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "username is required")
		assert.Contains(t, rec.Body.String(), "password is required")
	})
}

func TestAuthHandler_Logout(t *testing.T) {
	token := uuid.Must(uuid.NewV4())
	var deleted []uuid.UUID
	svc := &mockAuthService{
		LogoutFunc: func(ctx context.Context, got uuid.UUID) error {
			deleted = append(deleted, got)
			return nil
		},
	}
	r := authRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	req.AddCookie(&http.Cookie{Name: "flowershop_session", Value: token.String()})
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, auth.LoginPath, rec.Header().Get("Location"))
	assert.Equal(t, []uuid.UUID{token}, deleted)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, -1, cookies[0].MaxAge)
}
