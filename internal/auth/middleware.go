package auth

import (
	"context"
	"net/http"

	"github.com/gofrs/uuid"
)

type contextKey struct{}

var userContextKey contextKey

// LoginPath is where gated views send callers that fail the role check.
const LoginPath = "/login"

// UserFromContext returns the authenticated user, if the session middleware
// resolved one for this request.
func UserFromContext(ctx context.Context) (*User, bool) {
	u, ok := ctx.Value(userContextKey).(*User)
	return u, ok
}

// Sessions resolves the session cookie into a user on the request context.
// Requests without a valid session pass through anonymous; rejecting them is
// RequireAnyRole's job.
func Sessions(svc Service, cookieName string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(cookieName)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			token, err := uuid.FromString(cookie.Value)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			user, err := svc.Authenticate(r.Context(), token)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), userContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAnyRole gates a subtree behind a role-set membership test.
// Anonymous callers and users without any of the roles are redirected to the
// login page; no error payload leaks past the gate.
func RequireAnyRole(roles ...Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := UserFromContext(r.Context())
			if !ok || !user.HasAnyRole(roles...) {
				http.Redirect(w, r, LoginPath, http.StatusSeeOther)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
