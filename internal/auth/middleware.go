package auth

import (
	"context"
	"net/http"
)

// CookieName is the cookie that carries the admin token.
const CookieName = "luzplay_admin"

// contextKey is unexported so no other package can read or overwrite the
// values this package stores in a request context.
type contextKey string

const adminKey contextKey = "admin"

// RequireAdmin rejects requests without a valid admin cookie with 401 and
// puts the token subject in the context for the ones it lets through.
func RequireAdmin(tokens *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			subject, err := subjectFromCookie(r, tokens)
			if err != nil {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"error":"unauthorized","message":"admin login required"}`))
				return
			}

			ctx := context.WithValue(r.Context(), adminKey, subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AdminFromContext returns the subject RequireAdmin stored, if any.
func AdminFromContext(ctx context.Context) (string, bool) {
	subject, ok := ctx.Value(adminKey).(string)
	return subject, ok && subject != ""
}

// IsAdmin reports whether r carries a valid admin cookie. Public handlers
// use it to show admin-only bits without blocking anonymous visitors.
func IsAdmin(r *http.Request, tokens *TokenService) bool {
	if tokens == nil {
		return false
	}
	_, err := subjectFromCookie(r, tokens)
	return err == nil
}

func subjectFromCookie(r *http.Request, tokens *TokenService) (string, error) {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return "", err
	}
	return tokens.Validate(cookie.Value)
}
