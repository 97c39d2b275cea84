package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func protected(t *testing.T, ts *TokenService) http.Handler {
	t.Helper()
	return RequireAdmin(ts)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		subject, ok := AdminFromContext(r.Context())
		assert.True(t, ok)
		w.Write([]byte(subject))
	}))
}

func TestRequireAdmin(t *testing.T) {
	ts := newTestTokenService(t)
	valid, err := ts.Generate("admin")
	require.NoError(t, err)
	expired, err := ts.GenerateWithDuration("admin", -time.Minute)
	require.NoError(t, err)

	tests := []struct {
		name       string
		cookie     *http.Cookie
		wantStatus int
	}{
		{"no cookie", nil, http.StatusUnauthorized},
		{"garbage", &http.Cookie{Name: CookieName, Value: "nope"}, http.StatusUnauthorized},
		{"expired", &http.Cookie{Name: CookieName, Value: expired}, http.StatusUnauthorized},
		{"wrong cookie name", &http.Cookie{Name: "token", Value: valid}, http.StatusUnauthorized},
		{"valid", &http.Cookie{Name: CookieName, Value: valid}, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/admin/stats", nil)
			if tt.cookie != nil {
				req.AddCookie(tt.cookie)
			}
			rec := httptest.NewRecorder()

			protected(t, ts).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, "admin", rec.Body.String())
			} else {
				assert.Contains(t, rec.Body.String(), "unauthorized")
			}
		})
	}
}

func TestIsAdmin(t *testing.T) {
	ts := newTestTokenService(t)
	token, err := ts.Generate("admin")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/state", nil)
	assert.False(t, IsAdmin(req, ts))
	assert.False(t, IsAdmin(req, nil))

	req.AddCookie(&http.Cookie{Name: CookieName, Value: token})
	assert.True(t, IsAdmin(req, ts))
}
