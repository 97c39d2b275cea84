package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/luzplay/internal/auth"
	"github.com/sakif/luzplay/internal/service"
)

// AuthHandler opens and closes the admin panel.
type AuthHandler struct {
	svc          *service.AuthService
	secureCookie bool
	logger       *slog.Logger
}

// NewAuthHandler creates an AuthHandler. secureCookie marks the admin cookie
// HTTPS-only; turn it on whenever the site is served over TLS.
func NewAuthHandler(svc *service.AuthService, secureCookie bool, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{svc: svc, secureCookie: secureCookie, logger: logger}
}

type loginRequest struct {
	User     string `json:"user"`
	Password string `json:"password"`
}

// HandleLogin checks the admin credentials and sets the token cookie.
//
// HTTP: POST /auth/login
// REQUEST BODY: {"user": "...", "password": "..."}
//
// The cookie is HttpOnly so page scripts (including script ads) cannot read
// it, and SameSite=Lax so other sites cannot post with it.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	token, err := h.svc.Login(req.User, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.svc.Tokens().TTL().Seconds()),
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, map[string]bool{"admin": true})
}

// HandleLogout closes the admin panel and deletes the cookie. The token
// stays valid until it expires, but the browser no longer has it.
//
// HTTP: POST /auth/logout
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	h.svc.Logout()

	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, map[string]bool{"admin": false})
}

// HandleMe reports who the admin token belongs to.
//
// HTTP: GET /api/admin/me
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	subject, ok := auth.AdminFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "unauthorized", Message: "admin login required"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"user": subject})
}
