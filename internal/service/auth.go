package service

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/luzplay/internal/apperror"
	"github.com/sakif/luzplay/internal/auth"
)

// AdminSession is the part of the catalog store that tracks whether the
// admin panel is open.
type AdminSession interface {
	SetAdmin(on bool)
	IsAdmin() bool
}

// Credentials is the single admin login. PasswordHash is a bcrypt hash.
type Credentials struct {
	User         string
	PasswordHash string
}

// AuthService runs the admin login.
//
//	AuthHandler (HTTP) → AuthService → PasswordService (bcrypt)
//	                                 ↘ TokenService (JWT)
//	                                 ↘ AdminSession (catalog flag)
type AuthService struct {
	session   AdminSession
	creds     Credentials
	tokens    *auth.TokenService
	passwords *auth.PasswordService
	logger    *slog.Logger
}

func NewAuthService(
	session AdminSession,
	creds Credentials,
	tokens *auth.TokenService,
	passwords *auth.PasswordService,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		session:   session,
		creds:     creds,
		tokens:    tokens,
		passwords: passwords,
		logger:    logger,
	}
}

// Login checks the user name and password and returns a signed admin token.
// Wrong credentials are ErrForbidden with a message that does not say which
// half was wrong.
func (s *AuthService) Login(user, password string) (string, error) {
	user = strings.TrimSpace(user)
	if user == "" || password == "" {
		return "", apperror.ValidationFailed("user", "user and password are required")
	}

	userOK := subtle.ConstantTimeCompare([]byte(user), []byte(s.creds.User)) == 1
	// always run bcrypt so a wrong user name costs as much as a wrong password
	pwErr := s.passwords.Verify(s.creds.PasswordHash, password)

	if pwErr != nil && !errors.Is(pwErr, auth.ErrInvalidPassword) {
		s.logger.Error("admin password hash is unusable", slog.String("error", pwErr.Error()))
		return "", fmt.Errorf("service/auth: %w", pwErr)
	}
	if !userOK || pwErr != nil {
		s.logger.Warn("admin login rejected", slog.String("user", user))
		return "", apperror.Forbidden("invalid user or password")
	}

	token, err := s.tokens.Generate(s.creds.User)
	if err != nil {
		return "", fmt.Errorf("service/auth: generating token: %w", err)
	}

	s.session.SetAdmin(true)
	s.logger.Info("admin logged in", slog.String("user", user))
	return token, nil
}

// Logout closes the admin panel. The token itself stays valid until it
// expires; the handler clears the cookie.
func (s *AuthService) Logout() {
	s.session.SetAdmin(false)
	s.logger.Info("admin logged out")
}

// ValidateToken returns the subject of a valid admin token.
func (s *AuthService) ValidateToken(token string) (string, error) {
	subject, err := s.tokens.Validate(token)
	if err != nil {
		return "", fmt.Errorf("service/auth: %w", err)
	}
	return subject, nil
}

// Tokens exposes the token service for the RequireAdmin middleware.
func (s *AuthService) Tokens() *auth.TokenService {
	return s.tokens
}
