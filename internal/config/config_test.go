package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks every variable Load reads so the host environment cannot
// leak into a test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "PUBLIC_URL", "STORE_BACKEND", "KEY_PREFIX", "DB_PATH", "DATABASE_URL",
		"S3_BUCKET", "S3_PREFIX", "AWS_REGION", "STATE_DIR", "JWT_SECRET", "TOKEN_TTL",
		"ADMIN_USER", "ADMIN_PASSWORD_HASH", "ADMIN_PASSWORD", "PREROLL_SECONDS",
		"SESSION_TTL", "LOG_LEVEL",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "http://localhost:8080", cfg.PublicURL)
	assert.Equal(t, BackendSQLite, cfg.Backend)
	assert.Equal(t, "data/luzplay.db", cfg.DBPath)
	assert.Equal(t, "luzplay_", cfg.KeyPrefix)
	assert.Equal(t, 5*time.Second, cfg.PreRoll)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.False(t, cfg.AdminEnabled())
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("STORE_BACKEND", "Postgres")
	t.Setenv("DATABASE_URL", "postgres://localhost/luzplay?sslmode=disable")
	t.Setenv("PREROLL_SECONDS", "3")
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("PUBLIC_URL", "https://luzplay.example/")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("ADMIN_USER", "admin")
	t.Setenv("ADMIN_PASSWORD", "senha")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, BackendPostgres, cfg.Backend)
	assert.Equal(t, 3*time.Second, cfg.PreRoll)
	assert.Equal(t, slog.LevelWarn, cfg.LogLevel)
	assert.Equal(t, "https://luzplay.example", cfg.PublicURL)
	assert.True(t, cfg.AdminEnabled())
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"port not a number", map[string]string{"PORT": "eighty"}},
		{"port out of range", map[string]string{"PORT": "70000"}},
		{"unknown backend", map[string]string{"STORE_BACKEND": "redis"}},
		{"postgres without url", map[string]string{"STORE_BACKEND": "postgres"}},
		{"s3 without bucket", map[string]string{"STORE_BACKEND": "s3"}},
		{"zero pre-roll", map[string]string{"PREROLL_SECONDS": "0"}},
		{"bad ttl", map[string]string{"SESSION_TTL": "forever"}},
		{"bad log level", map[string]string{"LOG_LEVEL": "loud"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
