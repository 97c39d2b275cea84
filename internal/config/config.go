// Package config loads the server settings from the environment.
//
// A .env file in the working directory is read first if it exists; real
// environment variables always win over it.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Backend selects where the catalog slices are stored.
type Backend string

const (
	BackendSQLite   Backend = "sqlite"
	BackendPostgres Backend = "postgres"
	BackendS3       Backend = "s3"
	BackendFile     Backend = "file"
	BackendMemory   Backend = "memory"
)

type Config struct {
	// Server
	Port      int
	PublicURL string // used in share links; defaults to http://localhost:{Port}

	// Storage
	Backend     Backend
	KeyPrefix   string
	DBPath      string
	DatabaseURL string
	S3Bucket    string
	S3Prefix    string
	S3Region    string
	StateDir    string

	// Admin gate
	JWTSecret         string
	TokenTTL          time.Duration
	AdminUser         string
	AdminPasswordHash string
	AdminPassword     string

	// Player
	PreRoll    time.Duration
	SessionTTL time.Duration

	LogLevel slog.Level
}

// AdminEnabled reports whether enough is configured to log in.
func (c *Config) AdminEnabled() bool {
	return c.JWTSecret != "" && c.AdminUser != "" &&
		(c.AdminPasswordHash != "" || c.AdminPassword != "")
}

// Load reads the configuration. Malformed values are errors rather than
// silently replaced by defaults.
func Load() (*Config, error) {
	// a missing .env is the normal case in production
	_ = godotenv.Load()

	cfg := &Config{
		Backend:           Backend(strings.ToLower(getEnv("STORE_BACKEND", string(BackendSQLite)))),
		KeyPrefix:         getEnv("KEY_PREFIX", "luzplay_"),
		DBPath:            getEnv("DB_PATH", "data/luzplay.db"),
		DatabaseURL:       getEnv("DATABASE_URL", ""),
		S3Bucket:          getEnv("S3_BUCKET", ""),
		S3Prefix:          getEnv("S3_PREFIX", "luzplay"),
		S3Region:          getEnv("AWS_REGION", "us-east-1"),
		StateDir:          getEnv("STATE_DIR", "data/state"),
		JWTSecret:         getEnv("JWT_SECRET", ""),
		AdminUser:         getEnv("ADMIN_USER", ""),
		AdminPasswordHash: getEnv("ADMIN_PASSWORD_HASH", ""),
		AdminPassword:     getEnv("ADMIN_PASSWORD", ""),
	}

	var err error
	if cfg.Port, err = getInt("PORT", 8080); err != nil {
		return nil, err
	}
	cfg.PublicURL = strings.TrimRight(getEnv("PUBLIC_URL", fmt.Sprintf("http://localhost:%d", cfg.Port)), "/")

	preRollSeconds, err := getInt("PREROLL_SECONDS", 5)
	if err != nil {
		return nil, err
	}
	cfg.PreRoll = time.Duration(preRollSeconds) * time.Second

	if cfg.SessionTTL, err = getDuration("SESSION_TTL", 30*time.Minute); err != nil {
		return nil, err
	}
	if cfg.TokenTTL, err = getDuration("TOKEN_TTL", 12*time.Hour); err != nil {
		return nil, err
	}

	if err := cfg.LogLevel.UnmarshalText([]byte(getEnv("LOG_LEVEL", "debug"))); err != nil {
		return nil, fmt.Errorf("config: LOG_LEVEL: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the selected backend has what it needs.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("config: PORT %d out of range", c.Port)
	}
	if c.PreRoll <= 0 {
		return fmt.Errorf("config: PREROLL_SECONDS must be positive")
	}

	switch c.Backend {
	case BackendSQLite:
		if c.DBPath == "" {
			return fmt.Errorf("config: DB_PATH is required for the sqlite backend")
		}
	case BackendPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("config: DATABASE_URL is required for the postgres backend")
		}
	case BackendS3:
		if c.S3Bucket == "" {
			return fmt.Errorf("config: S3_BUCKET is required for the s3 backend")
		}
	case BackendFile:
		if c.StateDir == "" {
			return fmt.Errorf("config: STATE_DIR is required for the file backend")
		}
	case BackendMemory:
	default:
		return fmt.Errorf("config: unknown STORE_BACKEND %q", c.Backend)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("config: %s: invalid integer %q", key, raw)
	}
	return n, nil
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("config: %s: invalid duration %q", key, raw)
	}
	return d, nil
}
