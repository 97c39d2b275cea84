// Package postgres implements repository.KeyValueStore on PostgreSQL through
// lib/pq, for deployments that already run a database server.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"

	// Registers the "postgres" driver with database/sql.
	_ "github.com/lib/pq"

	"github.com/sakif/luzplay/internal/apperror"
	"github.com/sakif/luzplay/internal/repository"
)

var _ repository.KeyValueStore = (*DB)(nil)

type DB struct {
	conn *sql.DB
}

// New connects to dsn (a postgres:// URL) and creates the kv table.
func New(dsn string) (*DB, error) {
	if _, err := url.Parse(dsn); err != nil {
		return nil, fmt.Errorf("postgres: invalid database URL: %w", err)
	}

	conn, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: opening database: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("postgres: connecting: %w", err)
	}

	_, err = conn.Exec(`
		CREATE TABLE IF NOT EXISTS luzplay_kv (
			key        TEXT PRIMARY KEY,
			value      BYTEA NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("postgres: creating kv table: %w", err)
	}

	return &DB{conn: conn}, nil
}

func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := db.conn.QueryRowContext(ctx,
		`SELECT value FROM luzplay_kv WHERE key = $1`, key,
	).Scan(&value)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("key", key)
		}
		return nil, fmt.Errorf("postgres: getting key %s: %w", key, err)
	}
	return value, nil
}

func (db *DB) Put(ctx context.Context, key string, value []byte) error {
	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO luzplay_kv (key, value, updated_at) VALUES ($1, $2, NOW())
		 ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("postgres: putting key %s: %w", key, err)
	}
	return nil
}
