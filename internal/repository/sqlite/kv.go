package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/sakif/luzplay/internal/apperror"
	"github.com/sakif/luzplay/internal/repository"
)

// compile-time check that *DB implements repository.KeyValueStore
var _ repository.KeyValueStore = (*DB)(nil)

// Get returns the value stored under key.
//
// sql.ErrNoRows is translated into apperror.NotFound so the persistence
// adapter can tell "first run" apart from a broken database.
func (db *DB) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := db.conn.QueryRowContext(ctx,
		`SELECT value FROM kv WHERE key = ?`,
		key,
	).Scan(&value)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("key", key)
		}
		return nil, fmt.Errorf("sqlite: getting key %s: %w", key, err)
	}
	return value, nil
}

// Put writes value under key, replacing what was there.
//
// ON CONFLICT ... DO UPDATE is SQLite's upsert: one statement, no
// read-then-write race between concurrent writers of the same key.
func (db *DB) Put(ctx context.Context, key string, value []byte) error {
	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key,
		value,
		time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("sqlite: putting key %s: %w", key, err)
	}
	return nil
}
