// Package persistence reads and writes catalog slices as JSON documents in a
// repository.KeyValueStore.
//
// Loading never fails. A key that was never written is the first run; a value
// that cannot be read or decoded is logged and replaced by the default. In both
// cases the caller gets the default and carries on.
package persistence

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sakif/luzplay/internal/apperror"
	"github.com/sakif/luzplay/internal/repository"
)

// DefaultPrefix namespaces every key the catalog writes.
const DefaultPrefix = "luzplay_"

type Adapter struct {
	kv     repository.KeyValueStore
	prefix string
	logger *slog.Logger
}

func New(kv repository.KeyValueStore, prefix string, logger *slog.Logger) *Adapter {
	return &Adapter{kv: kv, prefix: prefix, logger: logger}
}

// Key returns the namespaced storage key for a slice name.
func (a *Adapter) Key(name string) string {
	return a.prefix + name
}

// Load decodes the value stored for name into a T, or returns def.
//
// It is a function rather than a method because Go methods cannot declare
// their own type parameters.
func Load[T any](ctx context.Context, a *Adapter, name string, def T) T {
	key := a.Key(name)

	data, err := a.kv.Get(ctx, key)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			a.logger.Debug("no persisted value, using default", slog.String("key", key))
			return def
		}
		a.logger.Warn("reading persisted value failed, using default",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
		return def
	}

	// null decodes without error into a zero value, which is not a default
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		a.logger.Warn("persisted value is null, using default", slog.String("key", key))
		return def
	}

	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		a.logger.Warn("persisted value is corrupt, using default",
			slog.String("key", key),
			slog.Int("bytes", len(data)),
			slog.String("error", err.Error()),
		)
		return def
	}
	return v
}

// Save encodes v and writes it under name.
func (a *Adapter) Save(ctx context.Context, name string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("persistence: encoding %s: %w", name, err)
	}
	if err := a.kv.Put(ctx, a.Key(name), data); err != nil {
		return fmt.Errorf("persistence: saving %s: %w", name, err)
	}
	return nil
}
