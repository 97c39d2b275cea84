// Package repository declares the storage contract the persistence adapter
// writes catalog slices through, and hosts its backends as subpackages.
package repository

import (
	"context"
)

// KeyValueStore holds opaque values under string keys.
//
// Get returns an *apperror.AppError wrapping apperror.ErrNotFound when the
// key has never been written. Put replaces any previous value.
// Implementations must be safe for concurrent use.
type KeyValueStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Close() error
}
