// Package memory is a map-backed repository.KeyValueStore used by tests and
// by the "memory" backend, where nothing survives a restart.
package memory

import (
	"context"
	"sync"

	"github.com/sakif/luzplay/internal/apperror"
	"github.com/sakif/luzplay/internal/repository"
)

var _ repository.KeyValueStore = (*Store)(nil)

type Store struct {
	mu     sync.RWMutex
	values map[string][]byte
	puts   int
}

func New() *Store {
	return &Store{values: make(map[string][]byte)}
}

func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	if !ok {
		return nil, apperror.NotFound("key", key)
	}
	// copy so callers can't alias our buffer
	return append([]byte(nil), v...), nil
}

func (s *Store) Put(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = append([]byte(nil), value...)
	s.puts++
	return nil
}

// Puts reports how many writes the store has accepted.
func (s *Store) Puts() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.puts
}

func (s *Store) Close() error { return nil }
