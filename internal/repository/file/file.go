// Package file stores each key as a JSON document in a directory.
// Writes go to a temp file first and are renamed into place, so a crash never
// leaves a half-written slice behind.
package file

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/sakif/luzplay/internal/apperror"
	"github.com/sakif/luzplay/internal/repository"
)

var _ repository.KeyValueStore = (*Store)(nil)

// keys become file names; keep them to a safe alphabet
var validKey = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

type Store struct {
	dir string
}

// New returns a Store rooted at dir, creating it with 0750 if needed.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("file: mkdir %s: %w", dir, err)
	}
	return &Store{dir: dir}, nil
}

func (s *Store) path(key string) (string, error) {
	if !validKey.MatchString(key) || key == "." || key == ".." {
		return "", apperror.ValidationFailed("key", "invalid storage key "+key)
	}
	return filepath.Join(s.dir, key+".json"), nil
}

func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	p, err := s.path(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, apperror.NotFound("key", key)
		}
		return nil, fmt.Errorf("file: read %s: %w", key, err)
	}
	return data, nil
}

func (s *Store) Put(_ context.Context, key string, value []byte) error {
	p, err := s.path(key)
	if err != nil {
		return err
	}
	tmp := p + ".tmp"
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("file: open tmp: %w", err)
	}
	if _, err := f.Write(value); err != nil {
		f.Close()
		_ = os.Remove(tmp)
		return fmt.Errorf("file: write %s: %w", key, err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("file: close tmp: %w", err)
	}
	if err := os.Rename(tmp, p); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("file: rename tmp: %w", err)
	}
	return nil
}

func (s *Store) Close() error { return nil }
