package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/sakif/luzplay/internal/apperror"
)

// newTestDB opens a throwaway in-memory database closed at test end.
func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestGet_Missing(t *testing.T) {
	db := newTestDB(t)

	_, err := db.Get(context.Background(), "luzplay_videos")
	if err == nil {
		t.Fatal("Get() should fail for a key that was never written")
	}
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("Get() error = %v, want ErrNotFound", err)
	}
}

func TestPut_ThenGet(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	if err := db.Put(ctx, "luzplay_dark_mode", []byte("true")); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	got, err := db.Get(ctx, "luzplay_dark_mode")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if string(got) != "true" {
		t.Errorf("Get() = %q, want %q", got, "true")
	}
}

func TestPut_Overwrites(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	if err := db.Put(ctx, "k", []byte(`["a"]`)); err != nil {
		t.Fatal(err)
	}
	if err := db.Put(ctx, "k", []byte(`["a","b"]`)); err != nil {
		t.Fatal(err)
	}

	got, err := db.Get(ctx, "k")
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != `["a","b"]` {
		t.Errorf("Get() = %q, want the second write", got)
	}
}

func TestNew_FileSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "luzplay.db")
	ctx := context.Background()

	db, err := New(path)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := db.Put(ctx, "luzplay_favorites", []byte(`["v1"]`)); err != nil {
		t.Fatal(err)
	}
	db.Close()

	// Migrations must be idempotent on an existing file.
	db, err = New(path)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer db.Close()

	got, err := db.Get(ctx, "luzplay_favorites")
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != `["v1"]` {
		t.Errorf("Get() after reopen = %q", got)
	}
}
