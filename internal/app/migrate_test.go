package app

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/golang-migrate/migrate/v4"
)

func TestResolveMigrationsDir(t *testing.T) {
	dir := t.TempDir()

	got, err := resolveMigrationsDir(dir)
	if err != nil {
		t.Fatalf("resolve migrations dir: %v", err)
	}
	if got != dir {
		t.Fatalf("expected override %q, got %q", dir, got)
	}

	// ./db/migrations does not exist relative to this package either.
	if _, err := resolveMigrationsDir(filepath.Join(dir, "missing")); err == nil {
		t.Fatalf("expected error when no candidate exists")
	}
}

func TestIgnoreNoChange(t *testing.T) {
	if err := ignoreNoChange(migrate.ErrNoChange); err != nil {
		t.Fatalf("expected ErrNoChange to be ignored, got %v", err)
	}
	boom := errors.New("boom")
	if err := ignoreNoChange(boom); !errors.Is(err, boom) {
		t.Fatalf("expected other errors to pass through, got %v", err)
	}
}
