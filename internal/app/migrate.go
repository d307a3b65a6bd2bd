package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/riskibarqy/mlbb-analytics/internal/config"
)

// Migrator applies db/migrations against the configured database.
type Migrator struct {
	m      *migrate.Migrate
	Source string
}

func NewMigrator(cfg config.Config) (*Migrator, error) {
	dir, err := resolveMigrationsDir(os.Getenv("MIGRATIONS_DIR"))
	if err != nil {
		return nil, err
	}

	source := "file://" + filepath.ToSlash(dir)
	m, err := migrate.New(source, normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary))
	if err != nil {
		return nil, fmt.Errorf("create migrator: %w", err)
	}
	return &Migrator{m: m, Source: source}, nil
}

// Up applies every pending migration. Nothing to apply is not an error.
func (m *Migrator) Up() error {
	return ignoreNoChange(m.m.Up())
}

func (m *Migrator) Down(steps int) error {
	if steps <= 0 {
		return fmt.Errorf("down steps must be > 0")
	}
	return ignoreNoChange(m.m.Steps(-steps))
}

func (m *Migrator) Goto(version uint) error {
	return ignoreNoChange(m.m.Migrate(version))
}

func (m *Migrator) Force(version int) error {
	if version < 0 {
		return fmt.Errorf("version must be >= 0")
	}
	if err := m.m.Force(version); err != nil {
		return fmt.Errorf("force version %d: %w", version, err)
	}
	return nil
}

// Version reports the applied version; ok is false on a fresh database.
func (m *Migrator) Version() (version uint, dirty bool, ok bool, err error) {
	version, dirty, err = m.m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, false, nil
	}
	if err != nil {
		return 0, false, false, fmt.Errorf("read version: %w", err)
	}
	return version, dirty, true, nil
}

func (m *Migrator) Close() error {
	srcErr, dbErr := m.m.Close()
	if srcErr != nil {
		return fmt.Errorf("close migration source: %w", srcErr)
	}
	if dbErr != nil {
		return fmt.Errorf("close migration db: %w", dbErr)
	}
	return nil
}

func ignoreNoChange(err error) error {
	if errors.Is(err, migrate.ErrNoChange) {
		return nil
	}
	return err
}

func resolveMigrationsDir(override string) (string, error) {
	candidates := []string{
		strings.TrimSpace(override),
		"./db/migrations",
		"/app/db/migrations",
	}

	for _, candidate := range candidates {
		if candidate == "" {
			continue
		}
		abs, err := filepath.Abs(candidate)
		if err != nil {
			continue
		}
		info, err := os.Stat(abs)
		if err != nil || !info.IsDir() {
			continue
		}
		return abs, nil
	}

	return "", fmt.Errorf("migration directory not found (checked MIGRATIONS_DIR, ./db/migrations, /app/db/migrations)")
}
