package state

import (
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/sqlite/*.sql migrations/postgres/*.sql
var migrations embed.FS

// Migrate runs all pending database migrations for the store's dialect.
func (s *Store) Migrate() error {
	if s.db == nil {
		return ErrNotOpen
	}

	// Configure goose for embedded migrations
	goose.SetBaseFS(migrations)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect(string(s.dialect)); err != nil {
		return fmt.Errorf("failed to set dialect: %w", err)
	}

	if err := goose.Up(s.db, s.migrationsDir()); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

// MigrationVersion returns the current migration version.
func (s *Store) MigrationVersion() (int64, error) {
	if s.db == nil {
		return 0, ErrNotOpen
	}

	goose.SetBaseFS(migrations)
	if err := goose.SetDialect(string(s.dialect)); err != nil {
		return 0, fmt.Errorf("failed to set dialect: %w", err)
	}

	return goose.GetDBVersion(s.db)
}

func (s *Store) migrationsDir() string {
	return "migrations/" + string(s.dialect)
}
