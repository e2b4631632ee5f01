// Package state stores the demo users shown in the dashboard.
//
// The store runs on SQLite (modernc.org/sqlite, the default) or Postgres
// (pgx stdlib driver). The schema is managed by embedded goose migrations.
package state

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib" // registers "pgx"
	_ "modernc.org/sqlite"             // registers "sqlite"
)

// Errors returned by the store.
var (
	ErrNotOpen  = errors.New("database not opened")
	ErrNotFound = errors.New("not found")
)

// Dialect is the SQL flavour of the backing database.
type Dialect string

// Supported dialects.
const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

// ParseDialect maps a configured driver name to a Dialect.
func ParseDialect(driver string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "", "sqlite", "sqlite3":
		return DialectSQLite, nil
	case "postgres", "postgresql", "pgx":
		return DialectPostgres, nil
	}
	return "", fmt.Errorf("unsupported database driver %q", driver)
}

func (d Dialect) driverName() string {
	if d == DialectPostgres {
		return "pgx"
	}
	return "sqlite"
}

// Store is the users store.
type Store struct {
	db      *sql.DB
	dialect Dialect
	logger  *slog.Logger
}

// Open connects to the database named by driver and dsn.
// For SQLite use ":memory:" for an in-memory database.
func Open(driver, dsn string, logger *slog.Logger) (*Store, error) {
	dialect, err := ParseDialect(driver)
	if err != nil {
		return nil, err
	}
	if dialect == DialectSQLite && dsn == "" {
		dsn = ":memory:"
	}

	db, err := sql.Open(dialect.driverName(), dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", dialect, err)
	}
	if dialect == DialectSQLite && strings.Contains(dsn, ":memory:") {
		// every connection to :memory: is a separate database
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping %s database: %w", dialect, err)
	}

	return NewWithDB(db, dialect, logger), nil
}

// NewWithDB wraps an existing connection.
func NewWithDB(db *sql.DB, dialect Dialect, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Store{db: db, dialect: dialect, logger: logger}
}

// Dialect returns the store's SQL dialect.
func (s *Store) Dialect() Dialect { return s.dialect }

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// rebind rewrites '?' placeholders to '$n' for Postgres.
func (s *Store) rebind(query string) string {
	if s.dialect != DialectPostgres {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(query[i])
	}
	return b.String()
}
