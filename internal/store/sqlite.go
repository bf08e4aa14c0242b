// ABOUTME: SQLite implementation of the store interfaces using modernc.org/sqlite
// ABOUTME: Provides component/token persistence with automatic schema creation

package store

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"
)

// SQLiteStore implements ComponentStore and TokenStore using SQLite.
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewSQLiteStore creates a new SQLite store at the given path.
// The schema is automatically created if it doesn't exist.
// Parent directories are created if needed.
func NewSQLiteStore(path string, logger *slog.Logger) (*SQLiteStore, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "store")

	if path != ":memory:" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Enable WAL mode for better concurrent performance
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &SQLiteStore{
		db:     db,
		logger: logger,
	}

	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	logger.Info("SQLite store initialized", "path", path)
	return s, nil
}

// createSchema creates the database tables if they don't exist.
func (s *SQLiteStore) createSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS components (
			name         TEXT PRIMARY KEY,
			owner        TEXT NOT NULL DEFAULT '',
			allocated_by TEXT NOT NULL DEFAULT '',
			allocated_at TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS personal_tokens (
			id         TEXT PRIMARY KEY,
			user_id    TEXT NOT NULL,
			token_hash TEXT NOT NULL UNIQUE,
			label      TEXT NOT NULL,
			created    TEXT NOT NULL,
			expires    TEXT NOT NULL,
			last_used  TEXT
		);

		CREATE INDEX IF NOT EXISTS idx_personal_tokens_user
			ON personal_tokens(user_id);

		CREATE TABLE IF NOT EXISTS audit_log (
			id        TEXT PRIMARY KEY,
			action    TEXT NOT NULL,
			actor     TEXT NOT NULL,
			target    TEXT NOT NULL,
			timestamp TEXT NOT NULL,
			detail    TEXT
		);

		CREATE INDEX IF NOT EXISTS idx_audit_log_timestamp
			ON audit_log(timestamp);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return err
	}
	return nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// isConstraintViolation checks if an error is a SQLite constraint violation.
func isConstraintViolation(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "UNIQUE constraint failed") ||
		strings.Contains(errStr, "constraint failed")
}

// nullString converts empty strings to nil for nullable columns.
func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
