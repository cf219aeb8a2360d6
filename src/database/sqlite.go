package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite" // SQLite driver
)

// documentsSchema is valid on both SQLite and Postgres.
const documentsSchema = `
CREATE TABLE IF NOT EXISTS documents(
    resource_id TEXT NOT NULL,
    document_id TEXT NOT NULL,
    data TEXT NOT NULL,
    updated_at BIGINT NOT NULL,

    PRIMARY KEY (resource_id, document_id)
);`

// SQLiteDB wraps a SQLite database opened through database/sql.
type SQLiteDB struct {
	db *sql.DB
}

// NewSQLiteDB opens (creating when missing) a SQLite database file and
// initializes the documents schema.
func NewSQLiteDB(ctx context.Context, dbPath string) (*SQLiteDB, error) {
	if dbPath != ":memory:" {
		dir := filepath.Dir(dbPath)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}
	// one writer; also keeps ":memory:" on a single connection
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping SQLite database: %w", err)
	}

	sqliteDB := &SQLiteDB{db: db}
	if err := sqliteDB.initSchema(ctx); err != nil {
		sqliteDB.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return sqliteDB, nil
}

func (s *SQLiteDB) initSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, documentsSchema); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}

	logrus.Debug("SQLite schema initialized successfully")
	return nil
}

// Exec executes a SQL command
func (s *SQLiteDB) Exec(ctx context.Context, sql string, args ...interface{}) (sql.Result, error) {
	return s.db.ExecContext(ctx, sql, args...)
}

// Query executes a SQL query
func (s *SQLiteDB) Query(ctx context.Context, sql string, args ...interface{}) (*sql.Rows, error) {
	return s.db.QueryContext(ctx, sql, args...)
}

// QueryRow executes a SQL query that returns a single row
func (s *SQLiteDB) QueryRow(ctx context.Context, sql string, args ...interface{}) *sql.Row {
	return s.db.QueryRowContext(ctx, sql, args...)
}

// Close closes the database connection
func (s *SQLiteDB) Close() {
	if s.db != nil {
		s.db.Close()
	}
}

// ParseDatabaseURL splits a database URL into the backend name and its
// connection string.
func ParseDatabaseURL(dbURL string) (string, string, error) {
	if strings.HasPrefix(dbURL, "sqlite:") {
		return "sqlite", strings.TrimPrefix(dbURL, "sqlite:"), nil
	} else if strings.HasPrefix(dbURL, "postgres://") || strings.HasPrefix(dbURL, "postgresql://") {
		return "postgres", dbURL, nil
	}

	return "", "", fmt.Errorf("unsupported database URL format: %s", dbURL)
}
