// internal/store/sqlite.go
//
// SQLite-backed Store implementation.
// Responsibilities:
//   - Open the database file with safe defaults (WAL, busy timeout).
//   - Keep every blob in a single key/value table with full-replace upserts.
//
// Notes:
//   - SQLite allows a single writer, so the connection pool is capped at one.
//   - Blob values are stored as JSON text, which keeps the on-disk layout
//     inspectable with the sqlite3 CLI.

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

const blobSchema = `
CREATE TABLE IF NOT EXISTS blobs (
    key        TEXT PRIMARY KEY,
    value      TEXT NOT NULL,
    updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);`

// SQLite persists blobs in a local database file.
type SQLite struct {
	db *sqlx.DB
}

// Open opens (and creates if missing) the SQLite database at path, ensuring
// the parent directory exists for relative paths like ./data/matchpairs.db.
func Open(path string) (*SQLite, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}

	db, err := sqlx.Connect("sqlite3", path+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	// One writer only.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(blobSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create blobs table: %w", err)
	}
	return &SQLite{db: db}, nil
}

// SaveBlob serializes v as JSON and replaces the row at key.
func (s *SQLite) SaveBlob(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return &StorageError{Op: "save", Key: key, Err: err}
	}
	_, err = s.db.ExecContext(ctx, `
        INSERT INTO blobs(key, value, updated_at) VALUES(?, ?, CURRENT_TIMESTAMP)
        ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, string(data),
	)
	if err != nil {
		return &StorageError{Op: "save", Key: key, Err: err}
	}
	return nil
}

// LoadBlob reads the row at key and unmarshals it into v.
func (s *SQLite) LoadBlob(ctx context.Context, key string, v any) error {
	var raw string
	err := s.db.GetContext(ctx, &raw, `SELECT value FROM blobs WHERE key = ?`, key)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return &StorageError{Op: "load", Key: key, Err: err}
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return &StorageError{Op: "load", Key: key, Err: err}
	}
	return nil
}

// Close closes the database handle.
func (s *SQLite) Close() error { return s.db.Close() }
