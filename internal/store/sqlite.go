package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver (no CGO required)
)

// SQLiteStore persists values in a single-table SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (creating if needed) the database at path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// One writer at a time; the watchface persists from a single goroutine.
	db.SetMaxOpenConns(1)

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS kv (
		key INTEGER PRIMARY KEY,
		int_value INTEGER,
		text_value TEXT,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// GetInt returns the integer stored under key.
func (s *SQLiteStore) GetInt(ctx context.Context, key Key) (int, error) {
	var v sql.NullInt64
	err := s.db.QueryRowContext(ctx, `SELECT int_value FROM kv WHERE key = ?`, int64(key)).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read key %d: %w", key, err)
	}
	if !v.Valid {
		return 0, fmt.Errorf("key %d holds no integer", key)
	}
	return int(v.Int64), nil
}

// SetInt stores an integer under key, replacing any previous value.
func (s *SQLiteStore) SetInt(ctx context.Context, key Key, value int) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO kv (key, int_value, text_value, updated_at)
		VALUES (?, ?, NULL, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET
			int_value = excluded.int_value,
			text_value = NULL,
			updated_at = excluded.updated_at
	`, int64(key), int64(value))
	if err != nil {
		return fmt.Errorf("failed to write key %d: %w", key, err)
	}
	return nil
}

// GetString returns the string stored under key.
func (s *SQLiteStore) GetString(ctx context.Context, key Key) (string, error) {
	var v sql.NullString
	err := s.db.QueryRowContext(ctx, `SELECT text_value FROM kv WHERE key = ?`, int64(key)).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to read key %d: %w", key, err)
	}
	if !v.Valid {
		return "", fmt.Errorf("key %d holds no string", key)
	}
	return v.String, nil
}

// SetString stores a string under key, replacing any previous value.
func (s *SQLiteStore) SetString(ctx context.Context, key Key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO kv (key, int_value, text_value, updated_at)
		VALUES (?, NULL, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET
			int_value = NULL,
			text_value = excluded.text_value,
			updated_at = excluded.updated_at
	`, int64(key), value)
	if err != nil {
		return fmt.Errorf("failed to write key %d: %w", key, err)
	}
	return nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

var _ KV = (*SQLiteStore)(nil)
