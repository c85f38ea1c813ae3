package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver.

	"github.com/papapumpkin/habitrack/internal/habit"
)

// CollectionKey is the key the collection blob is stored under.
const CollectionKey = "savedHabits"

const schema = `
CREATE TABLE IF NOT EXISTS kv (
    key        TEXT PRIMARY KEY,
    value      BLOB NOT NULL,
    updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

// SQLite stores the collection as one JSON blob in a key-value table of a
// local SQLite database in WAL mode.
type SQLite struct {
	db  *sql.DB
	key string
}

// NewSQLite opens (or creates) the database at dbPath and creates the
// key-value table if it does not exist.
func NewSQLite(ctx context.Context, dbPath string) (*SQLite, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("store: open database: %w", err)
	}

	// SQLite has a single writer; one pooled connection keeps PRAGMAs applied.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: enable WAL mode: %w", err)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: set busy timeout: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: create schema: %w", err)
	}

	return &SQLite{db: db, key: CollectionKey}, nil
}

// Load reads the collection blob. A missing key is an empty collection.
func (s *SQLite) Load(ctx context.Context) ([]habit.Habit, error) {
	var blob []byte
	err := s.db.QueryRowContext(ctx, "SELECT value FROM kv WHERE key = ?", s.key).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("store: load %q: %w", s.key, err)
	}

	var records []record
	if err := json.Unmarshal(blob, &records); err != nil {
		return nil, fmt.Errorf("store: decode %q: %w", s.key, err)
	}
	return decode(records)
}

// Save upserts the collection blob.
func (s *SQLite) Save(ctx context.Context, habits []habit.Habit) error {
	blob, err := json.Marshal(encode(habits))
	if err != nil {
		return fmt.Errorf("store: marshaling habits: %w", err)
	}

	const q = `
		INSERT INTO kv (key, value, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`
	if _, err := s.db.ExecContext(ctx, q, s.key, blob); err != nil {
		return fmt.Errorf("store: save %q: %w", s.key, err)
	}
	return nil
}

// Close closes the database.
func (s *SQLite) Close() error {
	return s.db.Close()
}
