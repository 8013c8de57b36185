// Package history keeps a local log of compile invocations.
//
// Only metadata is stored. Generated code is never kept, so the log is not
// consulted when compiling.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const sqliteTimeFormat = "2006-01-02 15:04:05"

// FileName is the database file kept next to the config file
const FileName = "history.db"

// DefaultLimit is the number of entries Recent returns for a non-positive limit
const DefaultLimit = 20

// Status values of an entry
const (
	StatusOK     = "ok"
	StatusFailed = "failed"
)

// Entry is one compile invocation
type Entry struct {
	ID        string
	Input     string
	Target    string
	Output    string
	Provider  string
	Model     string
	Status    string
	Error     string
	CreatedAt time.Time
}

// Store is a SQLite-backed history log
type Store struct {
	db *sql.DB
}

// PathFor returns the history database path for a config file path
func PathFor(configPath string) string {
	return filepath.Join(filepath.Dir(configPath), FileName)
}

// Open opens (creating if needed) the history database at path
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create history directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := initSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return &Store{db: db}, nil
}

func initSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS compiles (
		id TEXT PRIMARY KEY,
		input TEXT NOT NULL,
		target TEXT NOT NULL,
		output TEXT NOT NULL DEFAULT '',
		provider TEXT NOT NULL DEFAULT '',
		model TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL,
		error TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_compiles_created_at ON compiles(created_at);
	`
	_, err := db.Exec(schema)
	return err
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// Record appends an entry, filling in ID and CreatedAt when unset
func (s *Store) Record(ctx context.Context, e Entry) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO compiles (id, input, target, output, provider, model, status, error, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, e.ID, e.Input, e.Target, e.Output, e.Provider, e.Model, e.Status, e.Error,
		e.CreatedAt.UTC().Format(sqliteTimeFormat))
	if err != nil {
		return fmt.Errorf("insert history entry: %w", err)
	}
	return nil
}

// Recent returns up to limit entries, newest first
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, input, target, output, provider, model, status, error, created_at
		FROM compiles
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var createdAt string
		if err := rows.Scan(&e.ID, &e.Input, &e.Target, &e.Output, &e.Provider, &e.Model, &e.Status, &e.Error, &createdAt); err != nil {
			return nil, fmt.Errorf("scan history entry: %w", err)
		}
		if e.CreatedAt, err = parseTimestamp(createdAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history: %w", err)
	}
	return entries, nil
}

// Clear deletes every entry and reports how many were removed
func (s *Store) Clear(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM compiles`)
	if err != nil {
		return 0, fmt.Errorf("clear history: %w", err)
	}
	return res.RowsAffected()
}

// parseTimestamp handles both the stored format and RFC 3339
func parseTimestamp(s string) (time.Time, error) {
	t, err := time.ParseInLocation(sqliteTimeFormat, s, time.UTC)
	if err == nil {
		return t, nil
	}

	t, err = time.Parse(time.RFC3339, s)
	if err == nil {
		return t, nil
	}

	return time.Time{}, fmt.Errorf("unrecognized timestamp format: %s", s)
}
