// Package state persists per-track processing progress so interrupted runs
// can resume without repeating network lookups.
package state

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is the current schema version. Bump this when the schema changes.
const schemaVersion = 1

// ErrSchemaMismatch indicates the database schema version doesn't match the expected version.
var ErrSchemaMismatch = errors.New("schema version mismatch")

// Store tracks which catalog entries a run has already handled, backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the state database. A database that cannot
// be read or carries an incompatible schema is removed and recreated; the
// state only caches progress, so losing it costs repeated lookups, not data.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create state directory: %w", err)
		}
	}

	store, err := open(path)
	if err == nil {
		return store, nil
	}

	if removeErr := os.Remove(path); removeErr != nil && !errors.Is(removeErr, os.ErrNotExist) {
		return nil, fmt.Errorf("remove unusable state db: %w (open error: %v)", removeErr, err)
	}
	return open(path)
}

func open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// MarkProcessed records that a track finished processing with the given status.
// Re-marking an already processed track updates its status and timestamp.
func (s *Store) MarkProcessed(ctx context.Context, trackID, status string) error {
	timestamp := time.Now().UTC().Format(time.RFC3339Nano)
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO processed_tracks (track_id, status, processed_at)
         VALUES (?, ?, ?)
         ON CONFLICT(track_id) DO UPDATE SET status = excluded.status, processed_at = excluded.processed_at`,
		trackID,
		status,
		timestamp,
	)
	if err != nil {
		return fmt.Errorf("mark processed: %w", err)
	}
	return nil
}

// IsProcessed reports whether a track has already been handled.
func (s *Store) IsProcessed(ctx context.Context, trackID string) (bool, error) {
	var count int
	err := s.db.QueryRowContext(
		ctx,
		"SELECT COUNT(1) FROM processed_tracks WHERE track_id = ?",
		trackID,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("query processed: %w", err)
	}
	return count > 0, nil
}

// ProcessedCount returns the number of tracks handled so far.
func (s *Store) ProcessedCount(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(1) FROM processed_tracks").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count processed: %w", err)
	}
	return count, nil
}

// Clear removes all processing records so the next run starts fresh.
func (s *Store) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM processed_tracks"); err != nil {
		return fmt.Errorf("clear processed: %w", err)
	}
	return nil
}

func (s *Store) initSchema(ctx context.Context) error {
	var tableExists int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableExists)
	if err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}

	if tableExists == 0 {
		return s.createSchema(ctx)
	}

	var version int
	err = s.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version)
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}

	if version != schemaVersion {
		return fmt.Errorf("%w: database has version %d, expected %d",
			ErrSchemaMismatch, version, schemaVersion)
	}

	return nil
}

func (s *Store) createSchema(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}

	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema: %w", err)
	}
	return nil
}
