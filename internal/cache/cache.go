// Package cache is the local persistent snapshot store: one opaque
// serialized snapshot per identity, SQLite-backed so it survives restarts.
package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// Store is a key-value snapshot cache on SQLite.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

// Open opens (or creates) the cache database. Use ":memory:" for tests.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open cache database: %w", err)
	}
	s := &Store{db: db}
	if err := s.initialize(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return s, nil
}

func (s *Store) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS snapshots (
		identity TEXT PRIMARY KEY,
		doc TEXT NOT NULL,
		updated_at INTEGER NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Get returns the cached snapshot for an identity. The second return is
// false when no entry exists.
func (s *Store) Get(ctx context.Context, identity string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var doc string
	err := s.db.QueryRowContext(ctx,
		"SELECT doc FROM snapshots WHERE identity = ?", identity,
	).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("query snapshot: %w", err)
	}
	return doc, true, nil
}

// Set overwrites the cached snapshot for an identity. Last write wins.
func (s *Store) Set(ctx context.Context, identity, doc string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO snapshots (identity, doc, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(identity) DO UPDATE SET doc = excluded.doc, updated_at = excluded.updated_at`,
		identity, doc, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("upsert snapshot: %w", err)
	}
	return nil
}

// Remove purges the cache entry for an identity entirely.
func (s *Store) Remove(ctx context.Context, identity string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.db.ExecContext(ctx, "DELETE FROM snapshots WHERE identity = ?", identity); err != nil {
		return fmt.Errorf("delete snapshot: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}
