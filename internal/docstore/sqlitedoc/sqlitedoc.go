// Package sqlitedoc implements the remote document store on a SQLite file.
// It is useful for a shared network drive or for running the full sync path
// without a hosted service.
package sqlitedoc

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

	"github.com/mesh-intelligence/kanbaru/pkg/types"
)

//go:embed schema.sql
var schemaSQL string

const (
	upsertSQL = `INSERT INTO documents (collection, key, body, updated_at)
VALUES (?, ?, ?, ?)
ON CONFLICT (collection, key) DO UPDATE SET body = excluded.body, updated_at = excluded.updated_at`
	selectSQL = `SELECT body FROM documents WHERE collection = ? AND key = ?`
	deleteSQL = `DELETE FROM documents WHERE collection = ? AND key = ?`
)

// Store is a types.Remote backed by a SQLite database.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens or creates the database at path and applies the schema.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating directory %s: %w", dir, err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	// One connection serializes writers; SQLite allows a single writer.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("applying schema: %w", err)
	}
	return &Store{db: db, now: time.Now}, nil
}

// Put creates or replaces the document under collection/key.
func (s *Store) Put(ctx context.Context, collection, key string, doc []byte) error {
	updated := s.now().UTC().Format(time.RFC3339Nano)
	if _, err := s.db.ExecContext(ctx, upsertSQL, collection, key, doc, updated); err != nil {
		return fmt.Errorf("upserting %s/%s: %w", collection, key, err)
	}
	return nil
}

// Get returns the document under collection/key.
func (s *Store) Get(ctx context.Context, collection, key string) ([]byte, error) {
	var body []byte
	err := s.db.QueryRowContext(ctx, selectSQL, collection, key).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, types.ErrDocumentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("selecting %s/%s: %w", collection, key, err)
	}
	return body, nil
}

// Delete removes the document under collection/key.
func (s *Store) Delete(ctx context.Context, collection, key string) error {
	if _, err := s.db.ExecContext(ctx, deleteSQL, collection, key); err != nil {
		return fmt.Errorf("deleting %s/%s: %w", collection, key, err)
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}
