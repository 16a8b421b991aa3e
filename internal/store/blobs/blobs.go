// Package blobs persists image attachments outside the record store.
// Attachments are too large for the JSON key/value table that holds entry
// records, so they live in their own database keyed by generated ids.
package blobs

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"scoutsync/internal/logging"
)

const schema = `
CREATE TABLE IF NOT EXISTS images (
	image_id TEXT PRIMARY KEY,
	name     TEXT NOT NULL,
	mime     TEXT NOT NULL,
	data     BLOB NOT NULL
);`

// Store is the attachment blob store. The underlying database opens lazily
// on first use; the open is memoized so concurrent callers racing the first
// Save/Get share a single handle.
type Store struct {
	dsn string
	log logging.Logger

	once    sync.Once
	db      *sql.DB
	openErr error
}

// New returns a store that will open dsn on first use.
func New(dsn string, log logging.Logger) *Store {
	return &Store{dsn: dsn, log: log}
}

func (s *Store) open(ctx context.Context) (*sql.DB, error) {
	s.once.Do(func() {
		db, err := sql.Open("sqlite", s.dsn)
		if err != nil {
			s.openErr = fmt.Errorf("failed to open blob store: %w", err)
			return
		}
		// Single connection: callers race Save/Get freely and sqlite
		// serializes writers anyway.
		db.SetMaxOpenConns(1)
		if _, err := db.ExecContext(ctx, schema); err != nil {
			_ = db.Close()
			s.openErr = fmt.Errorf("failed to prepare blob store schema: %w", err)
			return
		}
		// Attachments on a memory DSN vanish with the process. That is an
		// accepted risk, not an error.
		if strings.Contains(s.dsn, ":memory:") || strings.Contains(s.dsn, "mode=memory") {
			s.log.Warn(ctx, "blob store is not durable, attachments may be lost", "dsn", s.dsn)
		}
		s.db = db
	})
	return s.db, s.openErr
}

// Save stores the binary payload under a fresh random identifier and
// returns the identifier.
func (s *Store) Save(ctx context.Context, data []byte, name, mime string) (string, error) {
	db, err := s.open(ctx)
	if err != nil {
		return "", err
	}
	id := uuid.NewString()
	if _, err := db.ExecContext(ctx,
		`INSERT INTO images (image_id, name, mime, data) VALUES (?, ?, ?, ?)`,
		id, name, mime, data); err != nil {
		return "", fmt.Errorf("failed to save blob %q: %w", name, err)
	}
	return id, nil
}

// Get retrieves a previously stored payload. It returns (nil, nil) when
// nothing is stored under id.
func (s *Store) Get(ctx context.Context, id string) ([]byte, error) {
	db, err := s.open(ctx)
	if err != nil {
		return nil, err
	}
	var data []byte
	err = db.QueryRowContext(ctx, `SELECT data FROM images WHERE image_id = ?`, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read blob %q: %w", id, err)
	}
	return data, nil
}

// Close releases the database handle if it was ever opened.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
