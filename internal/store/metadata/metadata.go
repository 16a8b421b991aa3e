// Package metadata is the small key/value store holding cached server
// configuration, sync watermarks, and client settings. It also lets callers
// wait for a key to appear instead of polling for it.
package metadata

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"scoutsync/internal/dbx"
)

// Well-known keys. The names match the original client's local storage
// layout so exported data stays recognizable.
const (
	KeyMatchList    = "matchList"
	KeyMatchFields  = "matchFields"
	KeyPitFields    = "pitFields"
	KeyDriverFields = "driverFields"

	KeyLastMatchSave  = "lastMatchSave"
	KeyLastPitSave    = "lastPitSave"
	KeyLastDriverSave = "lastDriverSave"

	KeyScoutName = "scoutName"
)

// Repository describes the metadata operations used by the sync engine and
// the UI layer.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	GetInt64(ctx context.Context, key string) (int64, error)
	SetInt64(ctx context.Context, key string, value int64) error
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, v any) error
	Wait(ctx context.Context, key string) ([]byte, error)
}

// SQLiteRepository implements Repository over the metadata table.
type SQLiteRepository struct {
	db dbx.DBTX

	mu      sync.Mutex
	waiters map[string][]chan struct{}
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db, waiters: make(map[string][]chan struct{})}
}

// Get returns the value stored under key, or nil when the key is absent.
func (r *SQLiteRepository) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := r.db.QueryRowContext(ctx, `SELECT value FROM metadata WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get metadata[%s]: %w", key, err)
	}
	return value, nil
}

// Set stores value under key and wakes any goroutines waiting for it.
func (r *SQLiteRepository) Set(ctx context.Context, key string, value []byte) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO metadata (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("failed to set metadata[%s]: %w", key, err)
	}
	r.notify(key)
	return nil
}

// GetInt64 reads an integer value; an absent key reads as zero.
func (r *SQLiteRepository) GetInt64(ctx context.Context, key string) (int64, error) {
	raw, err := r.Get(ctx, key)
	if err != nil || raw == nil {
		return 0, err
	}
	n, err := strconv.ParseInt(string(raw), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("metadata[%s] is not an integer: %w", key, err)
	}
	return n, nil
}

func (r *SQLiteRepository) SetInt64(ctx context.Context, key string, value int64) error {
	return r.Set(ctx, key, []byte(strconv.FormatInt(value, 10)))
}

// GetJSON unmarshals the stored value into out. It reports whether a value
// was present; an unparseable value reads as absent.
func (r *SQLiteRepository) GetJSON(ctx context.Context, key string, out any) (bool, error) {
	raw, err := r.Get(ctx, key)
	if err != nil || raw == nil {
		return false, err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return false, nil
	}
	return true, nil
}

func (r *SQLiteRepository) SetJSON(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal metadata[%s]: %w", key, err)
	}
	return r.Set(ctx, key, raw)
}

// Wait blocks until a value exists under key, then returns it. It returns
// immediately when the key is already set, and unblocks with the context's
// error on cancellation.
func (r *SQLiteRepository) Wait(ctx context.Context, key string) ([]byte, error) {
	for {
		ch := r.subscribe(key)

		raw, err := r.Get(ctx, key)
		if err != nil || raw != nil {
			r.unsubscribe(key, ch)
			return raw, err
		}

		select {
		case <-ch:
		case <-ctx.Done():
			r.unsubscribe(key, ch)
			return nil, ctx.Err()
		}
	}
}

func (r *SQLiteRepository) subscribe(key string) chan struct{} {
	r.mu.Lock()
	defer r.mu.Unlock()
	ch := make(chan struct{}, 1)
	r.waiters[key] = append(r.waiters[key], ch)
	return ch
}

func (r *SQLiteRepository) unsubscribe(key string, ch chan struct{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ws := r.waiters[key]
	for i := range ws {
		if ws[i] == ch {
			r.waiters[key] = append(ws[:i], ws[i+1:]...)
			return
		}
	}
}

func (r *SQLiteRepository) notify(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ch := range r.waiters[key] {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
