package entries

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"scoutsync/internal/dbx"
	"scoutsync/internal/models"
)

// SQLiteRepository implements Repository on a single key/value table.
// Records are stored as JSON under their derived keys; the record-type
// prefix partitions the keyspace.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository returns a repository bound to the given database.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func getRaw(ctx context.Context, db dbx.DBTX, key string) ([]byte, error) {
	var raw []byte
	err := db.QueryRowContext(ctx, `SELECT value FROM entries WHERE key = ?`, key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read entry %q: %w", key, err)
	}
	return raw, nil
}

func putRaw(ctx context.Context, db dbx.DBTX, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal entry %q: %w", key, err)
	}
	_, err = db.ExecContext(ctx, `
		INSERT INTO entries (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, raw)
	if err != nil {
		return fmt.Errorf("failed to upsert entry %q: %w", key, err)
	}
	return nil
}

func (r *SQLiteRepository) rawByPrefix(ctx context.Context, prefix string) ([][]byte, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT value FROM entries WHERE key LIKE ? || '%' ORDER BY key`, prefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries with prefix %q: %w", prefix, err)
	}
	defer rows.Close()

	var result [][]byte
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		result = append(result, raw)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// GetMatch loads one match record. Missing or unparseable rows yield
// (nil, nil).
func (r *SQLiteRepository) GetMatch(ctx context.Context, matchID, teamID int64) (*models.MatchEntry, error) {
	raw, err := getRaw(ctx, r.db, models.MatchKey(matchID, teamID))
	if err != nil || raw == nil {
		return nil, err
	}
	var e models.MatchEntry
	if err := json.Unmarshal(raw, &e); err != nil {
		return nil, nil
	}
	return &e, nil
}

// PutMatch overwrites the stored record under its derived key.
func (r *SQLiteRepository) PutMatch(ctx context.Context, entry *models.MatchEntry) error {
	return putRaw(ctx, r.db, entry.StorageKey(), entry)
}

// PutAllMatches overwrites a batch of records in one transaction. Used when
// applying the server's incoming diff.
func (r *SQLiteRepository) PutAllMatches(ctx context.Context, entries []models.MatchEntry) error {
	return dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		for i := range entries {
			if err := putRaw(ctx, tx, entries[i].StorageKey(), &entries[i]); err != nil {
				return err
			}
		}
		return nil
	})
}

// AllMatches returns every stored match record collected under the given
// event context.
func (r *SQLiteRepository) AllMatches(ctx context.Context, year int, event string) ([]models.MatchEntry, error) {
	raws, err := r.rawByPrefix(ctx, models.MatchKeyPrefix)
	if err != nil {
		return nil, err
	}
	var result []models.MatchEntry
	for _, raw := range raws {
		var e models.MatchEntry
		if err := json.Unmarshal(raw, &e); err != nil {
			continue
		}
		if e.Data.SameEvent(year, event) {
			result = append(result, e)
		}
	}
	return result, nil
}

// MatchScouts returns the distinct scout names in a match record, or nil
// when the record is absent or belongs to another event.
func (r *SQLiteRepository) MatchScouts(ctx context.Context, matchID, teamID int64, year int, event string) ([]string, error) {
	e, err := r.GetMatch(ctx, matchID, teamID)
	if err != nil {
		return nil, err
	}
	if e == nil || !e.Data.SameEvent(year, event) {
		return nil, nil
	}
	return e.Data.ScoutNames(), nil
}

func (r *SQLiteRepository) GetPit(ctx context.Context, teamID int64) (*models.PitEntry, error) {
	raw, err := getRaw(ctx, r.db, models.PitKey(teamID))
	if err != nil || raw == nil {
		return nil, err
	}
	var e models.PitEntry
	if err := json.Unmarshal(raw, &e); err != nil {
		return nil, nil
	}
	return &e, nil
}

func (r *SQLiteRepository) PutPit(ctx context.Context, entry *models.PitEntry) error {
	return putRaw(ctx, r.db, entry.StorageKey(), entry)
}

func (r *SQLiteRepository) PutAllPits(ctx context.Context, entries []models.PitEntry) error {
	return dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		for i := range entries {
			if err := putRaw(ctx, tx, entries[i].StorageKey(), &entries[i]); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *SQLiteRepository) AllPits(ctx context.Context, year int, event string) ([]models.PitEntry, error) {
	raws, err := r.rawByPrefix(ctx, models.PitKeyPrefix)
	if err != nil {
		return nil, err
	}
	var result []models.PitEntry
	for _, raw := range raws {
		var e models.PitEntry
		if err := json.Unmarshal(raw, &e); err != nil {
			continue
		}
		if e.Data.SameEvent(year, event) {
			result = append(result, e)
		}
	}
	return result, nil
}

func (r *SQLiteRepository) PitScouts(ctx context.Context, teamID int64, year int, event string) ([]string, error) {
	e, err := r.GetPit(ctx, teamID)
	if err != nil {
		return nil, err
	}
	if e == nil || !e.Data.SameEvent(year, event) {
		return nil, nil
	}
	return e.Data.ScoutNames(), nil
}

func (r *SQLiteRepository) GetDriver(ctx context.Context, matchID, teamID int64) (*models.DriverEntry, error) {
	raw, err := getRaw(ctx, r.db, models.DriverKey(matchID, teamID))
	if err != nil || raw == nil {
		return nil, err
	}
	var e models.DriverEntry
	if err := json.Unmarshal(raw, &e); err != nil {
		return nil, nil
	}
	return &e, nil
}

func (r *SQLiteRepository) PutDriver(ctx context.Context, entry *models.DriverEntry) error {
	return putRaw(ctx, r.db, entry.StorageKey(), entry)
}

func (r *SQLiteRepository) PutAllDrivers(ctx context.Context, entries []models.DriverEntry) error {
	return dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		for i := range entries {
			if err := putRaw(ctx, tx, entries[i].StorageKey(), &entries[i]); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *SQLiteRepository) AllDrivers(ctx context.Context, year int, event string) ([]models.DriverEntry, error) {
	raws, err := r.rawByPrefix(ctx, models.DriverKeyPrefix)
	if err != nil {
		return nil, err
	}
	var result []models.DriverEntry
	for _, raw := range raws {
		var e models.DriverEntry
		if err := json.Unmarshal(raw, &e); err != nil {
			continue
		}
		if e.Data.SameEvent(year, event) {
			result = append(result, e)
		}
	}
	return result, nil
}

func (r *SQLiteRepository) DriverScouts(ctx context.Context, matchID, teamID int64, year int, event string) ([]string, error) {
	e, err := r.GetDriver(ctx, matchID, teamID)
	if err != nil {
		return nil, err
	}
	if e == nil || !e.Data.SameEvent(year, event) {
		return nil, nil
	}
	return e.Data.ScoutNames(), nil
}
