// Package store opens the local scouting database and wires its
// repositories.
package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"

	"scoutsync/internal/migrations"
	"scoutsync/internal/store/entries"
	"scoutsync/internal/store/metadata"
)

// Repositories bundles the repositories backed by the record database. The
// blob store opens its own database separately.
type Repositories struct {
	Entries  entries.Repository
	Metadata metadata.Repository
}

// RunMigrations brings the schema up to date using the embedded migrations.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	return goose.UpContext(ctx, db, ".")
}

// InitDatabase opens the record database at dsn, migrates it, and returns
// the repositories together with the handle (for transactions and Close).
func InitDatabase(ctx context.Context, dsn string) (*Repositories, *sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	repos := &Repositories{
		Entries:  entries.NewSQLiteRepository(db),
		Metadata: metadata.NewSQLiteRepository(db),
	}
	return repos, db, nil
}
