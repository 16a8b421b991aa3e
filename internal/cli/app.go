// Package cli is the interactive scouting console: it edits entry records in
// the local store, attaches images, and triggers sync runs against the
// server.
package cli

import (
	"bufio"
	"context"
	"database/sql"
	"log/slog"
	"os"
	"time"

	_ "modernc.org/sqlite"

	"scoutsync/internal/api"
	"scoutsync/internal/config"
	"scoutsync/internal/logging"
	"scoutsync/internal/models"
	"scoutsync/internal/store"
	"scoutsync/internal/store/blobs"
	"scoutsync/internal/store/metadata"
	"scoutsync/internal/syncer"
)

// eventInfoWaitTimeout bounds how long a blocking command waits for the
// first sync to deliver the event roster.
const eventInfoWaitTimeout = 10 * time.Second

type App struct {
	config *config.Config
	log    logging.Logger

	repos *store.Repositories
	db    *sql.DB
	blobs *blobs.Store
	sync  *syncer.Service
	api   api.Client

	reader *bufio.Reader
}

// NewApp wires the stores, the API client, and the sync engine. All state
// is owned here and passed down; nothing is ambient.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	log := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	repos, db, err := store.InitDatabase(ctx, c.DatabasePath)
	if err != nil {
		log.Error(ctx, "error initializing database", "error", err)
		return nil, err
	}

	blobStore := blobs.New(c.BlobDatabasePath, log)
	apiClient := api.New(c.ServerEndpointAddr)
	syncService := syncer.New(apiClient, repos.Entries, blobStore, repos.Metadata, log)

	return &App{
		config: c,
		log:    log,
		repos:  repos,
		db:     db,
		blobs:  blobStore,
		sync:   syncService,
		api:    apiClient,
		reader: bufio.NewReader(os.Stdin),
	}, nil
}

// Run starts the background sync ticker (when configured) and enters the
// command loop.
func (a *App) Run(ctx context.Context) {
	defer a.Close()

	if a.config.AutoSyncInterval > 0 {
		go a.sync.StartAutoSync(ctx, a.config.AutoSyncInterval)
	}

	a.Root(ctx)
}

func (a *App) Close() {
	_ = a.blobs.Close()
	_ = a.db.Close()
}

// eventInfo returns the cached event roster, or nil when no sync has
// delivered one yet.
func (a *App) eventInfo(ctx context.Context) *models.EventInfo {
	var info models.EventInfo
	ok, err := a.repos.Metadata.GetJSON(ctx, metadata.KeyMatchList, &info)
	if err != nil {
		a.log.Error(ctx, "failed to load cached event info", "error", err)
		return nil
	}
	if !ok {
		return nil
	}
	return &info
}

// waitEventInfo is eventInfo for commands that can afford to block: when no
// roster is cached yet it kicks off a sync run and waits for the roster to
// arrive instead of refusing outright.
func (a *App) waitEventInfo(ctx context.Context) *models.EventInfo {
	if info := a.eventInfo(ctx); info != nil {
		return info
	}

	go func() {
		if err := a.sync.Sync(context.WithoutCancel(ctx)); err != nil {
			a.log.Error(ctx, "sync failed", "error", err)
		}
	}()

	wctx, cancel := context.WithTimeout(ctx, eventInfoWaitTimeout)
	defer cancel()
	if _, err := a.repos.Metadata.Wait(wctx, metadata.KeyMatchList); err != nil {
		return nil
	}
	return a.eventInfo(ctx)
}

// scoutName returns the configured scout name, or "" when unset.
func (a *App) scoutName(ctx context.Context) string {
	raw, err := a.repos.Metadata.Get(ctx, metadata.KeyScoutName)
	if err != nil {
		a.log.Error(ctx, "failed to load scout name", "error", err)
		return ""
	}
	return string(raw)
}
