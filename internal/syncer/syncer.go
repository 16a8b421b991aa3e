// Package syncer reconciles locally buffered scouting entries with the
// server: it refreshes cached configuration, pushes records edited since
// the last successful run (promoting their attachments first), and pulls
// records the server holds newer copies of via the known-entries diff.
package syncer

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"scoutsync/internal/api"
	"scoutsync/internal/logging"
	"scoutsync/internal/models"
	"scoutsync/internal/store/blobs"
	"scoutsync/internal/store/entries"
	"scoutsync/internal/store/metadata"
)

// Service runs the sync protocol. A run is one atomic logical operation:
// overlapping triggers are suppressed by the busy flag and return
// immediately.
type Service struct {
	client  api.Client
	entries entries.Repository
	blobs   *blobs.Store
	meta    metadata.Repository
	log     logging.Logger

	busy atomic.Bool
	now  func() time.Time
}

func New(client api.Client, repo entries.Repository, blobStore *blobs.Store, meta metadata.Repository, log logging.Logger) *Service {
	return &Service{
		client:  client,
		entries: repo,
		blobs:   blobStore,
		meta:    meta,
		log:     log,
		now:     time.Now,
	}
}

// Busy reports whether a sync run is in flight.
func (s *Service) Busy() bool { return s.busy.Load() }

// Sync executes one sync run. A second call while a run is in flight is a
// complete no-op. Per-record-type network failures are logged and contained;
// only the inability to refresh the event roster aborts the run, because
// without it there is no event context to filter by.
func (s *Service) Sync(ctx context.Context) error {
	if !s.busy.CompareAndSwap(false, true) {
		s.log.Info(ctx, "sync already in progress, skipping")
		return nil
	}
	defer s.busy.Store(false)

	startMs := s.now().UnixMilli()

	info, err := s.refreshConfig(ctx)
	if err != nil {
		s.log.Error(ctx, "sync aborted, configuration refresh failed", "error", err)
		return fmt.Errorf("configuration refresh failed: %w", err)
	}

	// The bulk exchange is not cancellable mid-flight: once a run owns the
	// busy flag it completes or fails on its own terms.
	runCtx := context.WithoutCancel(ctx)

	s.syncMatches(runCtx, info, startMs)
	s.syncPits(runCtx, info, startMs)
	s.syncDrivers(runCtx, info, startMs)
	return nil
}

// refreshConfig replaces the cached event roster and field definitions with
// the server's copies. The server is authoritative; local copies are
// overwritten unconditionally. Field-set failures are non-fatal, the stale
// cached copy stays usable.
func (s *Service) refreshConfig(ctx context.Context) (*models.EventInfo, error) {
	info, err := s.client.EventInfo(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.meta.SetJSON(ctx, metadata.KeyMatchList, info); err != nil {
		return nil, err
	}

	fieldKeys := []struct {
		kind models.RecordKind
		key  string
	}{
		{models.RecordKindMatch, metadata.KeyMatchFields},
		{models.RecordKindPit, metadata.KeyPitFields},
		{models.RecordKindDriver, metadata.KeyDriverFields},
	}
	for _, fk := range fieldKeys {
		fields, err := s.client.EntryFields(ctx, fk.kind)
		if err != nil {
			s.log.Warn(ctx, "failed to refresh field definitions", "kind", fk.kind, "error", err)
			continue
		}
		if err := s.meta.Set(ctx, fk.key, fields); err != nil {
			s.log.Error(ctx, "failed to cache field definitions", "kind", fk.kind, "error", err)
		}
	}
	return info, nil
}

// StartAutoSync triggers a sync run every interval until ctx is cancelled.
// Runs overlapping a manual sync are absorbed by the busy flag.
func (s *Service) StartAutoSync(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := s.Sync(ctx); err != nil {
				s.log.Error(ctx, "background sync failed", "error", err)
			}
		case <-ctx.Done():
			return
		}
	}
}
