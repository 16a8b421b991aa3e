// Package api implements the scouting server's HTTP contract.
package api

import (
	"context"
	"encoding/json"

	"scoutsync/internal/models"
)

// Client is the server as seen by the sync engine and the UI layer.
//
// Field definitions and records travel as JSON; the per-kind methods take
// the kind so the three record types share one URL scheme
// (/api/{kind}/fields, /api/{kind}/data/all, /api/{kind}/data/filtered).
type Client interface {
	// EventInfo fetches the current event's roster and match list.
	EventInfo(ctx context.Context) (*models.EventInfo, error)

	// EntryFields fetches the field-definition configuration for one entry
	// type. The schema is opaque to the client.
	EntryFields(ctx context.Context, kind models.RecordKind) (models.EntryFields, error)

	// UploadEntries bulk-uploads changed records (array body).
	UploadEntries(ctx context.Context, kind models.RecordKind, records any) error

	// FilteredEntries submits known-entry markers (array body) and receives
	// the records for which the server holds something newer.
	FilteredEntries(ctx context.Context, kind models.RecordKind, markers any) (json.RawMessage, error)

	// UploadImage uploads one attachment's binary and metadata.
	UploadImage(ctx context.Context, image models.ImageUpload) error

	// Leaderboard fetches the server-computed leaderboard, passed through to
	// the UI untouched.
	Leaderboard(ctx context.Context) (json.RawMessage, error)
}
