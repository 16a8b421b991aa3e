package entries

import (
	"context"

	"scoutsync/internal/models"
)

// Repository is the durable client-side store of scouting records, addressed
// by deterministic string keys.
//
// Absence is a normal case everywhere: Get methods return (nil, nil) when no
// record is stored under the derived key, and a persisted blob that fails to
// parse is treated the same as a missing one. All* methods enumerate every
// stored key with the type's prefix and filter to the given event context;
// records from other events stay in storage but are excluded from results.
type Repository interface {
	GetMatch(ctx context.Context, matchID, teamID int64) (*models.MatchEntry, error)
	PutMatch(ctx context.Context, entry *models.MatchEntry) error
	PutAllMatches(ctx context.Context, entries []models.MatchEntry) error
	AllMatches(ctx context.Context, year int, event string) ([]models.MatchEntry, error)
	MatchScouts(ctx context.Context, matchID, teamID int64, year int, event string) ([]string, error)

	GetPit(ctx context.Context, teamID int64) (*models.PitEntry, error)
	PutPit(ctx context.Context, entry *models.PitEntry) error
	PutAllPits(ctx context.Context, entries []models.PitEntry) error
	AllPits(ctx context.Context, year int, event string) ([]models.PitEntry, error)
	PitScouts(ctx context.Context, teamID int64, year int, event string) ([]string, error)

	GetDriver(ctx context.Context, matchID, teamID int64) (*models.DriverEntry, error)
	PutDriver(ctx context.Context, entry *models.DriverEntry) error
	PutAllDrivers(ctx context.Context, entries []models.DriverEntry) error
	AllDrivers(ctx context.Context, year int, event string) ([]models.DriverEntry, error)
	DriverScouts(ctx context.Context, matchID, teamID int64, year int, event string) ([]string, error)
}
