// Package entries provides the client-side persistence layer for scouting
// records.
//
// # Overview
//
// The package defines a Repository interface over the three record types
// (match, pit, driver; see internal/models). A SQLite-backed implementation
// (SQLiteRepository) stores each record as JSON in a key/value table, keyed
// deterministically from the record's identity tuple ("match-{m}-{t}",
// "team-{t}", "driver-{m}-{t}").
//
// # Absence semantics
//
// A missing key and a persisted blob that fails to parse are both reported
// as absence (nil record, nil error). Callers must treat absence as a
// normal case.
//
// # Event partition
//
// Enumeration methods filter by the (year, event) context embedded in each
// record. Records collected at other events stay in storage and are simply
// excluded from results, so history survives across events.
//
// Typical Usage
//
//	repo := entries.NewSQLiteRepository(db)
//	_ = repo.PutMatch(ctx, entry)
//	one, _ := repo.GetMatch(ctx, matchID, teamID)
//	all, _ := repo.AllMatches(ctx, 2026, "txhou")
//	scouts, _ := repo.MatchScouts(ctx, matchID, teamID, 2026, "txhou")
package entries
