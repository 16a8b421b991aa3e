package models

import "fmt"

// Storage key prefixes partition the record store by record type. Pit
// records historically use the "team-" prefix.
const (
	MatchKeyPrefix  = "match-"
	PitKeyPrefix    = "team-"
	DriverKeyPrefix = "driver-"
)

// RecordKind names a record type the way the server's URL namespace does.
type RecordKind string

const (
	RecordKindMatch  RecordKind = "match_entry"
	RecordKindPit    RecordKind = "pit_entry"
	RecordKindDriver RecordKind = "driver_entry"
)

// MatchKey derives the storage key for one team's performance in one match.
func MatchKey(matchID, teamID int64) string {
	return fmt.Sprintf("%s%d-%d", MatchKeyPrefix, matchID, teamID)
}

// PitKey derives the storage key for a team's pit entry.
func PitKey(teamID int64) string {
	return fmt.Sprintf("%s%d", PitKeyPrefix, teamID)
}

// DriverKey derives the storage key for a driver entry. Driver records share
// the (match, team) key shape with match records but live in a separate
// namespace.
func DriverKey(matchID, teamID int64) string {
	return fmt.Sprintf("%s%d-%d", DriverKeyPrefix, matchID, teamID)
}

// Record is satisfied by all three record types.
type Record interface {
	StorageKey() string
	Entry() *EntryData
}

// MatchEntry records one team's performance in one match.
type MatchEntry struct {
	MatchID int64     `json:"match_id"`
	TeamID  int64     `json:"team_id"`
	Data    EntryData `json:"data"`
}

func (e *MatchEntry) StorageKey() string { return MatchKey(e.MatchID, e.TeamID) }
func (e *MatchEntry) Entry() *EntryData  { return &e.Data }

// Marker returns the minimal digest the server uses to decide whether it
// holds anything newer for this identity.
func (e *MatchEntry) Marker() KnownMatchEntry {
	return KnownMatchEntry{MatchID: e.MatchID, TeamID: e.TeamID, TimestampMs: e.Data.LatestTimestamp()}
}

// PitEntry records a team's pit scouting session.
type PitEntry struct {
	TeamID int64     `json:"team_id"`
	Data   EntryData `json:"data"`
}

func (e *PitEntry) StorageKey() string { return PitKey(e.TeamID) }
func (e *PitEntry) Entry() *EntryData  { return &e.Data }

func (e *PitEntry) Marker() KnownPitEntry {
	return KnownPitEntry{TeamID: e.TeamID, TimestampMs: e.Data.LatestTimestamp()}
}

// DriverEntry records driver feedback for one team in one match.
type DriverEntry struct {
	MatchID int64     `json:"match_id"`
	TeamID  int64     `json:"team_id"`
	Data    EntryData `json:"data"`
}

func (e *DriverEntry) StorageKey() string { return DriverKey(e.MatchID, e.TeamID) }
func (e *DriverEntry) Entry() *EntryData  { return &e.Data }

func (e *DriverEntry) Marker() KnownDriverEntry {
	return KnownDriverEntry{MatchID: e.MatchID, TeamID: e.TeamID, TimestampMs: e.Data.LatestTimestamp()}
}

// KnownMatchEntry is the known-entry marker for a match record.
type KnownMatchEntry struct {
	MatchID     int64 `json:"match_id"`
	TeamID      int64 `json:"team_id"`
	TimestampMs int64 `json:"timestamp_ms"`
}

// KnownPitEntry is the known-entry marker for a pit record.
type KnownPitEntry struct {
	TeamID      int64 `json:"team_id"`
	TimestampMs int64 `json:"timestamp_ms"`
}

// KnownDriverEntry is the known-entry marker for a driver record. Same shape
// as KnownMatchEntry, distinct namespace.
type KnownDriverEntry struct {
	MatchID     int64 `json:"match_id"`
	TeamID      int64 `json:"team_id"`
	TimestampMs int64 `json:"timestamp_ms"`
}
