package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustValue(t *testing.T, typed TypedValue, scout string, ts int64) EntryValue {
	t.Helper()
	v, err := WrapValue(typed, scout, ts)
	require.NoError(t, err)
	return v
}

func TestSetField_AggregateIsMonotonicMax(t *testing.T) {
	d := NewEntryData(2026, "txhou")

	d.SetField("auto_score", mustValue(t, CounterValue{Count: 3}, "alice", 100))
	assert.Equal(t, int64(100), d.TimestampMs)

	d.SetField("climbed", mustValue(t, BoolValue{Value: true}, "alice", 250))
	assert.Equal(t, int64(250), d.TimestampMs)

	// An older stamp never walks the aggregate backwards.
	d.SetField("auto_score", mustValue(t, CounterValue{Count: 4}, "bob", 150))
	assert.Equal(t, int64(250), d.TimestampMs)

	assert.Equal(t, d.LatestTimestamp(), d.TimestampMs)
	for _, v := range d.Entries {
		assert.LessOrEqual(t, v.TimestampMs, d.TimestampMs)
	}
}

func TestClearField_RemovesFieldAndAdvancesAggregate(t *testing.T) {
	d := NewEntryData(2026, "txhou")
	d.SetField("notes", mustValue(t, TextValue{Text: "broken intake"}, "alice", 100))

	d.ClearField("notes", 300)

	_, ok := d.Entries["notes"]
	assert.False(t, ok)
	assert.Equal(t, int64(300), d.TimestampMs, "clearing must be visible to the next sync")
}

func TestLatestTimestamp_EmptyIsZero(t *testing.T) {
	d := NewEntryData(2026, "txhou")
	assert.Zero(t, d.LatestTimestamp())
}

func TestScoutNames_DistinctSortedWithUnknown(t *testing.T) {
	d := NewEntryData(2026, "txhou")
	d.SetField("a", mustValue(t, BoolValue{Value: true}, "zoe", 1))
	d.SetField("b", mustValue(t, CounterValue{Count: 2}, "alice", 2))
	d.SetField("c", mustValue(t, CounterValue{Count: 3}, "alice", 3))
	d.SetField("d", mustValue(t, BoolValue{}, "", 4))

	assert.Equal(t, []string{"Unknown", "alice", "zoe"}, d.ScoutNames())
}

func TestSameEvent(t *testing.T) {
	d := NewEntryData(2026, "txhou")
	assert.True(t, d.SameEvent(2026, "txhou"))
	assert.False(t, d.SameEvent(2025, "txhou"))
	assert.False(t, d.SameEvent(2026, "casj"))
}

func TestStorageKeys(t *testing.T) {
	m := &MatchEntry{MatchID: 12, TeamID: 254}
	p := &PitEntry{TeamID: 254}
	dr := &DriverEntry{MatchID: 12, TeamID: 254}

	assert.Equal(t, "match-12-254", m.StorageKey())
	assert.Equal(t, "team-254", p.StorageKey())
	assert.Equal(t, "driver-12-254", dr.StorageKey())
}

func TestMarker_UsesLatestFieldTimestamp(t *testing.T) {
	m := &MatchEntry{MatchID: 12, TeamID: 254, Data: NewEntryData(2026, "txhou")}
	m.Data.SetField("a", mustValue(t, CounterValue{Count: 1}, "alice", 100))
	m.Data.SetField("b", mustValue(t, CounterValue{Count: 2}, "alice", 70))

	marker := m.Marker()
	assert.Equal(t, int64(12), marker.MatchID)
	assert.Equal(t, int64(254), marker.TeamID)
	assert.Equal(t, int64(100), marker.TimestampMs)
}
