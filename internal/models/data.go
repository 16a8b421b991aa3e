package models

import "sort"

// UnknownScout is reported when a value carries no scout name.
const UnknownScout = "Unknown"

// EntryData is one scouting session's field values together with the event
// context they were collected under. TimestampMs is the aggregate edit
// watermark: it is always >= every individual field's timestamp.
type EntryData struct {
	Year        int                   `json:"year"`
	Event       string                `json:"event"`
	Entries     map[string]EntryValue `json:"entries"`
	TimestampMs int64                 `json:"timestamp_ms"`
}

// NewEntryData returns an empty session for the given event context.
func NewEntryData(year int, event string) EntryData {
	return EntryData{Year: year, Event: event, Entries: make(map[string]EntryValue)}
}

// SetField replaces the value stored under id and advances the aggregate
// watermark to cover the new value's timestamp.
func (d *EntryData) SetField(id string, v EntryValue) {
	if d.Entries == nil {
		d.Entries = make(map[string]EntryValue)
	}
	d.Entries[id] = v
	if v.TimestampMs > d.TimestampMs {
		d.TimestampMs = v.TimestampMs
	}
}

// ClearField removes the value stored under id. This is a logical delete of
// one field, not of the record; the aggregate watermark still advances so
// the deletion is picked up by the next sync run.
func (d *EntryData) ClearField(id string, nowMs int64) {
	delete(d.Entries, id)
	if nowMs > d.TimestampMs {
		d.TimestampMs = nowMs
	}
}

// LatestTimestamp returns the newest timestamp across all field values.
// This is the digest sent to the server as a known-entry marker.
func (d *EntryData) LatestTimestamp() int64 {
	var latest int64
	for _, v := range d.Entries {
		if v.TimestampMs > latest {
			latest = v.TimestampMs
		}
	}
	return latest
}

// SameEvent reports whether the data was collected under the given event
// context.
func (d *EntryData) SameEvent(year int, event string) bool {
	return d.Year == year && d.Event == event
}

// ScoutNames returns the distinct scout names present in the field values,
// sorted. Values without a scout are attributed to UnknownScout.
func (d *EntryData) ScoutNames() []string {
	seen := make(map[string]struct{})
	for _, v := range d.Entries {
		name := v.Scout
		if name == "" {
			name = UnknownScout
		}
		seen[name] = struct{}{}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
