package models

import "encoding/json"

// EventInfo is the current event's roster as delivered by the server. The
// server is authoritative; the client replaces its cached copy wholesale on
// every sync.
type EventInfo struct {
	Year    int         `json:"year"`
	Event   string      `json:"event"`
	Matches []MatchInfo `json:"matches"`
	Teams   []TeamInfo  `json:"teams"`
}

// MatchInfo is one scheduled match.
type MatchInfo struct {
	ID   int64   `json:"id"`
	Red  []int64 `json:"red"`
	Blue []int64 `json:"blue"`
}

// TeamInfo is one team at the event.
type TeamInfo struct {
	Number int64  `json:"number"`
	Name   string `json:"name"`
}

// EntryFields is the field-definition configuration for one entry type. The
// schema is defined server-side; the client caches and forwards it opaquely.
type EntryFields = json.RawMessage

// ImageUpload is the wire form of one attachment sent to the server.
type ImageUpload struct {
	ImageID   string `json:"image_id"`
	ImageMime string `json:"image_mime"`
	ImageData []byte `json:"image_data"`
}
