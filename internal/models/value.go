// Package models defines the scouting entry types that are persisted in the
// local store and exchanged with the server.
package models

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ValueKind classifies an entry value.
type ValueKind string

const (
	KindBool    ValueKind = "bool"
	KindEnum    ValueKind = "enum"
	KindCounter ValueKind = "counter"
	KindText    ValueKind = "text"
	KindTimer   ValueKind = "timer"
	KindImage   ValueKind = "image"
)

var ErrUnknownKind = errors.New("unknown entry value kind")

// EntryValue is one answered field: a kind tag, the kind-specific payload,
// and the authorship stamp used for merge resolution.
type EntryValue struct {
	Kind        ValueKind       `json:"type"`
	TimestampMs int64           `json:"timestamp_ms"`
	Scout       string          `json:"scout"`
	Payload     json.RawMessage `json:"value"`
}

// TypedValue is implemented by every concrete value payload.
type TypedValue interface {
	Kind() ValueKind
}

// BoolValue answers a yes/no question.
type BoolValue struct {
	Value bool `json:"value"`
}

func (BoolValue) Kind() ValueKind { return KindBool }

// EnumValue picks one of the options declared by the field definition.
type EnumValue struct {
	Value int `json:"value"`
}

func (EnumValue) Kind() ValueKind { return KindEnum }

// CounterValue counts occurrences. Range limits, if any, live in the field
// definition, not here.
type CounterValue struct {
	Count int `json:"count"`
}

func (CounterValue) Kind() ValueKind { return KindCounter }

// TextValue holds free text.
type TextValue struct {
	Text      string `json:"text"`
	Multiline bool   `json:"multiline,omitempty"`
}

func (TextValue) Kind() ValueKind { return KindText }

// TimerValue holds an elapsed real-world duration in seconds.
type TimerValue struct {
	Seconds float64 `json:"seconds"`
}

func (TimerValue) Kind() ValueKind { return KindTimer }

// ImageValue references attachments held in the blob store.
type ImageValue struct {
	Images []ImageRef `json:"images"`
}

func (ImageValue) Kind() ValueKind { return KindImage }

// ImageRef points at one attachment. Local reports whether the binary still
// lives only in the local blob store; it flips to false once the server has
// acknowledged the upload.
type ImageRef struct {
	ImageID   string `json:"image_id"`
	ImageMime string `json:"image_mime"`
	Local     bool   `json:"local,omitempty"`
}

// WrapValue builds an EntryValue around a typed payload, stamping it with the
// scout name and edit time.
func WrapValue(v TypedValue, scout string, timestampMs int64) (EntryValue, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return EntryValue{}, fmt.Errorf("failed to marshal %s value: %w", v.Kind(), err)
	}
	return EntryValue{Kind: v.Kind(), TimestampMs: timestampMs, Scout: scout, Payload: b}, nil
}

// Unwrap decodes the payload into its concrete type. The switch is
// exhaustive over ValueKind so new kinds cannot be silently mishandled.
func (v EntryValue) Unwrap() (TypedValue, error) {
	switch v.Kind {
	case KindBool:
		var x BoolValue
		return x, json.Unmarshal(v.Payload, &x)
	case KindEnum:
		var x EnumValue
		return x, json.Unmarshal(v.Payload, &x)
	case KindCounter:
		var x CounterValue
		return x, json.Unmarshal(v.Payload, &x)
	case KindText:
		var x TextValue
		return x, json.Unmarshal(v.Payload, &x)
	case KindTimer:
		var x TimerValue
		return x, json.Unmarshal(v.Payload, &x)
	case KindImage:
		var x ImageValue
		return x, json.Unmarshal(v.Payload, &x)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, v.Kind)
	}
}

// Images returns the attachment references carried by an image value.
// Values of other kinds yield nil.
func (v EntryValue) Images() ([]ImageRef, error) {
	if v.Kind != KindImage {
		return nil, nil
	}
	var x ImageValue
	if err := json.Unmarshal(v.Payload, &x); err != nil {
		return nil, fmt.Errorf("failed to decode image value: %w", err)
	}
	return x.Images, nil
}

// WithImages returns a copy of an image value with its references replaced.
// The authorship stamp is preserved: flipping an attachment's Local flag is
// not an edit and must not move the merge watermark.
func (v EntryValue) WithImages(images []ImageRef) (EntryValue, error) {
	if v.Kind != KindImage {
		return EntryValue{}, fmt.Errorf("%w: cannot set images on %q", ErrUnknownKind, v.Kind)
	}
	b, err := json.Marshal(ImageValue{Images: images})
	if err != nil {
		return EntryValue{}, fmt.Errorf("failed to marshal image value: %w", err)
	}
	out := v
	out.Payload = b
	return out, nil
}
