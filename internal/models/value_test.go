package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapValue_RoundTripsEveryKind(t *testing.T) {
	tests := []struct {
		name  string
		typed TypedValue
	}{
		{"bool", BoolValue{Value: true}},
		{"enum", EnumValue{Value: 2}},
		{"counter", CounterValue{Count: 7}},
		{"text", TextValue{Text: "fast cycle", Multiline: true}},
		{"timer", TimerValue{Seconds: 12.5}},
		{"image", ImageValue{Images: []ImageRef{{ImageID: "id-1", ImageMime: "image/png", Local: true}}}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			v, err := WrapValue(tc.typed, "alice", 42)
			require.NoError(t, err)
			assert.Equal(t, tc.typed.Kind(), v.Kind)
			assert.Equal(t, int64(42), v.TimestampMs)
			assert.Equal(t, "alice", v.Scout)

			got, err := v.Unwrap()
			require.NoError(t, err)
			assert.Equal(t, tc.typed, got)
		})
	}
}

func TestUnwrap_UnknownKind(t *testing.T) {
	v := EntryValue{Kind: "hologram", Payload: []byte(`{}`)}
	_, err := v.Unwrap()
	require.ErrorIs(t, err, ErrUnknownKind)
}

func TestImages_NonImageKindYieldsNil(t *testing.T) {
	v, err := WrapValue(BoolValue{Value: true}, "alice", 1)
	require.NoError(t, err)

	imgs, err := v.Images()
	require.NoError(t, err)
	assert.Nil(t, imgs)
}

func TestWithImages_PreservesAuthorship(t *testing.T) {
	v, err := WrapValue(ImageValue{Images: []ImageRef{{ImageID: "a", ImageMime: "image/jpeg", Local: true}}}, "bob", 99)
	require.NoError(t, err)

	imgs, err := v.Images()
	require.NoError(t, err)
	imgs[0].Local = false

	updated, err := v.WithImages(imgs)
	require.NoError(t, err)
	assert.Equal(t, int64(99), updated.TimestampMs, "promotion must not move the merge watermark")
	assert.Equal(t, "bob", updated.Scout)

	got, err := updated.Images()
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.False(t, got[0].Local)
}

func TestWithImages_RejectsOtherKinds(t *testing.T) {
	v, err := WrapValue(CounterValue{Count: 1}, "bob", 1)
	require.NoError(t, err)

	_, err = v.WithImages(nil)
	require.ErrorIs(t, err, ErrUnknownKind)
}
