package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scoutsync/internal/models"
)

func TestEventInfo(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/event/matches", r.URL.Path)
		_, _ = io.WriteString(w, `{"year":2026,"event":"txhou","matches":[{"id":1,"red":[254,118,148],"blue":[33,1678,2056]}],"teams":[{"number":254,"name":"The Cheesy Poofs"}]}`)
	}))
	defer srv.Close()

	info, err := New(srv.URL).EventInfo(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2026, info.Year)
	assert.Equal(t, "txhou", info.Event)
	require.Len(t, info.Matches, 1)
	assert.Equal(t, []int64{254, 118, 148}, info.Matches[0].Red)
	require.Len(t, info.Teams, 1)
	assert.Equal(t, int64(254), info.Teams[0].Number)
}

func TestEntryFields_PathPerKind(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = io.WriteString(w, `{"pages":[]}`)
	}))
	defer srv.Close()

	c := New(srv.URL)
	tests := []struct {
		kind models.RecordKind
		path string
	}{
		{models.RecordKindMatch, "/api/match_entry/fields"},
		{models.RecordKindPit, "/api/pit_entry/fields"},
		{models.RecordKindDriver, "/api/driver_entry/fields"},
	}
	for _, tc := range tests {
		fields, err := c.EntryFields(context.Background(), tc.kind)
		require.NoError(t, err)
		assert.Equal(t, tc.path, gotPath)
		assert.JSONEq(t, `{"pages":[]}`, string(fields))
	}
}

func TestUploadEntries_PutsArrayBody(t *testing.T) {
	var gotMethod, gotPath, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		raw, _ := io.ReadAll(r.Body)
		gotBody = string(raw)
	}))
	defer srv.Close()

	records := []models.MatchEntry{{MatchID: 12, TeamID: 254, Data: models.NewEntryData(2026, "txhou")}}
	err := New(srv.URL).UploadEntries(context.Background(), models.RecordKindMatch, records)
	require.NoError(t, err)

	assert.Equal(t, http.MethodPut, gotMethod)
	assert.Equal(t, "/api/match_entry/data/all", gotPath)

	var decoded []models.MatchEntry
	require.NoError(t, json.Unmarshal([]byte(gotBody), &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, int64(254), decoded[0].TeamID)
}

func TestFilteredEntries_PostsMarkers(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/pit_entry/data/filtered", r.URL.Path)

		var markers []models.KnownPitEntry
		require.NoError(t, json.NewDecoder(r.Body).Decode(&markers))
		require.Len(t, markers, 1)
		assert.Equal(t, int64(118), markers[0].TeamID)

		_, _ = io.WriteString(w, `[]`)
	}))
	defer srv.Close()

	raw, err := New(srv.URL).FilteredEntries(context.Background(), models.RecordKindPit,
		[]models.KnownPitEntry{{TeamID: 118, TimestampMs: 42}})
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(raw))
}

func TestUploadImage_ArrayOfOne(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/images", r.URL.Path)

		var uploads []models.ImageUpload
		require.NoError(t, json.NewDecoder(r.Body).Decode(&uploads))
		require.Len(t, uploads, 1)
		assert.Equal(t, "img-1", uploads[0].ImageID)
		assert.Equal(t, []byte{1, 2, 3}, uploads[0].ImageData)
	}))
	defer srv.Close()

	err := New(srv.URL).UploadImage(context.Background(),
		models.ImageUpload{ImageID: "img-1", ImageMime: "image/png", ImageData: []byte{1, 2, 3}})
	require.NoError(t, err)
}

func TestBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := New(srv.URL).EventInfo(context.Background())
	require.ErrorIs(t, err, ErrBadStatus)
}

func TestUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	_, err := New(srv.URL).EventInfo(context.Background())
	require.ErrorIs(t, err, ErrUnavailable)
}
