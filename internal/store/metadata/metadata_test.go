package metadata

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", "file:"+t.Name()+"?mode=memory&cache=shared")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE metadata (
  key   TEXT PRIMARY KEY,
  value BLOB NOT NULL
);
`)
	require.NoError(t, err)
	return db
}

func TestGetSet_RoundTripAndOverwrite(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	got, err := r.Get(ctx, KeyMatchFields)
	require.NoError(t, err)
	assert.Nil(t, got, "missing key reads as nil")

	require.NoError(t, r.Set(ctx, KeyMatchFields, []byte(`{"pages":[]}`)))
	got, err = r.Get(ctx, KeyMatchFields)
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"pages":[]}`), got)

	require.NoError(t, r.Set(ctx, KeyMatchFields, []byte(`{"pages":[1]}`)))
	got, err = r.Get(ctx, KeyMatchFields)
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"pages":[1]}`), got)
}

func TestInt64_AbsentReadsAsZero(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	n, err := r.GetInt64(ctx, KeyLastMatchSave)
	require.NoError(t, err)
	assert.Zero(t, n)

	require.NoError(t, r.SetInt64(ctx, KeyLastMatchSave, 1726000000123))
	n, err = r.GetInt64(ctx, KeyLastMatchSave)
	require.NoError(t, err)
	assert.Equal(t, int64(1726000000123), n)
}

func TestGetJSON_UnparseableReadsAsAbsent(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, KeyMatchList, []byte("not json")))

	var out map[string]any
	ok, err := r.GetJSON(ctx, KeyMatchList, &out)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestWait_ReturnsImmediatelyWhenSet(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, KeyMatchList, []byte("ready")))

	got, err := r.Wait(ctx, KeyMatchList)
	require.NoError(t, err)
	assert.Equal(t, []byte("ready"), got)
}

func TestWait_WakesOnSet(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	done := make(chan []byte, 1)
	go func() {
		got, err := r.Wait(ctx, KeyDriverFields)
		assert.NoError(t, err)
		done <- got
	}()

	time.Sleep(20 * time.Millisecond)
	require.NoError(t, r.Set(ctx, KeyDriverFields, []byte("landed")))

	select {
	case got := <-done:
		assert.Equal(t, []byte("landed"), got)
	case <-time.After(2 * time.Second):
		t.Fatal("Wait never woke up after Set")
	}
}

func TestWait_CancelledContext(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := r.Wait(ctx, "never-set")
	require.ErrorIs(t, err, context.DeadlineExceeded)
}
