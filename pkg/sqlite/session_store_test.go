package sqlite_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/journey/pkg/journey"
	"github.com/dmitrymomot/journey/pkg/sqlite"
)

var now = time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)

func clock() journey.Clock {
	return journey.ClockFunc(func() time.Time { return now })
}

func openDB(t *testing.T, path string) *sql.DB {
	t.Helper()

	db, err := sqlite.Open(path, sqlite.DefaultConfig())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func setupStore(t *testing.T) *sqlite.SessionStore {
	t.Helper()

	db := openDB(t, filepath.Join(t.TempDir(), "journey.db"))
	store, err := sqlite.NewSessionStore(context.Background(), db, sqlite.WithClock(clock()))
	require.NoError(t, err)
	return store
}

func newSession(id string) *journey.Session {
	s := journey.NewSession(id, "accid", "appid", "1.0", true, now, clock())
	s.EventCounts["click"] = 1
	s.EventSequence = []string{"click"}
	s.HasError = true
	return s
}

func TestOpen(t *testing.T) {
	t.Run("empty path", func(t *testing.T) {
		_, err := sqlite.Open("", sqlite.DefaultConfig())
		assert.ErrorIs(t, err, sqlite.ErrEmptyPath)
	})

	t.Run("wal mode", func(t *testing.T) {
		db := openDB(t, filepath.Join(t.TempDir(), "wal.db"))

		var mode string
		require.NoError(t, db.QueryRow("PRAGMA journal_mode").Scan(&mode))
		assert.Equal(t, "wal", mode)
	})

	t.Run("missing directory", func(t *testing.T) {
		_, err := sqlite.Open(filepath.Join(t.TempDir(), "no", "such", "dir", "x.db"), sqlite.DefaultConfig())
		assert.ErrorIs(t, err, sqlite.ErrOpenFailed)
	})
}

func TestSessionStore_LoadLast_Missing(t *testing.T) {
	store := setupStore(t)

	_, err := store.LoadLast(context.Background())
	assert.ErrorIs(t, err, journey.ErrSessionNotFound)
}

func TestSessionStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store := setupStore(t)

	first := newSession("SESSION0")
	require.NoError(t, store.Save(ctx, first))

	second := newSession("SESSION1")
	second.NewStage = journey.NewStage(4, "checkout", clock())
	require.NoError(t, store.Save(ctx, second))

	got, err := store.LoadLast(ctx)
	require.NoError(t, err)
	assert.True(t, second.Equal(got))
}

func TestSessionStore_SingleRow(t *testing.T) {
	ctx := context.Background()
	db := openDB(t, filepath.Join(t.TempDir(), "journey.db"))
	store, err := sqlite.NewSessionStore(ctx, db)
	require.NoError(t, err)

	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, store.Save(ctx, newSession(id)))
	}

	var rows int
	var id string
	require.NoError(t, db.QueryRow("SELECT COUNT(*), MAX(session_id) FROM journey_sessions").Scan(&rows, &id))
	assert.Equal(t, 1, rows)
	assert.Equal(t, "c", id)
}

func TestSessionStore_Reopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "journey.db")

	db := openDB(t, path)
	store, err := sqlite.NewSessionStore(ctx, db)
	require.NoError(t, err)
	saved := newSession("SESSION1")
	require.NoError(t, store.Save(ctx, saved))
	require.NoError(t, db.Close())

	reopened, err := sqlite.NewSessionStore(ctx, openDB(t, path))
	require.NoError(t, err)

	got, err := reopened.LoadLast(ctx)
	require.NoError(t, err)
	assert.True(t, saved.Equal(got))
}

func TestSessionStore_Malformed(t *testing.T) {
	ctx := context.Background()
	db := openDB(t, filepath.Join(t.TempDir(), "journey.db"))
	store, err := sqlite.NewSessionStore(ctx, db)
	require.NoError(t, err)

	_, err = db.Exec(`INSERT INTO journey_sessions (slot, session_id, document, updated_at) VALUES ('last', 'x', '{oops', '')`)
	require.NoError(t, err)

	_, err = store.LoadLast(ctx)
	assert.ErrorIs(t, err, journey.ErrMalformedSession)
}

func TestSessionStore_Save_Nil(t *testing.T) {
	assert.ErrorIs(t, setupStore(t).Save(context.Background(), nil), journey.ErrNilSession)
}
