package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/comigor/prepbuddy/internal/config"
	"github.com/comigor/prepbuddy/internal/store"
)

func openDB(t *testing.T) *store.DB {
	t.Helper()
	db, err := store.Open(context.Background(), config.DatabaseConfig{
		Driver: store.DriverSQLite,
		DSN:    filepath.Join(t.TempDir(), "history.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSaveAndList_SQLite(t *testing.T) {
	s := New(openDB(t))
	ctx := context.Background()
	base := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)

	for i, msg := range []string{"first", "second", "third"} {
		require.NoError(t, s.Save(ctx, Record{UserID: "u1", UserMessage: msg, AIResponse: "re: " + msg, CreatedAt: base.Add(time.Duration(i) * time.Minute)}))
	}
	require.NoError(t, s.Save(ctx, Record{UserID: "u2", UserMessage: "other", AIResponse: "x"}))

	all, err := s.List(ctx, "u1", 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.Equal(t, "first", all[0].UserMessage)
	require.NotEmpty(t, all[0].ID)

	latest, err := s.List(ctx, "u1", 2)
	require.NoError(t, err)
	require.Len(t, latest, 2)
	require.Equal(t, "second", latest[0].UserMessage)
	require.Equal(t, "re: third", latest[1].AIResponse)
}

func TestSave_InMemoryFallback(t *testing.T) {
	s := New(nil)
	ctx := context.Background()
	require.NoError(t, s.Save(ctx, Record{UserID: "u1", UserMessage: "hi", AIResponse: "hello"}))

	out, err := s.List(ctx, "u1", 5)
	require.NoError(t, err)
	require.Len(t, out, 1)
	require.False(t, out[0].CreatedAt.IsZero())
}

func TestSave_DBFailureStillKeepsRecord(t *testing.T) {
	db := openDB(t)
	s := New(db)
	db.Close()

	ctx := context.Background()
	err := s.Save(ctx, Record{UserID: "u1", UserMessage: "hi", AIResponse: "hello"})
	require.Error(t, err)

	out, err := s.List(ctx, "u1", 0)
	require.NoError(t, err)
	require.Len(t, out, 1)
}
