package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/comigor/prepbuddy/internal/config"
)

// openTest opens a fresh SQLite database in a temp dir.
func openTest(t *testing.T) *DB {
	t.Helper()
	db, err := Open(context.Background(), config.DatabaseConfig{
		Driver: DriverSQLite,
		DSN:    filepath.Join(t.TempDir(), "test.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestRebind(t *testing.T) {
	q := `SELECT * FROM tasks WHERE user_id = ? AND title <> '?' AND day = ?`
	require.Equal(t, q, Rebind(DriverSQLite, q))
	require.Equal(t,
		`SELECT * FROM tasks WHERE user_id = $1 AND title <> '?' AND day = $2`,
		Rebind(DriverPostgres, q))
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), config.DatabaseConfig{Driver: "oracle"})
	require.Error(t, err)
}

func TestOpen_MigratesAndRoundTrips(t *testing.T) {
	db := openTest(t)
	ctx := context.Background()
	require.Equal(t, DriverSQLite, db.Driver())

	now := time.Now().UTC().Truncate(time.Second)
	_, err := db.Exec(ctx, `INSERT INTO progress (user_id, current_day, streak, last_completed) VALUES (?, ?, ?, ?)`, "u1", 3, 2, now)
	require.NoError(t, err)

	var day, streak int
	var last time.Time
	require.NoError(t, db.QueryRow(ctx, `SELECT current_day, streak, last_completed FROM progress WHERE user_id = ?`, "u1").Scan(&day, &streak, &last))
	require.Equal(t, 3, day)
	require.Equal(t, 2, streak)
	require.True(t, now.Equal(last.UTC()), "got %v want %v", last, now)
}

func TestWithTx_RollsBack(t *testing.T) {
	db := openTest(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := db.WithTx(ctx, func(tx *Tx) error {
		if _, err := tx.Exec(ctx, `INSERT INTO users (id, email, created_at) VALUES (?, ?, ?)`, "u1", "a@b.c", time.Now()); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	var n int
	require.NoError(t, db.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&n))
	require.Equal(t, 0, n)
}
