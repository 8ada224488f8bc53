package quiz

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/comigor/prepbuddy/internal/config"
	"github.com/comigor/prepbuddy/internal/store"
)

func TestComputeStats(t *testing.T) {
	require.Equal(t, Stats{}, ComputeStats(nil))

	st := ComputeStats([]Result{
		{Category: "dsa", Score: 30, Streak: 2},
		{Category: "aptitude", Score: 10, Streak: 1},
		{Category: "dsa", Score: 15, Streak: 3},
	})
	require.Equal(t, 3, st.TotalQuizzes)
	require.Equal(t, 55, st.TotalScore)
	require.Equal(t, 18, st.AverageScore)
	require.Equal(t, 3, st.BestStreak)
	require.Equal(t, []string{"dsa", "aptitude"}, st.CategoriesCompleted)
}

func TestRepo_SaveAndStats(t *testing.T) {
	db, err := store.Open(context.Background(), config.DatabaseConfig{
		Driver: store.DriverSQLite,
		DSN:    filepath.Join(t.TempDir(), "quiz.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := NewRepo(db)
	ctx := context.Background()
	at := time.Date(2025, 2, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Save(ctx, "u1", Result{Category: "dsa", Difficulty: Medium, Score: 40, TotalQuestions: 2, CorrectAnswers: 2, TimeSpent: 31, Streak: 2, CreatedAt: at}))
	require.NoError(t, repo.Save(ctx, "u1", Result{Category: "aptitude", Difficulty: Easy, Score: 0, TotalQuestions: 1, TimeSpent: 30, CreatedAt: at.Add(time.Minute)}))
	require.NoError(t, repo.Save(ctx, "u2", Result{Category: "dsa", Difficulty: Easy, Score: 10, TotalQuestions: 1, CorrectAnswers: 1, CreatedAt: at}))

	results, err := repo.Results(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, results, 2)
	require.Equal(t, Medium, results[0].Difficulty)

	st, err := repo.Stats(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, 2, st.TotalQuizzes)
	require.Equal(t, 40, st.TotalScore)
	require.Equal(t, 20, st.AverageScore)
	require.Equal(t, 2, st.BestStreak)
}
