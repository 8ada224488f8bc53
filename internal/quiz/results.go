package quiz

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/google/uuid"

	"github.com/comigor/prepbuddy/internal/store"
)

// Stats aggregates a user's quiz history.
type Stats struct {
	TotalQuizzes        int      `json:"total_quizzes"`
	TotalScore          int      `json:"total_score"`
	AverageScore        int      `json:"average_score"`
	BestStreak          int      `json:"best_streak"`
	CategoriesCompleted []string `json:"categories_completed"`
}

// ComputeStats folds results into Stats. Categories keep first-seen order.
func ComputeStats(results []Result) Stats {
	var st Stats
	seen := map[string]bool{}
	for _, r := range results {
		st.TotalQuizzes++
		st.TotalScore += r.Score
		if r.Streak > st.BestStreak {
			st.BestStreak = r.Streak
		}
		if !seen[r.Category] {
			seen[r.Category] = true
			st.CategoriesCompleted = append(st.CategoriesCompleted, r.Category)
		}
	}
	if st.TotalQuizzes > 0 {
		st.AverageScore = int(math.Round(float64(st.TotalScore) / float64(st.TotalQuizzes)))
	}
	return st
}

// Repo persists results in quiz_results.
type Repo struct {
	db *store.DB
}

func NewRepo(db *store.DB) *Repo {
	return &Repo{db: db}
}

func (r *Repo) Save(ctx context.Context, userID string, res Result) error {
	_, err := r.db.Exec(ctx, `INSERT INTO quiz_results (id, user_id, category, difficulty, score, total_questions, correct_answers, time_spent, streak, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		uuid.NewString(), userID, res.Category, string(res.Difficulty), res.Score, res.TotalQuestions,
		res.CorrectAnswers, res.TimeSpent, res.Streak, res.CreatedAt)
	if err != nil {
		return fmt.Errorf("save quiz result: %w", err)
	}
	return nil
}

// Results lists a user's results, oldest first.
func (r *Repo) Results(ctx context.Context, userID string) ([]Result, error) {
	rows, err := r.db.Query(ctx, `SELECT category, difficulty, score, total_questions, correct_answers, time_spent, streak, created_at
		FROM quiz_results WHERE user_id = ?`, userID)
	if err != nil {
		return nil, fmt.Errorf("list quiz results: %w", err)
	}
	defer rows.Close()

	var out []Result
	for rows.Next() {
		var (
			res  Result
			diff string
		)
		if err := rows.Scan(&res.Category, &diff, &res.Score, &res.TotalQuestions, &res.CorrectAnswers, &res.TimeSpent, &res.Streak, &res.CreatedAt); err != nil {
			return nil, fmt.Errorf("list quiz results: %w", err)
		}
		res.Difficulty = Difficulty(diff)
		out = append(out, res)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *Repo) Stats(ctx context.Context, userID string) (Stats, error) {
	results, err := r.Results(ctx, userID)
	if err != nil {
		return Stats{}, err
	}
	return ComputeStats(results), nil
}
