package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/comigor/prepbuddy/internal/cli"
	"github.com/comigor/prepbuddy/internal/logger"
	"github.com/comigor/prepbuddy/internal/quiz"
	"github.com/comigor/prepbuddy/internal/store"
)

func newQuizCmd() *cobra.Command {
	var opts struct {
		UserID     string
		Category   string
		Difficulty string
		Stats      bool
	}
	cmd := &cobra.Command{
		Use:   "quiz",
		Short: "Take a timed multiple-choice quiz",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, closeLog, err := bootstrap(os.Stderr)
			if err != nil {
				return err
			}
			defer closeLog()
			if opts.UserID == "" {
				opts.UserID = cfg.Client.UserID
			}

			var repo *quiz.Repo
			if opts.UserID != "" {
				db, err := store.Open(ctx, cfg.Database)
				if err != nil {
					return err
				}
				defer db.Close()
				repo = quiz.NewRepo(db)
			}

			if opts.Stats {
				if repo == nil {
					return fmt.Errorf("--stats needs a user id")
				}
				stats, err := repo.Stats(ctx, opts.UserID)
				if err != nil {
					return err
				}
				printStats(stats)
				return nil
			}

			category, difficulty, err := pickQuiz(opts.Category, opts.Difficulty)
			if err != nil {
				return err
			}

			result, err := runQuiz(cfg.Quiz.QuestionTime, category, difficulty)
			if err != nil {
				return err
			}
			if repo == nil {
				cli.Info("no user id set, result not saved\n")
				return nil
			}
			if err := repo.Save(ctx, opts.UserID, result); err != nil {
				return fmt.Errorf("failed to save quiz result: %w", err)
			}
			logger.L.Info("quiz result saved", "user", opts.UserID, "category", category, "score", result.Score)
			return nil
		},
	}
	cmd.Flags().StringVarP(&opts.UserID, "user", "u", "", "user id to save results under (overrides client.user_id)")
	cmd.Flags().StringVar(&opts.Category, "category", "", "quiz category id")
	cmd.Flags().StringVar(&opts.Difficulty, "difficulty", "", "easy, medium or hard")
	cmd.Flags().BoolVar(&opts.Stats, "stats", false, "print saved quiz statistics and exit")
	return cmd
}

func pickQuiz(category, difficulty string) (string, quiz.Difficulty, error) {
	if category == "" {
		names := make([]string, len(quiz.Categories))
		for i, c := range quiz.Categories {
			names[i] = fmt.Sprintf("%s (%s)", c.Name, c.Description)
		}
		idx, err := cli.Choose("Category", names)
		if err != nil {
			return "", "", err
		}
		category = quiz.Categories[idx].ID
	}
	if difficulty == "" {
		levels := []quiz.Difficulty{quiz.Easy, quiz.Medium, quiz.Hard}
		names := make([]string, len(levels))
		for i, d := range levels {
			names[i] = fmt.Sprintf("%s (%d points)", d, d.Points())
		}
		idx, err := cli.Choose("Difficulty", names)
		if err != nil {
			return "", "", err
		}
		return category, levels[idx], nil
	}
	d, err := quiz.ParseDifficulty(difficulty)
	return category, d, err
}

func runQuiz(questionTime time.Duration, category string, difficulty quiz.Difficulty) (quiz.Result, error) {
	expired := make(chan quiz.Feedback, 1)
	engine := quiz.NewEngine(questionTime, quiz.WithOnExpire(func(fb quiz.Feedback) {
		expired <- fb
	}))
	questions := engine.Start(category, difficulty)

	for {
		q, idx, err := engine.Current()
		if err != nil {
			return quiz.Result{}, err
		}
		cli.Title("Question %d of %d", idx+1, len(questions))
		cli.Info("%d points, %s on the clock, streak %d\n", q.Points, engine.Remaining().Round(time.Second), engine.Streak())

		choice, err := cli.Choose(q.Question, q.Options)
		if err != nil {
			_, _ = engine.Finish()
			return quiz.Result{}, err
		}
		_ = engine.Select(choice)
		fb, ok, err := engine.Submit()
		if err != nil {
			return quiz.Result{}, err
		}
		if !ok {
			fb = <-expired
		}
		printFeedback(fb)

		more, err := engine.Next()
		if err != nil {
			return quiz.Result{}, err
		}
		if !more {
			break
		}
	}

	result, err := engine.Finish()
	if err != nil {
		return quiz.Result{}, err
	}
	cli.Title("Quiz complete")
	cli.Success("Score %d, %d of %d correct in %ds, streak %d\n",
		result.Score, result.CorrectAnswers, result.TotalQuestions, result.TimeSpent, result.Streak)
	return result, nil
}

func printFeedback(fb quiz.Feedback) {
	switch {
	case fb.TimedOut && fb.Answer == quiz.NoAnswer:
		cli.Error("Time's up! ")
	case fb.TimedOut:
		cli.Info("Time's up, your selection was submitted. ")
	}
	if fb.Correct {
		cli.Success("Correct! +%d points\n", fb.Question.Points)
	} else {
		cli.Error("Incorrect. The answer is %q.\n", fb.Question.Options[fb.Question.CorrectAnswer])
	}
	cli.Info("%s\n", fb.Question.Explanation)
}

func printStats(s quiz.Stats) {
	cli.Title("Quiz statistics")
	cli.Info("Quizzes taken:  %d\n", s.TotalQuizzes)
	cli.Info("Total score:    %d\n", s.TotalScore)
	cli.Info("Average score:  %d\n", s.AverageScore)
	cli.Info("Best streak:    %d\n", s.BestStreak)
	cli.Info("Categories:     %v\n", s.CategoriesCompleted)
}
