package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/comigor/prepbuddy/internal/cli"
	"github.com/comigor/prepbuddy/internal/interview"
	"github.com/comigor/prepbuddy/internal/logger"
	"github.com/comigor/prepbuddy/internal/store"
)

const answerHelp = "Type your answer and finish with an empty line. /hint for a hint, /tips for suggestions on what you typed so far.\n"

func newInterviewCmd() *cobra.Command {
	var opts struct {
		UserID string
		Req    interview.GenerateRequest
		Past   bool
	}
	cmd := &cobra.Command{
		Use:   "interview",
		Short: "Run a mock interview scored on keyword coverage",
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

			var repo *interview.Repo
			if opts.UserID != "" {
				db, err := store.Open(ctx, cfg.Database)
				if err != nil {
					return err
				}
				defer db.Close()
				repo = interview.NewRepo(db)
			}

			if opts.Past {
				if repo == nil {
					return fmt.Errorf("--past needs a user id")
				}
				past, err := repo.PastSessions(ctx, opts.UserID)
				if err != nil {
					return err
				}
				printPastSessions(past)
				return nil
			}

			prompt, err := cli.NewPrompt(historyFile("interview"))
			if err != nil {
				return err
			}
			defer prompt.Close()

			s := interview.NewSession(opts.UserID, opts.Req, time.Now())
			if err := runInterview(s, prompt); err != nil {
				return err
			}
			if repo == nil {
				cli.Info("no user id set, session not saved\n")
				return nil
			}
			if err := repo.Save(ctx, s); err != nil {
				return fmt.Errorf("failed to save interview: %w", err)
			}
			logger.L.Info("interview saved", "user", opts.UserID, "session", s.ID, "score", s.OverallScore)
			return nil
		},
	}
	cmd.Flags().StringVarP(&opts.UserID, "user", "u", "", "user id to save the session under (overrides client.user_id)")
	cmd.Flags().StringVar(&opts.Req.Category, "category", interview.CategoryTechnical, "technical, system-design or behavioral")
	cmd.Flags().StringVar(&opts.Req.Difficulty, "difficulty", "easy", "easy, medium or hard")
	cmd.Flags().StringVar(&opts.Req.InterviewType, "type", interview.TypeStandard, "standard or coding")
	cmd.Flags().StringVar(&opts.Req.PlatformFocus, "platform", interview.PlatformGeneral,
		"company focus: general, "+strings.Join(interview.Platforms(), ", "))
	cmd.Flags().IntVarP(&opts.Req.Count, "count", "n", interview.DefaultCount, "number of questions")
	cmd.Flags().BoolVar(&opts.Past, "past", false, "list past sessions and exit")
	return cmd
}

func runInterview(s *interview.Session, prompt *cli.Prompt) error {
	cli.Info(answerHelp)
	for !s.Done() {
		q, ok := s.Current()
		if !ok {
			break
		}
		cli.Title("Question %d of %d", s.Index+1, len(s.Questions))
		cli.User("%s\n", q.Question)
		cli.Info("Suggested time: %s\n", time.Duration(q.TimeLimit)*time.Second)
		for _, tc := range q.TestCases {
			cli.Info("  %s: %s -> %s\n", tc.Description, tc.Input, tc.ExpectedOutput)
		}

		started := time.Now()
		response, err := readAnswer(s, prompt)
		if err != nil {
			return err
		}
		var code string
		if s.InterviewType == interview.TypeCoding {
			if q.CodeTemplate != "" {
				cli.Info("%s\n", q.CodeTemplate)
			}
			cli.Info("Code (empty line to finish):\n")
			if code, err = prompt.Lines(); err != nil {
				return err
			}
		}

		a, err := s.Answer(response, code, time.Since(started), time.Now())
		if err != nil {
			return err
		}
		printAnalysis(a)
	}

	cli.Title("Interview complete")
	cli.Success("Overall score %.0f%%, %d hints used, average response %.0fs\n",
		s.OverallScore, s.Metrics.TotalHintsUsed, s.Metrics.AverageResponseTime)
	return nil
}

// readAnswer collects answer lines, serving /hint and /tips in between.
func readAnswer(s *interview.Session, prompt *cli.Prompt) (string, error) {
	var lines []string
	for {
		line, err := prompt.Line()
		if err != nil {
			return "", err
		}
		switch line {
		case "":
			if len(lines) == 0 {
				continue
			}
			return strings.Join(lines, "\n"), nil
		case "/hint":
			cli.Info("Hint: %s\n", s.Hint())
		case "/tips":
			for _, tip := range interview.Suggestions(strings.Join(lines, "\n"), s.Category, s.InterviewType) {
				cli.Info("- %s\n", tip)
			}
		default:
			lines = append(lines, line)
		}
	}
}

func printAnalysis(a interview.Analysis) {
	cli.Success("Score %d%% (difficulty %d/5)\n", a.Score, a.DifficultyRating)
	cli.Info("%s\n", a.Feedback)
	for _, s := range a.Strengths {
		cli.Success("+ %s\n", s)
	}
	for _, i := range a.Improvements {
		cli.Error("- %s\n", i)
	}
}

func printPastSessions(past []interview.Summary) {
	cli.Title("Past interviews")
	if len(past) == 0 {
		cli.Info("No completed interviews yet.\n")
		return
	}
	for _, p := range past {
		cli.Info("%s  %-13s %-6s %-8s %-9s %5.1f%%  %d hints\n",
			p.StartedAt.Format("2006-01-02 15:04"), p.Category, p.Difficulty, p.InterviewType, p.PlatformFocus, p.OverallScore, p.HintsUsed)
	}
}
