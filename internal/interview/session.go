package interview

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/comigor/prepbuddy/internal/store"
)

var (
	ErrInvalidAction = errors.New("invalid action")
	ErrFinished      = errors.New("interview already finished")
)

type Response struct {
	QuestionID     string `json:"questionId"`
	Response       string `json:"response"`
	TimeSpent      int    `json:"timeSpent"`
	Score          int    `json:"score"`
	Feedback       string `json:"feedback"`
	CodeSubmission string `json:"codeSubmission,omitempty"`
}

type CodeSubmission struct {
	QuestionID string    `json:"questionId"`
	Code       string    `json:"code"`
	Timestamp  time.Time `json:"timestamp"`
}

type Metrics struct {
	TotalHintsUsed       int     `json:"totalHintsUsed"`
	AverageResponseTime  float64 `json:"averageResponseTime"`
	CodeSubmissionsCount int     `json:"codeSubmissionsCount"`
}

// Session walks a candidate through a question set in order.
type Session struct {
	ID              string           `json:"id"`
	UserID          string           `json:"user_id"`
	Category        string           `json:"category"`
	Difficulty      string           `json:"difficulty"`
	InterviewType   string           `json:"interview_type"`
	PlatformFocus   string           `json:"platform_focus"`
	Questions       []Question       `json:"questions"`
	Index           int              `json:"current_question_index"`
	Responses       []Response       `json:"responses"`
	OverallScore    float64          `json:"overall_score"`
	StartedAt       time.Time        `json:"started_at"`
	CompletedAt     *time.Time       `json:"completed_at,omitempty"`
	HintsUsed       int              `json:"hints_used"`
	CodeSubmissions []CodeSubmission `json:"code_submissions"`
	Metrics         Metrics          `json:"performance_metrics"`
}

// NewSession generates the questions for req and starts the clock.
func NewSession(userID string, req GenerateRequest, now time.Time) *Session {
	req = req.withDefaults()
	return &Session{
		ID:              uuid.NewString(),
		UserID:          userID,
		Category:        req.Category,
		Difficulty:      req.Difficulty,
		InterviewType:   req.InterviewType,
		PlatformFocus:   req.PlatformFocus,
		Questions:       GenerateQuestions(req),
		StartedAt:       now,
		Responses:       []Response{},
		CodeSubmissions: []CodeSubmission{},
	}
}

func (s *Session) Done() bool { return s.CompletedAt != nil }

// Current returns the question being answered.
func (s *Session) Current() (Question, bool) {
	if s.Done() || s.Index >= len(s.Questions) {
		return Question{}, false
	}
	return s.Questions[s.Index], true
}

// Hint returns the next hint and counts it.
func (s *Session) Hint() string {
	h := Hint(s.Category, s.HintsUsed)
	s.HintsUsed++
	return h
}

// Answer scores the response to the current question and advances. After the
// last question the session is completed and its metrics computed.
func (s *Session) Answer(response, code string, timeSpent time.Duration, now time.Time) (Analysis, error) {
	q, ok := s.Current()
	if !ok {
		return Analysis{}, ErrFinished
	}
	a := Analyze(AnalyzeRequest{
		Question:       q.Question,
		Response:       response,
		ExpectedPoints: q.ExpectedPoints,
		Category:       s.Category,
		InterviewType:  s.InterviewType,
		CodeSubmission: code,
	})
	s.Responses = append(s.Responses, Response{
		QuestionID:     q.ID,
		Response:       response,
		TimeSpent:      int(timeSpent.Seconds()),
		Score:          a.Score,
		Feedback:       a.Feedback,
		CodeSubmission: code,
	})
	if code != "" {
		s.CodeSubmissions = append(s.CodeSubmissions, CodeSubmission{QuestionID: q.ID, Code: code, Timestamp: now})
	}

	s.Index++
	if s.Index >= len(s.Questions) {
		s.complete(now)
	}
	return a, nil
}

func (s *Session) complete(now time.Time) {
	s.CompletedAt = &now
	if len(s.Responses) == 0 {
		return
	}
	var score, spent float64
	for _, r := range s.Responses {
		score += float64(r.Score)
		spent += float64(r.TimeSpent)
	}
	n := float64(len(s.Responses))
	s.OverallScore = score / n
	s.Metrics = Metrics{
		TotalHintsUsed:       s.HintsUsed,
		AverageResponseTime:  spent / n,
		CodeSubmissionsCount: len(s.CodeSubmissions),
	}
}

// Summary is a completed session as listed in the history.
type Summary struct {
	ID            string    `json:"id"`
	Category      string    `json:"category"`
	Difficulty    string    `json:"difficulty"`
	InterviewType string    `json:"interview_type"`
	PlatformFocus string    `json:"platform_focus"`
	OverallScore  float64   `json:"overall_score"`
	StartedAt     time.Time `json:"started_at"`
	CompletedAt   time.Time `json:"completed_at"`
	HintsUsed     int       `json:"hints_used"`
}

// HistoryLimit is how many past sessions PastSessions returns.
const HistoryLimit = 10

// Repo persists sessions in interview_sessions. Nested data is stored as JSON.
type Repo struct {
	db *store.DB
}

func NewRepo(db *store.DB) *Repo {
	return &Repo{db: db}
}

func (r *Repo) Save(ctx context.Context, s *Session) error {
	enc := func(v any) (string, error) {
		b, err := json.Marshal(v)
		return string(b), err
	}
	questions, err := enc(s.Questions)
	if err != nil {
		return fmt.Errorf("encode questions: %w", err)
	}
	responses, err := enc(s.Responses)
	if err != nil {
		return fmt.Errorf("encode responses: %w", err)
	}
	code, err := enc(s.CodeSubmissions)
	if err != nil {
		return fmt.Errorf("encode code submissions: %w", err)
	}
	metrics, err := enc(s.Metrics)
	if err != nil {
		return fmt.Errorf("encode metrics: %w", err)
	}
	var completed any
	if s.CompletedAt != nil {
		completed = *s.CompletedAt
	}
	_, err = r.db.Exec(ctx, `INSERT INTO interview_sessions (id, user_id, category, difficulty, interview_type, platform_focus,
		questions, responses, overall_score, started_at, completed_at, hints_used, code_submissions, performance_metrics)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.UserID, s.Category, s.Difficulty, s.InterviewType, s.PlatformFocus,
		questions, responses, s.OverallScore, s.StartedAt, completed, s.HintsUsed, code, metrics)
	if err != nil {
		return fmt.Errorf("save interview session: %w", err)
	}
	return nil
}

// PastSessions lists the latest completed sessions, newest first.
func (r *Repo) PastSessions(ctx context.Context, userID string) ([]Summary, error) {
	rows, err := r.db.Query(ctx, `SELECT id, category, difficulty, interview_type, platform_focus, overall_score, started_at, completed_at, hints_used
		FROM interview_sessions WHERE user_id = ? AND completed_at IS NOT NULL ORDER BY started_at DESC LIMIT ?`, userID, HistoryLimit)
	if err != nil {
		return nil, fmt.Errorf("list interview sessions: %w", err)
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		var (
			s         Summary
			completed sql.NullTime
		)
		if err := rows.Scan(&s.ID, &s.Category, &s.Difficulty, &s.InterviewType, &s.PlatformFocus, &s.OverallScore, &s.StartedAt, &completed, &s.HintsUsed); err != nil {
			return nil, fmt.Errorf("list interview sessions: %w", err)
		}
		s.CompletedAt = completed.Time
		out = append(out, s)
	}
	return out, rows.Err()
}
