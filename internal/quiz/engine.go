package quiz

import (
	"errors"
	"math"
	"sync"
	"time"
)

var (
	// ErrNotRunning is returned when no quiz is in progress.
	ErrNotRunning  = errors.New("quiz not running")
	ErrNotAnswered = errors.New("current question not answered")
	ErrBadOption   = errors.New("option out of range")
)

// DefaultQuestionTime is the per-question time limit.
const DefaultQuestionTime = 30 * time.Second

// NoAnswer marks a question left unanswered when its timer ran out.
const NoAnswer = -1

// Feedback describes a submitted answer.
type Feedback struct {
	Question Question `json:"question"`
	Answer   int      `json:"answer"`
	Correct  bool     `json:"correct"`
	TimedOut bool     `json:"timed_out"`
	Streak   int      `json:"streak"`
}

// Result is the outcome of a finished quiz.
type Result struct {
	Category       string     `json:"category"`
	Difficulty     Difficulty `json:"difficulty"`
	Score          int        `json:"score"`
	TotalQuestions int        `json:"total_questions"`
	CorrectAnswers int        `json:"correct_answers"`
	TimeSpent      int        `json:"time_spent"`
	Streak         int        `json:"streak"`
	CreatedAt      time.Time  `json:"created_at"`
}

// Engine runs one quiz at a time. Each question has a timer; when it fires
// the pending selection, or NoAnswer, is submitted.
type Engine struct {
	mu sync.Mutex

	questionTime time.Duration
	now          func() time.Time
	onExpire     func(Feedback)

	running    bool
	category   string
	difficulty Difficulty
	questions  []Question
	index      int
	selected   int
	answered   bool
	answers    []int
	streak     int
	startedAt  time.Time
	deadline   time.Time
	timer      *time.Timer
	gen        int
}

type Option func(*Engine)

func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithOnExpire registers a callback run after a timer auto-submits.
func WithOnExpire(fn func(Feedback)) Option {
	return func(e *Engine) { e.onExpire = fn }
}

func NewEngine(questionTime time.Duration, opts ...Option) *Engine {
	if questionTime <= 0 {
		questionTime = DefaultQuestionTime
	}
	e := &Engine{questionTime: questionTime, now: time.Now, selected: NoAnswer}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Start begins a quiz and returns its questions.
func (e *Engine) Start(category string, difficulty Difficulty) []Question {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.stopTimerLocked()
	e.running = true
	e.category = category
	e.difficulty = difficulty
	e.questions = Questions(category, difficulty)
	e.index = 0
	e.answers = nil
	e.streak = 0
	e.startedAt = e.now()
	e.resetQuestionLocked()
	return append([]Question(nil), e.questions...)
}

// Current returns the active question and its index.
func (e *Engine) Current() (Question, int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.running {
		return Question{}, 0, ErrNotRunning
	}
	return e.questions[e.index], e.index, nil
}

// Remaining is the time left on the current question.
func (e *Engine) Remaining() time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.running || e.answered {
		return 0
	}
	if d := e.deadline.Sub(e.now()); d > 0 {
		return d
	}
	return 0
}

func (e *Engine) Streak() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.streak
}

// Select marks an option. It is ignored once the question was answered.
func (e *Engine) Select(option int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.running {
		return ErrNotRunning
	}
	if option < 0 || option >= len(e.questions[e.index].Options) {
		return ErrBadOption
	}
	if !e.answered {
		e.selected = option
	}
	return nil
}

// Submit answers the current question with the selected option. Without a
// selection it is a no-op and reports false.
func (e *Engine) Submit() (Feedback, bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.running {
		return Feedback{}, false, ErrNotRunning
	}
	if e.answered || e.selected == NoAnswer {
		return Feedback{}, false, nil
	}
	return e.submitLocked(false), true, nil
}

// Expire forces the current question's timeout.
func (e *Engine) Expire() (Feedback, bool) {
	e.mu.Lock()
	if !e.running || e.answered {
		e.mu.Unlock()
		return Feedback{}, false
	}
	fb := e.submitLocked(true)
	cb := e.onExpire
	e.mu.Unlock()

	if cb != nil {
		cb(fb)
	}
	return fb, true
}

func (e *Engine) submitLocked(timedOut bool) Feedback {
	e.stopTimerLocked()
	q := e.questions[e.index]
	answer := e.selected
	correct := answer == q.CorrectAnswer
	if correct {
		e.streak++
	} else {
		e.streak = 0
	}
	e.answers = append(e.answers, answer)
	e.answered = true
	return Feedback{Question: q, Answer: answer, Correct: correct, TimedOut: timedOut, Streak: e.streak}
}

// Next moves to the following question. It reports false after the last one.
func (e *Engine) Next() (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.running {
		return false, ErrNotRunning
	}
	if !e.answered {
		return false, ErrNotAnswered
	}
	if e.index >= len(e.questions)-1 {
		return false, nil
	}
	e.index++
	e.resetQuestionLocked()
	return true, nil
}

// Finish ends the quiz and scores the answers given so far.
func (e *Engine) Finish() (Result, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.running {
		return Result{}, ErrNotRunning
	}
	e.stopTimerLocked()
	e.running = false

	now := e.now()
	r := Result{
		Category:       e.category,
		Difficulty:     e.difficulty,
		TotalQuestions: len(e.questions),
		TimeSpent:      int(math.Round(now.Sub(e.startedAt).Seconds())),
		Streak:         e.streak,
		CreatedAt:      now,
	}
	r.Score, r.CorrectAnswers = Score(e.questions, e.answers)
	return r, nil
}

// Score sums the points of correctly answered questions.
func Score(questions []Question, answers []int) (points, correct int) {
	for i, a := range answers {
		if i < len(questions) && a == questions[i].CorrectAnswer {
			points += questions[i].Points
			correct++
		}
	}
	return points, correct
}

func (e *Engine) resetQuestionLocked() {
	e.selected = NoAnswer
	e.answered = false
	e.deadline = e.now().Add(e.questionTime)
	e.gen++
	gen := e.gen
	e.timer = time.AfterFunc(e.questionTime, func() { e.fire(gen) })
}

func (e *Engine) fire(gen int) {
	e.mu.Lock()
	if gen != e.gen || !e.running || e.answered {
		e.mu.Unlock()
		return
	}
	fb := e.submitLocked(true)
	cb := e.onExpire
	e.mu.Unlock()

	if cb != nil {
		cb(fb)
	}
}

func (e *Engine) stopTimerLocked() {
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
	e.gen++
}
