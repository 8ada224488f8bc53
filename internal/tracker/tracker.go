package tracker

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/comigor/prepbuddy/internal/account"
	"github.com/comigor/prepbuddy/internal/logger"
	"github.com/comigor/prepbuddy/internal/notify"
	"github.com/comigor/prepbuddy/internal/store"
)

// Service owns the tracker tables. Every mutation that touches the streak
// reads the progress row and writes it back inside one transaction.
type Service struct {
	db       *store.DB
	notifier notify.Notifier
	now      func() time.Time
}

type Option func(*Service)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func New(db *store.DB, n notify.Notifier, opts ...Option) *Service {
	if n == nil {
		n = notify.Nop{}
	}
	s := &Service{db: db, notifier: n, now: func() time.Time { return time.Now().UTC() }}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Load prepares a user on first use and returns the full snapshot.
func (s *Service) Load(ctx context.Context, userID, email string) (Snapshot, error) {
	err := s.db.WithTx(ctx, func(tx *store.Tx) error {
		now := s.now()
		if err := account.EnsureUser(ctx, tx, userID, email, now); err != nil {
			return err
		}
		var n int
		if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM categories WHERE user_id = ?`, userID).Scan(&n); err != nil {
			return fmt.Errorf("count categories: %w", err)
		}
		if n == 0 {
			for i, c := range DefaultCategories {
				// keep the default order stable when sorting by created_at
				at := now.Add(time.Duration(i) * time.Microsecond)
				if _, err := tx.Exec(ctx, `INSERT INTO categories (id, user_id, name, color, created_at) VALUES (?, ?, ?, ?, ?)`,
					uuid.NewString(), userID, c.Name, c.Color, at); err != nil {
					return fmt.Errorf("create default categories: %w", err)
				}
			}
		}
		if _, err := tx.Exec(ctx, `INSERT INTO progress (user_id, current_day, streak, last_completed) VALUES (?, 1, 0, ?)
			ON CONFLICT (user_id) DO NOTHING`, userID, now); err != nil {
			return fmt.Errorf("create progress: %w", err)
		}
		return account.EnsureSettings(ctx, tx, userID)
	})
	if err != nil {
		return Snapshot{}, err
	}
	return s.Snapshot(ctx, userID)
}

// Snapshot reads everything the dashboard shows.
func (s *Service) Snapshot(ctx context.Context, userID string) (Snapshot, error) {
	tasks, err := s.Tasks(ctx, userID)
	if err != nil {
		return Snapshot{}, err
	}
	cats, err := s.Categories(ctx, userID)
	if err != nil {
		return Snapshot{}, err
	}
	p, err := readProgress(ctx, s.db, userID)
	if err != nil {
		return Snapshot{}, err
	}
	set, err := account.LoadSettings(ctx, s.db, userID)
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{
		Tasks:          tasks,
		Categories:     cats,
		CurrentDay:     p.CurrentDay,
		Streak:         p.Streak,
		CompletionRate: CompletionRate(tasks),
		Settings:       set,
	}, nil
}

type querier interface {
	Exec(ctx context.Context, query string, args ...any) (sql.Result, error)
	Query(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRow(ctx context.Context, query string, args ...any) *sql.Row
}

func readProgress(ctx context.Context, q querier, userID string) (Progress, error) {
	var (
		p    Progress
		last sql.NullTime
	)
	err := q.QueryRow(ctx, `SELECT current_day, streak, last_completed FROM progress WHERE user_id = ?`, userID).
		Scan(&p.CurrentDay, &p.Streak, &last)
	if errors.Is(err, sql.ErrNoRows) {
		return Progress{CurrentDay: 1}, nil
	}
	if err != nil {
		return Progress{}, fmt.Errorf("read progress: %w", err)
	}
	if last.Valid {
		t := last.Time
		p.LastCompleted = &t
	}
	return p, nil
}

func writeProgress(ctx context.Context, q querier, userID string, p Progress) error {
	var last any
	if p.LastCompleted != nil {
		last = *p.LastCompleted
	}
	_, err := q.Exec(ctx, `INSERT INTO progress (user_id, current_day, streak, last_completed) VALUES (?, ?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET current_day = excluded.current_day, streak = excluded.streak, last_completed = excluded.last_completed`,
		userID, p.CurrentDay, p.Streak, last)
	if err != nil {
		return fmt.Errorf("write progress: %w", err)
	}
	return nil
}

// bumpStreak increments the streak of the persisted row.
func (s *Service) bumpStreak(ctx context.Context, tx *store.Tx, userID string) error {
	p, err := readProgress(ctx, tx, userID)
	if err != nil {
		return err
	}
	now := s.now()
	p.Streak++
	p.LastCompleted = &now
	return writeProgress(ctx, tx, userID, p)
}

// Progress returns the current day and streak.
func (s *Service) Progress(ctx context.Context, userID string) (Progress, error) {
	return readProgress(ctx, s.db, userID)
}

const taskColumns = `id, user_id, title, description, category, day, completed, created_at`

func scanTasks(rows *sql.Rows) ([]Task, error) {
	defer rows.Close()
	var out []Task
	for rows.Next() {
		var t Task
		if err := rows.Scan(&t.ID, &t.UserID, &t.Title, &t.Description, &t.Category, &t.Day, &t.Completed, &t.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// Tasks lists all tasks of a user, newest first.
func (s *Service) Tasks(ctx context.Context, userID string) ([]Task, error) {
	return listTasks(ctx, s.db, `WHERE user_id = ? ORDER BY created_at DESC`, userID)
}

// TasksByDay lists the tasks planned for day.
func (s *Service) TasksByDay(ctx context.Context, userID string, day int) ([]Task, error) {
	return listTasks(ctx, s.db, `WHERE user_id = ? AND day = ? ORDER BY created_at DESC`, userID, day)
}

func listTasks(ctx context.Context, q querier, where string, args ...any) ([]Task, error) {
	rows, err := q.Query(ctx, `SELECT `+taskColumns+` FROM tasks `+where, args...)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	tasks, err := scanTasks(rows)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

func getTask(ctx context.Context, q querier, userID, id string) (Task, error) {
	tasks, err := listTasks(ctx, q, `WHERE user_id = ? AND id = ?`, userID, id)
	if err != nil {
		return Task{}, err
	}
	if len(tasks) == 0 {
		return Task{}, fmt.Errorf("task %s: %w", id, ErrNotFound)
	}
	return tasks[0], nil
}

// AddTask stores a new task. A task created already completed counts towards
// the streak.
func (s *Service) AddTask(ctx context.Context, userID string, in NewTask) (Task, error) {
	if in.Title == "" {
		return Task{}, fmt.Errorf("%w: title is required", ErrInvalid)
	}
	t := Task{
		ID:          uuid.NewString(),
		UserID:      userID,
		Title:       in.Title,
		Description: in.Description,
		Category:    in.Category,
		Day:         in.Day,
		Completed:   in.Completed,
		CreatedAt:   s.now(),
	}
	err := s.db.WithTx(ctx, func(tx *store.Tx) error {
		if t.Day <= 0 {
			p, err := readProgress(ctx, tx, userID)
			if err != nil {
				return err
			}
			t.Day = p.CurrentDay
		}
		if _, err := tx.Exec(ctx, `INSERT INTO tasks (`+taskColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			t.ID, t.UserID, t.Title, t.Description, t.Category, t.Day, t.Completed, t.CreatedAt); err != nil {
			return fmt.Errorf("insert task: %w", err)
		}
		if t.Completed {
			return s.bumpStreak(ctx, tx, userID)
		}
		return nil
	})
	if err != nil {
		return Task{}, err
	}
	return t, nil
}

// UpdateTask applies the non-nil fields of u.
func (s *Service) UpdateTask(ctx context.Context, userID, id string, u TaskUpdate) (Task, error) {
	var t Task
	err := s.db.WithTx(ctx, func(tx *store.Tx) error {
		var err error
		if t, err = getTask(ctx, tx, userID, id); err != nil {
			return err
		}
		if u.Title != nil {
			t.Title = *u.Title
		}
		if u.Description != nil {
			t.Description = *u.Description
		}
		if u.Category != nil {
			t.Category = *u.Category
		}
		if u.Day != nil {
			t.Day = *u.Day
		}
		_, err = tx.Exec(ctx, `UPDATE tasks SET title = ?, description = ?, category = ?, day = ? WHERE user_id = ? AND id = ?`,
			t.Title, t.Description, t.Category, t.Day, userID, id)
		if err != nil {
			return fmt.Errorf("update task: %w", err)
		}
		return nil
	})
	return t, err
}

func (s *Service) DeleteTask(ctx context.Context, userID, id string) error {
	res, err := s.db.Exec(ctx, `DELETE FROM tasks WHERE user_id = ? AND id = ?`, userID, id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return requireAffected(res, "task", id)
}

// ToggleComplete flips a task. Completing the last open task of the current
// day increments the streak.
func (s *Service) ToggleComplete(ctx context.Context, userID, id string) (Task, error) {
	var t Task
	err := s.db.WithTx(ctx, func(tx *store.Tx) error {
		var err error
		if t, err = getTask(ctx, tx, userID, id); err != nil {
			return err
		}
		t.Completed = !t.Completed
		if _, err := tx.Exec(ctx, `UPDATE tasks SET completed = ? WHERE user_id = ? AND id = ?`, t.Completed, userID, id); err != nil {
			return fmt.Errorf("toggle task: %w", err)
		}
		if !t.Completed {
			return nil
		}
		p, err := readProgress(ctx, tx, userID)
		if err != nil {
			return err
		}
		if t.Day != p.CurrentDay {
			return nil
		}
		today, err := listTasks(ctx, tx, `WHERE user_id = ? AND day = ?`, userID, p.CurrentDay)
		if err != nil {
			return err
		}
		if allCompleted(today) {
			return s.bumpStreak(ctx, tx, userID)
		}
		return nil
	})
	return t, err
}

func (s *Service) Categories(ctx context.Context, userID string) ([]Category, error) {
	rows, err := s.db.Query(ctx, `SELECT id, user_id, name, color, created_at FROM categories WHERE user_id = ? ORDER BY created_at`, userID)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()
	var out []Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &c.Color, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("list categories: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Service) AddCategory(ctx context.Context, userID, name, color string) (Category, error) {
	if name == "" {
		return Category{}, fmt.Errorf("%w: name is required", ErrInvalid)
	}
	c := Category{ID: uuid.NewString(), UserID: userID, Name: name, Color: color, CreatedAt: s.now()}
	if _, err := s.db.Exec(ctx, `INSERT INTO categories (id, user_id, name, color, created_at) VALUES (?, ?, ?, ?, ?)`,
		c.ID, c.UserID, c.Name, c.Color, c.CreatedAt); err != nil {
		return Category{}, fmt.Errorf("insert category: %w", err)
	}
	return c, nil
}

func (s *Service) UpdateCategory(ctx context.Context, userID, id, name, color string) error {
	res, err := s.db.Exec(ctx, `UPDATE categories SET name = ?, color = ? WHERE user_id = ? AND id = ?`, name, color, userID, id)
	if err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	return requireAffected(res, "category", id)
}

func (s *Service) DeleteCategory(ctx context.Context, userID, id string) error {
	res, err := s.db.Exec(ctx, `DELETE FROM categories WHERE user_id = ? AND id = ?`, userID, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return requireAffected(res, "category", id)
}

func requireAffected(res sql.Result, kind, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", kind, id, ErrNotFound)
	}
	return nil
}

// AdvanceDay moves the user to the next day. Leaving a day with open tasks
// requires confirm and resets the streak; finishing every task of the day
// extends it.
func (s *Service) AdvanceDay(ctx context.Context, userID string, confirm bool) (Progress, error) {
	var (
		p            Progress
		sendProgress bool
		rate         int
		prevStreak   int
		prevDay      int
	)
	err := s.db.WithTx(ctx, func(tx *store.Tx) error {
		var err error
		if p, err = readProgress(ctx, tx, userID); err != nil {
			return err
		}
		today, err := listTasks(ctx, tx, `WHERE user_id = ? AND day = ?`, userID, p.CurrentDay)
		if err != nil {
			return err
		}
		prevDay, prevStreak = p.CurrentDay, p.Streak
		now := s.now()
		switch {
		case len(today) > 0 && !allCompleted(today):
			if !confirm {
				return ErrConfirmationRequired
			}
			p.Streak = 0
			p.LastCompleted = &now
		case len(today) > 0:
			p.Streak++
			p.LastCompleted = &now
			all, err := listTasks(ctx, tx, `WHERE user_id = ?`, userID)
			if err != nil {
				return err
			}
			rate = CompletionRate(all)
			sendProgress = true
		}
		p.CurrentDay++
		return writeProgress(ctx, tx, userID, p)
	})
	if err != nil {
		return Progress{}, err
	}

	s.notify(ctx, userID, func(email string, set account.Settings) error {
		if sendProgress && set.EmailNotifications {
			if err := s.notifier.ProgressUpdate(ctx, email, prevDay, rate, prevStreak); err != nil {
				return err
			}
		}
		if set.DailyReminders {
			return s.notifier.DailyReminder(ctx, email, p.CurrentDay)
		}
		return nil
	})
	return p, nil
}

// notify looks up the user's address and settings and runs send. Failures
// are logged; the day change has already been committed.
func (s *Service) notify(ctx context.Context, userID string, send func(email string, set account.Settings) error) {
	var email string
	err := s.db.QueryRow(ctx, `SELECT email FROM users WHERE id = ?`, userID).Scan(&email)
	if err != nil || email == "" {
		logger.L.Debug("no e-mail address; skipping notifications", "user", userID)
		return
	}
	set, err := account.LoadSettings(ctx, s.db, userID)
	if err != nil {
		logger.L.Error("failed to read notification settings", "user", userID, "error", err)
		return
	}
	if err := send(email, set); err != nil {
		logger.L.Error("failed to send notification", "user", userID, "error", err)
	}
}

// DecrementDay moves back one day, never below day 1.
func (s *Service) DecrementDay(ctx context.Context, userID string) (Progress, error) {
	var p Progress
	err := s.db.WithTx(ctx, func(tx *store.Tx) error {
		var err error
		if p, err = readProgress(ctx, tx, userID); err != nil {
			return err
		}
		if p.CurrentDay <= 1 {
			return nil
		}
		p.CurrentDay--
		return writeProgress(ctx, tx, userID, p)
	})
	return p, err
}

func (s *Service) SetCurrentDay(ctx context.Context, userID string, day int) (Progress, error) {
	if day < 1 {
		return Progress{}, fmt.Errorf("%w: day must be at least 1", ErrInvalid)
	}
	var p Progress
	err := s.db.WithTx(ctx, func(tx *store.Tx) error {
		var err error
		if p, err = readProgress(ctx, tx, userID); err != nil {
			return err
		}
		p.CurrentDay = day
		return writeProgress(ctx, tx, userID, p)
	})
	return p, err
}

// ResetProgress deletes every task and starts over at day 1.
func (s *Service) ResetProgress(ctx context.Context, userID string) error {
	return s.db.WithTx(ctx, func(tx *store.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM tasks WHERE user_id = ?`, userID); err != nil {
			return fmt.Errorf("delete tasks: %w", err)
		}
		now := s.now()
		return writeProgress(ctx, tx, userID, Progress{CurrentDay: 1, LastCompleted: &now})
	})
}

func (s *Service) Settings(ctx context.Context, userID string) (account.Settings, error) {
	return account.LoadSettings(ctx, s.db, userID)
}

// Calendar returns the month grid of a user's tasks.
func (s *Service) Calendar(ctx context.Context, userID string, year int, month time.Month) ([]CalendarDay, error) {
	tasks, err := s.Tasks(ctx, userID)
	if err != nil {
		return nil, err
	}
	return Calendar(year, month, tasks), nil
}
