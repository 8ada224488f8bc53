// Package tracker implements the 100-day preparation tracker: tasks,
// categories, the current day, the completion streak and the month calendar.
package tracker

import (
	"errors"
	"math"
	"time"

	"github.com/comigor/prepbuddy/internal/account"
)

var (
	// ErrConfirmationRequired is returned by AdvanceDay when the current day
	// still has open tasks and the caller did not confirm.
	ErrConfirmationRequired = errors.New("current day has incomplete tasks")
	ErrNotFound             = errors.New("not found")
	ErrInvalid              = errors.New("invalid input")
)

type Task struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Day         int       `json:"day"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewTask is the input of AddTask. Day 0 means the current day.
type NewTask struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Day         int    `json:"day"`
	Completed   bool   `json:"completed"`
}

// TaskUpdate changes the non-nil fields of a task.
type TaskUpdate struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Category    *string `json:"category"`
	Day         *int    `json:"day"`
}

type Category struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	CreatedAt time.Time `json:"created_at"`
}

type Progress struct {
	CurrentDay    int        `json:"current_day"`
	Streak        int        `json:"streak"`
	LastCompleted *time.Time `json:"last_completed,omitempty"`
}

type Snapshot struct {
	Tasks          []Task           `json:"tasks"`
	Categories     []Category       `json:"categories"`
	CurrentDay     int              `json:"current_day"`
	Streak         int              `json:"streak"`
	CompletionRate int              `json:"completion_rate"`
	Settings       account.Settings `json:"settings"`
}

// DefaultCategories are created for a user without any category.
var DefaultCategories = []Category{
	{Name: "DSA", Color: "bg-blue-500"},
	{Name: "Aptitude", Color: "bg-green-500"},
	{Name: "CS Fundamentals", Color: "bg-purple-500"},
	{Name: "Resume", Color: "bg-yellow-500"},
	{Name: "Projects", Color: "bg-pink-500"},
	{Name: "Mock Interviews", Color: "bg-red-500"},
}

// CompletionRate is the rounded percentage of completed tasks, 0 for none.
func CompletionRate(tasks []Task) int {
	if len(tasks) == 0 {
		return 0
	}
	done := 0
	for _, t := range tasks {
		if t.Completed {
			done++
		}
	}
	return int(math.Round(float64(done) / float64(len(tasks)) * 100))
}

func allCompleted(tasks []Task) bool {
	for _, t := range tasks {
		if !t.Completed {
			return false
		}
	}
	return len(tasks) > 0
}
