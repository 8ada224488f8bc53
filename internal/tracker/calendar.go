package tracker

import "time"

// CalendarCells is the size of a six-week month grid.
const CalendarCells = 42

// CalendarDay is one cell of the month grid.
type CalendarDay struct {
	Date      time.Time `json:"date"`
	InMonth   bool      `json:"in_month"`
	Total     int       `json:"total"`
	Completed int       `json:"completed"`
}

func (d CalendarDay) HasCompleted() bool  { return d.Completed > 0 }
func (d CalendarDay) HasIncomplete() bool { return d.Total > d.Completed }

// Calendar lays out month as 42 cells starting on the Sunday on or before the
// first of the month. Tasks are bucketed by the date they were created.
func Calendar(year int, month time.Month, tasks []Task) []CalendarDay {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	start := first.AddDate(0, 0, -int(first.Weekday()))

	type counts struct{ total, done int }
	byDate := make(map[string]counts, len(tasks))
	for _, t := range tasks {
		key := t.CreatedAt.UTC().Format(time.DateOnly)
		c := byDate[key]
		c.total++
		if t.Completed {
			c.done++
		}
		byDate[key] = c
	}

	cells := make([]CalendarDay, CalendarCells)
	for i := range cells {
		d := start.AddDate(0, 0, i)
		c := byDate[d.Format(time.DateOnly)]
		cells[i] = CalendarDay{
			Date:      d,
			InMonth:   d.Month() == month,
			Total:     c.total,
			Completed: c.done,
		}
	}
	return cells
}
