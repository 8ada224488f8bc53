package tracker

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCalendar_Grid(t *testing.T) {
	// June 2025 starts on a Sunday, so there is no leading padding.
	cells := Calendar(2025, time.June, nil)
	require.Len(t, cells, CalendarCells)
	require.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), cells[0].Date)
	require.True(t, cells[0].InMonth)
	require.False(t, cells[30].InMonth)
	require.Equal(t, time.Date(2025, 7, 12, 0, 0, 0, 0, time.UTC), cells[41].Date)

	// March 2025 starts on a Saturday: six days of February first.
	cells = Calendar(2025, time.March, nil)
	require.Equal(t, time.Date(2025, 2, 23, 0, 0, 0, 0, time.UTC), cells[0].Date)
	require.False(t, cells[5].InMonth)
	require.True(t, cells[6].InMonth)
	require.Equal(t, 1, cells[6].Date.Day())
}

func TestCalendar_CountsByCreatedDate(t *testing.T) {
	at := func(d, h int) time.Time { return time.Date(2025, 6, d, h, 0, 0, 0, time.UTC) }
	tasks := []Task{
		{CreatedAt: at(3, 8), Completed: true},
		{CreatedAt: at(3, 20)},
		{CreatedAt: at(4, 9), Completed: true},
	}
	cells := Calendar(2025, time.June, tasks)

	d3 := cells[2]
	require.Equal(t, 3, d3.Date.Day())
	require.Equal(t, 2, d3.Total)
	require.True(t, d3.HasCompleted())
	require.True(t, d3.HasIncomplete())

	d4 := cells[3]
	require.True(t, d4.HasCompleted())
	require.False(t, d4.HasIncomplete())

	require.False(t, cells[4].HasCompleted())
	require.False(t, cells[4].HasIncomplete())
}
