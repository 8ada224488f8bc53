package quiz

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestQuestions_FiltersByDifficulty(t *testing.T) {
	qs := Questions("dsa", Medium)
	require.Len(t, qs, 2)
	for _, q := range qs {
		require.Equal(t, Medium, q.Difficulty)
		require.Equal(t, 20, q.Points)
	}

	qs = Questions("aptitude", Easy)
	require.Len(t, qs, 1)
	require.Equal(t, "apt_2", qs[0].ID)
}

func TestQuestions_SampleWhenEmpty(t *testing.T) {
	tests := []struct {
		category   string
		difficulty Difficulty
		points     int
	}{
		{"dsa", Hard, 30},
		{"system-design", Easy, 10},
		{"programming", Easy, 10},
		{"cs-fundamentals", Medium, 20},
	}
	for _, tt := range tests {
		qs := Questions(tt.category, tt.difficulty)
		require.Len(t, qs, 1)
		require.Equal(t, tt.category+"_sample_1", qs[0].ID)
		require.Equal(t, tt.points, qs[0].Points)
		require.Equal(t, 0, qs[0].CorrectAnswer)
		require.Len(t, qs[0].Options, 4)
	}
}

func TestParseDifficulty(t *testing.T) {
	d, err := ParseDifficulty("hard")
	require.NoError(t, err)
	require.Equal(t, Hard, d)
	_, err = ParseDifficulty("brutal")
	require.Error(t, err)
}
