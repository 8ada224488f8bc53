package interview

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateQuestions_FillsPlaceholdersByIndex(t *testing.T) {
	qs := GenerateQuestions(GenerateRequest{Category: CategoryTechnical, Difficulty: "easy"})
	require.Len(t, qs, 2)
	require.Equal(t, "Explain the difference between Array and Linked List. Provide examples of when to use each.", qs[0].Question)
	require.Equal(t, "What is Merge Sort and what is its time complexity? Explain with an example.", qs[1].Question)
	require.Equal(t, "technical_standard_easy_1", qs[0].ID)
	require.Equal(t, 300, qs[0].TimeLimit)
	require.Equal(t, PlatformGeneral, qs[0].PlatformFocus)
	require.NotNil(t, qs[0].Hints)

	qs = GenerateQuestions(GenerateRequest{Category: CategoryTechnical, Difficulty: "medium"})
	require.Equal(t, "Design a LRU Cache that supports get, put in O(1) time. Explain your approach.", qs[0].Question)
	for _, q := range qs {
		require.NotContains(t, q.Question, "{")
	}
}

func TestGenerateQuestions_CountAndPlatform(t *testing.T) {
	qs := GenerateQuestions(GenerateRequest{
		Category:      CategorySystemDesign,
		Difficulty:    "hard",
		Count:         2,
		PlatformFocus: "netflix",
	})
	require.Len(t, qs, 2)
	require.True(t, strings.HasSuffix(qs[0].Question, " (Consider streaming scale and content delivery)"))
	require.Equal(t, 2400, qs[0].TimeLimit)
	require.Equal(t, []string{
		"System architecture", "Scalability considerations", "Database design", "API design", "Trade-offs discussion",
		"Advanced optimizations", "Edge cases handling", "Scalability considerations",
		"Content delivery", "Streaming optimization", "Global scale",
	}, qs[0].ExpectedPoints)
}

func TestGenerateQuestions_CodingCarriesTestCases(t *testing.T) {
	qs := GenerateQuestions(GenerateRequest{Category: CategoryTechnical, Difficulty: "easy", InterviewType: TypeCoding})
	require.Len(t, qs, 2)
	require.Len(t, qs[0].TestCases, 3)
	require.Contains(t, qs[0].CodeTemplate, "function reverseString(s)")
	require.Equal(t, []string{"Try using two pointers approach", "Consider the time and space complexity"}, qs[0].Hints)
	require.Equal(t, 900, qs[0].TimeLimit)
	require.Equal(t, []string{"Working solution", "Optimal approach", "Edge cases handling", "Code quality"}, qs[0].ExpectedPoints)
}

func TestGenerateQuestions_FallsBackToTechnicalEasy(t *testing.T) {
	qs := GenerateQuestions(GenerateRequest{Category: "frontend", Difficulty: "medium"})
	require.Len(t, qs, 2)
	require.Contains(t, qs[0].Question, "Array and Linked List")
	require.Equal(t, "frontend_standard_medium_1", qs[0].ID)
	require.Equal(t, 1200, qs[0].TimeLimit)
}

func TestTimeLimit(t *testing.T) {
	tests := []struct {
		category, difficulty, interviewType string
		want                                int
	}{
		{CategoryTechnical, "medium", TypeStandard, 450},
		{CategoryTechnical, "hard", TypeCoding, 1800},
		{CategoryTechnical, "hard", "whiteboard", 600},
		{CategoryBehavioral, "easy", TypeStandard, 180},
		{"database", "medium", TypeStandard, 900},
		{"unknown", "easy", TypeStandard, DefaultTimeLimit},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, TimeLimit(tt.category, tt.difficulty, tt.interviewType), "%+v", tt)
	}
}
