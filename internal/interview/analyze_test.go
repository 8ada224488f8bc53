package interview

import (
	"testing"

	"github.com/stretchr/testify/require"
)

var technicalStandard = []string{"Clear explanation of concepts", "Correct analysis", "Time/space complexity discussion"}

func TestAnalyze_ShortAnswer(t *testing.T) {
	a := Analyze(AnalyzeRequest{
		Question:       "q",
		Response:       "I would use a hash map.",
		ExpectedPoints: technicalStandard,
		Category:       CategoryTechnical,
	})
	require.Equal(t, 20, a.Score)
	require.Equal(t, 1, a.DifficultyRating)
	require.Empty(t, a.Strengths)
	require.Len(t, a.Improvements, 3)
	require.Equal(t, "Areas for improvement: Provide more detailed explanations and examples, "+
		"Include more specific technical terminology relevant to the topic, "+
		"Address more of the key points mentioned in the question Coverage: 0/3 key points addressed", a.Feedback)
}

func TestAnalyze_DetailedTechnicalAnswerClamps(t *testing.T) {
	a := Analyze(AnalyzeRequest{
		Question: "q",
		Response: "The algorithm runs in logarithmic time because each step halves the range. " +
			"The space cost is constant. This implementation is efficient and we optimize nothing else. " +
			"Performance is predictable for a correct analysis of sorted input.",
		ExpectedPoints: technicalStandard,
		Category:       CategoryTechnical,
	})
	require.Equal(t, 100, a.Score)
	require.Equal(t, 5, a.DifficultyRating)
	require.Contains(t, a.Strengths, "Excellent use of technical terminology and concepts")
	require.Contains(t, a.Feedback, "Coverage: 2/3 key points addressed")
}

func TestAnalyze_Behavioral(t *testing.T) {
	a := Analyze(AnalyzeRequest{
		Question: "q",
		Response: "In that situation my team faced a hard deadline. I took action and split the work. " +
			"The result was a launch on time. I learned to communicate early!",
		ExpectedPoints: []string{"STAR method (Situation, Task, Action, Result)", "Specific examples", "Lessons learned", "Impact demonstration"},
		Category:       CategoryBehavioral,
	})
	// 40 length + 20 keywords + 10 sentences + 1/4 coverage
	require.Equal(t, 74, a.Score)
	require.Equal(t, 4, a.DifficultyRating)
}

func TestAnalyze_CodeChecksOnlyForCoding(t *testing.T) {
	code := "function reverse(s) {\n  // two pointers\n  let out = ''\n  for (const c of s) out = c + out\n  return out\n}"
	req := AnalyzeRequest{
		Question:       "q",
		Response:       "I used a loop and return the result.",
		ExpectedPoints: []string{"Working solution", "Optimal approach", "Edge cases handling", "Code quality"},
		Category:       CategoryTechnical,
		InterviewType:  TypeCoding,
		CodeSubmission: code,
	}
	a := Analyze(req)
	require.Equal(t, 35, a.Score)
	require.Equal(t, 2, a.DifficultyRating)
	require.Contains(t, a.Strengths, "Proper function structure")

	req.InterviewType = TypeStandard
	require.Equal(t, 20, Analyze(req).Score)
}

func TestRating(t *testing.T) {
	require.Equal(t, 1, Rating(0))
	require.Equal(t, 1, Rating(29))
	require.Equal(t, 2, Rating(30))
	require.Equal(t, 5, Rating(100))
}

func TestHint_Cycles(t *testing.T) {
	require.Equal(t, "Use the STAR method: Situation, Task, Action, Result.", Hint(CategoryBehavioral, 0))
	require.Equal(t, Hint(CategoryBehavioral, 1), Hint(CategoryBehavioral, 5))
	require.Equal(t, hintTemplates[CategoryTechnical][0], Hint("unknown", 0))
	require.Equal(t, hintTemplates[TypeCoding][3], Hint(TypeCoding, -1))
}

func TestSuggestions_TopThree(t *testing.T) {
	s := Suggestions("short", CategorySystemDesign, TypeCoding)
	require.Equal(t, []string{
		"Consider expanding on your explanation with more details and examples.",
		"Think about the algorithm's time and space complexity.",
		"Consider edge cases like empty inputs or single elements.",
	}, s)

	require.Empty(t, Suggestions(string(make([]byte, 120)), CategoryTechnical, TypeStandard))
	require.Len(t, Suggestions("short", CategoryBehavioral, TypeStandard), 3)
}
