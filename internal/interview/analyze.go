package interview

import (
	"fmt"
	"math"
	"regexp"
	"slices"
	"strings"
)

// AnalyzeRequest is one answer to score.
type AnalyzeRequest struct {
	Question       string   `json:"question"`
	Response       string   `json:"response"`
	ExpectedPoints []string `json:"expectedPoints"`
	Category       string   `json:"category"`
	InterviewType  string   `json:"interviewType"`
	CodeSubmission string   `json:"codeSubmission,omitempty"`
}

type Analysis struct {
	Score            int      `json:"score"`
	Feedback         string   `json:"feedback"`
	DifficultyRating int      `json:"difficulty_rating"`
	Strengths        []string `json:"strengths"`
	Improvements     []string `json:"improvements"`
}

var keywords = map[string][]string{
	CategoryTechnical:    {"algorithm", "complexity", "implementation", "data structure", "time", "space", "optimize", "efficient", "performance"},
	CategoryBehavioral:   {"situation", "action", "result", "learned", "team", "challenge", "solution", "leadership", "collaboration"},
	CategorySystemDesign: {"scalability", "database", "api", "architecture", "load", "cache", "distributed", "microservices", "consistency"},
	TypeCoding:           {"function", "loop", "condition", "variable", "return", "array", "object", "method", "optimization"},
}

var (
	sentenceSplit = regexp.MustCompile(`[.!?]+`)
	identifier    = regexp.MustCompile(`[a-zA-Z][a-zA-Z0-9]*`)
)

// Analyze scores a response from 0 to 100. Points come from the answer
// length, category keywords (whole words only), sentence count, coverage of
// the expected points and, for coding interviews, superficial code checks.
func Analyze(req AnalyzeRequest) Analysis {
	if req.InterviewType == "" {
		req.InterviewType = TypeStandard
	}
	length := len([]rune(strings.TrimSpace(req.Response)))
	words := strings.Fields(strings.ToLower(req.Response))

	var (
		score                             float64
		feedback, strengths, improvements []string
	)

	switch {
	case length < 50:
		score += 20
		improvements = append(improvements, "Provide more detailed explanations and examples")
	case length < 200:
		score += 40
		feedback = append(feedback, "Good response length, consider adding more specific details")
	case length < 500:
		score += 60
		strengths = append(strengths, "Comprehensive response with good detail")
	default:
		score += 70
		strengths = append(strengths, "Very thorough and detailed explanation")
	}

	relevant, ok := keywords[req.Category]
	if !ok {
		relevant = keywords[CategoryTechnical]
	}
	matches := 0
	for _, k := range relevant {
		if slices.Contains(words, k) {
			matches++
		}
	}
	switch {
	case matches >= 5:
		score += 20
		strengths = append(strengths, "Excellent use of technical terminology and concepts")
	case matches >= 3:
		score += 15
		strengths = append(strengths, "Good technical vocabulary")
	case matches >= 1:
		score += 10
		feedback = append(feedback, "Some technical terms used, could include more specific vocabulary")
	default:
		improvements = append(improvements, "Include more specific technical terminology relevant to the topic")
	}

	if code := req.CodeSubmission; code != "" && req.InterviewType == TypeCoding {
		lines := 0
		for _, l := range strings.Split(code, "\n") {
			if strings.TrimSpace(l) != "" {
				lines++
			}
		}
		if lines > 3 {
			score += 5
			strengths = append(strengths, "Well-structured code implementation")
		}
		if strings.Contains(code, "//") || strings.Contains(code, "/*") {
			score += 3
			strengths = append(strengths, "Good code documentation")
		}
		if identifier.MatchString(code) {
			score += 3
			strengths = append(strengths, "Clear variable and function naming")
		}
		if strings.Contains(code, "function") || strings.Contains(code, "def ") || strings.Contains(code, "public ") {
			score += 4
			strengths = append(strengths, "Proper function structure")
		}
	}

	sentences := 0
	for _, s := range sentenceSplit.Split(req.Response, -1) {
		if strings.TrimSpace(s) != "" {
			sentences++
		}
	}
	switch {
	case sentences >= 4:
		score += 10
		strengths = append(strengths, "Well-structured response with clear organization")
	case sentences >= 2:
		score += 5
		feedback = append(feedback, "Good structure, could benefit from more detailed breakdown")
	}

	covered := 0
	for _, p := range req.ExpectedPoints {
		for _, w := range strings.Fields(strings.ToLower(p)) {
			if slices.Contains(words, w) {
				covered++
				break
			}
		}
	}
	total := len(req.ExpectedPoints)
	if total > 0 {
		score += float64(covered) / float64(total) * 15
	}
	switch {
	case float64(covered) >= float64(total)*0.8:
		strengths = append(strengths, "Excellent coverage of key concepts")
	case float64(covered) >= float64(total)*0.5:
		feedback = append(feedback, "Good coverage of main points, consider addressing all key concepts")
	default:
		improvements = append(improvements, "Address more of the key points mentioned in the question")
	}

	score = math.Min(100, math.Max(0, score))

	parts := append([]string(nil), feedback...)
	if len(strengths) > 0 {
		parts = append(parts, "Strengths: "+strings.Join(strengths, ", "))
	}
	if len(improvements) > 0 {
		parts = append(parts, "Areas for improvement: "+strings.Join(improvements, ", "))
	}
	parts = append(parts, fmt.Sprintf("Coverage: %d/%d key points addressed", covered, total))

	if strengths == nil {
		strengths = []string{}
	}
	if improvements == nil {
		improvements = []string{}
	}
	return Analysis{
		Score:            int(math.Round(score)),
		Feedback:         strings.Join(parts, " "),
		DifficultyRating: Rating(score),
		Strengths:        strengths,
		Improvements:     improvements,
	}
}

// Rating maps a score onto 1..5.
func Rating(score float64) int {
	r := int(math.Round(score / 20))
	return max(1, min(5, r))
}

var hintTemplates = map[string][]string{
	CategoryTechnical: {
		"Think about the fundamental data structures that could solve this problem efficiently.",
		"Consider the time and space complexity trade-offs of different approaches.",
		"Break down the problem into smaller subproblems.",
		"Think about edge cases and how your solution handles them.",
	},
	TypeCoding: {
		"Start with a brute force approach, then optimize.",
		"Consider using two pointers or sliding window technique.",
		"Think about what data structure would give you the fastest lookup.",
		"Draw out a few examples to understand the pattern.",
	},
	CategorySystemDesign: {
		"Start with the basic components and their interactions.",
		"Consider how the system would scale with millions of users.",
		"Think about data consistency and availability trade-offs.",
		"Consider caching strategies and database partitioning.",
	},
	CategoryBehavioral: {
		"Use the STAR method: Situation, Task, Action, Result.",
		"Be specific about your role and contributions.",
		"Focus on the impact and what you learned.",
		"Quantify your results where possible.",
	},
}

// Hint cycles through the category's hints.
func Hint(category string, hintsUsed int) string {
	hints, ok := hintTemplates[category]
	if !ok {
		hints = hintTemplates[CategoryTechnical]
	}
	i := hintsUsed % len(hints)
	if i < 0 {
		i += len(hints)
	}
	return hints[i]
}

// MaxSuggestions caps Suggestions.
const MaxSuggestions = 3

// Suggestions proposes improvements to an answer in progress.
func Suggestions(currentResponse, category, interviewType string) []string {
	var out []string
	if len(currentResponse) < 100 {
		out = append(out, "Consider expanding on your explanation with more details and examples.")
	}
	if interviewType == TypeCoding {
		out = append(out,
			"Think about the algorithm's time and space complexity.",
			"Consider edge cases like empty inputs or single elements.")
	}
	switch category {
	case CategorySystemDesign:
		out = append(out,
			"Discuss scalability and how the system handles increased load.",
			"Consider data storage and retrieval strategies.")
	case CategoryBehavioral:
		out = append(out,
			"Use specific examples and quantify your impact where possible.",
			"Explain what you learned from the experience.")
	}
	if len(out) > MaxSuggestions {
		out = out[:MaxSuggestions]
	}
	if out == nil {
		out = []string{}
	}
	return out
}
