// Package interview generates mock-interview questions from templates and
// scores free-text and code answers with a keyword heuristic. The score is
// approximate on purpose; it is a practice aid, not a grader.
package interview

import (
	"fmt"
	"strings"
)

const (
	CategoryTechnical    = "technical"
	CategorySystemDesign = "system-design"
	CategoryBehavioral   = "behavioral"

	TypeStandard = "standard"
	TypeCoding   = "coding"

	PlatformGeneral = "general"

	DefaultCount = 3
)

type TestCase struct {
	Input          string `json:"input"`
	ExpectedOutput string `json:"expectedOutput"`
	Description    string `json:"description"`
}

type Question struct {
	ID             string     `json:"id"`
	Category       string     `json:"category"`
	Difficulty     string     `json:"difficulty"`
	Question       string     `json:"question"`
	ExpectedPoints []string   `json:"expectedPoints"`
	TimeLimit      int        `json:"timeLimit"`
	InterviewType  string     `json:"interviewType,omitempty"`
	PlatformFocus  string     `json:"platformFocus,omitempty"`
	TestCases      []TestCase `json:"testCases,omitempty"`
	Hints          []string   `json:"hints"`
	CodeTemplate   string     `json:"codeTemplate,omitempty"`
}

// GenerateRequest selects a question set. Zero values take the defaults.
type GenerateRequest struct {
	Category      string `json:"category"`
	Difficulty    string `json:"difficulty"`
	Count         int    `json:"count"`
	InterviewType string `json:"interviewType"`
	PlatformFocus string `json:"platformFocus"`
}

func (r GenerateRequest) withDefaults() GenerateRequest {
	if r.Count <= 0 {
		r.Count = DefaultCount
	}
	if r.InterviewType == "" {
		r.InterviewType = TypeStandard
	}
	if r.PlatformFocus == "" {
		r.PlatformFocus = PlatformGeneral
	}
	return r
}

// template is one question shape. Placeholders in text are filled from the
// fills lists using the question index.
type template struct {
	text      string
	fills     map[string][]string
	testCases []TestCase
	code      string
	hints     []string
}

func plain(texts ...string) []template {
	out := make([]template, len(texts))
	for i, t := range texts {
		out[i] = template{text: t}
	}
	return out
}

// templates is keyed by category, interview type and difficulty.
var templates = map[string]map[string]map[string][]template{
	CategoryTechnical: {
		TypeStandard: {
			"easy": {
				{
					text: "Explain the difference between {concept1} and {concept2}. Provide examples of when to use each.",
					fills: map[string][]string{
						"concept1": {"Array", "Stack", "BFS", "HashMap"},
						"concept2": {"Linked List", "Queue", "DFS", "TreeMap"},
					},
				},
				{
					text:  "What is {algorithm} and what is its time complexity? Explain with an example.",
					fills: map[string][]string{"algorithm": {"Binary Search", "Merge Sort", "Quick Sort", "Bubble Sort"}},
				},
			},
			"medium": {
				{
					text: "Design a {dataStructure} that supports {operations} in O(1) time. Explain your approach.",
					fills: map[string][]string{
						"dataStructure": {"LRU Cache", "Min Stack", "Random Set"},
						"operations":    {"get, put", "push, pop, getMin", "insert, delete, getRandom"},
					},
				},
				{
					text:  "Implement {algorithm} and analyze its time and space complexity. Discuss optimizations.",
					fills: map[string][]string{"algorithm": {"Two Pointers technique", "Sliding Window", "Dynamic Programming solution"}},
				},
			},
			"hard": {
				{
					text:  "Design and implement {complexSystem}. Consider scalability and edge cases.",
					fills: map[string][]string{"complexSystem": {"Distributed Cache", "Rate Limiter", "Consistent Hashing", "Load Balancer"}},
				},
			},
		},
		TypeCoding: {
			"easy": {
				{
					text: "Write a function to reverse a string without using built-in reverse methods.",
					testCases: []TestCase{
						{Input: `"hello"`, ExpectedOutput: `"olleh"`, Description: "Basic string reversal"},
						{Input: `""`, ExpectedOutput: `""`, Description: "Empty string"},
						{Input: `"a"`, ExpectedOutput: `"a"`, Description: "Single character"},
					},
					code:  "function reverseString(s) {\n    // Your implementation here\n    return \"\";\n}",
					hints: []string{"Try using two pointers approach", "Consider the time and space complexity"},
				},
				{
					text: "Implement a function to check if a string is a palindrome (case-insensitive).",
					testCases: []TestCase{
						{Input: `"racecar"`, ExpectedOutput: "true", Description: "Simple palindrome"},
						{Input: `"A man a plan a canal Panama"`, ExpectedOutput: "true", Description: "Palindrome with spaces"},
						{Input: `"hello"`, ExpectedOutput: "false", Description: "Not a palindrome"},
					},
				},
			},
			"medium": {
				{
					text: "Find the longest palindromic substring in a given string.",
					testCases: []TestCase{
						{Input: `"babad"`, ExpectedOutput: `"bab" or "aba"`, Description: "Multiple valid answers"},
						{Input: `"cbbd"`, ExpectedOutput: `"bb"`, Description: "Even length palindrome"},
					},
					hints: []string{"Consider expanding around centers", "Handle both odd and even length palindromes"},
				},
				{
					text: "Implement a function to find all anagrams of a string in a list of strings.",
					testCases: []TestCase{
						{Input: `["eat","tea","tan","ate","nat","bat"], "eat"`, ExpectedOutput: `["tea","ate"]`, Description: "Find anagrams"},
					},
				},
			},
		},
	},
	CategorySystemDesign: {
		TypeStandard: {
			"easy": plain(
				"Design a URL shortener like bit.ly. Focus on core functionality and basic scalability.",
				"Design a simple chat application. Consider real-time messaging requirements.",
				"Design a basic file storage system like Dropbox. Focus on upload/download functionality.",
			),
			"medium": plain(
				"Design a social media feed system like Twitter. Consider scalability and real-time updates.",
				"Design a ride-sharing service like Uber. Focus on matching drivers and riders.",
				"Design a notification system that can handle millions of users across different platforms.",
			),
			"hard": plain(
				"Design a distributed cache system like Redis. Consider consistency, availability, and partition tolerance.",
				"Design a global content delivery network (CDN) with edge servers worldwide.",
				"Design a real-time collaborative document editing system like Google Docs.",
			),
		},
	},
	CategoryBehavioral: {
		TypeStandard: {
			"easy": plain(
				"Tell me about yourself and why you're interested in this role.",
				"Describe a project you're proud of and what you learned from it.",
				"Why do you want to work at our company?",
			),
			"medium": plain(
				"Tell me about a time when you had to work with a difficult team member. How did you handle it?",
				"Describe a situation where you had to learn a new technology quickly. What was your approach?",
				"Give me an example of a time when you had to meet a tight deadline. How did you manage it?",
			),
			"hard": plain(
				"Describe a time when you had to make a difficult technical decision with limited information.",
				"Tell me about a project that failed. What went wrong and what did you learn?",
				"How would you handle a situation where you disagree with your manager's technical decision?",
			),
		},
	},
}

type platform struct {
	suffix string
	points []string
}

var platforms = map[string]platform{
	"google":    {" (Focus on scalability, efficiency, and Google's scale)", []string{"Scalability to billions of users", "Performance optimization", "Data structure efficiency"}},
	"amazon":    {" (Consider Amazon's leadership principles and customer obsession)", []string{"Customer impact", "Ownership mindset", "Long-term thinking"}},
	"microsoft": {" (Think about enterprise solutions and integration)", []string{"Enterprise scalability", "Integration capabilities", "Security considerations"}},
	"meta":      {" (Consider social scale and real-time requirements)", []string{"Social graph implications", "Real-time processing", "Privacy considerations"}},
	"apple":     {" (Focus on user experience and performance)", []string{"User experience", "Performance optimization", "Design simplicity"}},
	"netflix":   {" (Consider streaming scale and content delivery)", []string{"Content delivery", "Streaming optimization", "Global scale"}},
	"uber":      {" (Think about real-time systems and marketplace dynamics)", []string{"Real-time processing", "Marketplace efficiency", "Location-based services"}},
	"startup":   {" (Focus on MVP, rapid iteration, and resource constraints)", []string{"MVP approach", "Resource efficiency", "Rapid iteration"}},
}

// Platforms lists the supported company focuses.
func Platforms() []string {
	return []string{"google", "amazon", "microsoft", "meta", "apple", "netflix", "uber", "startup"}
}

func lookupTemplates(category, interviewType, difficulty string) []template {
	if ts := templates[category][interviewType][difficulty]; len(ts) > 0 {
		return ts
	}
	return templates[CategoryTechnical][TypeStandard]["easy"]
}

// GenerateQuestions builds up to Count questions from the matching templates,
// falling back to the easy technical set.
func GenerateQuestions(req GenerateRequest) []Question {
	req = req.withDefaults()
	ts := lookupTemplates(req.Category, req.InterviewType, req.Difficulty)
	n := min(req.Count, len(ts))

	out := make([]Question, 0, n)
	for i := 0; i < n; i++ {
		t := ts[i]
		text := t.text
		for key, values := range t.fills {
			text = strings.ReplaceAll(text, "{"+key+"}", values[i%len(values)])
		}
		if p, ok := platforms[req.PlatformFocus]; ok {
			text += p.suffix
		}
		hints := t.hints
		if hints == nil {
			hints = []string{}
		}
		out = append(out, Question{
			ID:             fmt.Sprintf("%s_%s_%s_%d", req.Category, req.InterviewType, req.Difficulty, i+1),
			Category:       req.Category,
			Difficulty:     req.Difficulty,
			Question:       text,
			ExpectedPoints: ExpectedPoints(req.Category, req.Difficulty, req.InterviewType, req.PlatformFocus),
			TimeLimit:      TimeLimit(req.Category, req.Difficulty, req.InterviewType),
			InterviewType:  req.InterviewType,
			PlatformFocus:  req.PlatformFocus,
			TestCases:      t.testCases,
			Hints:          hints,
			CodeTemplate:   t.code,
		})
	}
	return out
}

var technicalPoints = map[string][]string{
	TypeStandard: {"Clear explanation of concepts", "Correct analysis", "Time/space complexity discussion"},
	TypeCoding:   {"Working solution", "Optimal approach", "Edge cases handling", "Code quality"},
}

var categoryPoints = map[string][]string{
	CategoryBehavioral:   {"STAR method (Situation, Task, Action, Result)", "Specific examples", "Lessons learned", "Impact demonstration"},
	CategorySystemDesign: {"System architecture", "Scalability considerations", "Database design", "API design", "Trade-offs discussion"},
	"database":           {"Schema design", "Query optimization", "Indexing strategy", "Normalization concepts"},
	"frontend":           {"Component architecture", "State management", "Performance optimization", "User experience"},
	"backend":            {"API design", "Database integration", "Error handling", "Security considerations"},
	"mobile":             {"Platform-specific considerations", "Performance optimization", "User interface design", "Offline functionality"},
}

// ExpectedPoints lists what a good answer covers: the category base points,
// extras for harder questions and the platform's focus points.
func ExpectedPoints(category, difficulty, interviewType, platformFocus string) []string {
	var base []string
	if category == CategoryTechnical {
		base = technicalPoints[interviewType]
	} else {
		base = categoryPoints[category]
	}
	if base == nil {
		base = technicalPoints[TypeStandard]
	}
	points := append([]string(nil), base...)

	switch difficulty {
	case "hard":
		points = append(points, "Advanced optimizations", "Edge cases handling", "Scalability considerations")
	case "medium":
		points = append(points, "Alternative approaches", "Performance considerations")
	}
	if p, ok := platforms[platformFocus]; ok {
		points = append(points, p.points...)
	}
	return points
}

type limits struct{ easy, medium, hard int }

func (l limits) of(difficulty string) (int, bool) {
	switch difficulty {
	case "easy":
		return l.easy, true
	case "medium":
		return l.medium, true
	case "hard":
		return l.hard, true
	}
	return 0, false
}

var technicalLimits = map[string]limits{
	TypeStandard: {300, 450, 600},
	TypeCoding:   {900, 1200, 1800},
}

var categoryLimits = map[string]limits{
	CategoryBehavioral:   {180, 240, 300},
	CategorySystemDesign: {1200, 1800, 2400},
	"database":           {600, 900, 1200},
	"frontend":           {900, 1200, 1800},
	"backend":            {900, 1200, 1800},
	"mobile":             {900, 1200, 1800},
}

// DefaultTimeLimit applies to unknown categories, in seconds.
const DefaultTimeLimit = 300

// TimeLimit returns the answer time for a question in seconds.
func TimeLimit(category, difficulty, interviewType string) int {
	if category == CategoryTechnical {
		l, ok := technicalLimits[interviewType]
		if !ok {
			l = technicalLimits[TypeStandard]
		}
		if v, ok := l.of(difficulty); ok {
			return v
		}
		return DefaultTimeLimit
	}
	if l, ok := categoryLimits[category]; ok {
		if v, ok := l.of(difficulty); ok {
			return v
		}
	}
	return DefaultTimeLimit
}
