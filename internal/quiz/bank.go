// Package quiz runs timed multiple-choice quizzes from a static question
// bank and keeps per-user results.
package quiz

import "fmt"

type Difficulty string

const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"
)

// Points awarded for a correct answer at the difficulty.
func (d Difficulty) Points() int {
	switch d {
	case Easy:
		return 10
	case Medium:
		return 20
	default:
		return 30
	}
}

func ParseDifficulty(s string) (Difficulty, error) {
	switch d := Difficulty(s); d {
	case Easy, Medium, Hard:
		return d, nil
	}
	return "", fmt.Errorf("unknown difficulty %q", s)
}

type Question struct {
	ID            string     `json:"id"`
	Question      string     `json:"question"`
	Options       []string   `json:"options"`
	CorrectAnswer int        `json:"correctAnswer"`
	Explanation   string     `json:"explanation"`
	Difficulty    Difficulty `json:"difficulty"`
	Category      string     `json:"category"`
	Points        int        `json:"points"`
}

type Category struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

var Categories = []Category{
	{ID: "dsa", Name: "Data Structures & Algorithms", Description: "Arrays, Trees, Graphs, Sorting, Searching"},
	{ID: "aptitude", Name: "Quantitative Aptitude", Description: "Math, Logic, Reasoning, Probability"},
	{ID: "programming", Name: "Programming Concepts", Description: "OOP, Design Patterns, Best Practices"},
	{ID: "system-design", Name: "System Design", Description: "Scalability, Architecture, Databases"},
	{ID: "cs-fundamentals", Name: "CS Fundamentals", Description: "OS, Networks, DBMS, Compilers"},
}

// MaxQuestions caps a single quiz.
const MaxQuestions = 5

var bank = map[string][]Question{
	"dsa": {
		{
			ID:            "dsa_1",
			Question:      "What is the time complexity of binary search in a sorted array?",
			Options:       []string{"O(n)", "O(log n)", "O(n log n)", "O(1)"},
			CorrectAnswer: 1,
			Explanation:   "Binary search divides the search space in half with each comparison, resulting in O(log n) time complexity.",
			Difficulty:    Easy,
			Category:      "dsa",
			Points:        10,
		},
		{
			ID:            "dsa_2",
			Question:      "Which data structure is best for implementing a LRU cache?",
			Options:       []string{"Array", "Stack", "HashMap + Doubly Linked List", "Binary Tree"},
			CorrectAnswer: 2,
			Explanation:   "LRU cache requires O(1) access and update operations, which is achieved using HashMap for fast lookup and Doubly Linked List for maintaining order.",
			Difficulty:    Medium,
			Category:      "dsa",
			Points:        20,
		},
		{
			ID:            "dsa_3",
			Question:      "What is the worst-case time complexity of QuickSort?",
			Options:       []string{"O(n log n)", "O(n²)", "O(n)", "O(log n)"},
			CorrectAnswer: 1,
			Explanation:   "QuickSort has O(n²) worst-case complexity when the pivot is always the smallest or largest element, but O(n log n) average case.",
			Difficulty:    Medium,
			Category:      "dsa",
			Points:        20,
		},
	},
	"aptitude": {
		{
			ID:            "apt_1",
			Question:      "If 5 machines can produce 5 widgets in 5 minutes, how many widgets can 100 machines produce in 100 minutes?",
			Options:       []string{"100", "500", "1000", "2000"},
			CorrectAnswer: 3,
			Explanation:   "Each machine produces 1 widget in 5 minutes, so 1 widget per minute per machine. 100 machines × 100 minutes = 2000 widgets.",
			Difficulty:    Medium,
			Category:      "aptitude",
			Points:        20,
		},
		{
			ID:            "apt_2",
			Question:      "What is 15% of 80?",
			Options:       []string{"10", "12", "15", "20"},
			CorrectAnswer: 1,
			Explanation:   "15% of 80 = (15/100) × 80 = 0.15 × 80 = 12",
			Difficulty:    Easy,
			Category:      "aptitude",
			Points:        10,
		},
	},
	"programming": {
		{
			ID:            "prog_1",
			Question:      "Which principle states that software entities should be open for extension but closed for modification?",
			Options:       []string{"Single Responsibility", "Open/Closed", "Liskov Substitution", "Dependency Inversion"},
			CorrectAnswer: 1,
			Explanation:   "The Open/Closed Principle states that classes should be open for extension but closed for modification.",
			Difficulty:    Medium,
			Category:      "programming",
			Points:        20,
		},
	},
}

// Questions returns up to MaxQuestions bank questions for the category and
// difficulty, or a single generated sample when the bank has none.
func Questions(category string, difficulty Difficulty) []Question {
	var out []Question
	for _, q := range bank[category] {
		if q.Difficulty == difficulty {
			out = append(out, q)
		}
	}
	if len(out) == 0 {
		return []Question{sampleQuestion(category, difficulty)}
	}
	if len(out) > MaxQuestions {
		out = out[:MaxQuestions]
	}
	return out
}

func sampleQuestion(category string, difficulty Difficulty) Question {
	return Question{
		ID:            category + "_sample_1",
		Question:      fmt.Sprintf("Sample %s question (%s level)", category, difficulty),
		Options:       []string{"Option A", "Option B", "Option C", "Option D"},
		CorrectAnswer: 0,
		Explanation:   fmt.Sprintf("This is a sample explanation for %s at %s level.", category, difficulty),
		Difficulty:    difficulty,
		Category:      category,
		Points:        difficulty.Points(),
	}
}
