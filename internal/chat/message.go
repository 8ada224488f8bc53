package chat

import "time"

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one entry of a conversation. Content of a streaming message is
// replaced as chunks arrive; it is immutable once IsStreaming clears.
type Message struct {
	ID          string    `json:"id"`
	Role        Role      `json:"role"`
	Content     string    `json:"content"`
	Timestamp   time.Time `json:"timestamp"`
	IsStreaming bool      `json:"isStreaming,omitempty"`
}

// Session is a snapshot of a conversation thread.
type Session struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Messages  []Message `json:"messages"`
	CreatedAt time.Time `json:"createdAt"`
}

const (
	WelcomeSessionID = "welcome"
	welcomeTitle     = "Welcome Chat"
	newSessionTitle  = "New Chat"
	titleLimit       = 30
	historyLimit     = 10

	connectionApology = "I apologize, but I'm having trouble connecting right now. Please try again in a moment."
)

// sessionTitle derives a title from the first user message.
func sessionTitle(first string) string {
	r := []rune(first)
	if len(r) > titleLimit {
		return string(r[:titleLimit]) + "..."
	}
	return first
}

const welcomeMessage = `# Welcome to PrepBuddy AI! 🎯

I'm your personal placement preparation assistant. I can help you with:

## 🔧 **Technical Skills**
- **Data Structures & Algorithms** - Master DSA concepts and problem-solving
- **System Design** - Learn scalable architecture patterns
- **Programming** - Java, Python, C++, JavaScript guidance
- **Database Design** - SQL, NoSQL, optimization techniques

## 💼 **Career Preparation**
- **Resume Building** - Create compelling, ATS-optimized resumes
- **Interview Prep** - Technical and behavioral interview strategies
- **Company Research** - Insights for FAANG, startups, and product companies
- **Salary Negotiation** - Tips for getting the best offers

## 🗺️ **Study Planning**
- **Roadmaps** - 30, 60, 100-day preparation plans
- **Resource Recommendations** - Best books, courses, platforms
- **Progress Tracking** - Milestone-based learning approaches
- **Time Management** - Efficient study schedules

## Quick Start Examples:
- "Create a 100-day DSA preparation plan"
- "How to build a strong technical resume?"
- "Explain system design basics"
- "Best strategy for FAANG interviews"

**What would you like to focus on today?**`

// QuickQuestions are suggested conversation starters.
var QuickQuestions = []string{
	"Create a 100-day placement preparation roadmap",
	"How to build an ATS-optimized resume?",
	"Explain system design fundamentals",
	"Best DSA practice strategy for interviews",
	"How to prepare for behavioral interviews?",
	"FAANG interview preparation tips",
}
