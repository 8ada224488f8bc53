package relay

import (
	"fmt"
	"strings"
)

// Canned returns the offline answer for prompt. Keywords are matched as
// case-insensitive substrings: greetings first, then DSA topics, otherwise a
// generic guidance message quoting the prompt.
func Canned(prompt string) string {
	lower := strings.ToLower(prompt)

	switch {
	case containsAny(lower, "hello", "hi", "hey"):
		return greetingAnswer
	case containsAny(lower, "dsa", "algorithm", "data structure"):
		return dsaAnswer
	default:
		return fmt.Sprintf(genericAnswer, prompt)
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

const greetingAnswer = `Hello! 👋 I'm PrepBuddy AI, your personal placement preparation mentor.

I'm here to help you succeed in your technical interviews and land your dream job. I can assist you with:

**🔧 Technical Preparation**
- Data Structures & Algorithms guidance
- System Design concepts and practice
- Programming best practices and code reviews
- Mock interview sessions

**💼 Career Strategy**
- Resume optimization for ATS systems
- Interview preparation (technical + behavioral)
- Company research and application strategy
- Salary negotiation tips

**📚 Study Planning**
- Personalized learning roadmaps
- Resource recommendations
- Progress tracking and milestone setting

What specific area would you like to focus on today? I'm here to provide personalized guidance based on your current level and goals.`

const dsaAnswer = `# Data Structures & Algorithms Mastery Guide

Based on your question about DSA, here's a personalized approach:

## **Strategic Learning Path**

### **Phase 1: Foundation (Weeks 1-3)**
**Arrays & Strings**
- Master two-pointer technique and sliding window
- Practice string manipulation and pattern matching
- **Goal**: Solve 25-30 easy problems
- **Key Problems**: Two Sum, Valid Palindrome, Longest Substring

**Linked Lists**
- Understand pointer manipulation thoroughly
- Practice reversal, cycle detection, and merging
- **Goal**: Solve 15-20 problems
- **Key Problems**: Reverse Linked List, Detect Cycle, Merge Two Lists

### **Phase 2: Core Structures (Weeks 4-7)**
**Trees & Binary Search**
- Binary tree traversals (iterative + recursive)
- Binary Search Tree operations
- **Goal**: Solve 30-35 problems
- **Key Problems**: Binary Tree Inorder, Validate BST, Lowest Common Ancestor

**Stacks & Queues**
- Understand LIFO/FIFO principles
- Practice monotonic stack problems
- **Goal**: Solve 20 problems
- **Key Problems**: Valid Parentheses, Next Greater Element

### **Phase 3: Advanced Topics (Weeks 8-12)**
**Dynamic Programming**
- Start with 1D DP, progress to 2D
- Master common patterns: knapsack, LIS, LCS
- **Goal**: Solve 40-50 problems
- **Key Problems**: Climbing Stairs, Coin Change, Longest Common Subsequence

**Graphs**
- DFS/BFS traversals
- Shortest path algorithms
- **Goal**: Solve 25-30 problems
- **Key Problems**: Number of Islands, Course Schedule, Dijkstra's Algorithm

## **Daily Practice Strategy**
- **Morning (1 hour)**: Solve 1 new problem
- **Evening (30 mins)**: Review and optimize previous solutions
- **Weekend**: Mock interviews and harder problems

## **Recommended Resources**
- **Primary**: LeetCode (start with Top Interview 150)
- **Theory**: GeeksforGeeks for concept clarity
- **Books**: "Cracking the Coding Interview" for patterns
- **Videos**: NeetCode for visual explanations

## **Progress Tracking**
- Maintain a spreadsheet with problem categories
- Track time taken for each problem
- Note patterns and techniques learned
- Review mistakes weekly

What specific DSA topic would you like me to dive deeper into? I can provide more targeted guidance based on your current level.`

// genericAnswer is formatted with the prompt.
const genericAnswer = `I understand you're looking for guidance on "%s". While I'm currently experiencing some connectivity issues with my advanced AI capabilities, I'm still here to help!

## Here's how I can assist you:

**🎯 Specific Areas I Excel In:**
- **Technical Interview Prep**: DSA problems, coding patterns, system design
- **Resume & Career Strategy**: ATS optimization, interview preparation
- **Study Planning**: Personalized roadmaps, resource recommendations
- **Company Research**: Interview processes, salary insights

**💡 To Get the Best Help:**
1. **Be Specific**: Instead of "help with coding," try "explain dynamic programming approach for longest common subsequence"
2. **Share Context**: Your current level, target companies, timeline
3. **Ask Follow-ups**: I can dive deeper into any topic you're interested in

**🔄 Quick Actions You Can Take:**
- Ask me about a specific DSA topic or problem
- Request a customized study plan for your timeline
- Get help with resume optimization
- Practice system design concepts

What specific aspect of placement preparation would you like to focus on? I'm here to provide detailed, actionable guidance tailored to your needs!

*Note: My full AI capabilities will be restored shortly. In the meantime, I can still provide comprehensive guidance based on proven placement preparation strategies.*`
