// Package mcptools exposes the interview and quiz generators as MCP tools so
// an assistant can drive practice sessions.
package mcptools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/comigor/prepbuddy/internal/interview"
	"github.com/comigor/prepbuddy/internal/logger"
	"github.com/comigor/prepbuddy/internal/quiz"
)

const (
	ToolGenerateQuestions = "generate_interview_questions"
	ToolAnalyzeResponse   = "analyze_interview_response"
	ToolHint              = "interview_hint"
	ToolQuizQuestions     = "quiz_questions"
)

// NewServer registers every tool on a new MCP server.
func NewServer(version string) *server.MCPServer {
	s := server.NewMCPServer("prepbuddy", version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)

	s.AddTool(mcp.NewTool(ToolGenerateQuestions,
		mcp.WithDescription("Generate mock-interview questions"),
		mcp.WithString("category", mcp.Required(),
			mcp.Description("Interview category"),
			mcp.Enum(interview.CategoryTechnical, interview.CategorySystemDesign, interview.CategoryBehavioral)),
		mcp.WithString("difficulty", mcp.Required(), mcp.Enum("easy", "medium", "hard")),
		mcp.WithNumber("count", mcp.Description("Number of questions, default 3")),
		mcp.WithString("interview_type", mcp.Enum(interview.TypeStandard, interview.TypeCoding)),
		mcp.WithString("platform_focus", mcp.Description("Company focus such as google or startup")),
	), generateQuestions)

	s.AddTool(mcp.NewTool(ToolAnalyzeResponse,
		mcp.WithDescription("Score an interview answer from 0 to 100 with feedback"),
		mcp.WithString("question", mcp.Required()),
		mcp.WithString("response", mcp.Required()),
		mcp.WithString("category", mcp.Required()),
		mcp.WithArray("expected_points", mcp.Description("Key points a good answer covers"), mcp.Items(map[string]any{"type": "string"})),
		mcp.WithString("interview_type"),
		mcp.WithString("code"),
	), analyzeResponse)

	s.AddTool(mcp.NewTool(ToolHint,
		mcp.WithDescription("Get the next hint for an interview category"),
		mcp.WithString("category", mcp.Required()),
		mcp.WithNumber("hints_used", mcp.Description("Hints already shown")),
	), hint)

	s.AddTool(mcp.NewTool(ToolQuizQuestions,
		mcp.WithDescription("List quiz questions for a category and difficulty"),
		mcp.WithString("category", mcp.Required()),
		mcp.WithString("difficulty", mcp.Required(), mcp.Enum("easy", "medium", "hard")),
	), quizQuestions)

	return s
}

// Serve runs the MCP server over stdio.
func Serve(version string) error {
	logger.L.Info("serving mcp tools on stdio")
	return server.ServeStdio(NewServer(version))
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode result: %w", err)
	}
	return mcp.NewToolResultText(string(b)), nil
}

func generateQuestions(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	category, err := req.RequireString("category")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	difficulty, err := req.RequireString("difficulty")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(interview.GenerateQuestions(interview.GenerateRequest{
		Category:      category,
		Difficulty:    difficulty,
		Count:         req.GetInt("count", interview.DefaultCount),
		InterviewType: req.GetString("interview_type", interview.TypeStandard),
		PlatformFocus: req.GetString("platform_focus", interview.PlatformGeneral),
	}))
}

func analyzeResponse(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var in interview.AnalyzeRequest
	var err error
	if in.Question, err = req.RequireString("question"); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if in.Response, err = req.RequireString("response"); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if in.Category, err = req.RequireString("category"); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	in.InterviewType = req.GetString("interview_type", interview.TypeStandard)
	in.CodeSubmission = req.GetString("code", "")
	in.ExpectedPoints = stringSlice(req.GetArguments()["expected_points"])
	return jsonResult(interview.Analyze(in))
}

func hint(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	category, err := req.RequireString("category")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(interview.Hint(category, req.GetInt("hints_used", 0))), nil
}

func quizQuestions(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	category, err := req.RequireString("category")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	d, err := quiz.ParseDifficulty(req.GetString("difficulty", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(quiz.Questions(category, d))
}

func stringSlice(v any) []string {
	if ss, ok := v.([]string); ok {
		return ss
	}
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, it := range items {
		if s, ok := it.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
