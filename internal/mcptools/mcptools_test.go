package mcptools

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/require"

	"github.com/comigor/prepbuddy/internal/interview"
	"github.com/comigor/prepbuddy/internal/quiz"
)

func newClient(t *testing.T) *client.Client {
	t.Helper()
	c, err := client.NewInProcessClient(NewServer("test"))
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })

	ctx := context.Background()
	require.NoError(t, c.Start(ctx))
	_, err = c.Initialize(ctx, mcp.InitializeRequest{
		Params: mcp.InitializeParams{
			ProtocolVersion: mcp.LATEST_PROTOCOL_VERSION,
			ClientInfo:      mcp.Implementation{Name: "prepbuddy-test", Version: "test"},
			Capabilities:    mcp.ClientCapabilities{},
		},
	})
	require.NoError(t, err)
	return c
}

func callText(t *testing.T, c *client.Client, name string, args map[string]any) (string, bool) {
	t.Helper()
	res, err := c.CallTool(context.Background(), mcp.CallToolRequest{
		Params: mcp.CallToolParams{Name: name, Arguments: args},
	})
	require.NoError(t, err)
	for _, item := range res.Content {
		if text, ok := item.(mcp.TextContent); ok {
			return text.Text, res.IsError
		}
	}
	t.Fatalf("tool %s returned no text content", name)
	return "", false
}

func TestListTools(t *testing.T) {
	c := newClient(t)
	res, err := c.ListTools(context.Background(), mcp.ListToolsRequest{})
	require.NoError(t, err)

	var names []string
	for _, tool := range res.Tools {
		names = append(names, tool.Name)
	}
	require.ElementsMatch(t, []string{ToolGenerateQuestions, ToolAnalyzeResponse, ToolHint, ToolQuizQuestions}, names)
}

func TestGenerateQuestionsTool(t *testing.T) {
	c := newClient(t)
	text, isErr := callText(t, c, ToolGenerateQuestions, map[string]any{
		"category":       "behavioral",
		"difficulty":     "medium",
		"count":          2,
		"platform_focus": "amazon",
	})
	require.False(t, isErr)

	var qs []interview.Question
	require.NoError(t, json.Unmarshal([]byte(text), &qs))
	require.Len(t, qs, 2)
	require.Contains(t, qs[0].Question, "(Consider Amazon's leadership principles and customer obsession)")
	require.Equal(t, 240, qs[0].TimeLimit)

	_, isErr = callText(t, c, ToolGenerateQuestions, map[string]any{"category": "behavioral"})
	require.True(t, isErr)
}

func TestAnalyzeResponseTool(t *testing.T) {
	c := newClient(t)
	text, isErr := callText(t, c, ToolAnalyzeResponse, map[string]any{
		"question":        "q",
		"response":        "I would use a hash map.",
		"category":        "technical",
		"expected_points": []string{"Correct analysis"},
	})
	require.False(t, isErr)

	var a interview.Analysis
	require.NoError(t, json.Unmarshal([]byte(text), &a))
	require.Equal(t, 20, a.Score)
	require.Contains(t, a.Feedback, "Coverage: 0/1 key points addressed")
}

func TestHintAndQuizTools(t *testing.T) {
	c := newClient(t)
	text, isErr := callText(t, c, ToolHint, map[string]any{"category": "coding", "hints_used": 1})
	require.False(t, isErr)
	require.Equal(t, "Consider using two pointers or sliding window technique.", text)

	text, isErr = callText(t, c, ToolQuizQuestions, map[string]any{"category": "dsa", "difficulty": "easy"})
	require.False(t, isErr)
	var qs []quiz.Question
	require.NoError(t, json.Unmarshal([]byte(text), &qs))
	require.Len(t, qs, 1)
	require.Equal(t, "dsa_1", qs[0].ID)

	_, isErr = callText(t, c, ToolQuizQuestions, map[string]any{"category": "dsa", "difficulty": "impossible"})
	require.True(t, isErr)
}
