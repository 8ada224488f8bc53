package interview

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func serve(t *testing.T, action, body string) (int, map[string]any) {
	t.Helper()
	mux := http.NewServeMux()
	mux.Handle("POST /functions/v1/ai-interview/{action}", NewHandler())

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/functions/v1/ai-interview/"+action, strings.NewReader(body)))
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return rec.Code, out
}

func TestHandler_Actions(t *testing.T) {
	code, out := serve(t, ActionGenerateQuestions, `{"category":"behavioral","difficulty":"hard","count":1}`)
	require.Equal(t, http.StatusOK, code)
	require.Len(t, out["questions"], 1)

	code, out = serve(t, ActionAnalyzeResponse, `{"question":"q","response":"I would use a hash map.","category":"technical","expectedPoints":["Correct analysis"]}`)
	require.Equal(t, http.StatusOK, code)
	require.EqualValues(t, 20, out["score"])
	require.EqualValues(t, 1, out["difficulty_rating"])

	code, out = serve(t, ActionHint, `{"question":"q","category":"system-design","hintsUsed":1}`)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, "Consider how the system would scale with millions of users.", out["hint"])

	code, out = serve(t, ActionSuggestions, `{"question":"q","currentResponse":"short","category":"behavioral"}`)
	require.Equal(t, http.StatusOK, code)
	require.Len(t, out["suggestions"], 3)
}

func TestHandler_Errors(t *testing.T) {
	code, out := serve(t, ActionGenerateQuestions, `{"category":"technical"}`)
	require.Equal(t, http.StatusBadRequest, code)
	require.Equal(t, "Category and difficulty are required", out["error"])

	code, out = serve(t, ActionAnalyzeResponse, `{"question":"q","category":"technical"}`)
	require.Equal(t, http.StatusBadRequest, code)
	require.Equal(t, "Question, response, and category are required", out["error"])

	code, out = serve(t, "transcribe", `{}`)
	require.Equal(t, http.StatusNotFound, code)
	require.Equal(t, "Invalid action", out["error"])

	code, _ = serve(t, ActionHint, `not json`)
	require.Equal(t, http.StatusInternalServerError, code)
}
