package interview

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/comigor/prepbuddy/internal/logger"
)

// Actions served under /functions/v1/ai-interview/{action}.
const (
	ActionGenerateQuestions = "generate-questions"
	ActionAnalyzeResponse   = "analyze-response"
	ActionHint              = "hint"
	ActionSuggestions       = "suggestions"
)

type HintRequest struct {
	Question   string `json:"question"`
	Category   string `json:"category"`
	Difficulty string `json:"difficulty"`
	HintsUsed  int    `json:"hintsUsed"`
}

type SuggestionsRequest struct {
	Question        string `json:"question"`
	CurrentResponse string `json:"currentResponse"`
	Category        string `json:"category"`
	InterviewType   string `json:"interviewType"`
}

type badRequest string

func (e badRequest) Error() string { return string(e) }

// Do runs one action against a JSON body and returns the response value.
func Do(action string, decode func(any) error) (any, error) {
	switch action {
	case ActionGenerateQuestions:
		var req GenerateRequest
		if err := decode(&req); err != nil {
			return nil, err
		}
		if req.Category == "" || req.Difficulty == "" {
			return nil, badRequest("Category and difficulty are required")
		}
		return map[string]any{"questions": GenerateQuestions(req)}, nil

	case ActionAnalyzeResponse:
		var req AnalyzeRequest
		if err := decode(&req); err != nil {
			return nil, err
		}
		if req.Question == "" || req.Response == "" || req.Category == "" {
			return nil, badRequest("Question, response, and category are required")
		}
		return Analyze(req), nil

	case ActionHint:
		var req HintRequest
		if err := decode(&req); err != nil {
			return nil, err
		}
		if req.Question == "" || req.Category == "" {
			return nil, badRequest("Question and category are required")
		}
		return map[string]string{"hint": Hint(req.Category, req.HintsUsed)}, nil

	case ActionSuggestions:
		var req SuggestionsRequest
		if err := decode(&req); err != nil {
			return nil, err
		}
		if req.Question == "" || req.CurrentResponse == "" || req.Category == "" {
			return nil, badRequest("Question, current response, and category are required")
		}
		return map[string][]string{"suggestions": Suggestions(req.CurrentResponse, req.Category, req.InterviewType)}, nil
	}
	return nil, ErrInvalidAction
}

// Handler serves the interview actions. The action is the {action} path value.
type Handler struct{}

func NewHandler() *Handler { return &Handler{} }

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	action := r.PathValue("action")
	out, err := Do(action, json.NewDecoder(r.Body).Decode)

	var bad badRequest
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, out)
	case errors.Is(err, ErrInvalidAction):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Invalid action"})
	case errors.As(err, &bad):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": bad.Error()})
	default:
		logger.L.Error("interview action failed", "action", action, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
