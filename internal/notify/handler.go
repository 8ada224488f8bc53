package notify

import (
	"encoding/json"
	"net/http"

	"github.com/comigor/prepbuddy/internal/logger"
)

// Request is the notifications endpoint body.
type Request struct {
	Type           string `json:"type"`
	Email          string `json:"email"`
	CurrentDay     int    `json:"currentDay"`
	CompletionRate int    `json:"completionRate"`
	Streak         int    `json:"streak"`
}

// Handler serves the notifications endpoint. Delivery failures are reported
// as success=false, not as HTTP errors.
type Handler struct {
	n Notifier
}

func NewHandler(n Notifier) *Handler {
	return &Handler{n: n}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if req.Email == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Email is required"})
		return
	}

	var err error
	success := false
	switch req.Type {
	case TypeDailyReminder:
		err = h.n.DailyReminder(r.Context(), req.Email, req.CurrentDay)
		success = err == nil
	case TypeProgressUpdate:
		err = h.n.ProgressUpdate(r.Context(), req.Email, req.CurrentDay, req.CompletionRate, req.Streak)
		success = err == nil
	}
	if err != nil {
		logger.L.Error("failed to send notification", "type", req.Type, "error", err)
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": success})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
