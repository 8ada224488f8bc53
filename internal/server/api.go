package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/comigor/prepbuddy/internal/account"
	"github.com/comigor/prepbuddy/internal/interview"
	"github.com/comigor/prepbuddy/internal/logger"
	"github.com/comigor/prepbuddy/internal/quiz"
	"github.com/comigor/prepbuddy/internal/tracker"
)

type api struct {
	d Deps
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, tracker.ErrNotFound), errors.Is(err, account.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, tracker.ErrInvalid), errors.Is(err, errBadRequest):
		status = http.StatusBadRequest
	case errors.Is(err, tracker.ErrConfirmationRequired):
		writeJSON(w, http.StatusConflict, map[string]any{"error": err.Error(), "confirmation_required": true})
		return
	}
	if status == http.StatusInternalServerError {
		logger.L.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

var errBadRequest = errors.New("bad request")

func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return nil
}

func (a *api) snapshot(w http.ResponseWriter, r *http.Request) {
	snap, err := a.d.Tracker.Load(r.Context(), r.PathValue("user"), r.URL.Query().Get("email"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (a *api) addTask(w http.ResponseWriter, r *http.Request) {
	var in tracker.NewTask
	if err := decode(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	t, err := a.d.Tracker.AddTask(r.Context(), r.PathValue("user"), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

func (a *api) updateTask(w http.ResponseWriter, r *http.Request) {
	var in tracker.TaskUpdate
	if err := decode(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	t, err := a.d.Tracker.UpdateTask(r.Context(), r.PathValue("user"), r.PathValue("id"), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (a *api) deleteTask(w http.ResponseWriter, r *http.Request) {
	if err := a.d.Tracker.DeleteTask(r.Context(), r.PathValue("user"), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *api) toggleTask(w http.ResponseWriter, r *http.Request) {
	t, err := a.d.Tracker.ToggleComplete(r.Context(), r.PathValue("user"), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

type categoryBody struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

func (a *api) addCategory(w http.ResponseWriter, r *http.Request) {
	var in categoryBody
	if err := decode(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	c, err := a.d.Tracker.AddCategory(r.Context(), r.PathValue("user"), in.Name, in.Color)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (a *api) updateCategory(w http.ResponseWriter, r *http.Request) {
	var in categoryBody
	if err := decode(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	if err := a.d.Tracker.UpdateCategory(r.Context(), r.PathValue("user"), r.PathValue("id"), in.Name, in.Color); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *api) deleteCategory(w http.ResponseWriter, r *http.Request) {
	if err := a.d.Tracker.DeleteCategory(r.Context(), r.PathValue("user"), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *api) advance(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Confirm bool `json:"confirm"`
	}
	if r.ContentLength != 0 {
		if err := decode(r, &in); err != nil {
			writeError(w, r, err)
			return
		}
	}
	p, err := a.d.Tracker.AdvanceDay(r.Context(), r.PathValue("user"), in.Confirm)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (a *api) back(w http.ResponseWriter, r *http.Request) {
	p, err := a.d.Tracker.DecrementDay(r.Context(), r.PathValue("user"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (a *api) setDay(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Day int `json:"day"`
	}
	if err := decode(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	p, err := a.d.Tracker.SetCurrentDay(r.Context(), r.PathValue("user"), in.Day)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (a *api) reset(w http.ResponseWriter, r *http.Request) {
	if err := a.d.Tracker.ResetProgress(r.Context(), r.PathValue("user")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *api) calendar(w http.ResponseWriter, r *http.Request) {
	now := time.Now().UTC()
	year, month := now.Year(), int(now.Month())
	q := r.URL.Query()
	if v := q.Get("year"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid year"})
			return
		}
		year = n
	}
	if v := q.Get("month"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 12 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid month"})
			return
		}
		month = n
	}
	days, err := a.d.Tracker.Calendar(r.Context(), r.PathValue("user"), year, time.Month(month))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"year": year, "month": month, "days": days})
}

func (a *api) profile(w http.ResponseWriter, r *http.Request) {
	p, err := a.d.Accounts.Profile(r.Context(), r.PathValue("user"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (a *api) updateProfile(w http.ResponseWriter, r *http.Request) {
	var in account.ProfileUpdate
	if err := decode(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	p, err := a.d.Accounts.UpdateProfile(r.Context(), r.PathValue("user"), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (a *api) settings(w http.ResponseWriter, r *http.Request) {
	s, err := a.d.Accounts.Settings(r.Context(), r.PathValue("user"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

func (a *api) updateSettings(w http.ResponseWriter, r *http.Request) {
	var in account.Settings
	if err := decode(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	if err := a.d.Accounts.UpdateSettings(r.Context(), r.PathValue("user"), in); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, in)
}

func (a *api) quizStats(w http.ResponseWriter, r *http.Request) {
	st, err := a.d.Quizzes.Stats(r.Context(), r.PathValue("user"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (a *api) saveQuizResult(w http.ResponseWriter, r *http.Request) {
	var res quiz.Result
	if err := decode(r, &res); err != nil {
		writeError(w, r, err)
		return
	}
	if res.Category == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "category is required"})
		return
	}
	if res.CreatedAt.IsZero() {
		res.CreatedAt = time.Now().UTC()
	}
	if err := a.d.Quizzes.Save(r.Context(), r.PathValue("user"), res); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

func (a *api) pastInterviews(w http.ResponseWriter, r *http.Request) {
	past, err := a.d.Interviews.PastSessions(r.Context(), r.PathValue("user"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if past == nil {
		past = []interview.Summary{}
	}
	writeJSON(w, http.StatusOK, past)
}

func (a *api) saveInterview(w http.ResponseWriter, r *http.Request) {
	var s interview.Session
	if err := decode(r, &s); err != nil {
		writeError(w, r, err)
		return
	}
	s.UserID = r.PathValue("user")
	if s.ID == "" || s.StartedAt.IsZero() {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "id and started_at are required"})
		return
	}
	if err := a.d.Interviews.Save(r.Context(), &s); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": s.ID})
}
