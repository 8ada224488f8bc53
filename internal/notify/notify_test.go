package notify

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/comigor/prepbuddy/internal/config"
)

func TestEmails(t *testing.T) {
	e := DailyReminderEmail(7)
	require.Equal(t, "PrepBuddy Day 7 Reminder", e.Subject)
	require.Contains(t, e.HTML, "complete your tasks for Day 7.")

	p := ProgressUpdateEmail(12, 85, 4)
	require.Equal(t, "PrepBuddy Progress Update - Day 12", p.Subject)
	require.Contains(t, p.HTML, "Current Day: 12/100")
	require.Contains(t, p.HTML, "Completion Rate: 85%")
	require.Contains(t, p.HTML, "Current Streak: 4 days")
}

func TestMailer_Send(t *testing.T) {
	var got sendRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/emails" || r.Header.Get("Authorization") != "Bearer re_test" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"id":"email_1"}`))
	}))
	defer srv.Close()

	m := NewMailer(config.MailConfig{BaseURL: srv.URL + "/", APIKey: "re_test", From: "PrepBuddy <notifications@prepbuddy.com>"}, srv.Client())
	require.NoError(t, m.DailyReminder(context.Background(), "student@example.com", 3))
	require.Equal(t, []string{"student@example.com"}, got.To)
	require.Equal(t, "PrepBuddy Day 3 Reminder", got.Subject)
	require.Equal(t, "PrepBuddy <notifications@prepbuddy.com>", got.From)

	bad := NewMailer(config.MailConfig{BaseURL: srv.URL, APIKey: "wrong"}, srv.Client())
	require.Error(t, bad.ProgressUpdate(context.Background(), "student@example.com", 1, 0, 0))
}

func TestNew_NopWithoutKey(t *testing.T) {
	_, ok := New(config.MailConfig{}).(Nop)
	require.True(t, ok)
	_, ok = New(config.MailConfig{APIKey: "k"}).(*Mailer)
	require.True(t, ok)
}

type recordingNotifier struct {
	calls []string
	err   error
}

func (r *recordingNotifier) DailyReminder(_ context.Context, email string, day int) error {
	r.calls = append(r.calls, "reminder:"+email)
	return r.err
}

func (r *recordingNotifier) ProgressUpdate(_ context.Context, email string, day, rate, streak int) error {
	r.calls = append(r.calls, "progress:"+email)
	return r.err
}

func TestHandler(t *testing.T) {
	rec := &recordingNotifier{}
	h := NewHandler(rec)

	do := func(body string) (int, map[string]any) {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/functions/v1/notifications", strings.NewReader(body)))
		var out map[string]any
		_ = json.Unmarshal(w.Body.Bytes(), &out)
		return w.Code, out
	}

	code, out := do(`{"type":"daily_reminder","currentDay":2}`)
	require.Equal(t, http.StatusBadRequest, code)
	require.Equal(t, "Email is required", out["error"])

	code, out = do(`{"type":"progress_update","email":"a@b.c","currentDay":2,"completionRate":50,"streak":1}`)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, true, out["success"])

	code, out = do(`{"type":"unknown","email":"a@b.c"}`)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, false, out["success"])

	rec.err = errors.New("smtp down")
	_, out = do(`{"type":"daily_reminder","email":"a@b.c","currentDay":2}`)
	require.Equal(t, false, out["success"])
	require.Equal(t, []string{"progress:a@b.c", "reminder:a@b.c"}, rec.calls)
}
