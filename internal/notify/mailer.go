package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/comigor/prepbuddy/internal/config"
)

// Mailer sends e-mails through a Resend-compatible HTTP API.
type Mailer struct {
	cfg    config.MailConfig
	client *http.Client
}

// NewMailer creates a new Mailer. A nil client uses a default http.Client.
func NewMailer(cfg config.MailConfig, client *http.Client) *Mailer {
	if client == nil {
		client = &http.Client{}
	}
	return &Mailer{cfg: cfg, client: client}
}

// New returns a Mailer when an API key is configured and Nop otherwise.
func New(cfg config.MailConfig) Notifier {
	if cfg.APIKey == "" {
		return Nop{}
	}
	return NewMailer(cfg, nil)
}

type sendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

// Send delivers e to a single recipient.
func (m *Mailer) Send(ctx context.Context, to string, e Email) error {
	url := fmt.Sprintf("%s/emails", strings.TrimRight(m.cfg.BaseURL, "/"))

	body, err := json.Marshal(sendRequest{From: m.cfg.From, To: []string{to}, Subject: e.Subject, HTML: e.HTML})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return err
	}

	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", m.cfg.APIKey))
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	return nil
}

func (m *Mailer) DailyReminder(ctx context.Context, email string, currentDay int) error {
	return m.Send(ctx, email, DailyReminderEmail(currentDay))
}

func (m *Mailer) ProgressUpdate(ctx context.Context, email string, currentDay, completionRate, streak int) error {
	return m.Send(ctx, email, ProgressUpdateEmail(currentDay, completionRate, streak))
}
