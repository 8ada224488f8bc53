// Package notify sends PrepBuddy reminder and progress e-mails.
package notify

import (
	"context"
	"fmt"

	"github.com/comigor/prepbuddy/internal/logger"
)

// Notification types accepted by the notifications endpoint.
const (
	TypeDailyReminder  = "daily_reminder"
	TypeProgressUpdate = "progress_update"
)

// Notifier delivers user notifications.
type Notifier interface {
	DailyReminder(ctx context.Context, email string, currentDay int) error
	ProgressUpdate(ctx context.Context, email string, currentDay, completionRate, streak int) error
}

// Email is a rendered message.
type Email struct {
	Subject string
	HTML    string
}

// DailyReminderEmail renders the reminder for currentDay.
func DailyReminderEmail(currentDay int) Email {
	return Email{
		Subject: fmt.Sprintf("PrepBuddy Day %d Reminder", currentDay),
		HTML: fmt.Sprintf(`
        <h2>Time to tackle today's tasks!</h2>
        <p>Don't forget to complete your tasks for Day %d.</p>
        <p>Keep up the great work and maintain your streak! 💪</p>
      `, currentDay),
	}
}

// ProgressUpdateEmail renders the progress summary.
func ProgressUpdateEmail(currentDay, completionRate, streak int) Email {
	return Email{
		Subject: fmt.Sprintf("PrepBuddy Progress Update - Day %d", currentDay),
		HTML: fmt.Sprintf(`
        <h2>Your Progress Update</h2>
        <ul>
          <li>Current Day: %d/100</li>
          <li>Completion Rate: %d%%</li>
          <li>Current Streak: %d days</li>
        </ul>
        <p>Keep pushing forward! You're doing great! 🎯</p>
      `, currentDay, completionRate, streak),
	}
}

// Nop logs instead of sending. It is used when no mail key is configured.
type Nop struct{}

func (Nop) DailyReminder(_ context.Context, email string, currentDay int) error {
	logger.L.Info("daily reminder skipped; mail not configured", "email", email, "day", currentDay)
	return nil
}

func (Nop) ProgressUpdate(_ context.Context, email string, currentDay, completionRate, streak int) error {
	logger.L.Info("progress update skipped; mail not configured", "email", email, "day", currentDay, "rate", completionRate, "streak", streak)
	return nil
}
