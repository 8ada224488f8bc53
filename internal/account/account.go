// Package account manages users, their public profile and notification
// settings.
package account

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/comigor/prepbuddy/internal/store"
)

// ErrNotFound is returned when a user has no row.
var ErrNotFound = errors.New("user not found")

type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

type Profile struct {
	UserID      string    `json:"user_id"`
	DisplayName string    `json:"display_name"`
	Bio         string    `json:"bio"`
	AvatarURL   string    `json:"avatar_url"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ProfileUpdate carries the editable profile fields. Nil leaves a field as is.
type ProfileUpdate struct {
	DisplayName *string `json:"display_name"`
	Bio         *string `json:"bio"`
	AvatarURL   *string `json:"avatar_url"`
}

type Settings struct {
	EmailNotifications bool `json:"email_notifications"`
	DailyReminders     bool `json:"daily_reminders"`
}

// DefaultSettings enables every notification.
var DefaultSettings = Settings{EmailNotifications: true, DailyReminders: true}

// Querier is implemented by *store.DB and *store.Tx.
type Querier interface {
	Exec(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRow(ctx context.Context, query string, args ...any) *sql.Row
}

type Service struct {
	db  *store.DB
	now func() time.Time
}

func New(db *store.DB) *Service {
	return &Service{db: db, now: func() time.Time { return time.Now().UTC() }}
}

// EnsureUser inserts the user or refreshes its e-mail. An empty e-mail keeps
// the stored one.
func EnsureUser(ctx context.Context, q Querier, id, email string, now time.Time) error {
	_, err := q.Exec(ctx, `INSERT INTO users (id, email, created_at) VALUES (?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET email = CASE WHEN excluded.email = '' THEN users.email ELSE excluded.email END`,
		id, email, now)
	if err != nil {
		return fmt.Errorf("upsert user: %w", err)
	}
	return nil
}

// EnsureSettings creates the default settings row when missing.
func EnsureSettings(ctx context.Context, q Querier, userID string) error {
	_, err := q.Exec(ctx, `INSERT INTO user_settings (user_id, email_notifications, daily_reminders) VALUES (?, ?, ?)
		ON CONFLICT (user_id) DO NOTHING`,
		userID, DefaultSettings.EmailNotifications, DefaultSettings.DailyReminders)
	if err != nil {
		return fmt.Errorf("create settings: %w", err)
	}
	return nil
}

// LoadSettings reads a user's settings, defaulting when no row exists.
func LoadSettings(ctx context.Context, q Querier, userID string) (Settings, error) {
	var s Settings
	err := q.QueryRow(ctx, `SELECT email_notifications, daily_reminders FROM user_settings WHERE user_id = ?`, userID).
		Scan(&s.EmailNotifications, &s.DailyReminders)
	if errors.Is(err, sql.ErrNoRows) {
		return DefaultSettings, nil
	}
	if err != nil {
		return Settings{}, fmt.Errorf("read settings: %w", err)
	}
	return s, nil
}

func (s *Service) EnsureUser(ctx context.Context, id, email string) error {
	return EnsureUser(ctx, s.db, id, email, s.now())
}

// User returns the stored user.
func (s *Service) User(ctx context.Context, id string) (User, error) {
	var u User
	err := s.db.QueryRow(ctx, `SELECT id, email, created_at FROM users WHERE id = ?`, id).
		Scan(&u.ID, &u.Email, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrNotFound
	}
	if err != nil {
		return User{}, fmt.Errorf("read user: %w", err)
	}
	return u, nil
}

// Profile returns the user's profile, creating an empty one on first access.
func (s *Service) Profile(ctx context.Context, userID string) (Profile, error) {
	var p Profile
	err := s.db.WithTx(ctx, func(tx *store.Tx) error {
		now := s.now()
		if err := EnsureUser(ctx, tx, userID, "", now); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `INSERT INTO user_profiles (user_id, created_at, updated_at) VALUES (?, ?, ?)
			ON CONFLICT (user_id) DO NOTHING`, userID, now, now); err != nil {
			return fmt.Errorf("create profile: %w", err)
		}
		return tx.QueryRow(ctx, `SELECT user_id, display_name, bio, avatar_url, created_at, updated_at FROM user_profiles WHERE user_id = ?`, userID).
			Scan(&p.UserID, &p.DisplayName, &p.Bio, &p.AvatarURL, &p.CreatedAt, &p.UpdatedAt)
	})
	if err != nil {
		return Profile{}, err
	}
	return p, nil
}

// UpdateProfile applies u and bumps updated_at.
func (s *Service) UpdateProfile(ctx context.Context, userID string, u ProfileUpdate) (Profile, error) {
	p, err := s.Profile(ctx, userID)
	if err != nil {
		return Profile{}, err
	}
	if u.DisplayName != nil {
		p.DisplayName = *u.DisplayName
	}
	if u.Bio != nil {
		p.Bio = *u.Bio
	}
	if u.AvatarURL != nil {
		p.AvatarURL = *u.AvatarURL
	}
	p.UpdatedAt = s.now()
	if _, err := s.db.Exec(ctx, `UPDATE user_profiles SET display_name = ?, bio = ?, avatar_url = ?, updated_at = ? WHERE user_id = ?`,
		p.DisplayName, p.Bio, p.AvatarURL, p.UpdatedAt, userID); err != nil {
		return Profile{}, fmt.Errorf("update profile: %w", err)
	}
	return p, nil
}

func (s *Service) Settings(ctx context.Context, userID string) (Settings, error) {
	return LoadSettings(ctx, s.db, userID)
}

// UpdateSettings stores the full settings row.
func (s *Service) UpdateSettings(ctx context.Context, userID string, set Settings) error {
	_, err := s.db.Exec(ctx, `INSERT INTO user_settings (user_id, email_notifications, daily_reminders) VALUES (?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET email_notifications = excluded.email_notifications, daily_reminders = excluded.daily_reminders`,
		userID, set.EmailNotifications, set.DailyReminders)
	if err != nil {
		return fmt.Errorf("update settings: %w", err)
	}
	return nil
}
