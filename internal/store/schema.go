package store

import (
	"context"
	"fmt"
)

// Statements use the subset of DDL both SQLite and PostgreSQL accept.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS user_profiles (
		user_id TEXT PRIMARY KEY,
		display_name TEXT NOT NULL DEFAULT '',
		bio TEXT NOT NULL DEFAULT '',
		avatar_url TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS user_settings (
		user_id TEXT PRIMARY KEY,
		email_notifications BOOLEAN NOT NULL,
		daily_reminders BOOLEAN NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS categories (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		name TEXT NOT NULL,
		color TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS tasks (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		category TEXT NOT NULL,
		day INTEGER NOT NULL,
		completed BOOLEAN NOT NULL,
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS tasks_user_day ON tasks (user_id, day)`,
	`CREATE TABLE IF NOT EXISTS progress (
		user_id TEXT PRIMARY KEY,
		current_day INTEGER NOT NULL,
		streak INTEGER NOT NULL,
		last_completed TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS quiz_results (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		category TEXT NOT NULL,
		difficulty TEXT NOT NULL,
		score INTEGER NOT NULL,
		total_questions INTEGER NOT NULL,
		correct_answers INTEGER NOT NULL,
		time_spent INTEGER NOT NULL,
		streak INTEGER NOT NULL,
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS interview_sessions (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		category TEXT NOT NULL,
		difficulty TEXT NOT NULL,
		interview_type TEXT NOT NULL,
		platform_focus TEXT NOT NULL,
		questions TEXT NOT NULL,
		responses TEXT NOT NULL,
		overall_score DOUBLE PRECISION NOT NULL,
		started_at TIMESTAMP NOT NULL,
		completed_at TIMESTAMP,
		hints_used INTEGER NOT NULL,
		code_submissions TEXT NOT NULL,
		performance_metrics TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS chat_history (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		user_message TEXT NOT NULL,
		ai_response TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS chat_history_user ON chat_history (user_id, created_at)`,
}

func (db *DB) migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
