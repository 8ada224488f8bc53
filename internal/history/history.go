// Package history persists chat exchanges in the chat_history table.
// When no database is available, or a write fails, records are still kept in
// memory so List keeps answering for the lifetime of the process.
package history

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/comigor/prepbuddy/internal/logger"
	"github.com/comigor/prepbuddy/internal/store"
)

// Store saves and lists chat records.
type Store struct {
	db *store.DB

	mu      sync.Mutex
	records []Record // in-memory fallback
}

// New returns a Store backed by db. A nil db keeps everything in memory.
func New(db *store.DB) *Store {
	if db == nil {
		logger.L.Warn("no database configured; using in-memory chat history")
	}
	return &Store{db: db}
}

// Save persists rec and always keeps an in-memory copy. The returned error
// reports a database failure; the record is still listed from memory.
func (s *Store) Save(ctx context.Context, rec Record) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	var err error
	if s.db != nil {
		_, err = s.db.Exec(ctx, `INSERT INTO chat_history (id, user_id, user_message, ai_response, created_at) VALUES (?, ?, ?, ?, ?)`,
			rec.ID, rec.UserID, rec.UserMessage, rec.AIResponse, rec.CreatedAt)
		if err != nil {
			err = fmt.Errorf("store chat history: %w", err)
		}
	}

	s.mu.Lock()
	s.records = append(s.records, rec)
	s.mu.Unlock()
	return err
}

// List returns the latest limit records of a user in chronological order.
// limit <= 0 returns everything.
func (s *Store) List(ctx context.Context, userID string, limit int) ([]Record, error) {
	if s.db != nil {
		out, err := s.listDB(ctx, userID, limit)
		if err == nil {
			return out, nil
		}
		logger.L.Error("failed to read chat history; falling back to memory", "error", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Record
	for _, r := range s.records {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}

func (s *Store) listDB(ctx context.Context, userID string, limit int) ([]Record, error) {
	query := `SELECT id, user_id, user_message, ai_response, created_at FROM chat_history WHERE user_id = ? ORDER BY created_at DESC`
	args := []any{userID}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.ID, &r.UserID, &r.UserMessage, &r.AIResponse, &r.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	// newest first from the query; flip to chronological
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}
