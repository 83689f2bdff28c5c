package contact

import (
	"context"
	"fmt"
	"time"

	"elearning/internal/adapters/storage"
	domain "elearning/internal/domain/contact"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.Querier
}

// NewSQLiteStore creates a new contact message store.
func NewSQLiteStore(db storage.Querier) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Create stores a contact message.
// PRE: m has been validated, m.CreatedAt is set
// POST: A row exists with the returned id
func (s *SQLiteStore) Create(ctx context.Context, m domain.Message) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO contacts (sender_name, sender_email, subject, message, created_at) VALUES (?, ?, ?, ?, ?)",
		m.SenderName, m.SenderEmail, m.Subject, m.Body, m.CreatedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return 0, fmt.Errorf("insert contact message: %w", err)
	}
	return res.LastInsertId()
}

// ListRecent returns the newest messages first.
// PRE: limit > 0
func (s *SQLiteStore) ListRecent(ctx context.Context, limit int) ([]domain.Message, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, sender_name, sender_email, subject, message, created_at FROM contacts ORDER BY id DESC LIMIT ?",
		limit)
	if err != nil {
		return nil, fmt.Errorf("list contact messages: %w", err)
	}
	defer rows.Close()

	var out []domain.Message
	for rows.Next() {
		var m domain.Message
		var createdAt string
		if err := rows.Scan(&m.ID, &m.SenderName, &m.SenderEmail, &m.Subject, &m.Body, &createdAt); err != nil {
			return nil, err
		}
		m.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		out = append(out, m)
	}
	return out, rows.Err()
}
