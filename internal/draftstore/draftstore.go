// Package draftstore persists the in-progress lesson draft locally, so an
// interrupted editing session survives a restart. Drafts live in the local
// sqlite database, one per profile, as a JSON document.
package draftstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/hyeonwoo/lessondesk/internal/domain"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Save stores the draft for profileID, replacing any previous one.
func (s *Store) Save(ctx context.Context, profileID int64, draft domain.LessonDraft) error {
	body, err := json.Marshal(draft)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO lesson_drafts (profile_id, body, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT (profile_id)
		DO UPDATE SET body = excluded.body, updated_at = excluded.updated_at`,
		profileID, string(body), time.Now().UTC())
	return err
}

// Load returns the stored draft for profileID, or nil when there is none.
func (s *Store) Load(ctx context.Context, profileID int64) (*domain.LessonDraft, error) {
	var body string
	err := s.db.QueryRowContext(ctx,
		`SELECT body FROM lesson_drafts WHERE profile_id = ?`, profileID).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var draft domain.LessonDraft
	if err := json.Unmarshal([]byte(body), &draft); err != nil {
		return nil, err
	}
	return &draft, nil
}

// Clear removes the stored draft, typically after a successful submission.
func (s *Store) Clear(ctx context.Context, profileID int64) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM lesson_drafts WHERE profile_id = ?`, profileID)
	return err
}
