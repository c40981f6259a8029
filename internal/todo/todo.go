// Package todo implements the personal task list. Rows are scoped to the
// owning session's user id; deletion is not offered.
package todo

import (
	"context"

	"github.com/hyeonwoo/lessondesk/internal/domain"
	"github.com/hyeonwoo/lessondesk/internal/remote"
	"github.com/hyeonwoo/lessondesk/internal/session"
	"github.com/hyeonwoo/lessondesk/internal/validate"
)

const todosCollection = "todos"

type Service struct {
	store remote.Store
}

func NewService(store remote.Store) *Service {
	return &Service{store: store}
}

// Fetch returns the session user's todos in creation order. A user with no
// todos gets an empty slice, not an error.
func (s *Service) Fetch(ctx context.Context, sess *domain.Session) ([]domain.Todo, error) {
	if sess == nil {
		return nil, session.ErrNoSession
	}

	records, err := s.store.Select(ctx, todosCollection,
		remote.Where(remote.Eq("user_id", sess.User.ID.String())).
			OrderedBy("created_at", true))
	if err != nil {
		return nil, err
	}

	todos := make([]domain.Todo, 0, len(records))
	for _, r := range records {
		t, err := fromRecord(r)
		if err != nil {
			return nil, err
		}
		todos = append(todos, *t)
	}
	return todos, nil
}

func (s *Service) Add(ctx context.Context, sess *domain.Session, text string) (*domain.Todo, error) {
	if sess == nil {
		return nil, session.ErrNoSession
	}
	text, err := validate.Required("text", text)
	if err != nil {
		return nil, err
	}

	written, err := s.store.Insert(ctx, todosCollection, []remote.Record{{
		"text":      text,
		"completed": false,
		"user_id":   sess.User.ID.String(),
	}})
	if err != nil {
		return nil, err
	}
	if len(written) == 0 {
		return nil, remote.ErrNotFound
	}
	return fromRecord(written[0])
}

// Toggle reads the current completed flag and writes its negation. The
// read-then-write is not atomic: two concurrent toggles race and the last
// write wins, silently discarding the other. Accepted limitation; no
// concurrency token is used.
func (s *Service) Toggle(ctx context.Context, id int64) (*domain.Todo, error) {
	records, err := s.store.Select(ctx, todosCollection, remote.Where(remote.Eq("id", id)))
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, remote.ErrNotFound
	}
	current, err := fromRecord(records[0])
	if err != nil {
		return nil, err
	}

	touched, err := s.store.Update(ctx, todosCollection,
		remote.Where(remote.Eq("id", id)),
		remote.Record{"completed": !current.Completed})
	if err != nil {
		return nil, err
	}
	if len(touched) == 0 {
		return nil, remote.ErrNotFound
	}
	return fromRecord(touched[0])
}

func (s *Service) EditText(ctx context.Context, id int64, text string) (*domain.Todo, error) {
	text, err := validate.Required("text", text)
	if err != nil {
		return nil, err
	}

	touched, err := s.store.Update(ctx, todosCollection,
		remote.Where(remote.Eq("id", id)),
		remote.Record{"text": text})
	if err != nil {
		return nil, err
	}
	if len(touched) == 0 {
		return nil, remote.ErrNotFound
	}
	return fromRecord(touched[0])
}

func fromRecord(r remote.Record) (*domain.Todo, error) {
	id, err := r.Int64("id")
	if err != nil {
		return nil, err
	}
	t := &domain.Todo{
		ID:        id,
		Text:      r.String("text"),
		Completed: r.Bool("completed"),
		CreatedAt: r.Time("created_at"),
	}
	if uid, ok := r.UUID("user_id"); ok {
		t.UserID = uid
	}
	return t, nil
}
