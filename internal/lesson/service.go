package lesson

import (
	"context"

	"github.com/hyeonwoo/lessondesk/internal/domain"
	"github.com/hyeonwoo/lessondesk/internal/remote"
)

// Service serves the lesson list view.
type Service struct {
	store remote.Store
}

func NewService(store remote.Store) *Service {
	return &Service{store: store}
}

// List returns every lesson, oldest first.
func (s *Service) List(ctx context.Context) ([]domain.Lesson, error) {
	records, err := s.store.Select(ctx, lessonsCollection,
		remote.Query{}.OrderedBy("created_at", true))
	if err != nil {
		return nil, err
	}

	lessons := make([]domain.Lesson, 0, len(records))
	for _, r := range records {
		l, err := lessonFromRecord(r)
		if err != nil {
			return nil, err
		}
		lessons = append(lessons, *l)
	}
	return lessons, nil
}

func lessonFromRecord(r remote.Record) (*domain.Lesson, error) {
	no, err := r.Int64("no")
	if err != nil {
		return nil, err
	}
	createdBy, err := r.Int64("created_by")
	if err != nil {
		return nil, err
	}
	price, err := r.Int64("price")
	if err != nil {
		return nil, err
	}

	return &domain.Lesson{
		No:          no,
		Title:       r.String("title"),
		Instructor1: r.String("instructor1"),
		Instructor2: r.String("instructor2"),
		Start:       r.String("start_datetime"),
		End:         r.String("end_datetime"),
		Region:      r.String("region"),
		Place:       r.String("place"),
		Price:       int(price),
		Account:     r.String("account"),
		CreatedBy:   createdBy,
		CreatedAt:   r.Time("created_at"),
	}, nil
}
