// Package queue reconciles partial writes in the background. When a lesson's
// parent insert succeeded but a child batch failed, the unwritten rows are
// queued here and re-sent with bounded retries; the orphaned parent is never
// deleted.
package queue

import (
	"context"

	"github.com/mikestefanello/backlite"
	"github.com/rs/zerolog/log"

	"github.com/hyeonwoo/lessondesk/internal/domain"
	"github.com/hyeonwoo/lessondesk/internal/remote"
)

type RepairQueue interface {
	// EnqueueChildRepair schedules the missing child rows of parentKey
	// for re-insertion.
	EnqueueChildRepair(parentKey int64, discounts []domain.Discount, contacts []domain.Contact) error
}

type repairQueueImpl struct {
	store  remote.Store
	queues *backlite.Client
}

func New(ctx context.Context, store remote.Store, blClient *backlite.Client) RepairQueue {
	q := &repairQueueImpl{
		store:  store,
		queues: blClient,
	}
	q.register()
	q.queues.Start(ctx)
	log.Info().Msg("started repair queue")
	return q
}

func (q *repairQueueImpl) EnqueueChildRepair(parentKey int64, discounts []domain.Discount, contacts []domain.Contact) error {
	log.Debug().Int64("no", parentKey).
		Int("discounts", len(discounts)).
		Int("contacts", len(contacts)).
		Msg("enqueueing child repair task")

	task := ChildRepairJob{
		ParentKey: parentKey,
		Discounts: discounts,
		Contacts:  contacts,
	}
	_, err := q.queues.Add(task).Save()
	return err
}
