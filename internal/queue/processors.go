package queue

import (
	"context"

	"github.com/mikestefanello/backlite"
	"github.com/rs/zerolog/log"

	"github.com/hyeonwoo/lessondesk/internal/lesson"
	"github.com/hyeonwoo/lessondesk/internal/remote"
)

func (q *repairQueueImpl) register() {
	repairQueue := backlite.NewQueue[ChildRepairJob](q.repair())
	q.queues.Register(repairQueue)
}

// repair re-inserts the missing child batches. A batch insert is atomic on
// the collaborator side, so a batch whose rows already exist (from a prior
// attempt of this job) is detected by a single lookup and skipped rather
// than duplicated.
func (q *repairQueueImpl) repair() func(context.Context, ChildRepairJob) error {
	return func(ctx context.Context, task ChildRepairJob) error {
		log.Debug().Int64("no", task.ParentKey).Msg("repairing missing lesson children")

		if len(task.Discounts) > 0 {
			done, err := q.batchExists(ctx, "lesson_discount", task.ParentKey)
			if err != nil {
				return err
			}
			if !done {
				if _, err := q.store.Insert(ctx, "lesson_discount", lesson.DiscountRecords(task.Discounts)); err != nil {
					return err
				}
			}
		}

		if len(task.Contacts) > 0 {
			done, err := q.batchExists(ctx, "lesson_contact", task.ParentKey)
			if err != nil {
				return err
			}
			if !done {
				if _, err := q.store.Insert(ctx, "lesson_contact", lesson.ContactRecords(task.Contacts)); err != nil {
					return err
				}
			}
		}

		log.Info().Int64("no", task.ParentKey).Msg("lesson children repaired")
		return nil
	}
}

func (q *repairQueueImpl) batchExists(ctx context.Context, collection string, parentKey int64) (bool, error) {
	rows, err := q.store.Select(ctx, collection, remote.Where(remote.Eq("no", parentKey)))
	if err != nil {
		return false, err
	}
	return len(rows) > 0, nil
}
