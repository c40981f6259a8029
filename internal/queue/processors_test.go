package queue

import (
	"context"
	"testing"

	"go.uber.org/mock/gomock"

	"github.com/hyeonwoo/lessondesk/internal/domain"
	"github.com/hyeonwoo/lessondesk/internal/lesson"
	mock_remote "github.com/hyeonwoo/lessondesk/internal/mocks"
	"github.com/hyeonwoo/lessondesk/internal/remote"
)

var ctx = context.Background()

func repairJob() ChildRepairJob {
	return ChildRepairJob{
		ParentKey: 41,
		Discounts: []domain.Discount{{No: 41, Type: "early", Amount: 2000, CreatedBy: 3}},
		Contacts:  []domain.Contact{{No: 41, Type: "phone", Contact: "010-1234-5678", CreatedBy: 3}},
	}
}

func TestRepairInsertsMissingBatches(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mock_remote.NewMockStore(ctrl)
	q := &repairQueueImpl{store: store}
	job := repairJob()

	lookup := remote.Where(remote.Eq("no", int64(41)))
	gomock.InOrder(
		store.EXPECT().Select(gomock.Any(), "lesson_discount", lookup).Return(nil, nil),
		store.EXPECT().
			Insert(gomock.Any(), "lesson_discount", lesson.DiscountRecords(job.Discounts)).
			Return(lesson.DiscountRecords(job.Discounts), nil),
		store.EXPECT().Select(gomock.Any(), "lesson_contact", lookup).Return(nil, nil),
		store.EXPECT().
			Insert(gomock.Any(), "lesson_contact", lesson.ContactRecords(job.Contacts)).
			Return(lesson.ContactRecords(job.Contacts), nil),
	)

	if err := q.repair()(ctx, job); err != nil {
		t.Errorf("unexpected error: %s", err)
	}
}

// A batch written by an earlier attempt of the same job must not be sent
// again.
func TestRepairSkipsExistingBatches(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mock_remote.NewMockStore(ctrl)
	q := &repairQueueImpl{store: store}
	job := repairJob()

	lookup := remote.Where(remote.Eq("no", int64(41)))
	store.EXPECT().
		Select(gomock.Any(), "lesson_discount", lookup).
		Return(lesson.DiscountRecords(job.Discounts), nil)
	store.EXPECT().Select(gomock.Any(), "lesson_contact", lookup).Return(nil, nil)
	store.EXPECT().
		Insert(gomock.Any(), "lesson_contact", lesson.ContactRecords(job.Contacts)).
		Return(lesson.ContactRecords(job.Contacts), nil)

	if err := q.repair()(ctx, job); err != nil {
		t.Errorf("unexpected error: %s", err)
	}
}

func TestRepairPropagatesFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mock_remote.NewMockStore(ctrl)
	q := &repairQueueImpl{store: store}
	job := repairJob()
	job.Contacts = nil

	rejected := &remote.RequestError{Collection: "lesson_discount", Status: 500, Message: "boom"}
	store.EXPECT().Select(gomock.Any(), "lesson_discount", gomock.Any()).Return(nil, nil)
	store.EXPECT().Insert(gomock.Any(), "lesson_discount", gomock.Any()).Return(nil, rejected)

	// The error reaches the queue so the attempt is retried.
	if err := q.repair()(ctx, job); err == nil {
		t.Error("expected the insert failure to propagate")
	}
}

func TestChildRepairJobQueueConfig(t *testing.T) {
	cfg := ChildRepairJob{}.Config()
	if cfg.Name != ChildRepairQueue {
		t.Errorf("queue name = %q", cfg.Name)
	}
	if cfg.MaxAttempts < 2 {
		t.Error("repair must be retried at least once")
	}
}
