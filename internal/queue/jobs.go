package queue

import (
	"time"

	"github.com/mikestefanello/backlite"

	"github.com/hyeonwoo/lessondesk/internal/domain"
)

const ChildRepairQueue = "ChildRepair"

// ChildRepairJob carries the confirmed parent key and the child rows that
// never made it, so the processor needs no lookup to know what to re-send.
type ChildRepairJob struct {
	ParentKey int64
	Discounts []domain.Discount
	Contacts  []domain.Contact
}

func (j ChildRepairJob) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        ChildRepairQueue,
		MaxAttempts: 5,
		Backoff:     5 * time.Second,
		Timeout:     10 * time.Second,
		Retention: &backlite.Retention{
			Duration:   12 * time.Hour,
			OnlyFailed: false,
			Data: &backlite.RetainData{
				OnlyFailed: true,
			},
		},
	}
}
