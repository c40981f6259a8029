// Package lesson persists the composite lesson entity: one parent record
// plus its discount and contact child collections, written as an ordered,
// non-atomic sequence with explicit partial-failure reporting.
package lesson

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/hyeonwoo/lessondesk/internal/domain"
	"github.com/hyeonwoo/lessondesk/internal/remote"
	"github.com/hyeonwoo/lessondesk/internal/validate"
)

const (
	lessonsCollection   = "lessons"
	discountsCollection = "lesson_discount"
	contactsCollection  = "lesson_contact"
)

// Submission outcomes as recorded by the metrics collector.
const (
	OutcomeOK           = "ok"
	OutcomeValidation   = "validation"
	OutcomeParentInsert = "parent_insert"
	OutcomePartial      = "partial"
)

// Recorder counts submission outcomes. Satisfied by metrics.Collector.
type Recorder interface {
	RecordSubmission(outcome string)
}

type nopRecorder struct{}

func (nopRecorder) RecordSubmission(string) {}

// Submitter runs the three-step write against the collaborator.
type Submitter struct {
	store   remote.Store
	metrics Recorder
}

func NewSubmitter(store remote.Store, metrics Recorder) *Submitter {
	if metrics == nil {
		metrics = nopRecorder{}
	}
	return &Submitter{store: store, metrics: metrics}
}

// parsedDraft is the draft after boundary validation: required scalars
// confirmed present and numeric fields parsed.
type parsedDraft struct {
	draft    domain.LessonDraft
	price    int
	discount []int
}

// Submit persists the draft on behalf of profile. Step 1 inserts the parent
// lesson; its server-assigned key is the only key the child batches may
// reference, so steps 2 and 3 start only after step 1 confirmed. Steps 2 and
// 3 are independent of each other and are both attempted even if one fails.
func (s *Submitter) Submit(ctx context.Context, draft domain.LessonDraft, profile *domain.Profile) (*domain.Lesson, error) {
	if profile == nil {
		s.metrics.RecordSubmission(OutcomeValidation)
		return nil, ErrUnauthenticated
	}

	parsed, err := parseDraft(draft)
	if err != nil {
		s.metrics.RecordSubmission(OutcomeValidation)
		return nil, err
	}

	parent, err := s.insertParent(ctx, parsed, profile.ID)
	if err != nil {
		s.metrics.RecordSubmission(OutcomeParentInsert)
		return nil, &ParentInsertError{Err: err}
	}

	partial := &PartialWriteError{ParentKey: parent.No}

	discounts := discountRows(parsed, parent.No, profile.ID)
	if len(discounts) > 0 {
		if err := s.insertDiscounts(ctx, discounts); err != nil {
			partial.FailedSteps = append(partial.FailedSteps, StepDiscounts)
			partial.Errs = append(partial.Errs, err)
			partial.Discounts = discounts
		}
	}

	contacts := contactRows(parsed.draft.Contacts, parent.No, profile.ID)
	if len(contacts) > 0 {
		if err := s.insertContacts(ctx, contacts); err != nil {
			partial.FailedSteps = append(partial.FailedSteps, StepContacts)
			partial.Errs = append(partial.Errs, err)
			partial.Contacts = contacts
		}
	}

	if len(partial.FailedSteps) > 0 {
		log.Error().Int64("no", parent.No).Strs("steps", partial.FailedSteps).
			Msg("lesson written with missing children")
		s.metrics.RecordSubmission(OutcomePartial)
		return nil, partial
	}

	s.metrics.RecordSubmission(OutcomeOK)
	return parent, nil
}

// parseDraft enforces every local precondition before a single network call
// is made: required scalars are present and price and the discount amounts
// are representable integers.
func parseDraft(draft domain.LessonDraft) (parsedDraft, error) {
	parsed := parsedDraft{draft: draft}

	required := []struct {
		field string
		value string
	}{
		{"title", draft.Title},
		{"instructor1", draft.Instructor1},
		{"start_datetime", draft.Start},
		{"end_datetime", draft.End},
		{"region", draft.Region},
		{"place", draft.Place},
		{"price", draft.Price},
		{"account", draft.Account},
	}
	for _, r := range required {
		if _, err := validate.Required(r.field, r.value); err != nil {
			return parsed, err
		}
	}

	price, err := validate.Integer("price", draft.Price)
	if err != nil {
		return parsed, err
	}
	parsed.price = price

	for i, d := range draft.Discounts {
		amount, err := validate.Integer(fmt.Sprintf("discounts[%d].amount", i), d.Amount)
		if err != nil {
			return parsed, err
		}
		parsed.discount = append(parsed.discount, amount)
	}

	return parsed, nil
}

func (s *Submitter) insertParent(ctx context.Context, parsed parsedDraft, profileID int64) (*domain.Lesson, error) {
	d := parsed.draft

	var instructor2 any
	if d.Instructor2 != "" {
		instructor2 = d.Instructor2
	}

	written, err := s.store.Insert(ctx, lessonsCollection, []remote.Record{{
		"title":          d.Title,
		"instructor1":    d.Instructor1,
		"instructor2":    instructor2,
		"start_datetime": d.Start,
		"end_datetime":   d.End,
		"region":         d.Region,
		"place":          d.Place,
		"price":          parsed.price,
		"account":        d.Account,
		"created_by":     profileID,
	}})
	if err != nil {
		return nil, err
	}
	if len(written) == 0 {
		return nil, remote.ErrNotFound
	}
	return lessonFromRecord(written[0])
}

func (s *Submitter) insertDiscounts(ctx context.Context, rows []domain.Discount) error {
	_, err := s.store.Insert(ctx, discountsCollection, DiscountRecords(rows))
	return err
}

func (s *Submitter) insertContacts(ctx context.Context, rows []domain.Contact) error {
	_, err := s.store.Insert(ctx, contactsCollection, ContactRecords(rows))
	return err
}

// DiscountRecords maps discount rows to their wire form. Shared with the
// repair queue, which re-sends failed batches.
func DiscountRecords(rows []domain.Discount) []remote.Record {
	records := make([]remote.Record, len(rows))
	for i, d := range rows {
		records[i] = remote.Record{
			"no":         d.No,
			"type":       d.Type,
			"condition":  d.Condition,
			"amount":     d.Amount,
			"created_by": d.CreatedBy,
		}
	}
	return records
}

func ContactRecords(rows []domain.Contact) []remote.Record {
	records := make([]remote.Record, len(rows))
	for i, c := range rows {
		var name any
		if c.Name != "" {
			name = c.Name
		}
		records[i] = remote.Record{
			"no":         c.No,
			"type":       c.Type,
			"contact":    c.Contact,
			"name":       name,
			"created_by": c.CreatedBy,
		}
	}
	return records
}

// discountRows tags every discount with the confirmed parent key. parentKey
// must come from the step-1 response, never from the client.
func discountRows(parsed parsedDraft, parentKey, profileID int64) []domain.Discount {
	rows := make([]domain.Discount, len(parsed.draft.Discounts))
	for i, d := range parsed.draft.Discounts {
		rows[i] = domain.Discount{
			No:        parentKey,
			Type:      d.Type,
			Condition: d.Condition,
			Amount:    parsed.discount[i],
			CreatedBy: profileID,
		}
	}
	return rows
}

func contactRows(drafts []domain.ContactDraft, parentKey, profileID int64) []domain.Contact {
	rows := make([]domain.Contact, len(drafts))
	for i, c := range drafts {
		rows[i] = domain.Contact{
			No:        parentKey,
			Type:      c.Type,
			Contact:   c.Contact,
			Name:      c.Name,
			CreatedBy: profileID,
		}
	}
	return rows
}
