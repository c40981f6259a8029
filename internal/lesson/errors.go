package lesson

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hyeonwoo/lessondesk/internal/domain"
)

// ErrUnauthenticated is returned when a submission arrives without a
// resolved profile.
var ErrUnauthenticated = errors.New("a signed-in profile is required")

// Step names match the collections they write to.
const (
	StepDiscounts = "lesson_discount"
	StepContacts  = "lesson_contact"
)

// ParentInsertError means step 1 failed: nothing was written and no child
// batch was attempted.
type ParentInsertError struct {
	Err error
}

func (e *ParentInsertError) Error() string {
	return fmt.Sprintf("lesson insert failed, nothing written: %v", e.Err)
}

func (e *ParentInsertError) Unwrap() error {
	return e.Err
}

// PartialWriteError means the parent lesson exists durably under ParentKey
// but one or more child batches failed. There is no rollback; the caller
// must surface the key so the missing children can be reconciled. The failed
// rows are carried along so a repair path can re-send exactly them.
type PartialWriteError struct {
	ParentKey   int64
	FailedSteps []string
	Errs        []error

	Discounts []domain.Discount
	Contacts  []domain.Contact
}

func (e *PartialWriteError) Error() string {
	return fmt.Sprintf("lesson %d written, but child steps failed: %s: %v",
		e.ParentKey, strings.Join(e.FailedSteps, ", "), errors.Join(e.Errs...))
}

func (e *PartialWriteError) Unwrap() []error {
	return e.Errs
}
