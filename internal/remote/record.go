package remote

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Record is an untyped row as it crosses the wire. Callers parse it into the
// tagged domain types at the boundary; the accessors below cover the value
// shapes encoding/json produces.
type Record map[string]any

func (r Record) Int64(key string) (int64, error) {
	switch v := r[key].(type) {
	case float64:
		return int64(v), nil
	case int64:
		return v, nil
	case int:
		return int64(v), nil
	}
	return 0, fmt.Errorf("record field %q is not a number", key)
}

func (r Record) String(key string) string {
	s, _ := r[key].(string)
	return s
}

func (r Record) Bool(key string) bool {
	b, _ := r[key].(bool)
	return b
}

func (r Record) Time(key string) time.Time {
	s, ok := r[key].(string)
	if !ok {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// UUID returns the parsed value and whether the field held a valid,
// non-null uuid.
func (r Record) UUID(key string) (uuid.UUID, bool) {
	s, ok := r[key].(string)
	if !ok {
		return uuid.UUID{}, false
	}
	id, err := uuid.Parse(s)
	return id, err == nil
}

// Filter is a single predicate on a column. Supported operators are Eq and
// Is (the latter for null checks), which is all the application needs.
type Filter struct {
	Column string
	Op     string
	Value  any
}

const (
	OpEq = "eq"
	OpIs = "is"
)

func Eq(column string, value any) Filter {
	return Filter{Column: column, Op: OpEq, Value: value}
}

func IsNull(column string) Filter {
	return Filter{Column: column, Op: OpIs, Value: nil}
}

// Query narrows and orders a Select or Update.
type Query struct {
	Filters   []Filter
	OrderBy   string
	Ascending bool
}

func Where(filters ...Filter) Query {
	return Query{Filters: filters}
}

func (q Query) OrderedBy(column string, ascending bool) Query {
	q.OrderBy = column
	q.Ascending = ascending
	return q
}
