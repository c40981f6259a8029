// Package validate holds the local input checks that run before any network
// call is made.
package validate

import (
	"net/mail"
	"strconv"
	"strings"
)

const (
	MinPasswordLen = 6
	MaxPasswordLen = 72
)

// Error is a locally detectable bad input, named after the offending field.
type Error struct {
	Field  string
	Reason string
}

func (e *Error) Error() string {
	return e.Field + ": " + e.Reason
}

func Failed(field, reason string) *Error {
	return &Error{Field: field, Reason: reason}
}

// Required trims value and fails when nothing remains.
func Required(field, value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", Failed(field, "must not be empty")
	}
	return value, nil
}

// Integer parses a numeric form field. The draft carries numbers as strings;
// anything not representable as an int is rejected here, before submission.
func Integer(field, value string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, Failed(field, "must be a whole number")
	}
	return n, nil
}

func Email(email string) error {
	if len(email) == 0 {
		return Failed("email", "must not be empty")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return Failed("email", "not a valid address")
	}
	return nil
}

func Password(password string) error {
	l := len(password)
	switch {
	case l == 0:
		return Failed("password", "must not be empty")
	case l < MinPasswordLen:
		return Failed("password", "too short; min "+strconv.Itoa(MinPasswordLen)+" characters")
	case l > MaxPasswordLen:
		return Failed("password", "too long; max "+strconv.Itoa(MaxPasswordLen)+" characters")
	}
	return nil
}
