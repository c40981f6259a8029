// Package remote defines the contract with the hosted auth/storage service.
// The rest of the application depends on these interfaces only; the HTTP
// implementation lives in remote/httpapi and tests use generated mocks.
package remote

import (
	"context"
	"errors"
	"fmt"

	"github.com/hyeonwoo/lessondesk/internal/domain"
)

var ErrNotFound = errors.New("not found")

// Auth is the session side of the collaborator: credential operations plus
// change notifications. SignUp, SignInWithPassword and SignOut only mean
// "request accepted"; the resulting session transition is delivered through
// OnSessionChange, never as the call's return value.
type Auth interface {
	// GetSession returns the current session, or nil when nobody is
	// signed in.
	GetSession(ctx context.Context) (*domain.Session, error)
	// OnSessionChange registers fn for every subsequent session
	// transition, in issue order. The returned function unregisters it.
	OnSessionChange(fn func(*domain.Session)) (unsubscribe func())
	SignUp(ctx context.Context, email, password string) error
	SignInWithPassword(ctx context.Context, email, password string) error
	SignOut(ctx context.Context) error
}

// Store is the collection side of the collaborator: CRUD over named record
// collections. Insert returns the written records, including any
// server-assigned columns.
type Store interface {
	Select(ctx context.Context, collection string, q Query) ([]Record, error)
	Insert(ctx context.Context, collection string, records []Record) ([]Record, error)
	// Update patches every row matching q and returns the rows it
	// touched. A nil slice with a nil error means no row matched.
	Update(ctx context.Context, collection string, q Query, patch Record) ([]Record, error)
}

// AuthError is a credential operation the service rejected.
type AuthError struct {
	Status  int
	Message string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("auth: %s (status %d)", e.Message, e.Status)
}

// RequestError is a failed collection operation.
type RequestError struct {
	Collection string
	Status     int
	Message    string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("%s: %s (status %d)", e.Collection, e.Message, e.Status)
}
