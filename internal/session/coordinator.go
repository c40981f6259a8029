// Package session owns the single authoritative session value and fans its
// transitions out to every dependent view.
package session

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/hyeonwoo/lessondesk/internal/domain"
	"github.com/hyeonwoo/lessondesk/internal/remote"
	"github.com/hyeonwoo/lessondesk/internal/validate"
)

var (
	ErrNoSession          = errors.New("no active session")
	ErrAlreadyInitialized = errors.New("coordinator initialized twice")
)

type subscriber struct {
	id int
	fn func(*domain.Session)
}

// Coordinator mirrors the collaborator's session and is the only writer of
// it; every other component reads snapshots. Transitions are delivered to
// subscribers one at a time, in collaborator order, by a single dispatch
// goroutine.
type Coordinator struct {
	auth  remote.Auth
	store remote.Store

	mu          sync.RWMutex
	current     *domain.Session
	subs        []subscriber
	nextID      int
	initialized bool

	events      chan *domain.Session
	done        chan struct{}
	closeOnce   sync.Once
	unsubscribe func()
}

func New(auth remote.Auth, store remote.Store) *Coordinator {
	c := &Coordinator{
		auth:   auth,
		store:  store,
		events: make(chan *domain.Session),
		done:   make(chan struct{}),
	}
	go c.dispatch()
	c.unsubscribe = auth.OnSessionChange(func(s *domain.Session) {
		select {
		case c.events <- s:
		case <-c.done:
		}
	})
	return c
}

// Initialize asks the collaborator for an existing session. It must be
// called exactly once, before any dependent read.
func (c *Coordinator) Initialize(ctx context.Context) (*domain.Session, error) {
	c.mu.Lock()
	if c.initialized {
		c.mu.Unlock()
		return nil, ErrAlreadyInitialized
	}
	c.initialized = true
	c.mu.Unlock()

	s, err := c.auth.GetSession(ctx)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.current = s
	c.mu.Unlock()
	return s, nil
}

// Current returns a read-only snapshot of the session, or nil when nobody is
// signed in.
func (c *Coordinator) Current() *domain.Session {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.current == nil {
		return nil
	}
	s := *c.current
	return &s
}

// Subscribe registers fn for every subsequent session transition. Delivery
// is synchronous and uncoalesced; the returned function unregisters fn.
func (c *Coordinator) Subscribe(fn func(*domain.Session)) func() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nextID++
	id := c.nextID
	c.subs = append(c.subs, subscriber{id: id, fn: fn})

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		for i, s := range c.subs {
			if s.id == id {
				c.subs = append(c.subs[:i], c.subs[i+1:]...)
				return
			}
		}
	}
}

func (c *Coordinator) dispatch() {
	for {
		select {
		case <-c.done:
			return
		case s := <-c.events:
			c.mu.Lock()
			c.current = s
			subs := make([]subscriber, len(c.subs))
			copy(subs, c.subs)
			c.mu.Unlock()

			for _, sub := range subs {
				c.deliver(sub, s)
			}
		}
	}
}

// deliver invokes one subscriber. A panicking handler must not take down the
// dispatch loop or starve the handlers after it.
func (c *Coordinator) deliver(sub subscriber, s *domain.Session) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Any("panic", r).Msg("session subscriber panicked")
		}
	}()
	var snapshot *domain.Session
	if s != nil {
		copied := *s
		snapshot = &copied
	}
	sub.fn(snapshot)
}

// SignUp forwards the registration request. A confirmation mismatch is
// rejected locally, without contacting the collaborator. Success only means
// the request was accepted; the session transition arrives through the
// subscription, not here.
func (c *Coordinator) SignUp(ctx context.Context, email, password, confirm string) error {
	if password != confirm {
		return validate.Failed("password_confirm", "does not match password")
	}
	return c.auth.SignUp(ctx, email, password)
}

func (c *Coordinator) SignIn(ctx context.Context, email, password string) error {
	return c.auth.SignInWithPassword(ctx, email, password)
}

func (c *Coordinator) SignOut(ctx context.Context) error {
	return c.auth.SignOut(ctx)
}

// Close unregisters from the collaborator and stops dispatch. Notifications
// arriving afterwards are discarded.
func (c *Coordinator) Close() {
	c.closeOnce.Do(func() {
		if c.unsubscribe != nil {
			c.unsubscribe()
		}
		close(c.done)
	})
}
