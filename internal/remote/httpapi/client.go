// Package httpapi implements the remote contract against a Supabase-style
// REST backend: GoTrue under /auth/v1 for sessions and PostgREST under
// /rest/v1 for collection CRUD.
package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/hyeonwoo/lessondesk/internal/domain"
	"github.com/hyeonwoo/lessondesk/internal/remote"
)

const requestsPerSecond = 10

type subscriber struct {
	id int
	fn func(*domain.Session)
}

// Client talks to the remote service. It also owns the client-side session
// mirror: like the hosted service's own JS client, it synthesizes session
// change notifications from its auth calls and a token refresh timer, since
// the REST surface has no push channel.
type Client struct {
	base    *url.URL
	apiKey  string
	client  *http.Client
	limiter *rate.Limiter

	mu      sync.Mutex
	session *domain.Session
	subs    []subscriber
	nextID  int

	// emitMu serializes notifications so subscribers observe them in
	// issue order.
	emitMu sync.Mutex

	refreshEvery time.Duration
	stop         chan struct{}
	stopOnce     sync.Once
}

func New(baseURL, apiKey string, client *http.Client, refreshEvery time.Duration) (*Client, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, err
	}
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}

	c := &Client{
		base:         base,
		apiKey:       apiKey,
		client:       client,
		limiter:      rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond),
		refreshEvery: refreshEvery,
		stop:         make(chan struct{}),
	}

	if refreshEvery > 0 {
		go c.refreshLoop()
	}
	return c, nil
}

// Close stops the background refresh timer. Registered callbacks receive no
// further notifications once it returns.
func (c *Client) Close() {
	c.stopOnce.Do(func() { close(c.stop) })
}

func (c *Client) GetSession(ctx context.Context) (*domain.Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return nil, nil
	}
	s := *c.session
	return &s, nil
}

func (c *Client) OnSessionChange(fn func(*domain.Session)) func() {
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

// setSession replaces the mirrored session and notifies every registered
// callback before the next notification may start.
func (c *Client) setSession(s *domain.Session) {
	c.emitMu.Lock()
	defer c.emitMu.Unlock()

	c.mu.Lock()
	c.session = s
	subs := make([]subscriber, len(c.subs))
	copy(subs, c.subs)
	c.mu.Unlock()

	for _, sub := range subs {
		var snapshot *domain.Session
		if s != nil {
			copied := *s
			snapshot = &copied
		}
		sub.fn(snapshot)
	}
}

func (c *Client) refreshLoop() {
	ticker := time.NewTicker(c.refreshEvery)
	defer ticker.Stop()
	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			c.mu.Lock()
			current := c.session
			c.mu.Unlock()
			if current == nil {
				continue
			}
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			err := c.refreshSession(ctx, current.RefreshToken)
			cancel()
			if err != nil {
				// Keep the last known session; it may still be
				// valid and the next tick will retry.
				log.Warn().Err(err).Msg("token refresh failed")
			}
		}
	}
}

// do performs one rate-limited round trip and returns the raw body for 2xx
// responses. body may be nil.
func (c *Client) do(ctx context.Context, method string, u *url.URL, body any, headers http.Header) ([]byte, int, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, 0, err
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, 0, err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return nil, 0, err
	}

	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.bearer())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, vs := range headers {
		for _, v := range vs {
			req.Header.Set(k, v)
		}
	}

	res, err := c.client.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer res.Body.Close()

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, res.StatusCode, err
	}
	return data, res.StatusCode, nil
}

// bearer returns the session token when signed in, the anon key otherwise.
func (c *Client) bearer() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session != nil {
		return c.session.AccessToken
	}
	return c.apiKey
}

// errorMessage digs the human-readable message out of the service's error
// body, which uses different keys on the auth and rest surfaces.
func errorMessage(data []byte) string {
	var payload struct {
		Message          string `json:"message"`
		Msg              string `json:"msg"`
		ErrorDescription string `json:"error_description"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return string(data)
	}
	switch {
	case payload.Message != "":
		return payload.Message
	case payload.Msg != "":
		return payload.Msg
	case payload.ErrorDescription != "":
		return payload.ErrorDescription
	}
	return string(data)
}

var _ remote.Auth = (*Client)(nil)
var _ remote.Store = (*Client)(nil)
