package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is the identity carried inside a Session, as issued by the remote
// auth service.
type User struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
}

// Session is the live proof of identity for the current user. It is owned
// exclusively by the session coordinator; everything else receives a
// read-only snapshot.
type Session struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	TokenType    string    `json:"token_type"`
	ExpiresAt    time.Time `json:"expires_at"`
	User         User      `json:"user"`
}

// Expired reports whether the access token has passed its expiry. A zero
// ExpiresAt means the issuer did not communicate one and the token is
// treated as live.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}

// Profile is the application-level identity record. UserID is nil while the
// profile slot is unclaimed; once linked it must match exactly one session's
// user id.
type Profile struct {
	ID        int64      `json:"id"`
	Nickname  string     `json:"nickname"`
	UserID    *uuid.UUID `json:"user_id"`
	CreatedAt time.Time  `json:"created_at"`
}

// Claimed reports whether a user has linked this profile.
func (p *Profile) Claimed() bool {
	return p.UserID != nil
}
