package session

import (
	"context"
	"errors"
	"strings"

	"github.com/hyeonwoo/lessondesk/internal/domain"
	"github.com/hyeonwoo/lessondesk/internal/remote"
	"github.com/hyeonwoo/lessondesk/internal/validate"
)

const profilesCollection = "profiles"

// ErrProfileTaken means another session linked the profile first. No retry
// is attempted; the claim is a single conditional update.
var ErrProfileTaken = errors.New("profile already claimed")

// ResolveProfile maps the session's user id to its Profile, creating the
// mapping on first use. It is idempotent: the lookup runs before any insert,
// so resolving the same session twice yields the same profile id.
func (c *Coordinator) ResolveProfile(ctx context.Context, s *domain.Session) (*domain.Profile, error) {
	if s == nil {
		return nil, ErrNoSession
	}

	records, err := c.store.Select(ctx, profilesCollection,
		remote.Where(remote.Eq("user_id", s.User.ID.String())))
	if err != nil {
		return nil, err
	}
	if len(records) > 0 {
		return profileFromRecord(records[0])
	}

	created, err := c.store.Insert(ctx, profilesCollection, []remote.Record{{
		"nickname": defaultNickname(s.User.Email),
		"user_id":  s.User.ID.String(),
	}})
	if err != nil {
		return nil, err
	}
	if len(created) == 0 {
		return nil, remote.ErrNotFound
	}
	return profileFromRecord(created[0])
}

// Profiles lists every profile slot, claimed or not, oldest first.
func (c *Coordinator) Profiles(ctx context.Context) ([]domain.Profile, error) {
	records, err := c.store.Select(ctx, profilesCollection,
		remote.Query{}.OrderedBy("created_at", true))
	if err != nil {
		return nil, err
	}

	profiles := make([]domain.Profile, 0, len(records))
	for _, r := range records {
		p, err := profileFromRecord(r)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, *p)
	}
	return profiles, nil
}

// CreateProfile adds an unclaimed profile slot.
func (c *Coordinator) CreateProfile(ctx context.Context, nickname string) (*domain.Profile, error) {
	nickname, err := validate.Required("nickname", nickname)
	if err != nil {
		return nil, err
	}

	created, err := c.store.Insert(ctx, profilesCollection, []remote.Record{{
		"nickname": nickname,
		"user_id":  nil,
	}})
	if err != nil {
		return nil, err
	}
	if len(created) == 0 {
		return nil, remote.ErrNotFound
	}
	return profileFromRecord(created[0])
}

// ClaimProfile links an unclaimed profile to the session's user. First claim
// wins: the update is filtered on user_id being null, which the collaborator
// applies atomically, so a lost race surfaces as zero matched rows rather
// than an overwrite.
func (c *Coordinator) ClaimProfile(ctx context.Context, s *domain.Session, profileID int64) (*domain.Profile, error) {
	if s == nil {
		return nil, ErrNoSession
	}

	touched, err := c.store.Update(ctx, profilesCollection,
		remote.Where(remote.Eq("id", profileID), remote.IsNull("user_id")),
		remote.Record{"user_id": s.User.ID.String()})
	if err != nil {
		return nil, err
	}
	if len(touched) == 0 {
		return nil, ErrProfileTaken
	}
	return profileFromRecord(touched[0])
}

func profileFromRecord(r remote.Record) (*domain.Profile, error) {
	id, err := r.Int64("id")
	if err != nil {
		return nil, err
	}
	p := &domain.Profile{
		ID:        id,
		Nickname:  r.String("nickname"),
		CreatedAt: r.Time("created_at"),
	}
	if uid, ok := r.UUID("user_id"); ok {
		p.UserID = &uid
	}
	return p, nil
}

// defaultNickname derives the first nickname for a lazily created profile
// from the address the user signed up with.
func defaultNickname(email string) string {
	if at := strings.IndexByte(email, '@'); at > 0 {
		return email[:at]
	}
	return email
}
