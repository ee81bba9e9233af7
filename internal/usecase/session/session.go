package session

import (
	"sync"
	"time"

	"jobboard/internal/domain/profile"
	"jobboard/internal/domain/user"

	"github.com/google/uuid"
)

// Snapshot is the header-facing view of a session. A nil Identity means
// signed out.
type Snapshot struct {
	Identity *user.Identity   `json:"identity"`
	Profile  *profile.Profile `json:"profile"`
}

func (s Snapshot) SignedIn() bool {
	return s.Identity != nil
}

// Session holds the identity and profile of one signed-in token.
type Session struct {
	mu       sync.RWMutex
	id        uuid.UUID
	expiresAt time.Time
	identity  *user.Identity
	profile   *profile.Profile
}

func newSession(id uuid.UUID, expiresAt time.Time, ident user.Identity, p profile.Profile) *Session {
	return &Session{id: id, expiresAt: expiresAt, identity: &ident, profile: &p}
}

func (s *Session) ID() uuid.UUID {
	if s == nil {
		return uuid.Nil
	}
	return s.id
}

// ExpiresAt is the expiry of the token that created the session. A zero
// value never expires.
func (s *Session) ExpiresAt() time.Time {
	if s == nil {
		return time.Time{}
	}
	return s.expiresAt
}

func (s *Session) expired(now time.Time) bool {
	return !s.expiresAt.IsZero() && now.After(s.expiresAt)
}

func (s *Session) Current() Snapshot {
	if s == nil {
		return Snapshot{}
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := Snapshot{}
	if s.identity != nil {
		ident := *s.identity
		out.Identity = &ident
	}
	if s.profile != nil {
		p := *s.profile
		out.Profile = &p
	}
	return out
}

// ViewerID satisfies directory.Viewer.
func (s *Session) ViewerID() (uuid.UUID, bool) {
	if s == nil {
		return uuid.Nil, false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.identity == nil {
		return uuid.Nil, false
	}
	return s.identity.ID, true
}

func (s *Session) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.identity = nil
	s.profile = nil
}
