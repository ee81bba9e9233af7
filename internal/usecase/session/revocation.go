package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

const revokedKeyPrefix = "session:revoked:"

// Revocations remembers signed-out session ids until their tokens expire.
type Revocations interface {
	Revoke(ctx context.Context, sessionID uuid.UUID, ttl time.Duration) error
	IsRevoked(ctx context.Context, sessionID uuid.UUID) (bool, error)
}

type MemoryRevocations struct {
	mu      sync.Mutex
	revoked map[uuid.UUID]time.Time
	now     func() time.Time
}

func NewMemoryRevocations() *MemoryRevocations {
	return &MemoryRevocations{revoked: map[uuid.UUID]time.Time{}, now: time.Now}
}

func (m *MemoryRevocations) Revoke(_ context.Context, sessionID uuid.UUID, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	for id, until := range m.revoked {
		if now.After(until) {
			delete(m.revoked, id)
		}
	}
	m.revoked[sessionID] = now.Add(ttl)
	return nil
}

func (m *MemoryRevocations) IsRevoked(_ context.Context, sessionID uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	until, ok := m.revoked[sessionID]
	if !ok {
		return false, nil
	}
	if m.now().After(until) {
		delete(m.revoked, sessionID)
		return false, nil
	}
	return true, nil
}

type KeyValue interface {
	SetIfNotExists(ctx context.Context, key string, value string, ttl time.Duration) (bool, error)
	Exists(ctx context.Context, key string) (bool, error)
}

// CachedRevocations writes through to redis and keeps a local copy so a
// revocation survives redis outages on this instance.
type CachedRevocations struct {
	kv    KeyValue
	local *MemoryRevocations
}

func NewCachedRevocations(kv KeyValue) *CachedRevocations {
	return &CachedRevocations{kv: kv, local: NewMemoryRevocations()}
}

func (c *CachedRevocations) Revoke(ctx context.Context, sessionID uuid.UUID, ttl time.Duration) error {
	_ = c.local.Revoke(ctx, sessionID, ttl)
	if c.kv == nil || ttl <= 0 {
		return nil
	}
	// The first revocation fixes the expiry; a repeat never shortens it.
	_, err := c.kv.SetIfNotExists(ctx, revokedKeyPrefix+sessionID.String(), "1", ttl)
	return err
}

func (c *CachedRevocations) IsRevoked(ctx context.Context, sessionID uuid.UUID) (bool, error) {
	if ok, _ := c.local.IsRevoked(ctx, sessionID); ok {
		return true, nil
	}
	if c.kv == nil {
		return false, nil
	}
	ok, err := c.kv.Exists(ctx, revokedKeyPrefix+sessionID.String())
	if err != nil {
		return false, nil
	}
	return ok, nil
}
