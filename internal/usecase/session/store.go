package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"jobboard/internal/domain/profile"
	"jobboard/internal/domain/user"
	"jobboard/internal/pkg/jwt"
	"jobboard/internal/usecase/directory"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var ErrSessionRevoked = errors.New("session revoked")

// Issued is the outcome of a successful sign-in or sign-up.
type Issued struct {
	Token     string
	ExpiresAt time.Time
	Session   *Session
}

// Store tracks the signed-in sessions of this process and their directories.
type Store struct {
	provider    user.Provider
	profiles    profile.Repository
	tokens      jwt.Service
	revocations Revocations
	directories *directory.Registry
	logger      logrus.FieldLogger
	now         func() time.Time

	mu       sync.Mutex
	sessions map[uuid.UUID]*Session
}

func NewStore(provider user.Provider, profiles profile.Repository, tokens jwt.Service, revocations Revocations, directories *directory.Registry, logger logrus.FieldLogger) *Store {
	if revocations == nil {
		revocations = NewMemoryRevocations()
	}
	if logger == nil {
		l := logrus.New()
		l.SetLevel(logrus.PanicLevel)
		logger = l
	}
	return &Store{
		provider:    provider,
		profiles:    profiles,
		tokens:      tokens,
		revocations: revocations,
		directories: directories,
		logger:      logger,
		now:         time.Now,
		sessions:    map[uuid.UUID]*Session{},
	}
}

func (s *Store) SignIn(ctx context.Context, email, password string) (Issued, error) {
	ident, err := s.provider.SignIn(ctx, email, password)
	if err != nil {
		return Issued{}, err
	}
	p, err := s.profiles.GetByID(ctx, ident.ID)
	if errors.Is(err, profile.ErrNotFound) {
		p, err = s.profiles.Create(ctx, defaultProfile(ident, ""))
	}
	if err != nil {
		s.logger.WithError(err).WithField("user_id", ident.ID.String()).Error("load profile failed")
		return Issued{}, user.ErrInternal
	}
	return s.issue(ident, p)
}

func (s *Store) SignUp(ctx context.Context, email, password, name string) (Issued, error) {
	ident, err := s.provider.SignUp(ctx, email, password)
	if err != nil {
		return Issued{}, err
	}
	p, err := s.profiles.Create(ctx, defaultProfile(ident, name))
	if err != nil {
		s.logger.WithError(err).WithField("user_id", ident.ID.String()).Error("create profile failed")
		return Issued{}, user.ErrInternal
	}
	return s.issue(ident, p)
}

// SignOut revokes the token's session id until it would have expired and
// drops the in-memory session and directory.
func (s *Store) SignOut(ctx context.Context, claims jwt.Claims) error {
	ttl := claims.Remaining(s.now())
	if err := s.revocations.Revoke(ctx, claims.SessionID, ttl); err != nil {
		s.logger.WithError(err).WithField("session_id", claims.SessionID.String()).Warn("persist revocation failed")
	}

	s.mu.Lock()
	sess := s.sessions[claims.SessionID]
	delete(s.sessions, claims.SessionID)
	s.mu.Unlock()

	if sess != nil {
		sess.clear()
	}
	if s.directories != nil {
		s.directories.Drop(claims.SessionID)
	}
	return nil
}

// Resolve returns the session for a validated token, rebuilding it with
// Restore when this process has not seen it.
func (s *Store) Resolve(ctx context.Context, claims jwt.Claims) (*Session, error) {
	revoked, err := s.revocations.IsRevoked(ctx, claims.SessionID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, ErrSessionRevoked
	}

	s.Sweep()

	s.mu.Lock()
	sess, ok := s.sessions[claims.SessionID]
	s.mu.Unlock()
	if ok {
		return sess, nil
	}
	return s.Restore(ctx, claims)
}

// Restore loads identity and profile for a token issued before a restart.
func (s *Store) Restore(ctx context.Context, claims jwt.Claims) (*Session, error) {
	if claims.SessionID == uuid.Nil || claims.UserID == uuid.Nil {
		return nil, jwt.ErrTokenInvalid
	}
	p, err := s.profiles.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("restore session: %w", err)
	}
	ident := user.Identity{ID: claims.UserID, Email: claims.Email}
	sess := newSession(claims.SessionID, claims.ExpiredAt, ident, p)

	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.sessions[claims.SessionID]; ok {
		return existing, nil
	}
	s.sessions[claims.SessionID] = sess
	s.logger.WithField("session_id", claims.SessionID.String()).Debug("session restored")
	return sess, nil
}

// Directory returns the session's directory store, or a fresh signed-out one
// when sess is nil.
func (s *Store) Directory(sess *Session) *directory.Store {
	if sess == nil {
		return s.directories.Ephemeral()
	}
	return s.directories.ForSession(sess.ID(), sess.ViewerID)
}

// Sweep drops sessions whose token has expired, together with their
// directories, and returns how many were removed.
func (s *Store) Sweep() int {
	now := s.now()
	var expired []uuid.UUID

	s.mu.Lock()
	for id, sess := range s.sessions {
		if sess.expired(now) {
			expired = append(expired, id)
			delete(s.sessions, id)
		}
	}
	s.mu.Unlock()

	if s.directories != nil {
		for _, id := range expired {
			s.directories.Drop(id)
		}
	}
	if len(expired) > 0 {
		s.logger.WithField("count", len(expired)).Debug("expired sessions swept")
	}
	return len(expired)
}

// RunJanitor sweeps expired sessions every interval until ctx is done.
func (s *Store) RunJanitor(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *Store) issue(ident user.Identity, p profile.Profile) (Issued, error) {
	token, claims, err := s.tokens.GenerateSessionToken(ident.ID, ident.Email)
	if err != nil {
		s.logger.WithError(err).Error("issue session token failed")
		return Issued{}, user.ErrInternal
	}
	sess := newSession(claims.SessionID, claims.ExpiredAt, ident, p)
	s.Sweep()

	s.mu.Lock()
	s.sessions[claims.SessionID] = sess
	s.mu.Unlock()

	return Issued{Token: token, ExpiresAt: claims.ExpiredAt, Session: sess}, nil
}

func defaultProfile(ident user.Identity, name string) profile.Profile {
	p := profile.Profile{
		ID:    ident.ID,
		Email: ident.Email,
		Role:  profile.RoleJobSeeker,
	}
	if n := strings.TrimSpace(name); n != "" {
		p.Name = &n
	}
	return p
}
