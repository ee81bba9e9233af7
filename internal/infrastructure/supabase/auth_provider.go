package supabase

import (
	"context"
	"strings"

	"jobboard/internal/domain/user"

	"github.com/google/uuid"
	supa "github.com/nedpals/supabase-go"
)

// AuthProvider delegates credentials to Supabase auth.
type AuthProvider struct {
	client *supa.Client
}

var _ user.Provider = (*AuthProvider)(nil)

func NewAuthProvider(client *supa.Client) *AuthProvider {
	return &AuthProvider{client: client}
}

func (p *AuthProvider) SignUp(ctx context.Context, email, password string) (user.Identity, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || len(strings.TrimSpace(password)) < 8 {
		return user.Identity{}, user.ErrInvalidInput
	}
	u, err := p.client.Auth.SignUp(ctx, supa.UserCredentials{Email: email, Password: password})
	if err != nil {
		return user.Identity{}, mapAuthError(err, user.ErrInternal)
	}
	return toIdentity(u.ID, u.Email)
}

func (p *AuthProvider) SignIn(ctx context.Context, email, password string) (user.Identity, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return user.Identity{}, user.ErrInvalidCredentials
	}
	details, err := p.client.Auth.SignIn(ctx, supa.UserCredentials{Email: email, Password: password})
	if err != nil {
		return user.Identity{}, mapAuthError(err, user.ErrInvalidCredentials)
	}
	return toIdentity(details.User.ID, details.User.Email)
}

func mapAuthError(err error, fallback error) error {
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "already registered"), strings.Contains(msg, "already exists"):
		return user.ErrEmailAlreadyRegistered
	case strings.Contains(msg, "invalid login"), strings.Contains(msg, "invalid credentials"):
		return user.ErrInvalidCredentials
	default:
		return fallback
	}
}

func toIdentity(id, email string) (user.Identity, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return user.Identity{}, user.ErrInternal
	}
	return user.Identity{ID: parsed, Email: email}, nil
}
