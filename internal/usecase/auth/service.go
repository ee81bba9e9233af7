package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"jobboard/internal/domain/user"
)

// Service is the local identity provider: bcrypt hashes in the users table.
type Service struct {
	users user.Repository
}

var _ user.Provider = (*Service)(nil)

func NewService(users user.Repository) *Service {
	return &Service{users: users}
}

func (s *Service) SignUp(ctx context.Context, email, password string) (user.Identity, error) {
	email = NormalizeEmail(email)
	if email == "" || !strings.Contains(email, "@") {
		return user.Identity{}, user.ErrInvalidInput
	}
	if !IsValidPassword(password) {
		return user.Identity{}, user.ErrInvalidInput
	}

	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return user.Identity{}, user.ErrInternal
	}
	if exists {
		return user.Identity{}, user.ErrEmailAlreadyRegistered
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return user.Identity{}, user.ErrInternal
	}

	u := user.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: string(hash),
	}

	if err := s.users.CreateUser(ctx, u); err != nil {
		exists, exErr := s.users.ExistsByEmail(ctx, email)
		if exErr == nil && exists {
			return user.Identity{}, user.ErrEmailAlreadyRegistered
		}
		return user.Identity{}, user.ErrInternal
	}

	created, err := s.users.GetUserByID(ctx, u.ID)
	if err != nil {
		return user.Identity{}, user.ErrInternal
	}
	return identityOf(created), nil
}

func (s *Service) SignIn(ctx context.Context, email, password string) (user.Identity, error) {
	email = NormalizeEmail(email)
	if email == "" {
		return user.Identity{}, user.ErrInvalidCredentials
	}
	if password == "" {
		return user.Identity{}, user.ErrInvalidCredentials
	}

	u, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return user.Identity{}, user.ErrInvalidCredentials
		}
		return user.Identity{}, user.ErrInternal
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return user.Identity{}, user.ErrInvalidCredentials
	}

	return identityOf(u), nil
}

func NormalizeEmail(email string) string {
	email = strings.TrimSpace(email)
	if email == "" {
		return ""
	}
	return strings.ToLower(email)
}

func IsValidPassword(pw string) bool {
	pw = strings.TrimSpace(pw)
	return len(pw) >= 8
}

func identityOf(u user.User) user.Identity {
	return user.Identity{ID: u.ID, Email: u.Email}
}
