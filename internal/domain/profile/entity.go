package profile

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleJobSeeker Role = "jobseeker"
	RoleRecruiter Role = "recruiter"
)

func (r Role) Valid() bool {
	return r == RoleJobSeeker || r == RoleRecruiter
}

var ErrNotFound = errors.New("profile not found")

// Profile is the public record linked one-to-one with an identity; ID equals
// the identity id.
type Profile struct {
	ID             uuid.UUID `json:"id"`
	Email          string    `json:"email"`
	Name           *string   `json:"name"`
	ProfilePicture *string   `json:"profile_picture"`
	Bio            *string   `json:"bio"`
	Profession     *string   `json:"profession"`
	Role           Role      `json:"role"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type Repository interface {
	Create(ctx context.Context, p Profile) (Profile, error)
	GetByID(ctx context.Context, id uuid.UUID) (Profile, error)
}
