package user

import (
	"time"

	"github.com/google/uuid"
)

// User is a locally stored identity. Hosted backends keep identities on their
// side and never populate PasswordHash.
type User struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
