package job

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("job not found")

// Repository is the backend's jobs table. Every read returns listings ordered
// newest-first with the creator's public profile joined.
type Repository interface {
	List(ctx context.Context) ([]Listing, error)
	ListByCreator(ctx context.Context, profileID uuid.UUID) ([]Listing, error)
	Search(ctx context.Context, f SearchFilter) ([]Listing, error)
	GetByID(ctx context.Context, id uuid.UUID) (Listing, error)
	Create(ctx context.Context, in NewListing) (Listing, error)
	UpdateLikes(ctx context.Context, id uuid.UUID, likes []uuid.UUID) error
	UpdateApplicants(ctx context.Context, id uuid.UUID, applicants []uuid.UUID) error
	// DeleteOwned deletes id only when created_by equals ownerID and reports the
	// number of rows removed.
	DeleteOwned(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) (int64, error)
}
