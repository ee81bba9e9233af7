package supabase

import (
	"context"
	"fmt"

	"jobboard/internal/domain/profile"

	"github.com/google/uuid"
	supa "github.com/nedpals/supabase-go"
)

const profilesTable = "profiles"

type ProfileStore struct {
	client *supa.Client
}

func NewProfileStore(client *supa.Client) *ProfileStore {
	return &ProfileStore{client: client}
}

func (s *ProfileStore) Create(ctx context.Context, p profile.Profile) (profile.Profile, error) {
	if !p.Role.Valid() {
		p.Role = profile.RoleJobSeeker
	}
	row := map[string]any{
		"id":    p.ID.String(),
		"email": p.Email,
		"name":  p.Name,
		"role":  string(p.Role),
	}
	var rows []profile.Profile
	if err := s.client.DB.From(profilesTable).Insert(row).Execute(&rows); err != nil {
		return profile.Profile{}, fmt.Errorf("insert profile: %w", err)
	}
	if len(rows) == 0 {
		return s.GetByID(ctx, p.ID)
	}
	return rows[0], nil
}

func (s *ProfileStore) GetByID(ctx context.Context, id uuid.UUID) (profile.Profile, error) {
	var rows []profile.Profile
	if err := s.client.DB.From(profilesTable).Select("*").Eq("id", id.String()).Execute(&rows); err != nil {
		return profile.Profile{}, fmt.Errorf("select profile: %w", err)
	}
	if len(rows) == 0 {
		return profile.Profile{}, profile.ErrNotFound
	}
	return rows[0], nil
}
