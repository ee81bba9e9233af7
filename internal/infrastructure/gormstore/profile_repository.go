package gormstore

import (
	"context"
	"errors"

	"jobboard/internal/domain/profile"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProfileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

func (r *ProfileRepository) Create(ctx context.Context, p profile.Profile) (profile.Profile, error) {
	role := p.Role
	if !role.Valid() {
		role = profile.RoleJobSeeker
	}
	m := profileModel{
		ID:             p.ID.String(),
		Email:          p.Email,
		Name:           p.Name,
		ProfilePicture: p.ProfilePicture,
		Bio:            p.Bio,
		Profession:     p.Profession,
		Role:           string(role),
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return profile.Profile{}, err
	}
	return m.toProfile(), nil
}

func (r *ProfileRepository) GetByID(ctx context.Context, id uuid.UUID) (profile.Profile, error) {
	var m profileModel
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id.String()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return profile.Profile{}, profile.ErrNotFound
		}
		return profile.Profile{}, err
	}
	return m.toProfile(), nil
}

func (m profileModel) toProfile() profile.Profile {
	id, _ := uuid.Parse(m.ID)
	return profile.Profile{
		ID:             id,
		Email:          m.Email,
		Name:           m.Name,
		ProfilePicture: m.ProfilePicture,
		Bio:            m.Bio,
		Profession:     m.Profession,
		Role:           profile.Role(m.Role),
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}
