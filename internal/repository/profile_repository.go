package repository

import (
	"context"
	"errors"

	"jobboard/internal/database"
	"jobboard/internal/domain/profile"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const profileColumns = `id, email, name, profile_picture, bio, profession, role, created_at, updated_at`

type PostgresProfileRepository struct {
	db database.DB
}

func NewPostgresProfileRepository(db database.DB) *PostgresProfileRepository {
	return &PostgresProfileRepository{db: db}
}

func (r *PostgresProfileRepository) Create(ctx context.Context, p profile.Profile) (profile.Profile, error) {
	role := p.Role
	if !role.Valid() {
		role = profile.RoleJobSeeker
	}
	row := r.db.QueryRow(ctx,
		`INSERT INTO profiles (id, email, name, profile_picture, bio, profession, role)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING `+profileColumns,
		p.ID, p.Email, p.Name, p.ProfilePicture, p.Bio, p.Profession, string(role),
	)
	return scanProfile(row)
}

func (r *PostgresProfileRepository) GetByID(ctx context.Context, id uuid.UUID) (profile.Profile, error) {
	row := r.db.QueryRow(ctx, `SELECT `+profileColumns+` FROM profiles WHERE id = $1`, id)
	p, err := scanProfile(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return profile.Profile{}, profile.ErrNotFound
		}
		return profile.Profile{}, err
	}
	return p, nil
}

func scanProfile(row database.Row) (profile.Profile, error) {
	var (
		p    profile.Profile
		role string
	)
	if err := row.Scan(&p.ID, &p.Email, &p.Name, &p.ProfilePicture, &p.Bio, &p.Profession, &role, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return profile.Profile{}, err
	}
	p.Role = profile.Role(role)
	return p, nil
}
