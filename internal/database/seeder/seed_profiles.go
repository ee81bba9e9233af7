package seeder

import (
	"context"
	"fmt"

	"jobboard/internal/database"

	"golang.org/x/crypto/bcrypt"
)

// DemoPassword is the sign-in password of every seeded account.
const DemoPassword = "password123"

type demoAccount struct {
	ID         string
	Email      string
	Name       string
	Profession string
	Role       string
}

var demoAccounts = []demoAccount{
	{ID: "0f6d2c1e-6b7a-4d0e-9a51-2f5c7f1e9a01", Email: "recruiter@jobboard.dev", Name: "Riley Recruiter", Profession: "Talent Partner", Role: "recruiter"},
	{ID: "0f6d2c1e-6b7a-4d0e-9a51-2f5c7f1e9a02", Email: "seeker@jobboard.dev", Name: "Sam Seeker", Profession: "Software Engineer", Role: "jobseeker"},
}

type ProfilesSeeder struct{}

func (ProfilesSeeder) Name() string { return "profiles" }

func (ProfilesSeeder) Run(ctx context.Context, db database.DB) error {
	if err := EnsureTableColumns(ctx, db, "users", "id", "email", "password_hash"); err != nil {
		return err
	}
	if err := EnsureTableColumns(ctx, db, "profiles", "id", "email", "name", "profession", "role"); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(context.Background())
	}()

	for _, a := range demoAccounts {
		if _, err := tx.Exec(
			ctx,
			`INSERT INTO users (id, email, password_hash) VALUES ($1, $2, $3) ON CONFLICT (email) DO NOTHING`,
			a.ID, a.Email, string(hash),
		); err != nil {
			return err
		}
		if _, err := tx.Exec(
			ctx,
			`INSERT INTO profiles (id, email, name, profession, role) VALUES ($1, $2, $3, $4, $5) ON CONFLICT (id) DO NOTHING`,
			a.ID, a.Email, a.Name, a.Profession, a.Role,
		); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
