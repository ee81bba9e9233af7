package seeder

import (
	"context"
	"fmt"

	"jobboard/internal/database"
)

type JobsSeeder struct{}

func (JobsSeeder) Name() string { return "jobs" }

func (JobsSeeder) Run(ctx context.Context, db database.DB) error {
	if err := EnsureTableColumns(ctx, db, "jobs", "id", "title", "description", "location", "salary", "salary_type", "negotiable", "job_type", "tags", "skills", "created_by"); err != nil {
		return err
	}

	owner := demoAccounts[0].ID

	items := []struct {
		ID          string
		Title       string
		Description string
		Location    string
		Salary      float64
		SalaryType  string
		Negotiable  bool
		JobType     []string
		Tags        []string
		Skills      []string
	}{
		{
			ID:          "5b9a7c3d-1e2f-4a6b-8c9d-0e1f2a3b4c01",
			Title:       "Backend Engineer",
			Description: "<p>Build and run the services behind our marketplace.</p>",
			Location:    "London",
			Salary:      65000,
			SalaryType:  "Yearly",
			JobType:     []string{"Full Time"},
			Tags:        []string{"Backend"},
			Skills:      []string{"Go", "PostgreSQL", "Redis"},
		},
		{
			ID:          "5b9a7c3d-1e2f-4a6b-8c9d-0e1f2a3b4c02",
			Title:       "Full Stack Developer",
			Description: "<p>Ship features end to end across web and API.</p>",
			Location:    "Manchester",
			Salary:      4500,
			SalaryType:  "Monthly",
			Negotiable:  true,
			JobType:     []string{"Full Time", "Contract"},
			Tags:        []string{"Full Stack"},
			Skills:      []string{"TypeScript", "React", "Node.js"},
		},
		{
			ID:          "5b9a7c3d-1e2f-4a6b-8c9d-0e1f2a3b4c03",
			Title:       "DevOps Intern",
			Description: "<p>Help us automate our delivery pipeline.</p>",
			Location:    "Remote",
			Salary:      18,
			SalaryType:  "Hourly",
			JobType:     []string{"Internship"},
			Tags:        []string{"DevOps"},
			Skills:      []string{"Docker", "Kubernetes"},
		},
		{
			ID:          "5b9a7c3d-1e2f-4a6b-8c9d-0e1f2a3b4c04",
			Title:       "Product Designer",
			Description: "<p>Own the UI/UX of our hiring tools.</p>",
			Location:    "Bristol",
			Salary:      900,
			SalaryType:  "Weekly",
			JobType:     []string{"Part Time"},
			Tags:        []string{"UI/UX"},
			Skills:      []string{"Figma"},
		},
	}

	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(context.Background())
	}()

	for _, it := range items {
		_, err := tx.Exec(
			ctx,
			`INSERT INTO jobs (id, title, description, location, salary, salary_type, negotiable, job_type, tags, skills, created_by)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
			 ON CONFLICT (id) DO NOTHING`,
			it.ID, it.Title, it.Description, it.Location, it.Salary, it.SalaryType, it.Negotiable,
			it.JobType, it.Tags, it.Skills, owner,
		)
		if err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
