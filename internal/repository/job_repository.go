package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"jobboard/internal/database"
	"jobboard/internal/domain/job"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const jobSelect = `SELECT j.id, j.title, j.description, j.location, j.salary::float8, j.salary_type, j.negotiable,
	j.job_type, j.tags, j.skills, j.likes, j.applicants, j.created_by, j.created_at, j.updated_at,
	p.id::text, p.name, p.profile_picture
 FROM jobs j
 LEFT JOIN profiles p ON p.id = j.created_by`

type PostgresJobRepository struct {
	db database.DB
}

func NewPostgresJobRepository(db database.DB) *PostgresJobRepository {
	return &PostgresJobRepository{db: db}
}

func (r *PostgresJobRepository) List(ctx context.Context) ([]job.Listing, error) {
	return r.query(ctx, jobSelect+` ORDER BY j.created_at DESC`)
}

func (r *PostgresJobRepository) ListByCreator(ctx context.Context, profileID uuid.UUID) ([]job.Listing, error) {
	return r.query(ctx, jobSelect+` WHERE j.created_by = $1 ORDER BY j.created_at DESC`, profileID)
}

func (r *PostgresJobRepository) Search(ctx context.Context, f job.SearchFilter) ([]job.Listing, error) {
	q, args := buildSearchQuery(f)
	return r.query(ctx, q, args...)
}

func (r *PostgresJobRepository) GetByID(ctx context.Context, id uuid.UUID) (job.Listing, error) {
	row := r.db.QueryRow(ctx, jobSelect+` WHERE j.id = $1`, id)
	l, err := scanListing(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return job.Listing{}, job.ErrNotFound
		}
		return job.Listing{}, err
	}
	return l, nil
}

func (r *PostgresJobRepository) Create(ctx context.Context, in job.NewListing) (job.Listing, error) {
	salaryType := in.SalaryType
	if salaryType == "" {
		salaryType = job.SalaryYearly
	}

	var id uuid.UUID
	row := r.db.QueryRow(ctx,
		`INSERT INTO jobs (title, description, location, salary, salary_type, negotiable, job_type, tags, skills, created_by)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 RETURNING id`,
		in.Title, in.Description, in.Location, in.Salary, string(salaryType), in.Negotiable,
		nonNil(in.JobType), nonNil(in.Tags), nonNil(in.Skills), in.CreatedBy,
	)
	if err := row.Scan(&id); err != nil {
		return job.Listing{}, fmt.Errorf("insert job: %w", err)
	}
	return r.GetByID(ctx, id)
}

func (r *PostgresJobRepository) UpdateLikes(ctx context.Context, id uuid.UUID, likes []uuid.UUID) error {
	return r.updateSet(ctx, "likes", id, likes)
}

func (r *PostgresJobRepository) UpdateApplicants(ctx context.Context, id uuid.UUID, applicants []uuid.UUID) error {
	return r.updateSet(ctx, "applicants", id, applicants)
}

func (r *PostgresJobRepository) DeleteOwned(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) (int64, error) {
	return r.db.Exec(ctx, `DELETE FROM jobs WHERE id = $1 AND created_by = $2`, id, ownerID)
}

func (r *PostgresJobRepository) updateSet(ctx context.Context, column string, id uuid.UUID, ids []uuid.UUID) error {
	affected, err := r.db.Exec(ctx,
		`UPDATE jobs SET `+column+` = $2 WHERE id = $1`,
		id, job.FormatIDs(job.UniqueIDs(ids)),
	)
	if err != nil {
		return err
	}
	if affected == 0 {
		return job.ErrNotFound
	}
	return nil
}

func (r *PostgresJobRepository) query(ctx context.Context, q string, args ...any) ([]job.Listing, error) {
	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]job.Listing, 0)
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// buildSearchQuery renders the filter as parameterized SQL. Title and location
// match case-insensitively as substrings, tags by exact array membership.
func buildSearchQuery(f job.SearchFilter) (string, []any) {
	n := f.Normalize()

	where := make([]string, 0, 3)
	args := make([]any, 0, 3)
	if n.Tags != "" {
		args = append(args, n.Tags)
		where = append(where, fmt.Sprintf("$%d = ANY(j.tags)", len(args)))
	}
	if n.Location != "" {
		args = append(args, "%"+escapeLike(n.Location)+"%")
		where = append(where, fmt.Sprintf("j.location ILIKE $%d", len(args)))
	}
	if n.Title != "" {
		args = append(args, "%"+escapeLike(n.Title)+"%")
		where = append(where, fmt.Sprintf("j.title ILIKE $%d", len(args)))
	}

	q := jobSelect
	if len(where) > 0 {
		q += ` WHERE ` + strings.Join(where, " AND ")
	}
	q += ` ORDER BY j.created_at DESC`
	return q, args
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

func nonNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}

func scanListing(row database.Row) (job.Listing, error) {
	var (
		l          job.Listing
		salaryType string
		likes      []string
		applicants []string
		authorID   *string
		authorName *string
		authorPic  *string
		createdAt  time.Time
		updatedAt  time.Time
	)
	if err := row.Scan(
		&l.ID, &l.Title, &l.Description, &l.Location, &l.Salary, &salaryType, &l.Negotiable,
		&l.JobType, &l.Tags, &l.Skills, &likes, &applicants, &l.CreatedBy, &createdAt, &updatedAt,
		&authorID, &authorName, &authorPic,
	); err != nil {
		return job.Listing{}, err
	}

	l.SalaryType = job.SalaryType(salaryType)
	l.Likes = job.ParseIDs(likes)
	l.Applicants = job.ParseIDs(applicants)
	l.CreatedAt = createdAt
	l.UpdatedAt = updatedAt
	if l.JobType == nil {
		l.JobType = []string{}
	}
	if l.Tags == nil {
		l.Tags = []string{}
	}
	if l.Skills == nil {
		l.Skills = []string{}
	}
	if authorID != nil {
		if id, err := uuid.Parse(*authorID); err == nil {
			l.Author = &job.Author{ID: id, Name: authorName, ProfilePicture: authorPic}
		}
	}
	return l, nil
}
