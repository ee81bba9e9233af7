package supabase

import (
	"context"
	"fmt"
	"time"

	"jobboard/internal/domain/job"

	"github.com/google/uuid"
	supa "github.com/nedpals/supabase-go"
)

const (
	jobsTable     = "jobs"
	jobsSelection = "*,profiles:created_by(id,name,profile_picture)"
)

// jobRow mirrors the PostgREST representation of a jobs row. Likes and
// applicants stay as text so one malformed id cannot fail a whole read.
type jobRow struct {
	ID          string     `json:"id,omitempty"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Location    string     `json:"location"`
	Salary      float64    `json:"salary"`
	SalaryType  string     `json:"salary_type"`
	Negotiable  bool       `json:"negotiable"`
	JobType     []string   `json:"job_type"`
	Tags        []string   `json:"tags"`
	Skills      []string   `json:"skills"`
	Likes       []string   `json:"likes"`
	Applicants  []string   `json:"applicants"`
	CreatedBy   string     `json:"created_by"`
	CreatedAt   *time.Time `json:"created_at,omitempty"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
	Profiles    *authorRow `json:"profiles,omitempty"`
}

type authorRow struct {
	ID             string  `json:"id"`
	Name           *string `json:"name"`
	ProfilePicture *string `json:"profile_picture"`
}

type insertJobRow struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Location    string   `json:"location"`
	Salary      float64  `json:"salary"`
	SalaryType  string   `json:"salary_type"`
	Negotiable  bool     `json:"negotiable"`
	JobType     []string `json:"job_type"`
	Tags        []string `json:"tags"`
	Skills      []string `json:"skills"`
	Likes       []string `json:"likes"`
	Applicants  []string `json:"applicants"`
	CreatedBy   string   `json:"created_by"`
}

// JobStore reads and writes listings through PostgREST. Ordering and search
// run in process on the fetched rows.
type JobStore struct {
	client *supa.Client
}

func NewJobStore(client *supa.Client) *JobStore {
	return &JobStore{client: client}
}

func (s *JobStore) List(ctx context.Context) ([]job.Listing, error) {
	var rows []jobRow
	if err := s.client.DB.From(jobsTable).Select(jobsSelection).Execute(&rows); err != nil {
		return nil, fmt.Errorf("select jobs: %w", err)
	}
	return toListings(rows), nil
}

func (s *JobStore) ListByCreator(ctx context.Context, profileID uuid.UUID) ([]job.Listing, error) {
	var rows []jobRow
	if err := s.client.DB.From(jobsTable).Select(jobsSelection).Eq("created_by", profileID.String()).Execute(&rows); err != nil {
		return nil, fmt.Errorf("select jobs by creator: %w", err)
	}
	return toListings(rows), nil
}

func (s *JobStore) Search(ctx context.Context, f job.SearchFilter) ([]job.Listing, error) {
	all, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	return filterListings(all, f), nil
}

func (s *JobStore) GetByID(ctx context.Context, id uuid.UUID) (job.Listing, error) {
	var rows []jobRow
	if err := s.client.DB.From(jobsTable).Select(jobsSelection).Eq("id", id.String()).Execute(&rows); err != nil {
		return job.Listing{}, fmt.Errorf("select job: %w", err)
	}
	if len(rows) == 0 {
		return job.Listing{}, job.ErrNotFound
	}
	return rows[0].toListing(), nil
}

func (s *JobStore) Create(ctx context.Context, in job.NewListing) (job.Listing, error) {
	var rows []jobRow
	if err := s.client.DB.From(jobsTable).Insert(newInsertRow(in)).Execute(&rows); err != nil {
		return job.Listing{}, fmt.Errorf("insert job: %w", err)
	}
	if len(rows) == 0 {
		return job.Listing{}, fmt.Errorf("insert job: empty representation")
	}
	id, err := uuid.Parse(rows[0].ID)
	if err != nil {
		return job.Listing{}, fmt.Errorf("insert job: %w", err)
	}
	return s.GetByID(ctx, id)
}

func (s *JobStore) UpdateLikes(ctx context.Context, id uuid.UUID, likes []uuid.UUID) error {
	return s.updateSet(id, "likes", likes)
}

func (s *JobStore) UpdateApplicants(ctx context.Context, id uuid.UUID, applicants []uuid.UUID) error {
	return s.updateSet(id, "applicants", applicants)
}

// DeleteOwned reports the rows PostgREST returned as the affected count.
func (s *JobStore) DeleteOwned(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) (int64, error) {
	var rows []jobRow
	err := s.client.DB.From(jobsTable).Delete().
		Eq("id", id.String()).
		Eq("created_by", ownerID.String()).
		Execute(&rows)
	if err != nil {
		return 0, fmt.Errorf("delete job: %w", err)
	}
	return int64(len(rows)), nil
}

func (s *JobStore) updateSet(id uuid.UUID, column string, ids []uuid.UUID) error {
	var rows []jobRow
	body := map[string]any{column: job.FormatIDs(job.UniqueIDs(ids))}
	if err := s.client.DB.From(jobsTable).Update(body).Eq("id", id.String()).Execute(&rows); err != nil {
		return fmt.Errorf("update job %s: %w", column, err)
	}
	return nil
}

func newInsertRow(in job.NewListing) insertJobRow {
	st := in.SalaryType
	if st == "" {
		st = job.SalaryYearly
	}
	return insertJobRow{
		Title:       in.Title,
		Description: in.Description,
		Location:    in.Location,
		Salary:      in.Salary,
		SalaryType:  string(st),
		Negotiable:  in.Negotiable,
		JobType:     orEmpty(in.JobType),
		Tags:        orEmpty(in.Tags),
		Skills:      orEmpty(in.Skills),
		Likes:       []string{},
		Applicants:  []string{},
		CreatedBy:   in.CreatedBy.String(),
	}
}

func filterListings(all []job.Listing, f job.SearchFilter) []job.Listing {
	out := make([]job.Listing, 0, len(all))
	for _, l := range all {
		if f.Matches(l) {
			out = append(out, l)
		}
	}
	return out
}

func toListings(rows []jobRow) []job.Listing {
	out := make([]job.Listing, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toListing())
	}
	job.SortNewestFirst(out)
	return out
}

func (r jobRow) toListing() job.Listing {
	l := job.Listing{
		Title:       r.Title,
		Description: r.Description,
		Location:    r.Location,
		Salary:      r.Salary,
		SalaryType:  job.SalaryType(r.SalaryType),
		Negotiable:  r.Negotiable,
		JobType:     orEmpty(r.JobType),
		Tags:        orEmpty(r.Tags),
		Skills:      orEmpty(r.Skills),
		Likes:       job.ParseIDs(r.Likes),
		Applicants:  job.ParseIDs(r.Applicants),
	}
	if id, err := uuid.Parse(r.ID); err == nil {
		l.ID = id
	}
	if id, err := uuid.Parse(r.CreatedBy); err == nil {
		l.CreatedBy = id
	}
	if r.CreatedAt != nil {
		l.CreatedAt = *r.CreatedAt
	}
	if r.UpdatedAt != nil {
		l.UpdatedAt = *r.UpdatedAt
	}
	if r.Profiles != nil {
		if id, err := uuid.Parse(r.Profiles.ID); err == nil {
			l.Author = &job.Author{ID: id, Name: r.Profiles.Name, ProfilePicture: r.Profiles.ProfilePicture}
		}
	}
	return l
}

func orEmpty(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
