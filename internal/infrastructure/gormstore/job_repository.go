package gormstore

import (
	"context"
	"errors"
	"fmt"

	"jobboard/internal/domain/job"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type JobRepository struct {
	db *gorm.DB
}

func NewJobRepository(db *gorm.DB) *JobRepository {
	return &JobRepository{db: db}
}

func (r *JobRepository) List(ctx context.Context) ([]job.Listing, error) {
	return r.find(r.base(ctx))
}

func (r *JobRepository) ListByCreator(ctx context.Context, profileID uuid.UUID) ([]job.Listing, error) {
	return r.find(r.base(ctx).Where("created_by = ?", profileID.String()))
}

// Search filters the decoded rows in Go. SQLite LOWER only folds ASCII, so
// title and location are matched with Unicode case folding here instead.
func (r *JobRepository) Search(ctx context.Context, f job.SearchFilter) ([]job.Listing, error) {
	n := f.Normalize()
	all, err := r.find(r.base(ctx))
	if err != nil {
		return nil, err
	}
	out := make([]job.Listing, 0, len(all))
	for _, l := range all {
		if n.Matches(l) {
			out = append(out, l)
		}
	}
	return out, nil
}

func (r *JobRepository) GetByID(ctx context.Context, id uuid.UUID) (job.Listing, error) {
	var m jobModel
	err := r.db.WithContext(ctx).Preload("Author").First(&m, "id = ?", id.String()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return job.Listing{}, job.ErrNotFound
		}
		return job.Listing{}, err
	}
	return m.toListing(), nil
}

func (r *JobRepository) Create(ctx context.Context, in job.NewListing) (job.Listing, error) {
	st := in.SalaryType
	if st == "" {
		st = job.SalaryYearly
	}
	m := jobModel{
		ID:          uuid.NewString(),
		Title:       in.Title,
		Description: in.Description,
		Location:    in.Location,
		Salary:      in.Salary,
		SalaryType:  string(st),
		Negotiable:  in.Negotiable,
		JobType:     jsonSlice(in.JobType),
		Tags:        jsonSlice(in.Tags),
		Skills:      jsonSlice(in.Skills),
		Likes:       jsonSlice(nil),
		Applicants:  jsonSlice(nil),
		CreatedBy:   in.CreatedBy.String(),
	}
	if err := r.db.WithContext(ctx).Omit("Author").Create(&m).Error; err != nil {
		return job.Listing{}, fmt.Errorf("insert job: %w", err)
	}
	return r.GetByID(ctx, uuid.MustParse(m.ID))
}

func (r *JobRepository) UpdateLikes(ctx context.Context, id uuid.UUID, likes []uuid.UUID) error {
	return r.updateSet(ctx, "likes", id, likes)
}

func (r *JobRepository) UpdateApplicants(ctx context.Context, id uuid.UUID, applicants []uuid.UUID) error {
	return r.updateSet(ctx, "applicants", id, applicants)
}

func (r *JobRepository) DeleteOwned(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("id = ? AND created_by = ?", id.String(), ownerID.String()).
		Delete(&jobModel{})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func (r *JobRepository) updateSet(ctx context.Context, column string, id uuid.UUID, ids []uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Model(&jobModel{}).
		Where("id = ?", id.String()).
		Update(column, jsonSlice(job.FormatIDs(job.UniqueIDs(ids))))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return job.ErrNotFound
	}
	return nil
}

func (r *JobRepository) base(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&jobModel{}).Preload("Author").Order("created_at DESC")
}

func (r *JobRepository) find(q *gorm.DB) ([]job.Listing, error) {
	var rows []jobModel
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]job.Listing, 0, len(rows))
	for _, m := range rows {
		out = append(out, m.toListing())
	}
	return out, nil
}

func (m jobModel) toListing() job.Listing {
	l := job.Listing{
		Title:       m.Title,
		Description: m.Description,
		Location:    m.Location,
		Salary:      m.Salary,
		SalaryType:  job.SalaryType(m.SalaryType),
		Negotiable:  m.Negotiable,
		JobType:     toStrings(m.JobType),
		Tags:        toStrings(m.Tags),
		Skills:      toStrings(m.Skills),
		Likes:       job.ParseIDs(m.Likes),
		Applicants:  job.ParseIDs(m.Applicants),
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
	if id, err := uuid.Parse(m.ID); err == nil {
		l.ID = id
	}
	if id, err := uuid.Parse(m.CreatedBy); err == nil {
		l.CreatedBy = id
	}
	if m.Author != nil {
		if id, err := uuid.Parse(m.Author.ID); err == nil {
			l.Author = &job.Author{ID: id, Name: m.Author.Name, ProfilePicture: m.Author.ProfilePicture}
		}
	}
	return l
}

func jsonSlice(in []string) datatypes.JSONSlice[string] {
	if in == nil {
		return datatypes.JSONSlice[string]{}
	}
	return datatypes.JSONSlice[string](in)
}

func toStrings(in datatypes.JSONSlice[string]) []string {
	if in == nil {
		return []string{}
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
