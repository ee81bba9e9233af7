package directory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"jobboard/internal/domain/job"
	"jobboard/internal/notify"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	NoticeCreateSignIn = "Please sign in to create a job"
	NoticeLikeSignIn   = "Please sign in to like jobs"
	NoticeApplySignIn  = "Please sign in to apply for jobs"
	NoticeDeleteSignIn = "Please sign in to delete jobs"

	NoticeCreated        = "Job created successfully"
	NoticeLiked          = "Job liked"
	NoticeUnliked        = "Job unliked"
	NoticeApplied        = "Applied to job successfully"
	NoticeDeleted        = "Job deleted successfully"
	NoticeAlreadyApplied = "You have already applied to this job"

	NoticeCreateFailed = "Error creating job"
	NoticeLikeFailed   = "Error liking job"
	NoticeApplyFailed  = "Error applying to job"
	NoticeDeleteFailed = "Error deleting job"
)

// Viewer reports the signed-in identity of the store's session.
type Viewer func() (uuid.UUID, bool)

func Anonymous() (uuid.UUID, bool) { return uuid.Nil, false }

type Options struct {
	SessionID uuid.UUID
	Viewer    Viewer
	Notifier  notify.Notifier
	Logger    logrus.FieldLogger
	MinSalary float64
	MaxSalary float64
}

// Store is one session's job directory. Backend calls run outside the lock on
// a snapshot; concurrent writes from the same session are last-write-wins.
type Store struct {
	mu    sync.Mutex
	state State

	sessionID uuid.UUID
	repo      job.Repository
	viewer    Viewer
	notifier  notify.Notifier
	logger    logrus.FieldLogger
}

func NewStore(repo job.Repository, opts Options) *Store {
	minS, maxS := opts.MinSalary, opts.MaxSalary
	if minS <= 0 && maxS <= 0 {
		minS, maxS = DefaultMinSalary, DefaultMaxSalary
	}
	viewer := opts.Viewer
	if viewer == nil {
		viewer = Anonymous
	}
	notifier := opts.Notifier
	if notifier == nil {
		notifier = notify.Discard{}
	}
	logger := opts.Logger
	if logger == nil {
		l := logrus.New()
		l.SetLevel(logrus.PanicLevel)
		logger = l
	}
	return &Store{
		state: State{
			Jobs:      []job.Listing{},
			MyJobs:    []job.Listing{},
			MinSalary: minS,
			MaxSalary: maxS,
		},
		sessionID: opts.SessionID,
		repo:      repo,
		viewer:    viewer,
		notifier:  notifier,
		logger:    logger.WithField("session_id", opts.SessionID.String()),
	}
}

func (s *Store) SessionID() uuid.UUID {
	return s.sessionID
}

func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// EnsureLoaded lists once if the collection was never fetched.
func (s *Store) EnsureLoaded(ctx context.Context) (State, error) {
	s.mu.Lock()
	loaded := s.state.Loaded
	s.mu.Unlock()
	if loaded {
		return s.Snapshot(), nil
	}
	return s.List(ctx)
}

func (s *Store) List(ctx context.Context) (State, error) {
	s.setLoading(true)
	items, err := s.repo.List(ctx)
	if err != nil {
		s.setLoading(false)
		s.logger.WithError(err).Error("fetch jobs failed")
		return s.Snapshot(), &Error{Err: ErrBackend, Cause: err}
	}
	job.SortNewestFirst(items)
	return s.update(func(st *State) {
		st.Jobs = cloneListings(items)
		st.Loaded = true
		st.Loading = false
	}), nil
}

func (s *Store) ListMine(ctx context.Context, profileID uuid.UUID) (State, error) {
	s.setLoading(true)
	items, err := s.repo.ListByCreator(ctx, profileID)
	if err != nil {
		s.setLoading(false)
		s.logger.WithError(err).Error("fetch own jobs failed")
		return s.Snapshot(), &Error{Err: ErrBackend, Cause: err}
	}
	job.SortNewestFirst(items)
	return s.update(func(st *State) {
		st.MyJobs = cloneListings(items)
		st.Loading = false
	}), nil
}

// Search replaces Jobs with the backend matches. Category and salary filters
// stay presentation-only.
func (s *Store) Search(ctx context.Context, tags, location, title string) (State, error) {
	f := job.SearchFilter{Tags: tags, Location: location, Title: title}.Normalize()
	s.setLoading(true)
	items, err := s.repo.Search(ctx, f)
	if err != nil {
		s.setLoading(false)
		s.logger.WithError(err).Error("search jobs failed")
		return s.Snapshot(), &Error{Err: ErrBackend, Cause: err}
	}
	job.SortNewestFirst(items)
	return s.update(func(st *State) {
		st.Jobs = cloneListings(items)
		st.Loaded = true
		st.Loading = false
	}), nil
}

// Create inserts a listing owned by the viewer and returns the detail path to
// redirect to.
func (s *Store) Create(ctx context.Context, in job.NewListing) (State, string, error) {
	actor, ok := s.viewer()
	if !ok {
		return s.Snapshot(), "", s.refuse(ctx, ErrAuthRequired, NoticeCreateSignIn)
	}

	in, err := normalizeNewListing(in)
	if err != nil {
		s.notify(ctx, notify.Error(s.sessionID, NoticeCreateFailed))
		return s.Snapshot(), "", &Error{Err: ErrInvalidInput, Notice: NoticeCreateFailed, Cause: err}
	}
	in.CreatedBy = actor

	created, err := s.repo.Create(ctx, in)
	if err != nil {
		s.logger.WithError(err).Error("create job failed")
		s.notify(ctx, notify.Error(s.sessionID, NoticeCreateFailed))
		return s.Snapshot(), "", &Error{Err: ErrBackend, Notice: NoticeCreateFailed, Cause: err}
	}

	s.notify(ctx, notify.Success(s.sessionID, NoticeCreated))
	s.update(func(st *State) {
		st.Jobs = append([]job.Listing{created.Clone()}, st.Jobs...)
	})

	if _, err := s.ListMine(ctx, actor); err != nil {
		s.logger.WithError(err).Warn("refresh own jobs after create failed")
	}
	if _, err := s.List(ctx); err != nil {
		s.logger.WithError(err).Warn("refresh jobs after create failed")
	}

	return s.Snapshot(), "/jobs/" + created.ID.String(), nil
}

// Like toggles the viewer's id in the listing's likes and writes the full set.
func (s *Store) Like(ctx context.Context, jobID uuid.UUID) (State, error) {
	actor, ok := s.viewer()
	if !ok {
		return s.Snapshot(), s.refuse(ctx, ErrAuthRequired, NoticeLikeSignIn)
	}

	current, err := s.lookup(ctx, jobID)
	if err != nil {
		return s.Snapshot(), err
	}

	likes, added := job.ToggleID(current.Likes, actor)
	if err := s.repo.UpdateLikes(ctx, jobID, likes); err != nil {
		s.logger.WithError(err).WithField("job_id", jobID.String()).Error("like job failed")
		s.notify(ctx, notify.Error(s.sessionID, NoticeLikeFailed))
		return s.Snapshot(), &Error{Err: ErrBackend, Notice: NoticeLikeFailed, Cause: err}
	}

	msg := NoticeUnliked
	if added {
		msg = NoticeLiked
	}
	s.notify(ctx, notify.Success(s.sessionID, msg))
	s.refresh(ctx, "like")
	return s.Snapshot(), nil
}

// ApplyTo adds the viewer to the listing's applicants once.
func (s *Store) ApplyTo(ctx context.Context, jobID uuid.UUID) (State, error) {
	actor, ok := s.viewer()
	if !ok {
		return s.Snapshot(), s.refuse(ctx, ErrAuthRequired, NoticeApplySignIn)
	}

	current, err := s.lookup(ctx, jobID)
	if err != nil {
		return s.Snapshot(), err
	}

	applicants, added := job.AddID(current.Applicants, actor)
	if !added {
		return s.Snapshot(), s.refuse(ctx, ErrAlreadyApplied, NoticeAlreadyApplied)
	}

	if err := s.repo.UpdateApplicants(ctx, jobID, applicants); err != nil {
		s.logger.WithError(err).WithField("job_id", jobID.String()).Error("apply to job failed")
		s.notify(ctx, notify.Error(s.sessionID, NoticeApplyFailed))
		return s.Snapshot(), &Error{Err: ErrBackend, Notice: NoticeApplyFailed, Cause: err}
	}

	s.notify(ctx, notify.Success(s.sessionID, NoticeApplied))
	s.refresh(ctx, "apply")
	return s.Snapshot(), nil
}

// Remove deletes a listing owned by the viewer. Local collections drop the id
// whenever the backend call succeeds, even if no row matched the owner.
func (s *Store) Remove(ctx context.Context, jobID uuid.UUID) (State, error) {
	actor, ok := s.viewer()
	if !ok {
		return s.Snapshot(), s.refuse(ctx, ErrAuthRequired, NoticeDeleteSignIn)
	}

	affected, err := s.repo.DeleteOwned(ctx, jobID, actor)
	if err != nil {
		s.logger.WithError(err).WithField("job_id", jobID.String()).Error("delete job failed")
		s.notify(ctx, notify.Error(s.sessionID, NoticeDeleteFailed))
		return s.Snapshot(), &Error{Err: ErrBackend, Notice: NoticeDeleteFailed, Cause: err}
	}
	if affected == 0 {
		s.logger.WithFields(logrus.Fields{
			"job_id":        jobID.String(),
			"actor_id":      actor.String(),
			"rows_affected": affected,
		}).Warn("delete matched no rows, dropping listing locally")
	}

	st := s.update(func(st *State) {
		st.Jobs = withoutID(st.Jobs, jobID)
		st.MyJobs = withoutID(st.MyJobs, jobID)
	})
	s.notify(ctx, notify.Success(s.sessionID, NoticeDeleted))
	return st, nil
}

func (s *Store) SetSearchQuery(field, value string) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	q, err := s.state.Query.With(field, value)
	if err != nil {
		return s.state.Clone(), &Error{Err: ErrInvalidInput, Cause: err}
	}
	s.state.Query = q
	return s.state.Clone(), nil
}

func (s *Store) ToggleFilter(name string) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, err := s.state.Filters.Toggle(name)
	if err != nil {
		return s.state.Clone(), &Error{Err: ErrInvalidInput, Cause: err}
	}
	s.state.Filters = f
	return s.state.Clone(), nil
}

func (s *Store) SetSalaryRange(minSalary, maxSalary float64) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if minSalary < 0 || maxSalary < 0 || minSalary > maxSalary {
		return s.state.Clone(), &Error{
			Err:   ErrInvalidInput,
			Cause: fmt.Errorf("salary range %v-%v", minSalary, maxSalary),
		}
	}
	s.state.MinSalary = minSalary
	s.state.MaxSalary = maxSalary
	s.state.RangeSet = true
	return s.state.Clone(), nil
}

// lookup finds jobID in the local collection, listing first if the store has
// never loaded.
func (s *Store) lookup(ctx context.Context, jobID uuid.UUID) (job.Listing, error) {
	st, err := s.EnsureLoaded(ctx)
	if err != nil {
		return job.Listing{}, err
	}
	l, ok := st.Find(jobID)
	if !ok {
		return job.Listing{}, &Error{Err: ErrNotFound, Cause: fmt.Errorf("job %s", jobID)}
	}
	return l, nil
}

func (s *Store) refresh(ctx context.Context, action string) {
	if _, err := s.List(ctx); err != nil {
		s.logger.WithError(err).WithField("action", action).Warn("refresh jobs failed")
	}
}

func (s *Store) refuse(ctx context.Context, kind error, msg string) error {
	s.notify(ctx, notify.Error(s.sessionID, msg))
	return &Error{Err: kind, Notice: msg}
}

func (s *Store) notify(ctx context.Context, n notify.Notice) {
	s.notifier.Notify(ctx, n)
}

func (s *Store) setLoading(v bool) {
	s.mu.Lock()
	s.state.Loading = v
	s.mu.Unlock()
}

func (s *Store) update(fn func(st *State)) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.state)
	return s.state.Clone()
}

func normalizeNewListing(in job.NewListing) (job.NewListing, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Location = strings.TrimSpace(in.Location)
	if in.Title == "" {
		return in, errors.New("title is required")
	}
	if strings.TrimSpace(in.Description) == "" {
		return in, errors.New("description is required")
	}
	if in.Salary < 0 {
		return in, errors.New("salary must not be negative")
	}
	if in.SalaryType == "" {
		in.SalaryType = job.SalaryYearly
	}
	if !in.SalaryType.Valid() {
		return in, fmt.Errorf("unknown salary type %q", in.SalaryType)
	}
	in.JobType = compact(in.JobType)
	in.Tags = compact(in.Tags)
	in.Skills = compact(in.Skills)
	return in, nil
}

func compact(in []string) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		out = append(out, v)
	}
	return out
}
