package directory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"jobboard/internal/domain/job"
	"jobboard/internal/notify"

	"github.com/google/uuid"
)

type fakeRepo struct {
	mu    sync.Mutex
	items map[uuid.UUID]job.Listing
	clock time.Time

	writes   int
	writeErr error
	listErr  error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		items: map[uuid.UUID]job.Listing{},
		clock: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (f *fakeRepo) seed(title, location string, tags []string, owner uuid.UUID) job.Listing {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.clock = f.clock.Add(time.Hour)
	l := job.Listing{
		ID:         uuid.New(),
		Title:      title,
		Location:   location,
		Tags:       tags,
		JobType:    []string{job.TypeFullTime},
		Likes:      []uuid.UUID{},
		Applicants: []uuid.UUID{},
		CreatedBy:  owner,
		CreatedAt:  f.clock,
	}
	f.items[l.ID] = l
	return l
}

func (f *fakeRepo) all() []job.Listing {
	out := make([]job.Listing, 0, len(f.items))
	for _, l := range f.items {
		out = append(out, l.Clone())
	}
	job.SortNewestFirst(out)
	return out
}

func (f *fakeRepo) List(_ context.Context) ([]job.Listing, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.all(), nil
}

func (f *fakeRepo) ListByCreator(_ context.Context, profileID uuid.UUID) ([]job.Listing, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]job.Listing, 0)
	for _, l := range f.all() {
		if l.CreatedBy == profileID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (f *fakeRepo) Search(_ context.Context, sf job.SearchFilter) ([]job.Listing, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]job.Listing, 0)
	for _, l := range f.all() {
		if sf.Matches(l) {
			out = append(out, l)
		}
	}
	return out, nil
}

func (f *fakeRepo) GetByID(_ context.Context, id uuid.UUID) (job.Listing, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	l, ok := f.items[id]
	if !ok {
		return job.Listing{}, job.ErrNotFound
	}
	return l.Clone(), nil
}

func (f *fakeRepo) Create(_ context.Context, in job.NewListing) (job.Listing, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writes++
	if f.writeErr != nil {
		return job.Listing{}, f.writeErr
	}
	f.clock = f.clock.Add(time.Hour)
	l := job.Listing{
		ID:          uuid.New(),
		Title:       in.Title,
		Description: in.Description,
		Location:    in.Location,
		Salary:      in.Salary,
		SalaryType:  in.SalaryType,
		Negotiable:  in.Negotiable,
		JobType:     in.JobType,
		Tags:        in.Tags,
		Skills:      in.Skills,
		Likes:       []uuid.UUID{},
		Applicants:  []uuid.UUID{},
		CreatedBy:   in.CreatedBy,
		CreatedAt:   f.clock,
	}
	f.items[l.ID] = l
	return l.Clone(), nil
}

func (f *fakeRepo) UpdateLikes(_ context.Context, id uuid.UUID, likes []uuid.UUID) error {
	return f.updateSet(id, func(l *job.Listing) { l.Likes = likes })
}

func (f *fakeRepo) UpdateApplicants(_ context.Context, id uuid.UUID, applicants []uuid.UUID) error {
	return f.updateSet(id, func(l *job.Listing) { l.Applicants = applicants })
}

func (f *fakeRepo) DeleteOwned(_ context.Context, id uuid.UUID, ownerID uuid.UUID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writes++
	if f.writeErr != nil {
		return 0, f.writeErr
	}
	l, ok := f.items[id]
	if !ok || l.CreatedBy != ownerID {
		return 0, nil
	}
	delete(f.items, id)
	return 1, nil
}

func (f *fakeRepo) updateSet(id uuid.UUID, fn func(l *job.Listing)) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writes++
	if f.writeErr != nil {
		return f.writeErr
	}
	l, ok := f.items[id]
	if !ok {
		return job.ErrNotFound
	}
	fn(&l)
	f.items[id] = l
	return nil
}

func (f *fakeRepo) writeCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.writes
}

func signedIn(id uuid.UUID) Viewer {
	return func() (uuid.UUID, bool) { return id, true }
}

func newTestStore(repo *fakeRepo, viewer Viewer) (*Store, *notify.Recorder) {
	rec := &notify.Recorder{}
	return NewStore(repo, Options{SessionID: uuid.New(), Viewer: viewer, Notifier: rec}), rec
}

func lastNotice(t *testing.T, rec *notify.Recorder) notify.Notice {
	t.Helper()
	n, ok := rec.Last()
	if !ok {
		t.Fatalf("expected a notice")
	}
	return n
}

func TestList_NewestFirst(t *testing.T) {
	repo := newFakeRepo()
	owner := uuid.New()
	a := repo.seed("A", "London", nil, owner)
	b := repo.seed("B", "Leeds", nil, owner)
	s, _ := newTestStore(repo, Anonymous)

	st, err := s.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(st.Jobs) != 2 || st.Jobs[0].ID != b.ID || st.Jobs[1].ID != a.ID {
		t.Fatalf("expected newest-first order")
	}
	if !st.Loaded || st.Loading {
		t.Fatalf("unexpected flags loaded=%v loading=%v", st.Loaded, st.Loading)
	}
}

func TestSnapshot_DoesNotShareSlices(t *testing.T) {
	repo := newFakeRepo()
	repo.seed("A", "London", []string{"Backend"}, uuid.New())
	s, _ := newTestStore(repo, Anonymous)

	st, err := s.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	st.Jobs[0].Title = "mutated"
	st.Jobs[0].Tags[0] = "mutated"
	st.Jobs = nil

	again := s.Snapshot()
	if len(again.Jobs) != 1 || again.Jobs[0].Title != "A" || again.Jobs[0].Tags[0] != "Backend" {
		t.Fatalf("snapshot shared state with caller: %+v", again.Jobs)
	}
}

func TestLike_ToggleLaw(t *testing.T) {
	repo := newFakeRepo()
	l := repo.seed("Go Dev", "London", nil, uuid.New())
	u := uuid.New()
	s, rec := newTestStore(repo, signedIn(u))
	ctx := context.Background()

	st, err := s.Like(ctx, l.ID)
	if err != nil {
		t.Fatalf("like: %v", err)
	}
	got, _ := st.Find(l.ID)
	if !got.LikedBy(u) {
		t.Fatalf("expected liked after first toggle")
	}
	if n := lastNotice(t, rec); n.Message != NoticeLiked || n.Level != notify.LevelSuccess {
		t.Fatalf("unexpected notice: %+v", n)
	}

	st, err = s.Like(ctx, l.ID)
	if err != nil {
		t.Fatalf("unlike: %v", err)
	}
	got, _ = st.Find(l.ID)
	if got.LikedBy(u) || len(got.Likes) != 0 {
		t.Fatalf("expected original likes after second toggle, got %v", got.Likes)
	}
	if n := lastNotice(t, rec); n.Message != NoticeUnliked {
		t.Fatalf("unexpected notice: %+v", n)
	}
}

func TestLike_KeepsOtherLikersAndNoDuplicates(t *testing.T) {
	repo := newFakeRepo()
	l := repo.seed("Go Dev", "London", nil, uuid.New())
	other, u := uuid.New(), uuid.New()
	if err := repo.UpdateLikes(context.Background(), l.ID, []uuid.UUID{other}); err != nil {
		t.Fatalf("seed likes: %v", err)
	}
	s, _ := newTestStore(repo, signedIn(u))

	st, err := s.Like(context.Background(), l.ID)
	if err != nil {
		t.Fatalf("like: %v", err)
	}
	got, _ := st.Find(l.ID)
	if len(got.Likes) != 2 || !got.LikedBy(other) || !got.LikedBy(u) {
		t.Fatalf("unexpected likes: %v", got.Likes)
	}
	if len(job.UniqueIDs(got.Likes)) != len(got.Likes) {
		t.Fatalf("duplicate ids in likes: %v", got.Likes)
	}
}

func TestLike_SignedOutDoesNotWrite(t *testing.T) {
	repo := newFakeRepo()
	l := repo.seed("Go Dev", "London", nil, uuid.New())
	s, rec := newTestStore(repo, Anonymous)

	_, err := s.Like(context.Background(), l.ID)
	if !errors.Is(err, ErrAuthRequired) {
		t.Fatalf("expected ErrAuthRequired, got %v", err)
	}
	if NoticeOf(err) != NoticeLikeSignIn {
		t.Fatalf("notice = %q", NoticeOf(err))
	}
	if n := lastNotice(t, rec); n.Message != NoticeLikeSignIn || n.Level != notify.LevelError {
		t.Fatalf("unexpected notice: %+v", n)
	}
	if repo.writeCount() != 0 {
		t.Fatalf("expected no backend write, got %d", repo.writeCount())
	}
	stored, _ := repo.GetByID(context.Background(), l.ID)
	if len(stored.Likes) != 0 {
		t.Fatalf("likes changed: %v", stored.Likes)
	}
}

func TestLike_UnknownJob(t *testing.T) {
	repo := newFakeRepo()
	repo.seed("Go Dev", "London", nil, uuid.New())
	s, _ := newTestStore(repo, signedIn(uuid.New()))

	_, err := s.Like(context.Background(), uuid.New())
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if repo.writeCount() != 0 {
		t.Fatalf("expected no write for unknown job")
	}
}

func TestLike_BackendFailureKeepsState(t *testing.T) {
	repo := newFakeRepo()
	l := repo.seed("Go Dev", "London", nil, uuid.New())
	s, rec := newTestStore(repo, signedIn(uuid.New()))
	ctx := context.Background()
	before, err := s.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}

	repo.writeErr = errors.New("connection reset")
	after, err := s.Like(ctx, l.ID)
	if !errors.Is(err, ErrBackend) {
		t.Fatalf("expected ErrBackend, got %v", err)
	}
	if n := lastNotice(t, rec); n.Message != NoticeLikeFailed {
		t.Fatalf("unexpected notice: %+v", n)
	}
	got, _ := after.Find(l.ID)
	prev, _ := before.Find(l.ID)
	if len(got.Likes) != len(prev.Likes) {
		t.Fatalf("state changed on failure")
	}
}

func TestApplyTo_Idempotent(t *testing.T) {
	repo := newFakeRepo()
	l := repo.seed("Go Dev", "London", nil, uuid.New())
	u := uuid.New()
	s, rec := newTestStore(repo, signedIn(u))
	ctx := context.Background()

	st, err := s.ApplyTo(ctx, l.ID)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	got, _ := st.Find(l.ID)
	if !got.AppliedBy(u) {
		t.Fatalf("expected applied")
	}
	if n := lastNotice(t, rec); n.Message != NoticeApplied {
		t.Fatalf("unexpected notice: %+v", n)
	}
	writes := repo.writeCount()

	st, err = s.ApplyTo(ctx, l.ID)
	if !errors.Is(err, ErrAlreadyApplied) {
		t.Fatalf("expected ErrAlreadyApplied, got %v", err)
	}
	if n := lastNotice(t, rec); n.Message != NoticeAlreadyApplied || n.Level != notify.LevelError {
		t.Fatalf("unexpected notice: %+v", n)
	}
	if repo.writeCount() != writes {
		t.Fatalf("duplicate apply wrote to backend")
	}
	got, _ = st.Find(l.ID)
	if len(got.Applicants) != 1 {
		t.Fatalf("applicants = %v", got.Applicants)
	}
}

func TestApplyTo_SignedOut(t *testing.T) {
	repo := newFakeRepo()
	l := repo.seed("Go Dev", "London", nil, uuid.New())
	s, _ := newTestStore(repo, Anonymous)
	_, err := s.ApplyTo(context.Background(), l.ID)
	if !errors.Is(err, ErrAuthRequired) || NoticeOf(err) != NoticeApplySignIn {
		t.Fatalf("unexpected err %v (notice %q)", err, NoticeOf(err))
	}
}

func TestRemove_NonOwnerDropsLocallyOnly(t *testing.T) {
	repo := newFakeRepo()
	owner, stranger := uuid.New(), uuid.New()
	l := repo.seed("Go Dev", "London", nil, owner)
	s, rec := newTestStore(repo, signedIn(stranger))
	ctx := context.Background()
	if _, err := s.List(ctx); err != nil {
		t.Fatalf("list: %v", err)
	}

	st, err := s.Remove(ctx, l.ID)
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, ok := st.Find(l.ID); ok {
		t.Fatalf("listing should be dropped locally")
	}
	if n := lastNotice(t, rec); n.Message != NoticeDeleted {
		t.Fatalf("unexpected notice: %+v", n)
	}
	if _, err := repo.GetByID(ctx, l.ID); err != nil {
		t.Fatalf("backend row should remain: %v", err)
	}
}

func TestRemove_OwnerDeletesEverywhere(t *testing.T) {
	repo := newFakeRepo()
	owner := uuid.New()
	l := repo.seed("Go Dev", "London", nil, owner)
	s, _ := newTestStore(repo, signedIn(owner))
	ctx := context.Background()
	if _, err := s.ListMine(ctx, owner); err != nil {
		t.Fatalf("list mine: %v", err)
	}

	st, err := s.Remove(ctx, l.ID)
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if len(st.MyJobs) != 0 {
		t.Fatalf("my jobs not updated: %v", st.MyJobs)
	}
	if _, err := repo.GetByID(ctx, l.ID); !errors.Is(err, job.ErrNotFound) {
		t.Fatalf("expected backend row deleted")
	}
}

func TestRemove_BackendError(t *testing.T) {
	repo := newFakeRepo()
	owner := uuid.New()
	l := repo.seed("Go Dev", "London", nil, owner)
	s, rec := newTestStore(repo, signedIn(owner))
	ctx := context.Background()
	if _, err := s.List(ctx); err != nil {
		t.Fatalf("list: %v", err)
	}
	repo.writeErr = errors.New("boom")

	st, err := s.Remove(ctx, l.ID)
	if !errors.Is(err, ErrBackend) {
		t.Fatalf("expected ErrBackend, got %v", err)
	}
	if _, ok := st.Find(l.ID); !ok {
		t.Fatalf("listing should stay on failure")
	}
	if n := lastNotice(t, rec); n.Message != NoticeDeleteFailed {
		t.Fatalf("unexpected notice: %+v", n)
	}
}

func TestSearch_Narrows(t *testing.T) {
	repo := newFakeRepo()
	owner := uuid.New()
	repo.seed("Senior Go Engineer", "London", []string{"Backend"}, owner)
	repo.seed("Go Intern", "Leeds", []string{"Backend"}, owner)
	repo.seed("Designer", "London", []string{"UI/UX"}, owner)
	s, _ := newTestStore(repo, Anonymous)
	ctx := context.Background()

	st, err := s.Search(ctx, "", "", "go")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(st.Jobs) != 2 {
		t.Fatalf("title search: got %d", len(st.Jobs))
	}

	st, err = s.Search(ctx, "Backend", "london", "go")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(st.Jobs) != 1 || st.Jobs[0].Title != "Senior Go Engineer" {
		t.Fatalf("narrowed search: %+v", st.Jobs)
	}

	st, err = s.Search(ctx, "", "", "")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(st.Jobs) != 3 || st.Jobs[0].Title != "Designer" {
		t.Fatalf("unfiltered search should be all newest-first")
	}
}

func TestCreate_LandsInJobsAndMyJobs(t *testing.T) {
	repo := newFakeRepo()
	repo.seed("Existing", "Leeds", nil, uuid.New())
	u := uuid.New()
	s, rec := newTestStore(repo, signedIn(u))

	st, redirect, err := s.Create(context.Background(), job.NewListing{
		Title:       "  Go Dev ",
		Description: "<p>x</p>",
		Location:    "London",
		Salary:      50000,
		JobType:     []string{job.TypeFullTime},
		Tags:        []string{"Backend", " "},
		CreatedBy:   uuid.New(),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if len(st.Jobs) != 2 || st.Jobs[0].Title != "Go Dev" {
		t.Fatalf("created listing not first in Jobs: %+v", st.Jobs)
	}
	created := st.Jobs[0]
	if created.CreatedBy != u {
		t.Fatalf("created_by = %s, want viewer %s", created.CreatedBy, u)
	}
	if created.SalaryType != job.SalaryYearly {
		t.Fatalf("salary type default not applied")
	}
	if len(created.Tags) != 1 {
		t.Fatalf("blank tags not dropped: %v", created.Tags)
	}
	if len(st.MyJobs) != 1 || st.MyJobs[0].ID != created.ID {
		t.Fatalf("created listing missing from MyJobs")
	}
	if redirect != "/jobs/"+created.ID.String() {
		t.Fatalf("redirect = %q", redirect)
	}
	if n := lastNotice(t, rec); n.Message != NoticeCreated {
		t.Fatalf("unexpected notice: %+v", n)
	}
}

func TestCreate_Validation(t *testing.T) {
	repo := newFakeRepo()
	s, _ := newTestStore(repo, signedIn(uuid.New()))
	cases := []job.NewListing{
		{Title: "", Description: "d"},
		{Title: "t", Description: " "},
		{Title: "t", Description: "d", Salary: -1},
		{Title: "t", Description: "d", SalaryType: "Daily"},
	}
	for i, in := range cases {
		_, _, err := s.Create(context.Background(), in)
		if !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("case %d: expected ErrInvalidInput, got %v", i, err)
		}
	}
	if repo.writeCount() != 0 {
		t.Fatalf("invalid input reached the backend")
	}
}

func TestCreate_SignedOutAndBackendError(t *testing.T) {
	repo := newFakeRepo()
	s, _ := newTestStore(repo, Anonymous)
	_, _, err := s.Create(context.Background(), job.NewListing{Title: "t", Description: "d"})
	if !errors.Is(err, ErrAuthRequired) || NoticeOf(err) != NoticeCreateSignIn {
		t.Fatalf("unexpected err %v", err)
	}

	repo.writeErr = errors.New("insert failed")
	s, rec := newTestStore(repo, signedIn(uuid.New()))
	_, redirect, err := s.Create(context.Background(), job.NewListing{Title: "t", Description: "d"})
	if !errors.Is(err, ErrBackend) || redirect != "" {
		t.Fatalf("unexpected result redirect=%q err=%v", redirect, err)
	}
	if n := lastNotice(t, rec); n.Message != NoticeCreateFailed {
		t.Fatalf("unexpected notice: %+v", n)
	}
}

func TestList_BackendErrorKeepsState(t *testing.T) {
	repo := newFakeRepo()
	repo.seed("A", "London", nil, uuid.New())
	s, _ := newTestStore(repo, Anonymous)
	ctx := context.Background()
	if _, err := s.List(ctx); err != nil {
		t.Fatalf("list: %v", err)
	}

	repo.listErr = errors.New("timeout")
	st, err := s.List(ctx)
	if !errors.Is(err, ErrBackend) {
		t.Fatalf("expected ErrBackend, got %v", err)
	}
	if len(st.Jobs) != 1 || st.Loading {
		t.Fatalf("state changed on failure: %+v", st)
	}
}

func TestSetters(t *testing.T) {
	s, _ := newTestStore(newFakeRepo(), Anonymous)

	st, err := s.SetSearchQuery("title", "go")
	if err != nil || st.Query.Title != "go" {
		t.Fatalf("set query: %+v %v", st.Query, err)
	}
	if _, err := s.SetSearchQuery("company", "x"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}

	st, err = s.ToggleFilter(FilterFullTime)
	if err != nil || !st.Filters.FullTime {
		t.Fatalf("toggle: %+v %v", st.Filters, err)
	}
	st, _ = s.ToggleFilter(FilterFullTime)
	if st.Filters.FullTime {
		t.Fatalf("second toggle should clear")
	}
	if _, err := s.ToggleFilter("remote"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}

	if st.MinSalary != DefaultMinSalary || st.MaxSalary != DefaultMaxSalary || st.RangeSet {
		t.Fatalf("unexpected salary defaults: %v-%v set=%v", st.MinSalary, st.MaxSalary, st.RangeSet)
	}
	st, err = s.SetSalaryRange(40000, 90000)
	if err != nil || st.MinSalary != 40000 || st.MaxSalary != 90000 || !st.RangeSet {
		t.Fatalf("set salary: %v-%v %v", st.MinSalary, st.MaxSalary, err)
	}
	if _, err := s.SetSalaryRange(90000, 40000); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestRegistry(t *testing.T) {
	r := NewRegistry(newFakeRepo(), nil, nil, 0, 0)
	sid := uuid.New()

	a := r.ForSession(sid, signedIn(uuid.New()))
	b := r.ForSession(sid, Anonymous)
	if a != b {
		t.Fatalf("expected same store for session")
	}
	if r.Ephemeral() == r.Ephemeral() {
		t.Fatalf("ephemeral stores must not be shared")
	}
	if r.Len() != 1 {
		t.Fatalf("len = %d", r.Len())
	}
	r.Drop(sid)
	if r.Len() != 0 {
		t.Fatalf("len after drop = %d", r.Len())
	}
}
