package view

import (
	"strings"

	"jobboard/internal/domain/job"
	"jobboard/internal/domain/profile"
	"jobboard/internal/usecase/directory"

	"github.com/google/uuid"
)

type Detail struct {
	Card
	Description     string `json:"description"`
	Negotiable      bool   `json:"negotiable"`
	NegotiableLabel string `json:"negotiable_label"`
	ApplyLabel      string `json:"apply_label"`
	Others          []Card `json:"others"`
}

// NewDetail renders the listing with id from st.Jobs as the active card with
// every other listing beside it.
func NewDetail(st directory.State, id uuid.UUID, v Viewer) (Detail, bool) {
	l, ok := st.Find(id)
	if !ok {
		return Detail{}, false
	}
	others := make([]job.Listing, 0, len(st.Jobs))
	for _, o := range st.Jobs {
		if o.ID != id {
			others = append(others, o)
		}
	}
	card := NewCard(l, v)
	apply := "Apply Now"
	if card.IsApplied {
		apply = "Applied"
	}
	return Detail{
		Card:            card,
		Description:     l.Description,
		Negotiable:      l.Negotiable,
		NegotiableLabel: YesNo(l.Negotiable),
		ApplyLabel:      apply,
		Others:          NewCards(others, v),
	}, true
}

const (
	TabPosts = "posts"
	TabLikes = "likes"
)

type MyJobs struct {
	Tab   string `json:"tab"`
	Posts []Card `json:"posts"`
	Likes []Card `json:"likes"`
	Empty string `json:"empty,omitempty"`
}

// NewMyJobs splits the viewer's own listings from the listings they liked.
func NewMyJobs(st directory.State, v Viewer, tab string) MyJobs {
	if tab != TabLikes {
		tab = TabPosts
	}
	liked := make([]job.Listing, 0)
	if v.SignedIn {
		for _, l := range st.Jobs {
			if l.LikedBy(v.ID) {
				liked = append(liked, l)
			}
		}
	}
	out := MyJobs{
		Tab:   tab,
		Posts: NewCards(st.MyJobs, v),
		Likes: NewCards(liked, v),
	}
	switch {
	case tab == TabPosts && len(out.Posts) == 0:
		out.Empty = "No job posts found."
	case tab == TabLikes && len(out.Likes) == 0:
		out.Empty = "No liked jobs found."
	}
	return out
}

var tagFilters = []struct {
	on  func(directory.Filters) bool
	tag string
}{
	{func(f directory.Filters) bool { return f.FullStack }, "Full Stack"},
	{func(f directory.Filters) bool { return f.Backend }, "Backend"},
	{func(f directory.Filters) bool { return f.DevOps }, "DevOps"},
	{func(f directory.Filters) bool { return f.UIUX }, "UI/UX"},
}

var typeFilters = []struct {
	on      func(directory.Filters) bool
	jobType string
}{
	{func(f directory.Filters) bool { return f.FullTime }, job.TypeFullTime},
	{func(f directory.Filters) bool { return f.PartTime }, job.TypePartTime},
	{func(f directory.Filters) bool { return f.Internship }, job.TypeInternship},
	{func(f directory.Filters) bool { return f.Contract }, job.TypeContract},
}

// Visible applies the presentation filters to st.Jobs: a listing passes when
// it has one of the selected job types (if any are selected), one of the
// selected tag categories (if any are selected), and a salary inside the
// inclusive range once the viewer has set one.
func Visible(st directory.State) []job.Listing {
	var types, tags []string
	for _, f := range typeFilters {
		if f.on(st.Filters) {
			types = append(types, f.jobType)
		}
	}
	for _, f := range tagFilters {
		if f.on(st.Filters) {
			tags = append(tags, f.tag)
		}
	}

	out := make([]job.Listing, 0, len(st.Jobs))
	for _, l := range st.Jobs {
		if len(types) > 0 && !anyEqual(l.JobType, types) {
			continue
		}
		if len(tags) > 0 && !anyEqualFold(l.Tags, tags) {
			continue
		}
		if st.RangeSet && (l.Salary < st.MinSalary || l.Salary > st.MaxSalary) {
			continue
		}
		out = append(out, l)
	}
	return out
}

type PostForm struct {
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Location    string         `json:"location"`
	Salary      float64        `json:"salary"`
	SalaryType  job.SalaryType `json:"salary_type"`
	Negotiable  bool           `json:"negotiable"`
	JobType     []string       `json:"job_type"`
	Tags        []string       `json:"tags"`
	Skills      []string       `json:"skills"`
}

// DefaultPostForm is the blank form shown for a new post and after a reset.
func DefaultPostForm() PostForm {
	return PostForm{
		SalaryType: job.SalaryYearly,
		JobType:    []string{},
		Tags:       []string{},
		Skills:     []string{},
	}
}

func (f PostForm) NewListing() job.NewListing {
	return job.NewListing{
		Title:       f.Title,
		Description: f.Description,
		Location:    f.Location,
		Salary:      f.Salary,
		SalaryType:  f.SalaryType,
		Negotiable:  f.Negotiable,
		JobType:     f.JobType,
		Tags:        f.Tags,
		Skills:      f.Skills,
	}
}

type Header struct {
	SignedIn bool             `json:"signed_in"`
	Profile  *profile.Profile `json:"profile,omitempty"`
	Avatar   string           `json:"avatar"`
}

func NewHeader(signedIn bool, p *profile.Profile) Header {
	h := Header{SignedIn: signedIn && p != nil, Avatar: DefaultAvatar}
	if h.SignedIn {
		h.Profile = p
		if p.ProfilePicture != nil && *p.ProfilePicture != "" {
			h.Avatar = *p.ProfilePicture
		}
	}
	return h
}

func anyEqual(have, want []string) bool {
	for _, h := range have {
		for _, w := range want {
			if h == w {
				return true
			}
		}
	}
	return false
}

func anyEqualFold(have, want []string) bool {
	for _, h := range have {
		for _, w := range want {
			if strings.EqualFold(h, w) {
				return true
			}
		}
	}
	return false
}
