package directory

import (
	"fmt"
	"strings"

	"jobboard/internal/domain/job"

	"github.com/google/uuid"
)

const (
	DefaultMinSalary = 30000
	DefaultMaxSalary = 120000
)

// Query holds the search inputs as typed; it is applied only by Search.
type Query struct {
	Tags     string `json:"tags"`
	Location string `json:"location"`
	Title    string `json:"title"`
}

func (q Query) Filter() job.SearchFilter {
	return job.SearchFilter{Tags: q.Tags, Location: q.Location, Title: q.Title}
}

func (q Query) With(field, value string) (Query, error) {
	switch strings.TrimSpace(field) {
	case "tags":
		q.Tags = value
	case "location":
		q.Location = value
	case "title":
		q.Title = value
	default:
		return q, fmt.Errorf("%w: unknown search field %q", ErrInvalidInput, field)
	}
	return q, nil
}

const (
	FilterFullTime   = "fullTime"
	FilterPartTime   = "partTime"
	FilterInternship = "internship"
	FilterContract   = "contract"
	FilterFullStack  = "fullStack"
	FilterBackend    = "backend"
	FilterDevOps     = "devOps"
	FilterUIUX       = "uiUx"
)

type Filters struct {
	FullTime   bool `json:"fullTime"`
	PartTime   bool `json:"partTime"`
	Internship bool `json:"internship"`
	Contract   bool `json:"contract"`
	FullStack  bool `json:"fullStack"`
	Backend    bool `json:"backend"`
	DevOps     bool `json:"devOps"`
	UIUX       bool `json:"uiUx"`
}

func (f Filters) Toggle(name string) (Filters, error) {
	switch strings.TrimSpace(name) {
	case FilterFullTime:
		f.FullTime = !f.FullTime
	case FilterPartTime:
		f.PartTime = !f.PartTime
	case FilterInternship:
		f.Internship = !f.Internship
	case FilterContract:
		f.Contract = !f.Contract
	case FilterFullStack:
		f.FullStack = !f.FullStack
	case FilterBackend:
		f.Backend = !f.Backend
	case FilterDevOps:
		f.DevOps = !f.DevOps
	case FilterUIUX:
		f.UIUX = !f.UIUX
	default:
		return f, fmt.Errorf("%w: unknown filter %q", ErrInvalidInput, name)
	}
	return f, nil
}

// State is a snapshot of one directory. Values handed out never share
// slices with the store.
type State struct {
	Jobs      []job.Listing `json:"jobs"`
	MyJobs    []job.Listing `json:"my_jobs"`
	Query     Query         `json:"search_query"`
	Filters   Filters       `json:"filters"`
	MinSalary float64       `json:"min_salary"`
	MaxSalary float64       `json:"max_salary"`
	// RangeSet is true once the viewer picks a salary range; the default
	// bounds are not applied to listings.
	RangeSet bool `json:"salary_range_set"`
	Loading  bool `json:"loading"`
	Loaded   bool `json:"loaded"`
}

func (s State) Clone() State {
	out := s
	out.Jobs = cloneListings(s.Jobs)
	out.MyJobs = cloneListings(s.MyJobs)
	return out
}

// Find returns the listing with id from Jobs.
func (s State) Find(id uuid.UUID) (job.Listing, bool) {
	for _, l := range s.Jobs {
		if l.ID == id {
			return l, true
		}
	}
	return job.Listing{}, false
}

func cloneListings(in []job.Listing) []job.Listing {
	out := make([]job.Listing, 0, len(in))
	for _, l := range in {
		out = append(out, l.Clone())
	}
	return out
}

func withoutID(in []job.Listing, id uuid.UUID) []job.Listing {
	out := make([]job.Listing, 0, len(in))
	for _, l := range in {
		if l.ID == id {
			continue
		}
		out = append(out, l)
	}
	return out
}
