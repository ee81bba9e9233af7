package job

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

type SalaryType string

const (
	SalaryYearly  SalaryType = "Yearly"
	SalaryMonthly SalaryType = "Monthly"
	SalaryWeekly  SalaryType = "Weekly"
	SalaryHourly  SalaryType = "Hourly"
)

func (t SalaryType) Valid() bool {
	switch t {
	case SalaryYearly, SalaryMonthly, SalaryWeekly, SalaryHourly:
		return true
	default:
		return false
	}
}

// Job type categories offered by the post form.
const (
	TypeFullTime   = "Full Time"
	TypePartTime   = "Part Time"
	TypeContract   = "Contract"
	TypeInternship = "Internship"
)

// Author is the public slice of the creator's profile joined onto a listing.
type Author struct {
	ID             uuid.UUID `json:"id"`
	Name           *string   `json:"name"`
	ProfilePicture *string   `json:"profile_picture"`
}

type Listing struct {
	ID          uuid.UUID   `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Location    string      `json:"location"`
	Salary      float64     `json:"salary"`
	SalaryType  SalaryType  `json:"salary_type"`
	Negotiable  bool        `json:"negotiable"`
	JobType     []string    `json:"job_type"`
	Tags        []string    `json:"tags"`
	Skills      []string    `json:"skills"`
	Likes       []uuid.UUID `json:"likes"`
	Applicants  []uuid.UUID `json:"applicants"`
	CreatedBy   uuid.UUID   `json:"created_by"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
	Author      *Author     `json:"profiles,omitempty"`
}

func (l Listing) LikedBy(id uuid.UUID) bool {
	return containsID(l.Likes, id)
}

func (l Listing) AppliedBy(id uuid.UUID) bool {
	return containsID(l.Applicants, id)
}

// Clone returns a copy that shares no slices with l.
func (l Listing) Clone() Listing {
	out := l
	out.JobType = cloneStrings(l.JobType)
	out.Tags = cloneStrings(l.Tags)
	out.Skills = cloneStrings(l.Skills)
	out.Likes = cloneIDs(l.Likes)
	out.Applicants = cloneIDs(l.Applicants)
	if l.Author != nil {
		a := *l.Author
		out.Author = &a
	}
	return out
}

type NewListing struct {
	Title       string
	Description string
	Location    string
	Salary      float64
	SalaryType  SalaryType
	Negotiable  bool
	JobType     []string
	Tags        []string
	Skills      []string
	CreatedBy   uuid.UUID
}

// SearchFilter narrows the listing set. Empty fields are not applied.
type SearchFilter struct {
	Tags     string
	Location string
	Title    string
}

func (f SearchFilter) Normalize() SearchFilter {
	return SearchFilter{
		Tags:     strings.TrimSpace(f.Tags),
		Location: strings.TrimSpace(f.Location),
		Title:    strings.TrimSpace(f.Title),
	}
}

func (f SearchFilter) IsZero() bool {
	n := f.Normalize()
	return n.Tags == "" && n.Location == "" && n.Title == ""
}

// Matches applies the filter in memory with the same semantics the SQL backends
// use: case-insensitive substring on title and location, exact membership on tags.
func (f SearchFilter) Matches(l Listing) bool {
	n := f.Normalize()
	if n.Title != "" && !containsFold(l.Title, n.Title) {
		return false
	}
	if n.Location != "" && !containsFold(l.Location, n.Location) {
		return false
	}
	if n.Tags != "" {
		found := false
		for _, t := range l.Tags {
			if t == n.Tags {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// SortNewestFirst orders by created_at descending, keeping input order for ties.
func SortNewestFirst(items []Listing) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
}

// ToggleID removes id from set when present and appends it otherwise. The
// returned slice is always a fresh copy.
func ToggleID(set []uuid.UUID, id uuid.UUID) ([]uuid.UUID, bool) {
	out := make([]uuid.UUID, 0, len(set)+1)
	removed := false
	for _, v := range set {
		if v == id {
			removed = true
			continue
		}
		out = append(out, v)
	}
	if removed {
		return out, false
	}
	return append(out, id), true
}

// AddID appends id unless already present. The returned slice is a fresh copy.
func AddID(set []uuid.UUID, id uuid.UUID) ([]uuid.UUID, bool) {
	out := cloneIDs(set)
	if containsID(set, id) {
		return out, false
	}
	return append(out, id), true
}

// UniqueIDs drops duplicates, keeping first occurrence order.
func UniqueIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// ParseIDs converts stored text ids, skipping values that are not uuids.
func ParseIDs(raw []string) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(raw))
	for _, s := range raw {
		id, err := uuid.Parse(strings.TrimSpace(s))
		if err != nil {
			continue
		}
		out = append(out, id)
	}
	return UniqueIDs(out)
}

func FormatIDs(ids []uuid.UUID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.String())
	}
	return out
}

func containsID(set []uuid.UUID, id uuid.UUID) bool {
	for _, v := range set {
		if v == id {
			return true
		}
	}
	return false
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

func cloneStrings(in []string) []string {
	if in == nil {
		return []string{}
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func cloneIDs(in []uuid.UUID) []uuid.UUID {
	if in == nil {
		return []uuid.UUID{}
	}
	out := make([]uuid.UUID, len(in))
	copy(out, in)
	return out
}
