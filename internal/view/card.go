package view

import (
	"jobboard/internal/domain/job"

	"github.com/google/uuid"
)

const DefaultAvatar = "/user.png"

type Badge struct {
	Label string `json:"label"`
	Class string `json:"class"`
}

// BadgeClass maps a job type to its badge colours.
func BadgeClass(jobType string) string {
	switch jobType {
	case job.TypeFullTime:
		return "bg-green-500/20 text-green-600"
	case job.TypePartTime:
		return "bg-purple-500/20 text-purple-600"
	case job.TypeContract:
		return "bg-red-500/20 text-red-600"
	case job.TypeInternship:
		return "bg-indigo-500/20 text-indigo-600"
	default:
		return "bg-gray-500/20 text-gray-600"
	}
}

// Card is the list projection of a listing for one viewer. IsLiked and
// IsApplied are computed from the listing on every call.
type Card struct {
	ID             uuid.UUID      `json:"id"`
	Title          string         `json:"title"`
	Location       string         `json:"location"`
	Salary         float64        `json:"salary"`
	SalaryType     job.SalaryType `json:"salary_type"`
	SalaryLabel    string         `json:"salary_label"`
	Badges         []Badge        `json:"badges"`
	PrimaryType    string         `json:"primary_type"`
	Tags           []string       `json:"tags"`
	Skills         []string       `json:"skills"`
	Posted         string         `json:"posted"`
	Applicants     int            `json:"applicants"`
	ApplicantLabel string         `json:"applicant_label"`
	Likes          int            `json:"likes"`
	IsLiked        bool           `json:"is_liked"`
	IsApplied      bool           `json:"is_applied"`
	IsOwner        bool           `json:"is_owner"`
	AuthorName     string         `json:"author_name"`
	AuthorPicture  string         `json:"author_picture"`
	DetailPath     string         `json:"detail_path"`
}

// Viewer identifies who a projection is rendered for. The zero value is a
// signed-out visitor.
type Viewer struct {
	ID       uuid.UUID
	SignedIn bool
}

func NewCard(l job.Listing, v Viewer) Card {
	badges := make([]Badge, 0, len(l.JobType))
	for _, t := range l.JobType {
		badges = append(badges, Badge{Label: t, Class: BadgeClass(t)})
	}
	primary := ""
	if len(l.JobType) > 0 {
		primary = l.JobType[0]
	}

	c := Card{
		ID:             l.ID,
		Title:          l.Title,
		Location:       l.Location,
		Salary:         l.Salary,
		SalaryType:     l.SalaryType,
		SalaryLabel:    SalaryLabel(l.Salary, l.SalaryType),
		Badges:         badges,
		PrimaryType:    primary,
		Tags:           copyStrings(l.Tags),
		Skills:         copyStrings(l.Skills),
		Posted:         FormatDate(l.CreatedAt),
		Applicants:     len(l.Applicants),
		ApplicantLabel: ApplicantLabel(len(l.Applicants)),
		Likes:          len(l.Likes),
		AuthorPicture:  DefaultAvatar,
		DetailPath:     "/jobs/" + l.ID.String(),
	}
	if v.SignedIn {
		c.IsLiked = l.LikedBy(v.ID)
		c.IsApplied = l.AppliedBy(v.ID)
		c.IsOwner = l.CreatedBy == v.ID
	}
	if l.Author != nil {
		if l.Author.Name != nil {
			c.AuthorName = *l.Author.Name
		}
		if l.Author.ProfilePicture != nil && *l.Author.ProfilePicture != "" {
			c.AuthorPicture = *l.Author.ProfilePicture
		}
	}
	return c
}

func NewCards(ls []job.Listing, v Viewer) []Card {
	out := make([]Card, 0, len(ls))
	for _, l := range ls {
		out = append(out, NewCard(l, v))
	}
	return out
}

func copyStrings(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}
