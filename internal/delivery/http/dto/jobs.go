package dto

import (
	"jobboard/internal/usecase/directory"
	"jobboard/internal/view"
)

type JobListResponse struct {
	Jobs  []view.Card `json:"jobs"`
	Total int         `json:"total"`
}

type JobActionResponse struct {
	Job    *view.Card `json:"job,omitempty"`
	Notice string     `json:"notice"`
}

type CreateJobResponse struct {
	Job      *view.Card `json:"job,omitempty"`
	Redirect string     `json:"redirect"`
}

type DirectoryResponse struct {
	Query     directory.Query   `json:"search_query"`
	Filters   directory.Filters `json:"filters"`
	MinSalary float64           `json:"min_salary"`
	MaxSalary float64           `json:"max_salary"`
	RangeSet  bool              `json:"salary_range_set"`
	Loading   bool              `json:"loading"`
	Loaded    bool              `json:"loaded"`
	Visible   int               `json:"visible"`
}

func NewDirectoryResponse(st directory.State) DirectoryResponse {
	return DirectoryResponse{
		Query:     st.Query,
		Filters:   st.Filters,
		MinSalary: st.MinSalary,
		MaxSalary: st.MaxSalary,
		RangeSet:  st.RangeSet,
		Loading:   st.Loading,
		Loaded:    st.Loaded,
		Visible:   len(view.Visible(st)),
	}
}

type SearchQueryRequest struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

type SalaryRangeRequest struct {
	Min *float64 `json:"min"`
	Max *float64 `json:"max"`
}
