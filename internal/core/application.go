package core

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
)

// Status is the pipeline stage of an application.
type Status string

const (
	StatusDraft     Status = "DRAFT"
	StatusApplied   Status = "APPLIED"
	StatusInterview Status = "INTERVIEW"
	StatusOffer     Status = "OFFER"
	StatusRejected  Status = "REJECTED"
)

// Statuses lists every status in pipeline order.
var Statuses = []Status{StatusDraft, StatusApplied, StatusInterview, StatusOffer, StatusRejected}

var statusLabels = map[Status]string{
	StatusDraft:     "Pending Apply",
	StatusApplied:   "Under Review",
	StatusInterview: "Interview",
	StatusOffer:     "Offered",
	StatusRejected:  "Rejected",
}

// Older clients and forms send display labels instead of enum values.
var statusAliases = map[string]Status{
	"pending apply":                  StatusDraft,
	"applied":                        StatusApplied,
	"under review":                   StatusApplied,
	"pending interview / assignment": StatusInterview,
	"pending interview":              StatusInterview,
	"interview":                      StatusInterview,
	"offered":                        StatusOffer,
	"offer":                          StatusOffer,
	"rejected":                       StatusRejected,
	"draft":                          StatusDraft,
}

// Label returns the display label for a status, or the raw value if unknown.
func (s Status) Label() string {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	return string(s)
}

// Active reports whether the application is still in progress.
func (s Status) Active() bool {
	return s != StatusOffer && s != StatusRejected
}

// ParseStatus accepts enum values or display labels.
func ParseStatus(s string) (Status, error) {
	trimmed := strings.TrimSpace(s)
	upper := Status(strings.ToUpper(trimmed))
	if _, ok := statusLabels[upper]; ok {
		return upper, nil
	}
	if st, ok := statusAliases[strings.ToLower(trimmed)]; ok {
		return st, nil
	}
	return "", fmt.Errorf("unknown status %q (valid: DRAFT, APPLIED, INTERVIEW, OFFER, REJECTED)", s)
}

// Application is a single job application tracked by the backend.
type Application struct {
	ID      string
	Company string
	Title   string
	Status  Status
	// YYYY-MM-DD, empty when no deadline is set
	Deadline   string
	Location   string
	JobType    string
	Salary     string
	JobLink    string
	Experience string
	CreatedAt  string
	AppliedAt  string
	Notes      string
}

// ApplicationInput is the payload for creating or updating an application.
type ApplicationInput struct {
	Company  string
	Title    string
	Location string
	JobType  string
	JobLink  string
	Deadline string
	Salary   string
	Status   string
	Notes    string
}

// Validate checks required fields and normalizes defaults in place.
func (in *ApplicationInput) Validate() error {
	in.Company = strings.TrimSpace(in.Company)
	in.Title = strings.TrimSpace(in.Title)
	if in.Company == "" || in.Title == "" {
		return ValidationError{Field: "company", Message: "Please fill in required fields: Company Name and Job Title."}
	}
	if in.JobType == "" {
		in.JobType = "Full-time"
	}
	if in.Status == "" {
		in.Status = string(StatusApplied)
	}
	st, err := ParseStatus(in.Status)
	if err != nil {
		return ValidationError{Field: "status", Message: err.Error()}
	}
	in.Status = string(st)
	return nil
}

// AppFilter selects which applications a list shows.
type AppFilter string

const (
	FilterAll    AppFilter = "all"
	FilterActive AppFilter = "active"
	FilterClosed AppFilter = "closed"
)

// ParseAppFilter maps a flag value to a filter, defaulting to all.
func ParseAppFilter(s string) AppFilter {
	switch AppFilter(strings.ToLower(strings.TrimSpace(s))) {
	case FilterActive:
		return FilterActive
	case FilterClosed:
		return FilterClosed
	default:
		return FilterAll
	}
}

// FilterApplications returns the applications that match the search term
// (company or title, case-insensitive) and the status filter.
// The input slice is not modified.
func FilterApplications(apps []Application, term string, filter AppFilter) []Application {
	fold := cases.Fold()
	needle := fold.String(strings.TrimSpace(term))

	var out []Application
	for _, a := range apps {
		if needle != "" &&
			!strings.Contains(fold.String(a.Company), needle) &&
			!strings.Contains(fold.String(a.Title), needle) {
			continue
		}
		switch filter {
		case FilterActive:
			if !a.Status.Active() {
				continue
			}
		case FilterClosed:
			if a.Status.Active() {
				continue
			}
		}
		out = append(out, a)
	}
	return out
}

// CountLabel returns the "Showing X of Y" summary for a filtered list.
func CountLabel(shown, total int) string {
	return fmt.Sprintf("Showing %d of %d", shown, total)
}
