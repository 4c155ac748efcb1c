package core

import (
	"strings"

	"golang.org/x/text/cases"
)

// Job is a recommended job posting.
type Job struct {
	ID       string
	Title    string
	Company  string
	Salary   string
	Location string
	// May contain HTML from the upstream job board
	Description string
	JobLink     string
	JobType     string
}

// ApplicationInput pre-fills a new application from the posting.
func (j Job) ApplicationInput() ApplicationInput {
	return ApplicationInput{
		Company:  j.Company,
		Title:    j.Title,
		Location: j.Location,
		Salary:   j.Salary,
		JobLink:  j.JobLink,
		JobType:  j.JobType,
	}
}

// FilterJobs returns jobs whose company or title contains term, ignoring case.
func FilterJobs(jobs []Job, term string) []Job {
	fold := cases.Fold()
	needle := fold.String(strings.TrimSpace(term))
	if needle == "" {
		return jobs
	}
	var out []Job
	for _, j := range jobs {
		if strings.Contains(fold.String(j.Company), needle) || strings.Contains(fold.String(j.Title), needle) {
			out = append(out, j)
		}
	}
	return out
}

// DashboardSummary holds headline metrics for the dashboard.
type DashboardSummary struct {
	TotalApplications int
	ByStatus          map[Status]int
}

// Count returns the number of applications in the given status.
func (d DashboardSummary) Count(s Status) int {
	return d.ByStatus[s]
}

// User is the authenticated account.
type User struct {
	Username string
	Email    string
	Role     string
}
