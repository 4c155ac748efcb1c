package rest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/theakshaypant/jtk/internal/core"
)

// The backend mixes camelCase and snake_case keys depending on the endpoint
// and serializes IDs as numbers or strings. Everything is normalized here so
// the rest of the program only sees core types.

// flexString decodes a JSON string, number or null into a string.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("expected string or number, got %s", b)
	}
	*f = flexString(n.String())
	return nil
}

// flexDate decodes "2025-03-15", "2025-03-15T10:00:00", [2025,3,15] or null
// into a YYYY-MM-DD string.
type flexDate string

func (d *flexDate) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*d = ""
	case len(b) > 0 && b[0] == '[':
		var parts []int
		if err := json.Unmarshal(b, &parts); err != nil {
			return fmt.Errorf("decode date array: %w", err)
		}
		if len(parts) < 3 {
			return fmt.Errorf("date array %s has fewer than 3 parts", b)
		}
		*d = flexDate(fmt.Sprintf("%04d-%02d-%02d", parts[0], parts[1], parts[2]))
	default:
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		if len(s) > len(core.DateLayout) && s[len(core.DateLayout)] == 'T' {
			s = s[:len(core.DateLayout)]
		}
		*d = flexDate(s)
	}
	return nil
}

func first[T ~string](vals ...T) string {
	for _, v := range vals {
		if v != "" {
			return string(v)
		}
	}
	return ""
}

// nullable maps "" to JSON null.
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

type wireApplication struct {
	ID         flexString `json:"id"`
	Company    string     `json:"company"`
	Title      string     `json:"title"`
	Status     string     `json:"status"`
	Location   string     `json:"location"`
	Salary     flexString `json:"salary"`
	Experience string     `json:"experience"`
	Notes      string     `json:"notes"`

	DeadlineSnake flexDate `json:"deadline_at"`
	DeadlineCamel flexDate `json:"deadlineAt"`
	Deadline      flexDate `json:"deadline"`

	JobTypeSnake string `json:"job_type"`
	JobTypeCamel string `json:"jobType"`
	JobLinkSnake string `json:"job_link"`
	JobLinkCamel string `json:"jobLink"`
	Links        struct {
		JobPost string `json:"job_post"`
	} `json:"links"`

	CreatedAtSnake flexDate `json:"created_at"`
	CreatedAtCamel flexDate `json:"createdAt"`
	AppliedAtSnake flexDate `json:"applied_at"`
	AppliedAtCamel flexDate `json:"appliedAt"`
}

func (w wireApplication) toCore() core.Application {
	status := core.Status(strings.ToUpper(strings.TrimSpace(w.Status)))
	if st, err := core.ParseStatus(w.Status); err == nil {
		status = st
	}
	return core.Application{
		ID:         string(w.ID),
		Company:    w.Company,
		Title:      w.Title,
		Status:     status,
		Deadline:   first(w.DeadlineSnake, w.DeadlineCamel, w.Deadline),
		Location:   w.Location,
		JobType:    first(w.JobTypeSnake, w.JobTypeCamel),
		Salary:     string(w.Salary),
		JobLink:    first(w.JobLinkSnake, w.JobLinkCamel, w.Links.JobPost),
		Experience: w.Experience,
		CreatedAt:  first(w.CreatedAtSnake, w.CreatedAtCamel),
		AppliedAt:  first(w.AppliedAtSnake, w.AppliedAtCamel),
		Notes:      w.Notes,
	}
}

type applicationLinks struct {
	JobPost string `json:"job_post"`
}

type applicationPayload struct {
	Company    string           `json:"company"`
	Title      string           `json:"title"`
	Location   string           `json:"location"`
	JobType    string           `json:"job_type"`
	JobLink    string           `json:"job_link"`
	Links      applicationLinks `json:"links"`
	DeadlineAt *string          `json:"deadline_at"`
	Salary     string           `json:"salary"`
	Status     string           `json:"status"`
	Notes      string           `json:"notes"`
}

func newApplicationPayload(in core.ApplicationInput) applicationPayload {
	return applicationPayload{
		Company:    in.Company,
		Title:      in.Title,
		Location:   in.Location,
		JobType:    in.JobType,
		JobLink:    in.JobLink,
		Links:      applicationLinks{JobPost: in.JobLink},
		DeadlineAt: nullable(in.Deadline),
		Salary:     in.Salary,
		Status:     in.Status,
		Notes:      in.Notes,
	}
}

type wireEvent struct {
	ID       flexString `json:"id"`
	Title    string     `json:"title"`
	Subtitle string     `json:"subtitle"`
	Date     flexDate   `json:"date"`
	Color    string     `json:"color"`
	Kind     string     `json:"kind"`
	Notes    string     `json:"notes"`
	Location string     `json:"location"`

	ApplicationIDSnake flexString `json:"application_id"`
	ApplicationIDCamel flexString `json:"applicationId"`
	TriggerAtSnake     flexDate   `json:"trigger_at"`
	TriggerAtCamel     flexDate   `json:"triggerAt"`
	EndDateSnake       flexDate   `json:"end_date"`
	EndDateCamel       flexDate   `json:"endDate"`
	StartTimeSnake     string     `json:"start_time"`
	StartTimeCamel     string     `json:"startTime"`
	EndTimeSnake       string     `json:"end_time"`
	EndTimeCamel       string     `json:"endTime"`
	MeetingLinkSnake   string     `json:"meeting_link"`
	MeetingLinkCamel   string     `json:"meetingLink"`
}

func (w wireEvent) toCore() core.CalendarEvent {
	return core.CalendarEvent{
		ID:            string(w.ID),
		Title:         w.Title,
		Subtitle:      w.Subtitle,
		Date:          first(w.Date, w.TriggerAtSnake, w.TriggerAtCamel),
		Color:         core.ParseColor(w.Color),
		Kind:          core.ParseKind(w.Kind),
		ApplicationID: first(w.ApplicationIDSnake, w.ApplicationIDCamel),
		Notes:         w.Notes,
		EndDate:       first(w.EndDateSnake, w.EndDateCamel),
		StartTime:     first(w.StartTimeSnake, w.StartTimeCamel),
		EndTime:       first(w.EndTimeSnake, w.EndTimeCamel),
		Location:      w.Location,
		MeetingLink:   first(w.MeetingLinkSnake, w.MeetingLinkCamel),
	}
}

// Reminders share the event key spellings; only the date key differs.
type wireReminder wireEvent

func (w wireReminder) toCore() core.Reminder {
	e := wireEvent(w).toCore()
	return core.Reminder{
		ID:            e.ID,
		Kind:          e.Kind,
		Title:         e.Title,
		ApplicationID: e.ApplicationID,
		Notes:         e.Notes,
		Color:         e.Color,
		TriggerAt:     first(w.TriggerAtCamel, w.TriggerAtSnake, w.Date),
		EndDate:       e.EndDate,
		StartTime:     e.StartTime,
		EndTime:       e.EndTime,
		Location:      e.Location,
		MeetingLink:   e.MeetingLink,
	}
}

type reminderPayload struct {
	Kind          string  `json:"kind"`
	Title         string  `json:"title"`
	ApplicationID *string `json:"applicationId"`
	Notes         string  `json:"notes"`
	Color         string  `json:"color"`
	TriggerAt     *string `json:"triggerAt"`
	EndDate       *string `json:"endDate"`
	StartTime     *string `json:"startTime"`
	EndTime       *string `json:"endTime"`
	Location      *string `json:"location"`
	MeetingLink   *string `json:"meetingLink"`
}

func newReminderPayload(in core.ReminderInput) reminderPayload {
	color := in.Color
	if color == "" {
		color = core.ColorBlue
	}
	return reminderPayload{
		Kind:          string(in.Kind),
		Title:         in.Title,
		ApplicationID: nullable(in.ApplicationID),
		Notes:         in.Notes,
		Color:         string(color),
		TriggerAt:     nullable(in.Date),
		EndDate:       nullable(in.EndDate),
		StartTime:     nullable(in.StartTime),
		EndTime:       nullable(in.EndTime),
		Location:      nullable(in.Location),
		MeetingLink:   nullable(in.MeetingLink),
	}
}

type wireJob struct {
	ID           flexString `json:"id"`
	Title        string     `json:"title"`
	Company      string     `json:"company"`
	Salary       flexString `json:"salary"`
	Location     string     `json:"location"`
	Description  string     `json:"description"`
	JobTypeSnake string     `json:"job_type"`
	JobTypeCamel string     `json:"jobType"`
	JobLinkSnake string     `json:"job_link"`
	JobLinkCamel string     `json:"jobLink"`
	ExternalURL  string     `json:"externalUrl"`
}

func (w wireJob) toCore() core.Job {
	return core.Job{
		ID:          string(w.ID),
		Title:       w.Title,
		Company:     w.Company,
		Salary:      string(w.Salary),
		Location:    w.Location,
		Description: w.Description,
		JobType:     first(w.JobTypeSnake, w.JobTypeCamel),
		JobLink:     first(w.JobLinkSnake, w.JobLinkCamel, w.ExternalURL),
	}
}

type wireSummary struct {
	TotalCamel int            `json:"totalApplications"`
	TotalSnake int            `json:"total_applications"`
	ByStatus   map[string]int `json:"byStatus"`
	ByStatusSn map[string]int `json:"by_status"`
}

func (w wireSummary) toCore() core.DashboardSummary {
	total := w.TotalCamel
	if total == 0 {
		total = w.TotalSnake
	}
	raw := w.ByStatus
	if raw == nil {
		raw = w.ByStatusSn
	}
	by := make(map[core.Status]int, len(raw))
	for k, v := range raw {
		st, err := core.ParseStatus(k)
		if err != nil {
			st = core.Status(strings.ToUpper(k))
		}
		by[st] += v
	}
	return core.DashboardSummary{TotalApplications: total, ByStatus: by}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	JWT              string     `json:"jwt"`
	Token            string     `json:"token"`
	RefreshToken     string     `json:"refreshToken"`
	ExpiresAt        flexString `json:"expiresAt"`
	ExpiresAtSnake   flexString `json:"expires_at"`
	RefreshExpiresAt flexString `json:"refreshExpiresAt"`
	Username         string     `json:"username"`
	Email            string     `json:"email"`
	Role             string     `json:"role"`
}
