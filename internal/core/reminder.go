package core

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the canonical wire and grid format for calendar dates.
const DateLayout = "2006-01-02"

// ValidationError is returned by form validation. Message is user-facing.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return e.Message
}

// Reminder is the editable record behind a stored calendar event.
type Reminder struct {
	ID            string
	Kind          Kind
	Title         string
	ApplicationID string
	Notes         string
	Color         Color
	// YYYY-MM-DD
	TriggerAt   string
	EndDate     string
	StartTime   string
	EndTime     string
	Location    string
	MeetingLink string
}

// Input converts a stored reminder back into an editable form.
func (r Reminder) Input() ReminderInput {
	in := ReminderInput{
		Kind:          r.Kind,
		Title:         r.Title,
		ApplicationID: r.ApplicationID,
		Notes:         r.Notes,
		Color:         r.Color,
		Date:          r.TriggerAt,
		Location:      r.Location,
		StartTime:     r.StartTime,
	}
	if r.Kind == KindInterview {
		in.EndDate = r.EndDate
		in.EndTime = r.EndTime
		in.MeetingLink = r.MeetingLink
	}
	return in
}

// ReminderInput is the payload sent when creating or updating a reminder.
// Field presence depends on Kind: interviews carry a date range, start/end
// times and a meeting link; deadlines and follow-ups carry a single date and
// an optional time.
type ReminderInput struct {
	Kind          Kind
	Title         string
	ApplicationID string
	Notes         string
	Color         Color
	Date          string
	EndDate       string
	StartTime     string
	EndTime       string
	Location      string
	MeetingLink   string
}

// Validate checks field presence and date ranges relative to now.
// On success it fills defaults (interview end date) in place.
func (in *ReminderInput) Validate(now time.Time) error {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return ValidationError{Field: "title", Message: "Please enter a title"}
	}
	if in.Kind == "" {
		in.Kind = KindDeadline
	}

	in.Date = strings.TrimSpace(in.Date)
	if in.Date == "" {
		if in.Kind == KindInterview {
			return ValidationError{Field: "date", Message: "Please enter a start date"}
		}
		return ValidationError{Field: "date", Message: "Please enter a deadline"}
	}
	if err := ValidateDateRange(in.Date, now); err != nil {
		return err
	}

	if in.Kind != KindInterview {
		in.EndDate = ""
		in.EndTime = ""
		in.MeetingLink = ""
		return nil
	}

	in.EndDate = strings.TrimSpace(in.EndDate)
	if in.EndDate == "" {
		in.EndDate = in.Date
	}
	if in.EndDate != in.Date {
		if err := ValidateDateRange(in.EndDate, now); err != nil {
			ve := err.(ValidationError)
			ve.Field = "end_date"
			return ve
		}
	}
	return nil
}

var minValidDate = time.Date(1900, time.January, 1, 0, 0, 0, 0, time.UTC)

// ValidateDateRange checks that s is a YYYY-MM-DD date between 1900-01-01 and
// three years after now's local date, inclusive.
func ValidateDateRange(s string, now time.Time) error {
	if strings.TrimSpace(s) == "" {
		return ValidationError{Field: "date", Message: "Date is required"}
	}
	loc := now.Location()
	d, err := time.ParseInLocation(DateLayout, strings.TrimSpace(s), loc)
	if err != nil {
		return ValidationError{Field: "date", Message: "Invalid date format"}
	}

	earliest := time.Date(minValidDate.Year(), minValidDate.Month(), minValidDate.Day(), 0, 0, 0, 0, loc)
	if d.Before(earliest) {
		return ValidationError{Field: "date", Message: "Date cannot be before January 1, 1900"}
	}

	latest := time.Date(now.Year()+3, now.Month(), now.Day(), 0, 0, 0, 0, loc)
	if d.After(latest) {
		return ValidationError{
			Field:   "date",
			Message: fmt.Sprintf("Date cannot be more than 3 years in the future (max: %s)", latest.Format("Jan 2, 2006")),
		}
	}
	return nil
}
