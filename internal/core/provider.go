package core

import (
	"context"
	"errors"
)

// ErrUnauthorized means the session is missing, expired or was rejected.
// Front-ends treat it as "sign in again" rather than as a failed read.
var ErrUnauthorized = errors.New("not logged in or session expired (run `jtk login`)")

// Tracker is the backend the front-ends talk to.
// The REST adapter implements it; tests use in-memory fakes.
type Tracker interface {
	// Applications
	ListApplications(ctx context.Context) ([]Application, error)
	GetApplication(ctx context.Context, id string) (Application, error)
	ApplicationReminders(ctx context.Context, id string) ([]Reminder, error)
	CreateApplication(ctx context.Context, in ApplicationInput) (Application, error)
	UpdateApplicationStatus(ctx context.Context, id string, status Status) error
	DeleteApplication(ctx context.Context, id string) error

	// CalendarEvents returns stored reminders in calendar-event form.
	// Auto-generated deadline events are not included.
	CalendarEvents(ctx context.Context) ([]CalendarEvent, error)

	// Reminders
	GetReminder(ctx context.Context, id string) (Reminder, error)
	CreateReminder(ctx context.Context, in ReminderInput) (Reminder, error)
	UpdateReminder(ctx context.Context, id string, in ReminderInput) (Reminder, error)
	DeleteReminder(ctx context.Context, id string) error

	Jobs(ctx context.Context) ([]Job, error)
	DashboardSummary(ctx context.Context) (DashboardSummary, error)
}
