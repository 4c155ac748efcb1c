package rest

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/theakshaypant/jtk/internal/core"
)

func appPath(id string) string {
	return "/api/apps/" + url.PathEscape(id)
}

func reminderPath(id string) string {
	return "/api/reminders/" + url.PathEscape(id)
}

func (c *Client) ListApplications(ctx context.Context) ([]core.Application, error) {
	var wire []wireApplication
	if err := c.do(ctx, http.MethodGet, "/api/apps", nil, &wire); err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	apps := make([]core.Application, 0, len(wire))
	for _, w := range wire {
		apps = append(apps, w.toCore())
	}
	return apps, nil
}

func (c *Client) GetApplication(ctx context.Context, id string) (core.Application, error) {
	var w wireApplication
	if err := c.do(ctx, http.MethodGet, appPath(id), nil, &w); err != nil {
		return core.Application{}, fmt.Errorf("get application %s: %w", id, err)
	}
	return w.toCore(), nil
}

func (c *Client) ApplicationReminders(ctx context.Context, id string) ([]core.Reminder, error) {
	var wire []wireReminder
	if err := c.do(ctx, http.MethodGet, appPath(id)+"/reminders", nil, &wire); err != nil {
		return nil, fmt.Errorf("list reminders for application %s: %w", id, err)
	}
	out := make([]core.Reminder, 0, len(wire))
	for _, w := range wire {
		out = append(out, w.toCore())
	}
	return out, nil
}

// CreateApplication validates in and posts it. The returned application is
// the server's view; if the server replies without a body, the input is
// echoed back without an ID.
func (c *Client) CreateApplication(ctx context.Context, in core.ApplicationInput) (core.Application, error) {
	if err := in.Validate(); err != nil {
		return core.Application{}, err
	}
	var w wireApplication
	if err := c.do(ctx, http.MethodPost, "/api/apps", newApplicationPayload(in), &w); err != nil {
		return core.Application{}, fmt.Errorf("create application: %w", err)
	}
	app := w.toCore()
	if app.Company == "" {
		app.Company, app.Title, app.Status = in.Company, in.Title, core.Status(in.Status)
		app.Deadline, app.Location, app.JobType = in.Deadline, in.Location, in.JobType
		app.JobLink, app.Salary, app.Notes = in.JobLink, in.Salary, in.Notes
	}
	return app, nil
}

func (c *Client) UpdateApplicationStatus(ctx context.Context, id string, status core.Status) error {
	body := map[string]string{"status": string(status)}
	if err := c.do(ctx, http.MethodPut, appPath(id)+"/status", body, nil); err != nil {
		return fmt.Errorf("update status of application %s: %w", id, err)
	}
	return nil
}

func (c *Client) DeleteApplication(ctx context.Context, id string) error {
	if err := c.do(ctx, http.MethodDelete, appPath(id), nil, nil); err != nil {
		return fmt.Errorf("delete application %s: %w", id, err)
	}
	return nil
}

// CalendarEvents returns the stored reminders in calendar form. Deadlines
// derived from applications are added by the caller.
func (c *Client) CalendarEvents(ctx context.Context) ([]core.CalendarEvent, error) {
	var wire []wireEvent
	if err := c.do(ctx, http.MethodGet, "/api/apps/calendar", nil, &wire); err != nil {
		return nil, fmt.Errorf("fetch calendar events: %w", err)
	}
	events := make([]core.CalendarEvent, 0, len(wire))
	for _, w := range wire {
		events = append(events, w.toCore())
	}
	return events, nil
}

func (c *Client) GetReminder(ctx context.Context, id string) (core.Reminder, error) {
	var w wireReminder
	if err := c.do(ctx, http.MethodGet, reminderPath(id), nil, &w); err != nil {
		return core.Reminder{}, fmt.Errorf("get reminder %s: %w", id, err)
	}
	return w.toCore(), nil
}

func (c *Client) CreateReminder(ctx context.Context, in core.ReminderInput) (core.Reminder, error) {
	var w wireReminder
	if err := c.do(ctx, http.MethodPost, "/api/reminders", newReminderPayload(in), &w); err != nil {
		return core.Reminder{}, fmt.Errorf("create reminder: %w", err)
	}
	return w.toCore(), nil
}

func (c *Client) UpdateReminder(ctx context.Context, id string, in core.ReminderInput) (core.Reminder, error) {
	var w wireReminder
	if err := c.do(ctx, http.MethodPut, reminderPath(id), newReminderPayload(in), &w); err != nil {
		return core.Reminder{}, fmt.Errorf("update reminder %s: %w", id, err)
	}
	r := w.toCore()
	if r.ID == "" {
		r.ID = id
	}
	return r, nil
}

func (c *Client) DeleteReminder(ctx context.Context, id string) error {
	if err := c.do(ctx, http.MethodDelete, reminderPath(id), nil, nil); err != nil {
		return fmt.Errorf("delete reminder %s: %w", id, err)
	}
	return nil
}

func (c *Client) Jobs(ctx context.Context) ([]core.Job, error) {
	var wire []wireJob
	if err := c.do(ctx, http.MethodGet, "/api/jobs", nil, &wire); err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	jobs := make([]core.Job, 0, len(wire))
	for _, w := range wire {
		jobs = append(jobs, w.toCore())
	}
	return jobs, nil
}

func (c *Client) DashboardSummary(ctx context.Context) (core.DashboardSummary, error) {
	var w wireSummary
	if err := c.do(ctx, http.MethodGet, "/api/dashboard-summary", nil, &w); err != nil {
		return core.DashboardSummary{}, fmt.Errorf("fetch dashboard summary: %w", err)
	}
	return w.toCore(), nil
}
