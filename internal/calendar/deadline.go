package calendar

import (
	"context"
	"fmt"

	"github.com/theakshaypant/jtk/internal/core"
)

// AutoDeadlineEvents synthesizes one red DEADLINE event per application that
// has a deadline. The events have no ID and are never persisted.
func AutoDeadlineEvents(apps []core.Application) []core.CalendarEvent {
	var out []core.CalendarEvent
	for _, a := range apps {
		if a.Deadline == "" {
			continue
		}
		out = append(out, core.CalendarEvent{
			Title:           a.Company + " - Application Deadline",
			Date:            a.Deadline,
			Color:           core.ColorRed,
			Kind:            core.KindDeadline,
			ApplicationID:   a.ID,
			IsAutoGenerated: true,
		})
	}
	return out
}

// MergeEvents returns the stored events followed by the deadlines derived
// from apps. Neither input is modified.
func MergeEvents(stored []core.CalendarEvent, apps []core.Application) []core.CalendarEvent {
	auto := AutoDeadlineEvents(apps)
	out := make([]core.CalendarEvent, 0, len(stored)+len(auto))
	out = append(out, stored...)
	return append(out, auto...)
}

// EventSource is the subset of core.Tracker needed to build the event list.
type EventSource interface {
	CalendarEvents(ctx context.Context) ([]core.CalendarEvent, error)
	ListApplications(ctx context.Context) ([]core.Application, error)
}

// LoadEvents fetches stored events and applications, one after the other,
// and merges in the auto-generated deadlines.
func LoadEvents(ctx context.Context, src EventSource) ([]core.CalendarEvent, error) {
	stored, err := src.CalendarEvents(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch calendar events: %w", err)
	}
	apps, err := src.ListApplications(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch applications: %w", err)
	}
	return MergeEvents(stored, apps), nil
}
