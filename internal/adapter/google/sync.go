package google

import (
	"context"
	"fmt"
	"strings"
	"time"

	"google.golang.org/api/calendar/v3"

	jcal "github.com/theakshaypant/jtk/internal/calendar"
	"github.com/theakshaypant/jtk/internal/core"
	"github.com/theakshaypant/jtk/internal/log"
)

const (
	// Private extended properties marking events owned by jtk.
	propOwner = "jtk"
	propKey   = "jtk_key"
)

// Google Calendar event color IDs closest to each tracker color.
var colorIDs = map[core.Color]string{
	core.ColorBlue:   "9",
	core.ColorGreen:  "10",
	core.ColorRed:    "11",
	core.ColorOrange: "6",
	core.ColorPurple: "3",
}

type SyncOptions struct {
	// Only events dated on or after From are written. Zero means all.
	From time.Time
	// Prune deletes previously synced events that no longer exist in the tracker.
	Prune bool
	// DryRun computes the result without writing.
	DryRun bool
	// Location for timed interviews. Defaults to time.Local.
	Location *time.Location
}

// SyncFailure records one event that could not be written.
type SyncFailure struct {
	Title string
	Err   error
}

type SyncResult struct {
	Created   int
	Updated   int
	Unchanged int
	Deleted   int
	Failed    []SyncFailure
}

// Sync makes the target calendar mirror events. Events are matched to
// previously synced copies by a key stored as a private extended property,
// so re-running Sync never creates duplicates.
func (p *Publisher) Sync(ctx context.Context, events []core.CalendarEvent, opts SyncOptions) (SyncResult, error) {
	var res SyncResult
	if p.service == nil {
		return res, fmt.Errorf("google calendar: not logged in")
	}
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}
	start := time.Now()

	existing, err := p.existing(ctx)
	if err != nil {
		return res, err
	}

	wanted := make(map[string]bool)
	for _, e := range events {
		if e.Date == "" {
			continue
		}
		day, err := jcal.ParseLocalDateIn(e.Date, loc)
		if err != nil {
			res.Failed = append(res.Failed, SyncFailure{Title: e.Text(), Err: err})
			continue
		}
		if !opts.From.IsZero() && day.Before(jcal.StartOfDay(opts.From.In(loc))) {
			continue
		}

		key := jcal.EventKey(e)
		wanted[key] = true
		desired := toGoogleEvent(e, day, key, loc)

		current, ok := existing[key]
		switch {
		case ok && sameEvent(current, desired):
			res.Unchanged++
		case ok:
			if !opts.DryRun {
				if _, err := p.service.Events.Update(p.calendarID, current.Id, desired).Context(ctx).Do(); err != nil {
					res.Failed = append(res.Failed, SyncFailure{Title: e.Text(), Err: fmt.Errorf("update: %w", err)})
					continue
				}
			}
			res.Updated++
		default:
			if !opts.DryRun {
				if _, err := p.service.Events.Insert(p.calendarID, desired).Context(ctx).Do(); err != nil {
					res.Failed = append(res.Failed, SyncFailure{Title: e.Text(), Err: fmt.Errorf("insert: %w", err)})
					continue
				}
			}
			res.Created++
		}
	}

	if opts.Prune {
		for key, ev := range existing {
			if wanted[key] {
				continue
			}
			if !opts.DryRun {
				if err := p.service.Events.Delete(p.calendarID, ev.Id).Context(ctx).Do(); err != nil {
					res.Failed = append(res.Failed, SyncFailure{Title: ev.Summary, Err: fmt.Errorf("delete: %w", err)})
					continue
				}
			}
			res.Deleted++
		}
	}

	logSyncDone(res, time.Since(start))
	return res, nil
}

// existing returns every jtk-owned event in the target calendar by key.
func (p *Publisher) existing(ctx context.Context) (map[string]*calendar.Event, error) {
	out := make(map[string]*calendar.Event)
	err := p.service.Events.List(p.calendarID).
		PrivateExtendedProperty(propOwner + "=1").
		ShowDeleted(false).
		MaxResults(2500).
		Pages(ctx, func(page *calendar.Events) error {
			for _, item := range page.Items {
				if item.ExtendedProperties == nil {
					continue
				}
				key := item.ExtendedProperties.Private[propKey]
				if key == "" {
					continue
				}
				if _, dup := out[key]; dup {
					log.Warn("duplicate synced event", "key", key, "id", item.Id)
					continue
				}
				out[key] = item
			}
			return nil
		})
	if err != nil {
		return nil, fmt.Errorf("list synced events in %s: %w", p.calendarID, err)
	}
	return out, nil
}

// toGoogleEvent converts a tracker event. Interviews with a start time are
// timed; everything else is an all-day event.
func toGoogleEvent(e core.CalendarEvent, day time.Time, key string, loc *time.Location) *calendar.Event {
	ev := &calendar.Event{
		Summary:     e.Text(),
		Description: description(e),
		Location:    e.Location,
		ColorId:     colorIDs[e.DisplayColor()],
		ExtendedProperties: &calendar.EventExtendedProperties{
			Private: map[string]string{propOwner: "1", propKey: key},
		},
	}

	if start, end, ok := interviewTimes(e, day, loc); ok {
		ev.Start = &calendar.EventDateTime{DateTime: start.Format(time.RFC3339), TimeZone: loc.String()}
		ev.End = &calendar.EventDateTime{DateTime: end.Format(time.RFC3339), TimeZone: loc.String()}
		return ev
	}

	last := day
	if e.EndDate != "" {
		if t, err := jcal.ParseLocalDateIn(e.EndDate, loc); err == nil && !t.Before(day) {
			last = t
		}
	}
	ev.Start = &calendar.EventDateTime{Date: jcal.FormatDate(day)}
	// All-day end dates are exclusive.
	ev.End = &calendar.EventDateTime{Date: jcal.FormatDate(last.AddDate(0, 0, 1))}
	return ev
}

func interviewTimes(e core.CalendarEvent, day time.Time, loc *time.Location) (time.Time, time.Time, bool) {
	if e.Kind != core.KindInterview || e.StartTime == "" {
		return time.Time{}, time.Time{}, false
	}
	st, err := time.Parse("15:04", strings.TrimSpace(e.StartTime))
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	start := time.Date(day.Year(), day.Month(), day.Day(), st.Hour(), st.Minute(), 0, 0, loc)
	end := start.Add(time.Hour)
	if et, err := time.Parse("15:04", strings.TrimSpace(e.EndTime)); err == nil {
		endDay := day
		if t, err := jcal.ParseLocalDateIn(e.EndDate, loc); err == nil {
			endDay = t
		}
		if cand := time.Date(endDay.Year(), endDay.Month(), endDay.Day(), et.Hour(), et.Minute(), 0, 0, loc); cand.After(start) {
			end = cand
		}
	}
	return start, end, true
}

func description(e core.CalendarEvent) string {
	var parts []string
	if e.Notes != "" {
		parts = append(parts, e.Notes)
	}
	if e.MeetingLink != "" {
		parts = append(parts, "Meeting: "+e.MeetingLink)
	}
	if e.IsAutoGenerated {
		parts = append(parts, "Auto-generated from application deadline")
	}
	return strings.Join(parts, "\n\n")
}

func sameEvent(a, b *calendar.Event) bool {
	return a.Summary == b.Summary &&
		a.Description == b.Description &&
		a.Location == b.Location &&
		a.ColorId == b.ColorId &&
		sameTime(a.Start, b.Start) &&
		sameTime(a.End, b.End)
}

func sameTime(a, b *calendar.EventDateTime) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Date != "" || b.Date != "" {
		return a.Date == b.Date
	}
	ta, errA := time.Parse(time.RFC3339, a.DateTime)
	tb, errB := time.Parse(time.RFC3339, b.DateTime)
	if errA != nil || errB != nil {
		return a.DateTime == b.DateTime
	}
	return ta.Equal(tb)
}
