package calendar

import (
	"fmt"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/google/uuid"

	"github.com/theakshaypant/jtk/internal/core"
)

const icsProductID = "-//jtk//Job Tracker Calendar//EN"

// uidNamespace scopes the name-based UUIDs generated for exported events.
var uidNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/theakshaypant/jtk"))

// EventUID returns a stable identifier for e. Stored events are keyed by
// their ID; auto-generated deadlines by their application.
func EventUID(e core.CalendarEvent) string {
	return uuid.NewSHA1(uidNamespace, []byte(EventKey(e))).String() + "@jtk"
}

// EventKey is the identity used for deduplication when events leave the
// tracker (ICS export, Google Calendar sync).
func EventKey(e core.CalendarEvent) string {
	if e.ID != "" {
		return "event:" + e.ID
	}
	return fmt.Sprintf("deadline:%s:%s", e.ApplicationID, e.Date)
}

// ExportICS serializes events as an iCalendar document. Events with an
// unparseable date are skipped and reported in the returned slice.
// Interviews with a start time become timed events in loc; everything else
// is exported as an all-day event.
func ExportICS(events []core.CalendarEvent, now time.Time, loc *time.Location) (string, []string) {
	if loc == nil {
		loc = time.Local
	}
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(icsProductID)

	var skipped []string
	for _, e := range events {
		day, err := ParseLocalDateIn(e.Date, loc)
		if err != nil {
			skipped = append(skipped, e.Text())
			continue
		}

		ve := cal.AddEvent(EventUID(e))
		ve.SetDtStampTime(now.UTC())
		ve.SetSummary(e.Text())
		ve.AddProperty(ical.ComponentPropertyCategories, e.Kind.Label())

		if desc := describe(e); desc != "" {
			ve.SetDescription(desc)
		}
		if e.Location != "" {
			ve.SetLocation(e.Location)
		}
		if e.MeetingLink != "" {
			ve.SetURL(e.MeetingLink)
		}

		if start, end, ok := timedRange(e, day, loc); ok {
			ve.SetStartAt(start)
			ve.SetEndAt(end)
			continue
		}

		last := day
		if e.EndDate != "" {
			if t, err := ParseLocalDateIn(e.EndDate, loc); err == nil && !t.Before(day) {
				last = t
			}
		}
		ve.SetAllDayStartAt(day)
		// DTEND is exclusive for all-day events.
		ve.SetAllDayEndAt(last.AddDate(0, 0, 1))
	}

	return cal.Serialize(), skipped
}

func describe(e core.CalendarEvent) string {
	var parts []string
	if e.Notes != "" {
		parts = append(parts, e.Notes)
	}
	if e.IsAutoGenerated {
		parts = append(parts, autoGeneratedHint)
	}
	return strings.Join(parts, "\n\n")
}

// timedRange returns the start and end instants of an interview that has a
// start time. Without an end time the interview lasts one hour.
func timedRange(e core.CalendarEvent, day time.Time, loc *time.Location) (time.Time, time.Time, bool) {
	if e.Kind != core.KindInterview || e.StartTime == "" {
		return time.Time{}, time.Time{}, false
	}
	start, err := atClock(day, e.StartTime, loc)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}

	endDay := day
	if e.EndDate != "" {
		if t, err := ParseLocalDateIn(e.EndDate, loc); err == nil {
			endDay = t
		}
	}
	end := start.Add(time.Hour)
	if e.EndTime != "" {
		if t, err := atClock(endDay, e.EndTime, loc); err == nil && t.After(start) {
			end = t
		}
	}
	return start, end, true
}

// atClock combines a calendar date with an "HH:MM" clock time.
func atClock(day time.Time, clock string, loc *time.Location) (time.Time, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(clock))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q (use HH:MM)", clock)
	}
	return time.Date(day.Year(), day.Month(), day.Day(), t.Hour(), t.Minute(), 0, 0, loc), nil
}
