package calendar

import (
	"fmt"
	"sort"
	"time"

	"github.com/theakshaypant/jtk/internal/core"
)

// DefaultUpcoming is how many events the dashboard shows.
const DefaultUpcoming = 3

// Upcoming returns up to n events dated today or later, earliest first.
// Events on the same date keep their input order. n <= 0 means no limit.
func Upcoming(events []core.CalendarEvent, now time.Time, n int) []core.CalendarEvent {
	today := StartOfDay(now)

	type dated struct {
		event core.CalendarEvent
		at    time.Time
	}
	var keep []dated
	for _, e := range events {
		at, err := ParseLocalDateIn(e.Date, now.Location())
		if err != nil || at.Before(today) {
			continue
		}
		keep = append(keep, dated{event: e, at: at})
	}

	sort.SliceStable(keep, func(i, j int) bool {
		return keep[i].at.Before(keep[j].at)
	})

	if n > 0 && len(keep) > n {
		keep = keep[:n]
	}
	out := make([]core.CalendarEvent, 0, len(keep))
	for _, d := range keep {
		out = append(out, d.event)
	}
	return out
}

// DueOn returns the events dated on the same calendar day as day.
func DueOn(events []core.CalendarEvent, day time.Time) []core.CalendarEvent {
	want := FormatDate(day)
	var out []core.CalendarEvent
	for _, e := range events {
		if e.Date == want {
			out = append(out, e)
		}
	}
	return out
}

// RelativeLabel describes a date relative to now: "Today", "Tomorrow",
// "In 5 days" (up to a week), otherwise "Mon, Jan 2".
func RelativeLabel(date, now time.Time) string {
	if SameDay(date, now) {
		return "Today"
	}
	today := StartOfDay(now)
	d := StartOfDay(date.In(now.Location()))
	// Round to whole days so DST transitions don't skew the count.
	days := int((d.Sub(today) + 12*time.Hour) / (24 * time.Hour))
	switch {
	case days == 1:
		return "Tomorrow"
	case days > 1 && days <= 7:
		return fmt.Sprintf("In %d days", days)
	default:
		return ShortDayLabel(date)
	}
}

// ShortDayLabel renders "Mon, Jan 2".
func ShortDayLabel(t time.Time) string {
	return t.Format("Mon, Jan 2")
}
