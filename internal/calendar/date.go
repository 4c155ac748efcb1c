package calendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/theakshaypant/jtk/internal/core"
)

// ParseLocalDate parses a YYYY-MM-DD string as midnight in time.Local.
// The calendar date is kept as written, with no UTC shift.
func ParseLocalDate(s string) (time.Time, error) {
	return ParseLocalDateIn(s, time.Local)
}

// ParseLocalDateIn parses s as a calendar date in loc.
// Accepts YYYY-MM-DD and, as a fallback, RFC 3339 timestamps, which are
// reduced to their calendar date in loc.
func ParseLocalDateIn(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	if t, err := time.ParseInLocation(core.DateLayout, s, loc); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("unable to parse date %q (use YYYY-MM-DD)", s)
	}
	return StartOfDay(t.In(loc)), nil
}

// FormatDate returns the YYYY-MM-DD form of t using t's own (local) components.
func FormatDate(t time.Time) string {
	return fmt.Sprintf("%04d-%02d-%02d", t.Year(), int(t.Month()), t.Day())
}

// SameDay reports whether a and b fall on the same calendar date.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// StartOfDay returns midnight of t's calendar date in t's location.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// DaysIn returns the number of days in the given month.
func DaysIn(year int, month time.Month) int {
	// Day 0 of the next month is the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// FormatHour renders an hour of day as "12 AM", "9 AM", "12 PM", "5 PM".
func FormatHour(hour int) string {
	switch {
	case hour == 0:
		return "12 AM"
	case hour < 12:
		return fmt.Sprintf("%d AM", hour)
	case hour == 12:
		return "12 PM"
	default:
		return fmt.Sprintf("%d PM", hour-12)
	}
}

// FormatShortDate renders a YYYY-MM-DD string as "Mar 05". Unparseable input
// is returned unchanged; empty input renders as "-".
func FormatShortDate(s string) string {
	if s == "" {
		return "-"
	}
	t, err := ParseLocalDate(s)
	if err != nil {
		return s
	}
	return t.Format("Jan 02")
}

// FormatLongDate renders a YYYY-MM-DD string as "March 5, 2025".
func FormatLongDate(s string) string {
	if s == "" {
		return ""
	}
	t, err := ParseLocalDate(s)
	if err != nil {
		return s
	}
	return t.Format("January 2, 2006")
}
