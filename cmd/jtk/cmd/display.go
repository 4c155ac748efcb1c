package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/theakshaypant/jtk/internal/calendar"
	"github.com/theakshaypant/jtk/internal/core"
	"github.com/theakshaypant/jtk/internal/util"
)

// eventStart returns when an event begins: its start time when it has one,
// otherwise midnight of its date. ok is false for undated events.
func eventStart(e core.CalendarEvent, loc *time.Location) (time.Time, bool) {
	day, err := calendar.ParseLocalDateIn(e.Date, loc)
	if err != nil {
		return time.Time{}, false
	}
	if e.StartTime == "" {
		return day, true
	}
	clock, err := time.Parse("15:04", e.StartTime)
	if err != nil {
		return day, true
	}
	return time.Date(day.Year(), day.Month(), day.Day(), clock.Hour(), clock.Minute(), 0, 0, loc), true
}

func formatCountdown(d time.Duration) string {
	if d < 0 {
		return "NOW"
	}

	days := int(d.Hours() / 24)
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60

	plural := func(n int, unit string) string {
		if n == 1 {
			return fmt.Sprintf("%d %s", n, unit)
		}
		return fmt.Sprintf("%d %ss", n, unit)
	}

	var parts []string
	if days > 0 {
		parts = append(parts, plural(days, "day"))
	}
	if hours > 0 {
		parts = append(parts, plural(hours, "hour"))
	}
	if minutes > 0 {
		parts = append(parts, plural(minutes, "minute"))
	}

	if len(parts) == 0 {
		return "less than a minute"
	}
	return strings.Join(parts, ", ")
}

// printEvent writes the detail block for one event.
func printEvent(e core.CalendarEvent, t time.Time) {
	fmt.Printf("  %s %s\n", eventIcon(e), e.Title)
	fmt.Printf("     🏷️  %s", e.Kind.Label())
	if e.IsAutoGenerated {
		fmt.Print(" (from application)")
	}
	fmt.Println()

	if day, err := calendar.ParseLocalDateIn(e.Date, t.Location()); err == nil {
		when := calendar.RelativeLabel(day, t)
		if e.StartTime != "" {
			when += " at " + e.StartTime
			if e.EndTime != "" {
				when += " – " + e.EndTime
			}
		}
		fmt.Printf("     📅 %s\n", when)
	}
	if e.Location != "" {
		fmt.Printf("     📍 %s\n", e.Location)
	}
	if e.MeetingLink != "" {
		fmt.Printf("     🔗 %s\n", util.MakeHyperlink(e.MeetingLink, e.MeetingLink))
	}
	if e.Notes != "" {
		fmt.Printf("     📝 %s\n", util.Truncate(e.Notes, 60))
	}
	if e.ID != "" {
		fmt.Printf("     🆔 %s\n", e.ID)
	}
}
