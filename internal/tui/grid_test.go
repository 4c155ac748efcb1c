package tui

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/x/ansi"

	"github.com/theakshaypant/jtk/internal/calendar"
	"github.com/theakshaypant/jtk/internal/core"
)

func TestRenderGridMonth(t *testing.T) {
	state := calendar.NewViewState(time.Date(2025, time.February, 10, 0, 0, 0, 0, time.UTC), calendar.ModeMonth)
	events := []core.CalendarEvent{
		{ID: "1", Title: "Call", Date: "2025-02-03"},
		{ID: "2", Title: "A", Date: "2025-02-04"},
		{ID: "3", Title: "B", Date: "2025-02-04"},
		{ID: "4", Title: "C", Date: "2025-02-04"},
		{ID: "5", Title: "D", Date: "2025-02-04"},
	}
	g := calendar.Render(state, events, testNow)
	out := ansi.Strip(RenderGrid(g, 100, noSelection))

	for _, want := range []string{"Sun", "Sat", "28", "Call", "+1 more"} {
		if !strings.Contains(out, want) {
			t.Errorf("month grid missing %q:\n%s", want, out)
		}
	}

	colWidth := (100 - 8) / 7
	for i, line := range strings.Split(out, "\n") {
		if w := ansi.StringWidth(line); w != 7*colWidth+8 {
			t.Errorf("line %d width = %d, want %d: %q", i, w, 7*colWidth+8, line)
		}
	}
}

func TestRenderGridWeekPlacesEventsAtNine(t *testing.T) {
	state := calendar.NewViewState(testNow, calendar.ModeWeek)
	events := []core.CalendarEvent{{ID: "1", Title: "Standup", Date: "2025-01-07"}}
	g := calendar.Render(state, events, testNow)
	out := ansi.Strip(RenderGrid(g, 120, 0))

	lines := strings.Split(out, "\n")
	// Two header lines, then one line per hour from 6 AM.
	nine := lines[2+3]
	if !strings.HasPrefix(strings.TrimSpace(nine), "9 AM") {
		t.Fatalf("row = %q", nine)
	}
	if !strings.Contains(nine, "Standup") {
		t.Errorf("event not on the 9 AM row: %q", nine)
	}
	// 10:30 falls in the 10 AM row of today's column.
	if !strings.Contains(lines[2+4], nowMarker) {
		t.Errorf("time indicator missing from the 10 AM row: %q", lines[2+4])
	}
	if !strings.Contains(lines[0], "Wed 8") {
		t.Errorf("header = %q", lines[0])
	}
}

func TestRenderGridDay(t *testing.T) {
	state := calendar.NewViewState(testNow, calendar.ModeDay)
	g := calendar.Render(state, nil, testNow)
	out := ansi.Strip(RenderGrid(g, 60, noSelection))
	lines := strings.Split(out, "\n")
	if len(lines) != 2+24 {
		t.Fatalf("lines = %d, want 26", len(lines))
	}
	if !strings.Contains(lines[0], "Wednesday 8") {
		t.Errorf("header = %q", lines[0])
	}
	if !strings.HasPrefix(strings.TrimSpace(lines[2]), "12 AM") {
		t.Errorf("first row = %q", lines[2])
	}
}

func TestRenderGridDayOverflow(t *testing.T) {
	state := calendar.NewViewState(testNow, calendar.ModeDay)
	var events []core.CalendarEvent
	for i := 0; i < 20; i++ {
		events = append(events, core.CalendarEvent{ID: fmt.Sprint(i), Title: fmt.Sprintf("Task %02d", i), Date: "2025-01-08"})
	}
	g := calendar.Render(state, events, testNow)

	// Rows 9 AM through 10 PM hold the first 14 events; 11 PM sums up the rest.
	lines := strings.Split(ansi.Strip(RenderGrid(g, 60, noSelection)), "\n")
	if len(lines) != 2+24 {
		t.Fatalf("lines = %d, want 26", len(lines))
	}
	if !strings.Contains(lines[2+22], "Task 13") {
		t.Errorf("10 PM row = %q", lines[2+22])
	}
	if last := lines[2+23]; !strings.Contains(last, "+6 more") || strings.Contains(last, "Task") {
		t.Errorf("11 PM row = %q, want a +6 more marker", last)
	}
}
