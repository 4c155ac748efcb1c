package calendar

import (
	"fmt"
	"time"

	"github.com/theakshaypant/jtk/internal/core"
)

const (
	// Week columns cover 06:00 through the 21:00 slot.
	weekStartHour = 6
	weekEndHour   = 21
	// Events have no tracked start time on the grid; they sit at 09:00.
	defaultEventHour = 9

	autoGeneratedHint = "Auto-generated from application deadline"
)

// Placement is an event positioned on the grid.
type Placement struct {
	Event core.CalendarEvent
	// Fractional vertical offset within a time column (0 = top, 1 = bottom).
	// Always 0 in month cells.
	Top float64
	// Clickable events open the reminder editor keyed by Event.ID.
	Clickable bool
	// Dimmed events are rendered at reduced emphasis.
	Dimmed bool
	Hint   string
}

// Cell is one square of the month grid. Blank cells pad the first and last week.
type Cell struct {
	Blank  bool
	Day    int
	Date   time.Time
	Today  bool
	Events []Placement
}

// MonthGrid is the month view: complete weeks of seven cells, Sunday first.
type MonthGrid struct {
	Year         int
	Month        time.Month
	FirstWeekday int
	DaysInMonth  int
	Rows         [][]Cell
}

// Column is one day in a week or day view.
type Column struct {
	Date   time.Time
	Header string
	Today  bool
	// Current-time indicator offset, valid only when HasIndicator is set.
	Indicator    float64
	HasIndicator bool
	Events       []Placement
}

// TimeGrid is the week or day view: columns with hourly gridlines.
type TimeGrid struct {
	// Hours holds the hour of each gridline, top to bottom.
	Hours   []int
	Columns []Column
}

// Slots returns the number of hourly rows in the grid.
func (g TimeGrid) Slots() int {
	return len(g.Hours)
}

// Grid is the result of Render. Exactly one of Month or Time is set.
type Grid struct {
	Mode  Mode
	Label string
	Month *MonthGrid
	Time  *TimeGrid
}

// Render builds the grid for the given view state. Events are matched to days
// by their YYYY-MM-DD date; undated events are skipped. now decides which
// day is "today" and where the current-time indicator sits.
// Render does not modify events and returns the same grid for the same input.
func Render(state ViewState, events []core.CalendarEvent, now time.Time) Grid {
	byDate := indexByDate(events)
	// Today and the time indicator follow the wall clock of the viewed zone.
	now = now.In(state.Ref.Location())
	switch state.Mode {
	case ModeWeek:
		return renderWeek(state.Ref, byDate, now)
	case ModeDay:
		return renderDay(state.Ref, byDate, now)
	default:
		return renderMonth(state.Ref, byDate, now)
	}
}

func indexByDate(events []core.CalendarEvent) map[string][]core.CalendarEvent {
	byDate := make(map[string][]core.CalendarEvent)
	for _, e := range events {
		if e.Date == "" {
			continue
		}
		byDate[e.Date] = append(byDate[e.Date], e)
	}
	return byDate
}

func place(events []core.CalendarEvent, top float64) []Placement {
	if len(events) == 0 {
		return nil
	}
	out := make([]Placement, 0, len(events))
	for _, e := range events {
		p := Placement{Event: e, Top: top}
		p.Clickable = e.Editable()
		if e.IsAutoGenerated {
			p.Dimmed = true
			p.Hint = autoGeneratedHint
		}
		out = append(out, p)
	}
	return out
}

func renderMonth(ref time.Time, byDate map[string][]core.CalendarEvent, now time.Time) Grid {
	year, month := ref.Year(), ref.Month()
	loc := ref.Location()

	first := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	firstWeekday := int(first.Weekday())
	days := DaysIn(year, month)

	cells := make([]Cell, 0, 42)
	for i := 0; i < firstWeekday; i++ {
		cells = append(cells, Cell{Blank: true})
	}
	for d := 1; d <= days; d++ {
		date := time.Date(year, month, d, 0, 0, 0, 0, loc)
		cells = append(cells, Cell{
			Day:    d,
			Date:   date,
			Today:  SameDay(date, now),
			Events: place(byDate[FormatDate(date)], 0),
		})
	}
	for len(cells)%7 != 0 {
		cells = append(cells, Cell{Blank: true})
	}

	rows := make([][]Cell, 0, len(cells)/7)
	for i := 0; i < len(cells); i += 7 {
		rows = append(rows, cells[i:i+7])
	}

	return Grid{
		Mode:  ModeMonth,
		Label: MonthLabel(year, month),
		Month: &MonthGrid{
			Year:         year,
			Month:        month,
			FirstWeekday: firstWeekday,
			DaysInMonth:  days,
			Rows:         rows,
		},
	}
}

func renderWeek(ref time.Time, byDate map[string][]core.CalendarEvent, now time.Time) Grid {
	start := WeekStart(ref)
	end := start.AddDate(0, 0, 6)

	g := &TimeGrid{Hours: hourRange(weekStartHour, weekEndHour)}
	slots := float64(g.Slots())
	eventTop := float64(defaultEventHour-weekStartHour) / slots

	for i := 0; i < 7; i++ {
		date := start.AddDate(0, 0, i)
		col := Column{
			Date:   date,
			Header: fmt.Sprintf("%s %d", date.Format("Mon"), date.Day()),
			Today:  SameDay(date, now),
			Events: place(byDate[FormatDate(date)], eventTop),
		}
		if col.Today {
			h, m := now.Hour(), now.Minute()
			if h >= weekStartHour && h <= weekEndHour {
				col.Indicator = float64((h-weekStartHour)*60+m) / (slots * 60)
				col.HasIndicator = true
			}
		}
		g.Columns = append(g.Columns, col)
	}

	return Grid{Mode: ModeWeek, Label: WeekLabel(start, end), Time: g}
}

func renderDay(ref time.Time, byDate map[string][]core.CalendarEvent, now time.Time) Grid {
	date := StartOfDay(ref)

	g := &TimeGrid{Hours: hourRange(0, 23)}
	slots := float64(g.Slots())

	col := Column{
		Date:   date,
		Header: fmt.Sprintf("%s %d", date.Format("Monday"), date.Day()),
		Today:  SameDay(date, now),
		Events: place(byDate[FormatDate(date)], float64(defaultEventHour)/slots),
	}
	if col.Today {
		col.Indicator = float64(now.Hour()*60+now.Minute()) / (slots * 60)
		col.HasIndicator = true
	}
	g.Columns = []Column{col}

	return Grid{Mode: ModeDay, Label: MonthLabel(date.Year(), date.Month()), Time: g}
}

func hourRange(from, to int) []int {
	hours := make([]int, 0, to-from+1)
	for h := from; h <= to; h++ {
		hours = append(hours, h)
	}
	return hours
}

// MonthLabel renders "January 2025".
func MonthLabel(year int, month time.Month) string {
	return fmt.Sprintf("%s %d", month, year)
}

// WeekLabel renders "January 5-11, 2025" or "January 26 - February 1, 2025".
func WeekLabel(start, end time.Time) string {
	if start.Month() == end.Month() {
		return fmt.Sprintf("%s %d-%d, %d", start.Month(), start.Day(), end.Day(), start.Year())
	}
	return fmt.Sprintf("%s %d - %s %d, %d", start.Month(), start.Day(), end.Month(), end.Day(), start.Year())
}

// Placements returns every placement in the grid in display order:
// row by row for months, column by column for time grids.
func (g Grid) Placements() []Placement {
	var out []Placement
	if g.Month != nil {
		for _, row := range g.Month.Rows {
			for _, c := range row {
				out = append(out, c.Events...)
			}
		}
	}
	if g.Time != nil {
		for _, col := range g.Time.Columns {
			out = append(out, col.Events...)
		}
	}
	return out
}
