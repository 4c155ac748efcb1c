package calendar

import (
	"fmt"
	"strings"
	"time"
)

// Mode is the calendar display granularity.
type Mode int

const (
	ModeMonth Mode = iota
	ModeWeek
	ModeDay
)

func (m Mode) String() string {
	switch m {
	case ModeWeek:
		return "week"
	case ModeDay:
		return "day"
	default:
		return "month"
	}
}

// ParseMode maps "month", "week" or "day" (and their first letters) to a Mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "month", "m":
		return ModeMonth, nil
	case "week", "w":
		return ModeWeek, nil
	case "day", "d":
		return ModeDay, nil
	default:
		return ModeMonth, fmt.Errorf("unknown view %q (use month, week or day)", s)
	}
}

// ViewState is the navigable state of a calendar: a reference date and a mode.
// It is a value; every transition returns a new state.
type ViewState struct {
	Ref  time.Time
	Mode Mode
}

// NewViewState returns a state for the given date and mode.
func NewViewState(ref time.Time, mode Mode) ViewState {
	return ViewState{Ref: StartOfDay(ref), Mode: mode}
}

// Next moves forward by one month, one week or one day depending on the mode.
func (s ViewState) Next() ViewState {
	return s.shift(1)
}

// Prev moves back by one month, one week or one day depending on the mode.
func (s ViewState) Prev() ViewState {
	return s.shift(-1)
}

// Today resets the reference date to now's calendar date.
func (s ViewState) Today(now time.Time) ViewState {
	s.Ref = StartOfDay(now)
	return s
}

// WithMode switches the display mode and keeps the reference date.
func (s ViewState) WithMode(m Mode) ViewState {
	s.Mode = m
	return s
}

func (s ViewState) shift(dir int) ViewState {
	switch s.Mode {
	case ModeMonth:
		s.Ref = addMonthsClamped(s.Ref, dir)
	case ModeWeek:
		s.Ref = s.Ref.AddDate(0, 0, 7*dir)
	default:
		s.Ref = s.Ref.AddDate(0, 0, dir)
	}
	return s
}

// addMonthsClamped moves t by n months, clamping the day to the target
// month's length so Jan 31 + 1 month is Feb 28/29, not early March.
func addMonthsClamped(t time.Time, n int) time.Time {
	first := time.Date(t.Year(), t.Month()+time.Month(n), 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	day := t.Day()
	if last := DaysIn(first.Year(), first.Month()); day > last {
		day = last
	}
	return time.Date(first.Year(), first.Month(), day, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

// WeekStart returns the Sunday on or before t.
func WeekStart(t time.Time) time.Time {
	d := StartOfDay(t)
	return d.AddDate(0, 0, -int(d.Weekday()))
}
