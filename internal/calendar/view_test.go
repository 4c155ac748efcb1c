package calendar

import (
	"testing"
	"time"
)

func TestViewStateNavigation(t *testing.T) {
	tests := []struct {
		name string
		from time.Time
		mode Mode
		next time.Time
		prev time.Time
	}{
		{"month", date(2025, time.March, 15), ModeMonth, date(2025, time.April, 15), date(2025, time.February, 15)},
		{"month clamps day", date(2025, time.January, 31), ModeMonth, date(2025, time.February, 28), date(2024, time.December, 31)},
		{"month leap year", date(2024, time.March, 31), ModeMonth, date(2024, time.April, 30), date(2024, time.February, 29)},
		{"month crosses year", date(2024, time.December, 10), ModeMonth, date(2025, time.January, 10), date(2024, time.November, 10)},
		{"week", date(2025, time.January, 8), ModeWeek, date(2025, time.January, 15), date(2025, time.January, 1)},
		{"day", date(2025, time.March, 1), ModeDay, date(2025, time.March, 2), date(2025, time.February, 28)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewViewState(tt.from, tt.mode)
			if got := s.Next().Ref; !got.Equal(tt.next) {
				t.Errorf("Next = %v, want %v", got, tt.next)
			}
			if got := s.Prev().Ref; !got.Equal(tt.prev) {
				t.Errorf("Prev = %v, want %v", got, tt.prev)
			}
			if !s.Ref.Equal(tt.from) {
				t.Error("transition modified the receiver")
			}
		})
	}
}

func TestViewStateTodayAndMode(t *testing.T) {
	s := NewViewState(date(2020, time.May, 5), ModeWeek)
	now := time.Date(2025, time.January, 8, 17, 45, 0, 0, time.UTC)

	s = s.Today(now)
	if !s.Ref.Equal(date(2025, time.January, 8)) {
		t.Errorf("Today = %v", s.Ref)
	}
	if s.Mode != ModeWeek {
		t.Error("Today changed the mode")
	}

	s = s.WithMode(ModeDay)
	if s.Mode != ModeDay || !s.Ref.Equal(date(2025, time.January, 8)) {
		t.Errorf("WithMode = %+v", s)
	}
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{"month", ModeMonth, false},
		{"", ModeMonth, false},
		{"Week", ModeWeek, false},
		{"d", ModeDay, false},
		{"year", ModeMonth, true},
	}
	for _, tt := range tests {
		got, err := ParseMode(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseMode(%q) error = %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseMode(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestWeekStart(t *testing.T) {
	for d := 5; d <= 11; d++ {
		got := WeekStart(time.Date(2025, time.January, d, 13, 0, 0, 0, time.UTC))
		if !got.Equal(date(2025, time.January, 5)) {
			t.Errorf("WeekStart(Jan %d) = %v", d, got)
		}
	}
}

func TestParseLocalDateIn(t *testing.T) {
	zones := []string{"UTC", "America/Los_Angeles", "Asia/Tokyo", "Pacific/Kiritimati", "Pacific/Pago_Pago"}
	for _, name := range zones {
		loc, err := time.LoadLocation(name)
		if err != nil {
			t.Logf("zone %s unavailable: %v", name, err)
			continue
		}
		got, err := ParseLocalDateIn("2025-03-05", loc)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if FormatDate(got) != "2025-03-05" {
			t.Errorf("%s: round trip = %s", name, FormatDate(got))
		}
		if got.Hour() != 0 || got.Minute() != 0 {
			t.Errorf("%s: got %v, want local midnight", name, got)
		}
	}

	if _, err := ParseLocalDateIn("", time.UTC); err == nil {
		t.Error("empty date should fail")
	}
	if _, err := ParseLocalDateIn("05/03/2025", time.UTC); err == nil {
		t.Error("non ISO date should fail")
	}

	tokyo := time.FixedZone("JST", 9*3600)
	got, err := ParseLocalDateIn("2025-03-05T20:00:00Z", tokyo)
	if err != nil {
		t.Fatal(err)
	}
	if FormatDate(got) != "2025-03-06" {
		t.Errorf("timestamp reduced to %s, want the local date 2025-03-06", FormatDate(got))
	}
}

func TestFormatShortDate(t *testing.T) {
	if got := FormatShortDate(""); got != "-" {
		t.Errorf("empty = %q", got)
	}
	if got := FormatShortDate("2025-03-05"); got != "Mar 05" {
		t.Errorf("got %q", got)
	}
	if got := FormatShortDate("soon"); got != "soon" {
		t.Errorf("unparseable = %q", got)
	}
	if got := FormatLongDate("2025-03-05"); got != "March 5, 2025" {
		t.Errorf("long = %q", got)
	}
}
