package calendar

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/theakshaypant/jtk/internal/core"
)

type fakeSource struct {
	events    []core.CalendarEvent
	apps      []core.Application
	eventsErr error
	appsErr   error
	calls     []string
}

func (f *fakeSource) CalendarEvents(context.Context) ([]core.CalendarEvent, error) {
	f.calls = append(f.calls, "events")
	return f.events, f.eventsErr
}

func (f *fakeSource) ListApplications(context.Context) ([]core.Application, error) {
	f.calls = append(f.calls, "apps")
	return f.apps, f.appsErr
}

func TestAutoDeadlineEvents(t *testing.T) {
	apps := []core.Application{
		{ID: "42", Company: "Acme", Deadline: "2025-01-20"},
		{ID: "43", Company: "NoDeadline"},
		{ID: "44", Company: "Globex", Deadline: "2025-02-01"},
	}
	got := AutoDeadlineEvents(apps)
	if len(got) != 2 {
		t.Fatalf("got %d events, want 2", len(got))
	}

	want := core.CalendarEvent{
		Title:           "Acme - Application Deadline",
		Date:            "2025-01-20",
		Color:           core.ColorRed,
		Kind:            core.KindDeadline,
		ApplicationID:   "42",
		IsAutoGenerated: true,
	}
	if got[0] != want {
		t.Errorf("event = %+v, want %+v", got[0], want)
	}
	if got[0].Editable() {
		t.Error("auto-generated event must not be editable")
	}
	if got[1].ApplicationID != "44" {
		t.Errorf("second event application = %q", got[1].ApplicationID)
	}
}

func TestMergeEventsOrder(t *testing.T) {
	stored := []core.CalendarEvent{{ID: "r1", Title: "Prep", Date: "2025-01-19"}}
	apps := []core.Application{{ID: "42", Company: "Acme", Deadline: "2025-01-20"}}

	got := MergeEvents(stored, apps)
	if len(got) != 2 {
		t.Fatalf("len = %d", len(got))
	}
	if got[0].ID != "r1" || !got[1].IsAutoGenerated {
		t.Errorf("stored events must come first: %+v", got)
	}
	if len(stored) != 1 {
		t.Error("input slice modified")
	}
}

func TestLoadEvents(t *testing.T) {
	src := &fakeSource{
		events: []core.CalendarEvent{{ID: "r1", Date: "2025-01-19"}},
		apps:   []core.Application{{ID: "42", Company: "Acme", Deadline: "2025-01-20"}},
	}
	got, err := LoadEvents(context.Background(), src)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Errorf("len = %d, want 2", len(got))
	}
	if len(src.calls) != 2 || src.calls[0] != "events" || src.calls[1] != "apps" {
		t.Errorf("calls = %v, want events then apps", src.calls)
	}
}

func TestLoadEventsErrors(t *testing.T) {
	boom := errors.New("boom")

	src := &fakeSource{eventsErr: boom}
	if _, err := LoadEvents(context.Background(), src); !errors.Is(err, boom) {
		t.Errorf("err = %v, want wrapped boom", err)
	}
	if len(src.calls) != 1 {
		t.Errorf("applications fetched after events failed: %v", src.calls)
	}

	src = &fakeSource{appsErr: boom}
	if _, err := LoadEvents(context.Background(), src); !errors.Is(err, boom) {
		t.Errorf("err = %v, want wrapped boom", err)
	}
}

func TestUpcoming(t *testing.T) {
	now := time.Date(2025, time.January, 10, 18, 0, 0, 0, time.Local)
	events := []core.CalendarEvent{
		{ID: "past", Date: "2025-01-09"},
		{ID: "late", Date: "2025-02-01"},
		{ID: "today-a", Date: "2025-01-10"},
		{ID: "undated"},
		{ID: "soon", Date: "2025-01-12"},
		{ID: "today-b", Date: "2025-01-10"},
	}

	got := Upcoming(events, now, DefaultUpcoming)
	wantIDs := []string{"today-a", "today-b", "soon"}
	if len(got) != len(wantIDs) {
		t.Fatalf("got %d events, want %d", len(got), len(wantIDs))
	}
	for i, id := range wantIDs {
		if got[i].ID != id {
			t.Errorf("event %d = %s, want %s", i, got[i].ID, id)
		}
	}

	all := Upcoming(events, now, 0)
	if len(all) != 4 || all[3].ID != "late" {
		t.Errorf("unbounded = %+v", all)
	}
}

func TestRelativeLabel(t *testing.T) {
	now := time.Date(2025, time.January, 10, 18, 0, 0, 0, time.UTC)
	tests := []struct {
		date time.Time
		want string
	}{
		{date(2025, time.January, 10), "Today"},
		{date(2025, time.January, 11), "Tomorrow"},
		{date(2025, time.January, 13), "In 3 days"},
		{date(2025, time.January, 17), "In 7 days"},
		{date(2025, time.January, 18), "Sat, Jan 18"},
		{date(2025, time.January, 9), "Thu, Jan 9"},
	}
	for _, tt := range tests {
		if got := RelativeLabel(tt.date, now); got != tt.want {
			t.Errorf("RelativeLabel(%s) = %q, want %q", FormatDate(tt.date), got, tt.want)
		}
	}
}
