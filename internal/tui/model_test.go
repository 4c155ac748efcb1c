package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"github.com/theakshaypant/jtk/internal/calendar"
	"github.com/theakshaypant/jtk/internal/core"
)

type fakeTracker struct {
	mu        sync.Mutex
	events    []core.CalendarEvent
	apps      []core.Application
	reminders map[string]core.Reminder
	saveErr   error
	creates   int
	updates   int
	deletes   []string
}

func (f *fakeTracker) ListApplications(context.Context) ([]core.Application, error) {
	return f.apps, nil
}

func (f *fakeTracker) GetApplication(_ context.Context, id string) (core.Application, error) {
	for _, a := range f.apps {
		if a.ID == id {
			return a, nil
		}
	}
	return core.Application{}, errors.New("not found")
}

func (f *fakeTracker) ApplicationReminders(context.Context, string) ([]core.Reminder, error) {
	return nil, nil
}

func (f *fakeTracker) CreateApplication(_ context.Context, in core.ApplicationInput) (core.Application, error) {
	return core.Application{Company: in.Company, Title: in.Title}, nil
}

func (f *fakeTracker) UpdateApplicationStatus(context.Context, string, core.Status) error {
	return nil
}

func (f *fakeTracker) DeleteApplication(context.Context, string) error {
	return nil
}

func (f *fakeTracker) CalendarEvents(context.Context) ([]core.CalendarEvent, error) {
	return f.events, nil
}

func (f *fakeTracker) GetReminder(_ context.Context, id string) (core.Reminder, error) {
	r, ok := f.reminders[id]
	if !ok {
		return core.Reminder{}, errors.New("not found")
	}
	return r, nil
}

func (f *fakeTracker) CreateReminder(_ context.Context, in core.ReminderInput) (core.Reminder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.creates++
	return core.Reminder{Title: in.Title}, f.saveErr
}

func (f *fakeTracker) UpdateReminder(_ context.Context, id string, in core.ReminderInput) (core.Reminder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates++
	return core.Reminder{ID: id, Title: in.Title}, f.saveErr
}

func (f *fakeTracker) DeleteReminder(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletes = append(f.deletes, id)
	return f.saveErr
}

func (f *fakeTracker) Jobs(context.Context) ([]core.Job, error) {
	return nil, nil
}

func (f *fakeTracker) DashboardSummary(context.Context) (core.DashboardSummary, error) {
	return core.DashboardSummary{}, nil
}

var testNow = time.Date(2025, time.January, 8, 10, 30, 0, 0, time.UTC)

func newTestModel(tr core.Tracker, mode calendar.Mode) Model {
	return NewModel(tr, mode, WithClock(func() time.Time { return testNow }))
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func send(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return nm, cmd
}

func press(t *testing.T, m Model, k string) (Model, tea.Cmd) {
	t.Helper()
	return send(t, m, keyMsg(k))
}

func TestStaleLoadIsDropped(t *testing.T) {
	m := newTestModel(&fakeTracker{}, calendar.ModeMonth)

	// Refresh supersedes the initial load.
	m, cmd := press(t, m, "r")
	if cmd == nil {
		t.Fatal("refresh returned no command")
	}

	stale := []core.CalendarEvent{{ID: "old", Title: "Old", Date: "2025-01-10"}}
	fresh := []core.CalendarEvent{{ID: "new", Title: "New", Date: "2025-01-12"}}

	m, _ = send(t, m, eventsLoadedMsg{seq: 1, events: stale})
	if len(m.events) != 0 {
		t.Fatalf("stale load applied: %v", m.events)
	}
	if !m.loading {
		t.Error("stale load cleared the loading flag")
	}

	m, _ = send(t, m, eventsLoadedMsg{seq: 2, events: fresh})
	if len(m.events) != 1 || m.events[0].ID != "new" {
		t.Fatalf("events = %v", m.events)
	}

	// A late arrival of the superseded load changes nothing.
	m, _ = send(t, m, eventsLoadedMsg{seq: 1, events: stale})
	if m.events[0].ID != "new" {
		t.Errorf("late stale load replaced events: %v", m.events)
	}
}

func TestLoadFailureKeepsEvents(t *testing.T) {
	m := newTestModel(&fakeTracker{}, calendar.ModeMonth)
	events := []core.CalendarEvent{{ID: "1", Title: "Call", Date: "2025-01-10"}}
	m, _ = send(t, m, eventsLoadedMsg{seq: 1, events: events})

	m, _ = press(t, m, "r")
	m, _ = send(t, m, eventsLoadedMsg{seq: 2, err: errors.New("connection refused")})
	if len(m.events) != 1 {
		t.Errorf("events = %v, want previous list kept", m.events)
	}
	if m.banner != "" {
		t.Errorf("read failure raised a banner: %q", m.banner)
	}
	if !strings.Contains(m.status, "connection refused") {
		t.Errorf("status = %q", m.status)
	}
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestExpiredSessionOnLoadQuits(t *testing.T) {
	m := newTestModel(&fakeTracker{}, calendar.ModeMonth)
	events := []core.CalendarEvent{{ID: "1", Title: "Call", Date: "2025-01-10"}}
	m, _ = send(t, m, eventsLoadedMsg{seq: 1, events: events})

	m, _ = press(t, m, "r")
	expired := fmt.Errorf("fetch calendar events: %w", core.ErrUnauthorized)
	m, cmd := send(t, m, eventsLoadedMsg{seq: 2, err: expired})

	if !isQuit(cmd) {
		t.Fatal("calendar kept running after the session expired")
	}
	if !errors.Is(m.Err(), core.ErrUnauthorized) {
		t.Errorf("Err() = %v", m.Err())
	}
	if len(m.events) != 0 {
		t.Errorf("previous session's events still shown: %v", m.events)
	}
	if len(m.grid.Placements()) != 0 {
		t.Error("grid still holds the previous session's events")
	}
}

func TestExpiredSessionOnSaveQuits(t *testing.T) {
	tests := []struct {
		name string
		msg  tea.Msg
	}{
		{"save", reminderSavedMsg{err: core.ErrUnauthorized}},
		{"delete", reminderDeletedMsg{title: "Call", err: core.ErrUnauthorized}},
		{"open editor", reminderLoadedMsg{event: core.CalendarEvent{ID: "1"}, err: core.ErrUnauthorized}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestModel(&fakeTracker{}, calendar.ModeMonth)
			f := newReminderForm("1", core.ReminderInput{Title: "Call", Date: "2025-01-10"})
			m.form = &f
			m.saving = true

			m, cmd := send(t, m, tt.msg)
			if !isQuit(cmd) {
				t.Fatal("calendar kept running after the session expired")
			}
			if m.banner != "" {
				t.Errorf("banner = %q, want none", m.banner)
			}
			if m.form != nil {
				t.Error("form left open")
			}
			if m.Err() == nil {
				t.Error("Err() = nil")
			}
		})
	}
}

func TestInitLoadsMergedEvents(t *testing.T) {
	tr := &fakeTracker{
		events: []core.CalendarEvent{{ID: "1", Title: "Call", Date: "2025-01-10"}},
		apps:   []core.Application{{ID: "7", Company: "Acme", Deadline: "2025-01-20"}},
	}
	m := newTestModel(tr, calendar.ModeMonth)
	msg := m.loadEvents(m.loadSeq)()
	m, _ = send(t, m, msg)

	if len(m.events) != 2 {
		t.Fatalf("events = %v", m.events)
	}
	if !m.events[1].IsAutoGenerated {
		t.Error("deadline event not merged after stored events")
	}
	if m.loading {
		t.Error("still loading")
	}
}

func TestNavigation(t *testing.T) {
	m := newTestModel(&fakeTracker{}, calendar.ModeMonth)

	m, _ = press(t, m, "right")
	if got := m.State().Ref; got.Month() != time.February || got.Year() != 2025 {
		t.Errorf("next month ref = %v", got)
	}
	if m.grid.Label != "February 2025" {
		t.Errorf("label = %q", m.grid.Label)
	}

	m, _ = press(t, m, "w")
	if m.State().Mode != calendar.ModeWeek || m.grid.Time == nil {
		t.Fatalf("mode = %v", m.State().Mode)
	}

	m, _ = press(t, m, "left")
	if got := calendar.FormatDate(m.State().Ref); got != "2025-02-01" {
		t.Errorf("previous week ref = %s", got)
	}

	m, _ = press(t, m, "t")
	if !calendar.SameDay(m.State().Ref, testNow) {
		t.Errorf("today ref = %v", m.State().Ref)
	}

	m, _ = press(t, m, "d")
	if m.State().Mode != calendar.ModeDay || len(m.grid.Time.Columns) != 1 {
		t.Errorf("day view not rendered")
	}
}

func TestEnterOnAutoGeneratedEventDoesNothing(t *testing.T) {
	m := newTestModel(&fakeTracker{}, calendar.ModeMonth)
	m, _ = send(t, m, eventsLoadedMsg{seq: 1, events: []core.CalendarEvent{
		{Title: "Acme - Application Deadline", Date: "2025-01-08", Color: core.ColorRed, IsAutoGenerated: true, ApplicationID: "7"},
	}})

	p, ok := m.Selected()
	if !ok || !p.Event.IsAutoGenerated {
		t.Fatalf("selected = %+v, %v", p, ok)
	}

	m, cmd := press(t, m, "enter")
	if cmd != nil || m.form != nil {
		t.Error("enter on an auto-generated event opened the editor")
	}

	m, cmd = press(t, m, "x")
	if cmd != nil || m.confirm != nil {
		t.Error("delete offered for an auto-generated event")
	}
}

func TestEnterOpensEditorWithReminder(t *testing.T) {
	tr := &fakeTracker{reminders: map[string]core.Reminder{
		"r1": {ID: "r1", Kind: core.KindInterview, Title: "Onsite", TriggerAt: "2025-01-10", StartTime: "14:00", MeetingLink: "https://meet.example.com/x"},
	}}
	m := newTestModel(tr, calendar.ModeMonth)
	m, _ = send(t, m, eventsLoadedMsg{seq: 1, events: []core.CalendarEvent{
		{ID: "r1", Title: "Onsite", Date: "2025-01-10", Kind: core.KindInterview},
	}})

	m, cmd := press(t, m, "enter")
	if cmd == nil {
		t.Fatal("enter on a stored event returned no command")
	}
	m, _ = send(t, m, cmd())

	if m.form == nil || m.form.id != "r1" {
		t.Fatalf("form = %+v", m.form)
	}
	in := m.form.Input()
	if in.Kind != core.KindInterview || in.MeetingLink != "https://meet.example.com/x" || in.StartTime != "14:00" {
		t.Errorf("form input = %+v", in)
	}
}

func TestEditorFallsBackToCalendarCopy(t *testing.T) {
	m := newTestModel(&fakeTracker{}, calendar.ModeMonth)
	ev := core.CalendarEvent{ID: "gone", Title: "Follow up", Date: "2025-01-10", Kind: core.KindFollowUp, Color: core.ColorGreen}
	m, _ = send(t, m, reminderLoadedMsg{event: ev, err: errors.New("boom")})
	if m.form == nil {
		t.Fatal("form not opened")
	}
	if in := m.form.Input(); in.Title != "Follow up" || in.Color != core.ColorGreen || in.Date != "2025-01-10" {
		t.Errorf("form input = %+v", in)
	}
}

func TestSecondSubmitDuringSaveIsIgnored(t *testing.T) {
	tr := &fakeTracker{}
	m := newTestModel(tr, calendar.ModeMonth)
	f := newReminderForm("", core.ReminderInput{Kind: core.KindFollowUp, Title: "Email recruiter", Date: "2025-01-10"})
	m.form = &f

	m, first := press(t, m, "enter")
	if first == nil || !m.saving {
		t.Fatal("submit did not start a save")
	}
	m, second := press(t, m, "enter")
	if second != nil {
		t.Error("second submit started another save")
	}

	m, cmd := send(t, m, first())
	if tr.creates != 1 {
		t.Errorf("creates = %d, want 1", tr.creates)
	}
	if m.saving || m.form != nil {
		t.Errorf("saving = %v, form open = %v after success", m.saving, m.form != nil)
	}
	if cmd == nil {
		t.Error("successful save did not reload")
	}
	if m.loadSeq != 2 {
		t.Errorf("loadSeq = %d, want 2", m.loadSeq)
	}
}

func TestSubmitValidates(t *testing.T) {
	tr := &fakeTracker{}
	m := newTestModel(tr, calendar.ModeMonth)
	f := newReminderForm("", core.ReminderInput{Date: "2025-01-10"})
	m.form = &f

	m, _ = press(t, m, "enter")
	if m.saving {
		t.Fatal("invalid form started a save")
	}
	if m.form.err != "Please enter a title" {
		t.Errorf("form error = %q", m.form.err)
	}
	if tr.creates != 0 {
		t.Errorf("creates = %d", tr.creates)
	}

	f = newReminderForm("", core.ReminderInput{Title: "Far away", Date: "2030-01-01"})
	m.form = &f
	m, _ = press(t, m, "enter")
	if !strings.HasPrefix(m.form.err, "Date cannot be more than 3 years in the future") {
		t.Errorf("form error = %q", m.form.err)
	}
	if m.form.focus != fieldDate {
		t.Errorf("focus = %d, want date field", m.form.focus)
	}
}

func TestWriteErrorShowsBlockingBanner(t *testing.T) {
	m := newTestModel(&fakeTracker{}, calendar.ModeMonth)
	f := newReminderForm("r1", core.ReminderInput{Title: "Call", Date: "2025-01-10"})
	m.form = &f
	m.saving = true

	m, _ = send(t, m, reminderSavedMsg{err: errors.New("server error")})
	if m.saving {
		t.Error("saving not cleared")
	}
	if !strings.Contains(m.banner, "server error") {
		t.Fatalf("banner = %q", m.banner)
	}
	if m.form == nil {
		t.Error("form closed after a failed save")
	}

	// Input is swallowed until the banner is dismissed.
	m, cmd := press(t, m, "q")
	if cmd != nil {
		t.Error("q was handled while the banner was shown")
	}
	m, _ = press(t, m, "enter")
	if m.banner != "" {
		t.Error("enter did not dismiss the banner")
	}
}

func TestDeleteNeedsConfirmation(t *testing.T) {
	tr := &fakeTracker{}
	m := newTestModel(tr, calendar.ModeMonth)
	m, _ = send(t, m, eventsLoadedMsg{seq: 1, events: []core.CalendarEvent{
		{ID: "r1", Title: "Call", Date: "2025-01-10"},
	}})

	m, _ = press(t, m, "x")
	if m.confirm == nil {
		t.Fatal("no confirmation requested")
	}
	m, _ = press(t, m, "n")
	if m.confirm != nil || len(tr.deletes) != 0 {
		t.Fatal("cancel did not cancel")
	}

	m, _ = press(t, m, "x")
	m, cmd := press(t, m, "y")
	if cmd == nil {
		t.Fatal("confirm returned no command")
	}
	m, _ = send(t, m, cmd())
	if len(tr.deletes) != 1 || tr.deletes[0] != "r1" {
		t.Errorf("deletes = %v", tr.deletes)
	}
	if !strings.Contains(m.status, "Call") {
		t.Errorf("status = %q", m.status)
	}
}

func TestSelectionMovesThroughPlacements(t *testing.T) {
	m := newTestModel(&fakeTracker{}, calendar.ModeMonth)
	m, _ = send(t, m, eventsLoadedMsg{seq: 1, events: []core.CalendarEvent{
		{ID: "a", Title: "A", Date: "2025-01-03"},
		{ID: "b", Title: "B", Date: "2025-01-20"},
		{ID: "c", Title: "C", Date: "2025-03-01"},
	}})

	if p, _ := m.Selected(); p.Event.ID != "a" {
		t.Fatalf("initial selection = %q", p.Event.ID)
	}
	m, _ = press(t, m, "down")
	m, _ = press(t, m, "down")
	if p, _ := m.Selected(); p.Event.ID != "b" {
		t.Errorf("selection past the last event = %q", p.Event.ID)
	}
}

func TestViewRendersGrid(t *testing.T) {
	m := newTestModel(&fakeTracker{}, calendar.ModeMonth)
	m, _ = send(t, m, tea.WindowSizeMsg{Width: 140, Height: 40})
	m, _ = send(t, m, eventsLoadedMsg{seq: 1, events: []core.CalendarEvent{
		{ID: "a", Title: "Phone screen", Date: "2025-01-08", Kind: core.KindInterview},
	}})

	out := ansi.Strip(m.View())
	for _, want := range []string{"January 2025", "Sun", "Phone screen", "Interview"} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q", want)
		}
	}
}
