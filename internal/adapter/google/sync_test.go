package google

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/theakshaypant/jtk/internal/core"
)

// fakeCalendar is an in-memory stand-in for the events collection of one
// calendar.
type fakeCalendar struct {
	mu     sync.Mutex
	events map[string]*calendar.Event
	nextID int
	calls  []string
}

func (f *fakeCalendar) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, r.Method)

	idx := strings.Index(r.URL.Path, "/events")
	if idx < 0 {
		http.NotFound(w, r)
		return
	}
	id := strings.TrimPrefix(r.URL.Path[idx+len("/events"):], "/")

	switch r.Method {
	case http.MethodGet:
		var items []*calendar.Event
		for _, ev := range f.events {
			items = append(items, ev)
		}
		json.NewEncoder(w).Encode(&calendar.Events{Items: items})
	case http.MethodPost, http.MethodPut:
		var ev calendar.Event
		if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if id == "" {
			f.nextID++
			id = fmt.Sprintf("g%d", f.nextID)
		}
		ev.Id = id
		f.events[id] = &ev
		json.NewEncoder(w).Encode(&ev)
	case http.MethodDelete:
		delete(f.events, id)
		w.WriteHeader(http.StatusNoContent)
	}
}

func (f *fakeCalendar) writes() int {
	n := 0
	for _, c := range f.calls {
		if c != http.MethodGet {
			n++
		}
	}
	return n
}

func newTestPublisher(t *testing.T) (*Publisher, *fakeCalendar) {
	t.Helper()
	fake := &fakeCalendar{events: make(map[string]*calendar.Event)}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	svc, err := calendar.NewService(context.Background(),
		option.WithHTTPClient(srv.Client()),
		option.WithEndpoint(srv.URL+"/"))
	if err != nil {
		t.Fatal(err)
	}
	return NewPublisherWithService(svc, "primary"), fake
}

func TestSyncIsIdempotent(t *testing.T) {
	p, fake := newTestPublisher(t)
	ctx := context.Background()
	opts := SyncOptions{Location: time.UTC}

	events := []core.CalendarEvent{
		{ID: "r1", Title: "Follow up", Date: "2025-01-10", Kind: core.KindFollowUp, Color: core.ColorGreen},
		{ID: "r2", Title: "Onsite", Date: "2025-01-15", Kind: core.KindInterview, StartTime: "14:00", EndTime: "15:30"},
		{Title: "Acme - Application Deadline", Date: "2025-01-20", Kind: core.KindDeadline, Color: core.ColorRed, ApplicationID: "42", IsAutoGenerated: true},
		{ID: "r3", Title: "Undated"},
	}

	res, err := p.Sync(ctx, events, opts)
	if err != nil {
		t.Fatal(err)
	}
	if res.Created != 3 || res.Updated != 0 || len(res.Failed) != 0 {
		t.Fatalf("first sync = %+v", res)
	}
	if len(fake.events) != 3 {
		t.Fatalf("calendar has %d events, want 3", len(fake.events))
	}

	writes := fake.writes()
	res, err = p.Sync(ctx, events, opts)
	if err != nil {
		t.Fatal(err)
	}
	if res.Unchanged != 3 || res.Created != 0 {
		t.Errorf("second sync = %+v", res)
	}
	if fake.writes() != writes {
		t.Error("unchanged events were rewritten")
	}

	events[0].Title = "Follow up with recruiter"
	res, err = p.Sync(ctx, events, opts)
	if err != nil {
		t.Fatal(err)
	}
	if res.Updated != 1 || res.Unchanged != 2 {
		t.Errorf("third sync = %+v", res)
	}
	if len(fake.events) != 3 {
		t.Errorf("update created a duplicate: %d events", len(fake.events))
	}
}

func TestSyncPrune(t *testing.T) {
	p, fake := newTestPublisher(t)
	ctx := context.Background()

	events := []core.CalendarEvent{
		{ID: "r1", Title: "A", Date: "2025-01-10"},
		{ID: "r2", Title: "B", Date: "2025-01-11"},
	}
	if _, err := p.Sync(ctx, events, SyncOptions{Location: time.UTC}); err != nil {
		t.Fatal(err)
	}

	res, err := p.Sync(ctx, events[:1], SyncOptions{Location: time.UTC, Prune: true, DryRun: true})
	if err != nil {
		t.Fatal(err)
	}
	if res.Deleted != 1 || len(fake.events) != 2 {
		t.Errorf("dry run = %+v, events = %d", res, len(fake.events))
	}

	res, err = p.Sync(ctx, events[:1], SyncOptions{Location: time.UTC, Prune: true})
	if err != nil {
		t.Fatal(err)
	}
	if res.Deleted != 1 || len(fake.events) != 1 {
		t.Errorf("prune = %+v, events = %d", res, len(fake.events))
	}
}

func TestSyncFrom(t *testing.T) {
	p, fake := newTestPublisher(t)
	events := []core.CalendarEvent{
		{ID: "old", Title: "Past", Date: "2025-01-01"},
		{ID: "new", Title: "Future", Date: "2025-02-01"},
	}
	from := time.Date(2025, time.January, 15, 10, 0, 0, 0, time.UTC)
	res, err := p.Sync(context.Background(), events, SyncOptions{Location: time.UTC, From: from})
	if err != nil {
		t.Fatal(err)
	}
	if res.Created != 1 || len(fake.events) != 1 {
		t.Errorf("result = %+v", res)
	}
}

func TestToGoogleEvent(t *testing.T) {
	loc := time.UTC
	day := time.Date(2025, time.January, 15, 0, 0, 0, 0, loc)

	allDay := toGoogleEvent(core.CalendarEvent{ID: "r1", Title: "Deadline", Date: "2025-01-15", Color: core.ColorRed}, day, "event:r1", loc)
	if allDay.Start.Date != "2025-01-15" || allDay.End.Date != "2025-01-16" {
		t.Errorf("all-day range = %s..%s", allDay.Start.Date, allDay.End.Date)
	}
	if allDay.ColorId != "11" {
		t.Errorf("color id = %q", allDay.ColorId)
	}
	if allDay.ExtendedProperties.Private[propKey] != "event:r1" {
		t.Errorf("private props = %v", allDay.ExtendedProperties.Private)
	}

	timed := toGoogleEvent(core.CalendarEvent{
		ID: "r2", Title: "Onsite", Date: "2025-01-15", Kind: core.KindInterview, StartTime: "09:30",
	}, day, "event:r2", loc)
	if timed.Start.DateTime != "2025-01-15T09:30:00Z" || timed.End.DateTime != "2025-01-15T10:30:00Z" {
		t.Errorf("timed range = %s..%s", timed.Start.DateTime, timed.End.DateTime)
	}
}
