// Package google copies tracker reminders and application deadlines into a
// Google Calendar the user owns.
package google

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/theakshaypant/jtk/internal/log"
)

// Scopes requested by `jtk google auth`: write access to events and read
// access to the calendar list so a target calendar can be picked by name.
var Scopes = []string{calendar.CalendarEventsScope, calendar.CalendarReadonlyScope}

// Publisher writes events to one Google calendar.
type Publisher struct {
	calendarID string
	credsFile  string
	tokenFile  string
	service    *calendar.Service
	calendars  map[string]string
}

func NewPublisher(calendarID, credsFile, tokenFile string) *Publisher {
	if calendarID == "" {
		calendarID = "primary"
	}
	return &Publisher{
		calendarID: calendarID,
		credsFile:  credsFile,
		tokenFile:  tokenFile,
		calendars:  make(map[string]string),
	}
}

// NewPublisherWithService wraps an existing service, skipping Login.
func NewPublisherWithService(svc *calendar.Service, calendarID string) *Publisher {
	p := NewPublisher(calendarID, "", "")
	p.service = svc
	return p
}

// CalendarID returns the target calendar.
func (p *Publisher) CalendarID() string { return p.calendarID }

// Login loads credentials and token, then initializes the Calendar service.
// Run `jtk google auth` first to generate the token file.
func (p *Publisher) Login(ctx context.Context) error {
	config, err := LoadConfig(p.credsFile)
	if err != nil {
		return err
	}

	tok, err := TokenFromFile(p.tokenFile)
	if err != nil {
		return fmt.Errorf("read token file (run `jtk google auth` first): %w", err)
	}

	client := config.Client(ctx, tok)
	p.service, err = calendar.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return fmt.Errorf("create calendar service: %w", err)
	}
	return nil
}

// LoadConfig reads an OAuth client credentials file downloaded from the
// Google Cloud console.
func LoadConfig(credsFile string) (*oauth2.Config, error) {
	b, err := os.ReadFile(credsFile)
	if err != nil {
		return nil, fmt.Errorf("read credentials file: %w", err)
	}
	config, err := google.ConfigFromJSON(b, Scopes...)
	if err != nil {
		return nil, fmt.Errorf("parse credentials: %w", err)
	}
	return config, nil
}

// Calendars returns the calendars the user can see (ID -> name).
func (p *Publisher) Calendars(ctx context.Context) (map[string]string, error) {
	if p.service == nil {
		return nil, fmt.Errorf("google calendar: not logged in")
	}
	calList, err := p.service.CalendarList.List().Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("list calendars: %w", err)
	}
	for _, cal := range calList.Items {
		p.calendars[cal.Id] = cal.Summary
	}
	return p.calendars, nil
}

// TokenFromFile reads an OAuth token from a JSON file.
func TokenFromFile(path string) (*oauth2.Token, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	tok := &oauth2.Token{}
	err = json.NewDecoder(f).Decode(tok)
	return tok, err
}

// SaveToken writes an OAuth token to path, readable only by the user.
func SaveToken(path string, token *oauth2.Token) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}
	defer f.Close()
	return json.NewEncoder(f).Encode(token)
}

func logSyncDone(res SyncResult, elapsed time.Duration) {
	log.Info("google sync done", "created", res.Created, "updated", res.Updated,
		"unchanged", res.Unchanged, "deleted", res.Deleted, "failed", len(res.Failed), "elapsed", elapsed)
}
