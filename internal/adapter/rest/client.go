// Package rest talks to the job tracker backend over its JSON API.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/theakshaypant/jtk/internal/core"
	"github.com/theakshaypant/jtk/internal/log"
	"github.com/theakshaypant/jtk/internal/session"
)

// ErrUnauthorized is core.ErrUnauthorized. The stored session has already
// been cleared when it is returned.
var ErrUnauthorized = core.ErrUnauthorized

// StatusError is returned for any non-2xx response other than 401.
type StatusError struct {
	Method string
	Path   string
	Code   int
	Body   string
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("%s %s: request failed: %d", e.Method, e.Path, e.Code)
	if e.Body != "" {
		msg += " (" + e.Body + ")"
	}
	return msg
}

// IsNotFound reports whether err is a 404 from the backend.
func IsNotFound(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code == http.StatusNotFound
}

const maxErrorBody = 512

// Client implements core.Tracker against the backend REST API.
type Client struct {
	baseURL string
	store   core.SessionStore
	http    *http.Client
	now     func() time.Time
}

var _ core.Tracker = (*Client)(nil)

type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithClock replaces time.Now for session expiry checks.
func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

// New returns a client for the API rooted at baseURL (e.g. http://localhost:8080).
func New(baseURL string, store core.SessionStore, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		store:   store,
		http:    &http.Client{Timeout: 30 * time.Second},
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the API root the client was built with.
func (c *Client) BaseURL() string { return c.baseURL }

// do performs an authenticated request. body (if non-nil) is sent as JSON
// and the response is decoded into out (if non-nil and the response has
// content).
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	sess, err := c.store.Load()
	if err != nil {
		if !errors.Is(err, session.ErrNoSession) {
			log.Warn("discarding unreadable session", "err", err)
		}
		c.clearSession()
		return ErrUnauthorized
	}
	if sess.Expired(c.now()) {
		log.Info("session expired", "user", sess.User.Username)
		c.clearSession()
		return ErrUnauthorized
	}

	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return err
	}
	sess.Token.SetAuthHeader(req)

	return c.send(req, out, true)
}

// doAnonymous performs a request without a session (login).
func (c *Client) doAnonymous(ctx context.Context, method, path string, body, out any) error {
	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return err
	}
	return c.send(req, out, false)
}

func (c *Client) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode %s %s body: %w", method, path, err)
		}
		r = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, r)
	if err != nil {
		return nil, fmt.Errorf("build %s %s request: %w", method, path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	return req, nil
}

func (c *Client) send(req *http.Request, out any, authenticated bool) error {
	method, path := req.Method, req.URL.Path
	start := c.now()

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	log.Debug("api request", "method", method, "path", path, "status", resp.StatusCode,
		"request_id", req.Header.Get("X-Request-ID"), "elapsed", c.now().Sub(start))

	if resp.StatusCode == http.StatusUnauthorized && authenticated {
		c.clearSession()
		return ErrUnauthorized
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{
			Method: method,
			Path:   path,
			Code:   resp.StatusCode,
			Body:   errorMessage(snippet),
		}
	}

	if resp.StatusCode == http.StatusNoContent || resp.ContentLength == 0 {
		return nil
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s %s: read body: %w", method, path, err)
	}
	if len(bytes.TrimSpace(data)) == 0 || out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%s %s: decode response: %w", method, path, err)
	}
	return nil
}

func (c *Client) clearSession() {
	if err := c.store.Clear(); err != nil {
		log.Error("clear session", err)
	}
}

// errorMessage extracts {"error": "..."} or {"message": "..."} from an error
// body, falling back to the trimmed raw text.
func errorMessage(body []byte) string {
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if json.Unmarshal(body, &payload) == nil {
		if payload.Error != "" {
			return payload.Error
		}
		if payload.Message != "" {
			return payload.Message
		}
	}
	return strings.TrimSpace(string(body))
}
