package rest

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/theakshaypant/jtk/internal/core"
	"github.com/theakshaypant/jtk/internal/log"
	"github.com/theakshaypant/jtk/internal/session"
)

// ErrInvalidCredentials is returned by Login when the backend rejects the
// email/password pair.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Login exchanges credentials for a session and saves it in the store.
func (c *Client) Login(ctx context.Context, email, password string) (core.Session, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return core.Session{}, core.ValidationError{Field: "email", Message: "Please enter your email and password."}
	}

	var resp loginResponse
	err := c.doAnonymous(ctx, http.MethodPost, "/api/auth/login", loginRequest{Email: email, Password: password}, &resp)
	var se *StatusError
	if errors.As(err, &se) && (se.Code == http.StatusUnauthorized || se.Code == http.StatusForbidden) {
		return core.Session{}, ErrInvalidCredentials
	}
	if err != nil {
		return core.Session{}, fmt.Errorf("login: %w", err)
	}

	access := first(resp.JWT, resp.Token)
	if access == "" {
		return core.Session{}, fmt.Errorf("login: response carried no token")
	}
	expiresAt, _ := strconv.ParseInt(first(resp.ExpiresAt, resp.ExpiresAtSnake), 10, 64)

	sess := core.Session{
		Token: session.NewToken(access, resp.RefreshToken, expiresAt),
		User: core.User{
			Username: resp.Username,
			Email:    first(resp.Email, email),
			Role:     resp.Role,
		},
	}
	if err := c.store.Save(sess); err != nil {
		return core.Session{}, fmt.Errorf("save session: %w", err)
	}
	log.Info("logged in", "user", sess.User.Username, "expiry", sess.Token.Expiry)
	return sess, nil
}

// Logout tells the backend and clears the local session. The local session
// is cleared even when the backend call fails.
func (c *Client) Logout(ctx context.Context) error {
	err := c.do(ctx, http.MethodPost, "/api/auth/logout", nil, nil)
	c.clearSession()
	if err != nil && !errors.Is(err, ErrUnauthorized) {
		log.Warn("logout request failed", "err", err)
	}
	return nil
}

// Session returns the stored session without contacting the backend.
func (c *Client) Session() (core.Session, error) {
	sess, err := c.store.Load()
	if err != nil {
		return core.Session{}, err
	}
	if sess.Expired(c.now()) {
		c.clearSession()
		return core.Session{}, ErrUnauthorized
	}
	return sess, nil
}
