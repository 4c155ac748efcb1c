package core

import (
	"time"

	"golang.org/x/oauth2"
)

// Session is the persisted login state.
type Session struct {
	Token *oauth2.Token
	User  User
}

// Expired reports whether the session has no usable access token at now.
// A token without an expiry never expires on the client side.
func (s Session) Expired(now time.Time) bool {
	if s.Token == nil || s.Token.AccessToken == "" {
		return true
	}
	if s.Token.Expiry.IsZero() {
		return false
	}
	return now.After(s.Token.Expiry)
}

// SessionStore handles persistence of the login session.
type SessionStore interface {
	// Load returns the stored session. A missing session is an error
	// matching session.ErrNoSession.
	Load() (Session, error)
	Save(s Session) error
	// Clear removes the session. Clearing a missing session is not an error.
	Clear() error
}
