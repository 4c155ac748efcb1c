// Package session persists the tracker login between invocations.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"

	"github.com/theakshaypant/jtk/internal/core"
)

// ErrNoSession is returned by Load when nobody is logged in.
var ErrNoSession = errors.New("not logged in")

// FileStore keeps the session as JSON in a single file readable only by
// the current user.
type FileStore struct {
	path string
}

// NewFileStore returns a store backed by path. The file is created on Save.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the backing file.
func (s *FileStore) Path() string { return s.path }

type fileFormat struct {
	Token *oauth2.Token `json:"token"`
	User  core.User     `json:"user"`
}

func (s *FileStore) Load() (core.Session, error) {
	f, err := os.Open(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return core.Session{}, ErrNoSession
	}
	if err != nil {
		return core.Session{}, fmt.Errorf("open session file: %w", err)
	}
	defer f.Close()

	var ff fileFormat
	if err := json.NewDecoder(f).Decode(&ff); err != nil {
		return core.Session{}, fmt.Errorf("decode session file %s: %w", s.path, err)
	}
	if ff.Token == nil || ff.Token.AccessToken == "" {
		return core.Session{}, ErrNoSession
	}
	return core.Session{Token: ff.Token, User: ff.User}, nil
}

func (s *FileStore) Save(sess core.Session) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create session directory: %w", err)
	}

	// Write to a temp file first so a crash never leaves a truncated session.
	tmp := s.path + ".tmp"
	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("create session file: %w", err)
	}
	if err := json.NewEncoder(f).Encode(fileFormat{Token: sess.Token, User: sess.User}); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("encode session: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, s.path)
}

func (s *FileStore) Clear() error {
	err := os.Remove(s.path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove session file: %w", err)
	}
	return nil
}

// MemoryStore is an in-process SessionStore, used in tests.
type MemoryStore struct {
	sess *core.Session
}

func (m *MemoryStore) Load() (core.Session, error) {
	if m.sess == nil {
		return core.Session{}, ErrNoSession
	}
	return *m.sess, nil
}

func (m *MemoryStore) Save(s core.Session) error {
	m.sess = &s
	return nil
}

func (m *MemoryStore) Clear() error {
	m.sess = nil
	return nil
}

// NewToken builds the stored token from a login response. expiresAtMillis
// is the server-reported expiry in Unix milliseconds; when it is zero the
// exp claim of the JWT is used instead.
func NewToken(accessToken, refreshToken string, expiresAtMillis int64) *oauth2.Token {
	tok := &oauth2.Token{
		AccessToken:  accessToken,
		TokenType:    "Bearer",
		RefreshToken: refreshToken,
	}
	if expiresAtMillis > 0 {
		tok.Expiry = time.UnixMilli(expiresAtMillis)
	} else if exp, ok := JWTExpiry(accessToken); ok {
		tok.Expiry = exp
	}
	return tok
}

// JWTExpiry reads the exp claim from a JWT without verifying its signature.
// The backend is the only party that verifies tokens; the client only needs
// to know when to stop sending one.
func JWTExpiry(token string) (time.Time, bool) {
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}
