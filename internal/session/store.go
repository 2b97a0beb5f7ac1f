// Package session persists the signed-in identity between runs: the
// bearer token, the role, and the matching account snapshot. It is the
// client-side analog of the web app's local storage — one JSON file,
// cleared wholesale on logout or a 401.
package session

import (
	"encoding/json"
	"errors"
	"os"
	"sync"

	"github.com/sanskarkalal/nextcut-client/internal/api"
)

type Role string

const (
	RoleUser   Role = "USER"
	RoleBarber Role = "BARBER"
)

type Session struct {
	Token  string             `json:"token"`
	Role   Role               `json:"role"`
	User   *api.User          `json:"user,omitempty"`
	Barber *api.BarberAccount `json:"barber,omitempty"`
}

func (s Session) SignedIn() bool { return s.Token != "" }

type Store struct {
	path string

	mu  sync.Mutex
	cur Session
}

// Open loads the session file if it exists; a missing file is a signed-
// out store, not an error.
func Open(path string) (*Store, error) {
	st := &Store{path: path}
	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return st, nil
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(raw, &st.cur); err != nil {
		// A corrupt session file is recoverable: start signed out.
		st.cur = Session{}
	}
	return st, nil
}

// Save persists s and makes it current.
func (s *Store) Save(sess Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cur = sess
	raw, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, raw, 0o600)
}

// Clear wipes the session in memory and on disk. Safe to call twice.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cur = Session{}
	_ = os.Remove(s.path)
}

// Current returns a copy of the live session.
func (s *Store) Current() Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cur
}

// Token satisfies api.CredentialSource.
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cur.Token
}
