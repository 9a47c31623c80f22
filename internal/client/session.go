package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Session keys, one JSON value each.
const (
	AuthKey  = "budget-tracker-auth"
	BoardKey = "budget-tracker-board"
)

// Auth is the cached login pair.
type Auth struct {
	Username string `json:"username"`
	Pin      string `json:"pin"`
}

// BoardSummary is the last board the user worked on.
type BoardSummary struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// DefaultSessionFile lives in the temp dir so it does not outlive the
// machine session.
func DefaultSessionFile() string {
	return filepath.Join(os.TempDir(), "savingsboard-session.json")
}

// Session is a small key/value file standing in for browser session storage.
type Session struct {
	path   string
	mu     sync.Mutex
	values map[string]json.RawMessage
}

// NewSession returns an empty session backed by path. Call Load to read it.
func NewSession(path string) *Session {
	return &Session{path: path, values: map[string]json.RawMessage{}}
}

// Load reads the file; a missing or corrupt file leaves the session empty.
func (s *Session) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.values = map[string]json.RawMessage{}
			return nil
		}
		return err
	}
	values := map[string]json.RawMessage{}
	if err := json.Unmarshal(data, &values); err != nil {
		// A corrupt file is treated like an empty session.
		s.values = map[string]json.RawMessage{}
		return nil
	}
	s.values = values
	return nil
}

func (s *Session) save() error {
	data, err := json.Marshal(s.values)
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o600)
}

func (s *Session) set(key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = raw
	return s.save()
}

func (s *Session) get(key string, v any) bool {
	s.mu.Lock()
	raw, ok := s.values[key]
	s.mu.Unlock()
	if !ok {
		return false
	}
	return json.Unmarshal(raw, v) == nil
}

// Auth returns the cached login, or false unless both fields are set.
func (s *Session) Auth() (Auth, bool) {
	var a Auth
	if !s.get(AuthKey, &a) || a.Username == "" || a.Pin == "" {
		return Auth{}, false
	}
	return a, true
}

// SetAuth caches the login pair and saves the file.
func (s *Session) SetAuth(a Auth) error {
	return s.set(AuthKey, a)
}

// Board returns the cached board summary, or false when it has no code.
func (s *Session) Board() (BoardSummary, bool) {
	var b BoardSummary
	if !s.get(BoardKey, &b) || b.Code == "" {
		return BoardSummary{}, false
	}
	return b, true
}

// SetBoard caches the board summary and saves the file.
func (s *Session) SetBoard(b BoardSummary) error {
	return s.set(BoardKey, b)
}

// Clear drops both keys and removes the file.
func (s *Session) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values = map[string]json.RawMessage{}
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
