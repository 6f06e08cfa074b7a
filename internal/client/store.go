package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Modal names
const (
	ModalSignup  = "signup"
	ModalBooking = "booking"
	ModalSuccess = "success"
)

var modalNames = []string{ModalSignup, ModalBooking, ModalSuccess}

// State is a point-in-time copy of the Store
type State struct {
	IsSignedUp   bool            `json:"isSignedUp"`
	User         *User           `json:"user,omitempty"`
	Token        string          `json:"token,omitempty"`
	PendingEmail string          `json:"pendingEmail,omitempty"`
	CodeExpiry   *time.Time      `json:"codeExpiry,omitempty"`
	Modals       map[string]bool `json:"modals"`
}

// Store holds the client-side session: who is signed up, the token, the
// pending verification and which modals are open. Safe for concurrent use.
// With a non-empty path every change is written to disk.
type Store struct {
	mu    sync.RWMutex
	path  string
	state State
}

// NewStore creates an empty store persisted at path ("" keeps it in memory)
func NewStore(path string) *Store {
	return &Store{path: path, state: emptyState()}
}

// LoadStore reads the store at path. A missing file yields an empty store.
func LoadStore(path string) (*Store, error) {
	s := NewStore(path)
	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read session file: %w", err)
	}
	if err := json.Unmarshal(raw, &s.state); err != nil {
		return nil, fmt.Errorf("parse session file %s: %w", path, err)
	}
	if s.state.Modals == nil {
		s.state.Modals = emptyState().Modals
	}
	return s, nil
}

func emptyState() State {
	modals := make(map[string]bool, len(modalNames))
	for _, name := range modalNames {
		modals[name] = false
	}
	return State{Modals: modals}
}

func knownModal(name string) bool {
	for _, n := range modalNames {
		if n == name {
			return true
		}
	}
	return false
}

// OpenModal marks a modal visible
func (s *Store) OpenModal(name string) error {
	return s.setModal(name, true)
}

// CloseModal hides a modal
func (s *Store) CloseModal(name string) error {
	return s.setModal(name, false)
}

func (s *Store) setModal(name string, open bool) error {
	if !knownModal(name) {
		return fmt.Errorf("unknown modal %q", name)
	}
	return s.update(func(st *State) { st.Modals[name] = open })
}

// IsOpen reports whether a modal is visible
func (s *Store) IsOpen(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Modals[name]
}

// Signup records a registration awaiting verification
func (s *Store) Signup(name, email string, codeExpiry time.Time) error {
	return s.update(func(st *State) {
		st.IsSignedUp = true
		st.User = &User{Name: name, Email: email}
		st.PendingEmail = email
		expiry := codeExpiry
		st.CodeExpiry = &expiry
	})
}

// SetCodeExpiry records when the latest verification code expires
func (s *Store) SetCodeExpiry(expiry time.Time) error {
	return s.update(func(st *State) { st.CodeExpiry = &expiry })
}

// SignIn stores the verified user and token and clears the pending verification
func (s *Store) SignIn(user User, token string) error {
	return s.update(func(st *State) {
		st.IsSignedUp = true
		u := user
		st.User = &u
		st.Token = token
		st.PendingEmail = ""
		st.CodeExpiry = nil
	})
}

// Logout clears the user, token and verification state. Modal state is kept.
func (s *Store) Logout() error {
	return s.update(func(st *State) {
		st.IsSignedUp = false
		st.User = nil
		st.Token = ""
		st.PendingEmail = ""
		st.CodeExpiry = nil
	})
}

// CodeExpired reports whether the pending code is past its expiry at now.
// With no pending code it returns true.
func (s *Store) CodeExpired(now time.Time) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state.CodeExpiry == nil {
		return true
	}
	return now.After(*s.state.CodeExpiry)
}

// Token returns the stored bearer token
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Token
}

// Snapshot returns a deep copy of the current state
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyState(s.state)
}

func copyState(st State) State {
	out := st
	if st.User != nil {
		u := *st.User
		out.User = &u
	}
	if st.CodeExpiry != nil {
		e := *st.CodeExpiry
		out.CodeExpiry = &e
	}
	out.Modals = make(map[string]bool, len(st.Modals))
	for k, v := range st.Modals {
		out.Modals[k] = v
	}
	return out
}

func (s *Store) update(fn func(*State)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.state)
	return s.saveLocked()
}

func (s *Store) saveLocked() error {
	if s.path == "" {
		return nil
	}
	raw, err := json.MarshalIndent(s.state, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}
	return os.Rename(tmp, s.path)
}
