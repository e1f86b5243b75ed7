// Package session keeps the admin's bearer token in a small JSON file so the
// authenticated state survives restarts of the client.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"
	"time"

	"github.com/gofrs/flock"
)

// ErrLocked is returned when the session file lock cannot be acquired in time.
var ErrLocked = errors.New("session file is locked")

const lockTimeout = 3 * time.Second

type fileData struct {
	Token string `json:"token,omitempty"`
}

// Store holds the current token and notifies subscribers when it changes.
// The zero value is not usable; create stores with Open or NewMemory.
type Store struct {
	path string
	lock *flock.Flock

	mu          sync.RWMutex
	token       string
	nextID      int
	subscribers map[int]func(token string)
}

// Open loads the session from path. A missing file yields an empty session.
func Open(path string) (*Store, error) {
	s := &Store{
		path:        path,
		lock:        flock.New(path + ".lock"),
		subscribers: make(map[int]func(string)),
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

// NewMemory returns a Store that is never written to disk.
func NewMemory(token string) *Store {
	return &Store{token: token, subscribers: make(map[int]func(string))}
}

// Token returns the current token, or "" when no session exists.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Authenticated reports whether a token is present. Expiry is not checked.
func (s *Store) Authenticated() bool {
	return s.Token() != ""
}

// SetToken stores token, persists it and notifies subscribers.
func (s *Store) SetToken(token string) error {
	return s.update(token)
}

// Clear removes the token (logout).
func (s *Store) Clear() error {
	return s.update("")
}

// Subscribe registers fn to be called with the new token after every change.
// The returned func removes the subscription.
func (s *Store) Subscribe(fn func(token string)) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subscribers[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subscribers, id)
		s.mu.Unlock()
	}
}

func (s *Store) update(token string) error {
	s.mu.Lock()
	prev := s.token
	s.token = token
	if err := s.save(); err != nil {
		s.token = prev
		s.mu.Unlock()
		return err
	}
	subs := make([]func(string), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(token)
	}
	return nil
}

func (s *Store) withLock(fn func() error) error {
	ctx, cancel := context.WithTimeout(context.Background(), lockTimeout)
	defer cancel()

	locked, err := s.lock.TryLockContext(ctx, 50*time.Millisecond)
	if err != nil {
		return fmt.Errorf("lock session file: %w", err)
	}
	if !locked {
		return ErrLocked
	}
	defer func() { _ = s.lock.Unlock() }()
	return fn()
}

func (s *Store) load() error {
	return s.withLock(func() error {
		data, err := os.ReadFile(s.path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				s.token = ""
				return nil
			}
			return fmt.Errorf("read session file: %w", err)
		}
		if len(data) == 0 {
			return nil
		}
		var fd fileData
		if err := json.Unmarshal(data, &fd); err != nil {
			return fmt.Errorf("decode session file: %w", err)
		}
		s.token = fd.Token
		return nil
	})
}

// save must be called with s.mu held.
func (s *Store) save() error {
	if s.path == "" {
		return nil
	}
	return s.withLock(func() error {
		if s.token == "" {
			if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("remove session file: %w", err)
			}
			return nil
		}
		data, err := json.Marshal(fileData{Token: s.token})
		if err != nil {
			return err
		}
		if err := os.WriteFile(s.path, data, 0o600); err != nil {
			return fmt.Errorf("write session file: %w", err)
		}
		return nil
	})
}
