// Package session keeps the client's login state in a local JSON file.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/atinyakov/RentVerify/internal/models"
)

// DefaultFile is where the shell keeps its session by default.
const DefaultFile = "session.json"

// Store is the persisted {token, role} pair.
type Store struct {
	mu   sync.Mutex
	path string
	cur  models.Session
}

// NewStore returns a store backed by path. Nothing is read until Load.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Load reads the session file. A missing file means logged out.
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.cur = models.Session{}
			return nil
		}
		return err
	}
	defer f.Close()

	var sess models.Session
	if err := json.NewDecoder(f).Decode(&sess); err != nil {
		return fmt.Errorf("decode session file: %w", err)
	}
	s.cur = sess
	return nil
}

// Current returns the stored session; its Token is empty when logged out.
func (s *Store) Current() models.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cur
}

// Set replaces the session and writes it to disk.
func (s *Store) Set(sess models.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cur = sess
	return s.save()
}

// Clear forgets the session and removes the file.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cur = models.Session{}
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func (s *Store) save() error {
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return err
		}
	}
	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}
	defer f.Close()
	return json.NewEncoder(f).Encode(s.cur)
}
