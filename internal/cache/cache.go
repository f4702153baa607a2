// Package cache holds the last-known raw datasets per (backend, user) scope
// so a screen revisiting a scope can render instantly while a silent refresh
// runs in the background.
package cache

import (
	"strings"
	"sync"
	"time"

	"github.com/probook/prodash/pkg/models"
)

// Entry is the cached dataset for one scope key. Slices are replaced
// wholesale on merge, never mutated in place, so a snapshot handed to a
// renderer stays valid after later merges.
type Entry struct {
	Requests    []models.ServiceRequest
	Bookings    []models.Booking
	LastUpdated time.Time
}

// Update names the fields a merge overwrites; nil fields are left untouched.
type Update struct {
	Requests    []models.ServiceRequest
	Bookings    []models.Booking
	LastUpdated *time.Time
}

// Store is a keyed, in-memory, last-write-wins store. Entries are created
// lazily and never evicted; the key space is bounded by the scopes actually
// visited in a session. Construct one per process and pass it by reference.
type Store struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{entries: make(map[string]Entry)}
}

// Key derives the deterministic cache key for a backend/user pair.
func Key(base, userID string) string {
	return strings.TrimSpace(base) + "|" + strings.TrimSpace(userID)
}

// Get returns the entry for key, or false on miss.
func (s *Store) Get(key string) (Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[key]
	return e, ok
}

// Merge overwrites only the fields supplied in u, creating the entry with
// empty defaults if absent. LastUpdated is whatever the caller supplies; the
// store does not enforce monotonicity; last caller wins.
func (s *Store) Merge(key string, u Update) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.entries[key]
	if u.Requests != nil {
		e.Requests = u.Requests
	}
	if u.Bookings != nil {
		e.Bookings = u.Bookings
	}
	if u.LastUpdated != nil {
		e.LastUpdated = *u.LastUpdated
	}
	s.entries[key] = e
}

// Len reports the number of distinct keys seen.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Reset drops every entry. Intended for tests.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string]Entry)
}
