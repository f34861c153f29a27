// Package preference keeps visitor display preferences. Storage is injected
// so the same logic works over cookies, memory or anything else.
package preference

import "sync"

// Store is a string key-value store.
type Store interface {
	Get(key string) (string, bool)
	Set(key, value string)
}

const (
	// ReaderModeKey is the storage key of the reader-mode flag.
	ReaderModeKey = "readerMode"

	on  = "on"
	off = "off"
)

// ReaderMode is the "easy reader" toggle: a simplified, distraction-free
// rendering of pages.
type ReaderMode struct {
	Store Store
}

// Enabled reports whether reader mode is on. A missing value means off.
func (r ReaderMode) Enabled() bool {
	if r.Store == nil {
		return false
	}
	v, ok := r.Store.Get(ReaderModeKey)
	return ok && v == on
}

// Set persists the flag.
func (r ReaderMode) Set(enabled bool) {
	if r.Store == nil {
		return
	}
	v := off
	if enabled {
		v = on
	}
	r.Store.Set(ReaderModeKey, v)
}

// Toggle flips the flag and returns the new state.
func (r ReaderMode) Toggle() bool {
	next := !r.Enabled()
	r.Set(next)
	return next
}

// MemoryStore is a Store backed by a map. It is safe for concurrent use.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

func (s *MemoryStore) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok
}

func (s *MemoryStore) Set(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
}
