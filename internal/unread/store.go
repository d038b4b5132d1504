package unread

import "sync"

// Store is the abstract read-marker store. Implementations must be
// safe for concurrent use.
type Store interface {
	// Get returns the marker for a pull request, if one exists.
	Get(prID string) (Marker, bool)

	// Set creates or replaces the marker for a pull request.
	Set(prID string, marker Marker)

	// Delete removes the marker for a pull request. No-op when absent.
	Delete(prID string)

	// IDs returns the pull request ids that currently have markers.
	IDs() []string
}

// MemoryStore is an in-process Store
type MemoryStore struct {
	mu      sync.RWMutex
	markers map[string]Marker
}

// NewMemoryStore creates an empty in-memory marker store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{markers: make(map[string]Marker)}
}

func (s *MemoryStore) Get(prID string) (Marker, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	marker, ok := s.markers[prID]
	return marker, ok
}

func (s *MemoryStore) Set(prID string, marker Marker) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.markers[prID] = marker
}

func (s *MemoryStore) Delete(prID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.markers, prID)
}

func (s *MemoryStore) IDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.markers))
	for id := range s.markers {
		ids = append(ids, id)
	}
	return ids
}
