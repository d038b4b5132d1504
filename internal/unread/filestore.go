package unread

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// FileStore is a Store backed by a single JSON file, written through
// on every mutation. Suitable for a single-process CLI; it makes no
// attempt at cross-process locking.
type FileStore struct {
	mu      sync.RWMutex
	path    string
	markers map[string]Marker
}

// OpenFileStore loads the marker file at path, creating an empty store
// when the file does not exist yet
func OpenFileStore(path string) (*FileStore, error) {
	store := &FileStore{
		path:    path,
		markers: make(map[string]Marker),
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return store, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read marker file: %w", err)
	}

	if err := json.Unmarshal(data, &store.markers); err != nil {
		return nil, fmt.Errorf("failed to parse marker file %q: %w", path, err)
	}
	return store, nil
}

func (s *FileStore) Get(prID string) (Marker, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	marker, ok := s.markers[prID]
	return marker, ok
}

func (s *FileStore) Set(prID string, marker Marker) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.markers[prID] = marker
	s.flush()
}

func (s *FileStore) Delete(prID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.markers, prID)
	s.flush()
}

func (s *FileStore) IDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.markers))
	for id := range s.markers {
		ids = append(ids, id)
	}
	return ids
}

// flush writes the marker map out. Called with the write lock held; a
// failed write keeps the in-memory state authoritative for this
// process and is retried on the next mutation.
func (s *FileStore) flush() {
	data, err := json.MarshalIndent(s.markers, "", "  ")
	if err != nil {
		return
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return
	}
	_ = os.WriteFile(s.path, data, 0o644)
}
