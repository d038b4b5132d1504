package unread

import (
	"path/filepath"
	"sort"
	"testing"
	"time"
)

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()

	if _, ok := store.Get("pr1"); ok {
		t.Error("Expected empty store to have no markers")
	}

	marker := Marker{Date: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC), LastSeenEventID: "e1"}
	store.Set("pr1", marker)
	store.Set("pr2", Marker{Date: marker.Date})

	got, ok := store.Get("pr1")
	if !ok || got != marker {
		t.Errorf("Expected %+v, got %+v (ok=%v)", marker, got, ok)
	}

	ids := store.IDs()
	sort.Strings(ids)
	if len(ids) != 2 || ids[0] != "pr1" || ids[1] != "pr2" {
		t.Errorf("Expected ids [pr1 pr2], got %v", ids)
	}

	store.Delete("pr1")
	if _, ok := store.Get("pr1"); ok {
		t.Error("Expected marker removed after Delete")
	}

	// Deleting a missing marker is a no-op.
	store.Delete("pr1")
}

func TestFileStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "markers.json")

	store, err := OpenFileStore(path)
	if err != nil {
		t.Fatalf("OpenFileStore failed: %v", err)
	}

	marker := Marker{Date: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC), LastSeenEventID: "e1"}
	store.Set("pr1", marker)

	reopened, err := OpenFileStore(path)
	if err != nil {
		t.Fatalf("Reopening failed: %v", err)
	}
	got, ok := reopened.Get("pr1")
	if !ok {
		t.Fatal("Expected the marker to survive a reopen")
	}
	if !got.Date.Equal(marker.Date) || got.LastSeenEventID != marker.LastSeenEventID {
		t.Errorf("Expected %+v, got %+v", marker, got)
	}
}

func TestFileStore_MissingFileIsEmpty(t *testing.T) {
	store, err := OpenFileStore(filepath.Join(t.TempDir(), "does", "not", "exist.json"))
	if err != nil {
		t.Fatalf("OpenFileStore failed: %v", err)
	}
	if len(store.IDs()) != 0 {
		t.Errorf("Expected an empty store, got %d markers", len(store.IDs()))
	}
}
