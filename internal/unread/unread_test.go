package unread

import (
	"testing"
	"time"

	"github.com/pulldeck/pulldeck/internal/event"
)

var baseTime = time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

// at returns a timestamp offset in minutes from the test base
func at(minutes int) time.Time {
	return baseTime.Add(time.Duration(minutes) * time.Minute)
}

// Log used across the calculator tests: E3 by the viewer at 30, E2
// and E1 by another user at 20 and 10, newest first.
func makeLog() []event.Event {
	return []event.Event{
		{ID: "E3", Actor: event.User{Login: "viewer"}, Time: at(30)},
		{ID: "E2", Actor: event.User{Login: "user"}, Time: at(20)},
		{ID: "E1", Actor: event.User{Login: "user"}, Time: at(10)},
	}
}

func TestCompute_NoMarkerIsUnread(t *testing.T) {
	state := Compute(makeLog(), at(30), "viewer", nil)

	if !state.Unread {
		t.Error("Expected no marker to mean unread")
	}
	if state.OldestUnread != nil {
		t.Errorf("Expected no oldest-unread event, got %q", state.OldestUnread.ID)
	}
}

func TestCompute_AnchoredOlderEvent(t *testing.T) {
	state := Compute(makeLog(), at(30), "viewer", &Marker{Date: at(10), LastSeenEventID: "E1"})

	if !state.Unread {
		t.Error("Expected unread with newer non-viewer events past the anchor")
	}
	if state.OldestUnread == nil || state.OldestUnread.ID != "E2" {
		t.Errorf("Expected oldest unread E2, got %+v", state.OldestUnread)
	}
}

func TestCompute_AnchoredNewestEvent(t *testing.T) {
	state := Compute(makeLog(), at(30), "viewer", &Marker{Date: at(30), LastSeenEventID: "E3"})

	if state.Unread {
		t.Error("Expected read when the anchor is the newest event")
	}
	if state.OldestUnread != nil {
		t.Errorf("Expected no oldest-unread event, got %q", state.OldestUnread.ID)
	}
}

func TestCompute_AnchoredViewerEventsDoNotCount(t *testing.T) {
	// Everything newer than E2 is the viewer's own activity.
	state := Compute(makeLog(), at(30), "viewer", &Marker{Date: at(20), LastSeenEventID: "E2"})

	if state.Unread {
		t.Error("Expected viewer-authored events not to count as unread")
	}
}

func TestCompute_DateFallbackRead(t *testing.T) {
	state := Compute(makeLog(), at(30), "viewer", &Marker{Date: at(40), LastSeenEventID: "missing"})

	if state.Unread {
		t.Error("Expected read when the marker date is after the newest non-viewer event")
	}
}

func TestCompute_DateFallbackUnread(t *testing.T) {
	state := Compute(makeLog(), at(30), "viewer", &Marker{Date: at(15), LastSeenEventID: "missing"})

	if !state.Unread {
		t.Error("Expected unread when the marker date precedes non-viewer activity")
	}
	if state.OldestUnread == nil || state.OldestUnread.ID != "E2" {
		t.Errorf("Expected oldest unread E2, got %+v", state.OldestUnread)
	}
}

func TestCompute_DateFallbackWithoutEventID(t *testing.T) {
	state := Compute(makeLog(), at(30), "viewer", &Marker{Date: at(15)})

	if !state.Unread {
		t.Error("Expected a date-only marker to use the fallback tier")
	}
	if state.OldestUnread == nil || state.OldestUnread.ID != "E2" {
		t.Errorf("Expected oldest unread E2, got %+v", state.OldestUnread)
	}
}

func TestCompute_DateFallbackEmptyLogUsesLastUpdated(t *testing.T) {
	state := Compute(nil, at(30), "viewer", &Marker{Date: at(15), LastSeenEventID: "missing"})
	if !state.Unread {
		t.Error("Expected unread when the marker predates the last update")
	}
	if state.OldestUnread != nil {
		t.Error("Expected no oldest-unread event in an empty log")
	}

	state = Compute(nil, at(30), "viewer", &Marker{Date: at(40), LastSeenEventID: "missing"})
	if state.Unread {
		t.Error("Expected read when the marker is newer than the last update")
	}
}

func TestCompute_ViewerOnlyLogFallsBackToLastUpdated(t *testing.T) {
	log := []event.Event{
		{ID: "E1", Actor: event.User{Login: "viewer"}, Time: at(20)},
	}

	state := Compute(log, at(25), "viewer", &Marker{Date: at(10), LastSeenEventID: "missing"})
	if !state.Unread {
		t.Error("Expected the PR's last update to drive the comparison when all events are the viewer's")
	}
	if state.OldestUnread != nil {
		t.Error("Expected no oldest-unread event when all events are the viewer's")
	}
}
