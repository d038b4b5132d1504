// Package unread derives per-pull-request read state from an event
// log and a stored read marker. State is never persisted; it is
// recomputed on every read so it can never go stale relative to the
// log it was derived from.
package unread

import (
	"time"

	"github.com/pulldeck/pulldeck/internal/event"
)

// Marker records when and at what event a user last marked a pull
// request read. Loosely consistent: the event id may reference an
// event since pruned from the log, in which case the date is the
// fallback anchor.
type Marker struct {
	Date            time.Time `json:"date"`
	LastSeenEventID string    `json:"last_seen_event_id,omitempty"`
}

// State is the derived read state of one pull request
type State struct {
	Unread bool
	// OldestUnread is the chronologically earliest unread event,
	// nil when nothing is unread or nothing can be pinpointed.
	OldestUnread *event.Event
}

// Compute derives the read state from the event log (newest first),
// the viewer's login and an optional marker. Events authored by the
// viewer never count as unread.
//
// Two tiers: when the marker's event id is still present in the log it
// is a precise anchor, and everything strictly newer and not the
// viewer's own is unread. When the id is absent (pruned log, marker
// transferred from another device) the marker date is compared against
// the newest non-viewer activity instead.
func Compute(log []event.Event, lastUpdated time.Time, viewerLogin string, marker *Marker) State {
	if marker == nil {
		return State{Unread: true}
	}

	if marker.LastSeenEventID != "" {
		if idx := indexOf(log, marker.LastSeenEventID); idx >= 0 {
			return anchoredState(log[:idx], viewerLogin)
		}
	}

	return dateFallbackState(log, lastUpdated, viewerLogin, marker.Date)
}

// anchoredState computes tier-1 state from the prefix of events
// strictly newer than the marked event
func anchoredState(newer []event.Event, viewerLogin string) State {
	filtered := filterNonViewer(newer, viewerLogin)
	if len(filtered) == 0 {
		return State{Unread: false}
	}
	// Newest first, so the last filtered entry is the oldest unread.
	oldest := filtered[len(filtered)-1]
	return State{Unread: true, OldestUnread: &oldest}
}

// dateFallbackState computes tier-2 state by comparing the marker date
// against the newest non-viewer activity
func dateFallbackState(log []event.Event, lastUpdated time.Time, viewerLogin string, markerDate time.Time) State {
	nonViewer := filterNonViewer(log, viewerLogin)

	comparison := lastUpdated
	if len(nonViewer) > 0 {
		comparison = nonViewer[0].Time
	}

	state := State{Unread: markerDate.Before(comparison)}
	if !state.Unread {
		return state
	}

	// Scan from the oldest end for the earliest event past the marker.
	for i := len(nonViewer) - 1; i >= 0; i-- {
		if nonViewer[i].Time.After(markerDate) {
			oldest := nonViewer[i]
			state.OldestUnread = &oldest
			break
		}
	}
	return state
}

func indexOf(log []event.Event, id string) int {
	for i, e := range log {
		if e.ID == id {
			return i
		}
	}
	return -1
}

func filterNonViewer(log []event.Event, viewerLogin string) []event.Event {
	filtered := make([]event.Event, 0, len(log))
	for _, e := range log {
		if e.Actor.Login != viewerLogin {
			filtered = append(filtered, e)
		}
	}
	return filtered
}
