package reconcile

import (
	"time"

	"github.com/pulldeck/pulldeck/internal/event"
)

// Status represents the lifecycle state of a pull request
type Status string

const (
	StatusOpen   Status = "open"
	StatusClosed Status = "closed"
	StatusMerged Status = "merged"
	StatusDraft  Status = "draft"
)

// Closed reports whether the status is terminal
func (s Status) Closed() bool {
	return s == StatusClosed || s == StatusMerged
}

// Repository identifies the repository a pull request belongs to
type Repository struct {
	Name string `json:"name"` // "owner/name"
	URL  string `json:"url"`
}

// PullRequest is one reconciled pull request: metadata plus the
// deduplicated event log, sorted newest first with unique ids.
// A PullRequest is replaced wholesale on every successful fetch,
// never mutated field by field.
type PullRequest struct {
	ID                 string        `json:"id"`
	Repo               Repository    `json:"repo"`
	Author             event.User    `json:"author"`
	Title              string        `json:"title"`
	Number             int           `json:"number"`
	Status             Status        `json:"status"`
	LastUpdated        time.Time     `json:"last_updated"`
	Events             []event.Event `json:"events"`
	URL                string        `json:"url"`
	Additions          int           `json:"additions"`
	Deletions          int           `json:"deletions"`
	ApprovedBy         []event.User  `json:"approved_by"`
	ChangesRequestedBy []event.User  `json:"changes_requested_by"`
}

// LastNonViewerUpdated returns the time of the newest event not
// authored by the viewer, falling back to LastUpdated when every event
// is the viewer's own. Always derived from the current log.
func (pr PullRequest) LastNonViewerUpdated(viewerLogin string) time.Time {
	for _, e := range pr.Events {
		if e.Actor.Login != viewerLogin {
			return e.Time
		}
	}
	return pr.LastUpdated
}

// NewestEventID returns the id of the newest event in the log, empty
// when the log is empty
func (pr PullRequest) NewestEventID() string {
	if len(pr.Events) == 0 {
		return ""
	}
	return pr.Events[0].ID
}
