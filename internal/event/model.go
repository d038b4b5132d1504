package event

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// User identifies the author of an event or comment
type User struct {
	Login      string `json:"login"`
	Name       string `json:"name,omitempty"`
	ProfileURL string `json:"profile_url,omitempty"`
}

// DisplayName returns the user's display name, falling back to the login
func (u User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	return u.Login
}

// Commit represents a single commit referenced by a push event
type Commit struct {
	ID       string `json:"id"`
	Headline string `json:"headline"`
	URL      string `json:"url,omitempty"`
}

// Comment represents a single comment body, either an issue comment
// or a code review comment anchored to a file
type Comment struct {
	ID      string `json:"id"`
	Body    string `json:"body"`
	FileRef string `json:"file_ref,omitempty"`
	IsReply bool   `json:"is_reply"`
	URL     string `json:"url,omitempty"`
}

// Prefix returns the display prefix derived from the comment's anchor
// and reply status. It is never stored.
func (c Comment) Prefix() string {
	switch {
	case c.FileRef != "" && c.IsReply:
		return fmt.Sprintf("replied on %s:", c.FileRef)
	case c.FileRef != "":
		return fmt.Sprintf("commented on %s:", c.FileRef)
	case c.IsReply:
		return "replied:"
	default:
		return ""
	}
}

// ReviewState represents the outcome of a submitted review
type ReviewState string

const (
	ReviewComment          ReviewState = "comment"
	ReviewApprove          ReviewState = "approve"
	ReviewChangesRequested ReviewState = "changes_requested"
	ReviewDismissed        ReviewState = "dismissed"
)

// Kind discriminates event payload variants
type Kind string

const (
	KindClosed          Kind = "closed"
	KindPushed          Kind = "pushed"
	KindMerged          Kind = "merged"
	KindReview          Kind = "review"
	KindComment         Kind = "comment"
	KindReadyForReview  Kind = "ready_for_review"
	KindRenamedTitle    Kind = "renamed_title"
	KindReopened        Kind = "reopened"
	KindReviewRequested Kind = "review_requested"
	KindConvertToDraft  Kind = "convert_to_draft"
)

// Payload is the closed set of event payload variants. Consumers switch
// exhaustively on Kind; link reports the payload-specific URL or relative
// path used for link resolution, empty when the payload has no anchor
// of its own.
type Payload interface {
	Kind() Kind
	link() string
}

// ClosedPayload marks a pull request as closed without merging
type ClosedPayload struct{}

func (ClosedPayload) Kind() Kind   { return KindClosed }
func (ClosedPayload) link() string { return "" }

// MergedPayload marks a pull request as merged
type MergedPayload struct{}

func (MergedPayload) Kind() Kind   { return KindMerged }
func (MergedPayload) link() string { return "" }

// ReadyForReviewPayload marks a draft promoted to ready
type ReadyForReviewPayload struct{}

func (ReadyForReviewPayload) Kind() Kind   { return KindReadyForReview }
func (ReadyForReviewPayload) link() string { return "" }

// ReopenedPayload marks a closed pull request reopened
type ReopenedPayload struct{}

func (ReopenedPayload) Kind() Kind   { return KindReopened }
func (ReopenedPayload) link() string { return "" }

// ConvertToDraftPayload marks a pull request converted back to draft
type ConvertToDraftPayload struct{}

func (ConvertToDraftPayload) Kind() Kind   { return KindConvertToDraft }
func (ConvertToDraftPayload) link() string { return "" }

// PushedPayload represents one or more commits pushed to the branch.
// IsForce marks a force push; Commits is the accumulated commit run,
// oldest first.
type PushedPayload struct {
	IsForce bool     `json:"is_force"`
	Commits []Commit `json:"commits"`
}

func (PushedPayload) Kind() Kind { return KindPushed }

func (p PushedPayload) link() string {
	if len(p.Commits) == 0 {
		return ""
	}
	return p.Commits[len(p.Commits)-1].URL
}

// ReviewPayload represents a submitted review and its attached comments
type ReviewPayload struct {
	State    ReviewState `json:"state"`
	Comments []Comment   `json:"comments"`
	URL      string      `json:"url,omitempty"`
}

func (ReviewPayload) Kind() Kind     { return KindReview }
func (p ReviewPayload) link() string { return p.URL }

// CommentPayload represents one comment or a merged run of comments by
// the same author, oldest first
type CommentPayload struct {
	Comments []Comment `json:"comments"`
}

func (CommentPayload) Kind() Kind { return KindComment }

func (p CommentPayload) link() string {
	if len(p.Comments) == 0 {
		return ""
	}
	return p.Comments[0].URL
}

// RenamedTitlePayload records a title change
type RenamedTitlePayload struct {
	Previous string `json:"previous"`
	Current  string `json:"current"`
}

func (RenamedTitlePayload) Kind() Kind   { return KindRenamedTitle }
func (RenamedTitlePayload) link() string { return "" }

// ReviewRequestedPayload records a review request
type ReviewRequestedPayload struct {
	Reviewers []string `json:"reviewers"`
}

func (ReviewRequestedPayload) Kind() Kind   { return KindReviewRequested }
func (ReviewRequestedPayload) link() string { return "" }

// Event is one reconciled entry in a pull request's activity log
type Event struct {
	ID             string    `json:"id"`
	Actor          User      `json:"actor"`
	Time           time.Time `json:"time"`
	Payload        Payload   `json:"payload"`
	PullRequestURL string    `json:"pull_request_url"`
}

// ResolvedURL returns the destination for the event: the payload's own
// URL when absolute, the payload's relative path resolved against the
// pull request URL, or the pull request URL itself.
func (e Event) ResolvedURL() string {
	link := ""
	if e.Payload != nil {
		link = e.Payload.link()
	}
	if link == "" {
		return e.PullRequestURL
	}
	parsed, err := url.Parse(link)
	if err != nil {
		return e.PullRequestURL
	}
	if parsed.IsAbs() {
		return link
	}
	base, err := url.Parse(e.PullRequestURL)
	if err != nil || !base.IsAbs() {
		return e.PullRequestURL
	}
	return base.ResolveReference(parsed).String()
}

// Less orders events newest first, breaking timestamp ties by id
// descending so the order is deterministic.
func Less(a, b Event) bool {
	if !a.Time.Equal(b.Time) {
		return a.Time.After(b.Time)
	}
	return strings.Compare(a.ID, b.ID) > 0
}
