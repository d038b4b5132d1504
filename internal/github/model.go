package github

import (
	"strconv"
	"time"
)

// Account identifies a GitHub user as reported by the API
type Account struct {
	Login      string `json:"login"`
	Name       string `json:"name,omitempty"`
	ProfileURL string `json:"profile_url,omitempty"`
}

// DisplayName returns the account's display name, falling back to the
// login
func (a Account) DisplayName() string {
	if a.Name != "" {
		return a.Name
	}
	return a.Login
}

// Notification is one pull-request notification feed entry, reduced to
// the fields the cache needs to decide what to re-fetch
type Notification struct {
	RepoSlug string `json:"repo_slug"` // "owner/name"
	Number   int    `json:"number"`
}

// Viewer is the authenticated user together with the OAuth scopes the
// token was granted, taken from the X-OAuth-Scopes response header
type Viewer struct {
	Login  string   `json:"login"`
	Scopes []string `json:"scopes,omitempty"`
}

// HasScope reports whether the viewer's token carries the given scope
func (v Viewer) HasScope(scope string) bool {
	for _, s := range v.Scopes {
		if s == scope {
			return true
		}
	}
	return false
}

// RecordType discriminates raw timeline records. Only a subset of
// TimelineRecord fields is populated per type.
type RecordType string

const (
	RecordClosed          RecordType = "closed"
	RecordMerged          RecordType = "merged"
	RecordReopened        RecordType = "reopened"
	RecordReadyForReview  RecordType = "ready_for_review"
	RecordConvertToDraft  RecordType = "convert_to_draft"
	RecordForcePush       RecordType = "force_push"
	RecordCommit          RecordType = "commit"
	RecordIssueComment    RecordType = "issue_comment"
	RecordReview          RecordType = "review"
	RecordRenamedTitle    RecordType = "renamed_title"
	RecordReviewRequested RecordType = "review_requested"
)

// TimelineRecord is one raw activity entry for a pull request,
// heterogeneous by Type
type TimelineRecord struct {
	Type  RecordType `json:"type"`
	ID    string     `json:"id"`
	Actor Account    `json:"actor"`
	Time  time.Time  `json:"time"`

	// RecordCommit
	CommitSHA      string `json:"commit_sha,omitempty"`
	CommitHeadline string `json:"commit_headline,omitempty"`
	CommitURL      string `json:"commit_url,omitempty"`

	// RecordIssueComment
	CommentBody string `json:"comment_body,omitempty"`
	CommentURL  string `json:"comment_url,omitempty"`

	// RecordReview
	ReviewState    string          `json:"review_state,omitempty"` // raw upstream value
	ReviewURL      string          `json:"review_url,omitempty"`
	ReviewComments []ThreadComment `json:"review_comments,omitempty"`

	// RecordRenamedTitle
	RenamedFrom string `json:"renamed_from,omitempty"`
	RenamedTo   string `json:"renamed_to,omitempty"`

	// RecordReviewRequested
	Reviewer Account `json:"reviewer,omitempty"`
}

// ThreadComment is one code-review comment belonging to a review thread
type ThreadComment struct {
	ID        string    `json:"id"`
	Author    Account   `json:"author"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
	Path      string    `json:"path,omitempty"`
	Line      int       `json:"line,omitempty"`
	IsReply   bool      `json:"is_reply"`
	URL       string    `json:"url,omitempty"`
	ReviewID  string    `json:"review_id,omitempty"`
}

// FileRef returns the "path:line" anchor string for display, empty when
// the comment is not anchored to a file
func (c ThreadComment) FileRef() string {
	if c.Path == "" {
		return ""
	}
	if c.Line > 0 {
		return c.Path + ":" + strconv.Itoa(c.Line)
	}
	return c.Path
}

// PRGraph is the fully fetched state of one pull request: metadata plus
// a bounded window of timeline records (ascending by time) and review
// thread comments
type PRGraph struct {
	ID                 string           `json:"id"`
	Number             int              `json:"number"`
	Title              string           `json:"title"`
	State              string           `json:"state"` // open, closed
	Merged             bool             `json:"merged"`
	Draft              bool             `json:"draft"`
	Author             Account          `json:"author"`
	RepoSlug           string           `json:"repo_slug"`
	RepoURL            string           `json:"repo_url"`
	URL                string           `json:"url"`
	UpdatedAt          time.Time        `json:"updated_at"`
	Additions          int              `json:"additions"`
	Deletions          int              `json:"deletions"`
	Timeline           []TimelineRecord `json:"timeline"`
	ThreadComments     []ThreadComment  `json:"thread_comments"`
	ApprovedBy         []Account        `json:"approved_by"`
	ChangesRequestedBy []Account        `json:"changes_requested_by"`
}
