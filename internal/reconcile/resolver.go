package reconcile

import (
	"sort"
	"strings"
	"time"

	"github.com/pulldeck/pulldeck/internal/event"
	"github.com/pulldeck/pulldeck/internal/github"
)

// commentMergeWindow is the maximum gap between two comments by the
// same author for them to collapse into one composite event
const commentMergeWindow = 300 * time.Second

// commentGroup accumulates a run of mergeable thread comments. The
// base stays the earliest comment of the group and anchors the group's
// identity and author; latest tracks the newest timestamp.
type commentGroup struct {
	base     github.ThreadComment
	comments []event.Comment
	latest   time.Time
}

// canMergeComments reports whether two thread comments belong in the
// same composite event: same author and posted within the merge
// window of each other, in either direction.
func canMergeComments(a, b github.ThreadComment) bool {
	if a.Author.Login != b.Author.Login {
		return false
	}
	delta := a.CreatedAt.Sub(b.CreatedAt)
	if delta < 0 {
		delta = -delta
	}
	return delta < commentMergeWindow
}

// ResolveThreadComments turns review thread comments that were not
// already surfaced through Review payloads into composite comment
// events. Comments are sorted ascending by creation time and folded
// into groups of same-author comments posted within the merge window
// of the group's earliest comment. Each group becomes one event whose
// id derives from the earliest comment and whose time is the latest
// comment's, mirroring the most recent activity while keeping a
// stable identity.
func ResolveThreadComments(comments []github.ThreadComment, surfaced map[string]struct{}, prURL string) []event.Event {
	eligible := make([]github.ThreadComment, 0, len(comments))
	for _, tc := range comments {
		if tc.ID == "" || tc.CreatedAt.IsZero() {
			continue
		}
		if _, ok := surfaced[tc.ID]; ok {
			continue
		}
		if strings.TrimSpace(tc.Body) == "" {
			continue
		}
		eligible = append(eligible, tc)
	}

	sort.SliceStable(eligible, func(i, j int) bool {
		if eligible[i].CreatedAt.Equal(eligible[j].CreatedAt) {
			return eligible[i].ID < eligible[j].ID
		}
		return eligible[i].CreatedAt.Before(eligible[j].CreatedAt)
	})

	var groups []commentGroup
	for _, tc := range eligible {
		if len(groups) > 0 && canMergeComments(tc, groups[len(groups)-1].base) {
			group := &groups[len(groups)-1]
			group.comments = append(group.comments, toComment(tc))
			if tc.CreatedAt.After(group.latest) {
				group.latest = tc.CreatedAt
			}
			continue
		}
		groups = append(groups, commentGroup{
			base:     tc,
			comments: []event.Comment{toComment(tc)},
			latest:   tc.CreatedAt,
		})
	}

	events := make([]event.Event, 0, len(groups))
	for _, group := range groups {
		events = append(events, event.Event{
			ID:             group.base.ID + "-event",
			Actor:          toUser(group.base.Author),
			Time:           group.latest,
			Payload:        event.CommentPayload{Comments: group.comments},
			PullRequestURL: prURL,
		})
	}
	return events
}

// toComment converts a thread comment to its event representation
func toComment(tc github.ThreadComment) event.Comment {
	return event.Comment{
		ID:      tc.ID,
		Body:    tc.Body,
		FileRef: tc.FileRef(),
		IsReply: tc.IsReply,
		URL:     tc.URL,
	}
}
