package reconcile

import (
	"github.com/pulldeck/pulldeck/internal/event"
	"github.com/pulldeck/pulldeck/internal/github"
)

// unknownTitle substitutes for a missing title in rename records
const unknownTitle = "Unknown"

// NormalizeRecord maps one raw timeline record to a typed event
// payload. prev is the payload of the immediately preceding retained
// event, used to suppress the duplicate Closed the API emits right
// after a Merged and to absorb commit runs into a single push.
//
// A nil payload means the record is dropped. mergeWithPrevious asks
// the run merger to replace the previous entry instead of appending.
func NormalizeRecord(rec github.TimelineRecord, prev event.Payload) (payload event.Payload, mergeWithPrevious bool) {
	// Records without a stable identity cannot be deduplicated or
	// anchored by a read marker.
	if rec.ID == "" || rec.Time.IsZero() {
		return nil, false
	}

	switch rec.Type {
	case github.RecordClosed:
		if prev != nil && prev.Kind() == event.KindMerged {
			return nil, false
		}
		return event.ClosedPayload{}, false

	case github.RecordMerged:
		return event.MergedPayload{}, false

	case github.RecordReadyForReview:
		return event.ReadyForReviewPayload{}, false

	case github.RecordReopened:
		return event.ReopenedPayload{}, false

	case github.RecordConvertToDraft:
		return event.ConvertToDraftPayload{}, false

	case github.RecordForcePush:
		if pushed, ok := prev.(event.PushedPayload); ok {
			return event.PushedPayload{IsForce: true, Commits: pushed.Commits}, true
		}
		return event.PushedPayload{IsForce: true, Commits: []event.Commit{}}, false

	case github.RecordCommit:
		commit := event.Commit{
			ID:       rec.CommitSHA,
			Headline: rec.CommitHeadline,
			URL:      rec.CommitURL,
		}
		if pushed, ok := prev.(event.PushedPayload); ok {
			commits := make([]event.Commit, 0, len(pushed.Commits)+1)
			commits = append(commits, pushed.Commits...)
			commits = append(commits, commit)
			return event.PushedPayload{IsForce: false, Commits: commits}, true
		}
		return event.PushedPayload{IsForce: false, Commits: []event.Commit{commit}}, false

	case github.RecordIssueComment:
		return event.CommentPayload{
			Comments: []event.Comment{{
				ID:   rec.ID,
				Body: rec.CommentBody,
				URL:  rec.CommentURL,
			}},
		}, false

	case github.RecordReview:
		state, ok := mapReviewState(rec.ReviewState)
		if !ok {
			return nil, false
		}
		return event.ReviewPayload{
			State:    state,
			Comments: mapThreadComments(rec.ReviewComments),
			URL:      rec.ReviewURL,
		}, false

	case github.RecordRenamedTitle:
		previous, current := rec.RenamedFrom, rec.RenamedTo
		if previous == "" {
			previous = unknownTitle
		}
		if current == "" {
			current = unknownTitle
		}
		return event.RenamedTitlePayload{Previous: previous, Current: current}, false

	case github.RecordReviewRequested:
		var reviewers []string
		if name := rec.Reviewer.DisplayName(); name != "" {
			reviewers = append(reviewers, name)
		}
		return event.ReviewRequestedPayload{Reviewers: reviewers}, false

	default:
		return nil, false
	}
}

// mapReviewState maps raw upstream review states to the closed set.
// Pending reviews are unsubmitted and dropped; so is anything the
// upstream schema adds that we do not know how to render.
func mapReviewState(raw string) (event.ReviewState, bool) {
	switch raw {
	case "commented":
		return event.ReviewComment, true
	case "approved":
		return event.ReviewApprove, true
	case "changes_requested":
		return event.ReviewChangesRequested, true
	case "dismissed":
		return event.ReviewDismissed, true
	default:
		return "", false
	}
}

// mapThreadComments converts raw thread comments 1:1 into event comments
func mapThreadComments(comments []github.ThreadComment) []event.Comment {
	if len(comments) == 0 {
		return nil
	}
	out := make([]event.Comment, 0, len(comments))
	for _, tc := range comments {
		out = append(out, event.Comment{
			ID:      tc.ID,
			Body:    tc.Body,
			FileRef: tc.FileRef(),
			IsReply: tc.IsReply,
			URL:     tc.URL,
		})
	}
	return out
}

// BuildTimelineEvents normalizes a raw timeline (ascending by time)
// into a deduplicated event list, and reports the set of review thread
// comment ids already surfaced through Review payloads so the thread
// resolver can skip them.
func BuildTimelineEvents(records []github.TimelineRecord, prURL string) ([]event.Event, map[string]struct{}) {
	entries := make([]event.Entry, 0, len(records))
	surfaced := make(map[string]struct{})

	var prev event.Payload
	for _, rec := range records {
		payload, merge := NormalizeRecord(rec, prev)
		if payload == nil {
			continue
		}
		prev = payload

		if payload.Kind() == event.KindReview {
			for _, tc := range rec.ReviewComments {
				surfaced[tc.ID] = struct{}{}
			}
		}

		entries = append(entries, event.Entry{
			Event: event.Event{
				ID:             rec.ID,
				Actor:          toUser(rec.Actor),
				Time:           rec.Time,
				Payload:        payload,
				PullRequestURL: prURL,
			},
			MergeWithPrevious: merge,
		})
	}

	return event.CollapseRuns(entries), surfaced
}

// toUser converts a transport account to an event user
func toUser(account github.Account) event.User {
	return event.User{
		Login:      account.Login,
		Name:       account.Name,
		ProfileURL: account.ProfileURL,
	}
}
