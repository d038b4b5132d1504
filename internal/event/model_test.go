package event

import (
	"testing"
	"time"
)

func TestResolvedURL(t *testing.T) {
	prURL := "https://github.com/octocat/hello/pull/42"

	tests := []struct {
		name    string
		payload Payload
		want    string
	}{
		{
			name:    "payload without anchor falls back to the pull request",
			payload: ClosedPayload{},
			want:    prURL,
		},
		{
			name: "absolute payload url wins",
			payload: ReviewPayload{
				State: ReviewApprove,
				URL:   "https://github.com/octocat/hello/pull/42#pullrequestreview-7",
			},
			want: "https://github.com/octocat/hello/pull/42#pullrequestreview-7",
		},
		{
			name: "relative payload path resolves against the pull request",
			payload: CommentPayload{
				Comments: []Comment{{ID: "c1", Body: "hi", URL: "files#r99"}},
			},
			want: "https://github.com/octocat/hello/pull/files#r99",
		},
		{
			name:    "push links to the newest commit",
			payload: PushedPayload{Commits: []Commit{{ID: "a", URL: "https://github.com/octocat/hello/commit/a"}, {ID: "b", URL: "https://github.com/octocat/hello/commit/b"}}},
			want:    "https://github.com/octocat/hello/commit/b",
		},
		{
			name:    "empty push falls back to the pull request",
			payload: PushedPayload{IsForce: true},
			want:    prURL,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := Event{ID: "e", Payload: tt.payload, PullRequestURL: prURL}
			if got := e.ResolvedURL(); got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestCommentPrefix(t *testing.T) {
	tests := []struct {
		name    string
		comment Comment
		want    string
	}{
		{"reply on file", Comment{FileRef: "main.go:10", IsReply: true}, "replied on main.go:10:"},
		{"comment on file", Comment{FileRef: "main.go:10"}, "commented on main.go:10:"},
		{"bare reply", Comment{IsReply: true}, "replied:"},
		{"bare comment", Comment{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.comment.Prefix(); got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestLess_OrdersNewestFirst(t *testing.T) {
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	newer := Event{ID: "a", Time: base.Add(time.Hour)}
	older := Event{ID: "b", Time: base}

	if !Less(newer, older) {
		t.Error("Expected the newer event to sort first")
	}
	if Less(older, newer) {
		t.Error("Expected the older event to sort last")
	}
}

func TestLess_TieBreaksByIDDescending(t *testing.T) {
	at := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	a := Event{ID: "a", Time: at}
	b := Event{ID: "b", Time: at}

	if !Less(b, a) {
		t.Error("Expected equal timestamps to order by id descending")
	}
	if Less(a, b) {
		t.Error("Expected the lower id to sort last on equal timestamps")
	}
}

func TestUserDisplayName(t *testing.T) {
	if got := (User{Login: "alice", Name: "Alice Q"}).DisplayName(); got != "Alice Q" {
		t.Errorf("Expected display name, got %q", got)
	}
	if got := (User{Login: "alice"}).DisplayName(); got != "alice" {
		t.Errorf("Expected login fallback, got %q", got)
	}
}
