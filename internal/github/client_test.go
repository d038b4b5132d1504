package github

import (
	"testing"
	"time"
)

func TestParsePullNumber(t *testing.T) {
	tests := []struct {
		name       string
		subjectURL string
		want       int
		wantOK     bool
	}{
		{
			name:       "pull request subject",
			subjectURL: "https://api.github.com/repos/octocat/hello/pulls/42",
			want:       42,
			wantOK:     true,
		},
		{
			name:       "issue subject is rejected",
			subjectURL: "https://api.github.com/repos/octocat/hello/issues/42",
		},
		{
			name:       "trailing slash",
			subjectURL: "https://api.github.com/repos/octocat/hello/pulls/42/",
		},
		{
			name:       "non-numeric tail",
			subjectURL: "https://api.github.com/repos/octocat/hello/pulls/abc",
		},
		{
			name:       "empty",
			subjectURL: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := parsePullNumber(tt.subjectURL)
			if ok != tt.wantOK {
				t.Fatalf("parsePullNumber(%q) ok = %v, want %v", tt.subjectURL, ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("parsePullNumber(%q) = %d, want %d", tt.subjectURL, got, tt.want)
			}
		})
	}
}

func TestSplitSlug(t *testing.T) {
	tests := []struct {
		slug      string
		wantOwner string
		wantName  string
		wantOK    bool
	}{
		{"octocat/hello", "octocat", "hello", true},
		{"octocat/hello/extra", "octocat", "hello/extra", true},
		{"octocat", "", "", false},
		{"/hello", "", "", false},
		{"octocat/", "", "", false},
		{"", "", "", false},
	}

	for _, tt := range tests {
		owner, name, ok := splitSlug(tt.slug)
		if owner != tt.wantOwner || name != tt.wantName || ok != tt.wantOK {
			t.Errorf("splitSlug(%q) = (%q, %q, %v), want (%q, %q, %v)",
				tt.slug, owner, name, ok, tt.wantOwner, tt.wantName, tt.wantOK)
		}
	}
}

func TestMessageHeadline(t *testing.T) {
	tests := []struct {
		message string
		want    string
	}{
		{"fix parser", "fix parser"},
		{"fix parser\n\nlong body here", "fix parser"},
		{"fix parser \nbody", "fix parser"},
		{"\nbody only", ""},
		{"", ""},
	}

	for _, tt := range tests {
		if got := messageHeadline(tt.message); got != tt.want {
			t.Errorf("messageHeadline(%q) = %q, want %q", tt.message, got, tt.want)
		}
	}
}

func TestStateChangeType(t *testing.T) {
	tests := []struct {
		event  string
		want   RecordType
		wantOK bool
	}{
		{"closed", RecordClosed, true},
		{"merged", RecordMerged, true},
		{"reopened", RecordReopened, true},
		{"ready_for_review", RecordReadyForReview, true},
		{"convert_to_draft", RecordConvertToDraft, true},
		{"renamed", RecordRenamedTitle, true},
		{"review_requested", RecordReviewRequested, true},
		{"head_ref_force_pushed", RecordForcePush, true},
		{"labeled", "", false},
		{"commented", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		got, ok := stateChangeType(tt.event)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("stateChangeType(%q) = (%q, %v), want (%q, %v)",
				tt.event, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestSortRecordsByTime(t *testing.T) {
	base := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	records := []TimelineRecord{
		{ID: "c2", Time: base.Add(2 * time.Minute)},
		{ID: "t9", Time: base},
		{ID: "c1", Time: base.Add(2 * time.Minute)},
		{ID: "a0", Time: base.Add(time.Minute)},
	}

	sortRecordsByTime(records)

	want := []string{"t9", "a0", "c1", "c2"}
	for i, id := range want {
		if records[i].ID != id {
			t.Errorf("records[%d].ID = %q, want %q", i, records[i].ID, id)
		}
	}
}

func TestThreadCommentFileRef(t *testing.T) {
	tests := []struct {
		name    string
		comment ThreadComment
		want    string
	}{
		{"path and line", ThreadComment{Path: "main.go", Line: 12}, "main.go:12"},
		{"path only", ThreadComment{Path: "main.go"}, "main.go"},
		{"no path", ThreadComment{Line: 12}, ""},
		{"empty", ThreadComment{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.comment.FileRef(); got != tt.want {
				t.Errorf("FileRef() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAccountDisplayName(t *testing.T) {
	tests := []struct {
		name    string
		account Account
		want    string
	}{
		{"name wins", Account{Login: "octocat", Name: "The Octocat"}, "The Octocat"},
		{"login fallback", Account{Login: "octocat"}, "octocat"},
		{"empty", Account{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.account.DisplayName(); got != tt.want {
				t.Errorf("DisplayName() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestViewerHasScope(t *testing.T) {
	viewer := Viewer{Login: "octocat", Scopes: []string{"repo", "notifications"}}

	if !viewer.HasScope("repo") {
		t.Error("HasScope(repo) = false, want true")
	}
	if viewer.HasScope("admin:org") {
		t.Error("HasScope(admin:org) = true, want false")
	}
	if (Viewer{}).HasScope("repo") {
		t.Error("HasScope on empty viewer = true, want false")
	}
}
