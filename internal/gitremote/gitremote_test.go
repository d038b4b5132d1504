package gitremote

import "testing"

func TestSlugFromRemoteURL(t *testing.T) {
	tests := []struct {
		name      string
		remoteURL string
		want      string
		wantOK    bool
	}{
		{"ssh", "git@github.com:octocat/hello.git", "octocat/hello", true},
		{"ssh without suffix", "git@github.com:octocat/hello", "octocat/hello", true},
		{"ssh scheme", "ssh://git@github.com/octocat/hello.git", "octocat/hello", true},
		{"https", "https://github.com/octocat/hello", "octocat/hello", true},
		{"https with suffix", "https://github.com/octocat/hello.git", "octocat/hello", true},
		{"https trailing slash", "https://github.com/octocat/hello/", "octocat/hello", true},
		{"http", "http://github.com/octocat/hello", "octocat/hello", true},
		{"other host", "git@gitlab.com:octocat/hello.git", "", false},
		{"owner only", "https://github.com/octocat", "", false},
		{"extra path segment", "https://github.com/octocat/hello/tree/main", "", false},
		{"empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := SlugFromRemoteURL(tt.remoteURL)
			if ok != tt.wantOK {
				t.Fatalf("SlugFromRemoteURL(%q) ok = %v, want %v", tt.remoteURL, ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("SlugFromRemoteURL(%q) = %q, want %q", tt.remoteURL, got, tt.want)
			}
		})
	}
}

func TestResolveSlug_NotARepository(t *testing.T) {
	if _, err := ResolveSlug(t.TempDir()); err == nil {
		t.Error("ResolveSlug on an empty directory should fail")
	}
}
