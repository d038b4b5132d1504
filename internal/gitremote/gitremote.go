// Package gitremote resolves a local working copy to its GitHub
// repository slug, so CLI commands can take a filesystem path where a
// "owner/name" is expected.
package gitremote

import (
	"fmt"
	"strings"

	"github.com/go-git/go-git/v6"
)

// ResolveSlug opens the Git repository at path and derives the
// "owner/name" slug from its origin remote URL
func ResolveSlug(path string) (string, error) {
	repo, err := git.PlainOpen(path)
	if err != nil {
		return "", fmt.Errorf("failed to open repository at %q: %w", path, err)
	}

	remote, err := repo.Remote("origin")
	if err != nil {
		return "", fmt.Errorf("failed to find origin remote: %w", err)
	}

	for _, remoteURL := range remote.Config().URLs {
		if slug, ok := SlugFromRemoteURL(remoteURL); ok {
			return slug, nil
		}
	}
	return "", fmt.Errorf("origin remote of %q does not point at a GitHub repository", path)
}

// SlugFromRemoteURL extracts "owner/name" from a GitHub remote URL in
// either SSH (git@github.com:owner/name.git) or HTTPS
// (https://github.com/owner/name) form
func SlugFromRemoteURL(remoteURL string) (string, bool) {
	var rest string
	switch {
	case strings.HasPrefix(remoteURL, "git@github.com:"):
		rest = strings.TrimPrefix(remoteURL, "git@github.com:")
	case strings.HasPrefix(remoteURL, "ssh://git@github.com/"):
		rest = strings.TrimPrefix(remoteURL, "ssh://git@github.com/")
	case strings.HasPrefix(remoteURL, "https://github.com/"):
		rest = strings.TrimPrefix(remoteURL, "https://github.com/")
	case strings.HasPrefix(remoteURL, "http://github.com/"):
		rest = strings.TrimPrefix(remoteURL, "http://github.com/")
	default:
		return "", false
	}

	rest = strings.TrimSuffix(rest, "/")
	rest = strings.TrimSuffix(rest, ".git")

	parts := strings.Split(rest, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", false
	}
	return parts[0] + "/" + parts[1], true
}
