package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/pulldeck/pulldeck/internal/cache"
	"github.com/pulldeck/pulldeck/internal/github"
	"github.com/pulldeck/pulldeck/internal/gitremote"
	"github.com/pulldeck/pulldeck/internal/unread"
)

var (
	retentionWeeks int
	closedOnly     bool
	lookbackWeeks  int
	excludeUsers   []string
	markerFile     string
	verbose        bool
)

func init() {
	defaults := cache.DefaultConfig()
	flags := rootCmd.PersistentFlags()
	flags.IntVar(&retentionWeeks, "retention-weeks", defaults.RetentionWeeks, "Evict pull requests older than this many weeks")
	flags.BoolVar(&closedOnly, "closed-only-retention", defaults.ClosedOnlyRetention, "Only evict closed and merged pull requests")
	flags.IntVar(&lookbackWeeks, "lookback-weeks", defaults.LookbackWeeks, "Notification window on the first poll, in weeks")
	flags.StringArrayVar(&excludeUsers, "exclude-user", nil, "Hide pull requests authored by this login (repeatable)")
	flags.StringVar(&markerFile, "markers", "", "Read-marker file (default ~/.pulldeck/markers.json)")
	flags.BoolVar(&verbose, "verbose", false, "Enable debug logging")
}

// newEngine wires the activity cache to the GitHub transport and the
// read-marker file using the persistent flags
func newEngine() (*cache.ActivityCache, error) {
	token := os.Getenv("GITHUB_TOKEN")
	if token == "" {
		return nil, fmt.Errorf("GITHUB_TOKEN is not set")
	}

	logger := zap.NewNop()
	if verbose {
		var err error
		logger, err = zap.NewDevelopment()
		if err != nil {
			return nil, fmt.Errorf("failed to build logger: %w", err)
		}
	}

	markers, err := openMarkerStore()
	if err != nil {
		return nil, err
	}

	cfg := cache.Config{
		RetentionWeeks:      retentionWeeks,
		ClosedOnlyRetention: closedOnly,
		LookbackWeeks:       lookbackWeeks,
		ExcludedUsers:       cache.NewUserSet(excludeUsers),
	}

	return cache.New(cfg, github.NewClient(token), markers, logger), nil
}

func openMarkerStore() (unread.Store, error) {
	path := markerFile
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to locate home directory: %w", err)
		}
		path = filepath.Join(home, ".pulldeck", "markers.json")
	}

	store, err := unread.OpenFileStore(path)
	if err != nil {
		return nil, err
	}
	return store, nil
}

// resolveRepoFilter turns the --repo argument into an "owner/name"
// slug. A value containing a path separator or naming an existing
// directory is treated as a local working copy and resolved through
// its origin remote.
func resolveRepoFilter(arg string) (string, error) {
	if arg == "" {
		return "", nil
	}
	if info, err := os.Stat(arg); err == nil && info.IsDir() {
		return gitremote.ResolveSlug(arg)
	}
	if strings.Count(arg, "/") == 1 && !strings.HasPrefix(arg, ".") {
		return arg, nil
	}
	return gitremote.ResolveSlug(arg)
}

var prRefPattern = regexp.MustCompile(`^([^/\s]+/[^/#\s]+)#(\d+)$`)

// parsePullRef parses a pull request reference in either
// "owner/name#123" or "https://github.com/owner/name/pull/123" form
func parsePullRef(ref string) (slug string, number int, err error) {
	if m := prRefPattern.FindStringSubmatch(ref); m != nil {
		number, err = strconv.Atoi(m[2])
		if err != nil || number <= 0 {
			return "", 0, fmt.Errorf("invalid pull request number in %q", ref)
		}
		return m[1], number, nil
	}

	for _, prefix := range []string{"https://github.com/", "http://github.com/"} {
		if !strings.HasPrefix(ref, prefix) {
			continue
		}
		parts := strings.Split(strings.TrimPrefix(ref, prefix), "/")
		if len(parts) < 4 || parts[2] != "pull" {
			break
		}
		number, err = strconv.Atoi(parts[3])
		if err != nil || number <= 0 {
			return "", 0, fmt.Errorf("invalid pull request number in %q", ref)
		}
		return parts[0] + "/" + parts[1], number, nil
	}

	return "", 0, fmt.Errorf("cannot parse pull request reference %q (want owner/name#123 or a pull request URL)", ref)
}
