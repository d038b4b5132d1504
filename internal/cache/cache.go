package cache

import (
	"context"
	"errors"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/pulldeck/pulldeck/internal/github"
	"github.com/pulldeck/pulldeck/internal/reconcile"
	"github.com/pulldeck/pulldeck/internal/unread"
)

// Common errors for cache operations
var (
	ErrRefreshInFlight     = errors.New("a refresh is already in flight")
	ErrUnknownPullRequest  = errors.New("pull request is not in the cache")
	ErrNoSuccessfulPollYet = errors.New("no successful poll has completed yet")
)

// Fetcher is the transport the cache polls through. *github.Client
// satisfies it; tests substitute a mock.
type Fetcher interface {
	ListPullRequestNotifications(ctx context.Context, since time.Time) ([]github.Notification, error)
	FetchPullRequestGraphs(ctx context.Context, query map[string][]int) (map[string]map[int]*github.PRGraph, github.Viewer, error)
}

// Ensure the real client satisfies the Fetcher interface
var _ Fetcher = (*github.Client)(nil)

// Snapshot is one pull request as exposed to renderers: the reconciled
// data plus state derived at read time
type Snapshot struct {
	PullRequest          reconcile.PullRequest
	Unread               unread.State
	LastNonViewerUpdated time.Time
}

// ListOptions filters the read model
type ListOptions struct {
	IncludeClosed bool
	UnreadOnly    bool
	// RepoSlug restricts the listing to one "owner/name" when set.
	RepoSlug string
}

// ActivityCache owns the in-memory map of reconciled pull requests and
// orchestrates refresh cycles against the notification feed. All map
// mutations happen inside Refresh or the explicit read-marker
// operations; Refresh itself is guarded against re-entry.
type ActivityCache struct {
	cfg     Config
	fetcher Fetcher
	markers unread.Store
	log     *zap.Logger
	now     func() time.Time

	refreshing atomic.Bool

	mu       sync.RWMutex
	prs      map[string]reconcile.PullRequest
	viewer   github.Viewer
	lastPoll time.Time
	lastErr  error
}

// New creates an empty cache
func New(cfg Config, fetcher Fetcher, markers unread.Store, logger *zap.Logger) *ActivityCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ActivityCache{
		cfg:     cfg,
		fetcher: fetcher,
		markers: markers,
		log:     logger,
		now:     time.Now,
		prs:     make(map[string]reconcile.PullRequest),
	}
}

// Refresh runs one poll cycle: list notifications since the last
// successful poll, re-fetch the touched pull requests, independently
// re-fetch every cached pull request the feed did not mention, then
// apply retention. The poll timestamp only advances when the whole
// cycle completes without a fatal error, so a failed cycle retries the
// same window. Upserts applied before a mid-cycle failure stay in the
// cache.
//
// Returns ErrRefreshInFlight when called while another refresh is
// running; callers may treat that as a no-op.
func (c *ActivityCache) Refresh(ctx context.Context) error {
	if !c.refreshing.CompareAndSwap(false, true) {
		return ErrRefreshInFlight
	}
	defer c.refreshing.Store(false)

	started := c.now()
	since := c.pollWindowStart(started)

	err := c.runCycle(ctx, since)

	c.mu.Lock()
	c.lastErr = err
	if err == nil {
		c.lastPoll = started
	}
	c.mu.Unlock()

	if err != nil {
		c.log.Warn("refresh failed", zap.Error(err), zap.Time("window_start", since))
		return err
	}

	c.mu.RLock()
	size := len(c.prs)
	c.mu.RUnlock()
	c.log.Info("refresh complete",
		zap.Int("pull_requests", size),
		zap.Duration("took", c.now().Sub(started)))
	return nil
}

func (c *ActivityCache) runCycle(ctx context.Context, since time.Time) error {
	notifications, err := c.fetcher.ListPullRequestNotifications(ctx, since)
	if err != nil {
		return err
	}

	query := groupNotifications(notifications)

	// Fetch one repository at a time so a failure mid-cycle keeps
	// the upserts already applied for earlier repositories.
	touched := make(map[string]struct{})
	for slug, numbers := range query {
		if err := c.fetchAndUpsert(ctx, slug, numbers, touched); err != nil {
			return err
		}
	}

	// Re-fetch cached pull requests the feed did not mention, to
	// catch activity notifications never surface, such as the
	// viewer's own actions.
	for slug, numbers := range c.untouchedPRs(touched) {
		if err := c.fetchAndUpsert(ctx, slug, numbers, touched); err != nil {
			return err
		}
	}

	c.applyRetention()
	return nil
}

// fetchAndUpsert fetches the graphs for one repository and replaces
// the cached entries wholesale
func (c *ActivityCache) fetchAndUpsert(ctx context.Context, slug string, numbers []int, touched map[string]struct{}) error {
	graphs, viewer, err := c.fetcher.FetchPullRequestGraphs(ctx, map[string][]int{slug: numbers})
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.viewer = viewer
	for _, byNumber := range graphs {
		for _, graph := range byNumber {
			if graph == nil {
				continue
			}
			pr := reconcile.BuildPullRequest(graph)
			c.prs[pr.ID] = pr
			touched[pr.ID] = struct{}{}
		}
	}
	return nil
}

// untouchedPRs groups the cached pull requests this cycle has not
// re-fetched yet into a repo -> numbers query
func (c *ActivityCache) untouchedPRs(touched map[string]struct{}) map[string][]int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	query := make(map[string][]int)
	for id, pr := range c.prs {
		if _, ok := touched[id]; ok {
			continue
		}
		query[pr.Repo.Name] = append(query[pr.Repo.Name], pr.Number)
	}
	return query
}

// applyRetention evicts pull requests past the retention window and
// prunes markers that no longer reference a cached pull request
func (c *ActivityCache) applyRetention() {
	cutoff := c.now().AddDate(0, 0, -7*c.cfg.RetentionWeeks)

	c.mu.Lock()
	for id, pr := range c.prs {
		if !pr.LastUpdated.Before(cutoff) {
			continue
		}
		if pr.Status.Closed() || !c.cfg.ClosedOnlyRetention {
			delete(c.prs, id)
			c.log.Debug("evicted pull request",
				zap.String("id", id),
				zap.String("repo", pr.Repo.Name),
				zap.Int("number", pr.Number))
		}
	}
	c.mu.Unlock()

	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, id := range c.markers.IDs() {
		if _, ok := c.prs[id]; !ok {
			c.markers.Delete(id)
		}
	}
}

// pollWindowStart returns the start of the notification window: the
// last successful poll, or the configured lookback on a cold start
func (c *ActivityCache) pollWindowStart(now time.Time) time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.lastPoll.IsZero() {
		return c.lastPoll
	}
	return now.AddDate(0, 0, -7*c.cfg.LookbackWeeks)
}

// groupNotifications deduplicates notifications into a repo -> pull
// numbers query
func groupNotifications(notifications []github.Notification) map[string][]int {
	seen := make(map[string]map[int]struct{})
	for _, n := range notifications {
		if n.RepoSlug == "" || n.Number <= 0 {
			continue
		}
		if seen[n.RepoSlug] == nil {
			seen[n.RepoSlug] = make(map[int]struct{})
		}
		seen[n.RepoSlug][n.Number] = struct{}{}
	}

	query := make(map[string][]int, len(seen))
	for slug, numbers := range seen {
		list := make([]int, 0, len(numbers))
		for number := range numbers {
			list = append(list, number)
		}
		sort.Ints(list)
		query[slug] = list
	}
	return query
}

// List returns the filtered read model, sorted by last update, newest
// first. Unread state is derived here, on every call.
func (c *ActivityCache) List(opts ListOptions) []Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	snapshots := make([]Snapshot, 0, len(c.prs))
	for id, pr := range c.prs {
		if c.cfg.ExcludedUsers.Contains(pr.Author.Login) {
			continue
		}
		if !opts.IncludeClosed && pr.Status.Closed() {
			continue
		}
		if opts.RepoSlug != "" && pr.Repo.Name != opts.RepoSlug {
			continue
		}

		var marker *unread.Marker
		if m, ok := c.markers.Get(id); ok {
			marker = &m
		}
		state := unread.Compute(pr.Events, pr.LastUpdated, c.viewer.Login, marker)
		if opts.UnreadOnly && !state.Unread {
			continue
		}

		snapshots = append(snapshots, Snapshot{
			PullRequest:          pr,
			Unread:               state,
			LastNonViewerUpdated: pr.LastNonViewerUpdated(c.viewer.Login),
		})
	}

	sort.SliceStable(snapshots, func(i, j int) bool {
		a, b := snapshots[i].PullRequest, snapshots[j].PullRequest
		if !a.LastUpdated.Equal(b.LastUpdated) {
			return a.LastUpdated.After(b.LastUpdated)
		}
		return a.ID < b.ID
	})
	return snapshots
}

// Viewer returns the identity from the most recent graph fetch
func (c *ActivityCache) Viewer() github.Viewer {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.viewer
}

// LastError returns the error of the most recent refresh, nil after a
// clean cycle. A non-nil value means the read model is stale but
// still usable.
func (c *ActivityCache) LastError() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastErr
}

// LastPolled returns the timestamp of the last clean refresh
func (c *ActivityCache) LastPolled() (time.Time, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.lastPoll.IsZero() {
		return time.Time{}, ErrNoSuccessfulPollYet
	}
	return c.lastPoll, nil
}

// Find looks up a cached pull request by "owner/name" and number
func (c *ActivityCache) Find(repoSlug string, number int) (reconcile.PullRequest, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, pr := range c.prs {
		if pr.Repo.Name == repoSlug && pr.Number == number {
			return pr, true
		}
	}
	return reconcile.PullRequest{}, false
}

// SetRead marks one pull request read or unread. Marking read anchors
// the marker at the newest event; marking unread removes the marker
// entirely, since no marker means unread.
func (c *ActivityCache) SetRead(prID string, read bool) error {
	if !read {
		c.markers.Delete(prID)
		return nil
	}

	c.mu.RLock()
	pr, ok := c.prs[prID]
	c.mu.RUnlock()
	if !ok {
		return ErrUnknownPullRequest
	}

	c.markers.Set(prID, unread.Marker{
		Date:            c.now(),
		LastSeenEventID: pr.NewestEventID(),
	})
	return nil
}

// MarkAllRead marks every cached pull request read
func (c *ActivityCache) MarkAllRead() {
	c.mu.RLock()
	ids := make([]string, 0, len(c.prs))
	for id := range c.prs {
		ids = append(ids, id)
	}
	c.mu.RUnlock()

	for _, id := range ids {
		// Ignore entries evicted between the snapshot and now.
		_ = c.SetRead(id, true)
	}
}
