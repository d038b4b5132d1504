package github

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/go-github/v77/github"
)

// Default bounds on how much history is fetched per pull request. The
// reconciled log only ever needs the recent window.
const (
	DefaultTimelineWindow = 150
	DefaultThreadWindow   = 100
)

// Client wraps the GitHub REST API behind the logical operations the
// activity cache consumes: notification listing, pull-request graph
// fetching and viewer identity.
type Client struct {
	gh *github.Client

	// TimelineWindow bounds the number of most recent timeline
	// records kept per pull request; ThreadWindow bounds review
	// thread comments the same way.
	TimelineWindow int
	ThreadWindow   int
}

// NewClient creates an authenticated API client
// token: GitHub personal access token
func NewClient(token string) *Client {
	return &Client{
		gh:             github.NewClient(nil).WithAuthToken(token),
		TimelineWindow: DefaultTimelineWindow,
		ThreadWindow:   DefaultThreadWindow,
	}
}

// ListPullRequestNotifications lists pull-request notifications updated
// since the given instant, following pagination until exhausted.
// Notifications without a parsable pull request number are skipped.
func (c *Client) ListPullRequestNotifications(ctx context.Context, since time.Time) ([]Notification, error) {
	var all []Notification

	opts := &github.NotificationListOptions{
		Since:       since,
		ListOptions: github.ListOptions{PerPage: 50},
	}

	for {
		notifications, resp, err := c.gh.Activity.ListNotifications(ctx, opts)
		if err != nil {
			return nil, classifyError(err, "list notifications", resp)
		}

		for _, n := range notifications {
			if n == nil || n.GetSubject().GetType() != "PullRequest" {
				continue
			}
			number, ok := parsePullNumber(n.GetSubject().GetURL())
			if !ok {
				continue
			}
			slug := n.GetRepository().GetFullName()
			if slug == "" {
				continue
			}
			all = append(all, Notification{RepoSlug: slug, Number: number})
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return all, nil
}

// FetchViewer fetches the authenticated user's identity and the OAuth
// scopes granted to the token
func (c *Client) FetchViewer(ctx context.Context) (Viewer, error) {
	user, resp, err := c.gh.Users.Get(ctx, "")
	if err != nil {
		return Viewer{}, classifyError(err, "fetch viewer", resp)
	}

	return Viewer{
		Login:  user.GetLogin(),
		Scopes: splitScopeHeader(resp.Header.Get("X-OAuth-Scopes")),
	}, nil
}

// FetchPullRequestGraphs batch-fetches full pull request graphs for the
// given repo slug -> pull numbers query, along with the viewer identity.
// A failure on any pull request aborts the batch.
func (c *Client) FetchPullRequestGraphs(ctx context.Context, query map[string][]int) (map[string]map[int]*PRGraph, Viewer, error) {
	viewer, err := c.FetchViewer(ctx)
	if err != nil {
		return nil, Viewer{}, err
	}

	result := make(map[string]map[int]*PRGraph, len(query))
	for slug, numbers := range query {
		owner, repo, ok := splitSlug(slug)
		if !ok {
			return nil, Viewer{}, &ParseError{Op: "fetch graphs", Err: fmt.Errorf("invalid repo slug %q", slug)}
		}

		byNumber := make(map[int]*PRGraph, len(numbers))
		for _, number := range numbers {
			graph, err := c.fetchPullRequestGraph(ctx, owner, repo, number)
			if err != nil {
				return nil, Viewer{}, err
			}
			byNumber[number] = graph
		}
		result[slug] = byNumber
	}

	return result, viewer, nil
}

// fetchPullRequestGraph assembles one PRGraph from the REST endpoints:
// pull request metadata, reviews with their thread comments, issue
// comments, commits, and the remaining timeline state changes
func (c *Client) fetchPullRequestGraph(ctx context.Context, owner, repo string, number int) (*PRGraph, error) {
	op := fmt.Sprintf("fetch pull request %s/%s#%d", owner, repo, number)

	pr, resp, err := c.gh.PullRequests.Get(ctx, owner, repo, number)
	if err != nil {
		return nil, classifyError(err, op, resp)
	}

	graph := &PRGraph{
		ID:        pr.GetNodeID(),
		Number:    pr.GetNumber(),
		Title:     pr.GetTitle(),
		State:     pr.GetState(),
		Merged:    pr.GetMerged(),
		Draft:     pr.GetDraft(),
		Author:    parseAccount(pr.GetUser()),
		RepoSlug:  owner + "/" + repo,
		RepoURL:   pr.GetBase().GetRepo().GetHTMLURL(),
		URL:       pr.GetHTMLURL(),
		UpdatedAt: pr.GetUpdatedAt().Time,
		Additions: pr.GetAdditions(),
		Deletions: pr.GetDeletions(),
	}
	if graph.ID == "" {
		graph.ID = strconv.FormatInt(pr.GetID(), 10)
	}
	if graph.RepoURL == "" {
		graph.RepoURL = "https://github.com/" + graph.RepoSlug
	}

	threadComments, err := c.listThreadComments(ctx, owner, repo, number)
	if err != nil {
		return nil, err
	}
	commentsByReview := make(map[string][]ThreadComment)
	for _, tc := range threadComments {
		if tc.ReviewID != "" {
			commentsByReview[tc.ReviewID] = append(commentsByReview[tc.ReviewID], tc)
		}
	}

	var records []TimelineRecord

	reviews, err := c.listReviewRecords(ctx, owner, repo, number, commentsByReview, graph)
	if err != nil {
		return nil, err
	}
	records = append(records, reviews...)

	comments, err := c.listCommentRecords(ctx, owner, repo, number)
	if err != nil {
		return nil, err
	}
	records = append(records, comments...)

	commits, err := c.listCommitRecords(ctx, owner, repo, number)
	if err != nil {
		return nil, err
	}
	records = append(records, commits...)

	stateChanges, err := c.listStateChangeRecords(ctx, owner, repo, number)
	if err != nil {
		return nil, err
	}
	records = append(records, stateChanges...)

	sortRecordsByTime(records)
	if len(records) > c.TimelineWindow {
		records = records[len(records)-c.TimelineWindow:]
	}
	graph.Timeline = records

	if len(threadComments) > c.ThreadWindow {
		threadComments = threadComments[len(threadComments)-c.ThreadWindow:]
	}
	graph.ThreadComments = threadComments

	return graph, nil
}

// listThreadComments fetches all review thread comments with pagination,
// sorted by creation time
func (c *Client) listThreadComments(ctx context.Context, owner, repo string, number int) ([]ThreadComment, error) {
	var all []ThreadComment

	opts := &github.PullRequestListCommentsOptions{
		ListOptions: github.ListOptions{PerPage: 100},
	}

	for {
		comments, resp, err := c.gh.PullRequests.ListComments(ctx, owner, repo, number, opts)
		if err != nil {
			return nil, classifyError(err, "list review comments", resp)
		}

		for _, comment := range comments {
			if comment == nil || comment.GetID() == 0 {
				continue
			}
			tc := ThreadComment{
				ID:        "rc" + strconv.FormatInt(comment.GetID(), 10),
				Author:    parseAccount(comment.GetUser()),
				Body:      comment.GetBody(),
				CreatedAt: comment.GetCreatedAt().Time,
				Path:      comment.GetPath(),
				Line:      comment.GetLine(),
				IsReply:   comment.GetInReplyTo() != 0,
				URL:       comment.GetHTMLURL(),
			}
			if id := comment.GetPullRequestReviewID(); id != 0 {
				tc.ReviewID = "r" + strconv.FormatInt(id, 10)
			}
			all = append(all, tc)
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	sort.SliceStable(all, func(i, j int) bool {
		return all[i].CreatedAt.Before(all[j].CreatedAt)
	})
	return all, nil
}

// listReviewRecords fetches submitted reviews, attaches their thread
// comments, and fills the graph's per-reviewer opinion lists from the
// latest opinionated review of each reviewer
func (c *Client) listReviewRecords(ctx context.Context, owner, repo string, number int, commentsByReview map[string][]ThreadComment, graph *PRGraph) ([]TimelineRecord, error) {
	var records []TimelineRecord

	opts := &github.ListOptions{PerPage: 100}
	opinion := make(map[string]string)
	accounts := make(map[string]Account)

	for {
		reviews, resp, err := c.gh.PullRequests.ListReviews(ctx, owner, repo, number, opts)
		if err != nil {
			return nil, classifyError(err, "list reviews", resp)
		}

		for _, review := range reviews {
			if review == nil || review.GetID() == 0 {
				continue
			}
			id := "r" + strconv.FormatInt(review.GetID(), 10)
			state := strings.ToLower(review.GetState())
			author := parseAccount(review.GetUser())

			records = append(records, TimelineRecord{
				Type:           RecordReview,
				ID:             id,
				Actor:          author,
				Time:           review.GetSubmittedAt().Time,
				ReviewState:    state,
				ReviewURL:      review.GetHTMLURL(),
				ReviewComments: commentsByReview[id],
			})

			if author.Login == "" {
				continue
			}
			accounts[author.Login] = author
			switch state {
			case "approved", "changes_requested":
				opinion[author.Login] = state
			case "dismissed":
				delete(opinion, author.Login)
			}
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	for login, state := range opinion {
		switch state {
		case "approved":
			graph.ApprovedBy = append(graph.ApprovedBy, accounts[login])
		case "changes_requested":
			graph.ChangesRequestedBy = append(graph.ChangesRequestedBy, accounts[login])
		}
	}
	sortAccounts(graph.ApprovedBy)
	sortAccounts(graph.ChangesRequestedBy)

	return records, nil
}

// listCommentRecords fetches issue comments as timeline records
func (c *Client) listCommentRecords(ctx context.Context, owner, repo string, number int) ([]TimelineRecord, error) {
	var records []TimelineRecord

	opts := &github.IssueListCommentsOptions{
		ListOptions: github.ListOptions{PerPage: 100},
	}

	for {
		comments, resp, err := c.gh.Issues.ListComments(ctx, owner, repo, number, opts)
		if err != nil {
			return nil, classifyError(err, "list comments", resp)
		}

		for _, comment := range comments {
			if comment == nil || comment.GetID() == 0 {
				continue
			}
			records = append(records, TimelineRecord{
				Type:        RecordIssueComment,
				ID:          "c" + strconv.FormatInt(comment.GetID(), 10),
				Actor:       parseAccount(comment.GetUser()),
				Time:        comment.GetCreatedAt().Time,
				CommentBody: comment.GetBody(),
				CommentURL:  comment.GetHTMLURL(),
			})
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return records, nil
}

// listCommitRecords fetches the pull request's commits as timeline records
func (c *Client) listCommitRecords(ctx context.Context, owner, repo string, number int) ([]TimelineRecord, error) {
	var records []TimelineRecord

	opts := &github.ListOptions{PerPage: 100}

	for {
		commits, resp, err := c.gh.PullRequests.ListCommits(ctx, owner, repo, number, opts)
		if err != nil {
			return nil, classifyError(err, "list commits", resp)
		}

		for _, commit := range commits {
			if commit == nil || commit.GetSHA() == "" {
				continue
			}
			actor := parseAccount(commit.GetAuthor())
			if actor.Login == "" && actor.Name == "" {
				actor.Name = commit.GetCommit().GetAuthor().GetName()
			}
			records = append(records, TimelineRecord{
				Type:           RecordCommit,
				ID:             commit.GetSHA(),
				Actor:          actor,
				Time:           commit.GetCommit().GetAuthor().GetDate().Time,
				CommitSHA:      commit.GetSHA(),
				CommitHeadline: messageHeadline(commit.GetCommit().GetMessage()),
				CommitURL:      commit.GetHTMLURL(),
			})
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return records, nil
}

// listStateChangeRecords fetches the remaining timeline events: status
// changes, renames, review requests and force pushes. Commits, comments
// and reviews come from their dedicated endpoints and are skipped here.
func (c *Client) listStateChangeRecords(ctx context.Context, owner, repo string, number int) ([]TimelineRecord, error) {
	var records []TimelineRecord

	opts := &github.ListOptions{PerPage: 100}

	for {
		events, resp, err := c.gh.Issues.ListIssueTimeline(ctx, owner, repo, number, opts)
		if err != nil {
			return nil, classifyError(err, "list timeline", resp)
		}

		for _, ev := range events {
			if ev == nil || ev.GetID() == 0 {
				continue
			}
			recordType, ok := stateChangeType(ev.GetEvent())
			if !ok {
				continue
			}
			record := TimelineRecord{
				Type:  recordType,
				ID:    "t" + strconv.FormatInt(ev.GetID(), 10),
				Actor: parseAccount(ev.GetActor()),
				Time:  ev.GetCreatedAt().Time,
			}
			switch recordType {
			case RecordRenamedTitle:
				record.RenamedFrom = ev.GetRename().GetFrom()
				record.RenamedTo = ev.GetRename().GetTo()
			case RecordReviewRequested:
				record.Reviewer = parseAccount(ev.GetReviewer())
			}
			records = append(records, record)
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return records, nil
}

// stateChangeType maps an upstream timeline event name to a record type
func stateChangeType(event string) (RecordType, bool) {
	switch event {
	case "closed":
		return RecordClosed, true
	case "merged":
		return RecordMerged, true
	case "reopened":
		return RecordReopened, true
	case "ready_for_review":
		return RecordReadyForReview, true
	case "convert_to_draft":
		return RecordConvertToDraft, true
	case "renamed":
		return RecordRenamedTitle, true
	case "review_requested":
		return RecordReviewRequested, true
	case "head_ref_force_pushed":
		return RecordForcePush, true
	default:
		return "", false
	}
}

// parseAccount converts a go-github User to an Account
func parseAccount(user *github.User) Account {
	if user == nil {
		return Account{}
	}
	return Account{
		Login:      user.GetLogin(),
		Name:       user.GetName(),
		ProfileURL: user.GetHTMLURL(),
	}
}

// parsePullNumber extracts the pull request number from a notification
// subject API URL such as ".../repos/owner/name/pulls/123"
func parsePullNumber(subjectURL string) (int, bool) {
	idx := strings.LastIndex(subjectURL, "/")
	if idx < 0 || idx == len(subjectURL)-1 {
		return 0, false
	}
	if !strings.Contains(subjectURL, "/pulls/") {
		return 0, false
	}
	number, err := strconv.Atoi(subjectURL[idx+1:])
	if err != nil || number <= 0 {
		return 0, false
	}
	return number, true
}

// splitSlug splits "owner/name" into its parts
func splitSlug(slug string) (owner, name string, ok bool) {
	parts := strings.SplitN(slug, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}
	return parts[0], parts[1], true
}

// messageHeadline returns the first line of a commit message
func messageHeadline(message string) string {
	if idx := strings.IndexByte(message, '\n'); idx >= 0 {
		return strings.TrimSpace(message[:idx])
	}
	return strings.TrimSpace(message)
}

// sortRecordsByTime sorts records by time ascending, then ID for a
// deterministic order on equal timestamps
func sortRecordsByTime(records []TimelineRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].Time.Equal(records[j].Time) {
			return records[i].ID < records[j].ID
		}
		return records[i].Time.Before(records[j].Time)
	})
}

// sortAccounts orders accounts by login for stable output
func sortAccounts(accounts []Account) {
	sort.Slice(accounts, func(i, j int) bool {
		return accounts[i].Login < accounts[j].Login
	})
}
