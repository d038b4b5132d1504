package reconcile

import (
	"sort"

	"github.com/pulldeck/pulldeck/internal/event"
	"github.com/pulldeck/pulldeck/internal/github"
)

// BuildPullRequest reconciles one fetched graph into a PullRequest.
// Timeline events and resolved thread comment events are disjoint by
// construction, so the combined log needs no further dedup, only the
// final newest-first sort.
func BuildPullRequest(graph *github.PRGraph) PullRequest {
	timelineEvents, surfaced := BuildTimelineEvents(graph.Timeline, graph.URL)
	threadEvents := ResolveThreadComments(graph.ThreadComments, surfaced, graph.URL)

	log := make([]event.Event, 0, len(timelineEvents)+len(threadEvents))
	log = append(log, timelineEvents...)
	log = append(log, threadEvents...)
	sort.SliceStable(log, func(i, j int) bool {
		return event.Less(log[i], log[j])
	})

	return PullRequest{
		ID:                 graph.ID,
		Repo:               Repository{Name: graph.RepoSlug, URL: graph.RepoURL},
		Author:             toUser(graph.Author),
		Title:              graph.Title,
		Number:             graph.Number,
		Status:             graphStatus(graph),
		LastUpdated:        graph.UpdatedAt,
		Events:             log,
		URL:                graph.URL,
		Additions:          graph.Additions,
		Deletions:          graph.Deletions,
		ApprovedBy:         toUsers(graph.ApprovedBy),
		ChangesRequestedBy: toUsers(graph.ChangesRequestedBy),
	}
}

// graphStatus derives the pull request status from the graph's state
// flags. Merged wins over closed; draft only applies while open.
func graphStatus(graph *github.PRGraph) Status {
	switch {
	case graph.Merged:
		return StatusMerged
	case graph.State == "closed":
		return StatusClosed
	case graph.Draft:
		return StatusDraft
	default:
		return StatusOpen
	}
}

func toUsers(accounts []github.Account) []event.User {
	if len(accounts) == 0 {
		return nil
	}
	users := make([]event.User, 0, len(accounts))
	for _, account := range accounts {
		users = append(users, toUser(account))
	}
	return users
}
