package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/pulldeck/pulldeck/internal/cache"
	"github.com/pulldeck/pulldeck/internal/reconcile"
)

func renderBoard(snapshots []cache.Snapshot) {
	var (
		headerColor = lipgloss.Color("#F780FF") // Bright pink/magenta
		repoColor   = lipgloss.Color("#BD93F9") // Purple
		numberColor = lipgloss.Color("#FF79C6") // Pink
		titleColor  = lipgloss.Color("#E9E9F4") // Light purple/white
		borderColor = lipgloss.Color("#6272A4") // Muted purple
		unreadColor = lipgloss.Color("#8BE9FD") // Cyan accent
		mergedColor = lipgloss.Color("#BD93F9")
		closedColor = lipgloss.Color("#FF5555")
		openColor   = lipgloss.Color("#50FA7B")
		draftColor  = lipgloss.Color("#6272A4")
	)

	const (
		repoWidth    = 26
		numberWidth  = 7
		titleWidth   = 44
		statusWidth  = 8
		unreadWidth  = 8
		updatedWidth = 14
	)

	headerStyle := lipgloss.NewStyle().
		Foreground(headerColor).
		Bold(true).
		Padding(0, 1)

	borderStyle := lipgloss.NewStyle().Foreground(borderColor)

	headers := []string{
		headerStyle.Width(repoWidth).Render("REPO"),
		headerStyle.Width(numberWidth).Render("PR"),
		headerStyle.Width(titleWidth).Render("TITLE"),
		headerStyle.Width(statusWidth).Render("STATUS"),
		headerStyle.Width(unreadWidth).Render("UNREAD"),
		headerStyle.Width(updatedWidth).Render("UPDATED"),
	}
	fmt.Println(strings.Join(headers, borderStyle.Render("│")))

	repoStyle := lipgloss.NewStyle().Foreground(repoColor).Padding(0, 1)
	numberStyle := lipgloss.NewStyle().Foreground(numberColor).Padding(0, 1)
	titleStyle := lipgloss.NewStyle().Foreground(titleColor).Padding(0, 1)
	unreadStyle := lipgloss.NewStyle().Foreground(unreadColor).Bold(true).Padding(0, 1)
	readStyle := lipgloss.NewStyle().Foreground(borderColor).Padding(0, 1)
	updatedStyle := lipgloss.NewStyle().Foreground(titleColor).Padding(0, 1)

	statusStyles := map[reconcile.Status]lipgloss.Style{
		reconcile.StatusOpen:   lipgloss.NewStyle().Foreground(openColor).Padding(0, 1),
		reconcile.StatusDraft:  lipgloss.NewStyle().Foreground(draftColor).Padding(0, 1),
		reconcile.StatusMerged: lipgloss.NewStyle().Foreground(mergedColor).Padding(0, 1),
		reconcile.StatusClosed: lipgloss.NewStyle().Foreground(closedColor).Padding(0, 1),
	}

	for _, snapshot := range snapshots {
		pr := snapshot.PullRequest

		unreadCell := readStyle.Width(unreadWidth).Render("")
		if snapshot.Unread.Unread {
			unreadCell = unreadStyle.Width(unreadWidth).Render("●")
		}

		statusStyle, ok := statusStyles[pr.Status]
		if !ok {
			statusStyle = titleStyle
		}

		cells := []string{
			repoStyle.Width(repoWidth).Render(truncate(pr.Repo.Name, repoWidth-2)),
			numberStyle.Width(numberWidth).Render(fmt.Sprintf("#%d", pr.Number)),
			titleStyle.Width(titleWidth).Render(truncate(pr.Title, titleWidth-2)),
			statusStyle.Width(statusWidth).Render(string(pr.Status)),
			unreadCell,
			updatedStyle.Width(updatedWidth).Render(relativeTime(snapshot.LastNonViewerUpdated)),
		}
		fmt.Println(strings.Join(cells, borderStyle.Render("│")))
	}

	summaryStyle := lipgloss.NewStyle().Foreground(unreadColor).Padding(0, 1)
	unreadCount := 0
	for _, snapshot := range snapshots {
		if snapshot.Unread.Unread {
			unreadCount++
		}
	}
	fmt.Println(summaryStyle.Render(fmt.Sprintf("%d pull requests, %d unread", len(snapshots), unreadCount)))
}

func truncate(s string, max int) string {
	if max <= 1 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}

func relativeTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	elapsed := time.Since(t)
	switch {
	case elapsed < time.Minute:
		return "just now"
	case elapsed < time.Hour:
		return fmt.Sprintf("%dm ago", int(elapsed.Minutes()))
	case elapsed < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(elapsed.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(elapsed.Hours()/24))
	}
}
