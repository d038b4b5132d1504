package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pulldeck/pulldeck/internal/cache"
)

var (
	listRepo       string
	listShowClosed bool
	listUnreadOnly bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Refresh once and list tracked pull requests",
	Long: `Refresh the activity cache once and print the tracked pull requests,
newest activity first, with their unread state.

Examples:
  pulldeck list
  pulldeck list --unread-only
  pulldeck list --repo .              (filter to the current working copy)
  pulldeck list --repo octocat/hello  (filter to one repository)`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().StringVar(&listRepo, "repo", "", "Filter to one repository: a slug or a local path")
	listCmd.Flags().BoolVar(&listShowClosed, "show-closed", false, "Include closed and merged pull requests")
	listCmd.Flags().BoolVar(&listUnreadOnly, "unread-only", false, "Only show pull requests with unread activity")
}

func runList(cmd *cobra.Command, args []string) error {
	engine, err := newEngine()
	if err != nil {
		return err
	}

	slug, err := resolveRepoFilter(listRepo)
	if err != nil {
		return err
	}

	if err := engine.Refresh(context.Background()); err != nil {
		return fmt.Errorf("refresh failed: %w", err)
	}

	snapshots := engine.List(cache.ListOptions{
		IncludeClosed: listShowClosed,
		UnreadOnly:    listUnreadOnly,
		RepoSlug:      slug,
	})

	if len(snapshots) == 0 {
		fmt.Println("No pull requests to show")
		return nil
	}

	renderBoard(snapshots)
	return nil
}
