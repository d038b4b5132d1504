package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	readAll    bool
	readUnread bool
)

var readCmd = &cobra.Command{
	Use:   "read [pull request]",
	Short: "Mark a pull request read or unread",
	Long: `Mark a pull request read, anchoring its read marker at the newest
event, or unread with --unread. The pull request can be given as
owner/name#number or as a pull request URL.

Examples:
  pulldeck read octocat/hello#42
  pulldeck read https://github.com/octocat/hello/pull/42 --unread
  pulldeck read --all`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRead,
}

func init() {
	rootCmd.AddCommand(readCmd)
	readCmd.Flags().BoolVar(&readAll, "all", false, "Mark every tracked pull request read")
	readCmd.Flags().BoolVar(&readUnread, "unread", false, "Mark unread instead of read")
}

func runRead(cmd *cobra.Command, args []string) error {
	if readAll == (len(args) == 1) {
		return fmt.Errorf("specify exactly one pull request, or --all")
	}
	if readAll && readUnread {
		return fmt.Errorf("--all and --unread cannot be combined")
	}

	engine, err := newEngine()
	if err != nil {
		return err
	}

	if err := engine.Refresh(context.Background()); err != nil {
		return fmt.Errorf("refresh failed: %w", err)
	}

	if readAll {
		engine.MarkAllRead()
		fmt.Println("✓ Marked all pull requests read")
		return nil
	}

	slug, number, err := parsePullRef(args[0])
	if err != nil {
		return err
	}

	pr, ok := engine.Find(slug, number)
	if !ok {
		return fmt.Errorf("%s#%d is not in the tracked set", slug, number)
	}

	if err := engine.SetRead(pr.ID, !readUnread); err != nil {
		return err
	}

	if readUnread {
		fmt.Printf("✓ Marked %s#%d unread\n", slug, number)
	} else {
		fmt.Printf("✓ Marked %s#%d read\n", slug, number)
	}
	return nil
}
