package cmd

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/pulldeck/pulldeck/internal/cache"
)

var (
	watchInterval   time.Duration
	watchShowClosed bool
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Poll periodically and re-render the board on every cycle",
	Long: `Run the refresh loop on a fixed interval until interrupted,
re-rendering the pull request board after every poll. A cycle that
fails leaves the previous board data in place and prints a stale
warning.

Examples:
  pulldeck watch
  pulldeck watch --interval 30s`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().DurationVar(&watchInterval, "interval", cache.DefaultPollInterval, "Poll interval")
	watchCmd.Flags().BoolVar(&watchShowClosed, "show-closed", false, "Include closed and merged pull requests")
}

func runWatch(cmd *cobra.Command, args []string) error {
	engine, err := newEngine()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err = engine.RunPeriodic(ctx, watchInterval, func(cycleErr error) {
		if cycleErr != nil {
			fmt.Printf("refresh failed, showing stale data: %v\n", cycleErr)
		}
		snapshots := engine.List(cache.ListOptions{IncludeClosed: watchShowClosed})
		renderBoard(snapshots)
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
