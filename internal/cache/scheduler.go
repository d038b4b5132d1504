package cache

import (
	"context"
	"errors"
	"time"
)

// DefaultPollInterval is the refresh cadence when none is configured
const DefaultPollInterval = time.Minute

// RunPeriodic refreshes the cache immediately and then on every tick
// of the interval until the context is cancelled. Ticks that land
// while a refresh is still in flight are dropped rather than queued;
// refresh errors are recorded on the cache and do not stop the loop.
// onCycle, when non-nil, runs after every completed attempt with its
// outcome.
func (c *ActivityCache) RunPeriodic(ctx context.Context, interval time.Duration, onCycle func(err error)) error {
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	c.refreshOnce(ctx, onCycle)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			c.refreshOnce(ctx, onCycle)
		}
	}
}

func (c *ActivityCache) refreshOnce(ctx context.Context, onCycle func(err error)) {
	err := c.Refresh(ctx)
	if errors.Is(err, ErrRefreshInFlight) {
		c.log.Debug("skipped tick, refresh already in flight")
		return
	}
	if onCycle != nil {
		onCycle(err)
	}
}
