package updater

import (
	"context"
	"time"
)

// RunPeriodic refreshes world immediately and then on every interval tick
// until ctx is cancelled. Per-item failures are reported in each run's
// Result and logged; they never stop the loop.
func (u *Updater) RunPeriodic(ctx context.Context, interval time.Duration, world string) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	u.refreshOnce(ctx, world)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			u.refreshOnce(ctx, world)
		}
	}
}

func (u *Updater) refreshOnce(ctx context.Context, world string) {
	if _, err := u.RefreshAll(ctx, world); err != nil {
		u.logger.Error("periodic refresh failed", "world", world, "err", err)
	}
}
