package clock

import (
	"context"
	"log/slog"
	"time"
)

type tickTarget interface {
	TickRunning(ctx context.Context) error
}

// Driver advances running discussion timers once per interval.
type Driver struct {
	logger   *slog.Logger
	target   tickTarget
	interval time.Duration
}

func NewDriver(logger *slog.Logger, target tickTarget, interval time.Duration) *Driver {
	return &Driver{
		logger:   logger.With("component", "clock"),
		target:   target,
		interval: interval,
	}
}

// Run ticks until ctx is done.
func (that *Driver) Run(ctx context.Context) error {
	ticker := time.NewTicker(that.interval)
	defer ticker.Stop()

	that.logger.Info("clock started", "interval", that.interval)

	return that.run(ctx, ticker.C)
}

func (that *Driver) run(ctx context.Context, ticks <-chan time.Time) error {
	for {
		select {
		case <-ctx.Done():
			that.logger.Info("clock stopped")
			return nil
		case <-ticks:
			if err := that.target.TickRunning(ctx); err != nil {
				that.logger.Error("failed to tick sessions", "error", err)
			}
		}
	}
}
