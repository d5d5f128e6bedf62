package healthcheck

import (
	"context"
	"log/slog"
	"time"

	"github.com/angeloszaimis/healthcheck/internal/metrics"
)

// SleepFunc waits for d or until ctx ends, returning ctx.Err() in the latter case.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Option configures a Checker.
type Option func(*Checker)

// WithLogger sets the logger used for per-host diagnostics.
// Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *Checker) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithSleep replaces the inter-attempt wait. Useful for observing sleeps in tests.
func WithSleep(fn SleepFunc) Option {
	return func(c *Checker) {
		if fn != nil {
			c.sleep = fn
		}
	}
}

// WithConcurrency bounds the number of hosts checked at once.
// Zero or less means one goroutine per host, the default.
func WithConcurrency(n int) Option {
	return func(c *Checker) {
		c.concurrency = max(n, 0)
	}
}

// WithSkipFinalSleep drops the interval wait after the last failed attempt.
// By default the wait is paid before the host is reported unhealthy.
func WithSkipFinalSleep(skip bool) Option {
	return func(c *Checker) {
		c.skipFinalSleep = skip
	}
}

// WithEvents publishes attempt and host events to ch. Sends never block;
// events are dropped when ch is full.
func WithEvents(ch chan<- metrics.Event) Option {
	return func(c *Checker) {
		c.events = ch
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
