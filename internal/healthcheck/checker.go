package healthcheck

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/angeloszaimis/healthcheck/internal/metrics"
	"github.com/angeloszaimis/healthcheck/internal/probe"
)

// Checker fans out one retry loop per configured host.
type Checker struct {
	config         Config
	prober         probe.Prober
	logger         *slog.Logger
	sleep          SleepFunc
	concurrency    int
	skipFinalSleep bool
	events         chan<- metrics.Event
}

// New creates a Checker. The config is copied, later changes to cfg.Hosts
// do not affect the checker.
func New(cfg Config, prober probe.Prober, opts ...Option) *Checker {
	c := &Checker{
		config: cfg.clone(),
		prober: prober,
		logger: slog.Default(),
		sleep:  sleepContext,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Check runs every host's retry loop concurrently and returns one Result per
// host in configuration order.
//
// A host that cannot be probed at all fails the whole run with a *HostError
// and no results. When ctx ends before some loop finishes, the partial results
// are returned together with an error wrapping ErrCancelled.
func (c *Checker) Check(ctx context.Context) ([]Result, error) {
	results := make([]Result, len(c.config.Hosts))
	for i, host := range c.config.Hosts {
		results[i] = Result{Host: host, State: StatePending}
	}

	g, gctx := errgroup.WithContext(ctx)
	if c.concurrency > 0 {
		g.SetLimit(c.concurrency)
	}

	for i, host := range c.config.Hosts {
		g.Go(func() error {
			// Each loop owns its slot, so no lock is needed.
			res, err := c.checkHost(gctx, host)
			results[i] = res
			return err
		})
	}

	if err := g.Wait(); err != nil {
		c.logger.Error("Health check aborted", slog.Any("err", err))
		return nil, err
	}

	cancelled := slices.ContainsFunc(results, func(r Result) bool {
		return r.State == StateCancelled
	})
	if cancelled {
		return results, fmt.Errorf("%w: %w", ErrCancelled, context.Cause(ctx))
	}

	return results, nil
}

// checkHost is the per-host state machine: Attempting until a probe succeeds,
// the budget runs out, or ctx ends.
func (c *Checker) checkHost(ctx context.Context, host string) (Result, error) {
	log := c.logger.With(slog.String("host", host))
	res := Result{Host: host, State: StateAttempting}

	for attempt := 1; attempt <= c.config.Retries; attempt++ {
		if ctx.Err() != nil {
			return c.finish(log, res, StateCancelled), nil
		}

		outcome, err := c.prober.Probe(ctx, host, c.config.Timeout)
		if err != nil {
			log.Error("Host cannot be checked", slog.Any("err", err))
			return res, &HostError{Host: host, Err: err}
		}

		res.Attempts = attempt
		c.emit(metrics.Event{
			Type:       metrics.EventAttemptCompleted,
			Host:       host,
			Attempt:    attempt,
			Duration:   outcome.Latency,
			StatusCode: outcome.StatusCode,
			Reachable:  outcome.Reachable,
		})

		if outcome.Reachable {
			return c.finish(log, res, StateSucceeded), nil
		}

		if ctx.Err() != nil {
			return c.finish(log, res, StateCancelled), nil
		}

		log.Debug("Attempt failed",
			slog.Int("attempt", attempt),
			slog.Int("retries", c.config.Retries),
			slog.Any("err", outcome.Err))

		if attempt == c.config.Retries && c.skipFinalSleep {
			break
		}

		if err := c.sleep(ctx, c.config.Interval); err != nil {
			return c.finish(log, res, StateCancelled), nil
		}
	}

	return c.finish(log, res, StateExhausted), nil
}

func (c *Checker) finish(log *slog.Logger, res Result, state State) Result {
	res.State = state
	res.Healthy = state == StateSucceeded

	switch state {
	case StateSucceeded:
		log.Info("Host is healthy", slog.Int("attempts", res.Attempts))
	case StateExhausted:
		log.Warn("Host is down", slog.Int("attempts", res.Attempts))
	case StateCancelled:
		log.Info("Host check cancelled", slog.Int("attempts", res.Attempts))
	}

	if state != StateCancelled {
		c.emit(metrics.Event{
			Type:    metrics.EventHostCompleted,
			Host:    res.Host,
			Healthy: res.Healthy,
		})
	}

	return res
}

func (c *Checker) emit(event metrics.Event) {
	if c.events == nil {
		return
	}

	event.Timestamp = time.Now()

	select {
	case c.events <- event:
	default:
	}
}
