package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"

	"github.com/angeloszaimis/healthcheck/config"
	"github.com/angeloszaimis/healthcheck/internal/healthcheck"
	"github.com/angeloszaimis/healthcheck/internal/metrics"
	"github.com/angeloszaimis/healthcheck/internal/probe"
	"github.com/angeloszaimis/healthcheck/internal/report"
	"github.com/angeloszaimis/healthcheck/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.Any("err", err))
		os.Exit(1)
	}

	log := logger.New(cfg.LogLevel, false, cfg.Environment, os.Stderr).With(
		slog.String("run_id", uuid.NewString()))

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err = run(ctx, cfg, log, os.Stdout)
	cancel()

	if err != nil {
		if !errors.Is(err, report.ErrUnhealthyHosts) {
			log.Error("Health check failed", slog.Any("err", err))
		}
		os.Exit(1)
	}
}

// run performs one pass over the configured hosts and writes the report to out.
// The returned error is non-nil when any host is unhealthy or the pass could
// not complete.
func run(ctx context.Context, cfg *config.Config, log *slog.Logger, out io.Writer) error {
	hcCfg, err := cfg.HealthCheck()
	if err != nil {
		return err
	}

	log.Debug("Starting health check",
		slog.Any("hosts", hcCfg.Hosts),
		slog.Duration("timeout", hcCfg.Timeout),
		slog.Int("retries", hcCfg.Retries),
		slog.Duration("interval", hcCfg.Interval))

	collector := metrics.NewCollector(eventBuffer(hcCfg), log)
	collectorCtx, stopCollector := context.WithCancel(context.Background())
	collector.Start(collectorCtx)

	checker := healthcheck.New(hcCfg, probe.NewHTTPProber(nil, log),
		healthcheck.WithLogger(log),
		healthcheck.WithConcurrency(cfg.Concurrency),
		healthcheck.WithSkipFinalSleep(cfg.SkipFinalSleep),
		healthcheck.WithEvents(collector.EventChannel()),
	)

	results, checkErr := checker.Check(ctx)

	stopCollector()
	<-collector.Done()
	logSnapshot(log, collector.Snapshot())

	if checkErr != nil && !errors.Is(checkErr, healthcheck.ErrCancelled) {
		return checkErr
	}

	if err := report.Write(out, results); err != nil {
		return err
	}

	if checkErr != nil {
		return checkErr
	}

	return report.Decide(results)
}

// maxEventBuffer bounds the metrics channel. The checker drops events when
// the channel is full, so large retry budgets only lose metrics detail.
const maxEventBuffer = 4096

// eventBuffer fits every attempt and completion event of one pass, up to
// maxEventBuffer.
func eventBuffer(cfg healthcheck.Config) int {
	hosts := len(cfg.Hosts)
	if hosts == 0 {
		return 0
	}

	perHost := max(cfg.Retries, 0)
	if perHost >= maxEventBuffer/hosts {
		return maxEventBuffer
	}

	return min(hosts*(perHost+1), maxEventBuffer)
}

func logSnapshot(log *slog.Logger, snap metrics.Snapshot) {
	log.Debug("Health check finished",
		slog.Int64("attempts", snap.TotalAttempts),
		slog.Int64("failures", snap.TotalFailures),
		slog.Duration("elapsed", snap.Elapsed))

	for host, hm := range snap.Hosts {
		log.Debug("Host metrics",
			slog.String("host", host),
			slog.Bool("healthy", hm.Healthy),
			slog.Int64("attempts", hm.Attempts),
			slog.Int64("failures", hm.Failures),
			slog.Duration("avg_latency", hm.AvgLatency),
			slog.Duration("p95_latency", hm.P95Latency),
			slog.Any("status_codes", hm.StatusCodes))
	}
}
