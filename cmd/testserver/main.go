package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/angeloszaimis/healthcheck/config"
	"github.com/angeloszaimis/healthcheck/internal/flaky"
	"github.com/angeloszaimis/healthcheck/internal/httpserver"
	"github.com/angeloszaimis/healthcheck/pkg/logger"
)

func main() {
	cfg, err := config.LoadTestServer()
	if err != nil {
		slog.Error("failed to load config", slog.Any("err", err))
		os.Exit(1)
	}

	log := logger.New(cfg.LogLevel, false, cfg.Environment, os.Stdout)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	srv, err := newServer(cfg, log)
	if err != nil {
		log.Error("Failed to create server", slog.Any("err", err))
		os.Exit(1)
	}

	log.Info("Running the test server",
		slog.Int("port", cfg.Port),
		slog.Int("fail_count", cfg.FailCount),
		slog.Duration("max_response_delay", cfg.MaxResponseDelay()))

	if err := srv.Run(ctx); err != nil {
		log.Error("Error running test server", slog.Any("err", err))
		os.Exit(1)
	}
}

func newServer(cfg *config.TestServerConfig, log *slog.Logger) (*httpserver.Server, error) {
	handler := flaky.NewHandler(cfg.FailCount, cfg.MaxResponseDelay(), log)
	return httpserver.New(cfg.Addr(), setupRouter(handler), log)
}
