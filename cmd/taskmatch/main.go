package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/felixgeelhaar/taskmatch/adapter/cli"
	"github.com/felixgeelhaar/taskmatch/adapter/cli/insights"
	"github.com/felixgeelhaar/taskmatch/adapter/cli/match"
	"github.com/felixgeelhaar/taskmatch/internal/app"
	"github.com/felixgeelhaar/taskmatch/pkg/config"
	"github.com/felixgeelhaar/taskmatch/pkg/observability"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", observability.ErrorKey, err)
		return 1
	}

	logger := observability.LoggerFromSettings(cfg.AppEnv, cfg.LogLevel, cfg.LogFormat, cli.Version)
	slog.SetDefault(logger)
	cli.SetLogger(logger)

	// In development, version and help still work without storage.
	container, err := app.NewContainer(ctx, cfg, logger)
	if err != nil {
		if !cfg.IsDevelopment() {
			logger.Error("failed to initialize container", observability.ErrorKey, err)
			return 1
		}
		logger.Warn("failed to initialize container, running in limited mode", observability.ErrorKey, err)
	} else {
		defer container.Close()
		cli.SetApp(cli.NewApp(container.Service, container, container.Health))
	}

	cli.AddCommand(match.Cmd)
	cli.AddCommand(insights.Cmd)

	if err := cli.Execute(ctx); err != nil {
		return 1
	}
	return 0
}
