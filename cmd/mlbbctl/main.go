package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/riskibarqy/mlbb-analytics/internal/app"
	"github.com/riskibarqy/mlbb-analytics/internal/config"
	"github.com/riskibarqy/mlbb-analytics/internal/interfaces/cli"
	"github.com/riskibarqy/mlbb-analytics/internal/platform/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	open := func(ctx context.Context, logger *logging.Logger) (*app.Services, error) {
		cfg, err := config.Load()
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		return app.NewServices(ctx, cfg, logger)
	}

	if err := cli.NewRootCommand(open, os.Stderr).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
