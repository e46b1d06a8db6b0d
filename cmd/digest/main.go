package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/anthonayokh/Morning-Brew-Digest/internal/app"
	"github.com/anthonayokh/Morning-Brew-Digest/internal/config"
	"github.com/anthonayokh/Morning-Brew-Digest/internal/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "digest run failed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.Init(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dig, err := app.NewDigest(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("initialize digest: %w", err)
	}

	if err := dig.Run(ctx); err != nil {
		return fmt.Errorf("digest run: %w", err)
	}

	return nil
}
