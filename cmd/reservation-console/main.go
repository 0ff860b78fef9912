package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"airline_reservation/internal/config"
	"airline_reservation/internal/console"
	"airline_reservation/internal/container"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load(".env.local")

	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Logs go to stderr so they never interleave with the menus
	logger := config.NewLogger(cfg, os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	appContainer, err := container.NewContainer(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize application", "error", err)
		os.Exit(1)
	}

	done := make(chan error, 1)
	go func() {
		done <- console.New(appContainer.Service, os.Stdin, os.Stdout, logger).Run(ctx)
	}()

	select {
	case err = <-done:
		if err != nil {
			logger.Error("Console stopped", "error", err)
		}
	case <-ctx.Done():
		logger.Info("Interrupted, saving ledger")
	}

	if closeErr := appContainer.Close(context.Background()); closeErr != nil {
		logger.Error("Failed to save ledger on exit", "error", closeErr)
		os.Exit(1)
	}
	if err != nil {
		os.Exit(1)
	}
}
