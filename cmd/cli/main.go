package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/finiam/notes-app/internal/client/cli"
	"github.com/finiam/notes-app/internal/client/config"
	"github.com/finiam/notes-app/internal/logging"
)

func main() {
	cfg, err := config.LoadConfig(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	level := slog.LevelWarn
	if os.Getenv("NOTES_DEBUG") != "" {
		level = slog.LevelDebug
	}
	logger := logging.NewTextSlogLogger(os.Stderr, level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := cli.NewApp(cfg, logger)
	if err != nil {
		logger.Error(ctx, "failed to start client", "error", err)
		os.Exit(1)
	}

	app.Run(ctx)
}
