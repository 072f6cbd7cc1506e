package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/BuzzLyutic/tasklist/internal/cli"
	"github.com/BuzzLyutic/tasklist/internal/config"
	"github.com/BuzzLyutic/tasklist/internal/repo"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)

	cfg := config.Load()
	if os.Getenv("LOG_LEVEL") == "" {
		cfg.LogLevel = "warn"
	}

	code := cli.Run(ctx, os.Args[1:], os.Stdout, os.Stderr, cfg, repo.Open)
	stop()
	os.Exit(code)
}
