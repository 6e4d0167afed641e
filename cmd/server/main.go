package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/preston-bernstein/nba-shot-charts/internal/config"
	"github.com/preston-bernstein/nba-shot-charts/internal/logging"
	"github.com/preston-bernstein/nba-shot-charts/internal/server"
)

const appVersion = "dev"

func main() {
	if os.Getenv("SKIP_SERVER_RUN") == "1" {
		return
	}

	cfg := config.Load()
	logger := logging.NewLogger(logging.Config{
		Level:   os.Getenv("LOG_LEVEL"),
		Format:  os.Getenv("LOG_FORMAT"),
		Service: "nba-shot-charts",
		Version: appVersion,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	srv := server.New(cfg, logger)
	err := srv.Run(ctx, stop)
	stop()
	if err != nil {
		logging.Error(logger, "server exited with error", err)
		os.Exit(1)
	}
}
