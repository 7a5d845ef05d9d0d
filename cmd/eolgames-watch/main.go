package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"eolgames/internal/config"
	"eolgames/internal/listener"
	"eolgames/internal/logging"
	"eolgames/internal/pipeline"
	"eolgames/internal/storage"
)

func main() {
	cfg, err := config.Load()
	must(err)

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	must(err)
	defer logger.Sync()

	profiles, err := config.LoadProfiles(cfg, cfg.ProfilesPath)
	must(err)

	var db *storage.DB
	if cfg.DBPath != "" {
		db, err = storage.Open(cfg.DBPath)
		must(err)
		defer db.Close()
	}

	processor := pipeline.NewProcessingService(db, cfg, profiles, logger)
	svc := listener.NewService(cfg, processor, logger)
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	logger.Info("watching html corpus",
		zap.String("html_dir", cfg.HTMLDir),
		zap.Int("interval_sec", cfg.WatchIntervalSec),
	)
	must(svc.Run(ctx))
}

func must(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
