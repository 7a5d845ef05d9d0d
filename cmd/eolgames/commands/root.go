package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"eolgames/internal/config"
	"eolgames/internal/logging"
	"eolgames/internal/storage"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:           "eolgames",
	Short:         "eolgames turns Wikipedia game lists into JSON and a static site.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log at debug level and list every warning.")
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

type env struct {
	cfg      config.Config
	profiles config.ProfileSet
	logger   *zap.Logger
}

func setup() (env, error) {
	cfg, err := config.Load()
	if err != nil {
		return env{}, err
	}
	if verbose {
		cfg.Verbose = true
	}
	level := cfg.LogLevel
	if cfg.Verbose {
		level = "debug"
	}
	logger, err := logging.New(level, cfg.LogFormat)
	if err != nil {
		return env{}, err
	}
	profiles, err := config.LoadProfiles(cfg, cfg.ProfilesPath)
	if err != nil {
		return env{}, fmt.Errorf("load profiles: %w", err)
	}
	return env{cfg: cfg, profiles: profiles, logger: logger}, nil
}

// openDB returns nil when persistence is disabled by an empty DB_PATH.
func (e env) openDB() (*storage.DB, error) {
	if e.cfg.DBPath == "" {
		return nil, nil
	}
	return storage.Open(e.cfg.DBPath)
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
