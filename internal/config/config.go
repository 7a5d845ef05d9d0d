package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	HTMLDir     string
	DatabaseDir string
	SiteDir     string
	DBPath      string

	ProfilesPath         string
	Workers              int
	MinTableRows         int
	HeaderMatchThreshold float64

	LogLevel  string
	LogFormat string
	Verbose   bool

	WatchIntervalSec int
	WatchBuildSite   bool
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cwd, err := os.Getwd()
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		HTMLDir:     getEnv("HTML_DIR", filepath.Join(cwd, "html")),
		DatabaseDir: getEnv("DATABASE_DIR", filepath.Join(cwd, "database")),
		SiteDir:     getEnv("SITE_DIR", filepath.Join(cwd, "site")),
		DBPath:      getEnv("DB_PATH", filepath.Join(cwd, "data", "eolgames.db")),

		ProfilesPath:         getEnv("PROFILES_PATH", ""),
		Workers:              getEnvInt("WORKERS", 4),
		MinTableRows:         getEnvInt("MIN_TABLE_ROWS", 10),
		HeaderMatchThreshold: getEnvFloat("HEADER_MATCH_THRESHOLD", 0.95),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "console"),
		Verbose:   getEnvBool("VERBOSE", false),

		WatchIntervalSec: getEnvInt("WATCH_INTERVAL_SEC", 60),
		WatchBuildSite:   getEnvBool("WATCH_BUILD_SITE", true),
	}

	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	if cfg.WatchIntervalSec < 1 {
		cfg.WatchIntervalSec = 1
	}
	if cfg.MinTableRows < 1 {
		cfg.MinTableRows = 1
	}
	if cfg.HeaderMatchThreshold <= 0 || cfg.HeaderMatchThreshold > 1 {
		return Config{}, fmt.Errorf("HEADER_MATCH_THRESHOLD must be in (0,1], got %v", cfg.HeaderMatchThreshold)
	}

	return cfg, nil
}

func (c Config) Require(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("missing required setting: %s", name)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvFloat(key string, fallback float64) float64 {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	value := strings.ToLower(strings.TrimSpace(getEnv(key, "")))
	if value == "" {
		return fallback
	}
	if value == "1" || value == "true" || value == "yes" || value == "on" {
		return true
	}
	if value == "0" || value == "false" || value == "no" || value == "off" {
		return false
	}
	return fallback
}
