// Package listener re-runs extraction whenever the HTML corpus changes.
package listener

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"eolgames/internal/config"
	"eolgames/internal/pipeline"
	"eolgames/internal/site"
	"eolgames/internal/storage"
)

type Service struct {
	cfg       config.Config
	processor *pipeline.ProcessingService
	logger    *zap.Logger
	last      string
}

func NewService(cfg config.Config, processor *pipeline.ProcessingService, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{cfg: cfg, processor: processor, logger: logger}
}

func (s *Service) Run(ctx context.Context) error {
	for {
		if _, err := s.RunCycle(ctx); err != nil {
			s.logger.Error("listener cycle failed", zap.Error(err))
		}

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(time.Duration(s.cfg.WatchIntervalSec) * time.Second):
		}
	}
}

// RunCycle extracts the corpus if it changed since the last successful
// extraction and, when enabled, rebuilds the site. It reports whether a
// run happened. A failing site build does not cause the next cycle to
// extract again.
func (s *Service) RunCycle(ctx context.Context) (bool, error) {
	fp, err := Fingerprint(s.cfg.HTMLDir)
	if err != nil {
		return false, err
	}
	if fp == s.last {
		return false, nil
	}

	report, err := s.processor.Run(ctx, s.cfg.HTMLDir, s.cfg.DatabaseDir)
	if err != nil {
		return true, err
	}
	s.last = fp
	log := s.logger.With(zap.String("trace_id", report.TraceID))
	log.Info("listener cycle done",
		zap.Int("consoles", len(report.Consoles)),
		zap.Int("failed", report.Failed()),
	)

	if !s.cfg.WatchBuildSite {
		return true, nil
	}
	data, err := storage.LoadCombined(s.cfg.DatabaseDir)
	if err != nil {
		return true, err
	}
	if len(data) == 0 {
		log.Warn("no console data, site not rebuilt")
		return true, nil
	}
	if _, err := site.Build(s.cfg.SiteDir, data, site.Options{}); err != nil {
		return true, fmt.Errorf("build site: %w", err)
	}
	return true, nil
}

func Fingerprint(dir string) (string, error) {
	files, err := pipeline.ListHTMLFiles(dir)
	if err != nil {
		return "", err
	}
	h := sha256.New()
	for _, f := range files {
		info, err := os.Stat(f)
		if err != nil {
			return "", err
		}
		fmt.Fprintf(h, "%s|%d|%d\n", f, info.Size(), info.ModTime().UnixNano())
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
