package pipeline

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"eolgames/internal"
	"eolgames/internal/config"
	"eolgames/internal/console"
	"eolgames/internal/storage"
)

type ProcessingService struct {
	db       *storage.DB
	cfg      config.Config
	profiles config.ProfileSet
	logger   *zap.Logger
}

// NewProcessingService wires the batch runner. db may be nil, in which
// case runs are not persisted.
func NewProcessingService(db *storage.DB, cfg config.Config, profiles config.ProfileSet, logger *zap.Logger) *ProcessingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProcessingService{db: db, cfg: cfg, profiles: profiles, logger: logger}
}

type ConsoleResult struct {
	Console    string
	Files      []string
	Dataset    internal.ConsoleDataset
	Tables     []TableSummary
	Warnings   []internal.Warning
	Duplicates []internal.DuplicateNotice
	Written    []string
	Duration   time.Duration
	Err        error
}

func (r ConsoleResult) OK() bool {
	return r.Err == nil
}

type BatchReport struct {
	TraceID  string
	RunID    int64
	Consoles []ConsoleResult
	Warnings []internal.Warning
	Duration time.Duration
}

func (r BatchReport) Failed() int {
	n := 0
	for _, c := range r.Consoles {
		if !c.OK() {
			n++
		}
	}
	return n
}

func (r BatchReport) AllWarnings() []internal.Warning {
	out := append([]internal.Warning{}, r.Warnings...)
	for _, c := range r.Consoles {
		out = append(out, c.Warnings...)
	}
	return out
}

// Counts sums records per category over the consoles that succeeded.
func (r BatchReport) Counts() map[string]int {
	counts := map[string]int{"consoles": len(r.Consoles), "failed": r.Failed()}
	for _, c := range r.Consoles {
		if !c.OK() {
			continue
		}
		for _, cat := range internal.Categories {
			counts[string(cat)] += len(c.Dataset.Records(cat))
		}
		counts["combined"] += len(c.Dataset.Combined)
		counts["duplicates"] += len(c.Duplicates)
	}
	counts["warnings"] = len(r.AllWarnings())
	return counts
}

// Run extracts every console found in htmlDir and writes its JSON files
// under outDir. Consoles run concurrently and independently: a failing
// console is recorded in its ConsoleResult and never stops the others.
// The returned error is reserved for batch-level problems.
func (s *ProcessingService) Run(ctx context.Context, htmlDir, outDir string) (BatchReport, error) {
	start := time.Now()
	report := BatchReport{TraceID: traceID()}
	log := s.logger.With(zap.String("trace_id", report.TraceID))

	files, err := ListHTMLFiles(htmlDir)
	if err != nil {
		return report, err
	}
	if len(files) == 0 {
		return report, fmt.Errorf("no html files in %s", htmlDir)
	}

	groups := map[string][]string{}
	var slugs []string
	for _, f := range files {
		slug := console.Resolve(f)
		if slug == console.Unknown {
			report.Warnings = append(report.Warnings, internal.Warning{
				File:    filepath.Base(f),
				Kind:    internal.WarningUnknownConsole,
				Message: "cannot derive console from file name",
			})
			log.Warn("skipping file", zap.String("file", f))
			continue
		}
		if _, ok := groups[slug]; !ok {
			slugs = append(slugs, slug)
		}
		groups[slug] = append(groups[slug], f)
	}
	sort.Strings(slugs)

	results := make([]ConsoleResult, len(slugs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Workers)
	for i, slug := range slugs {
		g.Go(func() error {
			results[i] = s.processConsole(gctx, slug, groups[slug], outDir, log)
			return nil
		})
	}
	_ = g.Wait()
	report.Consoles = results
	report.Duration = time.Since(start)

	if err := ctx.Err(); err != nil {
		return report, err
	}
	if err := s.persist(&report); err != nil {
		return report, fmt.Errorf("persist run: %w", err)
	}

	log.Info("batch finished",
		zap.Int("consoles", len(results)),
		zap.Int("failed", report.Failed()),
		zap.Duration("took", report.Duration),
	)
	return report, nil
}

func (s *ProcessingService) processConsole(ctx context.Context, slug string, files []string, outDir string, log *zap.Logger) ConsoleResult {
	start := time.Now()
	res := ConsoleResult{Console: slug, Files: files}
	log = log.With(zap.String("console", slug))
	profile := s.profiles.For(slug)
	ext := NewExtractor(profile)

	docs := make([]DocumentResult, 0, len(files))
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			res.Err = err
			return res
		}
		doc, err := extractPath(ext, path)
		for _, w := range doc.Warnings {
			w.Console = slug
			w.File = filepath.Base(path)
			res.Warnings = append(res.Warnings, w)
		}
		if err != nil {
			res.Err = &FatalConsoleError{Console: slug, File: filepath.Base(path), Err: err}
			res.Duration = time.Since(start)
			log.Error("console failed", zap.Error(res.Err))
			return res
		}
		res.Tables = append(res.Tables, doc.Tables...)
		docs = append(docs, doc)
	}

	res.Dataset, res.Duplicates = BuildDataset(slug, profile.SpecialName, docs)
	written, err := storage.WriteConsoleDataset(outDir, res.Dataset)
	res.Written = written
	if err != nil {
		res.Err = &FatalConsoleError{Console: slug, Err: fmt.Errorf("write output: %w", err)}
	}
	res.Duration = time.Since(start)

	for _, d := range res.Duplicates {
		log.Debug("duplicate title", zap.String("category", string(d.Category)), zap.String("title", d.Title), zap.Ints("positions", d.Positions))
	}
	log.Info("console processed",
		zap.Int("licensed", len(res.Dataset.Licensed)),
		zap.Int("unreleased", len(res.Dataset.Unreleased)),
		zap.Int("special", len(res.Dataset.Special)),
		zap.Int("warnings", len(res.Warnings)),
		zap.Int("duplicates", len(res.Duplicates)),
		zap.Duration("took", res.Duration),
	)
	return res
}

func extractPath(ext *Extractor, path string) (DocumentResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return DocumentResult{}, err
	}
	defer f.Close()
	return ext.ExtractHTML(f)
}

// persist runs after the workers finish; the database has one writer.
func (s *ProcessingService) persist(report *BatchReport) error {
	if s.db == nil {
		return nil
	}
	runID, err := s.db.InsertRun(report.TraceID,
		map[string]float64{"totalMs": float64(report.Duration.Milliseconds())},
		report.Counts(),
	)
	if err != nil {
		return err
	}
	report.RunID = runID

	var errs []error
	for _, c := range report.Consoles {
		if !c.OK() {
			continue
		}
		if err := s.db.ReplaceConsoleGames(runID, c.Dataset); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", c.Console, err))
		}
	}
	if err := s.db.InsertWarnings(runID, report.AllWarnings()); err != nil {
		errs = append(errs, err)
	}
	if err := s.db.SetMetadata("last_run", report.TraceID); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// ListHTMLFiles returns the .html/.htm files directly inside dir, sorted.
func ListHTMLFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".html", ".htm":
			out = append(out, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(out)
	return out, nil
}

func traceID() string {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return fmt.Sprintf("run-%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(b[:])
}
