package runner

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/fjglira/specrunner/internal/config"
	"github.com/fjglira/specrunner/internal/converter"
	"github.com/fjglira/specrunner/internal/domain"
	"github.com/fjglira/specrunner/internal/parser"
	"github.com/fjglira/specrunner/internal/registry"
	"github.com/fjglira/specrunner/internal/scanner"
	"github.com/fjglira/specrunner/internal/scheduler"
)

// Runner is the top-level orchestrator.
type Runner interface {
	Load(cfg *config.Config) (*registry.Registry, error)
	Run(cfg *config.Config) (domain.RunSummary, error)
}

// DefaultRunner implements Runner by wiring all components together.
type DefaultRunner struct {
	scanner   scanner.Scanner
	parsers   parser.ParserRegistry
	converter converter.Converter
	observers []scheduler.Observer
	log       *logrus.Logger
}

// NewRunner creates a new DefaultRunner with all dependencies.
func NewRunner(
	s scanner.Scanner,
	p parser.ParserRegistry,
	c converter.Converter,
	log *logrus.Logger,
) *DefaultRunner {
	return &DefaultRunner{
		scanner:   s,
		parsers:   p,
		converter: c,
		log:       log,
	}
}

// AddObserver registers an observer for every executed case.
func (r *DefaultRunner) AddObserver(o scheduler.Observer) {
	r.observers = append(r.observers, o)
}

// Load builds a fresh registry from the suite documents: scan → parse → convert.
//
// Documents are parsed concurrently but registered one by one in scan order,
// so the registration order never depends on parse timing.
func (r *DefaultRunner) Load(cfg *config.Config) (*registry.Registry, error) {
	var allFiles []string
	for _, dir := range cfg.Input.Directories {
		r.log.Debugf("Scanning directory: %s", dir)
		files, err := r.scanner.Scan(dir, cfg.Input.Include, cfg.Input.Exclude)
		if err != nil {
			r.log.Warnf("Failed to scan directory %s: %v", dir, err)
			continue
		}
		allFiles = append(allFiles, files...)
	}

	reg := registry.New()
	if len(allFiles) == 0 {
		r.log.Warn("No suite documents found")
		return reg, nil
	}
	r.log.Infof("Found %d suite document(s)", len(allFiles))

	docs, err := r.parseAll(allFiles, cfg)
	if err != nil {
		return nil, err
	}

	for i, doc := range docs {
		if doc == nil {
			continue
		}
		n, err := r.converter.Convert(doc, reg, &cfg.Tags)
		if err != nil {
			return nil, err
		}
		if n == 0 {
			r.log.Debugf("No cases found in %s", allFiles[i])
			continue
		}
		r.log.Debugf("Registered %d case(s) from %s", n, allFiles[i])
	}

	r.log.Infof("Registered %d case(s)", reg.Count())
	return reg, nil
}

// parseAll parses files on a bounded worker pool. The result is indexed like
// files; a nil entry means no parser handles that file. The reported error is
// the one of the first failing file in scan order.
func (r *DefaultRunner) parseAll(files []string, cfg *config.Config) ([]*domain.ParsedDocument, error) {
	workers := cfg.Input.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	sem := semaphore.NewWeighted(int64(workers))
	g, ctx := errgroup.WithContext(context.Background())

	docs := make([]*domain.ParsedDocument, len(files))
	errs := make([]error, len(files))
	for i, filePath := range files {
		g.Go(func() error {
			if err := sem.Acquire(ctx, 1); err != nil {
				return err
			}
			defer sem.Release(1)

			docs[i], errs[i] = r.parseFile(filePath, cfg.Tags.CaseTags)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return docs, nil
}

func (r *DefaultRunner) parseFile(filePath string, tags []string) (*domain.ParsedDocument, error) {
	r.log.Debugf("Processing: %s", filePath)
	content, err := os.ReadFile(filePath)
	if err != nil {
		return nil, domain.NewErrorWithSuggestion("parse", filePath, 0,
			"failed to read file",
			"check that the file exists and has read permissions",
			err)
	}

	ext := filepath.Ext(filePath)
	p, err := r.parsers.ParserFor(ext)
	if err != nil {
		r.log.Warnf("No parser for %s, skipping %s", ext, filePath)
		return nil, nil
	}
	return p.Parse(filePath, content, tags)
}

// Run loads a fresh registry, seals it and executes every case once.
func (r *DefaultRunner) Run(cfg *config.Config) (domain.RunSummary, error) {
	reg, err := r.Load(cfg)
	if err != nil {
		return domain.RunSummary{}, err
	}
	return r.Execute(reg)
}

// Execute seals reg and runs it. A registry runs at most once; a second
// call returns domain.ErrRunConsumed.
func (r *DefaultRunner) Execute(reg *registry.Registry) (domain.RunSummary, error) {
	if reg.Sealed() {
		return domain.RunSummary{}, domain.ErrRunConsumed
	}
	reg.Seal()

	opts := []scheduler.Option{scheduler.WithObserver(r.logRecord)}
	for _, o := range r.observers {
		opts = append(opts, scheduler.WithObserver(o))
	}

	start := time.Now()
	summary := scheduler.New(opts...).Run(reg.Root())
	r.log.WithFields(logrus.Fields{
		"tests":    summary.Tests,
		"failures": summary.Failures,
		"errors":   summary.Errors,
		"skips":    summary.Skips,
		"duration": time.Since(start).Round(time.Millisecond),
	}).Info("Run complete")
	return summary, nil
}

func (r *DefaultRunner) logRecord(rec domain.Record) {
	r.log.WithFields(logrus.Fields{
		"case":    rec.DisplayName,
		"outcome": rec.Outcome.Kind,
	}).Debug(rec.Path.String())
}
