// Package importer orchestrates a chunked-parallel import run: split the
// source into chunk files, load them concurrently, aggregate the results
// and report.
package importer

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/vvka-141/taqload/internal/loader"
	"github.com/vvka-141/taqload/internal/splitter"
	"github.com/vvka-141/taqload/pkg/taqload"
)

// Service runs import jobs. Dependencies are injected so the pipeline can
// be driven end to end in tests without a live database.
type Service struct {
	connector taqload.Connector
	approver  taqload.Approver
	logger    taqload.Logger
}

// NewService creates an import Service.
func NewService(connector taqload.Connector, approver taqload.Approver, logger taqload.Logger) *Service {
	return &Service{
		connector: connector,
		approver:  approver,
		logger:    logger,
	}
}

// Run executes the full import: validate, connect, optionally truncate,
// split, load, report, clean up. The returned error carries the sentinel
// for the failure stage so the CLI can map it to an exit code.
func (s *Service) Run(ctx context.Context, cfg *taqload.ImportConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := checkSource(cfg.SourcePath); err != nil {
		return err
	}

	workers := DeriveWorkers(cfg.Workers, cfg.ChunkCount)
	s.logger.Verbose("Using %d workers for %d chunks", workers, cfg.ChunkCount)

	pool, err := s.connector.Connect(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", taqload.ErrConnectionFailed, err)
	}
	defer pool.Close()

	if cfg.Truncate {
		approved, err := s.approver.RequestApproval(ctx, cfg.Table)
		if err != nil {
			return fmt.Errorf("truncate approval: %w", err)
		}
		if !approved {
			return fmt.Errorf("truncate of %s: %w", cfg.Table, taqload.ErrApprovalDenied)
		}
		if err := loader.TruncateTable(ctx, pool, cfg.Table); err != nil {
			return err
		}
		s.logger.Info("Truncated table %s", cfg.Table)
	}

	chunkLoader := loader.NewCopyLoader(pool, cfg.Table, cfg.Delimiter, s.logger)
	return s.runPipeline(ctx, cfg, chunkLoader, workers)
}

// RunWithLoader executes the pipeline with a caller-supplied ChunkLoader,
// skipping connection and truncate handling.
func (s *Service) RunWithLoader(ctx context.Context, cfg *taqload.ImportConfig, chunkLoader taqload.ChunkLoader) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := checkSource(cfg.SourcePath); err != nil {
		return err
	}
	return s.runPipeline(ctx, cfg, chunkLoader, DeriveWorkers(cfg.Workers, cfg.ChunkCount))
}

func (s *Service) runPipeline(ctx context.Context, cfg *taqload.ImportConfig, chunkLoader taqload.ChunkLoader, workers int) error {
	start := time.Now()

	dir, err := splitter.NewRunDir(cfg.TempDir)
	if err != nil {
		return fmt.Errorf("%w: %v", taqload.ErrSplitFailed, err)
	}
	s.logger.Info("Working directory: %s", dir.Path)

	chunks, err := splitter.NewSplitter(s.logger).Split(cfg.SourcePath, dir, cfg.ChunkCount)
	if err != nil {
		// The half-written run directory is useless without chunk files.
		if rmErr := dir.Remove(); rmErr != nil {
			s.logger.Error("Failed to remove working directory %s: %v", dir.Path, rmErr)
		}
		return err
	}

	s.logger.Info("Loading %d chunks into %s with %d workers", len(chunks), cfg.Table, workers)

	sched := newScheduler(chunkLoader, s.logger, workers, cfg.ChunkTimeout)
	results := sched.run(ctx, chunks)

	summary := Summarize(results, time.Since(start))

	reporter := NewReporter(s.logger)
	reporter.Report(summary, results)
	summary.CleanedUp = reporter.Cleanup(dir, &summary, cfg.KeepTemp)

	if cfg.JSONReportPath != "" {
		if err := WriteJSONReport(cfg.JSONReportPath, cfg, summary, results); err != nil {
			s.logger.Error("%v", err)
		} else {
			s.logger.Verbose("Run report written to %s", cfg.JSONReportPath)
		}
	}

	if summary.Failed > 0 {
		return fmt.Errorf("%d of %d chunks failed: %w", summary.Failed, summary.TotalChunks, taqload.ErrImportFailed)
	}
	return nil
}

// checkSource verifies the source exists and is a regular file before any
// database or filesystem work starts.
func checkSource(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%w: %s", taqload.ErrSourceNotFound, path)
	}
	if info.IsDir() {
		return fmt.Errorf("%w: %s is a directory", taqload.ErrSourceNotFound, path)
	}
	return nil
}
