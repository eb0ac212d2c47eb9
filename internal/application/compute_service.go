package application

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/invoiceirr/invoiceirr/internal/domain"
)

// ComputeService orchestrates a batch run:
// load config → read invoices → solve each independently → assemble report.
type ComputeService struct {
	source       domain.InvoiceSource
	configLoader domain.ConfigLoader
	git          domain.GitInfo
	logger       *slog.Logger
}

func NewComputeService(
	source domain.InvoiceSource,
	configLoader domain.ConfigLoader,
	git domain.GitInfo,
	logger *slog.Logger,
) *ComputeService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ComputeService{
		source:       source,
		configLoader: configLoader,
		git:          git,
		logger:       logger,
	}
}

// Engine binds a solver configuration to the per-invoice computation.
type Engine struct {
	Finder  domain.RootFinder
	Guess   float64
	Workers int
	Logger  *slog.Logger
}

// NewEngine builds an Engine from cfg.
func NewEngine(cfg domain.ProjectConfig, logger *slog.Logger) Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return Engine{
		Finder:  cfg.SecantSolver(),
		Guess:   cfg.Guess(),
		Workers: cfg.WorkerCount(),
		Logger:  logger,
	}
}

// ComputeResult solves a single invoice. It never fails; solver errors are
// carried in the result's IRR.
func (e Engine) ComputeResult(rec domain.InvoiceRecord) domain.IRRResult {
	return domain.ComputeResult(rec, e.Finder, e.Guess)
}

// ComputeBatch solves every record on a bounded pool of workers. Results are
// returned in input order. Cancelling ctx stops scheduling new invoices.
func (e Engine) ComputeBatch(ctx context.Context, records []domain.InvoiceRecord) ([]domain.IRRResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	results := make([]domain.IRRResult, len(records))
	if len(records) == 0 {
		return results, nil
	}

	workers := e.Workers
	if workers <= 0 {
		workers = 1
	}
	if workers > len(records) {
		workers = len(records)
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = e.ComputeResult(records[i])
				if err := results[i].IRR.Err(); err != nil {
					e.Logger.Debug("irr solve failed",
						"row", i+1,
						"kind", string(results[i].IRR.Kind()),
						"error", err,
					)
				}
			}
		}()
	}

	var cancelled error
feed:
	for i := range records {
		select {
		case <-ctx.Done():
			cancelled = ctx.Err()
			break feed
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()

	if cancelled != nil {
		return nil, cancelled
	}
	return results, nil
}

// LoadConfig reads configuration from path, which may be a directory or a
// YAML file.
func (s *ComputeService) LoadConfig(path string) (domain.ProjectConfig, error) {
	cfg, err := s.configLoader.Load(path)
	if err != nil {
		return domain.ProjectConfig{}, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// ComputeFile reads invoices from inputPath and computes them with cfg.
func (s *ComputeService) ComputeFile(ctx context.Context, inputPath string, cfg domain.ProjectConfig) (*domain.Report, error) {
	f, err := os.Open(inputPath)
	if err != nil {
		return nil, fmt.Errorf("opening input: %w", err)
	}
	defer f.Close()

	report, err := s.ComputeReader(ctx, f, cfg)
	if err != nil {
		return nil, err
	}
	report.Source = inputPath

	if s.git != nil {
		dir := filepath.Dir(inputPath)
		if abs, err := filepath.Abs(dir); err == nil {
			dir = abs
		}
		if s.git.IsGitRepo(dir) {
			if hash, err := s.git.CommitHash(dir); err == nil {
				report.CommitHash = hash
			}
		}
	}
	return report, nil
}

// ComputeReader reads invoices from r and computes them with cfg.
func (s *ComputeService) ComputeReader(ctx context.Context, r io.Reader, cfg domain.ProjectConfig) (*domain.Report, error) {
	records, err := s.source.Read(r, cfg.Defaults)
	if err != nil {
		return nil, fmt.Errorf("reading invoices: %w", err)
	}
	return s.ComputeRecords(ctx, records, cfg)
}

// ComputeRecords computes an in-memory batch, e.g. from manual entry.
func (s *ComputeService) ComputeRecords(ctx context.Context, records []domain.InvoiceRecord, cfg domain.ProjectConfig) (*domain.Report, error) {
	engine := NewEngine(cfg, s.logger)

	start := time.Now()
	results, err := engine.ComputeBatch(ctx, records)
	if err != nil {
		return nil, fmt.Errorf("computing batch: %w", err)
	}

	report := &domain.Report{
		RunID:     uuid.NewString(),
		Source:    "manual",
		Timestamp: start.UTC(),
		Results:   results,
	}
	s.logger.Info("batch computed",
		"run_id", report.RunID,
		"invoices", len(results),
		"solved", report.Solved(),
		"failed", report.Failed(),
		"elapsed", time.Since(start),
	)
	return report, nil
}
