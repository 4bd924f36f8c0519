package app

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"time"

	"gotreat/domain/core"
	"gotreat/domain/simulation"
	"gotreat/internal"
	"gotreat/ports"

	"golang.org/x/sync/errgroup"
)

// BatchService runs many scenarios concurrently.
type BatchService struct {
	simulator *SimulationService
	exporter  ports.ResultExporter
	workers   int
	logger    *internal.Logger
}

// BatchRequest defines the scenarios of one batch. Options.Seed is the base
// seed; every scenario gets its own seed derived from it and the scenario
// index. ExportDir is optional.
type BatchRequest struct {
	Scenarios []simulation.Scenario
	Options   simulation.Options
	CaseStudy ports.CaseStudyProvider
	ExportDir string
}

// BatchResult holds the results in scenario order.
type BatchResult struct {
	BatchID core.BatchID         `json:"batch_id"`
	Results []*simulation.Result `json:"results"`
	Files   []string             `json:"files,omitempty"`
	Elapsed core.Elapsed         `json:"elapsed"`
}

// NewBatchService creates a batch service. A nil exporter disables exports;
// workers below one run the scenarios one at a time.
func NewBatchService(simulator *SimulationService, exporter ports.ResultExporter, workers int) *BatchService {
	if workers < 1 {
		workers = 1
	}
	return &BatchService{
		simulator: simulator,
		exporter:  exporter,
		workers:   workers,
		logger:    internal.DefaultLogger.With("batch"),
	}
}

// ScenarioSeed returns the seed used for the scenario at index in a batch
// with the given base seed.
func ScenarioSeed(base uint64, index int) uint64 {
	return core.DeriveSeed(base, strconv.Itoa(index))
}

// Run simulates every scenario. The first error cancels the remaining
// scenarios and is returned.
func (b *BatchService) Run(ctx context.Context, req BatchRequest) (*BatchResult, error) {
	startTime := time.Now()
	batchID := core.NewBatchID()
	b.logger.Info("batch %s: %d scenarios on %d workers", batchID, len(req.Scenarios), b.workers)

	results := make([]*simulation.Result, len(req.Scenarios))
	files := make([]string, len(req.Scenarios))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.workers)
	for i, sc := range req.Scenarios {
		g.Go(func() error {
			opts := req.Options
			opts.Seed = ScenarioSeed(req.Options.Seed, i)

			res, err := b.simulator.Simulate(gctx, SimulationRequest{Scenario: sc, Options: opts, CaseStudy: req.CaseStudy})
			if err != nil {
				return fmt.Errorf("scenario %s: %w", sc.Name, err)
			}
			results[i] = res

			if b.exporter != nil && req.ExportDir != "" {
				path := filepath.Join(req.ExportDir, sc.Name+b.exporter.Extension())
				if err := b.exporter.Export(gctx, res, path); err != nil {
					return fmt.Errorf("scenario %s: failed to export: %w", sc.Name, err)
				}
				files[i] = path
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := &BatchResult{
		BatchID: batchID,
		Results: results,
		Elapsed: core.Elapsed(time.Since(startTime)),
	}
	if b.exporter != nil && req.ExportDir != "" {
		out.Files = files
	}
	b.logger.Info("batch %s finished in %s", batchID, time.Since(startTime).Round(time.Millisecond))
	return out, nil
}
