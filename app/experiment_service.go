package app

import (
	"context"
	"time"

	"cvleak/domain/core"
	"cvleak/domain/dataset"
	"cvleak/domain/eval"
	"cvleak/internal"
	"cvleak/internal/config"
	"cvleak/internal/cv"
	"cvleak/internal/relevance"
	"cvleak/internal/synth"
	"cvleak/ports"
)

// ExperimentService orchestrates one full leakage demonstration:
// generate a signal-free dataset, evaluate it with both procedures, and
// optionally persist and export the comparison.
type ExperimentService struct {
	logger   *internal.Logger
	ledger   ports.RunLedger
	exporter ports.RunExporter
	parallel bool
}

// NewExperimentService creates the service. The ledger and exporter are
// optional; nil disables persistence and export respectively.
func NewExperimentService(logger *internal.Logger, ledger ports.RunLedger, exporter ports.RunExporter, parallel bool) *ExperimentService {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &ExperimentService{logger: logger, ledger: ledger, exporter: exporter, parallel: parallel}
}

// ConfigFromExperiment maps environment configuration onto a run config.
func ConfigFromExperiment(exp config.ExperimentConfig) eval.RunConfig {
	return eval.RunConfig{
		SampleCount:          exp.SampleCount,
		VariableCount:        exp.VariableCount,
		ClassCount:           exp.ClassCount,
		FoldCount:            exp.FoldCount,
		SelectedFeatureCount: exp.SelectedFeatureCount,
		Seed:                 exp.Seed,
	}
}

// Run executes both procedures on one freshly generated dataset and
// returns the paired results. Identical configs reproduce identical
// results.
func (s *ExperimentService) Run(ctx context.Context, cfg eval.RunConfig) (*eval.ExperimentRun, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	started := time.Now()
	s.logger.Info("generating dataset: %d samples x %d variables, %d classes, seed %d",
		cfg.SampleCount, cfg.VariableCount, cfg.ClassCount, cfg.Seed)

	bundle, err := synth.NewGenerator(cfg.Seed).Generate(cfg.SampleCount, cfg.VariableCount, cfg.ClassCount)
	if err != nil {
		return nil, err
	}

	evaluator := cv.NewEvaluator(relevance.NewANOVAFScorer(), nil, s.parallel)

	s.logger.Info("running biased procedure (selection before CV)")
	biased, err := evaluator.RunBiased(bundle, cfg)
	if err != nil {
		return nil, err
	}
	s.logger.Info("biased accuracy: %.3f ± %.3f", biased.Summary.Mean, biased.Summary.StandardError)

	s.logger.Info("running unbiased procedure (selection inside each fold)")
	unbiased, err := evaluator.RunUnbiased(bundle, cfg)
	if err != nil {
		return nil, err
	}
	s.logger.Info("unbiased accuracy: %.3f ± %.3f", unbiased.Summary.Mean, unbiased.Summary.StandardError)

	run := &eval.ExperimentRun{
		RunID:     core.NewRunID(),
		DatasetID: bundle.DatasetID,
		Config:    cfg,
		Biased:    *biased,
		Unbiased:  *unbiased,
		RuntimeMs: time.Since(started).Milliseconds(),
		CreatedAt: core.Now(),
	}

	if s.ledger != nil {
		if err := s.ledger.SaveRun(ctx, run); err != nil {
			return nil, err
		}
		s.logger.Debug("run %s persisted", run.RunID)
	}

	return run, nil
}

// Export writes a run to an .xlsx workbook at path, including a
// descriptive profile of every variable. The generator is
// deterministic, so the dataset is rebuilt from the run's config rather
// than carried around in memory.
func (s *ExperimentService) Export(run *eval.ExperimentRun, path string) error {
	if s.exporter == nil {
		return core.NewInvalidArgumentError("exporter", "is not configured")
	}

	bundle, err := synth.NewGenerator(run.Config.Seed).Generate(
		run.Config.SampleCount, run.Config.VariableCount, run.Config.ClassCount)
	if err != nil {
		return err
	}
	profiles := dataset.ProfileVariables(bundle.Matrix)

	if err := s.exporter.Export(run, profiles, path); err != nil {
		return err
	}
	s.logger.Info("run %s exported to %s", run.RunID, path)
	return nil
}

// GetRun returns one persisted run by ID.
func (s *ExperimentService) GetRun(ctx context.Context, runID core.RunID) (*eval.ExperimentRun, error) {
	if s.ledger == nil {
		return nil, core.NewNotFoundError("run", string(runID))
	}
	return s.ledger.GetRun(ctx, runID)
}

// LatestRun returns the most recent persisted run.
func (s *ExperimentService) LatestRun(ctx context.Context) (*eval.ExperimentRun, error) {
	if s.ledger == nil {
		return nil, core.ErrRunNotFound
	}
	return s.ledger.LatestRun(ctx)
}

// ListRuns returns up to limit persisted runs, newest first.
func (s *ExperimentService) ListRuns(ctx context.Context, limit int) ([]*eval.ExperimentRun, error) {
	if s.ledger == nil {
		return nil, core.ErrRunNotFound
	}
	return s.ledger.ListRuns(ctx, limit)
}
