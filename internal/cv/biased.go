package cv

import (
	"cvleak/domain/core"
	"cvleak/domain/dataset"
	"cvleak/domain/eval"
	"cvleak/internal/relevance"

	"golang.org/x/sync/errgroup"
)

// Evaluator runs the two cross-validation procedures against one
// generated dataset. The scorer and classifier are fixed across folds;
// only where selection happens differs between the procedures.
type Evaluator struct {
	scorer   relevance.Scorer
	factory  ClassifierFactory
	parallel bool
}

// NewEvaluator creates an evaluator. A nil factory defaults to the
// nearest-centroid classifier.
func NewEvaluator(scorer relevance.Scorer, factory ClassifierFactory, parallel bool) *Evaluator {
	if factory == nil {
		factory = func() Classifier { return NewNearestCentroid() }
	}
	return &Evaluator{scorer: scorer, factory: factory, parallel: parallel}
}

// RunBiased demonstrates the leakage bug: features are scored and
// selected ONCE on the full dataset, so every training fold has already
// seen its test fold during selection. On signal-free data the reported
// mean lands above chance.
func (e *Evaluator) RunBiased(bundle *dataset.Bundle, cfg eval.RunConfig) (*eval.ProcedureResult, error) {
	splits, err := e.prepare(bundle, cfg)
	if err != nil {
		return nil, err
	}

	// Selection on the FULL dataset - this is the deliberate mistake.
	ranked, rankWarnings, err := relevance.RankFeatures(bundle.Matrix, bundle.Labels, e.scorer)
	if err != nil {
		return nil, err
	}
	selected, err := relevance.TopK(ranked, cfg.SelectedFeatureCount)
	if err != nil {
		return nil, err
	}

	foldScores := make([]eval.FoldScore, len(splits))
	perFold := make([][]eval.WarningCode, len(splits))
	runFold := func(k int) error {
		score, err := e.scoreFold(bundle, splits[k], selected)
		if err != nil {
			return err
		}
		foldScores[k] = eval.FoldScore{FoldIndex: k, Score: score, SelectedFeatures: selected}
		perFold[k] = trainingWarnings(bundle.Labels.Subset(splits[k].TrainIndices))
		return nil
	}
	if err := e.forEachFold(len(splits), runFold); err != nil {
		return nil, err
	}

	warnings := append(rankWarnings, flattenWarnings(perFold)...)
	return e.finish(eval.ProcedureBiased, foldScores, bundle, dedupeWarnings(warnings))
}

// scoreFold fits a fresh classifier on the training partition restricted
// to the selected features and scores it on the held-out partition.
func (e *Evaluator) scoreFold(bundle *dataset.Bundle, split eval.Split, selected []int) (float64, error) {
	trainM := bundle.Matrix.SubsetRows(split.TrainIndices).SubsetColumns(selected)
	trainL := bundle.Labels.Subset(split.TrainIndices)
	testM := bundle.Matrix.SubsetRows(split.TestIndices).SubsetColumns(selected)
	testL := bundle.Labels.Subset(split.TestIndices)

	clf := e.factory()
	if err := clf.Fit(trainM, trainL); err != nil {
		return 0, err
	}
	return Accuracy(clf, testM, testL)
}

// prepare validates the config against the bundle and produces the fold
// assignment shared by both procedures.
func (e *Evaluator) prepare(bundle *dataset.Bundle, cfg eval.RunConfig) ([]eval.Split, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := bundle.Validate(); err != nil {
		return nil, err
	}
	if bundle.Matrix.Rows() != cfg.SampleCount {
		return nil, core.NewInvalidArgumentError("sample_count", "does not match dataset rows")
	}
	if bundle.Matrix.Cols() != cfg.VariableCount {
		return nil, core.NewInvalidArgumentError("variable_count", "does not match dataset columns")
	}
	if bundle.Labels.ClassCount != cfg.ClassCount {
		return nil, core.NewInvalidArgumentError("class_count", "does not match dataset labels")
	}

	return NewKFoldSplitter(cfg.FoldCount, cfg.Seed).Split(cfg.SampleCount)
}

// forEachFold runs the per-fold closure either sequentially or on an
// errgroup. Fold independence makes the parallel path purely a speed
// knob; results land in fold order either way.
func (e *Evaluator) forEachFold(foldCount int, runFold func(k int) error) error {
	if !e.parallel {
		for k := 0; k < foldCount; k++ {
			if err := runFold(k); err != nil {
				return err
			}
		}
		return nil
	}

	var g errgroup.Group
	for k := 0; k < foldCount; k++ {
		g.Go(func() error { return runFold(k) })
	}
	return g.Wait()
}

// finish aggregates ordered fold scores into the procedure result.
func (e *Evaluator) finish(proc eval.Procedure, foldScores []eval.FoldScore, bundle *dataset.Bundle, warnings []eval.WarningCode) (*eval.ProcedureResult, error) {
	scores := make([]float64, len(foldScores))
	for i, fs := range foldScores {
		scores[i] = fs.Score
	}
	summary, err := eval.Summarize(scores)
	if err != nil {
		return nil, err
	}

	return &eval.ProcedureResult{
		Procedure:   proc,
		FoldScores:  foldScores,
		Summary:     summary,
		ChanceLevel: bundle.Labels.ChanceLevel(),
		Warnings:    warnings,
	}, nil
}

// trainingWarnings flags a training partition too thin to estimate
// per-class statistics: any class with fewer than two rows.
func trainingWarnings(labels *dataset.Labels) []eval.WarningCode {
	counts := make([]int, labels.ClassCount)
	for _, v := range labels.Values {
		counts[v]++
	}
	for _, count := range counts {
		if count < 2 {
			return []eval.WarningCode{eval.WarningSmallFolds}
		}
	}
	return nil
}

// flattenWarnings concatenates per-fold warnings in fold order, keeping
// the result independent of how the folds were scheduled.
func flattenWarnings(perFold [][]eval.WarningCode) []eval.WarningCode {
	var out []eval.WarningCode
	for _, ws := range perFold {
		out = append(out, ws...)
	}
	return out
}

func dedupeWarnings(warnings []eval.WarningCode) []eval.WarningCode {
	if len(warnings) == 0 {
		return nil
	}
	seen := make(map[eval.WarningCode]bool, len(warnings))
	var out []eval.WarningCode
	for _, w := range warnings {
		if !seen[w] {
			seen[w] = true
			out = append(out, w)
		}
	}
	return out
}
