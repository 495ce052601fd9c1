package cv

import (
	"cvleak/domain/dataset"
	"cvleak/domain/eval"
	"cvleak/internal/relevance"
)

// RunUnbiased is the correct procedure: each fold re-derives its
// feature subset from the training partition alone, so no test-fold
// information can influence selection. On signal-free data the reported
// mean converges to chance.
func (e *Evaluator) RunUnbiased(bundle *dataset.Bundle, cfg eval.RunConfig) (*eval.ProcedureResult, error) {
	splits, err := e.prepare(bundle, cfg)
	if err != nil {
		return nil, err
	}

	foldScores := make([]eval.FoldScore, len(splits))
	perFold := make([][]eval.WarningCode, len(splits))

	runFold := func(k int) error {
		split := splits[k]
		trainM := bundle.Matrix.SubsetRows(split.TrainIndices)
		trainL := bundle.Labels.Subset(split.TrainIndices)

		// Selection sees training data only.
		ranked, rankWarnings, err := relevance.RankFeatures(trainM, trainL, e.scorer)
		if err != nil {
			return err
		}
		selected, err := relevance.TopK(ranked, cfg.SelectedFeatureCount)
		if err != nil {
			return err
		}

		score, err := e.scoreFold(bundle, split, selected)
		if err != nil {
			return err
		}

		foldScores[k] = eval.FoldScore{FoldIndex: k, Score: score, SelectedFeatures: selected}
		perFold[k] = append(rankWarnings, trainingWarnings(trainL)...)
		return nil
	}

	if err := e.forEachFold(len(splits), runFold); err != nil {
		return nil, err
	}

	return e.finish(eval.ProcedureUnbiased, foldScores, bundle, dedupeWarnings(flattenWarnings(perFold)))
}
