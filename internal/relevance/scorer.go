package relevance

import (
	"errors"
	"sort"

	"cvleak/domain/core"
	"cvleak/domain/dataset"
	"cvleak/domain/eval"
)

// ScoreResult represents the output of scoring one feature against the
// label vector.
type ScoreResult struct {
	Index      int              `json:"index"`
	Key        core.VariableKey `json:"key"`
	Score      float64          `json:"score"`
	PValue     float64          `json:"p_value"`
	Degenerate bool             `json:"degenerate,omitempty"`
}

// Scorer computes a univariate association score between one feature
// column and the class labels. Higher scores mean stronger apparent
// relevance.
type Scorer interface {
	Name() string
	Description() string
	Score(feature []float64, labels []int, classCount int) (score, pValue float64, err error)
}

// RankFeatures scores every column of the matrix against the labels.
// Degenerate features (zero variance, missing groups) are assigned the
// minimal score instead of failing the run; constant features also
// contribute a ZERO_VARIANCE warning. Degenerate label vectors (a
// single populated class) degrade the same way but are the fold's
// problem, not the feature's, so they carry no zero-variance label.
func RankFeatures(m *dataset.Matrix, labels *dataset.Labels, scorer Scorer) ([]ScoreResult, []eval.WarningCode, error) {
	results := make([]ScoreResult, m.Cols())
	var warnings []eval.WarningCode

	for j := 0; j < m.Cols(); j++ {
		score, pValue, err := scorer.Score(m.Column(j), labels.Values, labels.ClassCount)
		if err != nil {
			if core.IsNumericalDegenerateError(err) {
				// Lowest-rank policy: a feature whose relevance is
				// undefined cannot win selection.
				results[j] = ScoreResult{Index: j, Key: m.VariableKeys[j], Score: 0, PValue: 1.0, Degenerate: true}
				if errors.Is(err, core.ErrZeroVariance) {
					warnings = append(warnings, eval.WarningZeroVariance)
				}
				continue
			}
			return nil, nil, err
		}
		results[j] = ScoreResult{Index: j, Key: m.VariableKeys[j], Score: score, PValue: pValue}
	}

	return results, warnings, nil
}

// TopK returns the indices of the k highest-scoring features in
// ascending index order. Ties break on the lower index so selection is
// deterministic.
func TopK(results []ScoreResult, k int) ([]int, error) {
	if k <= 0 {
		return nil, core.NewInvalidArgumentError("selected_feature_count", "must be positive")
	}
	if k > len(results) {
		return nil, core.NewInvalidArgumentError("selected_feature_count", "cannot exceed variable_count")
	}

	ranked := make([]ScoreResult, len(results))
	copy(ranked, results)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].Index < ranked[j].Index
	})

	selected := make([]int, k)
	for i := 0; i < k; i++ {
		selected[i] = ranked[i].Index
	}
	sort.Ints(selected)
	return selected, nil
}
