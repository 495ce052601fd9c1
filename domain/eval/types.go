package eval

import (
	"cvleak/domain/core"
)

// Procedure identifies which evaluation protocol produced a result.
type Procedure string

const (
	// ProcedureBiased selects features on the full dataset before
	// cross-validation. Test-fold information leaks into selection.
	ProcedureBiased Procedure = "biased"
	// ProcedureUnbiased re-selects features per fold from training
	// data only.
	ProcedureUnbiased Procedure = "unbiased"
)

// Split is one fold assignment: disjoint train/test observation indices.
type Split struct {
	FoldIndex    int   `json:"fold_index"`
	TrainIndices []int `json:"train_indices"`
	TestIndices  []int `json:"test_indices"`
}

// FoldScore is the held-out accuracy for one fold, along with the
// feature subset the classifier was restricted to.
type FoldScore struct {
	FoldIndex        int     `json:"fold_index"`
	Score            float64 `json:"score"`
	SelectedFeatures []int   `json:"selected_features"`
}

// Summary aggregates per-fold scores into a mean and standard error.
type Summary struct {
	Mean          float64 `json:"mean"`
	StandardError float64 `json:"standard_error"`
	FoldCount     int     `json:"fold_count"`
}

// WarningCode represents structured warning types
type WarningCode string

const (
	WarningZeroVariance WarningCode = "ZERO_VARIANCE" // Degenerate relevance input, ranked lowest
	WarningSmallFolds   WarningCode = "SMALL_FOLDS"   // Folds with fewer than 2 training rows per class
)

// ProcedureResult is the complete outcome of one evaluation procedure.
type ProcedureResult struct {
	Procedure   Procedure     `json:"procedure"`
	FoldScores  []FoldScore   `json:"fold_scores"`
	Summary     Summary       `json:"summary"`
	ChanceLevel float64       `json:"chance_level"`
	Warnings    []WarningCode `json:"warnings,omitempty"`
}

// Scores returns the ordered per-fold score values.
func (r *ProcedureResult) Scores() []float64 {
	scores := make([]float64, len(r.FoldScores))
	for i, fs := range r.FoldScores {
		scores[i] = fs.Score
	}
	return scores
}

// ExperimentRun pairs the two procedure results for one generated
// dataset, forming the complete leakage comparison.
type ExperimentRun struct {
	RunID     core.RunID      `json:"run_id"`
	DatasetID core.DatasetID  `json:"dataset_id"`
	Config    RunConfig       `json:"config"`
	Biased    ProcedureResult `json:"biased"`
	Unbiased  ProcedureResult `json:"unbiased"`
	RuntimeMs int64           `json:"runtime_ms"`
	CreatedAt core.Timestamp  `json:"created_at"`
}

// RunConfig captures every knob that determines a run. Identical
// configs must reproduce identical results.
type RunConfig struct {
	SampleCount          int   `json:"sample_count"`
	VariableCount        int   `json:"variable_count"`
	ClassCount           int   `json:"class_count"`
	FoldCount            int   `json:"fold_count"`
	SelectedFeatureCount int   `json:"selected_feature_count"`
	Seed                 int64 `json:"seed"`
}

// Validate checks the argument invariants shared by both procedures.
func (c RunConfig) Validate() error {
	if c.SampleCount <= 0 {
		return core.NewInvalidArgumentError("sample_count", "must be positive")
	}
	if c.VariableCount <= 0 {
		return core.NewInvalidArgumentError("variable_count", "must be positive")
	}
	if c.ClassCount <= 0 {
		return core.NewInvalidArgumentError("class_count", "must be positive")
	}
	if c.FoldCount < 2 {
		return core.NewInvalidArgumentError("fold_count", "must be at least 2")
	}
	if c.FoldCount > c.SampleCount {
		return core.NewInvalidArgumentError("fold_count", "cannot exceed sample_count")
	}
	if c.SelectedFeatureCount <= 0 {
		return core.NewInvalidArgumentError("selected_feature_count", "must be positive")
	}
	if c.SelectedFeatureCount > c.VariableCount {
		return core.NewInvalidArgumentError("selected_feature_count", "cannot exceed variable_count")
	}
	return nil
}

// ChanceLevel is the accuracy a no-signal classifier converges to.
func (c RunConfig) ChanceLevel() float64 {
	return 1.0 / float64(c.ClassCount)
}
