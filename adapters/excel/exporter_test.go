package excel

import (
	"path/filepath"
	"testing"

	"cvleak/domain/core"
	"cvleak/domain/dataset"
	"cvleak/domain/eval"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func exportRun() *eval.ExperimentRun {
	makeResult := func(proc eval.Procedure, scores []float64) eval.ProcedureResult {
		folds := make([]eval.FoldScore, len(scores))
		for i, s := range scores {
			folds[i] = eval.FoldScore{FoldIndex: i, Score: s, SelectedFeatures: []int{3, 7, 11}}
		}
		summary, _ := eval.Summarize(scores)
		return eval.ProcedureResult{Procedure: proc, FoldScores: folds, Summary: summary, ChanceLevel: 0.5}
	}

	return &eval.ExperimentRun{
		RunID:     core.RunID("run-export-1"),
		DatasetID: core.DatasetID("ds-export-1"),
		Config: eval.RunConfig{
			SampleCount: 50, VariableCount: 500, ClassCount: 2,
			FoldCount: 5, SelectedFeatureCount: 3, Seed: 42,
		},
		Biased:    makeResult(eval.ProcedureBiased, []float64{0.7, 0.6, 0.8, 0.6, 0.7}),
		Unbiased:  makeResult(eval.ProcedureUnbiased, []float64{0.5, 0.52, 0.48, 0.51, 0.49}),
		RuntimeMs: 90,
		CreatedAt: core.Now(),
	}
}

func exportProfiles() []dataset.VariableProfile {
	return []dataset.VariableProfile{
		{VariableKey: "x0000", Mean: 0.02, StdDev: 0.98, Min: -2.7, Max: 2.9},
		{VariableKey: "x0001", Mean: -0.01, StdDev: 1.03, Min: -3.1, Max: 2.4},
	}
}

func TestExportWritesWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.xlsx")

	require.NoError(t, NewExporter().Export(exportRun(), exportProfiles(), path))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	sheets := f.GetSheetList()
	assert.Contains(t, sheets, "Summary")
	assert.Contains(t, sheets, "Biased Folds")
	assert.Contains(t, sheets, "Unbiased Folds")
	assert.NotContains(t, sheets, "Sheet1")

	runID, err := f.GetCellValue("Summary", "B1")
	require.NoError(t, err)
	assert.Equal(t, "run-export-1", runID)

	header, err := f.GetCellValue("Biased Folds", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Fold", header)

	firstScore, err := f.GetCellValue("Unbiased Folds", "B2")
	require.NoError(t, err)
	assert.Equal(t, "0.5", firstScore)
}

func TestExportWritesProfileSheet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.xlsx")

	require.NoError(t, NewExporter().Export(exportRun(), exportProfiles(), path))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Contains(t, f.GetSheetList(), "Variable Profiles")

	header, err := f.GetCellValue("Variable Profiles", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Variable", header)

	key, err := f.GetCellValue("Variable Profiles", "A3")
	require.NoError(t, err)
	assert.Equal(t, "x0001", key)

	mean, err := f.GetCellValue("Variable Profiles", "B2")
	require.NoError(t, err)
	assert.Equal(t, "0.02", mean)
}
