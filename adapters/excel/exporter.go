package excel

import (
	"fmt"

	"cvleak/domain/dataset"
	"cvleak/domain/eval"
	"cvleak/internal/errors"
	"cvleak/internal/report"
	"cvleak/ports"

	"github.com/xuri/excelize/v2"
	"gonum.org/v1/gonum/stat"
)

// Exporter writes a completed run to an .xlsx workbook: a summary
// sheet, one fold-by-fold sheet per procedure, and a per-variable
// profile sheet.
type Exporter struct{}

// NewExporter creates a workbook exporter.
func NewExporter() ports.RunExporter {
	return &Exporter{}
}

// Export writes the run to path, replacing any existing file.
func (e *Exporter) Export(run *eval.ExperimentRun, profiles []dataset.VariableProfile, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := e.writeSummarySheet(f, run); err != nil {
		return err
	}
	if err := e.writeFoldSheet(f, "Biased Folds", &run.Biased); err != nil {
		return err
	}
	if err := e.writeFoldSheet(f, "Unbiased Folds", &run.Unbiased); err != nil {
		return err
	}
	if err := e.writeProfileSheet(f, profiles); err != nil {
		return err
	}

	// The default sheet is replaced by Summary.
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return errors.ExportError("failed to remove default sheet", err)
	}

	if err := f.SaveAs(path); err != nil {
		return errors.ExportError(fmt.Sprintf("failed to save workbook to %s", path), err)
	}
	return nil
}

func (e *Exporter) writeSummarySheet(f *excelize.File, run *eval.ExperimentRun) error {
	const sheet = "Summary"
	if _, err := f.NewSheet(sheet); err != nil {
		return errors.ExportError("failed to create summary sheet", err)
	}

	rows := [][]interface{}{
		{"Run ID", run.RunID.String()},
		{"Dataset ID", run.DatasetID.String()},
		{"Created", run.CreatedAt.Time().Format("2006-01-02 15:04:05")},
		{"Samples", run.Config.SampleCount},
		{"Variables", run.Config.VariableCount},
		{"Classes", run.Config.ClassCount},
		{"Folds", run.Config.FoldCount},
		{"Selected features", run.Config.SelectedFeatureCount},
		{"Seed", run.Config.Seed},
		{"Chance level", run.Config.ChanceLevel()},
		{},
		{"Biased accuracy", report.FormatSummary(run.Biased.Summary)},
		{"Unbiased accuracy", report.FormatSummary(run.Unbiased.Summary)},
		{"Inflation (points)", (run.Biased.Summary.Mean - run.Unbiased.Summary.Mean) * 100},
		{"Fold score correlation", foldScoreCorrelation(run)},
		{"Runtime (ms)", run.RuntimeMs},
	}

	for i, row := range rows {
		for j, v := range row {
			cell, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				return errors.ExportError("failed to compute cell name", err)
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return errors.ExportError("failed to write summary cell", err)
			}
		}
	}
	return nil
}

func (e *Exporter) writeFoldSheet(f *excelize.File, sheet string, result *eval.ProcedureResult) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return errors.ExportError("failed to create fold sheet", err)
	}

	headers := []string{"Fold", "Accuracy", "Selected Features"}
	for j, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(j+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return errors.ExportError("failed to write fold header", err)
		}
	}

	for i, fs := range result.FoldScores {
		values := []interface{}{fs.FoldIndex, fs.Score, fmt.Sprint(fs.SelectedFeatures)}
		for j, v := range values {
			cell, _ := excelize.CoordinatesToCellName(j+1, i+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return errors.ExportError("failed to write fold row", err)
			}
		}
	}
	return nil
}

// writeProfileSheet lists descriptive statistics for every variable.
// On signal-free data every row should look like a standard normal.
func (e *Exporter) writeProfileSheet(f *excelize.File, profiles []dataset.VariableProfile) error {
	const sheet = "Variable Profiles"
	if _, err := f.NewSheet(sheet); err != nil {
		return errors.ExportError("failed to create profile sheet", err)
	}

	headers := []string{"Variable", "Mean", "StdDev", "Min", "Max"}
	for j, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(j+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return errors.ExportError("failed to write profile header", err)
		}
	}

	for i, p := range profiles {
		values := []interface{}{p.VariableKey.String(), p.Mean, p.StdDev, p.Min, p.Max}
		for j, v := range values {
			cell, _ := excelize.CoordinatesToCellName(j+1, i+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return errors.ExportError("failed to write profile row", err)
			}
		}
	}
	return nil
}

// foldScoreCorrelation measures how the two procedures' per-fold scores
// move together. Folds share test partitions, so some correlation is
// expected even on noise.
func foldScoreCorrelation(run *eval.ExperimentRun) float64 {
	return stat.Correlation(run.Biased.Scores(), run.Unbiased.Scores(), nil)
}
