package report

import (
	"fmt"
	"strings"

	"cvleak/domain/eval"
)

// Text renders an experiment run as a plain-text comparison of the two
// procedures. Fold scores appear in fold order; the headline numbers
// are mean plus or minus one standard error.
func Text(run *eval.ExperimentRun) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Selection leakage demonstration (run %s)\n", run.RunID)
	fmt.Fprintf(&b, "dataset: %d samples x %d variables, %d classes, seed %d\n",
		run.Config.SampleCount, run.Config.VariableCount, run.Config.ClassCount, run.Config.Seed)
	fmt.Fprintf(&b, "protocol: %d-fold CV, top %d features\n",
		run.Config.FoldCount, run.Config.SelectedFeatureCount)
	fmt.Fprintf(&b, "chance level: %.1f%%\n\n", run.Config.ChanceLevel()*100)

	writeProcedure(&b, &run.Biased, "Biased (selection before CV)")
	b.WriteString("\n")
	writeProcedure(&b, &run.Unbiased, "Unbiased (selection inside each fold)")

	inflation := run.Biased.Summary.Mean - run.Unbiased.Summary.Mean
	fmt.Fprintf(&b, "\nInflation from leakage: %+.1f points\n", inflation*100)
	fmt.Fprintf(&b, "runtime: %dms\n", run.RuntimeMs)

	return b.String()
}

func writeProcedure(b *strings.Builder, result *eval.ProcedureResult, title string) {
	fmt.Fprintf(b, "%s\n", title)
	fmt.Fprintf(b, "  folds: %s\n", FormatScores(result.Scores()))
	fmt.Fprintf(b, "  accuracy: %s\n", FormatSummary(result.Summary))
	for _, w := range result.Warnings {
		fmt.Fprintf(b, "  warning: %s\n", w)
	}
}

// FormatScores renders ordered fold scores as percentages, e.g.
// "[52.0% 48.0% 50.0%]".
func FormatScores(scores []float64) string {
	parts := make([]string, len(scores))
	for i, s := range scores {
		parts[i] = fmt.Sprintf("%.1f%%", s*100)
	}
	return "[" + strings.Join(parts, " ") + "]"
}

// FormatSummary renders a summary as "(mean ± stderr)%".
func FormatSummary(s eval.Summary) string {
	return fmt.Sprintf("(%.1f ± %.1f)%%", s.Mean*100, s.StandardError*100)
}
