package ports

import (
	"context"

	"cvleak/domain/core"
	"cvleak/domain/dataset"
	"cvleak/domain/eval"
)

// RunLedger persists completed experiment runs so repeated invocations
// with the same seed can be compared over time.
type RunLedger interface {
	// SaveRun stores a completed run with both procedure results.
	SaveRun(ctx context.Context, run *eval.ExperimentRun) error

	// GetRun retrieves one run by ID.
	GetRun(ctx context.Context, runID core.RunID) (*eval.ExperimentRun, error)

	// LatestRun returns the most recently created run.
	LatestRun(ctx context.Context) (*eval.ExperimentRun, error)

	// ListRuns returns up to limit runs, newest first.
	ListRuns(ctx context.Context, limit int) ([]*eval.ExperimentRun, error)
}

// RunExporter writes a completed run, along with descriptive profiles
// of its dataset's variables, to an external artifact such as a
// spreadsheet.
type RunExporter interface {
	Export(run *eval.ExperimentRun, profiles []dataset.VariableProfile, path string) error
}
