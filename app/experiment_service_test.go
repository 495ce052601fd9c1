package app

import (
	"context"
	"testing"

	"cvleak/domain/core"
	"cvleak/domain/dataset"
	"cvleak/domain/eval"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryLedger keeps runs in memory, newest last.
type memoryLedger struct {
	runs []*eval.ExperimentRun
}

func (m *memoryLedger) SaveRun(_ context.Context, run *eval.ExperimentRun) error {
	m.runs = append(m.runs, run)
	return nil
}

func (m *memoryLedger) GetRun(_ context.Context, runID core.RunID) (*eval.ExperimentRun, error) {
	for _, run := range m.runs {
		if run.RunID == runID {
			return run, nil
		}
	}
	return nil, core.ErrRunNotFound
}

func (m *memoryLedger) LatestRun(_ context.Context) (*eval.ExperimentRun, error) {
	if len(m.runs) == 0 {
		return nil, core.ErrRunNotFound
	}
	return m.runs[len(m.runs)-1], nil
}

func (m *memoryLedger) ListRuns(_ context.Context, limit int) ([]*eval.ExperimentRun, error) {
	out := make([]*eval.ExperimentRun, 0, limit)
	for i := len(m.runs) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, m.runs[i])
	}
	return out, nil
}

func smallConfig() eval.RunConfig {
	return eval.RunConfig{
		SampleCount:          30,
		VariableCount:        60,
		ClassCount:           2,
		FoldCount:            5,
		SelectedFeatureCount: 5,
		Seed:                 42,
	}
}

func TestRunProducesBothProcedures(t *testing.T) {
	service := NewExperimentService(nil, nil, nil, false)

	run, err := service.Run(context.Background(), smallConfig())
	require.NoError(t, err)

	assert.False(t, core.ID(run.RunID).IsEmpty())
	assert.False(t, core.ID(run.DatasetID).IsEmpty())
	assert.Equal(t, eval.ProcedureBiased, run.Biased.Procedure)
	assert.Equal(t, eval.ProcedureUnbiased, run.Unbiased.Procedure)
	assert.Len(t, run.Biased.FoldScores, 5)
	assert.Len(t, run.Unbiased.FoldScores, 5)
	assert.Equal(t, 0.5, run.Biased.ChanceLevel)
	assert.False(t, run.CreatedAt.IsZero())
	assert.GreaterOrEqual(t, run.RuntimeMs, int64(0))
}

func TestRunDeterministicAcrossInvocations(t *testing.T) {
	service := NewExperimentService(nil, nil, nil, false)
	cfg := smallConfig()

	a, err := service.Run(context.Background(), cfg)
	require.NoError(t, err)
	b, err := service.Run(context.Background(), cfg)
	require.NoError(t, err)

	// Fresh IDs, identical science.
	assert.NotEqual(t, a.RunID, b.RunID)
	assert.Equal(t, a.Biased.FoldScores, b.Biased.FoldScores)
	assert.Equal(t, a.Unbiased.FoldScores, b.Unbiased.FoldScores)
	assert.Equal(t, a.Biased.Summary, b.Biased.Summary)
	assert.Equal(t, a.Unbiased.Summary, b.Unbiased.Summary)
}

func TestRunRejectsInvalidConfig(t *testing.T) {
	service := NewExperimentService(nil, nil, nil, false)

	cfg := smallConfig()
	cfg.SampleCount = 0
	_, err := service.Run(context.Background(), cfg)
	require.Error(t, err)
	assert.True(t, core.IsInvalidArgumentError(err))
}

func TestRunPersistsToLedger(t *testing.T) {
	ledger := &memoryLedger{}
	service := NewExperimentService(nil, ledger, nil, false)

	run, err := service.Run(context.Background(), smallConfig())
	require.NoError(t, err)

	latest, err := service.LatestRun(context.Background())
	require.NoError(t, err)
	assert.Equal(t, run.RunID, latest.RunID)

	listed, err := service.ListRuns(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, listed, 1)
}

func TestLatestRunWithoutLedger(t *testing.T) {
	service := NewExperimentService(nil, nil, nil, false)

	_, err := service.LatestRun(context.Background())
	require.Error(t, err)
	assert.True(t, core.IsNotFoundError(err))
}

// captureExporter records what the service hands to the export port.
type captureExporter struct {
	run      *eval.ExperimentRun
	profiles []dataset.VariableProfile
	path     string
}

func (c *captureExporter) Export(run *eval.ExperimentRun, profiles []dataset.VariableProfile, path string) error {
	c.run = run
	c.profiles = profiles
	c.path = path
	return nil
}

func TestGetRunRetrievesOlderRuns(t *testing.T) {
	ledger := &memoryLedger{}
	service := NewExperimentService(nil, ledger, nil, false)

	older, err := service.Run(context.Background(), smallConfig())
	require.NoError(t, err)
	newer, err := service.Run(context.Background(), smallConfig())
	require.NoError(t, err)

	latest, err := service.LatestRun(context.Background())
	require.NoError(t, err)
	require.Equal(t, newer.RunID, latest.RunID)

	// Runs that are no longer the latest stay reachable by ID.
	got, err := service.GetRun(context.Background(), older.RunID)
	require.NoError(t, err)
	assert.Equal(t, older.RunID, got.RunID)

	_, err = service.GetRun(context.Background(), core.RunID("missing"))
	require.Error(t, err)
	assert.True(t, core.IsNotFoundError(err))
}

func TestGetRunWithoutLedger(t *testing.T) {
	service := NewExperimentService(nil, nil, nil, false)

	_, err := service.GetRun(context.Background(), core.RunID("anything"))
	require.Error(t, err)
	assert.True(t, core.IsNotFoundError(err))
}

func TestExportIncludesVariableProfiles(t *testing.T) {
	exporter := &captureExporter{}
	service := NewExperimentService(nil, nil, exporter, false)

	cfg := smallConfig()
	run, err := service.Run(context.Background(), cfg)
	require.NoError(t, err)

	require.NoError(t, service.Export(run, "out.xlsx"))

	assert.Equal(t, run.RunID, exporter.run.RunID)
	assert.Equal(t, "out.xlsx", exporter.path)
	// One profile per variable, rebuilt deterministically from the config.
	require.Len(t, exporter.profiles, cfg.VariableCount)
	assert.Equal(t, core.VariableKey("x0000"), exporter.profiles[0].VariableKey)
}

func TestExportWithoutExporter(t *testing.T) {
	service := NewExperimentService(nil, nil, nil, false)
	run, err := service.Run(context.Background(), smallConfig())
	require.NoError(t, err)

	err = service.Export(run, "out.xlsx")
	require.Error(t, err)
	assert.True(t, core.IsInvalidArgumentError(err))
}
