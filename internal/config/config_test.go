package config

import (
	"testing"

	"cvleak/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 50, cfg.Experiment.SampleCount)
	assert.Equal(t, 500, cfg.Experiment.VariableCount)
	assert.Equal(t, 2, cfg.Experiment.ClassCount)
	assert.Equal(t, 5, cfg.Experiment.FoldCount)
	assert.Equal(t, 10, cfg.Experiment.SelectedFeatureCount)
	assert.Equal(t, int64(42), cfg.Experiment.Seed)
	assert.False(t, cfg.Experiment.ParallelFolds)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "", cfg.Database.URL)
	assert.Equal(t, "cvleak_report.xlsx", cfg.Export.OutputFile)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("SAMPLE_COUNT", "80")
	t.Setenv("FOLD_COUNT", "8")
	t.Setenv("RANDOM_SEED", "1234")
	t.Setenv("PARALLEL_FOLDS", "true")
	t.Setenv("PORT", "9000")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 80, cfg.Experiment.SampleCount)
	assert.Equal(t, 8, cfg.Experiment.FoldCount)
	assert.Equal(t, int64(1234), cfg.Experiment.Seed)
	assert.True(t, cfg.Experiment.ParallelFolds)
	assert.Equal(t, "9000", cfg.Server.Port)
}

func TestLoadRejectsInvalidExperiment(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"zero samples", "SAMPLE_COUNT", "0"},
		{"one fold", "FOLD_COUNT", "1"},
		{"folds beyond samples", "FOLD_COUNT", "51"},
		{"selection beyond variables", "SELECTED_FEATURE_COUNT", "501"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			require.Error(t, err)
			assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))
		})
	}
}

func TestMalformedEnvFallsBackToDefault(t *testing.T) {
	t.Setenv("SAMPLE_COUNT", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 50, cfg.Experiment.SampleCount)
}
