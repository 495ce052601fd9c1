package synth

import (
	"testing"

	"cvleak/domain/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateShape(t *testing.T) {
	bundle, err := NewGenerator(42).Generate(20, 30, 2)
	require.NoError(t, err)

	assert.Equal(t, 20, bundle.Matrix.Rows())
	assert.Equal(t, 30, bundle.Matrix.Cols())
	assert.Equal(t, 20, bundle.Labels.Len())
	assert.Len(t, bundle.Matrix.VariableKeys, 30)
	assert.False(t, bundle.DatasetID.String() == "")
}

func TestGenerateLabelsInRange(t *testing.T) {
	bundle, err := NewGenerator(7).Generate(200, 5, 3)
	require.NoError(t, err)

	seen := make(map[int]bool)
	for _, label := range bundle.Labels.Values {
		require.GreaterOrEqual(t, label, 0)
		require.Less(t, label, 3)
		seen[label] = true
	}
	// 200 uniform draws over 3 classes hit every class.
	assert.Len(t, seen, 3)
}

func TestGenerateDeterministic(t *testing.T) {
	a, err := NewGenerator(99).Generate(15, 25, 2)
	require.NoError(t, err)
	b, err := NewGenerator(99).Generate(15, 25, 2)
	require.NoError(t, err)

	assert.Equal(t, a.Matrix.Data, b.Matrix.Data)
	assert.Equal(t, a.Labels.Values, b.Labels.Values)
	assert.Equal(t, a.Matrix.VariableKeys, b.Matrix.VariableKeys)
}

func TestGenerateSeedsDiverge(t *testing.T) {
	a, err := NewGenerator(1).Generate(10, 10, 2)
	require.NoError(t, err)
	b, err := NewGenerator(2).Generate(10, 10, 2)
	require.NoError(t, err)

	assert.NotEqual(t, a.Matrix.Data, b.Matrix.Data)
}

func TestGenerateInvalidSizes(t *testing.T) {
	g := NewGenerator(42)

	tests := []struct {
		name                           string
		samples, variables, classCount int
	}{
		{"zero samples", 0, 10, 2},
		{"negative samples", -5, 10, 2},
		{"zero variables", 10, 0, 2},
		{"zero classes", 10, 10, 0},
		{"negative classes", 10, 10, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := g.Generate(tt.samples, tt.variables, tt.classCount)
			require.Error(t, err)
			assert.True(t, core.IsInvalidArgumentError(err))
		})
	}
}

func TestGenerateVariableKeysStable(t *testing.T) {
	bundle, err := NewGenerator(3).Generate(5, 12, 2)
	require.NoError(t, err)

	assert.Equal(t, core.VariableKey("x0000"), bundle.Matrix.VariableKeys[0])
	assert.Equal(t, core.VariableKey("x0011"), bundle.Matrix.VariableKeys[11])
}
