package cv

import (
	"testing"

	"cvleak/domain/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitPartitionsAllIndices(t *testing.T) {
	splits, err := NewKFoldSplitter(5, 42).Split(23)
	require.NoError(t, err)
	require.Len(t, splits, 5)

	seen := make(map[int]int)
	for k, split := range splits {
		assert.Equal(t, k, split.FoldIndex)
		for _, idx := range split.TestIndices {
			seen[idx]++
		}
		// Train and test together cover every observation exactly once.
		assert.Equal(t, 23, len(split.TrainIndices)+len(split.TestIndices))
	}

	require.Len(t, seen, 23)
	for idx, count := range seen {
		assert.Equal(t, 1, count, "index %d appears in %d test folds", idx, count)
	}
}

func TestSplitFoldSizesDifferByAtMostOne(t *testing.T) {
	splits, err := NewKFoldSplitter(4, 1).Split(10)
	require.NoError(t, err)

	// 10 = 3+3+2+2: the first 10%4 folds take the extra index.
	sizes := make([]int, len(splits))
	for k, split := range splits {
		sizes[k] = len(split.TestIndices)
	}
	assert.Equal(t, []int{3, 3, 2, 2}, sizes)
}

func TestSplitTrainAndTestDisjoint(t *testing.T) {
	splits, err := NewKFoldSplitter(3, 9).Split(12)
	require.NoError(t, err)

	for _, split := range splits {
		inTest := make(map[int]bool)
		for _, idx := range split.TestIndices {
			inTest[idx] = true
		}
		for _, idx := range split.TrainIndices {
			assert.False(t, inTest[idx], "index %d in both partitions of fold %d", idx, split.FoldIndex)
		}
	}
}

func TestSplitDeterministic(t *testing.T) {
	a, err := NewKFoldSplitter(5, 42).Split(50)
	require.NoError(t, err)
	b, err := NewKFoldSplitter(5, 42).Split(50)
	require.NoError(t, err)
	assert.Equal(t, a, b)

	c, err := NewKFoldSplitter(5, 43).Split(50)
	require.NoError(t, err)
	assert.NotEqual(t, a, c)
}

func TestSplitLeaveOneOut(t *testing.T) {
	splits, err := NewKFoldSplitter(8, 3).Split(8)
	require.NoError(t, err)
	require.Len(t, splits, 8)

	for _, split := range splits {
		assert.Len(t, split.TestIndices, 1)
		assert.Len(t, split.TrainIndices, 7)
	}
}

func TestSplitInvalidArguments(t *testing.T) {
	tests := []struct {
		name        string
		foldCount   int
		sampleCount int
	}{
		{"zero samples", 5, 0},
		{"negative samples", 5, -1},
		{"one fold", 1, 10},
		{"more folds than samples", 11, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewKFoldSplitter(tt.foldCount, 0).Split(tt.sampleCount)
			require.Error(t, err)
			assert.True(t, core.IsInvalidArgumentError(err))
		})
	}
}

func TestSplitIndicesSorted(t *testing.T) {
	splits, err := NewKFoldSplitter(4, 17).Split(21)
	require.NoError(t, err)

	for _, split := range splits {
		assert.IsIncreasing(t, split.TestIndices)
		assert.IsIncreasing(t, split.TrainIndices)
	}
}
