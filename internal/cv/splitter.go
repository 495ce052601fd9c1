package cv

import (
	"math/rand"
	"sort"

	"cvleak/domain/core"
	"cvleak/domain/eval"
)

// KFoldSplitter partitions observation indices into K disjoint folds of
// approximately equal size. Each fold serves once as the test set.
type KFoldSplitter struct {
	foldCount int
	seed      int64
}

// NewKFoldSplitter creates a splitter with a specific seed for
// reproducible fold assignment.
func NewKFoldSplitter(foldCount int, seed int64) *KFoldSplitter {
	return &KFoldSplitter{foldCount: foldCount, seed: seed}
}

// Split produces the K train/test index pairs for sampleCount
// observations. Fold sizes differ by at most one; with
// foldCount == sampleCount this degenerates to leave-one-out.
func (s *KFoldSplitter) Split(sampleCount int) ([]eval.Split, error) {
	if sampleCount <= 0 {
		return nil, core.NewInvalidArgumentError("sample_count", "must be positive")
	}
	if s.foldCount < 2 {
		return nil, core.NewInvalidArgumentError("fold_count", "must be at least 2")
	}
	if s.foldCount > sampleCount {
		return nil, core.NewInvalidArgumentError("fold_count", "cannot exceed sample_count")
	}

	// Shuffle with deterministic seed.
	indices := make([]int, sampleCount)
	for i := range indices {
		indices[i] = i
	}
	rng := rand.New(rand.NewSource(s.seed))
	rng.Shuffle(len(indices), func(i, j int) {
		indices[i], indices[j] = indices[j], indices[i]
	})

	// The first (sampleCount % foldCount) folds take one extra index.
	baseSize := sampleCount / s.foldCount
	remainder := sampleCount % s.foldCount

	splits := make([]eval.Split, s.foldCount)
	offset := 0
	for k := 0; k < s.foldCount; k++ {
		size := baseSize
		if k < remainder {
			size++
		}

		test := make([]int, size)
		copy(test, indices[offset:offset+size])

		train := make([]int, 0, sampleCount-size)
		train = append(train, indices[:offset]...)
		train = append(train, indices[offset+size:]...)

		// Sorted indices keep downstream row extraction stable.
		sort.Ints(test)
		sort.Ints(train)

		splits[k] = eval.Split{FoldIndex: k, TrainIndices: train, TestIndices: test}
		offset += size
	}

	return splits, nil
}
