package relevance

import (
	"math"

	"cvleak/domain/core"

	"gonum.org/v1/gonum/stat/distuv"
)

// ANOVAFScorer ranks features by the one-way ANOVA F-statistic between
// the class groups. This is the classic univariate filter for
// numeric-feature / categorical-label selection.
type ANOVAFScorer struct{}

// NewANOVAFScorer creates a new ANOVA F-statistic scorer
func NewANOVAFScorer() *ANOVAFScorer {
	return &ANOVAFScorer{}
}

// Name returns the scorer name
func (s *ANOVAFScorer) Name() string {
	return "anova_f"
}

// Description returns a human-readable description
func (s *ANOVAFScorer) Description() string {
	return "Ranks features by between-class versus within-class variance ratio"
}

// Score computes the F-statistic and its upper-tail p-value under the
// F(k-1, n-k) distribution. Zero-variance features and label vectors
// with fewer than two populated classes are numerically degenerate.
func (s *ANOVAFScorer) Score(feature []float64, labels []int, classCount int) (float64, float64, error) {
	n := len(feature)
	if n != len(labels) {
		return 0, 1, core.NewInvalidArgumentError("feature", "length must match labels")
	}
	if n < 3 {
		return 0, 1, core.NewInvalidArgumentError("feature", "needs at least 3 observations")
	}

	// Group sums per class.
	counts := make([]int, classCount)
	sums := make([]float64, classCount)
	grand := 0.0
	for i, v := range feature {
		c := labels[i]
		counts[c]++
		sums[c] += v
		grand += v
	}
	grandMean := grand / float64(n)

	populated := 0
	for _, cnt := range counts {
		if cnt > 0 {
			populated++
		}
	}
	if populated < 2 {
		return 0, 1, core.ErrNumericalDegenerate
	}

	// Between-group and within-group sums of squares.
	ssBetween := 0.0
	for c := 0; c < classCount; c++ {
		if counts[c] == 0 {
			continue
		}
		groupMean := sums[c] / float64(counts[c])
		diff := groupMean - grandMean
		ssBetween += float64(counts[c]) * diff * diff
	}

	ssWithin := 0.0
	for i, v := range feature {
		c := labels[i]
		groupMean := sums[c] / float64(counts[c])
		diff := v - groupMean
		ssWithin += diff * diff
	}

	dfBetween := float64(populated - 1)
	dfWithin := float64(n - populated)
	if dfWithin <= 0 {
		return 0, 1, core.ErrNumericalDegenerate
	}

	if ssWithin == 0 {
		if ssBetween == 0 {
			// Constant feature: relevance is undefined.
			return 0, 1, core.ErrZeroVariance
		}
		// Perfect separation; report an effectively infinite score.
		return math.MaxFloat64, 0, nil
	}

	f := (ssBetween / dfBetween) / (ssWithin / dfWithin)

	fDist := distuv.F{D1: dfBetween, D2: dfWithin}
	pValue := fDist.Survival(f)
	if pValue < 0 {
		pValue = 0
	} else if pValue > 1 {
		pValue = 1
	}

	return f, pValue, nil
}
