package relevance

import (
	"math"

	"cvleak/domain/core"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// AbsPearsonScorer ranks features by the absolute Pearson correlation
// between the feature and the numeric-encoded label. Only meaningful
// for two-class labels; for more classes prefer the ANOVA scorer.
type AbsPearsonScorer struct{}

// NewAbsPearsonScorer creates a new absolute-correlation scorer
func NewAbsPearsonScorer() *AbsPearsonScorer {
	return &AbsPearsonScorer{}
}

// Name returns the scorer name
func (s *AbsPearsonScorer) Name() string {
	return "abs_pearson"
}

// Description returns a human-readable description
func (s *AbsPearsonScorer) Description() string {
	return "Ranks features by absolute linear correlation with the label"
}

// Score computes |r| and a two-tailed p-value from the t-transform
// t = r*sqrt((n-2)/(1-r^2)) under Student's t with n-2 degrees of
// freedom.
func (s *AbsPearsonScorer) Score(feature []float64, labels []int, classCount int) (float64, float64, error) {
	n := len(feature)
	if n != len(labels) {
		return 0, 1, core.NewInvalidArgumentError("feature", "length must match labels")
	}
	if n < 3 {
		return 0, 1, core.NewInvalidArgumentError("feature", "needs at least 3 observations")
	}

	y := make([]float64, n)
	for i, l := range labels {
		y[i] = float64(l)
	}

	r := stat.Correlation(feature, y, nil)
	if math.IsNaN(r) {
		// Zero variance on either side leaves correlation undefined.
		return 0, 1, core.ErrZeroVariance
	}
	absR := math.Abs(r)
	if absR >= 1 {
		return 1, 0, nil
	}

	tStat := absR * math.Sqrt(float64(n-2)/(1-absR*absR))
	tDist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(n - 2)}
	pValue := 2 * tDist.Survival(tStat)
	if pValue > 1 {
		pValue = 1
	}

	return absR, pValue, nil
}
