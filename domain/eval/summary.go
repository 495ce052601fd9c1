package eval

import (
	"math"

	"cvleak/domain/core"

	"github.com/montanaflynn/stats"
)

// Summarize aggregates ordered per-fold scores into a mean and standard
// error. The standard error uses the population standard deviation of
// the scores divided by the square root of the fold count, so the
// literal list [0.50, 0.52, 0.48, 0.51, 0.49] yields exactly
// mean 0.50 and stderr pop_std/sqrt(5).
func Summarize(scores []float64) (Summary, error) {
	if len(scores) == 0 {
		return Summary{}, core.NewInvalidArgumentError("scores", "must be non-empty")
	}

	mean, err := stats.Mean(scores)
	if err != nil {
		return Summary{}, err
	}
	// montanaflynn's StandardDeviation is the population form.
	stdDev, err := stats.StandardDeviation(scores)
	if err != nil {
		return Summary{}, err
	}

	return Summary{
		Mean:          mean,
		StandardError: stdDev / math.Sqrt(float64(len(scores))),
		FoldCount:     len(scores),
	}, nil
}
