package dataset

import (
	"cvleak/domain/core"

	"github.com/montanaflynn/stats"
)

// VariableProfile holds descriptive statistics for one variable.
type VariableProfile struct {
	VariableKey core.VariableKey `json:"variable_key"`
	Mean        float64          `json:"mean"`
	StdDev      float64          `json:"std_dev"`
	Min         float64          `json:"min"`
	Max         float64          `json:"max"`
}

// ProfileVariables computes descriptive statistics for every column.
// Degenerate columns (constant values) profile with StdDev 0; errors
// from the stats library on empty input are reported as zero values
// since callers validate non-empty matrices first.
func ProfileVariables(m *Matrix) []VariableProfile {
	profiles := make([]VariableProfile, m.Cols())
	for j := 0; j < m.Cols(); j++ {
		col := m.Column(j)
		mean, _ := stats.Mean(col)
		stdDev, _ := stats.StandardDeviation(col)
		min, _ := stats.Min(col)
		max, _ := stats.Max(col)
		profiles[j] = VariableProfile{
			VariableKey: m.VariableKeys[j],
			Mean:        mean,
			StdDev:      stdDev,
			Min:         min,
			Max:         max,
		}
	}
	return profiles
}
