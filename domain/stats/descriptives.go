package stats

import (
	"math"

	flynn "github.com/montanaflynn/stats"
)

// Describe computes descriptive statistics for a labeled sample. Empty
// samples yield a zero-valued summary with N=0 rather than an error, so
// summary tables can render sparse cells.
func Describe(label string, values []float64) Descriptives {
	d := Descriptives{Group: label, N: len(values)}
	if len(values) == 0 {
		return d
	}

	data := flynn.Float64Data(values)
	d.Mean, _ = flynn.Mean(data)
	d.Min, _ = flynn.Min(data)
	d.Max, _ = flynn.Max(data)

	if len(values) >= 2 {
		d.StdDev, _ = flynn.StandardDeviationSample(data)
		d.SEM = d.StdDev / math.Sqrt(float64(len(values)))
	}
	return d
}
