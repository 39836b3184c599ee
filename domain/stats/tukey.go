package stats

import (
	"math"

	"patternstudy/domain/core"
)

// TukeyHSD runs Tukey's honestly-significant-difference post-hoc test over
// all pairwise contrasts, using the pooled within-group variance from the
// omnibus ANOVA. The unequal-n form (Tukey-Kramer) is used throughout since
// survey conditions rarely balance exactly.
//
// Comparisons are emitted in group order: (0,1), (0,2), ..., (1,2), ...
func TukeyHSD(groups []Group, anova *AnovaResult) ([]TukeyComparison, error) {
	if len(groups) < 2 {
		return nil, core.NewInsufficientDataError("post-hoc", len(groups))
	}
	if anova == nil || anova.DFWithin < 1 {
		return nil, core.NewInsufficientDataError("post-hoc", 0)
	}

	dist := NewDistributions()
	k := len(groups)
	comparisons := make([]TukeyComparison, 0, k*(k-1)/2)

	for i := 0; i < k; i++ {
		for j := i + 1; j < k; j++ {
			a, b := groups[i], groups[j]
			na, nb := float64(len(a.Values)), float64(len(b.Values))
			meanA := mean(a.Values)
			meanB := mean(b.Values)
			diff := meanA - meanB

			cmp := TukeyComparison{
				GroupA: a.Label,
				GroupB: b.Label,
				MeanA:  meanA,
				MeanB:  meanB,
				Diff:   diff,
			}

			se := math.Sqrt((anova.MSWithin / 2) * (1/na + 1/nb))
			if se == 0 {
				if diff == 0 {
					cmp.AdjustedP = 1.0
				} else {
					cmp.QStatistic = math.Inf(1)
					cmp.AdjustedP = 0.0
				}
			} else {
				cmp.QStatistic = math.Abs(diff) / se
				cmp.AdjustedP = dist.StudentizedRangePValue(cmp.QStatistic, k, anova.DFWithin)
			}

			cmp.Marker = Significance(cmp.AdjustedP)
			cmp.Significant = Significant(cmp.AdjustedP)
			comparisons = append(comparisons, cmp)
		}
	}
	return comparisons, nil
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
