package stats

import (
	"math"

	"patternstudy/domain/core"
)

// OneWayAnova runs a one-way between-groups ANOVA over the supplied groups.
// Requires at least two groups, each with at least two observations;
// otherwise an insufficient-data error names the offending group so the
// caller can skip that comparison and continue with the rest.
func OneWayAnova(groups []Group) (*AnovaResult, error) {
	if len(groups) < 2 {
		return nil, core.NewInsufficientDataError("omnibus", len(groups))
	}

	totalN := 0
	for _, g := range groups {
		if len(g.Values) < 2 {
			return nil, core.NewInsufficientDataError(g.Label, len(g.Values))
		}
		totalN += len(g.Values)
	}

	grandSum := 0.0
	for _, g := range groups {
		for _, v := range g.Values {
			grandSum += v
		}
	}
	grandMean := grandSum / float64(totalN)

	ssBetween := 0.0
	ssWithin := 0.0
	descriptives := make([]Descriptives, 0, len(groups))
	for _, g := range groups {
		d := Describe(g.Label, g.Values)
		descriptives = append(descriptives, d)

		diff := d.Mean - grandMean
		ssBetween += float64(d.N) * diff * diff
		for _, v := range g.Values {
			dev := v - d.Mean
			ssWithin += dev * dev
		}
	}

	dfBetween := len(groups) - 1
	dfWithin := totalN - len(groups)
	msBetween := ssBetween / float64(dfBetween)
	msWithin := ssWithin / float64(dfWithin)

	result := &AnovaResult{
		DFBetween: dfBetween,
		DFWithin:  dfWithin,
		MSBetween: msBetween,
		MSWithin:  msWithin,
		GrandMean: grandMean,
		Groups:    descriptives,
	}

	dist := NewDistributions()
	if msWithin == 0 {
		// All groups internally constant. Any between-group spread is
		// then unambiguous; none means nothing to test.
		if msBetween == 0 {
			result.PValue = 1.0
		} else {
			result.FStatistic = math.Inf(1)
			result.PValue = 0.0
		}
	} else {
		result.FStatistic = msBetween / msWithin
		result.PValue = dist.FTestPValue(result.FStatistic, dfBetween, dfWithin)
	}

	result.Marker = Significance(result.PValue)
	result.Significant = Significant(result.PValue)
	return result, nil
}
