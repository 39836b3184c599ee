package stats

import (
	"math"

	"gonum.org/v1/gonum/integrate/quad"
	"gonum.org/v1/gonum/stat/distuv"
)

// Distributions provides unified access to the distribution functions the
// analysis stages need, so CDF handling is not fragmented across callers.
type Distributions struct{}

// NewDistributions creates a new distributions utility.
func NewDistributions() *Distributions {
	return &Distributions{}
}

// FTestPValue computes the right-tail p-value for an F statistic.
func (d *Distributions) FTestPValue(fStatistic float64, df1, df2 int) float64 {
	if df1 <= 0 || df2 <= 0 {
		return 1.0
	}
	if math.IsNaN(fStatistic) || fStatistic <= 0 {
		return 1.0
	}

	fDist := distuv.F{D1: float64(df1), D2: float64(df2)}
	return 1 - fDist.CDF(fStatistic)
}

// TTestPValue computes the two-tailed p-value for a t statistic.
func (d *Distributions) TTestPValue(tStatistic float64, degreesOfFreedom int) float64 {
	if degreesOfFreedom <= 0 {
		return 1.0
	}

	tDist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(degreesOfFreedom)}
	return 2 * (1 - tDist.CDF(math.Abs(tStatistic)))
}

// StudentizedRangePValue computes P(Q > q) for the studentized range
// distribution with k groups and df error degrees of freedom. This is the
// family-wise adjusted p-value for a Tukey HSD contrast.
func (d *Distributions) StudentizedRangePValue(q float64, k, df int) float64 {
	if k < 2 || df < 1 {
		return 1.0
	}
	if math.IsNaN(q) || q <= 0 {
		return 1.0
	}
	return 1 - studentizedRangeCDF(q, k, df)
}

// studentizedRangeCDF evaluates the CDF of the studentized range
// distribution by numerical integration.
//
// For the range of k iid standard normals,
//
//	P(R <= q) = k * integral phi(z) * [Phi(z) - Phi(z-q)]^(k-1) dz
//
// and studentizing divides by an independent chi-based scale S with
// df degrees of freedom:
//
//	P(Q <= q) = integral f_S(s) * P(R <= q*s) ds
//
// where f_S(s) = 2 s df * chi2_pdf(s^2 * df; df). For large df the scale
// is effectively 1 and the normal-range CDF is used directly.
func studentizedRangeCDF(q float64, k, df int) float64 {
	if df > 100 {
		return normalRangeCDF(q, k)
	}

	fdf := float64(df)
	chi := distuv.ChiSquared{K: fdf}
	integrand := func(s float64) float64 {
		if s <= 0 {
			return 0
		}
		density := 2 * s * fdf * chi.Prob(s*s*fdf)
		return density * normalRangeCDF(q*s, k)
	}

	// The scale density is concentrated near 1; [0, 4] captures the mass
	// for any df >= 1.
	p := quad.Fixed(integrand, 0, 4, 128, nil, 0)
	return clampProbability(p)
}

func normalRangeCDF(q float64, k int) float64 {
	if q <= 0 {
		return 0
	}

	norm := distuv.UnitNormal
	integrand := func(z float64) float64 {
		inner := norm.CDF(z) - norm.CDF(z-q)
		if inner <= 0 {
			return 0
		}
		return norm.Prob(z) * math.Pow(inner, float64(k-1))
	}

	p := float64(k) * quad.Fixed(integrand, -8, 8, 128, nil, 0)
	return clampProbability(p)
}

func clampProbability(p float64) float64 {
	switch {
	case p < 0:
		return 0
	case p > 1:
		return 1
	default:
		return p
	}
}
