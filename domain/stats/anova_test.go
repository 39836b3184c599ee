package stats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"patternstudy/domain/core"
)

func TestDescribe(t *testing.T) {
	d := Describe("g", []float64{2, 4, 6})
	assert.Equal(t, 3, d.N)
	assert.InDelta(t, 4.0, d.Mean, 1e-12)
	assert.InDelta(t, 2.0, d.StdDev, 1e-12)
	assert.InDelta(t, 2.0/math.Sqrt(3), d.SEM, 1e-12)
	assert.Equal(t, 2.0, d.Min)
	assert.Equal(t, 6.0, d.Max)
}

func TestDescribeEmptyAndSingleton(t *testing.T) {
	empty := Describe("g", nil)
	assert.Equal(t, 0, empty.N)
	assert.Equal(t, 0.0, empty.Mean)

	single := Describe("g", []float64{5})
	assert.Equal(t, 1, single.N)
	assert.Equal(t, 5.0, single.Mean)
	assert.Equal(t, 0.0, single.StdDev)
}

func TestOneWayAnovaKnownValues(t *testing.T) {
	// Three equal-size groups with means 2, 3, 4 and identical internal
	// spread. Hand computation gives SSB=6, SSW=6, F=3.0 exactly.
	groups := []Group{
		{Label: "A", Values: []float64{1, 2, 3}},
		{Label: "B", Values: []float64{2, 3, 4}},
		{Label: "C", Values: []float64{3, 4, 5}},
	}

	result, err := OneWayAnova(groups)
	require.NoError(t, err)

	assert.Equal(t, 2, result.DFBetween)
	assert.Equal(t, 6, result.DFWithin)
	assert.InDelta(t, 3.0, result.GrandMean, 1e-12)
	assert.InDelta(t, 3.0, result.MSBetween, 1e-12)
	assert.InDelta(t, 1.0, result.MSWithin, 1e-12)
	assert.InDelta(t, 3.0, result.FStatistic, 1e-12)

	// F(2,6) right tail at 3.0 is about 0.125.
	assert.Greater(t, result.PValue, 0.12)
	assert.Less(t, result.PValue, 0.13)
	assert.Equal(t, MarkerNone, result.Marker)
	assert.False(t, result.Significant)

	require.Len(t, result.Groups, 3)
	assert.Equal(t, "A", result.Groups[0].Group)
	assert.InDelta(t, 2.0, result.Groups[0].Mean, 1e-12)
}

func TestOneWayAnovaLargeSeparation(t *testing.T) {
	groups := []Group{
		{Label: "low", Values: []float64{1, 1.1, 0.9, 1.05, 0.95, 1.02}},
		{Label: "high", Values: []float64{9, 9.1, 8.9, 9.05, 8.95, 9.02}},
	}

	result, err := OneWayAnova(groups)
	require.NoError(t, err)
	assert.Less(t, result.PValue, 0.001)
	assert.Equal(t, MarkerStrong, result.Marker)
	assert.True(t, result.Significant)
}

func TestOneWayAnovaIdenticalGroups(t *testing.T) {
	groups := []Group{
		{Label: "A", Values: []float64{1, 2, 3}},
		{Label: "B", Values: []float64{1, 2, 3}},
	}

	result, err := OneWayAnova(groups)
	require.NoError(t, err)
	assert.InDelta(t, 0.0, result.FStatistic, 1e-12)
	assert.Equal(t, 1.0, result.PValue)
	assert.False(t, result.Significant)
}

func TestOneWayAnovaInsufficientGroup(t *testing.T) {
	groups := []Group{
		{Label: "A", Values: []float64{1, 2, 3}},
		{Label: "B", Values: []float64{5}},
	}

	_, err := OneWayAnova(groups)
	require.Error(t, err)
	assert.True(t, core.IsInsufficientData(err))
	assert.Contains(t, err.Error(), "B")
}

func TestOneWayAnovaTooFewGroups(t *testing.T) {
	_, err := OneWayAnova([]Group{{Label: "A", Values: []float64{1, 2}}})
	require.Error(t, err)
	assert.True(t, core.IsInsufficientData(err))
}

func TestSignificanceBuckets(t *testing.T) {
	assert.Equal(t, MarkerStrong, Significance(0.0005))
	assert.Equal(t, MarkerModerate, Significance(0.005))
	assert.Equal(t, MarkerWeak, Significance(0.03))
	assert.Equal(t, MarkerNone, Significance(0.05))
	assert.Equal(t, MarkerNone, Significance(0.7))
}
