package stats

import "fmt"

// SignificanceMarker is the compact star notation used in tables and reports.
type SignificanceMarker string

const (
	MarkerStrong   SignificanceMarker = "***" // p < 0.001
	MarkerModerate SignificanceMarker = "**"  // p < 0.01
	MarkerWeak     SignificanceMarker = "*"   // p < 0.05
	MarkerNone     SignificanceMarker = "ns"
)

// Significance buckets a p-value into the conventional star markers.
func Significance(p float64) SignificanceMarker {
	switch {
	case p < 0.001:
		return MarkerStrong
	case p < 0.01:
		return MarkerModerate
	case p < 0.05:
		return MarkerWeak
	default:
		return MarkerNone
	}
}

// Significant reports whether a p-value clears the conventional 0.05 cutoff.
func Significant(p float64) bool {
	return p < 0.05
}

// Descriptives summarizes one group of observations.
//
// INVARIANTS:
// - N always present and >= 0
// - StdDev is the sample standard deviation (n-1 denominator); 0 when N < 2
type Descriptives struct {
	Group  string  `json:"group"`
	N      int     `json:"n"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	SEM    float64 `json:"sem"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

// Group holds a labeled sample for omnibus and pairwise testing.
type Group struct {
	Label  string
	Values []float64
}

// AnovaResult is the outcome of a one-way between-groups ANOVA.
type AnovaResult struct {
	FStatistic float64 `json:"f_statistic"`
	PValue     float64 `json:"p_value"`
	DFBetween  int     `json:"df_between"`
	DFWithin   int     `json:"df_within"`
	MSBetween  float64 `json:"ms_between"`
	MSWithin   float64 `json:"ms_within"`
	GrandMean  float64 `json:"grand_mean"`

	Groups      []Descriptives     `json:"groups"`
	Marker      SignificanceMarker `json:"marker"`
	Significant bool               `json:"significant"`
}

// TukeyComparison is one pairwise contrast from a Tukey HSD post-hoc test.
// AdjustedP is family-wise corrected via the studentized range distribution,
// so no further multiple-comparison correction is applied downstream.
type TukeyComparison struct {
	GroupA      string             `json:"group_a"`
	GroupB      string             `json:"group_b"`
	MeanA       float64            `json:"mean_a"`
	MeanB       float64            `json:"mean_b"`
	Diff        float64            `json:"diff"`
	QStatistic  float64            `json:"q_statistic"`
	AdjustedP   float64            `json:"adjusted_p"`
	Marker      SignificanceMarker `json:"marker"`
	Significant bool               `json:"significant"`
}

// Label renders the contrast as "A vs B" for tables.
func (t TukeyComparison) Label() string {
	return fmt.Sprintf("%s vs %s", t.GroupA, t.GroupB)
}
