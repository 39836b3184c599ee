package summary

import (
	"patternstudy/domain/stats"
	"patternstudy/domain/survey"
	"patternstudy/internal"
)

// Dependent variables compared across conditions.
const (
	VariableRejection = "rejection"
	VariableTendency  = "tendency"
)

// Comparison is the condition-effect analysis for one dependent variable.
// Insufficient data is recorded on the comparison instead of failing the
// run: the other variable's comparison proceeds independently.
type Comparison struct {
	Variable     string                  `json:"variable"`
	Anova        *stats.AnovaResult      `json:"anova,omitempty"`
	PostHoc      []stats.TukeyComparison `json:"post_hoc,omitempty"`
	Insufficient bool                    `json:"insufficient"`
	Reason       string                  `json:"reason,omitempty"`
}

// CompareConditions aggregates to participant level and runs the omnibus
// ANOVA plus Tukey post-hoc for each dependent variable over the three-level
// condition factor.
func CompareConditions(observations []survey.Observation) []Comparison {
	logger := internal.DefaultLogger
	aggregates := AggregateByParticipant(observations)

	comparisons := make([]Comparison, 0, 2)
	for _, variable := range []string{VariableRejection, VariableTendency} {
		groups := conditionGroups(aggregates, variable)
		cmp := compareVariable(variable, groups)
		if cmp.Insufficient {
			logger.Warn("Comparison for %s skipped: %s", variable, cmp.Reason)
		}
		comparisons = append(comparisons, cmp)
	}
	return comparisons
}

func compareVariable(variable string, groups []stats.Group) Comparison {
	cmp := Comparison{Variable: variable}

	anova, err := stats.OneWayAnova(groups)
	if err != nil {
		cmp.Insufficient = true
		cmp.Reason = err.Error()
		return cmp
	}
	cmp.Anova = anova

	postHoc, err := stats.TukeyHSD(groups, anova)
	if err != nil {
		cmp.Insufficient = true
		cmp.Reason = err.Error()
		return cmp
	}
	cmp.PostHoc = postHoc
	return cmp
}

// conditionGroups builds one labeled sample per canonical condition from the
// participant aggregates. Non-canonical labels are excluded from inference;
// they surface through relabeling review, not through the omnibus test.
func conditionGroups(aggregates []ParticipantAggregate, variable string) []stats.Group {
	byCondition := make(map[string][]float64)
	for _, agg := range aggregates {
		value := agg.MeanRejection
		if variable == VariableTendency {
			value = agg.MeanTendency
		}
		byCondition[agg.Condition] = append(byCondition[agg.Condition], value)
	}

	groups := make([]stats.Group, 0, 3)
	for _, c := range survey.Conditions() {
		if values, ok := byCondition[string(c)]; ok {
			groups = append(groups, stats.Group{Label: string(c), Values: values})
		}
	}
	return groups
}
