package summary

import (
	"patternstudy/domain/survey"
	"patternstudy/internal"
)

// Relabel maps every observation's condition onto the canonical labels.
// Unknown values pass through unchanged and are logged for manual review;
// an unrecognized cohort label is a data-review problem, not a crash.
// Returns the number of observations whose label no alias matched.
func Relabel(observations []survey.Observation) ([]survey.Observation, int) {
	logger := internal.DefaultLogger

	unknown := 0
	unseenLabels := make(map[string]int)
	out := make([]survey.Observation, len(observations))
	for i, obs := range observations {
		label, ok := survey.Canonicalize(obs.Condition)
		if !ok {
			unknown++
			unseenLabels[obs.Condition]++
		}
		obs.Condition = label
		out[i] = obs
	}

	for label, count := range unseenLabels {
		logger.Warn("Unknown condition label %q on %d observation(s); passed through for review", label, count)
	}
	return out, unknown
}
