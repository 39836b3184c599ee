package reshape

import (
	"strconv"
	"strings"

	"patternstudy/adapters/qualtrics"
	"patternstudy/domain/core"
	"patternstudy/domain/run"
	"patternstudy/domain/survey"
	"patternstudy/internal"
)

// Reshaper converts the wide survey export into long-format observations:
// one row per respondent x interface x condition cell that carries a usable
// tendency rating.
type Reshaper struct {
	logger *internal.Logger
}

// NewReshaper creates a reshaper with the default logger.
func NewReshaper() *Reshaper {
	return &Reshaper{logger: internal.DefaultLogger}
}

// Result is the reshaping outcome plus the counts the run manifest records.
type Result struct {
	Observations []survey.Observation
	Counts       run.Counts
}

// Reshape validates the export schema, applies the exclusion list, and
// extracts observations in deterministic order: respondents in export order,
// interfaces ascending, conditions RAW/UEQ/UEEQ within each interface.
//
// A column referenced by the naming convention but absent from the header is
// fatal. A cell with a missing or non-numeric tendency is dropped silently
// (counted, not logged per-cell: partial completion is normal).
func (r *Reshaper) Reshape(table *qualtrics.WideTable, exclusions qualtrics.ExclusionSet) (*Result, error) {
	if err := r.validateSchema(table); err != nil {
		return nil, err
	}

	result := &Result{
		Counts: run.Counts{
			RawRows:  len(table.Rows),
			Excluded: 0,
		},
	}

	for _, row := range table.Rows {
		responseID, err := core.ParseResponseID(row[qualtrics.ColumnResponseID])
		if err != nil {
			// The reader already drops identifier-less rows; this guards
			// tables built by other callers.
			result.Counts.DroppedCells += survey.InterfaceCount * 3
			continue
		}

		participantID := core.ParticipantID(strings.TrimSpace(row[qualtrics.ColumnParticipantID]))
		if exclusions.Contains(participantID) {
			result.Counts.Excluded++
			continue
		}
		result.Counts.Respondents++

		for _, iface := range survey.Interfaces() {
			for _, cond := range survey.Conditions() {
				obs, ok := extractCell(row, responseID, participantID, iface, cond)
				if !ok {
					result.Counts.DroppedCells++
					continue
				}
				result.Observations = append(result.Observations, obs)
			}
		}
	}

	result.Counts.Observations = len(result.Observations)
	r.logger.Info("Reshaped %d respondent(s) into %d observation(s) (%d excluded, %d cell(s) dropped)",
		result.Counts.Respondents, result.Counts.Observations, result.Counts.Excluded, result.Counts.DroppedCells)
	return result, nil
}

// validateSchema verifies every column the naming convention references is
// present before any row is touched, so a renamed export fails loudly
// instead of producing a silently sparse artifact.
func (r *Reshaper) validateSchema(table *qualtrics.WideTable) error {
	if !table.HasColumn(qualtrics.ColumnResponseID) {
		return core.NewSchemaMismatchError(qualtrics.ColumnResponseID)
	}
	if !table.HasColumn(qualtrics.ColumnParticipantID) {
		return core.NewSchemaMismatchError(qualtrics.ColumnParticipantID)
	}
	for _, pair := range survey.Schema() {
		if !table.HasColumn(pair.Tendency) {
			return core.NewSchemaMismatchError(pair.Tendency)
		}
		if !table.HasColumn(pair.Release) {
			return core.NewSchemaMismatchError(pair.Release)
		}
	}
	return nil
}

func extractCell(row qualtrics.RawRow, responseID core.ResponseID, participantID core.ParticipantID, iface survey.Interface, cond survey.Condition) (survey.Observation, bool) {
	pair := survey.Field(iface, cond)

	tendency := strings.TrimSpace(row[pair.Tendency])
	if tendency == "" {
		return survey.Observation{}, false
	}
	numeric, err := strconv.ParseFloat(tendency, 64)
	if err != nil {
		return survey.Observation{}, false
	}

	release := strings.TrimSpace(row[pair.Release])
	return survey.Observation{
		ResponseID:      responseID,
		ParticipantID:   participantID,
		Interface:       iface,
		Condition:       string(cond),
		Tendency:        tendency,
		Release:         release,
		TendencyNumeric: numeric,
		ReleaseBinary:   survey.ParseRelease(release),
	}, true
}
