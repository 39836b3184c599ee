package summary

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"patternstudy/domain/core"
	"patternstudy/domain/survey"
)

func obs(participant, condition string, iface survey.Interface, tendency float64, released bool) survey.Observation {
	return survey.Observation{
		ResponseID:      core.ResponseID("R_" + participant),
		ParticipantID:   core.ParticipantID(participant),
		Interface:       iface,
		Condition:       condition,
		TendencyNumeric: tendency,
		ReleaseBinary:   released,
	}
}

func TestRelabelMapsAliasesAndIsIdempotent(t *testing.T) {
	in := []survey.Observation{
		obs("P1", "Control", 1, 4, true),
		obs("P1", "UEQ-S", 1, 4, true),
		obs("P1", "UEQ+Autonomy", 1, 2, false),
		obs("P1", "B2", 1, 3, true),
	}

	once, unknown := Relabel(in)
	assert.Equal(t, 1, unknown)
	assert.Equal(t, "RAW", once[0].Condition)
	assert.Equal(t, "UEQ", once[1].Condition)
	assert.Equal(t, "UEEQ", once[2].Condition)
	assert.Equal(t, "B2", once[3].Condition)

	twice, unknown2 := Relabel(once)
	assert.Equal(t, 1, unknown2)
	assert.Equal(t, once, twice)
}

func TestAggregateByParticipantMean(t *testing.T) {
	// Rejection values {0,1,1} within one (participant, condition) group.
	in := []survey.Observation{
		obs("P1", "RAW", 1, 5, true),
		obs("P1", "RAW", 2, 4, false),
		obs("P1", "RAW", 3, 3, false),
	}

	aggs := AggregateByParticipant(in)
	require.Len(t, aggs, 1)
	assert.Equal(t, 3, aggs[0].N)
	assert.InDelta(t, 0.667, aggs[0].MeanRejection, 0.001)
	assert.InDelta(t, 4.0, aggs[0].MeanTendency, 1e-12)
}

func TestAggregateByParticipantGroupsPerCondition(t *testing.T) {
	in := []survey.Observation{
		obs("P1", "RAW", 1, 5, true),
		obs("P1", "UEEQ", 1, 2, false),
		obs("P2", "RAW", 1, 4, true),
	}

	aggs := AggregateByParticipant(in)
	require.Len(t, aggs, 3)
	// Participant ascending, condition in canonical order within.
	assert.Equal(t, core.ParticipantID("P1"), aggs[0].ParticipantID)
	assert.Equal(t, "RAW", aggs[0].Condition)
	assert.Equal(t, "UEEQ", aggs[1].Condition)
	assert.Equal(t, core.ParticipantID("P2"), aggs[2].ParticipantID)
}

func TestAggregateByInterfaceSEM(t *testing.T) {
	in := []survey.Observation{
		obs("P1", "RAW", 7, 5, true),
		obs("P2", "RAW", 7, 5, false),
		obs("P3", "RAW", 7, 5, false),
	}

	aggs := AggregateByInterface(in)
	require.Len(t, aggs, 1)
	assert.Equal(t, survey.Interface(7), aggs[0].Interface)
	assert.Equal(t, "Roach Motel", aggs[0].PatternName)
	assert.Equal(t, 3, aggs[0].N)
	assert.InDelta(t, 0.667, aggs[0].MeanRejection, 0.001)
	// Sample stddev of {1,0,0} is 0.577; SEM = 0.577/sqrt(3) = 0.333.
	assert.InDelta(t, 0.333, aggs[0].SEM, 0.001)
}

func TestContingencyByCondition(t *testing.T) {
	in := []survey.Observation{
		obs("P1", "RAW", 1, 5, true),
		obs("P2", "RAW", 1, 5, true),
		obs("P1", "UEEQ", 1, 2, false),
	}

	table := ContingencyByCondition(in)
	require.Len(t, table, 2)
	assert.Equal(t, "RAW", table[0].Condition)
	assert.Equal(t, 2, table[0].Released)
	assert.Equal(t, 0, table[0].Held)
	assert.Equal(t, "UEEQ", table[1].Condition)
	assert.Equal(t, 1, table[1].Held)
	assert.Equal(t, 1, table[1].Total())
}

func TestCompareConditionsDetectsEffect(t *testing.T) {
	var in []survey.Observation
	participants := []string{"P1", "P2", "P3", "P4", "P5", "P6"}
	for i, p := range participants {
		jitter := float64(i%2) * 0.5
		for iface := survey.Interface(1); iface <= 5; iface++ {
			in = append(in,
				obs(p, "RAW", iface, 5+jitter, true),
				obs(p, "UEQ", iface, 4+jitter, true),
				obs(p, "UEEQ", iface, 1.5+jitter, false),
			)
		}
	}

	comparisons := CompareConditions(in)
	require.Len(t, comparisons, 2)

	for _, cmp := range comparisons {
		assert.False(t, cmp.Insufficient, "variable %s", cmp.Variable)
		require.NotNil(t, cmp.Anova)
		require.Len(t, cmp.PostHoc, 3)
	}

	tendency := comparisons[1]
	assert.Equal(t, VariableTendency, tendency.Variable)
	assert.True(t, tendency.Anova.Significant)

	rawVsUEEQ := tendency.PostHoc[1]
	assert.Equal(t, "RAW vs UEEQ", rawVsUEEQ.Label())
	assert.True(t, rawVsUEEQ.Significant)
	assert.Greater(t, rawVsUEEQ.Diff, 0.0)
}

func TestCompareConditionsInsufficientGroup(t *testing.T) {
	// Only one participant under UEEQ: a single participant-level aggregate
	// cannot support the omnibus test.
	in := []survey.Observation{
		obs("P1", "RAW", 1, 5, true),
		obs("P2", "RAW", 1, 4, true),
		obs("P3", "UEQ", 1, 4, true),
		obs("P4", "UEQ", 1, 3, true),
		obs("P5", "UEEQ", 1, 2, false),
	}

	comparisons := CompareConditions(in)
	require.Len(t, comparisons, 2)
	for _, cmp := range comparisons {
		assert.True(t, cmp.Insufficient)
		assert.Contains(t, cmp.Reason, "UEEQ")
		assert.Nil(t, cmp.Anova)
	}
}

func TestRankInterfacesOrdering(t *testing.T) {
	aggs := []InterfaceAggregate{
		{Interface: 1, Condition: "RAW", MeanRejection: 0.2},
		{Interface: 1, Condition: "UEEQ", MeanRejection: 0.9},
		{Interface: 2, Condition: "RAW", MeanRejection: 0.3},
		{Interface: 2, Condition: "UEEQ", MeanRejection: 0.4},
		{Interface: 3, Condition: "RAW", MeanRejection: 0.1},
		{Interface: 3, Condition: "UEEQ", MeanRejection: 0.8},
	}

	ranked := RankInterfaces(aggs)
	require.Len(t, ranked, 3)

	assert.Equal(t, survey.Interface(1), ranked[0].Interface)
	assert.InDelta(t, 0.7, ranked[0].Delta, 1e-12)
	assert.Equal(t, 1, ranked[0].Rank)

	assert.Equal(t, survey.Interface(3), ranked[1].Interface)
	assert.Equal(t, survey.Interface(2), ranked[2].Interface)
	assert.Equal(t, 3, ranked[2].Rank)
}

func TestRankInterfacesTieBreaksOnIndex(t *testing.T) {
	aggs := []InterfaceAggregate{
		{Interface: 9, Condition: "RAW", MeanRejection: 0.1},
		{Interface: 9, Condition: "UEEQ", MeanRejection: 0.5},
		{Interface: 2, Condition: "RAW", MeanRejection: 0.2},
		{Interface: 2, Condition: "UEEQ", MeanRejection: 0.6},
	}

	ranked := RankInterfaces(aggs)
	require.Len(t, ranked, 2)
	assert.Equal(t, survey.Interface(2), ranked[0].Interface)
	assert.Equal(t, survey.Interface(9), ranked[1].Interface)
}
