package excel

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"patternstudy/domain/stats"
	"patternstudy/internal/summary"
)

func TestResultsWriterWorkbook(t *testing.T) {
	comparisons := []summary.Comparison{
		{
			Variable: summary.VariableRejection,
			Anova: &stats.AnovaResult{
				FStatistic: 9.4, PValue: 0.002, DFBetween: 2, DFWithin: 15,
				Marker: stats.MarkerModerate, Significant: true,
				Groups: []stats.Descriptives{
					{Group: "RAW", N: 6, Mean: 0.2, StdDev: 0.1, SEM: 0.04},
					{Group: "UEQ", N: 6, Mean: 0.35, StdDev: 0.12, SEM: 0.05},
					{Group: "UEEQ", N: 6, Mean: 0.7, StdDev: 0.11, SEM: 0.045},
				},
			},
			PostHoc: []stats.TukeyComparison{
				{GroupA: "RAW", GroupB: "UEEQ", Diff: -0.5, QStatistic: 5.5, AdjustedP: 0.003, Marker: stats.MarkerModerate, Significant: true},
			},
		},
		{Variable: summary.VariableTendency, Insufficient: true, Reason: "too few observations"},
	}

	interfaces := []summary.InterfaceAggregate{
		{Interface: 1, PatternName: "Confirmshaming", Condition: "RAW", MeanRejection: 0.2, SEM: 0.05, N: 6},
		{Interface: 1, PatternName: "Confirmshaming", Condition: "UEEQ", MeanRejection: 0.8, SEM: 0.06, N: 6},
	}
	ranked := []summary.RankedInterface{
		{Rank: 1, Interface: 1, PatternName: "Confirmshaming", RejectionRaw: 0.2, RejectionUEQ: 0.4, RejectionUEEQ: 0.8, Delta: 0.6},
	}

	path := filepath.Join(t.TempDir(), "summary.xlsx")
	require.NoError(t, NewResultsWriter(path).Write(comparisons, interfaces, ranked))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	sheets := f.GetSheetList()
	assert.Contains(t, sheets, SheetConditions)
	assert.Contains(t, sheets, SheetPostHoc)
	assert.Contains(t, sheets, SheetInterfaces)
	assert.NotContains(t, sheets, "Sheet1")

	variable, err := f.GetCellValue(SheetConditions, "A2")
	require.NoError(t, err)
	assert.Equal(t, summary.VariableRejection, variable)

	comparison, err := f.GetCellValue(SheetPostHoc, "B2")
	require.NoError(t, err)
	assert.Equal(t, "RAW vs UEEQ", comparison)

	pattern, err := f.GetCellValue(SheetInterfaces, "C2")
	require.NoError(t, err)
	assert.Equal(t, "Confirmshaming", pattern)
}

func TestResultsWriterEmptyRanking(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.xlsx")
	require.NoError(t, NewResultsWriter(path).Write(nil, nil, nil))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	assert.Contains(t, f.GetSheetList(), SheetInterfaces)
}
