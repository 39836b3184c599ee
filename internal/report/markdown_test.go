package report

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"patternstudy/domain/core"
	"patternstudy/domain/run"
	"patternstudy/domain/stats"
	"patternstudy/internal/summary"
)

func sampleReport() *Report {
	manifest := run.NewManifest("data/export.tsv", core.NewHash([]byte("survey")), "data/exclusions.csv", core.NewHash([]byte("exclusions")), "test")
	manifest.Counts = run.Counts{RawRows: 10, Excluded: 2, Respondents: 8, Observations: 350, DroppedCells: 10}

	return &Report{
		Manifest: manifest,
		Contingency: []summary.ReleaseContingency{
			{Condition: "RAW", Released: 90, Held: 30},
			{Condition: "UEEQ", Released: 40, Held: 80},
		},
		Comparisons: []summary.Comparison{
			{
				Variable: summary.VariableRejection,
				Anova: &stats.AnovaResult{
					FStatistic: 12.5, PValue: 0.0004, DFBetween: 2, DFWithin: 21,
					Marker: stats.MarkerStrong, Significant: true,
					Groups: []stats.Descriptives{
						{Group: "RAW", N: 8, Mean: 0.25, StdDev: 0.1, SEM: 0.035},
						{Group: "UEEQ", N: 8, Mean: 0.66, StdDev: 0.12, SEM: 0.042},
					},
				},
				PostHoc: []stats.TukeyComparison{
					{GroupA: "RAW", GroupB: "UEEQ", Diff: -0.41, QStatistic: 6.1, AdjustedP: 0.0008, Marker: stats.MarkerStrong, Significant: true},
				},
			},
			{Variable: summary.VariableTendency, Insufficient: true, Reason: "group \"UEQ\" has 1 observation(s), need at least 2"},
		},
		Ranked: []summary.RankedInterface{
			{Rank: 1, Interface: 4, PatternName: "Hidden Costs", RejectionRaw: 0.2, RejectionUEQ: 0.4, RejectionUEEQ: 0.9, Delta: 0.7},
		},
	}
}

func TestRenderMarkdown(t *testing.T) {
	md := NewWriter().Render(sampleReport())

	assert.Contains(t, md, "# Dark Pattern Release Study")
	assert.Contains(t, md, "Respondents: 8 kept, 2 excluded, 10 export rows")
	assert.Contains(t, md, "| RAW | 90 | 30 | 120 |")
	assert.Contains(t, md, "F(2, 21) = 12.500, p = <0.001 ***")
	assert.Contains(t, md, "RAW vs UEEQ")
	assert.Contains(t, md, "Not computed:")
	assert.Contains(t, md, "Hidden Costs")
	assert.Contains(t, md, "+0.700")
}

func TestWriteProducesMarkdownAndHTML(t *testing.T) {
	dir := t.TempDir()
	mdPath := filepath.Join(dir, "out", "report.md")

	require.NoError(t, NewWriter().Write(sampleReport(), mdPath))

	md, err := os.ReadFile(mdPath)
	require.NoError(t, err)
	assert.Contains(t, string(md), "Tukey HSD")

	htmlBytes, err := os.ReadFile(filepath.Join(dir, "out", "report.html"))
	require.NoError(t, err)
	html := string(htmlBytes)
	assert.Contains(t, html, "<table>")
	assert.Contains(t, html, "Hidden Costs")
	assert.Contains(t, html, "<html>")
}

func TestPrintSummary(t *testing.T) {
	var buf bytes.Buffer
	PrintSummary(&buf, sampleReport())

	out := buf.String()
	assert.Contains(t, out, "== Rejection ==")
	assert.Contains(t, out, "RAW vs UEEQ")
	assert.Contains(t, out, "not computed")
	assert.Contains(t, out, "Hidden Costs")
}
