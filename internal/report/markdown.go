package report

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"patternstudy/domain/run"
	"patternstudy/internal"
	"patternstudy/internal/errors"
	"patternstudy/internal/summary"
)

// Report bundles every summarized result for rendering.
type Report struct {
	Manifest    *run.Manifest
	Contingency []summary.ReleaseContingency
	Comparisons []summary.Comparison
	Interfaces  []summary.InterfaceAggregate
	Ranked      []summary.RankedInterface
}

// Writer renders the analysis summary as Markdown and a matching HTML page.
type Writer struct {
	logger *internal.Logger
}

// NewWriter creates a report writer.
func NewWriter() *Writer {
	return &Writer{logger: internal.DefaultLogger}
}

// Write renders the report to mdPath and an HTML page alongside it.
func (w *Writer) Write(report *Report, mdPath string) error {
	content := w.Render(report)

	if err := os.MkdirAll(filepath.Dir(mdPath), 0o755); err != nil {
		return errors.Wrap(err, "failed to create report directory")
	}
	if err := os.WriteFile(mdPath, []byte(content), 0o644); err != nil {
		return errors.Wrap(err, "failed to write markdown report")
	}

	htmlPath := strings.TrimSuffix(mdPath, filepath.Ext(mdPath)) + ".html"
	if err := os.WriteFile(htmlPath, RenderHTML(content), 0o644); err != nil {
		return errors.Wrap(err, "failed to write html report")
	}

	w.logger.Info("Report written: %s (+ %s)", mdPath, htmlPath)
	return nil
}

// Render produces the Markdown body.
func (w *Writer) Render(report *Report) string {
	var b strings.Builder

	b.WriteString("# Dark Pattern Release Study — Analysis Summary\n\n")

	if m := report.Manifest; m != nil {
		b.WriteString("## Dataset\n\n")
		fmt.Fprintf(&b, "- Run: `%s` (%s)\n", m.RunID.String(), m.CreatedAt.String())
		fmt.Fprintf(&b, "- Survey export: `%s` (sha256 `%s`)\n", m.SurveyPath, shortHash(m.SurveyHash.String()))
		if m.ExclusionsPath != "" {
			fmt.Fprintf(&b, "- Exclusion list: `%s` (sha256 `%s`)\n", m.ExclusionsPath, shortHash(m.ExclusionsHash.String()))
		}
		fmt.Fprintf(&b, "- Respondents: %d kept, %d excluded, %d export rows\n",
			m.Counts.Respondents, m.Counts.Excluded, m.Counts.RawRows)
		fmt.Fprintf(&b, "- Observations: %d (%d cells dropped as unanswered)\n\n",
			m.Counts.Observations, m.Counts.DroppedCells)
	}

	if len(report.Contingency) > 0 {
		b.WriteString("## Release Decisions by Condition\n\n")
		b.WriteString("| Condition | Released | Held Back | Total |\n")
		b.WriteString("|---|---:|---:|---:|\n")
		for _, c := range report.Contingency {
			fmt.Fprintf(&b, "| %s | %d | %d | %d |\n", c.Condition, c.Released, c.Held, c.Total())
		}
		b.WriteByte('\n')
	}

	for _, cmp := range report.Comparisons {
		fmt.Fprintf(&b, "## Condition Effect on %s\n\n", titleCase(cmp.Variable))
		if cmp.Insufficient {
			fmt.Fprintf(&b, "Not computed: %s\n\n", cmp.Reason)
			continue
		}

		a := cmp.Anova
		fmt.Fprintf(&b, "One-way ANOVA: F(%d, %d) = %s, p = %s %s\n\n",
			a.DFBetween, a.DFWithin, formatStat(a.FStatistic), formatP(a.PValue), a.Marker)

		b.WriteString("| Condition | N | Mean | SD | SEM |\n")
		b.WriteString("|---|---:|---:|---:|---:|\n")
		for _, g := range a.Groups {
			fmt.Fprintf(&b, "| %s | %d | %.3f | %.3f | %.3f |\n", g.Group, g.N, g.Mean, g.StdDev, g.SEM)
		}
		b.WriteByte('\n')

		if len(cmp.PostHoc) > 0 {
			b.WriteString("Tukey HSD post-hoc:\n\n")
			b.WriteString("| Comparison | Diff | q | p (adj) | |\n")
			b.WriteString("|---|---:|---:|---:|---|\n")
			for _, ph := range cmp.PostHoc {
				fmt.Fprintf(&b, "| %s | %.3f | %s | %s | %s |\n",
					ph.Label(), ph.Diff, formatStat(ph.QStatistic), formatP(ph.AdjustedP), ph.Marker)
			}
			b.WriteByte('\n')
		}
	}

	if len(report.Ranked) > 0 {
		b.WriteString("## Interfaces Ranked by Condition Effect\n\n")
		b.WriteString("Delta is mean rejection under UEEQ minus mean rejection under RAW.\n\n")
		b.WriteString("| Rank | Interface | Pattern | RAW | UEQ | UEEQ | Delta |\n")
		b.WriteString("|---:|---:|---|---:|---:|---:|---:|\n")
		for _, r := range report.Ranked {
			fmt.Fprintf(&b, "| %d | %s | %s | %.3f | %.3f | %.3f | %+.3f |\n",
				r.Rank, r.Interface.String(), r.PatternName, r.RejectionRaw, r.RejectionUEQ, r.RejectionUEEQ, r.Delta)
		}
		b.WriteByte('\n')
	}

	b.WriteString("Significance markers: *** p<0.001, ** p<0.01, * p<0.05, ns not significant.\n")
	return b.String()
}

// RenderHTML converts the Markdown body to a standalone HTML page.
func RenderHTML(md string) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.Tables)
	doc := p.Parse([]byte(md))

	renderer := html.NewRenderer(html.RendererOptions{
		Title: "Analysis Summary",
		Flags: html.CommonFlags | html.CompletePage,
	})
	return markdown.Render(doc, renderer)
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}

func formatStat(v float64) string {
	if math.IsInf(v, 1) {
		return "inf"
	}
	return fmt.Sprintf("%.3f", v)
}

func formatP(p float64) string {
	if p < 0.001 {
		return "<0.001"
	}
	return fmt.Sprintf("%.3f", p)
}
