package report

import (
	"fmt"
	"io"
	"text/tabwriter"
)

// PrintSummary writes the condition-effect and ranking tables as aligned
// console output. Same content as the Markdown report, terminal-friendly.
func PrintSummary(w io.Writer, report *Report) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	defer tw.Flush()

	if m := report.Manifest; m != nil {
		fmt.Fprintf(tw, "Run %s: %d respondents, %d observations (%d excluded)\n\n",
			m.RunID.String(), m.Counts.Respondents, m.Counts.Observations, m.Counts.Excluded)
	}

	for _, cmp := range report.Comparisons {
		fmt.Fprintf(tw, "== %s ==\n", titleCase(cmp.Variable))
		if cmp.Insufficient {
			fmt.Fprintf(tw, "not computed: %s\n\n", cmp.Reason)
			continue
		}

		a := cmp.Anova
		fmt.Fprintf(tw, "ANOVA F(%d,%d)=%s p=%s %s\n",
			a.DFBetween, a.DFWithin, formatStat(a.FStatistic), formatP(a.PValue), a.Marker)
		fmt.Fprintln(tw, "condition\tn\tmean\tsd\tsem")
		for _, g := range a.Groups {
			fmt.Fprintf(tw, "%s\t%d\t%.3f\t%.3f\t%.3f\n", g.Group, g.N, g.Mean, g.StdDev, g.SEM)
		}
		for _, ph := range cmp.PostHoc {
			fmt.Fprintf(tw, "%s\tdiff=%.3f\tq=%s\tp=%s\t%s\n",
				ph.Label(), ph.Diff, formatStat(ph.QStatistic), formatP(ph.AdjustedP), ph.Marker)
		}
		fmt.Fprintln(tw)
	}

	if len(report.Ranked) > 0 {
		fmt.Fprintln(tw, "== Interfaces by condition effect ==")
		fmt.Fprintln(tw, "rank\tinterface\tpattern\traw\tueq\tueeq\tdelta")
		for _, r := range report.Ranked {
			fmt.Fprintf(tw, "%d\t%s\t%s\t%.3f\t%.3f\t%.3f\t%+.3f\n",
				r.Rank, r.Interface.String(), r.PatternName, r.RejectionRaw, r.RejectionUEQ, r.RejectionUEEQ, r.Delta)
		}
	}
}
