package excel

import (
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"patternstudy/domain/survey"
	"patternstudy/internal/errors"
	"patternstudy/internal/summary"
)

// Sheet names in the results workbook.
const (
	SheetConditions = "Conditions"
	SheetPostHoc    = "Post-Hoc"
	SheetInterfaces = "Interfaces"
)

// ResultsWriter renders the summarized results as an Excel workbook with a
// column chart of mean rejection per interface and condition.
type ResultsWriter struct {
	path string
}

// NewResultsWriter creates a writer targeting the given .xlsx path.
func NewResultsWriter(path string) *ResultsWriter {
	return &ResultsWriter{path: path}
}

// Write builds and saves the workbook.
func (w *ResultsWriter) Write(comparisons []summary.Comparison, interfaces []summary.InterfaceAggregate, ranked []summary.RankedInterface) error {
	log.Printf("[ResultsWriter] Writing workbook: %s", w.path)

	f := excelize.NewFile()
	defer f.Close()

	if err := w.writeConditions(f, comparisons); err != nil {
		return err
	}
	if err := w.writePostHoc(f, comparisons); err != nil {
		return err
	}
	if err := w.writeInterfaces(f, interfaces, ranked); err != nil {
		return err
	}

	// Drop the default sheet left over from NewFile.
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return errors.Wrap(err, "failed to remove default sheet")
	}

	if err := os.MkdirAll(filepath.Dir(w.path), 0o755); err != nil {
		return errors.Wrap(err, "failed to create workbook directory")
	}
	if err := f.SaveAs(w.path); err != nil {
		return errors.Wrap(err, "failed to save workbook")
	}

	log.Printf("[ResultsWriter] Workbook saved: %s", w.path)
	return nil
}

func (w *ResultsWriter) writeConditions(f *excelize.File, comparisons []summary.Comparison) error {
	idx, err := f.NewSheet(SheetConditions)
	if err != nil {
		return errors.Wrap(err, "failed to create conditions sheet")
	}
	f.SetActiveSheet(idx)

	if err := writeRow(f, SheetConditions, 1, "variable", "condition", "n", "mean", "sd", "sem", "F", "p", "sig"); err != nil {
		return err
	}

	row := 2
	for _, cmp := range comparisons {
		if cmp.Insufficient {
			if err := writeRow(f, SheetConditions, row, cmp.Variable, "insufficient data", cmp.Reason); err != nil {
				return err
			}
			row++
			continue
		}
		for i, g := range cmp.Anova.Groups {
			cells := []interface{}{cmp.Variable, g.Group, g.N, g.Mean, g.StdDev, g.SEM}
			if i == 0 {
				cells = append(cells, finite(cmp.Anova.FStatistic), cmp.Anova.PValue, string(cmp.Anova.Marker))
			}
			if err := writeRow(f, SheetConditions, row, cells...); err != nil {
				return err
			}
			row++
		}
	}
	return nil
}

func (w *ResultsWriter) writePostHoc(f *excelize.File, comparisons []summary.Comparison) error {
	if _, err := f.NewSheet(SheetPostHoc); err != nil {
		return errors.Wrap(err, "failed to create post-hoc sheet")
	}

	if err := writeRow(f, SheetPostHoc, 1, "variable", "comparison", "diff", "q", "p_adj", "sig"); err != nil {
		return err
	}

	row := 2
	for _, cmp := range comparisons {
		for _, ph := range cmp.PostHoc {
			if err := writeRow(f, SheetPostHoc, row, cmp.Variable, ph.Label(), ph.Diff, finite(ph.QStatistic), ph.AdjustedP, string(ph.Marker)); err != nil {
				return err
			}
			row++
		}
	}
	return nil
}

func (w *ResultsWriter) writeInterfaces(f *excelize.File, interfaces []summary.InterfaceAggregate, ranked []summary.RankedInterface) error {
	if _, err := f.NewSheet(SheetInterfaces); err != nil {
		return errors.Wrap(err, "failed to create interfaces sheet")
	}

	if err := writeRow(f, SheetInterfaces, 1, "rank", "interface", "pattern", "RAW", "UEQ", "UEEQ", "delta"); err != nil {
		return err
	}

	for i, r := range ranked {
		row := i + 2
		if err := writeRow(f, SheetInterfaces, row,
			r.Rank, int(r.Interface), r.PatternName, r.RejectionRaw, r.RejectionUEQ, r.RejectionUEEQ, r.Delta); err != nil {
			return err
		}
	}

	// SEM detail below the ranked block, one row per cell.
	detailStart := len(ranked) + 4
	if err := writeRow(f, SheetInterfaces, detailStart, "interface", "condition", "n", "mean_rejection", "sem"); err != nil {
		return err
	}
	for i, agg := range interfaces {
		if err := writeRow(f, SheetInterfaces, detailStart+1+i,
			int(agg.Interface), agg.Condition, agg.N, agg.MeanRejection, agg.SEM); err != nil {
			return err
		}
	}

	if len(ranked) == 0 {
		return nil
	}
	return w.addRejectionChart(f, len(ranked))
}

// addRejectionChart places a clustered column chart of mean rejection per
// ranked interface, one series per condition.
func (w *ResultsWriter) addRejectionChart(f *excelize.File, rows int) error {
	lastRow := rows + 1
	categories := fmt.Sprintf("%s!$C$2:$C$%d", SheetInterfaces, lastRow)

	series := make([]excelize.ChartSeries, 0, 3)
	for i, cond := range survey.Conditions() {
		col := string(rune('D' + i))
		series = append(series, excelize.ChartSeries{
			Name:       string(cond),
			Categories: categories,
			Values:     fmt.Sprintf("%s!$%s$2:$%s$%d", SheetInterfaces, col, col, lastRow),
		})
	}

	err := f.AddChart(SheetInterfaces, "I2", &excelize.Chart{
		Type:   excelize.Col,
		Series: series,
		Title:  []excelize.RichTextRun{{Text: "Mean rejection by interface and condition"}},
	})
	if err != nil {
		return errors.Wrap(err, "failed to add rejection chart")
	}
	return nil
}

// finite keeps non-finite statistics out of numeric cells; a degenerate
// zero-variance split yields an infinite F, which xlsx cannot hold.
func finite(v float64) interface{} {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return fmt.Sprintf("%v", v)
	}
	return v
}

func writeRow(f *excelize.File, sheet string, row int, values ...interface{}) error {
	for i, v := range values {
		cell, _ := excelize.CoordinatesToCellName(i+1, row)
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return errors.Wrapf(err, "failed to set %s!%s", sheet, cell)
		}
	}
	return nil
}
