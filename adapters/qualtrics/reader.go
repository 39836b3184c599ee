package qualtrics

import (
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// RawRow is one respondent row from the wide export, keyed by header name.
type RawRow map[string]string

// WideTable is the parsed wide-format survey export: one row per respondent,
// Qualtrics header-artifact rows already removed.
type WideTable struct {
	Headers []string
	Rows    []RawRow

	ArtifactRows int // header-artifact rows dropped during parsing
}

// HasColumn reports whether the export header contains the named column.
func (t *WideTable) HasColumn(name string) bool {
	for _, h := range t.Headers {
		if h == name {
			return true
		}
	}
	return false
}

// SurveyReader parses Qualtrics wide-format exports. Tab-separated is the
// export default; comma-separated files are accepted by extension.
type SurveyReader struct {
	filePath  string
	delimiter rune
}

// NewSurveyReader creates a reader for the given export file.
func NewSurveyReader(filePath string) *SurveyReader {
	delimiter := '\t'
	if strings.ToLower(filepath.Ext(filePath)) == ".csv" {
		delimiter = ','
	}
	return &SurveyReader{filePath: filePath, delimiter: delimiter}
}

// Read parses the export into a WideTable.
func (r *SurveyReader) Read() (*WideTable, error) {
	log.Printf("[SurveyReader] Starting to read export: %s", r.filePath)

	file, err := os.Open(r.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("survey export not found: %s", r.filePath)
		}
		return nil, fmt.Errorf("failed to open survey export: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.Comma = r.delimiter
	reader.FieldsPerRecord = -1 // exports pad ragged rows
	reader.LazyQuotes = true

	readStart := time.Now()
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse survey export: %w", err)
	}
	readTime := time.Since(readStart)
	log.Printf("[SurveyReader] Export read in %.2fms (%d rows)", float64(readTime.Nanoseconds())/1e6, len(rows))

	if len(rows) < 2 {
		return nil, fmt.Errorf("survey export must have at least a header row and one data row")
	}

	return r.processRows(rows)
}

// processRows converts raw string rows into the WideTable format, skipping
// the secondary header rows Qualtrics emits below the real header.
func (r *SurveyReader) processRows(rows [][]string) (*WideTable, error) {
	headerRow := rows[0]
	headers := make([]string, len(headerRow))
	for i, header := range headerRow {
		headers[i] = strings.TrimSpace(header)
	}

	idIndex := -1
	for i, h := range headers {
		if h == ColumnResponseID {
			idIndex = i
			break
		}
	}
	if idIndex < 0 {
		return nil, fmt.Errorf("survey export missing %q column", ColumnResponseID)
	}

	table := &WideTable{Headers: headers}
	for i := 1; i < len(rows); i++ {
		row := rows[i]

		id := ""
		if idIndex < len(row) {
			id = strings.TrimSpace(row[idIndex])
		}
		if isHeaderArtifact(id) {
			table.ArtifactRows++
			continue
		}
		if id == "" {
			// A data row with no response identifier cannot be attributed;
			// treat it as export noise like the artifact rows.
			table.ArtifactRows++
			continue
		}

		rowData := make(RawRow, len(headers))
		for j, cell := range row {
			if j < len(headers) {
				rowData[headers[j]] = strings.TrimSpace(cell)
			}
		}
		table.Rows = append(table.Rows, rowData)
	}

	log.Printf("[SurveyReader] Export processed (%d columns, %d respondents, %d artifact rows skipped)",
		len(table.Headers), len(table.Rows), table.ArtifactRows)
	return table, nil
}

// ColumnResponseID is the export's respondent identifier column.
const ColumnResponseID = "ResponseId"

// ColumnParticipantID is the recruitment-platform identifier column.
const ColumnParticipantID = "PROLIFIC_PID"

// isHeaderArtifact detects the question-text and import-id rows Qualtrics
// places directly under the header. Their identifier cell carries either the
// literal column label or the ImportId JSON fragment.
func isHeaderArtifact(idCell string) bool {
	if strings.Contains(idCell, "ImportId") {
		return true
	}
	switch idCell {
	case "Response ID", ColumnResponseID:
		return true
	}
	return false
}
