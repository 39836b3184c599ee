package testkit

import (
	"fmt"
	"math/rand"
	"strings"

	"patternstudy/adapters/qualtrics"
	"patternstudy/domain/survey"
)

// TestKit generates deterministic synthetic survey exports for tests. A
// fixed seed makes fixtures reproducible across runs.
type TestKit struct {
	rng *rand.Rand
}

// NewTestKit creates a test kit with a fixed seed.
func NewTestKit() *TestKit {
	return &TestKit{rng: rand.New(rand.NewSource(42))}
}

// NewTestKitWithSeed creates a test kit with a caller-chosen seed.
func NewTestKitWithSeed(seed int64) *TestKit {
	return &TestKit{rng: rand.New(rand.NewSource(seed))}
}

// Headers returns the full wide-export header: identifier columns followed
// by every tendency/release column pair in schema order.
func Headers() []string {
	headers := []string{qualtrics.ColumnResponseID, qualtrics.ColumnParticipantID}
	for _, pair := range survey.Schema() {
		headers = append(headers, pair.Tendency, pair.Release)
	}
	return headers
}

// Respondent is one synthetic survey participant. Cells index by column
// name; absent cells render empty, simulating partial completion.
type Respondent struct {
	ResponseID    string
	ParticipantID string
	Cells         map[string]string
}

// NewRespondent creates a fully-completed synthetic respondent. Tendency
// rises and release flips to "No" under the autonomy-augmented condition,
// giving fixtures a known condition effect to detect.
func (k *TestKit) NewRespondent(n int) Respondent {
	r := Respondent{
		ResponseID:    fmt.Sprintf("R_%03d", n),
		ParticipantID: fmt.Sprintf("P_%03d", n),
		Cells:         make(map[string]string),
	}
	for _, iface := range survey.Interfaces() {
		for _, cond := range survey.Conditions() {
			pair := survey.Field(iface, cond)
			switch cond {
			case survey.ConditionRaw:
				r.Cells[pair.Tendency] = fmt.Sprintf("%d", 4+k.rng.Intn(2)) // 4-5
				r.Cells[pair.Release] = "Yes"
			case survey.ConditionUEQ:
				r.Cells[pair.Tendency] = fmt.Sprintf("%d", 3+k.rng.Intn(2)) // 3-4
				r.Cells[pair.Release] = "Yes"
			case survey.ConditionUEEQ:
				r.Cells[pair.Tendency] = fmt.Sprintf("%d", 1+k.rng.Intn(2)) // 1-2
				r.Cells[pair.Release] = "No"
			}
		}
	}
	return r
}

// ExportTSV renders respondents as a tab-separated export, including the
// question-text and ImportId artifact rows Qualtrics emits under the header.
func ExportTSV(respondents ...Respondent) string {
	headers := Headers()
	var b strings.Builder
	b.WriteString(strings.Join(headers, "\t"))
	b.WriteByte('\n')

	// Artifact row 1: question text, identifier cell carries the label.
	artifact1 := make([]string, len(headers))
	artifact1[0] = "Response ID"
	for i := 1; i < len(headers); i++ {
		artifact1[i] = "Question text"
	}
	b.WriteString(strings.Join(artifact1, "\t"))
	b.WriteByte('\n')

	// Artifact row 2: ImportId JSON fragments.
	artifact2 := make([]string, len(headers))
	for i, h := range headers {
		artifact2[i] = fmt.Sprintf("{\"ImportId\":\"%s\"}", h)
	}
	b.WriteString(strings.Join(artifact2, "\t"))
	b.WriteByte('\n')

	for _, r := range respondents {
		row := make([]string, len(headers))
		row[0] = r.ResponseID
		row[1] = r.ParticipantID
		for i := 2; i < len(headers); i++ {
			row[i] = r.Cells[headers[i]]
		}
		b.WriteString(strings.Join(row, "\t"))
		b.WriteByte('\n')
	}
	return b.String()
}

// WideTable builds the parsed table directly, bypassing file IO for tests
// that exercise reshaping alone.
func WideTable(respondents ...Respondent) *qualtrics.WideTable {
	headers := Headers()
	table := &qualtrics.WideTable{Headers: headers}
	for _, r := range respondents {
		row := make(qualtrics.RawRow, len(headers))
		row[qualtrics.ColumnResponseID] = r.ResponseID
		row[qualtrics.ColumnParticipantID] = r.ParticipantID
		for k, v := range r.Cells {
			row[k] = v
		}
		table.Rows = append(table.Rows, row)
	}
	return table
}
