package survey

import (
	"fmt"
	"strings"

	"patternstudy/domain/core"
)

// Condition identifies the evaluation framework a participant saw when
// judging an interface.
type Condition string

const (
	// ConditionRaw shows the interface with raw UI feedback only (no metrics).
	ConditionRaw Condition = "RAW"
	// ConditionUEQ shows standard usability metrics alongside the interface.
	ConditionUEQ Condition = "UEQ"
	// ConditionUEEQ shows the autonomy-augmented metric set.
	ConditionUEEQ Condition = "UEEQ"
)

// Conditions returns the three experimental conditions in fixed order,
// from lowest protection (no metrics) to highest (autonomy-augmented).
func Conditions() []Condition {
	return []Condition{ConditionRaw, ConditionUEQ, ConditionUEEQ}
}

// conditionAliases maps raw condition codes and legacy aliases from earlier
// pipeline versions onto the three canonical labels. Canonical labels map to
// themselves so the relabeling is idempotent. None of the legacy names are
// assumed dead: older intermediate artifacts may still carry them.
var conditionAliases = map[string]Condition{
	"RAW":          ConditionRaw,
	"Raw":          ConditionRaw,
	"raw":          ConditionRaw,
	"NONE":         ConditionRaw,
	"NoMetrics":    ConditionRaw,
	"Control":      ConditionRaw,
	"UEQ":          ConditionUEQ,
	"ueq":          ConditionUEQ,
	"UEQ-S":        ConditionUEQ,
	"Standard":     ConditionUEQ,
	"UEEQ":         ConditionUEEQ,
	"ueeq":         ConditionUEEQ,
	"UEQ-A":        ConditionUEEQ,
	"UEQ+Autonomy": ConditionUEEQ,
	"Autonomy":     ConditionUEEQ,
}

// Canonicalize maps a raw condition value onto its canonical label.
// Unknown values pass through unchanged with ok=false so callers can flag
// them for manual review instead of failing the run.
func Canonicalize(raw string) (label string, ok bool) {
	if c, found := conditionAliases[strings.TrimSpace(raw)]; found {
		return string(c), true
	}
	return raw, false
}

// DisplayName returns the label used in summary tables and charts.
func (c Condition) DisplayName() string {
	switch c {
	case ConditionRaw:
		return "Raw Feedback"
	case ConditionUEQ:
		return "UEQ"
	case ConditionUEEQ:
		return "UEQ+Autonomy"
	default:
		return string(c)
	}
}

// InterfaceCount is the fixed number of example interfaces in the survey.
const InterfaceCount = 15

// Interface identifies one of the fifteen example UI mockups. Indices are
// 1-based to match the survey export's column naming.
type Interface int

// Interfaces returns all interface indices in fixed order.
func Interfaces() []Interface {
	out := make([]Interface, 0, InterfaceCount)
	for i := 1; i <= InterfaceCount; i++ {
		out = append(out, Interface(i))
	}
	return out
}

// Valid reports whether the index is within the fixed interface set.
func (i Interface) Valid() bool {
	return i >= 1 && i <= InterfaceCount
}

// String returns the interface code as emitted into the long-format artifact.
func (i Interface) String() string {
	return fmt.Sprintf("%d", int(i))
}

// patternNames maps each interface to the manipulative design pattern it
// instantiates. Used for presentation only; the artifact carries indices.
var patternNames = map[Interface]string{
	1:  "Confirmshaming",
	2:  "Fake Urgency",
	3:  "Fake Scarcity",
	4:  "Hidden Costs",
	5:  "Sneak into Basket",
	6:  "Forced Continuity",
	7:  "Roach Motel",
	8:  "Privacy Zuckering",
	9:  "Preselection",
	10: "Trick Questions",
	11: "Disguised Ads",
	12: "Nagging",
	13: "Obstruction",
	14: "Fake Social Proof",
	15: "Visual Interference",
}

// PatternName returns the dark-pattern taxonomy name for an interface.
func (i Interface) PatternName() string {
	if name, ok := patternNames[i]; ok {
		return name
	}
	return fmt.Sprintf("Pattern %d", int(i))
}

// FieldPair names the two survey export columns associated with one
// interface x condition cell.
type FieldPair struct {
	Tendency string
	Release  string
}

// Field returns the column names for an interface x condition cell. The
// export names columns "{index}_{condition} Tendency" and
// "{index}_{condition} Release". Keeping this as a single lookup means
// schema drift surfaces here instead of in string concatenation scattered
// through the reshaper.
func Field(iface Interface, cond Condition) FieldPair {
	prefix := fmt.Sprintf("%d_%s", int(iface), cond)
	return FieldPair{
		Tendency: prefix + " Tendency",
		Release:  prefix + " Release",
	}
}

// Schema returns every column pair the reshaper references, in the fixed
// interface-major, condition-minor order that defines artifact row ordering.
func Schema() []FieldPair {
	pairs := make([]FieldPair, 0, InterfaceCount*3)
	for _, iface := range Interfaces() {
		for _, cond := range Conditions() {
			pairs = append(pairs, Field(iface, cond))
		}
	}
	return pairs
}

// affirmativeMarker is matched case-insensitively as a substring against the
// release-decision field to derive the boolean release value.
const affirmativeMarker = "yes"

// ParseRelease converts the free-text release decision to a boolean.
func ParseRelease(raw string) bool {
	return strings.Contains(strings.ToLower(raw), affirmativeMarker)
}

// Observation is one participant x interface x condition judgement, the unit
// of analysis after reshaping.
//
// Invariants:
//   - TendencyNumeric is always present (rows with missing tendency are
//     dropped at extraction time)
//   - Rejection() == !ReleaseBinary exactly
//   - ParticipantID never appears in the exclusion set
type Observation struct {
	ResponseID      core.ResponseID    `json:"response_id"`
	ParticipantID   core.ParticipantID `json:"participant_id"`
	Interface       Interface          `json:"interface"`
	Condition       string             `json:"condition"`
	Tendency        string             `json:"tendency"`
	Release         string             `json:"release"`
	TendencyNumeric float64            `json:"tendency_numeric"`
	ReleaseBinary   bool               `json:"release_binary"`
}

// Rejection is the logical negation of the release decision; the study's
// primary dependent measure. Defined at the derived stage, not stored.
func (o Observation) Rejection() float64 {
	if o.ReleaseBinary {
		return 0
	}
	return 1
}

// ReleaseValue returns the release decision as 0/1 for aggregation.
func (o Observation) ReleaseValue() float64 {
	return 1 - o.Rejection()
}
