package summary

import (
	"sort"

	"patternstudy/domain/survey"
)

// RankedInterface is one interface's condition effect on rejection rate.
// Delta is the signed mean-rejection difference between the
// highest-protection (UEEQ) and lowest-protection (RAW) conditions; a large
// positive delta means the autonomy-augmented framing moved participants
// furthest toward rejecting that pattern.
type RankedInterface struct {
	Rank          int              `json:"rank"`
	Interface     survey.Interface `json:"interface"`
	PatternName   string           `json:"pattern_name"`
	RejectionRaw  float64          `json:"rejection_raw"`
	RejectionUEQ  float64          `json:"rejection_ueq"`
	RejectionUEEQ float64          `json:"rejection_ueeq"`
	Delta         float64          `json:"delta"`
}

// RankInterfaces orders interfaces by descending delta, breaking ties on
// ascending interface index so the ranking stays deterministic.
func RankInterfaces(aggregates []InterfaceAggregate) []RankedInterface {
	type cell struct {
		raw, ueq, ueeq float64
	}

	cells := make(map[survey.Interface]*cell)
	for _, agg := range aggregates {
		c, ok := cells[agg.Interface]
		if !ok {
			c = &cell{}
			cells[agg.Interface] = c
		}
		switch agg.Condition {
		case string(survey.ConditionRaw):
			c.raw = agg.MeanRejection
		case string(survey.ConditionUEQ):
			c.ueq = agg.MeanRejection
		case string(survey.ConditionUEEQ):
			c.ueeq = agg.MeanRejection
		}
	}

	ranked := make([]RankedInterface, 0, len(cells))
	for iface, c := range cells {
		ranked = append(ranked, RankedInterface{
			Interface:     iface,
			PatternName:   iface.PatternName(),
			RejectionRaw:  c.raw,
			RejectionUEQ:  c.ueq,
			RejectionUEEQ: c.ueeq,
			Delta:         c.ueeq - c.raw,
		})
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Delta != ranked[j].Delta {
			return ranked[i].Delta > ranked[j].Delta
		}
		return ranked[i].Interface < ranked[j].Interface
	})
	for i := range ranked {
		ranked[i].Rank = i + 1
	}
	return ranked
}
