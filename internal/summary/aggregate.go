package summary

import (
	"sort"

	"patternstudy/domain/core"
	"patternstudy/domain/stats"
	"patternstudy/domain/survey"
)

// ParticipantAggregate collapses one participant's observations under one
// condition across the 15 interfaces. This is the unit for inferential
// statistics: treating each interface observation as independent would
// pseudoreplicate.
type ParticipantAggregate struct {
	ParticipantID core.ParticipantID `json:"participant_id"`
	Condition     string             `json:"condition"`
	MeanRejection float64            `json:"mean_rejection"`
	MeanTendency  float64            `json:"mean_tendency"`
	N             int                `json:"n"`
}

// AggregateByParticipant groups observations by (participant, condition) and
// computes missing-ignoring means. Output order is deterministic:
// participant ascending, then condition in canonical order.
func AggregateByParticipant(observations []survey.Observation) []ParticipantAggregate {
	type key struct {
		participant core.ParticipantID
		condition   string
	}
	type acc struct {
		rejection float64
		tendency  float64
		n         int
	}

	groups := make(map[key]*acc)
	for _, obs := range observations {
		k := key{obs.ParticipantID, obs.Condition}
		a, ok := groups[k]
		if !ok {
			a = &acc{}
			groups[k] = a
		}
		a.rejection += obs.Rejection()
		a.tendency += obs.TendencyNumeric
		a.n++
	}

	out := make([]ParticipantAggregate, 0, len(groups))
	for k, a := range groups {
		out = append(out, ParticipantAggregate{
			ParticipantID: k.participant,
			Condition:     k.condition,
			MeanRejection: a.rejection / float64(a.n),
			MeanTendency:  a.tendency / float64(a.n),
			N:             a.n,
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].ParticipantID != out[j].ParticipantID {
			return out[i].ParticipantID < out[j].ParticipantID
		}
		return conditionOrder(out[i].Condition) < conditionOrder(out[j].Condition)
	})
	return out
}

// InterfaceAggregate collapses observations across participants for one
// (interface, condition) cell. Drives the ranked presentation.
type InterfaceAggregate struct {
	Interface     survey.Interface `json:"interface"`
	PatternName   string           `json:"pattern_name"`
	Condition     string           `json:"condition"`
	MeanRejection float64          `json:"mean_rejection"`
	SEM           float64          `json:"sem"`
	N             int              `json:"n"`
}

// AggregateByInterface groups observations by (interface, condition) and
// computes mean rejection with its standard error. Output order is interface
// ascending, then condition in canonical order.
func AggregateByInterface(observations []survey.Observation) []InterfaceAggregate {
	type key struct {
		iface     survey.Interface
		condition string
	}

	groups := make(map[key][]float64)
	for _, obs := range observations {
		k := key{obs.Interface, obs.Condition}
		groups[k] = append(groups[k], obs.Rejection())
	}

	out := make([]InterfaceAggregate, 0, len(groups))
	for k, values := range groups {
		d := stats.Describe(k.condition, values)
		out = append(out, InterfaceAggregate{
			Interface:     k.iface,
			PatternName:   k.iface.PatternName(),
			Condition:     k.condition,
			MeanRejection: d.Mean,
			SEM:           d.SEM,
			N:             d.N,
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Interface != out[j].Interface {
			return out[i].Interface < out[j].Interface
		}
		return conditionOrder(out[i].Condition) < conditionOrder(out[j].Condition)
	})
	return out
}

// ReleaseContingency counts release decisions per condition.
type ReleaseContingency struct {
	Condition string `json:"condition"`
	Released  int    `json:"released"`
	Held      int    `json:"held"`
}

// Total returns the cell count for the condition.
func (c ReleaseContingency) Total() int {
	return c.Released + c.Held
}

// ContingencyByCondition tallies release=yes vs release=no per condition, in
// canonical condition order with unknown labels appended alphabetically.
func ContingencyByCondition(observations []survey.Observation) []ReleaseContingency {
	counts := make(map[string]*ReleaseContingency)
	for _, obs := range observations {
		c, ok := counts[obs.Condition]
		if !ok {
			c = &ReleaseContingency{Condition: obs.Condition}
			counts[obs.Condition] = c
		}
		if obs.ReleaseBinary {
			c.Released++
		} else {
			c.Held++
		}
	}

	out := make([]ReleaseContingency, 0, len(counts))
	for _, c := range counts {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool {
		oi, oj := conditionOrder(out[i].Condition), conditionOrder(out[j].Condition)
		if oi != oj {
			return oi < oj
		}
		return out[i].Condition < out[j].Condition
	})
	return out
}

// conditionOrder sorts canonical conditions by ascending protection level;
// unknown labels sort after all canonical ones.
func conditionOrder(condition string) int {
	for i, c := range survey.Conditions() {
		if string(c) == condition {
			return i
		}
	}
	return len(survey.Conditions())
}
