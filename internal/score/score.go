// Package score computes the 200-800 scaled score from session outcomes,
// using the official CISM domain weighting.
package score

import "math"

// Scaled score bounds and the fixed passing threshold. Passing is used for
// display only; the scorer never decides pass/fail.
const (
	Floor   = 200
	Ceiling = 800
	Passing = 450
)

// DomainWeights is the fixed scoring weight per content domain.
var DomainWeights = map[int]float64{
	1: 0.17,
	2: 0.20,
	3: 0.33,
	4: 0.30,
}

// Outcome is the scored view of one answered question.
type Outcome struct {
	Domain  int
	Correct bool
}

// DomainResult is the per-domain accuracy breakdown for display.
type DomainResult struct {
	Domain  int
	Total   int
	Correct int
}

// Accuracy returns correct/total, or 0 for an empty domain.
func (d DomainResult) Accuracy() float64 {
	if d.Total == 0 {
		return 0
	}
	return float64(d.Correct) / float64(d.Total)
}

// Scale maps outcomes to a scaled score in [Floor, Ceiling]. Per-domain
// accuracies are combined as a weighted mean, normalized over only the
// domains actually represented, so a partial-domain session is not
// penalized for domains it never touched. Undomained outcomes count toward
// domain 1. Empty outcomes score the floor.
func Scale(outcomes []Outcome) int {
	byDomain := Breakdown(outcomes)
	if len(byDomain) == 0 {
		return Floor
	}

	var weighted, weightSum float64
	for _, dr := range byDomain {
		w := DomainWeights[dr.Domain]
		weighted += w * dr.Accuracy()
		weightSum += w
	}
	if weightSum == 0 {
		return Floor
	}

	a := weighted / weightSum
	return int(math.Round(Floor + a*(Ceiling-Floor)))
}

// Breakdown groups outcomes by domain, in domain order. Undomained
// outcomes fold into domain 1.
func Breakdown(outcomes []Outcome) []DomainResult {
	totals := make(map[int]*DomainResult)
	for _, o := range outcomes {
		d := o.Domain
		if d == 0 {
			d = 1
		}
		dr := totals[d]
		if dr == nil {
			dr = &DomainResult{Domain: d}
			totals[d] = dr
		}
		dr.Total++
		if o.Correct {
			dr.Correct++
		}
	}

	var out []DomainResult
	for d := 1; d <= 4; d++ {
		if dr, ok := totals[d]; ok {
			out = append(out, *dr)
		}
	}
	return out
}
