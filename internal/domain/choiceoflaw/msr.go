package choiceoflaw

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/turtacn/JurisCompare/internal/domain/jurisdiction"
	"github.com/turtacn/JurisCompare/internal/domain/scoring"
)

const scoreEpsilon = 1e-9

// MostSignificantRelationship weighs every contacting factor by a fixed
// per-category weight and selects the jurisdiction with the highest
// normalised score.  Confidence is the gap between the two best scores, so a
// close contest never reports high certainty.
type MostSignificantRelationship struct {
	registry jurisdiction.Registry
	weights  WeightTable
}

// NewMostSignificantRelationship builds the strategy.  A nil weights table
// means DefaultWeights.
func NewMostSignificantRelationship(reg jurisdiction.Registry, weights WeightTable) *MostSignificantRelationship {
	if weights == nil {
		weights = DefaultWeights()
	}
	return &MostSignificantRelationship{registry: reg, weights: weights}
}

// Approach implements Strategy.
func (m *MostSignificantRelationship) Approach() Approach {
	return ApproachMostSignificantRelationship
}

// Analyze implements Strategy.
func (m *MostSignificantRelationship) Analyze(pattern FactPattern, forum string) (*Result, error) {
	return m.analyzeCollected(collect(m.registry, pattern, forum))
}

type weightedFactor struct {
	Factor
	weight float64
}

// msrOutcome is the scored candidate set shared with Better-Law and
// Combined-Modern.
type msrOutcome struct {
	factors     []weightedFactor
	totalWeight float64
	candidates  []CandidateScore
}

func (m *MostSignificantRelationship) score(c *collected) (*msrOutcome, error) {
	out := &msrOutcome{}
	seen := make(map[string]struct{})
	var order []string
	for _, f := range c.factors {
		w := m.weights.Weight(c.pattern.Category, f.Kind)
		if w <= 0 {
			continue
		}
		out.factors = append(out.factors, weightedFactor{Factor: f, weight: w})
		out.totalWeight += w
		if _, ok := seen[f.Jurisdiction]; !ok {
			seen[f.Jurisdiction] = struct{}{}
			order = append(order, f.Jurisdiction)
		}
	}
	if len(out.factors) == 0 {
		return nil, insufficientFacts("no weighted contacting factor for the matter category", c)
	}

	for _, cand := range order {
		sf := make([]scoring.Factor, 0, len(out.factors))
		for _, f := range out.factors {
			ind := 0.0
			if f.Jurisdiction == cand {
				ind = 1
			}
			sf = append(sf, scoring.Factor{Name: string(f.Kind), Weight: f.weight, Indicator: ind})
		}
		s, err := scoring.Score(sf)
		if err != nil {
			return nil, err
		}
		out.candidates = append(out.candidates, CandidateScore{Jurisdiction: cand, Score: s})
	}
	return out, nil
}

// rank returns the index of the winner and the best score among the other
// candidates.  Ties prefer the forum, then the first-seen candidate.
func rank(cands []CandidateScore, forum string) (int, float64) {
	if len(cands) == 0 {
		return -1, 0
	}
	top := cands[0].Score
	for _, c := range cands[1:] {
		if c.Score > top {
			top = c.Score
		}
	}
	winner := -1
	for i, c := range cands {
		if math.Abs(c.Score-top) > scoreEpsilon {
			continue
		}
		if c.Jurisdiction == forum {
			winner = i
			break
		}
		if winner < 0 {
			winner = i
		}
	}
	second := 0.0
	for i, c := range cands {
		if i != winner && c.Score > second {
			second = c.Score
		}
	}
	return winner, second
}

// gapConfidence maps the distance between the two best scores to [0,1].
func gapConfidence(top, second float64) float64 {
	gap := top - second
	if gap < scoreEpsilon {
		return 0
	}
	return scoring.Clamp(gap, 0, 1)
}

func (m *MostSignificantRelationship) analyzeCollected(c *collected) (*Result, error) {
	out, err := m.score(c)
	if err != nil {
		return nil, err
	}
	return m.resolve(c, out, ApproachMostSignificantRelationship), nil
}

func (m *MostSignificantRelationship) resolve(c *collected, out *msrOutcome, approach Approach) *Result {
	res := newResult(approach, c)
	w, second := rank(out.candidates, c.forum.code)
	win := out.candidates[w]

	res.Selected = lookupID(m.registry, win.Jurisdiction)
	res.Confidence = gapConfidence(win.Score, second)
	res.Candidates = sortedCandidates(out.candidates)
	res.Trace = append(res.Trace, factorTrace(out, win.Jurisdiction)...)

	var why reasoning
	why.addf("Most significant relationship (%s): %s.", c.pattern.Category, describeCandidates(res.Candidates))
	if len(out.candidates) > 1 && res.Confidence == 0 {
		if win.Jurisdiction == c.forum.code {
			why.addf("The top scores are tied; the forum %s is preferred.", win.Jurisdiction)
		} else {
			why.addf("The top scores are tied; %s is named first in the facts.", win.Jurisdiction)
		}
	}
	why.addf("%s has the most significant relationship.", win.Jurisdiction)
	res.Reasoning = why.String()
	return res
}

func factorTrace(out *msrOutcome, winner string) []TraceEntry {
	entries := make([]TraceEntry, 0, len(out.factors))
	for _, f := range out.factors {
		e := TraceEntry{Factor: string(f.Kind), Jurisdiction: f.Jurisdiction, Weight: f.weight}
		if f.Jurisdiction == winner {
			e.Contribution = f.weight / out.totalWeight
			e.Note = "points to " + winner
		} else {
			e.Note = "points away from " + winner
		}
		entries = append(entries, e)
	}
	return entries
}

func sortedCandidates(in []CandidateScore) []CandidateScore {
	out := make([]CandidateScore, len(in))
	copy(out, in)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out
}

func describeCandidates(cands []CandidateScore) string {
	parts := make([]string, len(cands))
	for i, c := range cands {
		parts[i] = fmt.Sprintf("%s %.2f", c.Jurisdiction, c.Score)
	}
	return strings.Join(parts, ", ")
}

var (
	_ Strategy          = (*MostSignificantRelationship)(nil)
	_ collectedAnalyzer = (*MostSignificantRelationship)(nil)
)

//Personal.AI order the ending
