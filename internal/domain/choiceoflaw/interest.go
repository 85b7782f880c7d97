package choiceoflaw

import (
	"strings"

	"github.com/turtacn/JurisCompare/internal/domain/jurisdiction"
)

// InterestAnalysis classifies the dispute by the jurisdictions that have a
// legitimate policy interest in applying their law.  A single interested
// jurisdiction is a false conflict and its law applies.  Otherwise the forum
// applies its own law as a policy default.
type InterestAnalysis struct {
	registry jurisdiction.Registry
}

// NewInterestAnalysis builds the strategy.
func NewInterestAnalysis(reg jurisdiction.Registry) *InterestAnalysis {
	return &InterestAnalysis{registry: reg}
}

// Approach implements Strategy.
func (ia *InterestAnalysis) Approach() Approach { return ApproachInterestAnalysis }

// Analyze implements Strategy.
func (ia *InterestAnalysis) Analyze(pattern FactPattern, forum string) (*Result, error) {
	return ia.analyzeCollected(collect(ia.registry, pattern, forum))
}

// classification is the outcome of interest classification, independent of
// the forum.
type classification struct {
	conflict   Conflict
	interested []string
	trace      []TraceEntry
}

func classify(c *collected) classification {
	var cl classification
	seen := make(map[string]struct{})
	for _, in := range c.interests {
		e := TraceEntry{Factor: "interest", Jurisdiction: in.Jurisdiction, Weight: 1}
		switch {
		case in.Legitimate:
			e.Contribution = 1
			e.Note = "legitimate interest"
			if _, dup := seen[in.Jurisdiction]; !dup {
				seen[in.Jurisdiction] = struct{}{}
				cl.interested = append(cl.interested, in.Jurisdiction)
			}
		default:
			e.Note = "no legitimate interest"
		}
		if in.Policy != "" {
			e.Note += ": " + in.Policy
		}
		cl.trace = append(cl.trace, e)
	}
	switch len(cl.interested) {
	case 0:
		cl.conflict = ConflictUnprovided
	case 1:
		cl.conflict = ConflictFalse
	default:
		cl.conflict = ConflictTrue
	}
	return cl
}

func (ia *InterestAnalysis) analyzeCollected(c *collected) (*Result, error) {
	cl := classify(c)
	res := newResult(ApproachInterestAnalysis, c)
	res.Conflict = cl.conflict
	res.Trace = append(res.Trace, cl.trace...)

	var why reasoning
	switch cl.conflict {
	case ConflictFalse:
		winner := cl.interested[0]
		res.Selected = lookupID(ia.registry, winner)
		res.Confidence = ConfidenceFalseConflict
		why.addf("Interest analysis: false conflict. Only %s has a legitimate interest in applying its law, so %s law governs.", winner, winner)
	case ConflictTrue, ConflictUnprovided:
		if !c.forum.known {
			return nil, insufficientFacts("interest analysis needs a registered forum to apply forum law", c).
				WithDetailf("category=%s forum=%s conflict=%s", c.pattern.Category, c.forum.code, cl.conflict)
		}
		res.Selected = c.forum.id
		res.Confidence = ConfidencePolicyDefault
		if cl.conflict == ConflictTrue {
			why.addf("Interest analysis: true conflict between %s.", strings.Join(cl.interested, ", "))
		} else {
			why.addf("Interest analysis: unprovided-for case; no jurisdiction has a legitimate interest.")
		}
		why.addf("Applying forum law (%s) is a policy default, not a finding that %s has the stronger interest.", c.forum.code, c.forum.code)
	}
	if len(c.pattern.PolicyNotes) > 0 {
		why.addf("Policy notes: %s.", strings.Join(c.pattern.PolicyNotes, "; "))
	}
	res.Reasoning = why.String()
	return res, nil
}

var (
	_ Strategy          = (*InterestAnalysis)(nil)
	_ collectedAnalyzer = (*InterestAnalysis)(nil)
)

//Personal.AI order the ending
