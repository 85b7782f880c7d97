package choiceoflaw

import (
	"fmt"
)

// CombinedModern runs interest analysis first.  A false conflict is decided
// there; any other classification is decided by the most significant
// relationship, with the confidence of both stages averaged.
type CombinedModern struct {
	interest *InterestAnalysis
	msr      *MostSignificantRelationship
}

// NewCombinedModern builds the strategy.
func NewCombinedModern(interest *InterestAnalysis, msr *MostSignificantRelationship) *CombinedModern {
	return &CombinedModern{interest: interest, msr: msr}
}

// Approach implements Strategy.
func (cm *CombinedModern) Approach() Approach { return ApproachCombinedModern }

// Analyze implements Strategy.
func (cm *CombinedModern) Analyze(pattern FactPattern, forum string) (*Result, error) {
	return cm.analyzeCollected(collect(cm.msr.registry, pattern, forum))
}

func (cm *CombinedModern) analyzeCollected(c *collected) (*Result, error) {
	cl := classify(c)
	if cl.conflict == ConflictFalse {
		res, err := cm.interest.analyzeCollected(c)
		if err != nil {
			return nil, err
		}
		res.Approach = ApproachCombinedModern
		res.Reasoning = "Combined modern approach, interest stage: " + res.Reasoning
		return res, nil
	}

	out, err := cm.msr.score(c)
	if err != nil {
		return nil, err
	}
	res := cm.msr.resolve(c, out, ApproachCombinedModern)
	msrConfidence := res.Confidence
	res.Confidence = (ConfidencePolicyDefault + msrConfidence) / 2
	res.Conflict = cl.conflict

	trace := make([]TraceEntry, 0, len(res.Trace)+len(cl.trace))
	trace = append(trace, res.Trace[:len(c.notes)]...)
	trace = append(trace, cl.trace...)
	trace = append(trace, res.Trace[len(c.notes):]...)
	res.Trace = trace

	res.Reasoning = fmt.Sprintf("Combined modern approach: interest stage found %s (confidence %.2f); relationship stage: %s Confidence is the mean of %.2f and %.2f.",
		conflictLabel(cl.conflict), ConfidencePolicyDefault, res.Reasoning, ConfidencePolicyDefault, msrConfidence)
	return res, nil
}

func conflictLabel(c Conflict) string {
	switch c {
	case ConflictFalse:
		return "a false conflict"
	case ConflictTrue:
		return "a true conflict"
	case ConflictUnprovided:
		return "an unprovided-for case"
	}
	return "no conflict classification"
}

var (
	_ Strategy          = (*CombinedModern)(nil)
	_ collectedAnalyzer = (*CombinedModern)(nil)
)

//Personal.AI order the ending
