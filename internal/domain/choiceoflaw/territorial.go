package choiceoflaw

import (
	"github.com/turtacn/JurisCompare/internal/domain/jurisdiction"
)

// Territorial applies the law of the single place the matter category is
// tied to: the place of injury for torts, the place of contracting for
// contracts.  The place of conduct and the place of negotiation are the
// respective fallbacks.
type Territorial struct {
	registry jurisdiction.Registry
}

// NewTerritorial builds the territorial strategy.
func NewTerritorial(reg jurisdiction.Registry) *Territorial {
	return &Territorial{registry: reg}
}

// Approach implements Strategy.
func (t *Territorial) Approach() Approach { return ApproachTerritorial }

// Analyze implements Strategy.
func (t *Territorial) Analyze(pattern FactPattern, forum string) (*Result, error) {
	return t.analyzeCollected(collect(t.registry, pattern, forum))
}

func (t *Territorial) analyzeCollected(c *collected) (*Result, error) {
	tr, ok := territorialRules[c.pattern.Category]
	if !ok {
		return nil, insufficientFacts("no territorial rule for the matter category", c)
	}

	pick := func(kind FactorKind) (Factor, bool) {
		for _, f := range c.factors {
			if f.Kind == kind {
				return f, true
			}
		}
		return Factor{}, false
	}

	res := newResult(ApproachTerritorial, c)
	var why reasoning

	if f, ok := pick(tr.primary); ok {
		res.Selected = lookupID(t.registry, f.Jurisdiction)
		res.Confidence = ConfidencePrimaryFactor
		res.Trace = append(res.Trace, TraceEntry{Factor: string(f.Kind), Jurisdiction: f.Jurisdiction, Weight: 1, Contribution: 1, Note: "primary connecting factor"})
		why.addf("Territorial approach (%s): the %s is %s, so %s law governs.", tr.maxim, tr.primary.Label(), f.Jurisdiction, f.Jurisdiction)
		res.Reasoning = why.String()
		return res, nil
	}

	if f, ok := pick(tr.fallback); ok {
		res.Selected = lookupID(t.registry, f.Jurisdiction)
		res.Confidence = ConfidenceFallbackFactor
		res.Trace = append(res.Trace, TraceEntry{Factor: string(f.Kind), Jurisdiction: f.Jurisdiction, Weight: 1, Contribution: ConfidenceFallbackFactor, Note: "fallback connecting factor"})
		why.addf("Territorial approach (%s): the %s is not established;", tr.maxim, tr.primary.Label())
		why.addf("falling back to the %s, %s.", tr.fallback.Label(), f.Jurisdiction)
		res.Reasoning = why.String()
		return res, nil
	}

	return nil, insufficientFacts("territorial approach needs the "+tr.primary.Label()+" or the "+tr.fallback.Label(), c)
}

var (
	_ Strategy          = (*Territorial)(nil)
	_ collectedAnalyzer = (*Territorial)(nil)
)

//Personal.AI order the ending
