package choiceoflaw

import (
	"fmt"
	"sort"

	"github.com/turtacn/JurisCompare/internal/domain/scoring"
	"github.com/turtacn/JurisCompare/pkg/errors"
)

// Better-Law policy defaults.
const (
	DefaultBetterLawCap           = 0.7
	DefaultBetterLawQualityWeight = 0.5
	neutralLawQuality             = 0.5
)

// BetterLaw starts from the most-significant-relationship scores.  When the
// caller supplies law-quality judgments each candidate's final score blends
// its relationship score with its law quality.  Without them the
// relationship result stands and its confidence is capped, since the
// better-law judgment was not made.
type BetterLaw struct {
	msr           *MostSignificantRelationship
	qualities     map[string]float64
	qualityWeight float64
	cap           float64
}

// NewBetterLaw builds the strategy.  qualities maps jurisdiction codes or
// aliases to a quality in [0,1] and may be nil.
func NewBetterLaw(msr *MostSignificantRelationship, qualities map[string]float64, qualityWeight, confidenceCap float64) *BetterLaw {
	return &BetterLaw{msr: msr, qualities: qualities, qualityWeight: qualityWeight, cap: confidenceCap}
}

// Approach implements Strategy.
func (b *BetterLaw) Approach() Approach { return ApproachBetterLaw }

// Analyze implements Strategy.
func (b *BetterLaw) Analyze(pattern FactPattern, forum string) (*Result, error) {
	return b.analyzeCollected(collect(b.msr.registry, pattern, forum))
}

func (b *BetterLaw) analyzeCollected(c *collected) (*Result, error) {
	out, err := b.msr.score(c)
	if err != nil {
		return nil, err
	}

	qualities := make(map[string]float64, len(b.qualities))
	var ignored []TraceEntry
	for code, q := range b.qualities {
		id, ok := b.msr.registry.Lookup(code)
		if !ok {
			ignored = append(ignored, TraceEntry{Factor: "law_quality", Jurisdiction: b.msr.registry.Normalize(code), Note: "quality for an unknown jurisdiction ignored"})
			continue
		}
		qualities[id.Code] = q
	}
	sort.Slice(ignored, func(i, j int) bool { return ignored[i].Jurisdiction < ignored[j].Jurisdiction })

	// only judgments on registered jurisdictions count
	if len(qualities) == 0 {
		res := b.msr.resolve(c, out, ApproachBetterLaw)
		if res.Confidence > b.cap {
			res.Confidence = b.cap
		}
		res.Trace = append(res.Trace, ignored...)
		res.Reasoning += fmt.Sprintf(" No law-quality judgment was supplied; confidence is capped at %.2f.", b.cap)
		return res, nil
	}

	adjusted := make([]CandidateScore, 0, len(out.candidates))
	blended := make(map[string]scoring.Breakdown, len(out.candidates))
	for _, cand := range out.candidates {
		q, ok := qualities[cand.Jurisdiction]
		if !ok {
			q = neutralLawQuality
		}
		bd, err := scoring.Evaluate([]scoring.Factor{
			{Name: "relationship", Weight: 1 - b.qualityWeight, Indicator: cand.Score},
			{Name: "law_quality", Weight: b.qualityWeight, Indicator: q},
		})
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeUnknown, "invalid law-quality judgment").
				WithDetailf("jurisdiction=%s quality=%v", cand.Jurisdiction, q)
		}
		blended[cand.Jurisdiction] = bd
		adjusted = append(adjusted, CandidateScore{Jurisdiction: cand.Jurisdiction, Score: bd.Score})
	}

	w, second := rank(adjusted, c.forum.code)
	win := adjusted[w]
	res := newResult(ApproachBetterLaw, c)
	res.Selected = lookupID(b.msr.registry, win.Jurisdiction)
	res.Confidence = gapConfidence(win.Score, second)
	res.Candidates = sortedCandidates(adjusted)
	res.Trace = append(res.Trace, factorTrace(out, win.Jurisdiction)...)
	for _, cb := range blended[win.Jurisdiction].Contributions {
		res.Trace = append(res.Trace, TraceEntry{
			Factor:       cb.Name,
			Jurisdiction: win.Jurisdiction,
			Weight:       cb.Weight,
			Contribution: cb.Contribution,
			Note:         fmt.Sprintf("indicator %.2f", cb.Indicator),
		})
	}
	res.Trace = append(res.Trace, ignored...)

	var why reasoning
	why.addf("Better law: relationship scores %s;", describeCandidates(sortedCandidates(out.candidates)))
	why.addf("blended with law quality at weight %.2f gives %s.", b.qualityWeight, describeCandidates(res.Candidates))
	why.addf("%s offers the better rule of law.", win.Jurisdiction)
	res.Reasoning = why.String()
	return res, nil
}

var (
	_ Strategy          = (*BetterLaw)(nil)
	_ collectedAnalyzer = (*BetterLaw)(nil)
)

//Personal.AI order the ending
