package choiceoflaw

import (
	"math"

	"github.com/turtacn/JurisCompare/internal/domain/jurisdiction"
	"github.com/turtacn/JurisCompare/pkg/errors"
)

// Policy holds the configurable heuristics of the analyzer.
type Policy struct {
	BetterLawCap           float64
	BetterLawQualityWeight float64
}

// DefaultPolicy returns the built-in heuristics.
func DefaultPolicy() Policy {
	return Policy{BetterLawCap: DefaultBetterLawCap, BetterLawQualityWeight: DefaultBetterLawQualityWeight}
}

// Request is the input of one analysis.  An empty Approach selects the
// forum's approach from the table.  Qualities only affect Better-Law.
type Request struct {
	Pattern   FactPattern
	Forum     string
	Approach  Approach
	Qualities map[string]float64
}

// Analyzer selects a strategy and drives one analysis through
// Idle → ApproachSelected → FactorsCollected → Scored → Resolved.
// It holds only immutable inputs and is safe for concurrent use.
type Analyzer struct {
	registry jurisdiction.Registry
	table    *ApproachTable
	weights  WeightTable
	policy   Policy

	territorial *Territorial
	msr         *MostSignificantRelationship
	interest    *InterestAnalysis
	combined    *CombinedModern
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithApproachTable replaces the default forum table.
func WithApproachTable(t *ApproachTable) Option {
	return func(a *Analyzer) {
		if t != nil {
			a.table = t
		}
	}
}

// WithWeights replaces the default factor weights.
func WithWeights(w WeightTable) Option {
	return func(a *Analyzer) {
		if w != nil {
			a.weights = w
		}
	}
}

// WithPolicy replaces the default heuristics.
func WithPolicy(p Policy) Option {
	return func(a *Analyzer) { a.policy = p }
}

// NewAnalyzer builds an Analyzer resolving codes through reg.
func NewAnalyzer(reg jurisdiction.Registry, opts ...Option) *Analyzer {
	a := &Analyzer{
		registry: reg,
		table:    DefaultApproachTable(),
		weights:  DefaultWeights(),
		policy:   DefaultPolicy(),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.territorial = NewTerritorial(reg)
	a.msr = NewMostSignificantRelationship(reg, a.weights)
	a.interest = NewInterestAnalysis(reg)
	a.combined = NewCombinedModern(a.interest, a.msr)
	return a
}

// Table returns the forum→approach table.
func (a *Analyzer) Table() *ApproachTable { return a.table }

// SelectApproach returns the approach the forum follows and whether the
// forum was found in the table.
func (a *Analyzer) SelectApproach(forum string) (Approach, bool) {
	return a.table.Select(a.registry.Normalize(forum))
}

// Strategy returns the strategy for approach.  qualities is used by
// Better-Law only.
func (a *Analyzer) Strategy(approach Approach, qualities map[string]float64) (Strategy, error) {
	switch approach {
	case ApproachTerritorial:
		return a.territorial, nil
	case ApproachMostSignificantRelationship:
		return a.msr, nil
	case ApproachInterestAnalysis:
		return a.interest, nil
	case ApproachBetterLaw:
		return NewBetterLaw(a.msr, qualities, a.policy.BetterLawQualityWeight, a.policy.BetterLawCap), nil
	case ApproachCombinedModern:
		return a.combined, nil
	}
	return nil, errors.New(errors.ErrCodeUnknownApproach, "unknown choice-of-law approach").WithDetail("approach=" + string(approach))
}

// Analyze runs one analysis.  Unknown jurisdictions in the facts are
// excluded and recorded in the trace; the analysis still completes.
func (a *Analyzer) Analyze(req Request) (*Result, error) {
	r := newRun()

	approach, auto := req.Approach, false
	if approach == "" {
		approach, _ = a.SelectApproach(req.Forum)
		auto = true
	}
	strategy, err := a.Strategy(approach, req.Qualities)
	if err != nil {
		return nil, err
	}
	if err := r.advance(StateApproachSelected); err != nil {
		return nil, err
	}

	c := collect(a.registry, req.Pattern, req.Forum)
	if err := r.advance(StateFactorsCollected); err != nil {
		return nil, err
	}

	var res *Result
	if ca, ok := strategy.(collectedAnalyzer); ok {
		res, err = ca.analyzeCollected(c)
	} else {
		res, err = strategy.Analyze(req.Pattern, req.Forum)
	}
	if err != nil {
		return nil, err
	}
	if err := r.advance(StateScored); err != nil {
		return nil, err
	}

	if math.IsNaN(res.Confidence) {
		return nil, errors.New(errors.ErrCodeInternal, "analysis produced an undefined confidence").WithDetail("approach=" + string(approach))
	}
	res.Confidence = math.Max(0, math.Min(1, res.Confidence))
	res.AutoSelected = auto
	if res.Excluded == nil {
		res.Excluded = []string{}
	}
	if err := r.advance(StateResolved); err != nil {
		return nil, err
	}
	res.States = r.states()
	return res, nil
}

//Personal.AI order the ending
