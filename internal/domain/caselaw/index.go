package caselaw

import (
	"strings"

	"github.com/turtacn/JurisCompare/pkg/errors"
)

// field marks where a token occurs in a decision.
type field uint8

const (
	fieldSummary field = 1 << iota
	fieldHolding
)

// Index is an inverted index over decision summaries and holdings.
//
// Index is not synchronised.  Add is the only mutator; callers either build
// an Index before sharing it or serialise Add and publish a Clone.
type Index struct {
	relevance RelevanceConfig
	decisions map[string]*Decision
	order     []string
	postings  map[string]map[string]field
}

// IndexOption configures an Index.
type IndexOption func(*Index)

// WithRelevance sets the relevance point bands.
func WithRelevance(cfg RelevanceConfig) IndexOption {
	return func(ix *Index) { ix.relevance = cfg.normalized() }
}

// NewIndex returns an empty Index.
func NewIndex(opts ...IndexOption) *Index {
	ix := &Index{
		relevance: DefaultRelevance(),
		decisions: make(map[string]*Decision),
		postings:  make(map[string]map[string]field),
	}
	for _, opt := range opts {
		opt(ix)
	}
	return ix
}

// Build returns an Index holding decisions, failing on the first invalid or
// duplicate one.
func Build(params []DecisionParams, opts ...IndexOption) (*Index, error) {
	ix := NewIndex(opts...)
	for _, p := range params {
		d, err := NewDecision(p)
		if err != nil {
			return nil, err
		}
		if err := ix.Add(d); err != nil {
			return nil, err
		}
	}
	return ix, nil
}

// Add indexes d.  A repeated id fails with DuplicateID and leaves the index
// unchanged.
func (ix *Index) Add(d *Decision) error {
	if d == nil || strings.TrimSpace(d.ID) == "" {
		return invalidDecision("decision id is required", "")
	}
	if _, dup := ix.decisions[d.ID]; dup {
		return errors.New(errors.ErrCodeDuplicateID, "duplicate decision id").WithDetail("id=" + d.ID)
	}
	d = d.Clone()
	ix.decisions[d.ID] = d
	ix.order = append(ix.order, d.ID)

	ix.post(d.ID, d.Summary, fieldSummary)
	for _, h := range d.Holdings {
		ix.post(d.ID, h.Issue, fieldHolding)
		ix.post(d.ID, h.Conclusion, fieldHolding)
	}
	return nil
}

func (ix *Index) post(id, text string, f field) {
	for _, tok := range uniqueTokens(text) {
		docs, ok := ix.postings[tok]
		if !ok {
			docs = make(map[string]field)
			ix.postings[tok] = docs
		}
		docs[id] |= f
	}
}

// Get returns the decision with id or fails with CaseNotFound.
func (ix *Index) Get(id string) (*Decision, error) {
	if d, ok := ix.decisions[strings.TrimSpace(id)]; ok {
		return d.Clone(), nil
	}
	return nil, errors.New(errors.ErrCodeCaseNotFound, "decision not found").WithDetail("id=" + id)
}

// Len returns the number of indexed decisions.
func (ix *Index) Len() int { return len(ix.order) }

// Terms returns the number of distinct indexed tokens.
func (ix *Index) Terms() int { return len(ix.postings) }

// Decisions returns a copy of every decision in ingestion order.
func (ix *Index) Decisions() []*Decision {
	out := make([]*Decision, len(ix.order))
	for i, id := range ix.order {
		out[i] = ix.decisions[id].Clone()
	}
	return out
}

// Relevance returns the point bands in use.
func (ix *Index) Relevance() RelevanceConfig { return ix.relevance }

// Clone returns an independent copy.  Decisions are immutable and shared.
func (ix *Index) Clone() *Index {
	c := &Index{
		relevance: ix.relevance,
		decisions: make(map[string]*Decision, len(ix.decisions)),
		order:     make([]string, len(ix.order), len(ix.order)+1),
		postings:  make(map[string]map[string]field, len(ix.postings)),
	}
	copy(c.order, ix.order)
	for id, d := range ix.decisions {
		c.decisions[id] = d
	}
	for tok, docs := range ix.postings {
		cp := make(map[string]field, len(docs))
		for id, f := range docs {
			cp[id] = f
		}
		c.postings[tok] = cp
	}
	return c
}

//Personal.AI order the ending
