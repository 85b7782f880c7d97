package caselaw

import (
	"sort"
	"strings"

	"github.com/turtacn/JurisCompare/internal/domain/scoring"
	"github.com/turtacn/JurisCompare/pkg/errors"
)

// Relevance point bands.
const (
	DefaultSummaryPoints  = 30.0
	DefaultHoldingPoints  = 20.0
	DefaultTopicPoints    = 20.0
	DefaultSupremeBonus   = 30.0
	DefaultAppellateBonus = 20.0
	DefaultDistrictBonus  = 10.0

	MaxRelevance = 100.0
)

// RelevanceConfig holds the configurable relevance point bands.
type RelevanceConfig struct {
	SummaryPoints float64                `json:"summary_points"`
	HoldingPoints float64                `json:"holding_points"`
	TopicPoints   float64                `json:"topic_points"`
	CourtBonus    map[CourtLevel]float64 `json:"court_bonus"`
}

// DefaultRelevance returns the built-in point bands.
func DefaultRelevance() RelevanceConfig {
	return RelevanceConfig{
		SummaryPoints: DefaultSummaryPoints,
		HoldingPoints: DefaultHoldingPoints,
		TopicPoints:   DefaultTopicPoints,
		CourtBonus: map[CourtLevel]float64{
			CourtSupreme:   DefaultSupremeBonus,
			CourtAppellate: DefaultAppellateBonus,
			CourtDistrict:  DefaultDistrictBonus,
		},
	}
}

// normalized copies the config and replaces negative bands with zero.
func (c RelevanceConfig) normalized() RelevanceConfig {
	nonNeg := func(x float64) float64 {
		if x < 0 {
			return 0
		}
		return x
	}
	out := RelevanceConfig{
		SummaryPoints: nonNeg(c.SummaryPoints),
		HoldingPoints: nonNeg(c.HoldingPoints),
		TopicPoints:   nonNeg(c.TopicPoints),
		CourtBonus:    make(map[CourtLevel]float64, len(c.CourtBonus)),
	}
	for l, b := range c.CourtBonus {
		out.CourtBonus[l] = nonNeg(b)
	}
	return out
}

// Query is a filtered keyword query.  Keywords combine with AND semantics;
// an empty keyword list matches every decision that passes the filters.
// Topic matches the topic itself and its sub-topics.  Limit 0 is unbounded.
type Query struct {
	Keywords   []string   `json:"keywords"`
	CourtLevel CourtLevel `json:"court_level,omitempty"`
	Topic      string     `json:"topic,omitempty"`
	Limit      int        `json:"limit,omitempty"`
}

// SearchResult is a ranked decision.
type SearchResult struct {
	Decision *Decision `json:"decision"`
	Score    float64   `json:"score"`
}

// Terms returns the normalised, de-duplicated search terms of q.
func (q Query) Terms() []string {
	var terms []string
	seen := make(map[string]struct{})
	for _, kw := range q.Keywords {
		for _, tok := range Tokenize(kw) {
			if _, dup := seen[tok]; dup {
				continue
			}
			seen[tok] = struct{}{}
			terms = append(terms, tok)
		}
	}
	return terms
}

func (q Query) validate() (CourtLevel, error) {
	if q.Limit < 0 {
		return "", errors.New(errors.ErrCodeInvalidQuery, "limit must not be negative").WithDetailf("limit=%d", q.Limit)
	}
	if q.CourtLevel == "" {
		return "", nil
	}
	return ParseCourtLevel(string(q.CourtLevel))
}

// Search runs q.  No match is an empty result, never an error.  Results are
// ordered by score, then by most recent date, then by id.
func (ix *Index) Search(q Query) ([]SearchResult, error) {
	level, err := q.validate()
	if err != nil {
		return nil, err
	}
	terms := q.Terms()
	topic := NormalizeTopic(q.Topic)

	results := []SearchResult{}
	for _, id := range ix.candidates(terms) {
		d := ix.decisions[id]
		if level != "" && d.CourtLevel != level {
			continue
		}
		if topic != "" && d.Topic != topic && !strings.HasPrefix(d.Topic, topic+".") {
			continue
		}
		s, err := ix.score(d, terms, topic)
		if err != nil {
			return nil, err
		}
		results = append(results, SearchResult{Decision: d, Score: s})
	}

	sort.Slice(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if !a.Decision.Date.Equal(b.Decision.Date) {
			return a.Decision.Date.After(b.Decision.Date)
		}
		return a.Decision.ID < b.Decision.ID
	})
	if q.Limit > 0 && len(results) > q.Limit {
		results = results[:q.Limit]
	}
	for i := range results {
		results[i].Decision = results[i].Decision.Clone()
	}
	return results, nil
}

// candidates returns the ids holding every term, in ingestion order.
func (ix *Index) candidates(terms []string) []string {
	if len(terms) == 0 {
		out := make([]string, len(ix.order))
		copy(out, ix.order)
		return out
	}
	lists := make([]map[string]field, 0, len(terms))
	for _, t := range terms {
		docs, ok := ix.postings[t]
		if !ok {
			return nil
		}
		lists = append(lists, docs)
	}
	var out []string
	for _, id := range ix.order {
		all := true
		for _, docs := range lists {
			if _, ok := docs[id]; !ok {
				all = false
				break
			}
		}
		if all {
			out = append(out, id)
		}
	}
	return out
}

// score sums the point bands through the shared scorer and clamps to
// [0, MaxRelevance].
func (ix *Index) score(d *Decision, terms []string, topic string) (float64, error) {
	cfg := ix.relevance
	factors := make([]scoring.Factor, 0, 2*len(terms)+2)
	for _, t := range terms {
		f := ix.postings[t][d.ID]
		factors = append(factors,
			scoring.Factor{Name: "summary:" + t, Weight: cfg.SummaryPoints, Indicator: indicator(f&fieldSummary != 0)},
			scoring.Factor{Name: "holding:" + t, Weight: cfg.HoldingPoints, Indicator: indicator(f&fieldHolding != 0)},
		)
	}
	factors = append(factors, scoring.Factor{Name: "court:" + string(d.CourtLevel), Weight: cfg.CourtBonus[d.CourtLevel], Indicator: 1})
	if topic != "" {
		factors = append(factors, scoring.Factor{Name: "topic", Weight: cfg.TopicPoints, Indicator: indicator(d.Topic == topic)})
	}

	total := 0.0
	for _, f := range factors {
		total += f.Weight
	}
	if total <= 0 {
		return 0, nil
	}
	b, err := scoring.Evaluate(factors)
	if err != nil {
		return 0, err
	}
	return scoring.Clamp(b.Weighted, 0, MaxRelevance), nil
}

func indicator(ok bool) float64 {
	if ok {
		return 1
	}
	return 0
}

//Personal.AI order the ending
