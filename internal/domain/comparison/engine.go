// Package comparison computes majority and minority rule positions and the
// pairwise similarity matrix for one topic across a set of jurisdictions.
package comparison

import (
	"github.com/turtacn/JurisCompare/internal/domain/jurisdiction"
	"github.com/turtacn/JurisCompare/internal/domain/rule"
	"github.com/turtacn/JurisCompare/pkg/errors"
)

// Similarity values.
const (
	SimilarityEqual     = 1.0
	SimilarityDifferent = 0.0
	// SimilarityUnknown signals insufficient data; it is not a guess.
	SimilarityUnknown = 0.5
)

// Position is one distinct rule value with its holders.
type Position struct {
	Variant       rule.Variant `json:"variant"`
	Count         int          `json:"count"`
	Jurisdictions []string     `json:"jurisdictions"`
}

// Result is the outcome of one comparison.  It is computed per call and
// never cached inside the engine.
type Result struct {
	Topic         rule.Topic        `json:"topic"`
	Jurisdictions []jurisdiction.ID `json:"jurisdictions"`
	// Majority is nil when no compared jurisdiction has a known rule.
	Majority *Position  `json:"majority,omitempty"`
	Minority []Position `json:"minority"`
	// ByJurisdiction maps every compared code to its variant, nil when unknown.
	ByJurisdiction map[string]*rule.Variant `json:"by_jurisdiction"`
	Unknown        []string                 `json:"unknown"`
	// Unregistered lists the codes the registry does not know; they are
	// also part of Unknown.
	Unregistered []string `json:"unregistered"`
	// Similarity is indexed in Jurisdictions order.
	Similarity [][]float64 `json:"similarity"`
}

// UnknownCount returns the number of compared jurisdictions without a rule.
func (r *Result) UnknownCount() int { return len(r.Unknown) }

// KnownCount returns the number of compared jurisdictions with a rule.
func (r *Result) KnownCount() int { return len(r.Jurisdictions) - len(r.Unknown) }

// SimilarityOf returns the similarity of two compared codes.
func (r *Result) SimilarityOf(a, b string) (float64, bool) {
	i, j := r.indexOf(a), r.indexOf(b)
	if i < 0 || j < 0 {
		return 0, false
	}
	return r.Similarity[i][j], true
}

func (r *Result) indexOf(code string) int {
	c := jurisdiction.NormalizeCode(code)
	for i, id := range r.Jurisdictions {
		if id.Code == c {
			return i
		}
	}
	return -1
}

// Engine compares rules held in a Catalog.  It is stateless beyond its
// immutable inputs and safe for concurrent use.
type Engine struct {
	catalog  *rule.Catalog
	registry jurisdiction.Registry
}

// NewEngine builds an Engine over catalog and registry.
func NewEngine(catalog *rule.Catalog, registry jurisdiction.Registry) *Engine {
	return &Engine{catalog: catalog, registry: registry}
}

// Compare computes the comparison of topic across codes.  Codes are
// normalised through the registry and de-duplicated in first-seen order; at
// least two distinct codes are required.
func (e *Engine) Compare(topic rule.Topic, codes []string) (*Result, error) {
	if !topic.IsValid() {
		return nil, errors.New(errors.ErrCodeUnknownTopic, "unknown legal topic").WithDetail("topic=" + string(topic))
	}

	ids := make([]jurisdiction.ID, 0, len(codes))
	seen := make(map[string]struct{}, len(codes))
	var unregistered []string
	for _, raw := range codes {
		code := e.registry.Normalize(raw)
		if code == "" {
			continue
		}
		if _, dup := seen[code]; dup {
			continue
		}
		seen[code] = struct{}{}
		id, ok := e.registry.Lookup(code)
		if !ok {
			id = jurisdiction.Unregistered(code)
			unregistered = append(unregistered, code)
		}
		ids = append(ids, id)
	}
	if len(ids) < 2 {
		return nil, errors.New(errors.ErrCodeInsufficientJurisdictions, "at least two distinct jurisdictions are required").
			WithDetailf("topic=%s jurisdictions=%d", topic, len(ids))
	}

	res := &Result{
		Topic:          topic,
		Jurisdictions:  ids,
		ByJurisdiction: make(map[string]*rule.Variant, len(ids)),
		Minority:       []Position{},
		Unknown:        []string{},
		Unregistered:   []string{},
	}
	res.Unregistered = append(res.Unregistered, unregistered...)

	variants := make([]*rule.Variant, len(ids))
	for i, id := range ids {
		if !id.IsRegistered() {
			res.Unknown = append(res.Unknown, id.Code)
			res.ByJurisdiction[id.Code] = nil
			continue
		}
		v, ok := e.catalog.Get(id.Code, topic)
		if !ok {
			res.Unknown = append(res.Unknown, id.Code)
			res.ByJurisdiction[id.Code] = nil
			continue
		}
		vv := v
		variants[i] = &vv
		res.ByJurisdiction[id.Code] = &vv
	}

	classes := groupByValue(ids, variants)
	if len(classes) > 0 {
		major := 0
		for i := 1; i < len(classes); i++ {
			// strict comparison keeps the first-seen class on ties
			if classes[i].Count > classes[major].Count {
				major = i
			}
		}
		m := classes[major]
		res.Majority = &m
		for i, c := range classes {
			if i != major {
				res.Minority = append(res.Minority, c)
			}
		}
	}

	res.Similarity = similarityMatrix(variants)
	return res, nil
}

// groupByValue partitions the known variants into structural-equality
// classes in first-seen order.
func groupByValue(ids []jurisdiction.ID, variants []*rule.Variant) []Position {
	var classes []Position
	index := make(map[string]int)
	for i, v := range variants {
		if v == nil {
			continue
		}
		key := v.Key()
		if at, ok := index[key]; ok {
			classes[at].Count++
			classes[at].Jurisdictions = append(classes[at].Jurisdictions, ids[i].Code)
			continue
		}
		index[key] = len(classes)
		classes = append(classes, Position{Variant: v.Clone(), Count: 1, Jurisdictions: []string{ids[i].Code}})
	}
	return classes
}

// Similarity returns the similarity of two possibly unknown variants.
func Similarity(a, b *rule.Variant) float64 {
	switch {
	case a == nil || b == nil:
		return SimilarityUnknown
	case a.Equal(*b):
		return SimilarityEqual
	default:
		return SimilarityDifferent
	}
}

func similarityMatrix(variants []*rule.Variant) [][]float64 {
	n := len(variants)
	m := make([][]float64, n)
	for i := range m {
		m[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		m[i][i] = SimilarityEqual
		for j := i + 1; j < n; j++ {
			s := Similarity(variants[i], variants[j])
			m[i][j] = s
			m[j][i] = s
		}
	}
	return m
}

//Personal.AI order the ending
