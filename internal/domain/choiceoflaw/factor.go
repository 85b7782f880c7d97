// Package choiceoflaw selects the governing jurisdiction of a
// multi-jurisdiction dispute.  Each doctrinal approach is a Strategy; the
// Analyzer picks one, drives it through the analysis states and returns a
// Result with a confidence, a factor trace and reasoning text.
package choiceoflaw

import (
	"strings"

	"github.com/turtacn/JurisCompare/internal/domain/jurisdiction"
	"github.com/turtacn/JurisCompare/internal/domain/rule"
	"github.com/turtacn/JurisCompare/pkg/errors"
)

// FactorKind is the type of a contacting fact.
type FactorKind string

const (
	FactorPlaceOfInjury         FactorKind = "place_of_injury"
	FactorPlaceOfConduct        FactorKind = "place_of_conduct"
	FactorDomicileOfPlaintiff   FactorKind = "domicile_of_plaintiff"
	FactorDomicileOfDefendant   FactorKind = "domicile_of_defendant"
	FactorPlaceOfBusiness       FactorKind = "place_of_business"
	FactorCenterOfRelationship  FactorKind = "center_of_relationship"
	FactorPlaceOfContracting    FactorKind = "place_of_contracting"
	FactorPlaceOfNegotiation    FactorKind = "place_of_negotiation"
	FactorPlaceOfPerformance    FactorKind = "place_of_performance"
	FactorSubjectMatterLocation FactorKind = "location_of_subject_matter"
)

var factorKinds = []FactorKind{
	FactorPlaceOfInjury,
	FactorPlaceOfConduct,
	FactorDomicileOfPlaintiff,
	FactorDomicileOfDefendant,
	FactorPlaceOfBusiness,
	FactorCenterOfRelationship,
	FactorPlaceOfContracting,
	FactorPlaceOfNegotiation,
	FactorPlaceOfPerformance,
	FactorSubjectMatterLocation,
}

// IsValid reports whether k is a known factor kind.
func (k FactorKind) IsValid() bool {
	for _, x := range factorKinds {
		if x == k {
			return true
		}
	}
	return false
}

func (k FactorKind) String() string { return string(k) }

// Label returns a human-readable label, e.g. "place of injury".
func (k FactorKind) Label() string {
	return strings.ReplaceAll(string(k), "_", " ")
}

// ParseFactorKind parses a factor kind; "-" and spaces are accepted for "_".
func ParseFactorKind(s string) (FactorKind, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.NewReplacer("-", "_", " ", "_").Replace(norm)
	k := FactorKind(norm)
	if !k.IsValid() {
		return "", errors.New(errors.ErrCodeInvalidFactor, "unknown contacting factor").WithDetail("factor=" + s)
	}
	return k, nil
}

// AllFactorKinds returns every factor kind in declaration order.
func AllFactorKinds() []FactorKind {
	out := make([]FactorKind, len(factorKinds))
	copy(out, factorKinds)
	return out
}

// Factor is a typed fact connecting the dispute to a jurisdiction.
type Factor struct {
	Kind         FactorKind `json:"kind"`
	Jurisdiction string     `json:"jurisdiction"`
}

// Interest records whether a jurisdiction has a policy interest in applying
// its own law to the dispute.
type Interest struct {
	Jurisdiction string `json:"jurisdiction"`
	Policy       string `json:"policy,omitempty"`
	Legitimate   bool   `json:"legitimate"`
}

// FactPattern is the validated input of one analysis.
type FactPattern struct {
	Category    rule.Category `json:"category"`
	Topic       rule.Topic    `json:"topic,omitempty"`
	Factors     []Factor      `json:"factors"`
	Interests   []Interest    `json:"interests,omitempty"`
	PolicyNotes []string      `json:"policy_notes,omitempty"`
}

// FactPatternParams is the input to NewFactPattern.
type FactPatternParams struct {
	Category    rule.Category
	Topic       rule.Topic
	Factors     []Factor
	Interests   []Interest
	PolicyNotes []string
}

// NewFactPattern validates p.  The category may be omitted when a topic is
// given; it is then taken from the topic.  Factor order is preserved.
func NewFactPattern(p FactPatternParams) (FactPattern, error) {
	fp := FactPattern{Category: p.Category, Topic: p.Topic}

	if p.Topic != "" {
		if !p.Topic.IsValid() {
			return FactPattern{}, errors.New(errors.ErrCodeUnknownTopic, "unknown legal topic").WithDetail("topic=" + string(p.Topic))
		}
		if fp.Category == "" {
			fp.Category = p.Topic.Category()
		} else if fp.Category != p.Topic.Category() {
			return FactPattern{}, errors.New(errors.ErrCodeInvalidFactor, "topic does not belong to the matter category").
				WithDetailf("topic=%s category=%s", p.Topic, fp.Category)
		}
	}
	if !fp.Category.IsValid() {
		return FactPattern{}, errors.New(errors.ErrCodeInvalidFactor, "matter category is required").
			WithDetail("category=" + string(fp.Category))
	}

	fp.Factors = make([]Factor, 0, len(p.Factors))
	for _, f := range p.Factors {
		if !f.Kind.IsValid() {
			return FactPattern{}, errors.New(errors.ErrCodeInvalidFactor, "unknown contacting factor").WithDetail("factor=" + string(f.Kind))
		}
		code := jurisdiction.NormalizeCode(f.Jurisdiction)
		if code == "" {
			return FactPattern{}, errors.New(errors.ErrCodeInvalidFactor, "contacting factor has no jurisdiction").WithDetail("factor=" + string(f.Kind))
		}
		fp.Factors = append(fp.Factors, Factor{Kind: f.Kind, Jurisdiction: code})
	}

	for _, in := range p.Interests {
		code := jurisdiction.NormalizeCode(in.Jurisdiction)
		if code == "" {
			return FactPattern{}, errors.New(errors.ErrCodeInvalidFactor, "policy interest has no jurisdiction")
		}
		fp.Interests = append(fp.Interests, Interest{Jurisdiction: code, Policy: strings.TrimSpace(in.Policy), Legitimate: in.Legitimate})
	}

	for _, n := range p.PolicyNotes {
		if n = strings.TrimSpace(n); n != "" {
			fp.PolicyNotes = append(fp.PolicyNotes, n)
		}
	}
	return fp, nil
}

// collected is a fact pattern resolved against the registry.  Factors and
// interests naming unknown jurisdictions are dropped and recorded.
type collected struct {
	pattern   FactPattern
	forum     forumRef
	factors   []Factor
	interests []Interest
	excluded  []string
	notes     []TraceEntry
}

func (c *collected) addExcluded(code string) {
	for _, x := range c.excluded {
		if x == code {
			return
		}
	}
	c.excluded = append(c.excluded, code)
}

func (c *collected) exclude(factor, code string) {
	c.notes = append(c.notes, TraceEntry{
		Factor:       factor,
		Jurisdiction: code,
		Note:         "excluded: " + jurisdiction.UnknownError(code).Error(),
	})
	c.addExcluded(code)
}

func collect(reg jurisdiction.Registry, p FactPattern, forum string) *collected {
	c := &collected{pattern: p}
	for _, f := range p.Factors {
		id, ok := reg.Lookup(f.Jurisdiction)
		if !ok {
			c.exclude(string(f.Kind), reg.Normalize(f.Jurisdiction))
			continue
		}
		c.factors = append(c.factors, Factor{Kind: f.Kind, Jurisdiction: id.Code})
	}
	for _, in := range p.Interests {
		id, ok := reg.Lookup(in.Jurisdiction)
		if !ok {
			c.exclude("interest", reg.Normalize(in.Jurisdiction))
			continue
		}
		c.interests = append(c.interests, Interest{Jurisdiction: id.Code, Policy: in.Policy, Legitimate: in.Legitimate})
	}
	resolveForum(reg, forum, c)
	return c
}

//Personal.AI order the ending
