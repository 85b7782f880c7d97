// Package feed holds the wire records of the bulk rule and decision feeds
// and their conversion into domain values.
package feed

import (
	"strings"
	"time"

	"github.com/turtacn/JurisCompare/internal/domain/caselaw"
	"github.com/turtacn/JurisCompare/internal/domain/jurisdiction"
	"github.com/turtacn/JurisCompare/internal/domain/rule"
	"github.com/turtacn/JurisCompare/pkg/errors"
)

// JurisdictionRecord is a jurisdiction as it appears in a rule feed.
type JurisdictionRecord struct {
	Code      string   `json:"code" yaml:"code"`
	Name      string   `json:"name" yaml:"name"`
	Tradition string   `json:"tradition" yaml:"tradition"`
	Aliases   []string `json:"aliases,omitempty" yaml:"aliases,omitempty"`
}

// RuleRecord is one jurisdiction's rule on one topic.
type RuleRecord struct {
	Jurisdiction  string           `json:"jurisdiction" yaml:"jurisdiction"`
	Topic         string           `json:"topic" yaml:"topic"`
	Kind          string           `json:"kind" yaml:"kind"`
	Threshold     *rule.Threshold  `json:"threshold,omitempty" yaml:"threshold,omitempty"`
	Flag          *rule.Flag       `json:"flag,omitempty" yaml:"flag,omitempty"`
	Cap           *rule.DamagesCap `json:"cap,omitempty" yaml:"cap,omitempty"`
	Citation      string           `json:"citation,omitempty" yaml:"citation,omitempty"`
	EffectiveDate string           `json:"effective_date,omitempty" yaml:"effective_date,omitempty"`
}

// RuleFeed is a complete rule feed.
type RuleFeed struct {
	Jurisdictions []JurisdictionRecord `json:"jurisdictions" yaml:"jurisdictions"`
	Rules         []RuleRecord         `json:"rules" yaml:"rules"`
}

// DecisionRecord is a court decision as it appears in a decision feed.
// Date accepts 2006-01-02 or RFC 3339.
type DecisionRecord struct {
	ID            string            `json:"id" yaml:"id"`
	CaseNumber    string            `json:"case_number" yaml:"case_number"`
	Title         string            `json:"title,omitempty" yaml:"title,omitempty"`
	Date          string            `json:"date,omitempty" yaml:"date,omitempty"`
	CourtLevel    string            `json:"court_level" yaml:"court_level"`
	Court         string            `json:"court,omitempty" yaml:"court,omitempty"`
	Jurisdiction  string            `json:"jurisdiction,omitempty" yaml:"jurisdiction,omitempty"`
	Topic         string            `json:"topic,omitempty" yaml:"topic,omitempty"`
	Outcome       string            `json:"outcome,omitempty" yaml:"outcome,omitempty"`
	Summary       string            `json:"summary" yaml:"summary"`
	Holdings      []caselaw.Holding `json:"holdings,omitempty" yaml:"holdings,omitempty"`
	Parties       []caselaw.Party   `json:"parties,omitempty" yaml:"parties,omitempty"`
	CitedStatutes []string          `json:"cited_statutes,omitempty" yaml:"cited_statutes,omitempty"`
}

// DecisionFeed is a complete decision feed.
type DecisionFeed struct {
	Decisions []DecisionRecord `json:"decisions" yaml:"decisions"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Conversion
// ─────────────────────────────────────────────────────────────────────────────

// Registry builds the jurisdiction registry described by the feed.
func (f *RuleFeed) Registry() (*jurisdiction.InMemoryRegistry, error) {
	ids := make([]jurisdiction.ID, 0, len(f.Jurisdictions))
	aliases := make(map[string]string)
	for _, r := range f.Jurisdictions {
		tradition, err := jurisdiction.ParseTradition(r.Tradition)
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeUnknown, "invalid jurisdiction record").WithDetail("jurisdiction=" + r.Code)
		}
		ids = append(ids, jurisdiction.ID{Code: r.Code, Name: r.Name, Tradition: tradition})
		for _, a := range r.Aliases {
			alias := jurisdiction.NormalizeCode(a)
			if prev, dup := aliases[alias]; dup && prev != r.Code {
				return nil, errors.New(errors.ErrCodeInvalidJurisdiction, "alias claimed by two jurisdictions").WithDetail("alias=" + alias)
			}
			aliases[alias] = r.Code
		}
	}
	return jurisdiction.NewRegistry(ids, aliases)
}

// Entries converts every rule record, resolving codes through reg.  Rules
// for jurisdictions outside reg fail with UnknownJurisdiction.
func (f *RuleFeed) Entries(reg jurisdiction.Registry) ([]rule.Entry, error) {
	entries := make([]rule.Entry, 0, len(f.Rules))
	for i, r := range f.Rules {
		e, err := r.Entry(reg)
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeUnknown, "invalid rule record").WithDetailf("index=%d jurisdiction=%s topic=%s", i, r.Jurisdiction, r.Topic)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// Catalog builds the registry and the rule catalog in one step.
func (f *RuleFeed) Catalog() (*jurisdiction.InMemoryRegistry, *rule.Catalog, error) {
	reg, err := f.Registry()
	if err != nil {
		return nil, nil, err
	}
	entries, err := f.Entries(reg)
	if err != nil {
		return nil, nil, err
	}
	cat, err := rule.NewCatalog(entries, rule.WithCodeResolver(reg.Normalize))
	if err != nil {
		return nil, nil, err
	}
	return reg, cat, nil
}

// Entry converts r into a catalog entry.
func (r RuleRecord) Entry(reg jurisdiction.Registry) (rule.Entry, error) {
	id, err := reg.Get(r.Jurisdiction)
	if err != nil {
		return rule.Entry{}, err
	}
	topic, err := rule.ParseTopic(r.Topic)
	if err != nil {
		return rule.Entry{}, err
	}
	kind, err := rule.ParseKind(r.Kind)
	if err != nil {
		return rule.Entry{}, err
	}
	var effective *time.Time
	if strings.TrimSpace(r.EffectiveDate) != "" {
		t, err := parseDate(r.EffectiveDate)
		if err != nil {
			return rule.Entry{}, errors.Wrap(err, errors.ErrCodeInvalidRuleVariant, "invalid effective date")
		}
		effective = &t
	}
	v, err := rule.NewVariant(rule.VariantParams{
		Topic:         topic,
		Kind:          kind,
		Threshold:     r.Threshold,
		Flag:          r.Flag,
		Cap:           r.Cap,
		Citation:      r.Citation,
		EffectiveDate: effective,
	})
	if err != nil {
		return rule.Entry{}, err
	}
	return rule.Entry{Jurisdiction: id.Code, Topic: topic, Variant: v}, nil
}

// RecordFromEntry is the inverse of RuleRecord.Entry.
func RecordFromEntry(e rule.Entry) RuleRecord {
	r := RuleRecord{
		Jurisdiction: e.Jurisdiction,
		Topic:        string(e.Topic),
		Kind:         string(e.Variant.Kind),
		Threshold:    e.Variant.Threshold,
		Flag:         e.Variant.Flag,
		Cap:          e.Variant.Cap,
		Citation:     e.Variant.Citation,
	}
	if e.Variant.EffectiveDate != nil {
		r.EffectiveDate = e.Variant.EffectiveDate.Format(dateLayout)
	}
	return r
}

// Params converts r into decision constructor parameters.
func (r DecisionRecord) Params() (caselaw.DecisionParams, error) {
	p := caselaw.DecisionParams{
		ID:            r.ID,
		CaseNumber:    r.CaseNumber,
		Title:         r.Title,
		CourtLevel:    caselaw.CourtLevel(r.CourtLevel),
		Court:         r.Court,
		Jurisdiction:  r.Jurisdiction,
		Topic:         r.Topic,
		Outcome:       caselaw.Outcome(r.Outcome),
		Summary:       r.Summary,
		Holdings:      r.Holdings,
		Parties:       r.Parties,
		CitedStatutes: r.CitedStatutes,
	}
	if strings.TrimSpace(r.Date) != "" {
		t, err := parseDate(r.Date)
		if err != nil {
			return caselaw.DecisionParams{}, errors.Wrap(err, errors.ErrCodeInvalidDecision, "invalid decision date").WithDetail("id=" + r.ID)
		}
		p.Date = t
	}
	return p, nil
}

// DecisionRecordFrom is the inverse of DecisionRecord.Params.
func DecisionRecordFrom(p caselaw.DecisionParams) DecisionRecord {
	r := DecisionRecord{
		ID:            p.ID,
		CaseNumber:    p.CaseNumber,
		Title:         p.Title,
		CourtLevel:    string(p.CourtLevel),
		Court:         p.Court,
		Jurisdiction:  p.Jurisdiction,
		Topic:         p.Topic,
		Outcome:       string(p.Outcome),
		Summary:       p.Summary,
		Holdings:      p.Holdings,
		Parties:       p.Parties,
		CitedStatutes: p.CitedStatutes,
	}
	if !p.Date.IsZero() {
		r.Date = p.Date.UTC().Format(dateLayout)
	}
	return r
}

// Params converts every record, failing on the first bad date.
func (f *DecisionFeed) Params() ([]caselaw.DecisionParams, error) {
	out := make([]caselaw.DecisionParams, 0, len(f.Decisions))
	for _, r := range f.Decisions {
		p, err := r.Params()
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

const dateLayout = "2006-01-02"

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(dateLayout, s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

//Personal.AI order the ending
