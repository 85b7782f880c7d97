// Package caselaw stores court decisions in an inverted index and ranks them
// against keyword queries.
package caselaw

import (
	"strings"
	"time"

	"github.com/turtacn/JurisCompare/internal/domain/jurisdiction"
	"github.com/turtacn/JurisCompare/pkg/errors"
)

// CourtLevel is the tier of the deciding court.
type CourtLevel string

const (
	CourtSupreme   CourtLevel = "supreme"
	CourtAppellate CourtLevel = "appellate"
	CourtDistrict  CourtLevel = "district"
)

// IsValid reports whether l is a known court level.
func (l CourtLevel) IsValid() bool {
	switch l {
	case CourtSupreme, CourtAppellate, CourtDistrict:
		return true
	}
	return false
}

func (l CourtLevel) String() string { return string(l) }

// ParseCourtLevel parses a court level (case-insensitive).
func ParseCourtLevel(s string) (CourtLevel, error) {
	l := CourtLevel(strings.ToLower(strings.TrimSpace(s)))
	if !l.IsValid() {
		return "", errors.New(errors.ErrCodeInvalidQuery, "unknown court level").WithDetail("court_level=" + s)
	}
	return l, nil
}

// Outcome is the disposition of a decision.
type Outcome string

const (
	OutcomeAffirmed  Outcome = "affirmed"
	OutcomeReversed  Outcome = "reversed"
	OutcomeRemanded  Outcome = "remanded"
	OutcomeVacated   Outcome = "vacated"
	OutcomeDismissed Outcome = "dismissed"
	OutcomeGranted   Outcome = "granted"
	OutcomeDenied    Outcome = "denied"
)

// IsValid reports whether o is a known outcome.
func (o Outcome) IsValid() bool {
	switch o {
	case OutcomeAffirmed, OutcomeReversed, OutcomeRemanded, OutcomeVacated,
		OutcomeDismissed, OutcomeGranted, OutcomeDenied:
		return true
	}
	return false
}

// Holding is one issue the court decided.
type Holding struct {
	Issue      string `json:"issue" yaml:"issue"`
	Reasoning  string `json:"reasoning,omitempty" yaml:"reasoning,omitempty"`
	Conclusion string `json:"conclusion" yaml:"conclusion"`
}

// Party is a litigant.
type Party struct {
	Name string `json:"name" yaml:"name"`
	Role string `json:"role,omitempty" yaml:"role,omitempty"`
}

// Decision is an immutable court decision.  Values read from an Index are
// copies.
type Decision struct {
	ID            string     `json:"id"`
	CaseNumber    string     `json:"case_number"`
	Title         string     `json:"title,omitempty"`
	Date          time.Time  `json:"date"`
	CourtLevel    CourtLevel `json:"court_level"`
	Court         string     `json:"court,omitempty"`
	Jurisdiction  string     `json:"jurisdiction,omitempty"`
	Topic         string     `json:"topic,omitempty"`
	Outcome       Outcome    `json:"outcome,omitempty"`
	Summary       string     `json:"summary"`
	Holdings      []Holding  `json:"holdings"`
	Parties       []Party    `json:"parties,omitempty"`
	CitedStatutes []string   `json:"cited_statutes,omitempty"`
}

// DecisionParams is the input to NewDecision.
type DecisionParams struct {
	ID            string     `json:"id" yaml:"id"`
	CaseNumber    string     `json:"case_number" yaml:"case_number"`
	Title         string     `json:"title,omitempty" yaml:"title,omitempty"`
	Date          time.Time  `json:"date" yaml:"date"`
	CourtLevel    CourtLevel `json:"court_level" yaml:"court_level"`
	Court         string     `json:"court,omitempty" yaml:"court,omitempty"`
	Jurisdiction  string     `json:"jurisdiction,omitempty" yaml:"jurisdiction,omitempty"`
	Topic         string     `json:"topic,omitempty" yaml:"topic,omitempty"`
	Outcome       Outcome    `json:"outcome,omitempty" yaml:"outcome,omitempty"`
	Summary       string     `json:"summary" yaml:"summary"`
	Holdings      []Holding  `json:"holdings,omitempty" yaml:"holdings,omitempty"`
	Parties       []Party    `json:"parties,omitempty" yaml:"parties,omitempty"`
	CitedStatutes []string   `json:"cited_statutes,omitempty" yaml:"cited_statutes,omitempty"`
}

func invalidDecision(msg, id string) *errors.AppError {
	e := errors.New(errors.ErrCodeInvalidDecision, msg)
	if id != "" {
		return e.WithDetail("id=" + id)
	}
	return e
}

// NormalizeTopic lower-cases a dot-path topic and trims each segment.
func NormalizeTopic(topic string) string {
	topic = strings.ToLower(strings.TrimSpace(topic))
	if topic == "" {
		return ""
	}
	parts := strings.Split(topic, ".")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return strings.Join(parts, ".")
}

func validTopic(topic string) bool {
	if topic == "" {
		return true
	}
	for _, p := range strings.Split(topic, ".") {
		if p == "" {
			return false
		}
	}
	return true
}

// NewDecision validates p and returns an immutable Decision.  A missing id,
// case number, summary or court level fails with InvalidDecision, as does a
// holding with neither issue nor conclusion.
func NewDecision(p DecisionParams) (*Decision, error) {
	id := strings.TrimSpace(p.ID)
	if id == "" {
		return nil, invalidDecision("decision id is required", "")
	}
	if strings.TrimSpace(p.CaseNumber) == "" {
		return nil, invalidDecision("case number is required", id)
	}
	if strings.TrimSpace(p.Summary) == "" {
		return nil, invalidDecision("summary is required", id)
	}
	level := CourtLevel(strings.ToLower(strings.TrimSpace(string(p.CourtLevel))))
	if !level.IsValid() {
		return nil, invalidDecision("court level must be supreme, appellate or district", id)
	}
	outcome := Outcome(strings.ToLower(strings.TrimSpace(string(p.Outcome))))
	if outcome != "" && !outcome.IsValid() {
		return nil, invalidDecision("unknown outcome "+string(p.Outcome), id)
	}
	topic := NormalizeTopic(p.Topic)
	if !validTopic(topic) {
		return nil, invalidDecision("topic path has an empty segment", id)
	}

	d := &Decision{
		ID:           id,
		CaseNumber:   strings.TrimSpace(p.CaseNumber),
		Title:        strings.TrimSpace(p.Title),
		Date:         p.Date.UTC(),
		CourtLevel:   level,
		Court:        strings.TrimSpace(p.Court),
		Jurisdiction: jurisdiction.NormalizeCode(p.Jurisdiction),
		Topic:        topic,
		Outcome:      outcome,
		Summary:      strings.TrimSpace(p.Summary),
		Holdings:     make([]Holding, 0, len(p.Holdings)),
	}
	for i, h := range p.Holdings {
		h = Holding{Issue: strings.TrimSpace(h.Issue), Reasoning: strings.TrimSpace(h.Reasoning), Conclusion: strings.TrimSpace(h.Conclusion)}
		if h.Issue == "" && h.Conclusion == "" {
			return nil, invalidDecision("holding needs an issue or a conclusion", id).WithDetailf("id=%s holding=%d", id, i)
		}
		d.Holdings = append(d.Holdings, h)
	}
	for _, party := range p.Parties {
		if name := strings.TrimSpace(party.Name); name != "" {
			d.Parties = append(d.Parties, Party{Name: name, Role: strings.TrimSpace(party.Role)})
		}
	}
	for _, s := range p.CitedStatutes {
		if s = strings.TrimSpace(s); s != "" {
			d.CitedStatutes = append(d.CitedStatutes, s)
		}
	}
	return d, nil
}

// Params returns the construction parameters of d.
func (d *Decision) Params() DecisionParams {
	return DecisionParams{
		ID:            d.ID,
		CaseNumber:    d.CaseNumber,
		Title:         d.Title,
		Date:          d.Date,
		CourtLevel:    d.CourtLevel,
		Court:         d.Court,
		Jurisdiction:  d.Jurisdiction,
		Topic:         d.Topic,
		Outcome:       d.Outcome,
		Summary:       d.Summary,
		Holdings:      append([]Holding(nil), d.Holdings...),
		Parties:       append([]Party(nil), d.Parties...),
		CitedStatutes: append([]string(nil), d.CitedStatutes...),
	}
}

// Clone returns a deep copy of d.  The index stores and hands out clones, so
// a caller changing a returned decision never changes the indexed one.
func (d *Decision) Clone() *Decision {
	if d == nil {
		return nil
	}
	c := *d
	if d.Holdings != nil {
		c.Holdings = append(make([]Holding, 0, len(d.Holdings)), d.Holdings...)
	}
	if d.Parties != nil {
		c.Parties = append(make([]Party, 0, len(d.Parties)), d.Parties...)
	}
	if d.CitedStatutes != nil {
		c.CitedStatutes = append(make([]string, 0, len(d.CitedStatutes)), d.CitedStatutes...)
	}
	return &c
}

//Personal.AI order the ending
