package rule

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/turtacn/JurisCompare/pkg/errors"
)

// Kind discriminates the RuleVariant payload.
type Kind string

const (
	KindThreshold     Kind = "threshold"
	KindFlag          Kind = "flag"
	KindCappedDamages Kind = "capped_damages"
)

// IsValid reports whether k is a known kind.
func (k Kind) IsValid() bool {
	switch k {
	case KindThreshold, KindFlag, KindCappedDamages:
		return true
	}
	return false
}

func (k Kind) String() string { return string(k) }

// ParseKind parses a kind name.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	if !k.IsValid() {
		return "", errors.New(errors.ErrCodeInvalidRuleVariant, "unknown rule kind").WithDetail("kind=" + s)
	}
	return k, nil
}

// Threshold is a rule with a numeric cutoff, e.g. modified comparative
// negligence barring recovery at 51 percent fault.
type Threshold struct {
	Name   string  `json:"name" yaml:"name"`
	Cutoff float64 `json:"cutoff" yaml:"cutoff"`
	Unit   string  `json:"unit,omitempty" yaml:"unit,omitempty"`
}

// Flag is a yes/no rule, e.g. punitive damages available.
type Flag struct {
	Name  string `json:"name" yaml:"name"`
	Value bool   `json:"value" yaml:"value"`
}

// DamagesCap limits an award to Amount under Conditions.
type DamagesCap struct {
	Amount     float64  `json:"amount" yaml:"amount"`
	Currency   string   `json:"currency" yaml:"currency"`
	Conditions []string `json:"conditions,omitempty" yaml:"conditions,omitempty"`
}

// Variant is the form a rule takes in one jurisdiction for one topic.  Exactly
// one payload matching Kind is set.  Citation and EffectiveDate are metadata
// and do not take part in equality.
type Variant struct {
	Kind          Kind        `json:"kind"`
	Threshold     *Threshold  `json:"threshold,omitempty"`
	Flag          *Flag       `json:"flag,omitempty"`
	Cap           *DamagesCap `json:"cap,omitempty"`
	Citation      string      `json:"citation,omitempty"`
	EffectiveDate *time.Time  `json:"effective_date,omitempty"`
}

// VariantParams is the input to NewVariant.
type VariantParams struct {
	Topic         Topic
	Kind          Kind
	Threshold     *Threshold
	Flag          *Flag
	Cap           *DamagesCap
	Citation      string
	EffectiveDate *time.Time
}

func invalidVariant(msg string, topic Topic) *errors.AppError {
	return errors.New(errors.ErrCodeInvalidRuleVariant, msg).WithDetail("topic=" + string(topic))
}

// NewVariant validates p and returns a normalised Variant.  Names, units and
// currencies are trimmed and lower/upper-cased; cap conditions are trimmed,
// de-duplicated and sorted.
func NewVariant(p VariantParams) (Variant, error) {
	if !p.Topic.IsValid() {
		return Variant{}, errors.New(errors.ErrCodeUnknownTopic, "unknown legal topic").WithDetail("topic=" + string(p.Topic))
	}
	if !p.Kind.IsValid() {
		return Variant{}, invalidVariant("unknown rule kind "+strconv.Quote(string(p.Kind)), p.Topic)
	}
	if p.Kind != p.Topic.ExpectedKind() {
		return Variant{}, invalidVariant(fmt.Sprintf("topic expects kind %s, got %s", p.Topic.ExpectedKind(), p.Kind), p.Topic)
	}

	v := Variant{Kind: p.Kind, Citation: strings.TrimSpace(p.Citation)}
	if p.EffectiveDate != nil {
		d := *p.EffectiveDate
		v.EffectiveDate = &d
	}

	payloads := 0
	for _, set := range []bool{p.Threshold != nil, p.Flag != nil, p.Cap != nil} {
		if set {
			payloads++
		}
	}
	if payloads != 1 {
		return Variant{}, invalidVariant(fmt.Sprintf("exactly one payload is required, got %d", payloads), p.Topic)
	}

	switch p.Kind {
	case KindThreshold:
		if p.Threshold == nil {
			return Variant{}, invalidVariant("threshold payload is required", p.Topic)
		}
		th := *p.Threshold
		th.Name = normalizeName(th.Name)
		th.Unit = strings.ToLower(strings.TrimSpace(th.Unit))
		if th.Name == "" {
			return Variant{}, invalidVariant("threshold name is required", p.Topic)
		}
		if th.Cutoff < 0 || math.IsNaN(th.Cutoff) || math.IsInf(th.Cutoff, 0) {
			return Variant{}, invalidVariant("threshold cutoff must be a finite non-negative number", p.Topic)
		}
		v.Threshold = &th
	case KindFlag:
		if p.Flag == nil {
			return Variant{}, invalidVariant("flag payload is required", p.Topic)
		}
		fl := *p.Flag
		fl.Name = normalizeName(fl.Name)
		if fl.Name == "" {
			return Variant{}, invalidVariant("flag name is required", p.Topic)
		}
		v.Flag = &fl
	case KindCappedDamages:
		if p.Cap == nil {
			return Variant{}, invalidVariant("cap payload is required", p.Topic)
		}
		c := DamagesCap{
			Amount:     p.Cap.Amount,
			Currency:   strings.ToUpper(strings.TrimSpace(p.Cap.Currency)),
			Conditions: normalizeConditions(p.Cap.Conditions),
		}
		if c.Amount < 0 || math.IsNaN(c.Amount) || math.IsInf(c.Amount, 0) {
			return Variant{}, invalidVariant("cap amount must be a finite non-negative number", p.Topic)
		}
		if c.Currency == "" {
			return Variant{}, invalidVariant("cap currency is required", p.Topic)
		}
		v.Cap = &c
	}
	return v, nil
}

func normalizeName(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func normalizeConditions(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, c := range in {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// validFor reports whether v is well formed for topic.  Catalog load uses it
// to reject hand-built variants that bypassed NewVariant.
func (v Variant) validFor(topic Topic) error {
	if v.Kind != topic.ExpectedKind() {
		return invalidVariant(fmt.Sprintf("topic expects kind %s, got %s", topic.ExpectedKind(), v.Kind), topic)
	}
	switch v.Kind {
	case KindThreshold:
		if v.Threshold == nil {
			return invalidVariant("threshold payload is required", topic)
		}
	case KindFlag:
		if v.Flag == nil {
			return invalidVariant("flag payload is required", topic)
		}
	case KindCappedDamages:
		if v.Cap == nil {
			return invalidVariant("cap payload is required", topic)
		}
	default:
		return invalidVariant("unknown rule kind "+strconv.Quote(string(v.Kind)), topic)
	}
	return nil
}

// Key returns a canonical encoding of the structural content of v.  Two
// variants are structurally equal exactly when their keys are equal.  Text
// fields are quoted so separators inside names or conditions cannot collide.
func (v Variant) Key() string {
	f := func(x float64) string { return strconv.FormatFloat(x, 'g', -1, 64) }
	q := strconv.Quote
	switch v.Kind {
	case KindThreshold:
		if v.Threshold == nil {
			break
		}
		return "threshold|" + q(v.Threshold.Name) + "|" + f(v.Threshold.Cutoff) + "|" + q(v.Threshold.Unit)
	case KindFlag:
		if v.Flag == nil {
			break
		}
		return "flag|" + q(v.Flag.Name) + "|" + strconv.FormatBool(v.Flag.Value)
	case KindCappedDamages:
		if v.Cap == nil {
			break
		}
		conds := make([]string, len(v.Cap.Conditions))
		for i, c := range v.Cap.Conditions {
			conds[i] = q(c)
		}
		sort.Strings(conds)
		return "cap|" + f(v.Cap.Amount) + "|" + q(v.Cap.Currency) + "|" + strings.Join(conds, ";")
	}
	return "invalid|" + string(v.Kind)
}

// Clone returns a deep copy of v.  The catalog hands out clones so callers
// cannot reach the stored payloads.
func (v Variant) Clone() Variant {
	out := v
	if v.Threshold != nil {
		th := *v.Threshold
		out.Threshold = &th
	}
	if v.Flag != nil {
		fl := *v.Flag
		out.Flag = &fl
	}
	if v.Cap != nil {
		c := *v.Cap
		if v.Cap.Conditions != nil {
			c.Conditions = append([]string(nil), v.Cap.Conditions...)
		}
		out.Cap = &c
	}
	if v.EffectiveDate != nil {
		d := *v.EffectiveDate
		out.EffectiveDate = &d
	}
	return out
}

// Equal reports structural equality, ignoring citation and effective date.
func (v Variant) Equal(o Variant) bool {
	return v.Key() == o.Key()
}

// Describe renders v for reports.
func (v Variant) Describe() string {
	f := func(x float64) string { return strconv.FormatFloat(x, 'f', -1, 64) }
	switch v.Kind {
	case KindThreshold:
		if v.Threshold == nil {
			break
		}
		s := v.Threshold.Name + " (cutoff " + f(v.Threshold.Cutoff)
		if v.Threshold.Unit != "" {
			s += " " + v.Threshold.Unit
		}
		return s + ")"
	case KindFlag:
		if v.Flag == nil {
			break
		}
		if v.Flag.Value {
			return v.Flag.Name + ": yes"
		}
		return v.Flag.Name + ": no"
	case KindCappedDamages:
		if v.Cap == nil {
			break
		}
		s := "cap " + f(v.Cap.Amount) + " " + v.Cap.Currency
		if len(v.Cap.Conditions) > 0 {
			s += " when " + strings.Join(v.Cap.Conditions, ", ")
		}
		return s
	}
	return "invalid " + string(v.Kind) + " rule"
}

// MustThreshold is a test and fixture helper; it panics on invalid input.
func MustThreshold(topic Topic, name string, cutoff float64, unit string) Variant {
	v, err := NewVariant(VariantParams{Topic: topic, Kind: KindThreshold, Threshold: &Threshold{Name: name, Cutoff: cutoff, Unit: unit}})
	if err != nil {
		panic(err)
	}
	return v
}

// MustFlag is a test and fixture helper; it panics on invalid input.
func MustFlag(topic Topic, name string, value bool) Variant {
	v, err := NewVariant(VariantParams{Topic: topic, Kind: KindFlag, Flag: &Flag{Name: name, Value: value}})
	if err != nil {
		panic(err)
	}
	return v
}

// MustCap is a test and fixture helper; it panics on invalid input.
func MustCap(topic Topic, amount float64, currency string, conditions ...string) Variant {
	v, err := NewVariant(VariantParams{Topic: topic, Kind: KindCappedDamages, Cap: &DamagesCap{Amount: amount, Currency: currency, Conditions: conditions}})
	if err != nil {
		panic(err)
	}
	return v
}

//Personal.AI order the ending
