package choiceoflaw

import (
	"sort"
	"strings"

	"github.com/turtacn/JurisCompare/internal/domain/jurisdiction"
	"github.com/turtacn/JurisCompare/pkg/errors"
)

// Approach names a choice-of-law doctrine.
type Approach string

const (
	ApproachTerritorial                 Approach = "territorial"
	ApproachMostSignificantRelationship Approach = "most_significant_relationship"
	ApproachInterestAnalysis            Approach = "interest_analysis"
	ApproachBetterLaw                   Approach = "better_law"
	ApproachCombinedModern              Approach = "combined_modern"
)

var approaches = []Approach{
	ApproachTerritorial,
	ApproachMostSignificantRelationship,
	ApproachInterestAnalysis,
	ApproachBetterLaw,
	ApproachCombinedModern,
}

var approachAliases = map[string]Approach{
	"lex_loci":           ApproachTerritorial,
	"msr":                ApproachMostSignificantRelationship,
	"second":             ApproachMostSignificantRelationship,
	"restatement_second": ApproachMostSignificantRelationship,
	"interest":           ApproachInterestAnalysis,
	"currie":             ApproachInterestAnalysis,
	"better":             ApproachBetterLaw,
	"leflar":             ApproachBetterLaw,
	"combined":           ApproachCombinedModern,
}

// IsValid reports whether a is a known approach.
func (a Approach) IsValid() bool {
	for _, x := range approaches {
		if x == a {
			return true
		}
	}
	return false
}

func (a Approach) String() string { return string(a) }

// ParseApproach parses an approach name or a short alias (msr, interest,
// better, combined, lex_loci).
func ParseApproach(s string) (Approach, error) {
	norm := strings.NewReplacer("-", "_", " ", "_").Replace(strings.ToLower(strings.TrimSpace(s)))
	if a := Approach(norm); a.IsValid() {
		return a, nil
	}
	if a, ok := approachAliases[norm]; ok {
		return a, nil
	}
	return "", errors.New(errors.ErrCodeUnknownApproach, "unknown choice-of-law approach").WithDetail("approach=" + s)
}

// AllApproaches returns every approach in declaration order.
func AllApproaches() []Approach {
	out := make([]Approach, len(approaches))
	copy(out, approaches)
	return out
}

// defaultForumApproaches is the built-in forum→approach table.
var defaultForumApproaches = map[string]Approach{
	"US-CA": ApproachInterestAnalysis,
	"US-NY": ApproachCombinedModern,
	"US-NJ": ApproachCombinedModern,
	"US-PA": ApproachCombinedModern,
	"US-MN": ApproachBetterLaw,
	"US-WI": ApproachBetterLaw,
	"US-NH": ApproachBetterLaw,
	"US-AR": ApproachBetterLaw,
	"US-GA": ApproachTerritorial,
	"US-VA": ApproachTerritorial,
	"US-AL": ApproachTerritorial,
	"US-MD": ApproachTerritorial,
	"US-NM": ApproachTerritorial,
	"US-KS": ApproachTerritorial,
	"US-WY": ApproachTerritorial,
	"US-SC": ApproachTerritorial,
	"EU":    ApproachTerritorial,
	"DE":    ApproachTerritorial,
	"FR":    ApproachTerritorial,
	"IT":    ApproachTerritorial,
	"ES":    ApproachTerritorial,
	"NL":    ApproachTerritorial,
	"GB":    ApproachTerritorial,
}

// ApproachTable maps a forum to the approach its courts follow.  It is
// immutable after construction.
type ApproachTable struct {
	byForum  map[string]Approach
	fallback Approach
}

// TableEntry is one row of an ApproachTable.
type TableEntry struct {
	Forum    string   `json:"forum"`
	Approach Approach `json:"approach"`
}

// NewApproachTable builds the built-in table extended by overrides.
// Override keys are jurisdiction codes in any case; values are approach
// names or aliases.  An empty fallback means most-significant-relationship.
func NewApproachTable(fallback Approach, overrides map[string]string) (*ApproachTable, error) {
	if fallback == "" {
		fallback = ApproachMostSignificantRelationship
	}
	if !fallback.IsValid() {
		return nil, errors.New(errors.ErrCodeUnknownApproach, "unknown default approach").WithDetail("approach=" + string(fallback))
	}
	t := &ApproachTable{byForum: make(map[string]Approach, len(defaultForumApproaches)+len(overrides)), fallback: fallback}
	for forum, a := range defaultForumApproaches {
		t.byForum[forum] = a
	}
	for forum, name := range overrides {
		a, err := ParseApproach(name)
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeUnknown, "invalid forum approach override").WithDetailf("forum=%s approach=%s", forum, name)
		}
		code := jurisdiction.NormalizeCode(forum)
		if code == "" {
			return nil, errors.New(errors.ErrCodeInvalidJurisdiction, "forum approach override has no forum")
		}
		t.byForum[code] = a
	}
	return t, nil
}

// DefaultApproachTable returns the built-in table with an MSR fallback.
func DefaultApproachTable() *ApproachTable {
	t, _ := NewApproachTable(ApproachMostSignificantRelationship, nil)
	return t
}

// Select returns the approach for forum and whether it came from the table.
func (t *ApproachTable) Select(forum string) (Approach, bool) {
	if a, ok := t.byForum[jurisdiction.NormalizeCode(forum)]; ok {
		return a, true
	}
	return t.fallback, false
}

// Fallback returns the approach used for forums not in the table.
func (t *ApproachTable) Fallback() Approach { return t.fallback }

// Entries returns the table rows ordered by forum.
func (t *ApproachTable) Entries() []TableEntry {
	out := make([]TableEntry, 0, len(t.byForum))
	for f, a := range t.byForum {
		out = append(out, TableEntry{Forum: f, Approach: a})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Forum < out[j].Forum })
	return out
}

//Personal.AI order the ending
