package feed

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/JurisCompare/internal/domain/caselaw"
	"github.com/turtacn/JurisCompare/internal/domain/rule"
	"github.com/turtacn/JurisCompare/pkg/errors"
)

const rulesYAML = `
jurisdictions:
  - {code: us-ca, name: California, tradition: common_law}
  - {code: GB, name: England and Wales, tradition: common_law, aliases: [uk]}
  - {code: DE, name: Germany, tradition: civil_law}
rules:
  - jurisdiction: US-CA
    topic: comparative_negligence
    kind: threshold
    threshold: {name: Pure, cutoff: 100, unit: percent}
  - jurisdiction: UK
    topic: punitive-damages
    kind: flag
    flag: {name: available, value: true}
    effective_date: "2001-05-01"
  - jurisdiction: DE
    topic: non_economic_damages_cap
    kind: capped_damages
    cap: {amount: 100000, currency: eur}
`

func TestRuleFeed_Catalog(t *testing.T) {
	t.Parallel()

	f, err := DecodeRules(FormatYAML, []byte(rulesYAML))
	require.NoError(t, err)

	reg, cat, err := f.Catalog()
	require.NoError(t, err)
	assert.Equal(t, 3, reg.Len())
	assert.Equal(t, "GB", reg.Normalize("uk"))
	assert.Equal(t, 3, cat.Len())

	v, ok := cat.Get("GB", rule.TopicPunitiveDamages)
	require.True(t, ok)
	require.NotNil(t, v.EffectiveDate)
	assert.Equal(t, time.Date(2001, 5, 1, 0, 0, 0, 0, time.UTC), *v.EffectiveDate)

	v, ok = cat.Get("DE", rule.TopicNonEconomicDamagesCap)
	require.True(t, ok)
	assert.Equal(t, "EUR", v.Cap.Currency)

	entries := cat.AllForJurisdiction("US-CA")
	require.Len(t, entries, 1)
	back := RecordFromEntry(entries[0])
	assert.Equal(t, "threshold", back.Kind)
	assert.Equal(t, "US-CA", back.Jurisdiction)
}

func TestRuleFeed_Errors(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		feed RuleFeed
		code errors.ErrorCode
	}{
		{
			name: "bad tradition",
			feed: RuleFeed{Jurisdictions: []JurisdictionRecord{{Code: "XX", Tradition: "feudal"}}},
			code: errors.ErrCodeInvalidJurisdiction,
		},
		{
			name: "duplicate jurisdiction",
			feed: RuleFeed{Jurisdictions: []JurisdictionRecord{{Code: "DE", Tradition: "civil_law"}, {Code: "de", Tradition: "civil_law"}}},
			code: errors.ErrCodeDuplicateJurisdiction,
		},
		{
			name: "alias claimed twice",
			feed: RuleFeed{Jurisdictions: []JurisdictionRecord{
				{Code: "GB", Tradition: "common_law", Aliases: []string{"UK"}},
				{Code: "IE", Tradition: "common_law", Aliases: []string{"uk"}},
			}},
			code: errors.ErrCodeInvalidJurisdiction,
		},
		{
			name: "rule for unregistered jurisdiction",
			feed: RuleFeed{
				Jurisdictions: []JurisdictionRecord{{Code: "DE", Tradition: "civil_law"}},
				Rules:         []RuleRecord{{Jurisdiction: "FR", Topic: "punitive_damages", Kind: "flag", Flag: &rule.Flag{Name: "available"}}},
			},
			code: errors.ErrCodeUnknownJurisdiction,
		},
		{
			name: "unknown topic",
			feed: RuleFeed{
				Jurisdictions: []JurisdictionRecord{{Code: "DE", Tradition: "civil_law"}},
				Rules:         []RuleRecord{{Jurisdiction: "DE", Topic: "adverse_possession", Kind: "flag", Flag: &rule.Flag{Name: "x"}}},
			},
			code: errors.ErrCodeUnknownTopic,
		},
		{
			name: "kind mismatch",
			feed: RuleFeed{
				Jurisdictions: []JurisdictionRecord{{Code: "DE", Tradition: "civil_law"}},
				Rules:         []RuleRecord{{Jurisdiction: "DE", Topic: "punitive_damages", Kind: "threshold", Threshold: &rule.Threshold{Name: "x"}}},
			},
			code: errors.ErrCodeInvalidRuleVariant,
		},
		{
			name: "bad effective date",
			feed: RuleFeed{
				Jurisdictions: []JurisdictionRecord{{Code: "DE", Tradition: "civil_law"}},
				Rules:         []RuleRecord{{Jurisdiction: "DE", Topic: "punitive_damages", Kind: "flag", Flag: &rule.Flag{Name: "x"}, EffectiveDate: "yesterday"}},
			},
			code: errors.ErrCodeInvalidRuleVariant,
		},
		{
			name: "duplicate rule",
			feed: RuleFeed{
				Jurisdictions: []JurisdictionRecord{{Code: "DE", Tradition: "civil_law"}},
				Rules: []RuleRecord{
					{Jurisdiction: "DE", Topic: "punitive_damages", Kind: "flag", Flag: &rule.Flag{Name: "x"}},
					{Jurisdiction: "de", Topic: "punitive_damages", Kind: "flag", Flag: &rule.Flag{Name: "y"}},
				},
			},
			code: errors.ErrCodeDuplicateRuleEntry,
		},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, _, err := tc.feed.Catalog()
			require.Error(t, err)
			assert.Equal(t, tc.code, errors.GetCode(err), err.Error())
		})
	}
}

func TestDecisionRecord_Params(t *testing.T) {
	t.Parallel()

	rec := DecisionRecord{
		ID:         "d1",
		CaseNumber: "C-1",
		Date:       "2020-02-03",
		CourtLevel: "Supreme",
		Topic:      "Tort.Fraud",
		Summary:    "Fraud",
		Holdings:   []caselaw.Holding{{Issue: "fraud"}},
	}
	p, err := rec.Params()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2020, 2, 3, 0, 0, 0, 0, time.UTC), p.Date)

	d, err := caselaw.NewDecision(p)
	require.NoError(t, err)
	back := DecisionRecordFrom(d.Params())
	want := rec
	want.CourtLevel = "supreme"
	want.Topic = "tort.fraud"
	if diff := cmp.Diff(want, back); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}

	rec.Date = "2020-02-03T10:00:00Z"
	p, err = rec.Params()
	require.NoError(t, err)
	assert.Equal(t, 10, p.Date.Hour())

	rec.Date = "03/02/2020"
	_, err = rec.Params()
	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidDecision))

	f := DecisionFeed{Decisions: []DecisionRecord{rec}}
	_, err = f.Params()
	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidDecision))
}

//Personal.AI order the ending
