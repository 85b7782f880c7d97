package rule

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/turtacn/JurisCompare/pkg/errors"
)

func sampleEntries() []Entry {
	return []Entry{
		{Jurisdiction: "us-ny", Topic: TopicComparativeNegligence, Variant: MustThreshold(TopicComparativeNegligence, "pure", 100, "percent")},
		{Jurisdiction: "US-CA", Topic: TopicComparativeNegligence, Variant: MustThreshold(TopicComparativeNegligence, "pure", 100, "percent")},
		{Jurisdiction: "US-TX", Topic: TopicComparativeNegligence, Variant: MustThreshold(TopicComparativeNegligence, "modified", 51, "percent")},
		{Jurisdiction: "US-CA", Topic: TopicPunitiveDamages, Variant: MustFlag(TopicPunitiveDamages, "available", true)},
		{Jurisdiction: "DE", Topic: TopicPunitiveDamages, Variant: MustFlag(TopicPunitiveDamages, "available", false)},
		{Jurisdiction: "US-CA", Topic: TopicNonEconomicDamagesCap, Variant: MustCap(TopicNonEconomicDamagesCap, 250000, "USD", "medical malpractice")},
	}
}

func TestNewCatalog_Queries(t *testing.T) {
	t.Parallel()

	c, err := NewCatalog(sampleEntries())
	require.NoError(t, err)
	assert.Equal(t, 6, c.Len())

	v, ok := c.Get("us-tx", TopicComparativeNegligence)
	require.True(t, ok)
	assert.Equal(t, 51.0, v.Threshold.Cutoff)

	_, ok = c.Get("DE", TopicComparativeNegligence)
	assert.False(t, ok)

	neg := c.AllForTopic(TopicComparativeNegligence)
	require.Len(t, neg, 3)
	assert.Equal(t, []string{"US-CA", "US-NY", "US-TX"}, []string{neg[0].Jurisdiction, neg[1].Jurisdiction, neg[2].Jurisdiction})

	ca := c.AllForJurisdiction("us-ca")
	require.Len(t, ca, 3)
	assert.Equal(t, TopicComparativeNegligence, ca[0].Topic)
	assert.Equal(t, TopicPunitiveDamages, ca[1].Topic)
	assert.Equal(t, TopicNonEconomicDamagesCap, ca[2].Topic)

	assert.Equal(t, []Topic{TopicComparativeNegligence, TopicPunitiveDamages, TopicNonEconomicDamagesCap}, c.Topics())
	assert.Equal(t, []string{"DE", "US-CA", "US-NY", "US-TX"}, c.Jurisdictions())

	assert.Empty(t, c.AllForTopic(TopicGoodFaithDuty))
	assert.NotNil(t, c.AllForJurisdiction("FR"))
}

func TestNewCatalog_ReturnedSlicesAreCopies(t *testing.T) {
	t.Parallel()

	c, err := NewCatalog(sampleEntries())
	require.NoError(t, err)
	list := c.AllForTopic(TopicComparativeNegligence)
	list[0].Jurisdiction = "XX"
	assert.Equal(t, "US-CA", c.AllForTopic(TopicComparativeNegligence)[0].Jurisdiction)
}

func TestNewCatalog_ReadersCannotMutatePayloads(t *testing.T) {
	t.Parallel()

	c, err := NewCatalog(sampleEntries())
	require.NoError(t, err)

	v, ok := c.Get("US-TX", TopicComparativeNegligence)
	require.True(t, ok)
	v.Threshold.Cutoff = 0
	again, _ := c.Get("US-TX", TopicComparativeNegligence)
	assert.Equal(t, 51.0, again.Threshold.Cutoff)

	byTopic := c.AllForTopic(TopicPunitiveDamages)
	byTopic[0].Variant.Flag.Value = !byTopic[0].Variant.Flag.Value
	de, _ := c.Get("DE", TopicPunitiveDamages)
	assert.False(t, de.Flag.Value)

	byCode := c.AllForJurisdiction("US-CA")
	byCode[2].Variant.Cap.Conditions[0] = "changed"
	byCode[2].Variant.Cap.Amount = 1
	capped, _ := c.Get("US-CA", TopicNonEconomicDamagesCap)
	assert.Equal(t, []string{"medical malpractice"}, capped.Cap.Conditions)
	assert.Equal(t, 250000.0, capped.Cap.Amount)

	// entries handed to NewCatalog are copied too
	in := sampleEntries()
	c2, err := NewCatalog(in)
	require.NoError(t, err)
	in[2].Variant.Threshold.Cutoff = 0
	tx, _ := c2.Get("US-TX", TopicComparativeNegligence)
	assert.Equal(t, 51.0, tx.Threshold.Cutoff)
}

func TestNewCatalog_CodeResolver(t *testing.T) {
	t.Parallel()

	aliases := map[string]string{"UK": "GB", "ENGLAND": "GB"}
	resolve := func(code string) string {
		c := strings.ToUpper(strings.TrimSpace(code))
		if target, ok := aliases[c]; ok {
			return target
		}
		return c
	}
	entries := []Entry{
		{Jurisdiction: "GB", Topic: TopicPunitiveDamages, Variant: MustFlag(TopicPunitiveDamages, "available", true)},
	}

	plain, err := NewCatalog(entries)
	require.NoError(t, err)
	_, ok := plain.Get("UK", TopicPunitiveDamages)
	assert.False(t, ok, "without a resolver only canonical codes match")

	c, err := NewCatalog(entries, WithCodeResolver(resolve))
	require.NoError(t, err)
	v, ok := c.Get("uk", TopicPunitiveDamages)
	require.True(t, ok)
	assert.True(t, v.Flag.Value)
	assert.Len(t, c.AllForJurisdiction("England"), 1)
	assert.Equal(t, []string{"GB"}, c.Jurisdictions())

	// an alias and its target collide on build
	_, err = NewCatalog(append(entries, Entry{Jurisdiction: "UK", Topic: TopicPunitiveDamages,
		Variant: MustFlag(TopicPunitiveDamages, "available", false)}), WithCodeResolver(resolve))
	assert.True(t, errors.IsCode(err, errors.ErrCodeDuplicateRuleEntry))
}

func TestNewCatalog_Failures(t *testing.T) {
	t.Parallel()

	pure := MustThreshold(TopicComparativeNegligence, "pure", 100, "percent")
	cases := []struct {
		name     string
		entries  []Entry
		wantCode errors.ErrorCode
		detail   string
	}{
		{
			name: "duplicate pair after normalisation",
			entries: []Entry{
				{Jurisdiction: "US-CA", Topic: TopicComparativeNegligence, Variant: pure},
				{Jurisdiction: " us-ca", Topic: TopicComparativeNegligence, Variant: pure},
			},
			wantCode: errors.ErrCodeDuplicateRuleEntry,
			detail:   "jurisdiction=US-CA topic=comparative_negligence",
		},
		{
			name:     "unknown topic",
			entries:  []Entry{{Jurisdiction: "FR", Topic: "salvage", Variant: pure}},
			wantCode: errors.ErrCodeUnknownTopic,
		},
		{
			name:     "variant does not fit topic",
			entries:  []Entry{{Jurisdiction: "FR", Topic: TopicPunitiveDamages, Variant: pure}},
			wantCode: errors.ErrCodeInvalidRuleVariant,
			detail:   "jurisdiction=FR topic=punitive_damages",
		},
		{
			name:     "payload missing",
			entries:  []Entry{{Jurisdiction: "FR", Topic: TopicPunitiveDamages, Variant: Variant{Kind: KindFlag}}},
			wantCode: errors.ErrCodeInvalidRuleVariant,
		},
		{
			name:     "blank jurisdiction",
			entries:  []Entry{{Jurisdiction: " ", Topic: TopicComparativeNegligence, Variant: pure}},
			wantCode: errors.ErrCodeInvalidJurisdiction,
		},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			c, err := NewCatalog(tc.entries)
			require.Error(t, err)
			assert.Nil(t, c)
			assert.Equal(t, tc.wantCode, errors.GetCode(err))
			if tc.detail != "" {
				assert.Contains(t, err.Error(), tc.detail)
			}
		})
	}
}

func TestEmptyCatalog(t *testing.T) {
	t.Parallel()

	c := EmptyCatalog()
	assert.Zero(t, c.Len())
	assert.Empty(t, c.Topics())
	assert.Empty(t, c.Jurisdictions())
}

//Personal.AI order the ending
