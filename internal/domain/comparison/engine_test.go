package comparison

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/JurisCompare/internal/domain/jurisdiction"
	"github.com/turtacn/JurisCompare/internal/domain/rule"
	"github.com/turtacn/JurisCompare/pkg/errors"
)

var (
	pure       = rule.MustThreshold(rule.TopicComparativeNegligence, "pure", 100, "percent")
	modified51 = rule.MustThreshold(rule.TopicComparativeNegligence, "modified", 51, "percent")
	modified50 = rule.MustThreshold(rule.TopicComparativeNegligence, "modified", 50, "percent")
)

func newRegistry(t testing.TB, codes ...string) *jurisdiction.InMemoryRegistry {
	t.Helper()
	ids := make([]jurisdiction.ID, len(codes))
	for i, c := range codes {
		ids[i] = jurisdiction.ID{Code: c, Name: c, Tradition: jurisdiction.TraditionCommonLaw}
	}
	r, err := jurisdiction.NewRegistry(ids, map[string]string{"ALPHA": "A"})
	require.NoError(t, err)
	return r
}

func newEngine(t testing.TB, entries []rule.Entry, codes ...string) *Engine {
	t.Helper()
	c, err := rule.NewCatalog(entries)
	require.NoError(t, err)
	return NewEngine(c, newRegistry(t, codes...))
}

func negligence(code string, v rule.Variant) rule.Entry {
	return rule.Entry{Jurisdiction: code, Topic: rule.TopicComparativeNegligence, Variant: v}
}

func TestCompare_PureVersusModifiedScenario(t *testing.T) {
	t.Parallel()

	e := newEngine(t, []rule.Entry{
		negligence("A", pure),
		negligence("B", modified51),
		negligence("C", pure),
	}, "A", "B", "C")

	res, err := e.Compare(rule.TopicComparativeNegligence, []string{"A", "B", "C"})
	require.NoError(t, err)

	require.NotNil(t, res.Majority)
	assert.True(t, res.Majority.Variant.Equal(pure))
	assert.Equal(t, 2, res.Majority.Count)
	assert.Equal(t, []string{"A", "C"}, res.Majority.Jurisdictions)

	require.Len(t, res.Minority, 1)
	assert.True(t, res.Minority[0].Variant.Equal(modified51))
	assert.Equal(t, 1, res.Minority[0].Count)

	ac, _ := res.SimilarityOf("A", "C")
	ab, _ := res.SimilarityOf("A", "B")
	assert.Equal(t, 1.0, ac)
	assert.Equal(t, 0.0, ab)
	assert.Zero(t, res.UnknownCount())
	assert.Equal(t, 3, res.KnownCount())
}

func TestCompare_ResultsDoNotShareCatalogPayloads(t *testing.T) {
	t.Parallel()

	e := newEngine(t, []rule.Entry{
		negligence("A", pure),
		negligence("B", modified51),
		negligence("C", pure),
	}, "A", "B", "C")

	first, err := e.Compare(rule.TopicComparativeNegligence, []string{"A", "B", "C"})
	require.NoError(t, err)
	first.ByJurisdiction["B"].Threshold.Cutoff = 0
	first.Majority.Variant.Threshold.Name = "changed"
	first.Minority[0].Variant.Threshold.Unit = "changed"

	second, err := e.Compare(rule.TopicComparativeNegligence, []string{"A", "B", "C"})
	require.NoError(t, err)
	assert.True(t, second.ByJurisdiction["B"].Equal(modified51))
	assert.True(t, second.Majority.Variant.Equal(pure))
	assert.True(t, second.Minority[0].Variant.Equal(modified51))
	assert.Equal(t, 51.0, modified51.Threshold.Cutoff)
}

func TestCompare_UnknownsAreNeitherMatchNorMismatch(t *testing.T) {
	t.Parallel()

	e := newEngine(t, []rule.Entry{
		negligence("A", pure),
		negligence("B", modified51),
	}, "A", "B", "C")

	res, err := e.Compare(rule.TopicComparativeNegligence, []string{"a", "C", "B", "ZZ"})
	require.NoError(t, err)

	assert.Equal(t, []string{"C", "ZZ"}, res.Unknown)
	assert.Equal(t, []string{"ZZ"}, res.Unregistered)
	assert.Nil(t, res.ByJurisdiction["C"])
	assert.Nil(t, res.ByJurisdiction["ZZ"])
	require.NotNil(t, res.ByJurisdiction["A"])

	ac, ok := res.SimilarityOf("A", "C")
	require.True(t, ok)
	assert.Equal(t, SimilarityUnknown, ac)
	czz, _ := res.SimilarityOf("C", "ZZ")
	assert.Equal(t, SimilarityUnknown, czz)
	cc, _ := res.SimilarityOf("C", "C")
	assert.Equal(t, SimilarityEqual, cc)

	// one each: first seen wins
	require.NotNil(t, res.Majority)
	assert.True(t, res.Majority.Variant.Equal(pure))
	require.Len(t, res.Minority, 1)
	assert.True(t, res.Minority[0].Variant.Equal(modified51))
}

func TestCompare_MinorityDeduplicatedInFirstSeenOrder(t *testing.T) {
	t.Parallel()

	e := newEngine(t, []rule.Entry{
		negligence("A", modified50),
		negligence("B", pure),
		negligence("C", modified51),
		negligence("D", pure),
		negligence("E", modified50),
		negligence("F", pure),
	}, "A", "B", "C", "D", "E", "F")

	res, err := e.Compare(rule.TopicComparativeNegligence, []string{"A", "B", "C", "D", "E", "F"})
	require.NoError(t, err)

	assert.True(t, res.Majority.Variant.Equal(pure))
	assert.Equal(t, 3, res.Majority.Count)

	got := make([]string, 0, len(res.Minority))
	for _, m := range res.Minority {
		got = append(got, fmt.Sprintf("%s:%d:%v", m.Variant.Describe(), m.Count, m.Jurisdictions))
	}
	want := []string{
		"modified (cutoff 50 percent):2:[A E]",
		"modified (cutoff 51 percent):1:[C]",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("minority mismatch (-want +got):\n%s", diff)
	}
}

func TestCompare_TieGoesToFirstSeen(t *testing.T) {
	t.Parallel()

	e := newEngine(t, []rule.Entry{
		negligence("A", modified51),
		negligence("B", pure),
	}, "A", "B")

	res, err := e.Compare(rule.TopicComparativeNegligence, []string{"B", "A"})
	require.NoError(t, err)
	assert.True(t, res.Majority.Variant.Equal(pure))

	res, err = e.Compare(rule.TopicComparativeNegligence, []string{"A", "B"})
	require.NoError(t, err)
	assert.True(t, res.Majority.Variant.Equal(modified51))
}

func TestCompare_AllUnknownHasNoMajority(t *testing.T) {
	t.Parallel()

	e := newEngine(t, nil, "A", "B")
	res, err := e.Compare(rule.TopicPunitiveDamages, []string{"A", "B"})
	require.NoError(t, err)
	assert.Nil(t, res.Majority)
	assert.Empty(t, res.Minority)
	assert.Equal(t, 2, res.UnknownCount())
}

func TestCompare_Errors(t *testing.T) {
	t.Parallel()

	e := newEngine(t, []rule.Entry{negligence("A", pure)}, "A", "B")

	cases := []struct {
		name  string
		topic rule.Topic
		codes []string
		code  errors.ErrorCode
	}{
		{"unknown topic", "salvage", []string{"A", "B"}, errors.ErrCodeUnknownTopic},
		{"single jurisdiction", rule.TopicComparativeNegligence, []string{"A"}, errors.ErrCodeInsufficientJurisdictions},
		{"duplicates collapse", rule.TopicComparativeNegligence, []string{"A", " a ", "alpha"}, errors.ErrCodeInsufficientJurisdictions},
		{"blank codes ignored", rule.TopicComparativeNegligence, []string{"A", " "}, errors.ErrCodeInsufficientJurisdictions},
		{"none", rule.TopicComparativeNegligence, nil, errors.ErrCodeInsufficientJurisdictions},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			res, err := e.Compare(tc.topic, tc.codes)
			require.Error(t, err)
			assert.Nil(t, res)
			assert.Equal(t, tc.code, errors.GetCode(err))
		})
	}
}

func TestSimilarity(t *testing.T) {
	t.Parallel()

	assert.Equal(t, SimilarityUnknown, Similarity(nil, &pure))
	assert.Equal(t, SimilarityUnknown, Similarity(&pure, nil))
	assert.Equal(t, SimilarityUnknown, Similarity(nil, nil))
	assert.Equal(t, SimilarityEqual, Similarity(&pure, &pure))
	assert.Equal(t, SimilarityDifferent, Similarity(&pure, &modified51))
}

func TestCompare_Properties(t *testing.T) {
	codes := []string{"J0", "J1", "J2", "J3", "J4", "J5", "J6", "J7"}
	variants := []rule.Variant{pure, modified50, modified51}

	// choice[i] picks the rule for codes[i]; len(variants) means no entry.
	build := func(choice []int) (*Engine, []string) {
		var entries []rule.Entry
		n := len(choice)
		if n > len(codes) {
			n = len(codes)
		}
		for i := 0; i < n; i++ {
			if choice[i] < len(variants) {
				entries = append(entries, negligence(codes[i], variants[choice[i]]))
			}
		}
		return newEngine(t, entries, codes...), codes[:n]
	}

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 150
	properties := gopter.NewProperties(parameters)

	properties.Property("majority count is at least every minority count", prop.ForAll(
		func(choice []int) bool {
			e, set := build(choice)
			res, err := e.Compare(rule.TopicComparativeNegligence, set)
			if len(set) < 2 {
				return errors.IsCode(err, errors.ErrCodeInsufficientJurisdictions)
			}
			if err != nil {
				return false
			}
			if res.Majority == nil {
				return res.KnownCount() == 0 && len(res.Minority) == 0
			}
			total := res.Majority.Count
			for _, m := range res.Minority {
				if m.Count > res.Majority.Count {
					return false
				}
				total += m.Count
			}
			return total == res.KnownCount()
		},
		gen.SliceOf(gen.IntRange(0, len(variants))),
	))

	properties.Property("similarity matrix is symmetric with a unit diagonal", prop.ForAll(
		func(choice []int) bool {
			e, set := build(choice)
			if len(set) < 2 {
				return true
			}
			res, err := e.Compare(rule.TopicComparativeNegligence, set)
			if err != nil {
				return false
			}
			for i := range res.Similarity {
				if res.Similarity[i][i] != 1.0 {
					return false
				}
				for j := range res.Similarity {
					v := res.Similarity[i][j]
					if v != res.Similarity[j][i] || v < 0 || v > 1 {
						return false
					}
				}
			}
			return true
		},
		gen.SliceOf(gen.IntRange(0, len(variants))),
	))

	properties.TestingRun(t)
}

//Personal.AI order the ending
