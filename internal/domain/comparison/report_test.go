package comparison

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/JurisCompare/internal/domain/rule"
)

func TestGenerateReport_ContainsEverything(t *testing.T) {
	t.Parallel()

	e := newEngine(t, []rule.Entry{
		negligence("A", pure),
		negligence("B", modified51),
		negligence("C", pure),
	}, "A", "B", "C", "D")

	res, err := e.Compare(rule.TopicComparativeNegligence, []string{"A", "B", "C", "D", "QQ"})
	require.NoError(t, err)

	out := GenerateReport(res)
	for _, want := range []string{
		"Topic: comparative_negligence",
		"  - A [common_law]: pure (cutoff 100 percent)",
		"  - D [common_law]: unknown",
		"  - QQ: unknown",
		"pure (cutoff 100 percent) (count 2: A, C)",
		"Minority rules (1):",
		"modified (cutoff 51 percent) (count 1: B)",
		"Unknown (2): D, QQ",
		"Unregistered: QQ",
		"Similarity matrix:",
		"1.00",
		"0.00",
		"0.50",
	} {
		assert.Contains(t, out, want)
	}
}

func TestGenerateReport_EmptyCases(t *testing.T) {
	t.Parallel()

	assert.Empty(t, GenerateReport(nil))

	e := newEngine(t, nil, "A", "B")
	res, err := e.Compare(rule.TopicGoodFaithDuty, []string{"A", "B"})
	require.NoError(t, err)

	out := GenerateReport(res)
	assert.Contains(t, out, "none (no jurisdiction has a known rule)")
	assert.Contains(t, out, "Minority rules (0):\n  none")
	assert.NotContains(t, out, "Unregistered:")
}

//Personal.AI order the ending
