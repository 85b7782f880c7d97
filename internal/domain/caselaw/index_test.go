package caselaw

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/JurisCompare/pkg/errors"
)

func TestIndex_AddGetClone(t *testing.T) {
	t.Parallel()

	ix := fixtureIndex(t)
	assert.Equal(t, 4, ix.Len())
	assert.Positive(t, ix.Terms())

	d, err := ix.Get("app-1")
	require.NoError(t, err)
	assert.Equal(t, "A1", d.CaseNumber)

	_, err = ix.Get("missing")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeCaseNotFound))
	assert.Contains(t, err.Error(), "id=missing")

	err = ix.Add(d)
	assert.True(t, errors.IsCode(err, errors.ErrCodeDuplicateID))
	assert.Equal(t, 4, ix.Len(), "a rejected add leaves the index unchanged")
	assert.True(t, errors.IsCode(ix.Add(nil), errors.ErrCodeInvalidDecision))

	clone := ix.Clone()
	extra, err := NewDecision(DecisionParams{ID: "new", CaseNumber: "N", CourtLevel: CourtDistrict, Summary: "zeppelin crash"})
	require.NoError(t, err)
	require.NoError(t, clone.Add(extra))

	res, _ := ix.Search(Query{Keywords: []string{"zeppelin"}})
	assert.Empty(t, res, "the original does not see additions to the clone")
	res, _ = clone.Search(Query{Keywords: []string{"zeppelin"}})
	assert.Len(t, res, 1)
	assert.Equal(t, []string{"sup-1", "dist-1", "app-1", "app-2"}, decisionIDs(ix.Decisions()))
}

func TestIndex_ReadersGetCopies(t *testing.T) {
	t.Parallel()

	ix := fixtureIndex(t)

	d, err := ix.Get("sup-1")
	require.NoError(t, err)
	d.Summary = "changed"
	d.Holdings[0].Conclusion = "changed"
	again, err := ix.Get("sup-1")
	require.NoError(t, err)
	assert.Equal(t, "Fraud by concealment of a defect.", again.Summary)
	assert.Equal(t, "Concealment is actionable.", again.Holdings[0].Conclusion)

	res, err := ix.Search(Query{Keywords: []string{"concealment"}})
	require.NoError(t, err)
	require.NotEmpty(t, res)
	res[0].Decision.CourtLevel = CourtDistrict
	res, err = ix.Search(Query{Keywords: []string{"concealment"}, CourtLevel: CourtSupreme})
	require.NoError(t, err)
	assert.Equal(t, []string{"sup-1"}, ids(res))

	ix.Decisions()[0].ID = "changed"
	assert.Equal(t, []string{"sup-1", "dist-1", "app-1", "app-2"}, decisionIDs(ix.Decisions()))

	// the decision handed to Add stays with the caller
	added, err := NewDecision(DecisionParams{ID: "new", CaseNumber: "N", CourtLevel: CourtDistrict, Summary: "zeppelin crash"})
	require.NoError(t, err)
	require.NoError(t, ix.Add(added))
	added.Summary = "changed"
	got, err := ix.Get("new")
	require.NoError(t, err)
	assert.Equal(t, "zeppelin crash", got.Summary)
}

func TestBuild_Errors(t *testing.T) {
	t.Parallel()

	_, err := Build([]DecisionParams{{ID: "a"}})
	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidDecision))

	p := DecisionParams{ID: "a", CaseNumber: "1", CourtLevel: CourtDistrict, Summary: "s"}
	_, err = Build([]DecisionParams{p, p})
	assert.True(t, errors.IsCode(err, errors.ErrCodeDuplicateID))
}

func decisionIDs(ds []*Decision) []string {
	out := make([]string, len(ds))
	for i, d := range ds {
		out[i] = d.ID
	}
	return out
}

//Personal.AI order the ending
