package jurisdiction

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/turtacn/JurisCompare/pkg/errors"
)

func sampleIDs() []ID {
	return []ID{
		{Code: "us-ca", Name: "California", Tradition: TraditionCommonLaw},
		{Code: "DE", Name: "Germany", Tradition: TraditionCivilLaw},
		{Code: "GB", Name: "United Kingdom", Tradition: TraditionCommonLaw},
		{Code: "ZA", Tradition: TraditionMixed},
	}
}

func TestParseTradition(t *testing.T) {
	tr, err := ParseTradition(" Civil_Law ")
	require.NoError(t, err)
	assert.Equal(t, TraditionCivilLaw, tr)

	_, err = ParseTradition("feudal")
	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidJurisdiction))
}

func TestNew(t *testing.T) {
	cases := []struct {
		name      string
		code      string
		tradition Tradition
		wantCode  string
		wantErr   bool
	}{
		{"normalises code", " us-ny ", TraditionCommonLaw, "US-NY", false},
		{"empty code", "  ", TraditionCommonLaw, "", true},
		{"whitespace inside", "US NY", TraditionCommonLaw, "", true},
		{"bad tradition", "FR", Tradition("roman"), "", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			id, err := New(tc.code, "", tc.tradition)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantCode, id.Code)
			assert.Equal(t, tc.wantCode, id.Name, "empty name falls back to code")
		})
	}
}

func TestNewRegistry_LookupAndAliases(t *testing.T) {
	r, err := NewRegistry(sampleIDs(), map[string]string{"uk": "gb", "CALIFORNIA": "US-CA"})
	require.NoError(t, err)

	assert.Equal(t, 4, r.Len())
	assert.Equal(t, "GB", r.Normalize(" uk "))
	assert.Equal(t, "XX", r.Normalize("xx"))

	id, err := r.Get("california")
	require.NoError(t, err)
	assert.Equal(t, "US-CA", id.Code)
	assert.True(t, id.IsRegistered())

	_, ok := r.Lookup("FR")
	assert.False(t, ok)

	_, err = r.Get("fr")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeUnknownJurisdiction))
	assert.Contains(t, err.Error(), "jurisdiction=FR")

	list := r.List()
	require.Len(t, list, 4)
	assert.Equal(t, []string{"DE", "GB", "US-CA", "ZA"}, []string{list[0].Code, list[1].Code, list[2].Code, list[3].Code})

	aliases := r.Aliases()
	aliases["X"] = "Y"
	assert.NotContains(t, r.Aliases(), "X")
}

func TestNewRegistry_Errors(t *testing.T) {
	_, err := NewRegistry(append(sampleIDs(), ID{Code: "de", Tradition: TraditionCivilLaw}), nil)
	assert.True(t, errors.IsCode(err, errors.ErrCodeDuplicateJurisdiction))

	_, err = NewRegistry(sampleIDs(), map[string]string{"EU": "XX"})
	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidJurisdiction))

	_, err = NewRegistry(sampleIDs(), map[string]string{"DE": "GB"})
	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidJurisdiction))

	_, err = NewRegistry([]ID{{Code: "FR"}}, nil)
	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidJurisdiction))
}

func TestUnregistered(t *testing.T) {
	id := Unregistered(" xx ")
	assert.Equal(t, "XX", id.Code)
	assert.False(t, id.IsRegistered())
	assert.Equal(t, "XX", id.String())

	named := ID{Code: "DE", Name: "Germany", Tradition: TraditionCivilLaw}
	assert.Equal(t, "DE (Germany)", named.String())
}

//Personal.AI order the ending
