package choiceoflaw

import (
	"github.com/turtacn/JurisCompare/internal/domain/rule"
)

// WeightTable holds the fixed weight of each contacting factor per matter
// category.  A kind missing from a category weighs zero there.
type WeightTable map[rule.Category]map[FactorKind]float64

// DefaultWeights returns the built-in weights.
func DefaultWeights() WeightTable {
	return WeightTable{
		rule.CategoryTort: {
			FactorPlaceOfInjury:        3.0,
			FactorPlaceOfConduct:       2.0,
			FactorDomicileOfPlaintiff:  1.5,
			FactorDomicileOfDefendant:  1.5,
			FactorPlaceOfBusiness:      1.0,
			FactorCenterOfRelationship: 1.0,
		},
		rule.CategoryContract: {
			FactorPlaceOfPerformance:    3.0,
			FactorSubjectMatterLocation: 2.5,
			FactorPlaceOfContracting:    2.0,
			FactorPlaceOfNegotiation:    1.5,
			FactorDomicileOfPlaintiff:   1.0,
			FactorDomicileOfDefendant:   1.0,
			FactorPlaceOfBusiness:       1.0,
		},
	}
}

// Weight returns the weight of kind in category.
func (w WeightTable) Weight(category rule.Category, kind FactorKind) float64 {
	return w[category][kind]
}

// territorialRule is the single connecting factor of the territorial
// approach with its fallback.
type territorialRule struct {
	primary  FactorKind
	fallback FactorKind
	maxim    string
}

var territorialRules = map[rule.Category]territorialRule{
	rule.CategoryTort:     {primary: FactorPlaceOfInjury, fallback: FactorPlaceOfConduct, maxim: "lex loci delicti"},
	rule.CategoryContract: {primary: FactorPlaceOfContracting, fallback: FactorPlaceOfNegotiation, maxim: "lex loci contractus"},
}

//Personal.AI order the ending
