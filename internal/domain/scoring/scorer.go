// Package scoring implements the weighted multi-factor scoring primitive
// shared by choice-of-law analysis and case-law relevance ranking.
package scoring

import (
	"math"

	"github.com/turtacn/JurisCompare/pkg/errors"
)

// Factor is one (name, weight, indicator) tuple.  Indicator must lie in [0,1].
type Factor struct {
	Name      string  `json:"name"`
	Weight    float64 `json:"weight"`
	Indicator float64 `json:"indicator"`
}

// Contribution is the weighted share one factor adds to the total.
type Contribution struct {
	Name         string  `json:"name"`
	Weight       float64 `json:"weight"`
	Indicator    float64 `json:"indicator"`
	Contribution float64 `json:"contribution"`
}

// Breakdown is the full result of Evaluate.
type Breakdown struct {
	// Weighted is Σ(weight×indicator).
	Weighted float64 `json:"weighted"`
	// TotalWeight is Σ(weight).
	TotalWeight float64 `json:"total_weight"`
	// Score is Weighted/TotalWeight, always in [0,1].
	Score         float64        `json:"score"`
	Contributions []Contribution `json:"contributions"`
}

func invalidWeighting(msg, factor string) *errors.AppError {
	e := errors.New(errors.ErrCodeInvalidWeighting, msg)
	if factor != "" {
		return e.WithDetail("factor=" + factor)
	}
	return e
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// Evaluate computes Σ(w·i)/Σw over factors.  It fails with InvalidWeighting
// when any weight is negative or not finite, any indicator lies outside
// [0,1], or the total weight is not positive.  Every check runs before the
// division.
func Evaluate(factors []Factor) (Breakdown, error) {
	b := Breakdown{Contributions: make([]Contribution, 0, len(factors))}
	for _, f := range factors {
		if !finite(f.Weight) || f.Weight < 0 {
			return Breakdown{}, invalidWeighting("weight must be a finite non-negative number", f.Name)
		}
		if !finite(f.Indicator) || f.Indicator < 0 || f.Indicator > 1 {
			return Breakdown{}, invalidWeighting("indicator must lie in [0,1]", f.Name)
		}
		c := f.Weight * f.Indicator
		b.Weighted += c
		b.TotalWeight += f.Weight
		b.Contributions = append(b.Contributions, Contribution{
			Name:         f.Name,
			Weight:       f.Weight,
			Indicator:    f.Indicator,
			Contribution: c,
		})
	}
	if b.TotalWeight <= 0 || !finite(b.TotalWeight) {
		return Breakdown{}, invalidWeighting("total weight must be positive", "")
	}
	b.Score = clamp01(b.Weighted / b.TotalWeight)
	return b, nil
}

// Score is Evaluate returning only the normalised score.
func Score(factors []Factor) (float64, error) {
	b, err := Evaluate(factors)
	if err != nil {
		return 0, err
	}
	return b.Score, nil
}

// Clamp limits x to [lo, hi].
func Clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

func clamp01(x float64) float64 { return Clamp(x, 0, 1) }

//Personal.AI order the ending
