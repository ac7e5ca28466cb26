// Package nutrition derives calorie and macro totals for meals and recipes from
// their ingredients and reconciles them with manual overrides and cached values.
//
// Everything in this package is a pure function over values supplied by the
// caller. Nothing here performs I/O or keeps state between calls.
package nutrition

import (
	"github.com/shopspring/decimal"
)

// DisplayPrecision is the number of decimal places used when totals are
// persisted or returned to clients.
const DisplayPrecision int32 = 2

// Totals holds the six nutrient channels tracked for every food entity.
// Values are unrounded; use Round at the presentation boundary.
type Totals struct {
	Calories float64 `json:"calories"`
	Proteins float64 `json:"proteins"`
	Fats     float64 `json:"fats"`
	Carbs    float64 `json:"carbs"`
	Fiber    float64 `json:"fiber"`
	Alcohol  float64 `json:"alcohol"`
}

// Add returns the channel-wise sum of t and o.
func (t Totals) Add(o Totals) Totals {
	return Totals{
		Calories: t.Calories + o.Calories,
		Proteins: t.Proteins + o.Proteins,
		Fats:     t.Fats + o.Fats,
		Carbs:    t.Carbs + o.Carbs,
		Fiber:    t.Fiber + o.Fiber,
		Alcohol:  t.Alcohol + o.Alcohol,
	}
}

// Sub returns the channel-wise difference t - o.
func (t Totals) Sub(o Totals) Totals {
	return t.Add(o.Scale(-1))
}

// Scale multiplies every channel by factor.
func (t Totals) Scale(factor float64) Totals {
	return Totals{
		Calories: t.Calories * factor,
		Proteins: t.Proteins * factor,
		Fats:     t.Fats * factor,
		Carbs:    t.Carbs * factor,
		Fiber:    t.Fiber * factor,
		Alcohol:  t.Alcohol * factor,
	}
}

// PerServing divides the totals by servings. Non-positive servings return t unchanged.
func (t Totals) PerServing(servings float64) Totals {
	if servings <= 0 {
		return t
	}
	return t.Scale(1 / servings)
}

// IsZero reports whether every channel is exactly zero.
func (t Totals) IsZero() bool {
	return t == Totals{}
}

// Round rounds every channel half away from zero to the given number of places.
func (t Totals) Round(places int32) Totals {
	return Totals{
		Calories: RoundValue(t.Calories, places),
		Proteins: RoundValue(t.Proteins, places),
		Fats:     RoundValue(t.Fats, places),
		Carbs:    RoundValue(t.Carbs, places),
		Fiber:    RoundValue(t.Fiber, places),
		Alcohol:  RoundValue(t.Alcohol, places),
	}
}

// RoundValue rounds a single value using decimal arithmetic so that values such
// as 1.005 round the way a person reading the number expects.
func RoundValue(v float64, places int32) float64 {
	f, _ := decimal.NewFromFloat(v).Round(places).Float64()
	return f
}
