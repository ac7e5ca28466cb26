package models

import (
	"github.com/pageza/nutrilog/backend/internal/nutrition"
)

// NutrientValues is a set of nullable nutrient columns. It is embedded with a
// prefix for manual overrides (manual_*) and cached totals (total_*).
type NutrientValues struct {
	Calories *float64 `json:"calories"`
	Proteins *float64 `json:"proteins"`
	Fats     *float64 `json:"fats"`
	Carbs    *float64 `json:"carbs"`
	Fiber    *float64 `json:"fiber"`
	Alcohol  *float64 `json:"alcohol"`
}

// NutrientValuesOf stores t rounded to display precision with every column set.
// Cached totals are only rewritten when a primary channel drifts, so fiber
// and alcohol follow a catalog edit on the next such rewrite.
func NutrientValuesOf(t nutrition.Totals) NutrientValues {
	r := t.Round(nutrition.DisplayPrecision)
	return NutrientValues{
		Calories: &r.Calories,
		Proteins: &r.Proteins,
		Fats:     &r.Fats,
		Carbs:    &r.Carbs,
		Fiber:    &r.Fiber,
		Alcohol:  &r.Alcohol,
	}
}

// ManualValuesOf stores the provided channels of m.
func ManualValuesOf(m nutrition.Manual) NutrientValues {
	return NutrientValues{
		Calories: m.Calories.Ptr(),
		Proteins: m.Proteins.Ptr(),
		Fats:     m.Fats.Ptr(),
		Carbs:    m.Carbs.Ptr(),
		Fiber:    m.Fiber.Ptr(),
		Alcohol:  m.Alcohol.Ptr(),
	}
}

// Manual reads the columns as manual overrides; NULL means "use computed".
func (v NutrientValues) Manual() nutrition.Manual {
	return nutrition.Manual{
		Calories: nutrition.ValueOf(v.Calories),
		Proteins: nutrition.ValueOf(v.Proteins),
		Fats:     nutrition.ValueOf(v.Fats),
		Carbs:    nutrition.ValueOf(v.Carbs),
		Fiber:    nutrition.ValueOf(v.Fiber),
		Alcohol:  nutrition.ValueOf(v.Alcohol),
	}
}

// Totals reads the columns as totals; NULL reads as zero.
func (v NutrientValues) Totals() nutrition.Totals {
	return nutrition.Totals{
		Calories: deref(v.Calories),
		Proteins: deref(v.Proteins),
		Fats:     deref(v.Fats),
		Carbs:    deref(v.Carbs),
		Fiber:    deref(v.Fiber),
		Alcohol:  deref(v.Alcohol),
	}
}

// Snapshot reads the primary channels for a staleness check.
func (v NutrientValues) Snapshot() nutrition.Snapshot {
	return nutrition.Snapshot{
		Calories: nutrition.ValueOf(v.Calories),
		Proteins: nutrition.ValueOf(v.Proteins),
		Fats:     nutrition.ValueOf(v.Fats),
		Carbs:    nutrition.ValueOf(v.Carbs),
	}
}

func deref(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}
