package service

import (
	"fmt"
	"math"

	"github.com/google/uuid"

	"github.com/pageza/nutrilog/backend/internal/models"
	"github.com/pageza/nutrilog/backend/internal/nutrition"
	"github.com/pageza/nutrilog/backend/internal/types"
)

// reference is a validated ingredient request.
type reference struct {
	ProductID *uuid.UUID
	RecipeID  *uuid.UUID
	Amount    float64
}

func parseIngredient(field string, in types.IngredientRequest) (reference, error) {
	if (in.ProductID == nil) == (in.RecipeID == nil) {
		return reference{}, invalid(field, "exactly one of product_id or recipe_id is required")
	}
	if !validNumber(in.Amount) || in.Amount <= 0 {
		return reference{}, invalid(field+".amount", "must be greater than zero")
	}
	return reference{ProductID: in.ProductID, RecipeID: in.RecipeID, Amount: in.Amount}, nil
}

// parseManual validates manual overrides. When required is set, the
// calories and macronutrients must all be given.
func parseManual(in types.NutrientsInput, required bool) (models.NutrientValues, error) {
	channels := []struct {
		name  string
		value *float64
		need  bool
	}{
		{"calories", in.Calories, required},
		{"proteins", in.Proteins, required},
		{"fats", in.Fats, required},
		{"carbs", in.Carbs, required},
		{"fiber", in.Fiber, false},
		{"alcohol", in.Alcohol, false},
	}
	for _, ch := range channels {
		if ch.value == nil {
			if ch.need {
				return models.NutrientValues{}, invalid("manual."+ch.name, "is required when nutrition is not auto-calculated and there are no ingredients")
			}
			continue
		}
		if !validNumber(*ch.value) || *ch.value < 0 {
			return models.NutrientValues{}, invalid("manual."+ch.name, "must be a non-negative number")
		}
	}

	m := nutrition.Manual{
		Calories: nutrition.ValueOf(in.Calories),
		Proteins: nutrition.ValueOf(in.Proteins),
		Fats:     nutrition.ValueOf(in.Fats),
		Carbs:    nutrition.ValueOf(in.Carbs),
		Fiber:    nutrition.ValueOf(in.Fiber),
		Alcohol:  nutrition.ValueOf(in.Alcohol),
	}
	return models.ManualValuesOf(m), nil
}

func autoCalculated(flag *bool) bool {
	return flag == nil || *flag
}

func validNumber(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func itemField(prefix string, i int) string {
	return fmt.Sprintf("%s[%d]", prefix, i)
}
