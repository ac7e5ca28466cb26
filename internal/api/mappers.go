package api

import (
	"github.com/google/uuid"

	"github.com/pageza/nutrilog/backend/internal/models"
	"github.com/pageza/nutrilog/backend/internal/nutrition"
	"github.com/pageza/nutrilog/backend/internal/service"
	"github.com/pageza/nutrilog/backend/internal/trends"
	"github.com/pageza/nutrilog/backend/internal/types"
)

func toProductResponse(p *models.Product, userID uuid.UUID) types.ProductResponse {
	return types.ProductResponse{
		ID:         p.ID,
		Name:       p.Name,
		Unit:       p.Unit,
		BaseAmount: p.BaseAmount,
		PerBase:    types.NutrientsOf(p.ToNutrition().PerBase),
		IsShared:   p.IsShared,
		IsOwn:      p.UserID == userID,
		CreatedAt:  p.CreatedAt,
	}
}

func toRecipeResponse(r *models.Recipe, withSteps bool) types.RecipeResponse {
	totals := r.Totals.Totals()
	res := types.RecipeResponse{
		ID:                        r.ID,
		UserID:                    r.UserID,
		Name:                      r.Name,
		Description:               r.Description,
		Servings:                  r.Servings,
		IsShared:                  r.IsShared,
		IsNutritionAutoCalculated: r.IsNutritionAutoCalculated,
		Manual:                    toNutrientsInput(r.Manual),
		Totals:                    types.NutrientsOf(totals),
		PerServing:                types.NutrientsOf(totals.PerServing(r.Servings)),
		UpdatedAt:                 r.UpdatedAt,
	}
	if !withSteps {
		return res
	}
	res.Steps = make([]types.RecipeStepResponse, 0, len(r.Steps))
	for _, step := range r.Steps {
		ings := make([]types.IngredientResponse, 0, len(step.Ingredients))
		for _, ing := range step.Ingredients {
			ings = append(ings, types.IngredientResponse{
				ProductID: ing.ProductID,
				RecipeID:  ing.NestedRecipeID,
				Amount:    ing.Amount,
			})
		}
		res.Steps = append(res.Steps, types.RecipeStepResponse{
			Position:    step.Position,
			Instruction: step.Instruction,
			Ingredients: ings,
		})
	}
	return res
}

func toConsumptionResponse(m *models.Consumption) types.ConsumptionResponse {
	items := make([]types.IngredientResponse, 0, len(m.Items))
	for _, it := range m.Items {
		items = append(items, types.IngredientResponse{
			ProductID: it.ProductID,
			RecipeID:  it.RecipeID,
			Amount:    it.Amount,
		})
	}
	return types.ConsumptionResponse{
		ID:                        m.ID,
		Date:                      types.FormatDate(m.Day()),
		MealType:                  m.MealType,
		Comment:                   m.Comment,
		IsNutritionAutoCalculated: m.IsNutritionAutoCalculated,
		Manual:                    toNutrientsInput(m.Manual),
		Totals:                    types.NutrientsOf(m.Totals.Totals()),
		Items:                     items,
	}
}

func toSummaryResponse(s *service.DailySummary) types.DailySummaryResponse {
	return types.DailySummaryResponse{
		Date:   types.FormatDate(s.Date),
		Meals:  mapAll(s.Meals, toConsumptionResponse),
		Totals: types.NutrientsOf(s.Totals),
	}
}

func toNutrientsInput(v models.NutrientValues) types.NutrientsInput {
	return types.NutrientsInput{
		Calories: v.Calories,
		Proteins: v.Proteins,
		Fats:     v.Fats,
		Carbs:    v.Carbs,
		Fiber:    v.Fiber,
		Alcohol:  v.Alcohol,
	}
}

func toIntakeBuckets(in []trends.IntakeSummary) []types.IntakeBucketResponse {
	out := make([]types.IntakeBucketResponse, 0, len(in))
	for _, s := range in {
		n := types.NutrientsOf(nutrition.Totals{
			Calories: s.Calories,
			Proteins: s.Proteins,
			Fats:     s.Fats,
			Carbs:    s.Carbs,
			Fiber:    s.Fiber,
			Alcohol:  s.Alcohol,
		})
		out = append(out, types.IntakeBucketResponse{
			Start:    types.FormatDate(s.Start),
			End:      types.FormatDate(s.End),
			Calories: n.Calories,
			Proteins: n.Proteins,
			Fats:     n.Fats,
			Carbs:    n.Carbs,
			Fiber:    n.Fiber,
			Alcohol:  n.Alcohol,
			Records:  s.Records,
		})
	}
	return out
}

func toValueBuckets(in []trends.ValueSummary) []types.ValueBucketResponse {
	out := make([]types.ValueBucketResponse, 0, len(in))
	for _, s := range in {
		out = append(out, types.ValueBucketResponse{
			Start:   types.FormatDate(s.Start),
			End:     types.FormatDate(s.End),
			Average: nutrition.RoundValue(s.Average, nutrition.DisplayPrecision),
			Records: s.Records,
		})
	}
	return out
}

func weightResponse(e *models.WeightEntry) types.BodyMetricResponse {
	return types.BodyMetricResponse{ID: e.ID, Date: types.FormatDate(e.Day()), Value: e.Value}
}

func waistResponse(e *models.WaistEntry) types.BodyMetricResponse {
	return types.BodyMetricResponse{ID: e.ID, Date: types.FormatDate(e.Day()), Value: e.Value}
}

func mapAll[T, R any](in []T, f func(*T) R) []R {
	out := make([]R, 0, len(in))
	for i := range in {
		out = append(out, f(&in[i]))
	}
	return out
}
