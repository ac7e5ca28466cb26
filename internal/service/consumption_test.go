package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/nutrilog/backend/internal/models"
	"github.com/pageza/nutrilog/backend/internal/service"
	"github.com/pageza/nutrilog/backend/internal/testhelpers"
	"github.com/pageza/nutrilog/backend/internal/types"
)

func TestCreateConsumption(t *testing.T) {
	k := newKitchen(t)
	recipes := service.NewRecipeService(k.db)
	svc := service.NewConsumptionService(k.db)
	ctx := context.Background()

	// 400 g stock over 4 servings: 50 kcal per serving.
	broth, err := recipes.CreateRecipe(ctx, k.user.ID, &types.RecipeRequest{
		Name:     "Broth",
		Servings: 4,
		Steps:    oneStep(productItem(k.stock.ID, 400)),
	})
	require.NoError(t, err)

	meal, err := svc.CreateConsumption(ctx, k.user.ID, &types.ConsumptionRequest{
		Date:     "2024-03-01",
		MealType: "Lunch",
		Comment:  "at work",
		Items:    []types.IngredientRequest{recipeItem(broth.ID, 2), productItem(k.apple.ID, 150)},
	})
	require.NoError(t, err)
	assert.Equal(t, models.MealLunch, meal.MealType)
	assert.Equal(t, "2024-03-01", types.FormatDate(meal.Day()))

	totals := meal.Totals.Totals()
	assert.InDelta(t, 178, totals.Calories, delta)
	assert.InDelta(t, 4.45, totals.Proteins, delta)

	got, err := svc.GetConsumption(ctx, k.user.ID, meal.ID)
	require.NoError(t, err)
	require.Len(t, got.Items, 2)
	assert.Equal(t, broth.ID, *got.Items[0].RecipeID)
	assert.Equal(t, k.apple.ID, *got.Items[1].ProductID)
}

func TestCreateConsumptionValidation(t *testing.T) {
	k := newKitchen(t)
	svc := service.NewConsumptionService(k.db)
	ctx := context.Background()

	tests := []struct {
		name string
		req  types.ConsumptionRequest
	}{
		{"bad date", types.ConsumptionRequest{Date: "01/03/2024", MealType: models.MealDinner}},
		{"unknown meal type", types.ConsumptionRequest{Date: "2024-03-01", MealType: "brunch"}},
		{"item without reference", types.ConsumptionRequest{
			Date: "2024-03-01", MealType: models.MealDinner,
			Items: []types.IngredientRequest{{Amount: 10}},
		}},
		{"manual meal without values", types.ConsumptionRequest{
			Date: "2024-03-01", MealType: models.MealDinner,
			IsNutritionAutoCalculated: boolPtr(false),
			Manual:                    types.NutrientsInput{Calories: floatPtr(500)},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateConsumption(ctx, k.user.ID, &tt.req)
			assert.ErrorIs(t, err, service.ErrInvalidInput)
		})
	}
}

func TestManualConsumption(t *testing.T) {
	k := newKitchen(t)
	svc := service.NewConsumptionService(k.db)
	ctx := context.Background()

	meal, err := svc.CreateConsumption(ctx, k.user.ID, &types.ConsumptionRequest{
		Date:                      "2024-03-01",
		MealType:                  models.MealDinner,
		IsNutritionAutoCalculated: boolPtr(false),
		Manual: types.NutrientsInput{
			Calories: floatPtr(650),
			Proteins: floatPtr(35),
			Fats:     floatPtr(20),
			Carbs:    floatPtr(80),
			Alcohol:  floatPtr(14),
		},
	})
	require.NoError(t, err)
	totals := meal.Totals.Totals()
	assert.InDelta(t, 650, totals.Calories, delta)
	assert.InDelta(t, 14, totals.Alcohol, delta)

	got, err := svc.GetConsumption(ctx, k.user.ID, meal.ID)
	require.NoError(t, err)
	assert.InDelta(t, 650, got.Totals.Totals().Calories, delta)
}

func TestUpdateConsumption(t *testing.T) {
	k := newKitchen(t)
	svc := service.NewConsumptionService(k.db)
	ctx := context.Background()

	meal, err := svc.CreateConsumption(ctx, k.user.ID, &types.ConsumptionRequest{
		Date:     "2024-03-01",
		MealType: models.MealBreakfast,
		Items:    []types.IngredientRequest{productItem(k.apple.ID, 100)},
	})
	require.NoError(t, err)

	updated, err := svc.UpdateConsumption(ctx, k.user.ID, meal.ID, &types.ConsumptionRequest{
		Date:     "2024-03-02",
		MealType: models.MealBreakfast,
		Items:    []types.IngredientRequest{productItem(k.apple.ID, 200), productItem(k.stock.ID, 100)},
	})
	require.NoError(t, err)
	assert.Equal(t, "2024-03-02", types.FormatDate(updated.Day()))
	assert.InDelta(t, 154, updated.Totals.Totals().Calories, delta)

	var items int64
	require.NoError(t, k.db.Model(&models.ConsumptionItem{}).Where("consumption_id = ?", meal.ID).Count(&items).Error)
	assert.Equal(t, int64(2), items)

	other := testhelpers.CreateTestUser(t, k.db)
	_, err = svc.UpdateConsumption(ctx, other.ID, meal.ID, &types.ConsumptionRequest{Date: "2024-03-02", MealType: models.MealBreakfast})
	assert.ErrorIs(t, err, service.ErrConsumptionNotFound)
}

func TestListByDateAndDailySummary(t *testing.T) {
	k := newKitchen(t)
	svc := service.NewConsumptionService(k.db)
	ctx := context.Background()

	log := func(date, mealType string, grams float64) {
		_, err := svc.CreateConsumption(ctx, k.user.ID, &types.ConsumptionRequest{
			Date:     date,
			MealType: mealType,
			Items:    []types.IngredientRequest{productItem(k.apple.ID, grams)},
		})
		require.NoError(t, err)
	}
	log("2024-03-01", models.MealBreakfast, 100)
	log("2024-03-02", models.MealBreakfast, 200)
	log("2024-03-02", models.MealDinner, 300)
	log("2024-03-05", models.MealSnack, 50)

	meals, err := svc.ListByDate(ctx, k.user.ID, testhelpers.Date(t, "2024-03-02"), testhelpers.Date(t, "2024-03-05"))
	require.NoError(t, err)
	require.Len(t, meals, 3)
	assert.Equal(t, "2024-03-02", types.FormatDate(meals[0].Day()))
	assert.Equal(t, "2024-03-05", types.FormatDate(meals[2].Day()))

	_, err = svc.ListByDate(ctx, k.user.ID, testhelpers.Date(t, "2024-03-05"), testhelpers.Date(t, "2024-03-02"))
	assert.ErrorIs(t, err, service.ErrInvalidRange)

	summary, err := svc.DailySummary(ctx, k.user.ID, testhelpers.Date(t, "2024-03-02"))
	require.NoError(t, err)
	assert.Len(t, summary.Meals, 2)
	assert.InDelta(t, 260, summary.Totals.Calories, delta)

	empty, err := svc.DailySummary(ctx, k.user.ID, testhelpers.Date(t, "2024-03-03"))
	require.NoError(t, err)
	assert.Empty(t, empty.Meals)
	assert.True(t, empty.Totals.IsZero())
}

func TestDeleteConsumption(t *testing.T) {
	k := newKitchen(t)
	svc := service.NewConsumptionService(k.db)
	ctx := context.Background()
	other := testhelpers.CreateTestUser(t, k.db)

	meal, err := svc.CreateConsumption(ctx, k.user.ID, &types.ConsumptionRequest{
		Date:     "2024-03-01",
		MealType: models.MealOther,
		Items:    []types.IngredientRequest{productItem(k.apple.ID, 100)},
	})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.DeleteConsumption(ctx, other.ID, meal.ID), service.ErrConsumptionNotFound)
	require.NoError(t, svc.DeleteConsumption(ctx, k.user.ID, meal.ID))

	_, err = svc.GetConsumption(ctx, k.user.ID, meal.ID)
	assert.ErrorIs(t, err, service.ErrConsumptionNotFound)
}

func TestConsumptionRecalculateTotals(t *testing.T) {
	k := newKitchen(t)
	svc := service.NewConsumptionService(k.db)
	ctx := context.Background()

	meal, err := svc.CreateConsumption(ctx, k.user.ID, &types.ConsumptionRequest{
		Date:     "2024-03-01",
		MealType: models.MealLunch,
		Items:    []types.IngredientRequest{productItem(k.stock.ID, 200)},
	})
	require.NoError(t, err)

	require.NoError(t, k.db.Model(&models.Product{}).Where("id = ?", k.stock.ID).Update("calories_per_base", 40).Error)

	report, err := svc.RecalculateTotals(ctx)
	require.NoError(t, err)
	assert.Equal(t, service.RecalcReport{Checked: 1, Refreshed: 1}, report)

	stored := storedCalories(t, k.db, &models.Consumption{}, meal.ID)
	require.NotNil(t, stored)
	assert.InDelta(t, 80, *stored, delta)
}

func TestListByDateRejectsLongRanges(t *testing.T) {
	k := newKitchen(t)
	svc := service.NewConsumptionService(k.db)

	_, err := svc.ListByDate(context.Background(), k.user.ID, testhelpers.Date(t, "2020-01-01"), testhelpers.Date(t, "2024-01-01"))
	assert.ErrorIs(t, err, service.ErrRangeTooLarge)
}

func TestRefreshCarriesSecondaryChannels(t *testing.T) {
	k := newKitchen(t)
	svc := service.NewConsumptionService(k.db)
	ctx := context.Background()
	day := testhelpers.Date(t, "2024-03-01")

	meal, err := svc.CreateConsumption(ctx, k.user.ID, &types.ConsumptionRequest{
		Date:     "2024-03-01",
		MealType: models.MealSnack,
		Items:    []types.IngredientRequest{productItem(k.apple.ID, 100)},
	})
	require.NoError(t, err)

	// A fiber-only edit leaves the primary channels equal, so the cache is kept.
	require.NoError(t, k.db.Model(k.apple).Update("fiber_per_base", 2.4).Error)
	meals, err := svc.ListByDate(ctx, k.user.ID, day, day)
	require.NoError(t, err)
	require.Len(t, meals, 1)
	assert.Zero(t, meals[0].Totals.Totals().Fiber)

	// Once a primary channel drifts, the rewrite stores every channel.
	require.NoError(t, k.db.Model(k.apple).Update("calories_per_base", 60).Error)
	meals, err = svc.ListByDate(ctx, k.user.ID, day, day)
	require.NoError(t, err)
	require.Len(t, meals, 1)
	assert.InDelta(t, 60, meals[0].Totals.Totals().Calories, delta)
	assert.InDelta(t, 2.4, meals[0].Totals.Totals().Fiber, delta)

	var stored models.Consumption
	require.NoError(t, k.db.First(&stored, "id = ?", meal.ID).Error)
	require.NotNil(t, stored.Totals.Fiber)
	assert.InDelta(t, 2.4, *stored.Totals.Fiber, delta)
}
