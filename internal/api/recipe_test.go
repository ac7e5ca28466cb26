package api_test

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/nutrilog/backend/internal/types"
)

func ingredientsStep(items ...types.IngredientRequest) []types.RecipeStepRequest {
	return []types.RecipeStepRequest{{Instruction: "Combine everything.", Ingredients: items}}
}

func TestRecipeRoutes(t *testing.T) {
	a := setupAPI(t, nil)
	owner := a.register(t, "chef@example.com")
	other := a.register(t, "guest@example.com")
	apple := a.createProduct(t, owner.Token, "Apple", 52, 0.3)

	w := a.do(http.MethodPost, "/api/v1/recipes", owner.Token, types.RecipeRequest{
		Name:     "Apple sauce",
		Servings: 2,
		Steps:    ingredientsStep(types.IngredientRequest{ProductID: &apple.ID, Amount: 150}),
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	sauce := decode[types.RecipeResponse](t, w)
	assert.True(t, sauce.IsNutritionAutoCalculated)
	assert.Equal(t, 78.0, sauce.Totals.Calories)
	assert.Equal(t, 39.0, sauce.PerServing.Calories)
	assert.Equal(t, 0.45, sauce.Totals.Proteins)
	require.Len(t, sauce.Steps, 1)
	require.Len(t, sauce.Steps[0].Ingredients, 1)
	assert.Equal(t, apple.ID, *sauce.Steps[0].Ingredients[0].ProductID)

	path := "/api/v1/recipes/" + sauce.ID.String()

	t.Run("nested recipe", func(t *testing.T) {
		w := a.do(http.MethodPost, "/api/v1/recipes", owner.Token, types.RecipeRequest{
			Name:  "Pancakes with sauce",
			Steps: ingredientsStep(types.IngredientRequest{RecipeID: &sauce.ID, Amount: 1}),
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		assert.Equal(t, 39.0, decode[types.RecipeResponse](t, w).Totals.Calories)
	})

	t.Run("manual override", func(t *testing.T) {
		manual := false
		calories := 100.0
		w := a.do(http.MethodPut, path, owner.Token, types.RecipeRequest{
			Name:                      "Apple sauce",
			Servings:                  2,
			IsNutritionAutoCalculated: &manual,
			Manual:                    types.NutrientsInput{Calories: &calories},
			Steps:                     ingredientsStep(types.IngredientRequest{ProductID: &apple.ID, Amount: 150}),
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		got := decode[types.RecipeResponse](t, w)
		assert.Equal(t, 100.0, got.Totals.Calories)
		assert.Equal(t, 0.45, got.Totals.Proteins)
		assert.Equal(t, 100.0, *got.Manual.Calories)
		assert.Nil(t, got.Manual.Proteins)
	})

	t.Run("validation", func(t *testing.T) {
		tests := []struct {
			name      string
			req       types.RecipeRequest
			wantField string
		}{
			{
				name:      "ingredient with both references",
				req:       types.RecipeRequest{Name: "Bad", Steps: ingredientsStep(types.IngredientRequest{ProductID: &apple.ID, RecipeID: &sauce.ID, Amount: 1})},
				wantField: "steps[0].ingredients[0]",
			},
			{
				name:      "zero amount",
				req:       types.RecipeRequest{Name: "Bad", Steps: ingredientsStep(types.IngredientRequest{ProductID: &apple.ID})},
				wantField: "steps[0].ingredients[0].amount",
			},
			{
				name:      "negative servings",
				req:       types.RecipeRequest{Name: "Bad", Servings: -1},
				wantField: "servings",
			},
			{
				name:      "self reference",
				req:       types.RecipeRequest{Name: "Apple sauce", Steps: ingredientsStep(types.IngredientRequest{RecipeID: &sauce.ID, Amount: 1})},
				wantField: "ingredients",
			},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				target := "/api/v1/recipes"
				method := http.MethodPost
				if tt.wantField == "ingredients" {
					method, target = http.MethodPut, path
				}
				w := a.do(method, target, owner.Token, tt.req)
				require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
				assert.Equal(t, tt.wantField, decode[map[string]any](t, w)["field"])
			})
		}
	})

	t.Run("private references", func(t *testing.T) {
		w := a.do(http.MethodGet, path, other.Token, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)

		w = a.do(http.MethodPost, "/api/v1/recipes", other.Token, types.RecipeRequest{
			Name:  "Borrowed",
			Steps: ingredientsStep(types.IngredientRequest{ProductID: &apple.ID, Amount: 100}),
		})
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, errorOf(t, w), apple.ID.String())
	})

	t.Run("list without steps", func(t *testing.T) {
		w := a.do(http.MethodGet, "/api/v1/recipes?q=sauce", owner.Token, nil)
		require.Equal(t, http.StatusOK, w.Code)
		page := decode[types.ListResponse[types.RecipeResponse]](t, w)
		assert.Equal(t, int64(2), page.Total)
		for _, r := range page.Items {
			assert.Empty(t, r.Steps)
		}
	})

	t.Run("delete", func(t *testing.T) {
		w := a.do(http.MethodDelete, "/api/v1/products/"+apple.ID.String(), owner.Token, nil)
		assert.Equal(t, http.StatusConflict, w.Code)

		w = a.do(http.MethodDelete, path, owner.Token, nil)
		assert.Equal(t, http.StatusConflict, w.Code, "still used by the pancakes")

		w = a.do(http.MethodDelete, "/api/v1/recipes/"+uuid.NewString(), owner.Token, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
