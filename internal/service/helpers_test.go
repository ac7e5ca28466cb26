package service_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/pageza/nutrilog/backend/internal/models"
	"github.com/pageza/nutrilog/backend/internal/testhelpers"
	"github.com/pageza/nutrilog/backend/internal/types"
)

const delta = 1e-6

func floatPtr(v float64) *float64 { return &v }

func boolPtr(v bool) *bool { return &v }

func productItem(id uuid.UUID, amount float64) types.IngredientRequest {
	return types.IngredientRequest{ProductID: &id, Amount: amount}
}

func recipeItem(id uuid.UUID, servings float64) types.IngredientRequest {
	return types.IngredientRequest{RecipeID: &id, Amount: servings}
}

func oneStep(items ...types.IngredientRequest) []types.RecipeStepRequest {
	return []types.RecipeStepRequest{{Instruction: "Mix everything.", Ingredients: items}}
}

// kitchen is a user with a couple of products per 100 g.
type kitchen struct {
	db    *gorm.DB
	user  *models.User
	apple *models.Product // 52 kcal, 0.3 P, 0.2 F, 14 C
	stock *models.Product // 50 kcal, 2 P, 1 F, 8 C
}

func newKitchen(t *testing.T) *kitchen {
	t.Helper()
	db := testhelpers.SetupTestDB(t)
	user := testhelpers.CreateTestUser(t, db)
	return &kitchen{
		db:    db,
		user:  user,
		apple: testhelpers.CreateTestProduct(t, db, user.ID, "Apple", 52, 0.3, 0.2, 14),
		stock: testhelpers.CreateTestProduct(t, db, user.ID, "Stock", 50, 2, 1, 8),
	}
}

func storedCalories(t *testing.T, db *gorm.DB, model any, id uuid.UUID) *float64 {
	t.Helper()
	var row struct{ TotalCalories *float64 }
	require.NoError(t, db.Model(model).Select("total_calories").Where("id = ?", id).Scan(&row).Error)
	return row.TotalCalories
}
