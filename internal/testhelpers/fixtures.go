package testhelpers

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/pageza/nutrilog/backend/internal/models"
)

// Date parses a YYYY-MM-DD string as a UTC day.
func Date(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	require.NoError(t, err)
	return d
}

// CreateTestUser creates a user with a unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	id := uuid.New()
	user := &models.User{
		ID:           id,
		Name:         "Test User",
		Email:        fmt.Sprintf("user+%s@example.com", id),
		PasswordHash: "hashed_password",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// CreateTestProduct creates a product measured per 100 g.
func CreateTestProduct(t *testing.T, db *gorm.DB, userID uuid.UUID, name string, calories, proteins, fats, carbs float64) *models.Product {
	t.Helper()
	p := &models.Product{
		UserID:          userID,
		Name:            name,
		Unit:            models.UnitGram,
		BaseAmount:      100,
		CaloriesPerBase: calories,
		ProteinsPerBase: proteins,
		FatsPerBase:     fats,
		CarbsPerBase:    carbs,
	}
	require.NoError(t, db.Create(p).Error)
	return p
}

// ProductLine builds a recipe ingredient for a product.
func ProductLine(productID uuid.UUID, amount float64) models.RecipeIngredient {
	return models.RecipeIngredient{ProductID: &productID, Amount: amount}
}

// RecipeLine builds a recipe ingredient for a nested recipe.
func RecipeLine(recipeID uuid.UUID, servings float64) models.RecipeIngredient {
	return models.RecipeIngredient{NestedRecipeID: &recipeID, Amount: servings}
}

// CreateTestRecipe stores an auto-calculated single-step recipe without
// computing its cached totals.
func CreateTestRecipe(t *testing.T, db *gorm.DB, userID uuid.UUID, name string, servings float64, lines ...models.RecipeIngredient) *models.Recipe {
	t.Helper()
	for i := range lines {
		lines[i].Position = i
	}
	r := &models.Recipe{
		UserID:                    userID,
		Name:                      name,
		Servings:                  servings,
		IsNutritionAutoCalculated: true,
		Steps:                     []models.RecipeStep{{Position: 0, Instruction: "Combine.", Ingredients: lines}},
	}
	require.NoError(t, db.Create(r).Error)
	return r
}
