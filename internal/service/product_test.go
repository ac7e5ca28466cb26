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

func TestCreateProduct(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	user := testhelpers.CreateTestUser(t, db)
	svc := service.NewProductService(db)
	ctx := context.Background()

	product, err := svc.CreateProduct(ctx, user.ID, &types.ProductRequest{
		Name:            " Oats ",
		CaloriesPerBase: 389,
		ProteinsPerBase: 16.9,
		FatsPerBase:     6.9,
		CarbsPerBase:    66.3,
		FiberPerBase:    10.6,
	})
	require.NoError(t, err)
	assert.Equal(t, "Oats", product.Name)
	assert.Equal(t, models.UnitGram, product.Unit)
	assert.Equal(t, 100.0, product.BaseAmount)
	assert.Equal(t, user.ID, product.UserID)

	tests := []struct {
		name  string
		req   types.ProductRequest
		field string
	}{
		{"blank name", types.ProductRequest{Name: ""}, "name"},
		{"unknown unit", types.ProductRequest{Name: "Milk", Unit: "cup"}, "unit"},
		{"negative base", types.ProductRequest{Name: "Milk", BaseAmount: -1}, "base_amount"},
		{"negative calories", types.ProductRequest{Name: "Milk", CaloriesPerBase: -5}, "calories_per_base"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateProduct(ctx, user.ID, &tt.req)
			require.Error(t, err)
			assert.ErrorIs(t, err, service.ErrInvalidInput)
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestProductVisibility(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	owner := testhelpers.CreateTestUser(t, db)
	other := testhelpers.CreateTestUser(t, db)
	svc := service.NewProductService(db)
	ctx := context.Background()

	private, err := svc.CreateProduct(ctx, owner.ID, &types.ProductRequest{Name: "Private"})
	require.NoError(t, err)
	shared, err := svc.CreateProduct(ctx, owner.ID, &types.ProductRequest{Name: "Shared", IsShared: true})
	require.NoError(t, err)

	_, err = svc.GetProduct(ctx, other.ID, private.ID)
	assert.ErrorIs(t, err, service.ErrProductNotFound)

	got, err := svc.GetProduct(ctx, other.ID, shared.ID)
	require.NoError(t, err)
	assert.Equal(t, "Shared", got.Name)

	_, err = svc.UpdateProduct(ctx, other.ID, shared.ID, &types.ProductRequest{Name: "Hijacked"})
	assert.ErrorIs(t, err, service.ErrNotFound)

	updated, err := svc.UpdateProduct(ctx, owner.ID, shared.ID, &types.ProductRequest{Name: "Renamed", Unit: models.UnitMilliliter, IsShared: true})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)
	assert.Equal(t, models.UnitMilliliter, updated.Unit)
}

func TestDeleteProduct(t *testing.T) {
	k := newKitchen(t)
	products := service.NewProductService(k.db)
	recipes := service.NewRecipeService(k.db)
	ctx := context.Background()

	recipe, err := recipes.CreateRecipe(ctx, k.user.ID, &types.RecipeRequest{Name: "Bowl", Steps: oneStep(productItem(k.apple.ID, 100))})
	require.NoError(t, err)

	err = products.DeleteProduct(ctx, k.user.ID, k.apple.ID)
	assert.ErrorIs(t, err, service.ErrConflict)

	require.NoError(t, recipes.DeleteRecipe(ctx, k.user.ID, recipe.ID))
	require.NoError(t, products.DeleteProduct(ctx, k.user.ID, k.apple.ID))

	_, err = products.GetProduct(ctx, k.user.ID, k.apple.ID)
	assert.ErrorIs(t, err, service.ErrProductNotFound)
}

func TestDeleteProductUsedByMeal(t *testing.T) {
	k := newKitchen(t)
	products := service.NewProductService(k.db)
	meals := service.NewConsumptionService(k.db)
	ctx := context.Background()

	_, err := meals.CreateConsumption(ctx, k.user.ID, &types.ConsumptionRequest{
		Date:     "2024-03-01",
		MealType: models.MealSnack,
		Items:    []types.IngredientRequest{productItem(k.stock.ID, 250)},
	})
	require.NoError(t, err)

	err = products.DeleteProduct(ctx, k.user.ID, k.stock.ID)
	assert.ErrorIs(t, err, service.ErrConflict)
}

func TestListProducts(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	user := testhelpers.CreateTestUser(t, db)
	other := testhelpers.CreateTestUser(t, db)
	svc := service.NewProductService(db)
	ctx := context.Background()

	for _, name := range []string{"Banana", "Bread", "Butter", "Cheese"} {
		testhelpers.CreateTestProduct(t, db, user.ID, name, 100, 1, 1, 1)
	}
	_, err := svc.CreateProduct(ctx, other.ID, &types.ProductRequest{Name: "Brie", IsShared: true})
	require.NoError(t, err)
	testhelpers.CreateTestProduct(t, db, other.ID, "Bacon", 500, 1, 1, 1)

	products, total, err := svc.ListProducts(ctx, user.ID, types.ListQuery{Search: "B"})
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)
	names := make([]string, 0, len(products))
	for _, p := range products {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"Banana", "Bread", "Brie", "Butter"}, names)

	products, total, err = svc.ListProducts(ctx, user.ID, types.ListQuery{PageSize: 3, Page: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	require.Len(t, products, 2)
	assert.Equal(t, "Butter", products[0].Name)
	assert.Equal(t, "Cheese", products[1].Name)
}
