package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pageza/nutrilog/backend/internal/models"
	"github.com/pageza/nutrilog/backend/internal/nutrition"
)

// Catalog is the set of products and recipes needed to compute some totals.
type Catalog struct {
	Products map[uuid.UUID]nutrition.Product
	Recipes  map[uuid.UUID]nutrition.Recipe
}

// Resolver returns a fresh resolver over the catalog.
func (c *Catalog) Resolver() *nutrition.Resolver {
	return nutrition.NewResolver(c.Products, c.Recipes)
}

// CatalogLoader loads every product and recipe reachable from a list of
// ingredients.
type CatalogLoader struct {
	db *gorm.DB
}

func NewCatalogLoader(db *gorm.DB) *CatalogLoader {
	return &CatalogLoader{db: db}
}

// Load loads the products and recipes referenced by items and, transitively,
// by the steps of those recipes. Items referenced directly must be visible to
// userID; anything a visible recipe references is loaded regardless of owner.
func (l *CatalogLoader) Load(ctx context.Context, userID uuid.UUID, items []nutrition.Ingredient) (*Catalog, error) {
	return l.load(ctx, userID, items)
}

// load is Load with seed recipes already in the catalog. Seeds are never
// read from the database, so an unsaved version of a recipe takes part in
// cycle detection.
func (l *CatalogLoader) load(ctx context.Context, userID uuid.UUID, items []nutrition.Ingredient, seeds ...nutrition.Recipe) (*Catalog, error) {
	cat := &Catalog{
		Products: make(map[uuid.UUID]nutrition.Product),
		Recipes:  make(map[uuid.UUID]nutrition.Recipe),
	}
	for _, r := range seeds {
		cat.Recipes[r.ID] = r
	}

	productIDs, recipeIDs := l.pending(cat, items)
	visibleTo := &userID
	for len(productIDs) > 0 || len(recipeIDs) > 0 {
		if err := l.loadProducts(ctx, cat, productIDs, visibleTo); err != nil {
			return nil, err
		}
		recipes, err := l.loadRecipes(ctx, cat, recipeIDs, visibleTo)
		if err != nil {
			return nil, err
		}

		var nested []nutrition.Ingredient
		for _, r := range recipes {
			nested = append(nested, r.Ingredients...)
		}
		productIDs, recipeIDs = l.pending(cat, nested)
		visibleTo = nil
	}

	return cat, nil
}

// RecipeTotals computes the whole-recipe totals of r from its current
// ingredients, which need not be persisted yet.
func (l *CatalogLoader) RecipeTotals(ctx context.Context, r *models.Recipe) (nutrition.Totals, error) {
	self := r.ToNutrition()
	cat, err := l.load(ctx, r.UserID, self.Ingredients, self)
	if err != nil {
		return nutrition.Totals{}, err
	}

	rt, err := cat.Resolver().RecipeTotals(r.ID)
	if err != nil {
		return nutrition.Totals{}, resolutionError(err)
	}
	return rt.Totals, nil
}

// CompositeTotals computes the totals of a meal owned by userID.
func (l *CatalogLoader) CompositeTotals(ctx context.Context, userID uuid.UUID, c nutrition.Composite) (nutrition.Totals, error) {
	cat, err := l.Load(ctx, userID, c.Ingredients)
	if err != nil {
		return nutrition.Totals{}, err
	}
	totals, err := cat.Resolver().Resolve(c)
	if err != nil {
		return nutrition.Totals{}, resolutionError(err)
	}
	return totals, nil
}

// pending returns the ids referenced by items that are not in the catalog yet.
func (l *CatalogLoader) pending(cat *Catalog, items []nutrition.Ingredient) (products, recipes []uuid.UUID) {
	seen := make(map[uuid.UUID]bool)
	for _, item := range items {
		switch item.Kind() {
		case nutrition.KindProduct:
			if _, ok := cat.Products[item.ProductID]; !ok && !seen[item.ProductID] {
				seen[item.ProductID] = true
				products = append(products, item.ProductID)
			}
		case nutrition.KindRecipe:
			if _, ok := cat.Recipes[item.RecipeID]; !ok && !seen[item.RecipeID] {
				seen[item.RecipeID] = true
				recipes = append(recipes, item.RecipeID)
			}
		}
	}
	return products, recipes
}

func (l *CatalogLoader) loadProducts(ctx context.Context, cat *Catalog, ids []uuid.UUID, visibleTo *uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	q := l.db.WithContext(ctx).Where("id IN ?", ids)
	if visibleTo != nil {
		q = q.Where("(user_id = ? OR is_shared = ?)", *visibleTo, true)
	}
	var products []models.Product
	if err := q.Find(&products).Error; err != nil {
		return fmt.Errorf("failed to load products: %w", err)
	}
	for i := range products {
		cat.Products[products[i].ID] = products[i].ToNutrition()
	}
	for _, id := range ids {
		if _, ok := cat.Products[id]; !ok {
			return &NotAccessibleError{Kind: "product", ID: id}
		}
	}
	return nil
}

func (l *CatalogLoader) loadRecipes(ctx context.Context, cat *Catalog, ids []uuid.UUID, visibleTo *uuid.UUID) ([]nutrition.Recipe, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	q := preloadSteps(l.db.WithContext(ctx)).Where("id IN ?", ids)
	if visibleTo != nil {
		q = q.Where("(user_id = ? OR is_shared = ?)", *visibleTo, true)
	}
	var recipes []models.Recipe
	if err := q.Find(&recipes).Error; err != nil {
		return nil, fmt.Errorf("failed to load recipes: %w", err)
	}

	loaded := make([]nutrition.Recipe, 0, len(recipes))
	for i := range recipes {
		recipes[i].SortSteps()
		n := recipes[i].ToNutrition()
		cat.Recipes[n.ID] = n
		loaded = append(loaded, n)
	}
	for _, id := range ids {
		if _, ok := cat.Recipes[id]; !ok {
			return nil, &NotAccessibleError{Kind: "recipe", ID: id}
		}
	}
	return loaded, nil
}

func preloadSteps(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Steps", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		Preload("Steps.Ingredients", func(db *gorm.DB) *gorm.DB { return db.Order("position") })
}
