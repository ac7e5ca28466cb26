package nutrition

import (
	"github.com/google/uuid"
)

// IngredientKind tells which side of the Ingredient union is set.
type IngredientKind int

const (
	KindInvalid IngredientKind = iota
	KindProduct
	KindRecipe
)

// Ingredient is a line item of a meal or recipe. Exactly one of ProductID and
// RecipeID is expected to be set. Amount is in the product's base unit for a
// product and in servings for a recipe.
type Ingredient struct {
	ProductID uuid.UUID
	RecipeID  uuid.UUID
	Amount    float64
}

// ProductIngredient builds a product line item.
func ProductIngredient(id uuid.UUID, amount float64) Ingredient {
	return Ingredient{ProductID: id, Amount: amount}
}

// RecipeIngredient builds a nested recipe line item.
func RecipeIngredient(id uuid.UUID, servings float64) Ingredient {
	return Ingredient{RecipeID: id, Amount: servings}
}

// Kind reports which reference the ingredient carries.
func (i Ingredient) Kind() IngredientKind {
	hasProduct := i.ProductID != uuid.Nil
	hasRecipe := i.RecipeID != uuid.Nil
	switch {
	case hasProduct && !hasRecipe:
		return KindProduct
	case hasRecipe && !hasProduct:
		return KindRecipe
	default:
		return KindInvalid
	}
}

// Product is the nutrition profile of a catalog product. PerBase holds the
// values for BaseAmount units of the product (e.g. per 100 g).
type Product struct {
	ID         uuid.UUID
	BaseAmount float64
	PerBase    Totals
}

// RecipeTotals is the resolved whole-recipe nutrition of a recipe together with
// the number of servings it yields.
type RecipeTotals struct {
	Servings float64
	Totals   Totals
}

// Calculate sums the nutrition of the given line items.
//
// Products scale linearly with amount/baseAmount; a non-positive base amount is
// treated as 1. Recipes contribute their resolved totals scaled by
// amount/servings; recipes with non-positive servings contribute nothing.
// Items with neither or both references, and items whose reference is absent
// from the lookups, are skipped.
func Calculate(items []Ingredient, products map[uuid.UUID]Product, recipes map[uuid.UUID]RecipeTotals) Totals {
	var total Totals
	for _, item := range items {
		total = total.Add(contribution(item, products, recipes))
	}
	return total
}

func contribution(item Ingredient, products map[uuid.UUID]Product, recipes map[uuid.UUID]RecipeTotals) Totals {
	switch item.Kind() {
	case KindProduct:
		p, ok := products[item.ProductID]
		if !ok {
			return Totals{}
		}
		base := p.BaseAmount
		if base <= 0 {
			base = 1
		}
		return p.PerBase.Scale(item.Amount / base)
	case KindRecipe:
		r, ok := recipes[item.RecipeID]
		if !ok || r.Servings <= 0 {
			return Totals{}
		}
		return r.Totals.Scale(item.Amount / r.Servings)
	default:
		return Totals{}
	}
}
