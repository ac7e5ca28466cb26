package models

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pageza/nutrilog/backend/internal/nutrition"
)

// Recipe is a user's recipe. Totals caches the whole-recipe nutrition last
// written by the recipe service.
type Recipe struct {
	ID                        uuid.UUID      `gorm:"type:varchar(36);primarykey" json:"id"`
	CreatedAt                 time.Time      `json:"created_at"`
	UpdatedAt                 time.Time      `json:"updated_at"`
	DeletedAt                 gorm.DeletedAt `gorm:"index" json:"-"`
	UserID                    uuid.UUID      `gorm:"type:varchar(36);not null;index" json:"user_id"`
	Name                      string         `gorm:"size:255;not null" json:"name"`
	Description               string         `gorm:"type:text" json:"description"`
	Servings                  float64        `gorm:"not null" json:"servings"`
	IsShared                  bool           `gorm:"not null" json:"is_shared"`
	IsNutritionAutoCalculated bool           `gorm:"not null" json:"is_nutrition_auto_calculated"`
	Manual                    NutrientValues `gorm:"embedded;embeddedPrefix:manual_" json:"manual"`
	Totals                    NutrientValues `gorm:"embedded;embeddedPrefix:total_" json:"totals"`
	Steps                     []RecipeStep   `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE" json:"steps"`
}

// RecipeStep is one ordered step of a recipe.
type RecipeStep struct {
	ID          uuid.UUID          `gorm:"type:varchar(36);primarykey" json:"id"`
	RecipeID    uuid.UUID          `gorm:"type:varchar(36);not null;index" json:"recipe_id"`
	Position    int                `gorm:"not null" json:"position"`
	Instruction string             `gorm:"type:text" json:"instruction"`
	Ingredients []RecipeIngredient `gorm:"foreignKey:StepID;constraint:OnDelete:CASCADE" json:"ingredients"`
}

// RecipeIngredient references either a product (amount in its unit) or a
// nested recipe (amount in servings).
type RecipeIngredient struct {
	ID             uuid.UUID  `gorm:"type:varchar(36);primarykey" json:"id"`
	StepID         uuid.UUID  `gorm:"type:varchar(36);not null;index" json:"step_id"`
	Position       int        `gorm:"not null" json:"position"`
	ProductID      *uuid.UUID `gorm:"type:varchar(36);index" json:"product_id,omitempty"`
	NestedRecipeID *uuid.UUID `gorm:"type:varchar(36);index" json:"nested_recipe_id,omitempty"`
	Amount         float64    `gorm:"not null" json:"amount"`
}

func (r *Recipe) BeforeCreate(tx *gorm.DB) error {
	ensureID(&r.ID)
	return nil
}

func (s *RecipeStep) BeforeCreate(tx *gorm.DB) error {
	ensureID(&s.ID)
	return nil
}

func (i *RecipeIngredient) BeforeCreate(tx *gorm.DB) error {
	ensureID(&i.ID)
	return nil
}

// SortSteps orders steps and their ingredients by position.
func (r *Recipe) SortSteps() {
	sort.SliceStable(r.Steps, func(i, j int) bool { return r.Steps[i].Position < r.Steps[j].Position })
	for k := range r.Steps {
		ings := r.Steps[k].Ingredients
		sort.SliceStable(ings, func(i, j int) bool { return ings[i].Position < ings[j].Position })
	}
}

// Ingredients flattens the ingredients of every step.
func (r *Recipe) Ingredients() []nutrition.Ingredient {
	var items []nutrition.Ingredient
	for _, step := range r.Steps {
		for _, ing := range step.Ingredients {
			items = append(items, ing.ToNutrition())
		}
	}
	return items
}

// ToNutrition returns the nutrition view of the recipe. Steps must be loaded.
func (r *Recipe) ToNutrition() nutrition.Recipe {
	return nutrition.Recipe{
		ID:             r.ID,
		Servings:       r.Servings,
		Ingredients:    r.Ingredients(),
		AutoCalculated: r.IsNutritionAutoCalculated,
		Manual:         r.Manual.Manual(),
		Stored:         r.Totals.Totals(),
	}
}

// ApplyTotals replaces the cached totals.
func (r *Recipe) ApplyTotals(t nutrition.Totals) {
	r.Totals = NutrientValuesOf(t)
}

// VisibleTo reports whether userID may read or reference the recipe.
func (r *Recipe) VisibleTo(userID uuid.UUID) bool {
	return r.IsShared || r.UserID == userID
}

func (i RecipeIngredient) ToNutrition() nutrition.Ingredient {
	return ingredientOf(i.ProductID, i.NestedRecipeID, i.Amount)
}

func ingredientOf(productID, recipeID *uuid.UUID, amount float64) nutrition.Ingredient {
	item := nutrition.Ingredient{Amount: amount}
	if productID != nil {
		item.ProductID = *productID
	}
	if recipeID != nil {
		item.RecipeID = *recipeID
	}
	return item
}
