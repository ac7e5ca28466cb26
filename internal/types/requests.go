package types

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// DateLayout is the wire format of calendar dates.
const DateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD date as a UTC day.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	return t, nil
}

// FormatDate formats t as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// NutrientsInput carries optional manual values. A missing field means
// "use the calculated value".
type NutrientsInput struct {
	Calories *float64 `json:"calories"`
	Proteins *float64 `json:"proteins"`
	Fats     *float64 `json:"fats"`
	Carbs    *float64 `json:"carbs"`
	Fiber    *float64 `json:"fiber"`
	Alcohol  *float64 `json:"alcohol"`
}

type ProductRequest struct {
	Name            string  `json:"name" binding:"required,max=255"`
	Unit            string  `json:"unit"`
	BaseAmount      float64 `json:"base_amount"`
	CaloriesPerBase float64 `json:"calories_per_base" binding:"gte=0"`
	ProteinsPerBase float64 `json:"proteins_per_base" binding:"gte=0"`
	FatsPerBase     float64 `json:"fats_per_base" binding:"gte=0"`
	CarbsPerBase    float64 `json:"carbs_per_base" binding:"gte=0"`
	FiberPerBase    float64 `json:"fiber_per_base" binding:"gte=0"`
	AlcoholPerBase  float64 `json:"alcohol_per_base" binding:"gte=0"`
	IsShared        bool    `json:"is_shared"`
}

// IngredientRequest references exactly one of a product or a recipe.
type IngredientRequest struct {
	ProductID *uuid.UUID `json:"product_id"`
	RecipeID  *uuid.UUID `json:"recipe_id"`
	Amount    float64    `json:"amount"`
}

type RecipeStepRequest struct {
	Instruction string              `json:"instruction"`
	Ingredients []IngredientRequest `json:"ingredients"`
}

type RecipeRequest struct {
	Name                      string              `json:"name" binding:"required,max=255"`
	Description               string              `json:"description"`
	Servings                  float64             `json:"servings"`
	IsShared                  bool                `json:"is_shared"`
	IsNutritionAutoCalculated *bool               `json:"is_nutrition_auto_calculated"`
	Manual                    NutrientsInput      `json:"manual"`
	Steps                     []RecipeStepRequest `json:"steps"`
}

type ConsumptionRequest struct {
	Date                      string              `json:"date" binding:"required"`
	MealType                  string              `json:"meal_type" binding:"required"`
	Comment                   string              `json:"comment"`
	IsNutritionAutoCalculated *bool               `json:"is_nutrition_auto_calculated"`
	Manual                    NutrientsInput      `json:"manual"`
	Items                     []IngredientRequest `json:"items"`
}

type BodyMetricRequest struct {
	Date  string  `json:"date" binding:"required"`
	Value float64 `json:"value"`
}

type ExportRequest struct {
	From string `json:"from" binding:"required"`
	To   string `json:"to" binding:"required"`
}

// ListQuery is the paging and search input of list endpoints.
type ListQuery struct {
	Search   string `form:"q"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Normalize applies paging defaults and bounds.
func (q *ListQuery) Normalize() {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 1 {
		q.PageSize = DefaultPageSize
	}
	if q.PageSize > MaxPageSize {
		q.PageSize = MaxPageSize
	}
}

// Offset returns the number of rows to skip.
func (q ListQuery) Offset() int {
	return (q.Page - 1) * q.PageSize
}
