package types

import (
	"time"

	"github.com/google/uuid"

	"github.com/pageza/nutrilog/backend/internal/nutrition"
)

// NutrientsResponse holds nutrient values rounded for display.
type NutrientsResponse struct {
	Calories float64 `json:"calories"`
	Proteins float64 `json:"proteins"`
	Fats     float64 `json:"fats"`
	Carbs    float64 `json:"carbs"`
	Fiber    float64 `json:"fiber"`
	Alcohol  float64 `json:"alcohol"`
}

// NutrientsOf rounds t for display.
func NutrientsOf(t nutrition.Totals) NutrientsResponse {
	r := t.Round(nutrition.DisplayPrecision)
	return NutrientsResponse{
		Calories: r.Calories,
		Proteins: r.Proteins,
		Fats:     r.Fats,
		Carbs:    r.Carbs,
		Fiber:    r.Fiber,
		Alcohol:  r.Alcohol,
	}
}

type AuthResponse struct {
	Token     string    `json:"token"`
	UserID    uuid.UUID `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

type ProductResponse struct {
	ID         uuid.UUID         `json:"id"`
	Name       string            `json:"name"`
	Unit       string            `json:"unit"`
	BaseAmount float64           `json:"base_amount"`
	PerBase    NutrientsResponse `json:"per_base"`
	IsShared   bool              `json:"is_shared"`
	IsOwn      bool              `json:"is_own"`
	CreatedAt  time.Time         `json:"created_at"`
}

type IngredientResponse struct {
	ProductID *uuid.UUID `json:"product_id,omitempty"`
	RecipeID  *uuid.UUID `json:"recipe_id,omitempty"`
	Amount    float64    `json:"amount"`
}

type RecipeStepResponse struct {
	Position    int                  `json:"position"`
	Instruction string               `json:"instruction"`
	Ingredients []IngredientResponse `json:"ingredients"`
}

type RecipeResponse struct {
	ID                        uuid.UUID            `json:"id"`
	UserID                    uuid.UUID            `json:"user_id"`
	Name                      string               `json:"name"`
	Description               string               `json:"description"`
	Servings                  float64              `json:"servings"`
	IsShared                  bool                 `json:"is_shared"`
	IsNutritionAutoCalculated bool                 `json:"is_nutrition_auto_calculated"`
	Manual                    NutrientsInput       `json:"manual"`
	Totals                    NutrientsResponse    `json:"totals"`
	PerServing                NutrientsResponse    `json:"per_serving"`
	Steps                     []RecipeStepResponse `json:"steps,omitempty"`
	UpdatedAt                 time.Time            `json:"updated_at"`
}

type ConsumptionResponse struct {
	ID                        uuid.UUID            `json:"id"`
	Date                      string               `json:"date"`
	MealType                  string               `json:"meal_type"`
	Comment                   string               `json:"comment"`
	IsNutritionAutoCalculated bool                 `json:"is_nutrition_auto_calculated"`
	Manual                    NutrientsInput       `json:"manual"`
	Totals                    NutrientsResponse    `json:"totals"`
	Items                     []IngredientResponse `json:"items"`
}

type DailySummaryResponse struct {
	Date   string                `json:"date"`
	Meals  []ConsumptionResponse `json:"meals"`
	Totals NutrientsResponse     `json:"totals"`
}

type BodyMetricResponse struct {
	ID    uuid.UUID `json:"id"`
	Date  string    `json:"date"`
	Value float64   `json:"value"`
}

type IntakeBucketResponse struct {
	Start    string  `json:"start"`
	End      string  `json:"end"`
	Calories float64 `json:"calories"`
	Proteins float64 `json:"proteins"`
	Fats     float64 `json:"fats"`
	Carbs    float64 `json:"carbs"`
	Fiber    float64 `json:"fiber"`
	Alcohol  float64 `json:"alcohol"`
	Records  int     `json:"records"`
}

type ValueBucketResponse struct {
	Start   string  `json:"start"`
	End     string  `json:"end"`
	Average float64 `json:"average"`
	Records int     `json:"records"`
}

// TrendResponse is a bucketed time series.
type TrendResponse[B any] struct {
	From             string `json:"from"`
	To               string `json:"to"`
	QuantizationDays int    `json:"quantization_days"`
	Buckets          []B    `json:"buckets"`
}

type ExportResponse struct {
	Key       string    `json:"key"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ListResponse is a page of items.
type ListResponse[T any] struct {
	Items    []T   `json:"items"`
	Total    int64 `json:"total"`
	Page     int   `json:"page"`
	PageSize int   `json:"page_size"`
}
