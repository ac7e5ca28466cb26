package models

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/pageza/nutrilog/backend/internal/nutrition"
)

// Meal types a consumption can be filed under.
const (
	MealBreakfast = "breakfast"
	MealLunch     = "lunch"
	MealDinner    = "dinner"
	MealSnack     = "snack"
	MealOther     = "other"
)

// ValidMealType reports whether m is a known meal type.
func ValidMealType(m string) bool {
	switch m {
	case MealBreakfast, MealLunch, MealDinner, MealSnack, MealOther:
		return true
	}
	return false
}

// Consumption is a logged meal. Item amounts are absolute quantities eaten.
type Consumption struct {
	ID                        uuid.UUID         `gorm:"type:varchar(36);primarykey" json:"id"`
	CreatedAt                 time.Time         `json:"created_at"`
	UpdatedAt                 time.Time         `json:"updated_at"`
	DeletedAt                 gorm.DeletedAt    `gorm:"index" json:"-"`
	UserID                    uuid.UUID         `gorm:"type:varchar(36);not null;index:idx_consumption_user_date" json:"user_id"`
	Date                      datatypes.Date    `gorm:"not null;index:idx_consumption_user_date" json:"date"`
	MealType                  string            `gorm:"size:16;not null" json:"meal_type"`
	Comment                   string            `gorm:"type:text" json:"comment"`
	IsNutritionAutoCalculated bool              `gorm:"not null" json:"is_nutrition_auto_calculated"`
	Manual                    NutrientValues    `gorm:"embedded;embeddedPrefix:manual_" json:"manual"`
	Totals                    NutrientValues    `gorm:"embedded;embeddedPrefix:total_" json:"totals"`
	Items                     []ConsumptionItem `gorm:"foreignKey:ConsumptionID;constraint:OnDelete:CASCADE" json:"items"`
}

// ConsumptionItem is one line of a meal: a product or a number of recipe servings.
type ConsumptionItem struct {
	ID            uuid.UUID  `gorm:"type:varchar(36);primarykey" json:"id"`
	ConsumptionID uuid.UUID  `gorm:"type:varchar(36);not null;index" json:"consumption_id"`
	Position      int        `gorm:"not null" json:"position"`
	ProductID     *uuid.UUID `gorm:"type:varchar(36);index" json:"product_id,omitempty"`
	RecipeID      *uuid.UUID `gorm:"type:varchar(36);index" json:"recipe_id,omitempty"`
	Amount        float64    `gorm:"not null" json:"amount"`
}

func (c *Consumption) BeforeCreate(tx *gorm.DB) error {
	ensureID(&c.ID)
	return nil
}

func (i *ConsumptionItem) BeforeCreate(tx *gorm.DB) error {
	ensureID(&i.ID)
	return nil
}

// Day returns the consumption date.
func (c *Consumption) Day() time.Time {
	return time.Time(c.Date)
}

// SortItems orders items by position.
func (c *Consumption) SortItems() {
	sort.SliceStable(c.Items, func(i, j int) bool { return c.Items[i].Position < c.Items[j].Position })
}

// Ingredients returns the nutrition view of the items.
func (c *Consumption) Ingredients() []nutrition.Ingredient {
	items := make([]nutrition.Ingredient, 0, len(c.Items))
	for _, it := range c.Items {
		items = append(items, ingredientOf(it.ProductID, it.RecipeID, it.Amount))
	}
	return items
}

// Composite returns the reconciler view of the meal.
func (c *Consumption) Composite() nutrition.Composite {
	return nutrition.Composite{
		AutoCalculated: c.IsNutritionAutoCalculated,
		Ingredients:    c.Ingredients(),
		Manual:         c.Manual.Manual(),
		Stored:         c.Totals.Totals(),
	}
}

// ApplyTotals replaces the cached totals.
func (c *Consumption) ApplyTotals(t nutrition.Totals) {
	c.Totals = NutrientValuesOf(t)
}
