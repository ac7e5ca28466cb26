package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pageza/nutrilog/backend/internal/nutrition"
)

// Units a product amount can be measured in.
const (
	UnitGram       = "g"
	UnitMilliliter = "ml"
	UnitPiece      = "pcs"
)

// ValidUnit reports whether u is a known product unit.
func ValidUnit(u string) bool {
	switch u {
	case UnitGram, UnitMilliliter, UnitPiece:
		return true
	}
	return false
}

// Product is a catalog food with its nutrition per BaseAmount units.
// Shared products are visible to every user.
type Product struct {
	ID              uuid.UUID      `gorm:"type:varchar(36);primarykey" json:"id"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
	UserID          uuid.UUID      `gorm:"type:varchar(36);not null;index" json:"user_id"`
	Name            string         `gorm:"size:255;not null;index" json:"name"`
	Unit            string         `gorm:"size:8;not null" json:"unit"`
	BaseAmount      float64        `gorm:"not null" json:"base_amount"`
	CaloriesPerBase float64        `gorm:"not null" json:"calories_per_base"`
	ProteinsPerBase float64        `gorm:"not null" json:"proteins_per_base"`
	FatsPerBase     float64        `gorm:"not null" json:"fats_per_base"`
	CarbsPerBase    float64        `gorm:"not null" json:"carbs_per_base"`
	FiberPerBase    float64        `gorm:"not null" json:"fiber_per_base"`
	AlcoholPerBase  float64        `gorm:"not null" json:"alcohol_per_base"`
	IsShared        bool           `gorm:"not null;index" json:"is_shared"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	ensureID(&p.ID)
	return nil
}

// ToNutrition returns the nutrition profile of the product.
func (p *Product) ToNutrition() nutrition.Product {
	return nutrition.Product{
		ID:         p.ID,
		BaseAmount: p.BaseAmount,
		PerBase: nutrition.Totals{
			Calories: p.CaloriesPerBase,
			Proteins: p.ProteinsPerBase,
			Fats:     p.FatsPerBase,
			Carbs:    p.CarbsPerBase,
			Fiber:    p.FiberPerBase,
			Alcohol:  p.AlcoholPerBase,
		},
	}
}

// VisibleTo reports whether userID may reference the product.
func (p *Product) VisibleTo(userID uuid.UUID) bool {
	return p.IsShared || p.UserID == userID
}
