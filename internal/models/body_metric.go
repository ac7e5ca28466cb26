package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// WeightEntry is a body weight in kilograms. A user has at most one per day.
type WeightEntry struct {
	ID        uuid.UUID      `gorm:"type:varchar(36);primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	UserID    uuid.UUID      `gorm:"type:varchar(36);not null;uniqueIndex:idx_weight_user_date" json:"user_id"`
	Date      datatypes.Date `gorm:"not null;uniqueIndex:idx_weight_user_date" json:"date"`
	Value     float64        `gorm:"not null" json:"value"`
}

// WaistEntry is a waist circumference in centimeters. A user has at most one per day.
type WaistEntry struct {
	ID        uuid.UUID      `gorm:"type:varchar(36);primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	UserID    uuid.UUID      `gorm:"type:varchar(36);not null;uniqueIndex:idx_waist_user_date" json:"user_id"`
	Date      datatypes.Date `gorm:"not null;uniqueIndex:idx_waist_user_date" json:"date"`
	Value     float64        `gorm:"not null" json:"value"`
}

func (WeightEntry) TableName() string {
	return "weight_entries"
}

func (WaistEntry) TableName() string {
	return "waist_entries"
}

// Day returns the measurement date.
func (e *WeightEntry) Day() time.Time {
	return time.Time(e.Date)
}

// Day returns the measurement date.
func (e *WaistEntry) Day() time.Time {
	return time.Time(e.Date)
}

func (e *WeightEntry) BeforeCreate(tx *gorm.DB) error {
	ensureID(&e.ID)
	return nil
}

func (e *WaistEntry) BeforeCreate(tx *gorm.DB) error {
	ensureID(&e.ID)
	return nil
}

// All lists every model managed by migrations.
func All() []any {
	return []any{
		&User{},
		&Product{},
		&Recipe{},
		&RecipeStep{},
		&RecipeIngredient{},
		&Consumption{},
		&ConsumptionItem{},
		&WeightEntry{},
		&WaistEntry{},
	}
}
