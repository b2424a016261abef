package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// FoodItem is a catalogue entry that can be added to quotes as a line item.
// Allergens and DietaryTags are bitmasks over the reference-data tables.
type FoodItem struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	Name        string          `json:"name" gorm:"not null"`
	Description string          `json:"description"`
	CostPrice   decimal.Decimal `json:"cost_price" gorm:"type:decimal(12,2);not null"`
	Allergens   *int64          `json:"allergens"`
	DietaryTags *int64          `json:"dietary_tags"`
	IsActive    bool            `json:"is_active" gorm:"default:true"`
	CreatedAt   time.Time       `json:"created_at"`
	ModifiedAt  *time.Time      `json:"modified_at"`
}
