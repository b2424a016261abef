package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Quote statuses. Draft is the only status that permits mutation or deletion.
const (
	StatusDraft     = "Draft"
	StatusSent      = "Sent"
	StatusAccepted  = "Accepted"
	StatusRejected  = "Rejected"
	StatusCompleted = "Completed"
)

// Quote is a catering quote with line items and derived pricing.
// TotalCost/TotalPrice/Margin are always recomputed from the line items
// and the effective markup/VAT rates; they are never set independently.
type Quote struct {
	ID          uint     `json:"id" gorm:"primaryKey"`
	CustomerID  uint     `json:"customer_id" gorm:"not null;index"`
	Customer    Customer `json:"customer" gorm:"foreignKey:CustomerID"`
	QuoteNumber string   `json:"quote_number" gorm:"size:30;uniqueIndex;not null"`

	QuoteDate time.Time  `json:"quote_date"`
	EventDate *time.Time `json:"event_date"`
	Status    string     `json:"status" gorm:"size:20;not null;default:'Draft';index"`

	VatRate          decimal.Decimal `json:"vat_rate" gorm:"type:decimal(5,4);not null"`
	MarkupPercentage decimal.Decimal `json:"markup_percentage" gorm:"type:decimal(6,4);not null"`
	TotalCost        decimal.Decimal `json:"total_cost" gorm:"type:decimal(12,2)"`
	TotalPrice       decimal.Decimal `json:"total_price" gorm:"type:decimal(12,2)"`
	Margin           decimal.Decimal `json:"margin" gorm:"type:decimal(9,6)"`

	Notes     string          `json:"notes"`
	LineItems []QuoteLineItem `json:"line_items" gorm:"foreignKey:QuoteID;constraint:OnDelete:CASCADE"`

	CreatedAt  time.Time  `json:"created_at"`
	ModifiedAt *time.Time `json:"modified_at"`
	SentAt     *time.Time `json:"sent_at"`
}

// QuoteLineItem is one priced food item on a quote.
// UnitPrice and LineTotal carry the markup; UnitCost does not.
type QuoteLineItem struct {
	ID           uint            `json:"id" gorm:"primaryKey"`
	QuoteID      uint            `json:"-" gorm:"index"`
	FoodItemID   uint            `json:"food_item_id" gorm:"not null;index"`
	FoodItem     FoodItem        `json:"-" gorm:"foreignKey:FoodItemID;constraint:OnUpdate:RESTRICT,OnDelete:RESTRICT"`
	Description  string          `json:"description"`
	Quantity     int             `json:"quantity" gorm:"not null"`
	UnitCost     decimal.Decimal `json:"unit_cost" gorm:"type:decimal(12,2)"`
	UnitPrice    decimal.Decimal `json:"unit_price" gorm:"type:decimal(12,4)"`
	LineTotal    decimal.Decimal `json:"line_total" gorm:"type:decimal(12,4)"`
	DisplayOrder int             `json:"display_order" gorm:"not null;default:0"`
}

// QuoteSequence holds the last allocated quote-number sequence value per
// year prefix (e.g. "QT-2026"). Incremented atomically by the quote store.
type QuoteSequence struct {
	Prefix string `gorm:"primaryKey;size:20"`
	Value  int64  `gorm:"not null"`
}
