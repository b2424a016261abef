package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// AppSettings is a single-row table (id=1) of tenant-wide defaults used
// whenever a quote request omits explicit VAT/markup overrides.
// Invariant (enforced at the settings-update boundary): green > amber.
type AppSettings struct {
	ID                      uint            `json:"id" gorm:"primaryKey"`
	DefaultVatRate          decimal.Decimal `json:"default_vat_rate" gorm:"type:decimal(5,4);not null"`
	DefaultMarkupPercentage decimal.Decimal `json:"default_markup_percentage" gorm:"type:decimal(6,4);not null"`
	MarginGreenThresholdPct decimal.Decimal `json:"margin_green_threshold_pct" gorm:"type:decimal(5,4);not null"`
	MarginAmberThresholdPct decimal.Decimal `json:"margin_amber_threshold_pct" gorm:"type:decimal(5,4);not null"`
	CreatedAt               time.Time       `json:"created_at"`
	ModifiedAt              *time.Time      `json:"modified_at"`
}

// SettingsRowID is the fixed primary key of the single settings row.
const SettingsRowID = 1
