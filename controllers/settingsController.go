package controllers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"catering-quotes-backend/database"
	"catering-quotes-backend/middlewares"
	"catering-quotes-backend/models"
	"catering-quotes-backend/utils"
)

type UpdateSettingsInput struct {
	DefaultVatRate          *decimal.Decimal `json:"default_vat_rate"`
	DefaultMarkupPercentage *decimal.Decimal `json:"default_markup_percentage"`
	MarginGreenThresholdPct *decimal.Decimal `json:"margin_green_threshold_pct"`
	MarginAmberThresholdPct *decimal.Decimal `json:"margin_amber_threshold_pct"`
}

func GetSettings(c *fiber.Ctx) error {
	db, err := database.RequestDB(c)
	if err != nil {
		return err
	}

	settings, err := loadSettings(db)
	if err != nil {
		return err
	}
	return c.JSON(settings)
}

func UpdateSettings(c *fiber.Ctx) error {
	var input UpdateSettingsInput
	if err := middlewares.BindAndValidate(c, &input); err != nil {
		return err
	}

	one := decimal.NewFromInt(1)
	if input.DefaultVatRate != nil && (input.DefaultVatRate.IsNegative() || input.DefaultVatRate.GreaterThan(one)) {
		return fiber.NewError(fiber.StatusBadRequest, "VAT rate must be between 0 and 1")
	}
	if input.DefaultMarkupPercentage != nil && input.DefaultMarkupPercentage.IsNegative() {
		return fiber.NewError(fiber.StatusBadRequest, "markup percentage must be greater than or equal to 0")
	}
	for _, t := range []*decimal.Decimal{input.MarginGreenThresholdPct, input.MarginAmberThresholdPct} {
		if t != nil && (t.IsNegative() || t.GreaterThan(one)) {
			return fiber.NewError(fiber.StatusBadRequest, "margin thresholds must be between 0 and 1")
		}
	}

	db, err := database.RequestDB(c)
	if err != nil {
		return err
	}

	settings, err := loadSettings(db)
	if err != nil {
		return err
	}

	// The resulting pair must keep green strictly above amber, or the
	// classifier's amber tier becomes unreachable.
	green := settings.MarginGreenThresholdPct
	if input.MarginGreenThresholdPct != nil {
		green = *input.MarginGreenThresholdPct
	}
	amber := settings.MarginAmberThresholdPct
	if input.MarginAmberThresholdPct != nil {
		amber = *input.MarginAmberThresholdPct
	}
	if !green.GreaterThan(amber) {
		return fiber.NewError(fiber.StatusBadRequest, "green threshold must be greater than amber threshold")
	}

	updates := utils.UpdatesFromPtrDTO(&input, nil)
	if len(updates) > 0 {
		updates["modified_at"] = time.Now().UTC()
		if err := db.Model(settings).Updates(updates).Error; err != nil {
			return err
		}
	}

	return c.JSON(settings)
}

func loadSettings(db *gorm.DB) (*models.AppSettings, error) {
	var settings models.AppSettings
	if err := db.First(&settings, models.SettingsRowID).Error; err != nil {
		return nil, err
	}
	return &settings, nil
}
