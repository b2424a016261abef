package database

import (
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"catering-quotes-backend/models"
)

// Seed inserts reference data (allergens, dietary tags) and the settings
// row if they are missing. Safe to run on every start.
func Seed() error {
	if err := seedAllergens(DB); err != nil {
		return err
	}
	if err := seedDietaryTags(DB); err != nil {
		return err
	}
	return seedAppSettings(DB)
}

// The 14 allergens UK food businesses must declare.
func seedAllergens(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Allergen{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	allergens := []models.Allergen{
		{Code: "CELERY", Name: "Celery"},
		{Code: "CEREALS_GLUTEN", Name: "Cereals containing gluten"},
		{Code: "CRUSTACEANS", Name: "Crustaceans"},
		{Code: "EGGS", Name: "Eggs"},
		{Code: "FISH", Name: "Fish"},
		{Code: "LUPIN", Name: "Lupin"},
		{Code: "MILK", Name: "Milk"},
		{Code: "MOLLUSCS", Name: "Molluscs"},
		{Code: "MUSTARD", Name: "Mustard"},
		{Code: "NUTS", Name: "Tree nuts"},
		{Code: "PEANUTS", Name: "Peanuts"},
		{Code: "SESAME", Name: "Sesame"},
		{Code: "SOYA", Name: "Soya"},
		{Code: "SULPHITES", Name: "Sulphites"},
	}
	for i := range allergens {
		allergens[i].IsActive = true
	}
	log.Info().Int("count", len(allergens)).Msg("seeding allergens")
	return db.Create(&allergens).Error
}

func seedDietaryTags(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.DietaryTag{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	tags := []models.DietaryTag{
		{Code: "VEGAN", Name: "Vegan"},
		{Code: "VEGETARIAN", Name: "Vegetarian"},
		{Code: "GLUTEN_FREE", Name: "Gluten Free"},
		{Code: "DAIRY_FREE", Name: "Dairy Free"},
		{Code: "NUT_FREE", Name: "Nut Free"},
		{Code: "HALAL", Name: "Halal"},
		{Code: "KOSHER", Name: "Kosher"},
	}
	for i := range tags {
		tags[i].IsActive = true
	}
	log.Info().Int("count", len(tags)).Msg("seeding dietary tags")
	return db.Create(&tags).Error
}

func seedAppSettings(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.AppSettings{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	settings := models.AppSettings{
		ID:                      models.SettingsRowID,
		DefaultVatRate:          decimal.RequireFromString("0.20"),
		DefaultMarkupPercentage: decimal.RequireFromString("0.70"),
		MarginGreenThresholdPct: decimal.RequireFromString("0.70"),
		MarginAmberThresholdPct: decimal.RequireFromString("0.60"),
	}
	log.Info().Msg("seeding default settings")
	return db.Create(&settings).Error
}
