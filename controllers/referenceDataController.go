package controllers

import (
	"github.com/gofiber/fiber/v2"

	"catering-quotes-backend/database"
	"catering-quotes-backend/models"
)

func GetAllergens(c *fiber.Ctx) error {
	db, err := database.RequestDB(c)
	if err != nil {
		return err
	}

	var allergens []models.Allergen
	if err := db.Where("is_active = ?", true).Order("name ASC").Find(&allergens).Error; err != nil {
		return err
	}
	return c.JSON(allergens)
}

func GetDietaryTags(c *fiber.Ctx) error {
	db, err := database.RequestDB(c)
	if err != nil {
		return err
	}

	var tags []models.DietaryTag
	if err := db.Where("is_active = ?", true).Order("name ASC").Find(&tags).Error; err != nil {
		return err
	}
	return c.JSON(tags)
}
