package controllers

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"catering-quotes-backend/database"
	"catering-quotes-backend/middlewares"
	"catering-quotes-backend/models"
	"catering-quotes-backend/utils"
)

type CreateFoodItemInput struct {
	Name        string          `json:"name" validate:"required"`
	Description string          `json:"description"`
	CostPrice   decimal.Decimal `json:"cost_price"`
	Allergens   *int64          `json:"allergens"`
	DietaryTags *int64          `json:"dietary_tags"`
	IsActive    *bool           `json:"is_active"`
}

type UpdateFoodItemInput struct {
	Name        *string          `json:"name" validate:"omitempty,min=1"`
	Description *string          `json:"description"`
	CostPrice   *decimal.Decimal `json:"cost_price"`
	Allergens   *int64           `json:"allergens"`
	DietaryTags *int64           `json:"dietary_tags"`
	IsActive    *bool            `json:"is_active"`
}

func CreateFoodItem(c *fiber.Ctx) error {
	var input CreateFoodItemInput
	if err := middlewares.BindAndValidate(c, &input); err != nil {
		return err
	}
	if !input.CostPrice.IsPositive() {
		return fiber.NewError(fiber.StatusBadRequest, "cost price must be greater than 0")
	}

	db, err := database.RequestDB(c)
	if err != nil {
		return err
	}

	item := models.FoodItem{
		Name:        strings.TrimSpace(input.Name),
		Description: strings.TrimSpace(input.Description),
		CostPrice:   input.CostPrice,
		Allergens:   input.Allergens,
		DietaryTags: input.DietaryTags,
		IsActive:    true,
	}
	if input.IsActive != nil {
		item.IsActive = *input.IsActive
	}
	if err := db.Create(&item).Error; err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(item)
}

func GetFoodItems(c *fiber.Ctx) error {
	db, err := database.RequestDB(c)
	if err != nil {
		return err
	}

	params := utils.ParsePageParams(c.Query("page"), c.Query("pageSize"))

	query := db.Model(&models.FoodItem{})
	if c.QueryBool("activeOnly") {
		query = query.Where("is_active = ?", true)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var items []models.FoodItem
	if err := query.Order("name ASC").Offset(params.Offset()).Limit(params.PageSize).Find(&items).Error; err != nil {
		return err
	}

	return c.JSON(utils.NewPaginatedResponse(items, total, params))
}

func GetFoodItem(c *fiber.Ctx) error {
	db, err := database.RequestDB(c)
	if err != nil {
		return err
	}

	var item models.FoodItem
	if err := db.First(&item, c.Params("id")).Error; err != nil {
		return err
	}
	return c.JSON(item)
}

func UpdateFoodItem(c *fiber.Ctx) error {
	var input UpdateFoodItemInput
	if err := middlewares.BindAndValidate(c, &input); err != nil {
		return err
	}
	if input.CostPrice != nil && !input.CostPrice.IsPositive() {
		return fiber.NewError(fiber.StatusBadRequest, "cost price must be greater than 0")
	}

	db, err := database.RequestDB(c)
	if err != nil {
		return err
	}

	var item models.FoodItem
	if err := db.First(&item, c.Params("id")).Error; err != nil {
		return err
	}

	updates := utils.UpdatesFromPtrDTO(&input, nil)
	if len(updates) > 0 {
		updates["modified_at"] = time.Now().UTC()
		if err := db.Model(&item).Updates(updates).Error; err != nil {
			return err
		}
	}

	return c.JSON(item)
}

func DeleteFoodItem(c *fiber.Ctx) error {
	db, err := database.RequestDB(c)
	if err != nil {
		return err
	}

	var item models.FoodItem
	if err := db.First(&item, c.Params("id")).Error; err != nil {
		return err
	}

	var refs int64
	if err := db.Model(&models.QuoteLineItem{}).Where("food_item_id = ?", item.ID).Count(&refs).Error; err != nil {
		return err
	}
	if refs > 0 {
		return fiber.NewError(fiber.StatusBadRequest, "food item is referenced by quote line items and cannot be deleted")
	}

	if err := db.Delete(&item).Error; err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
