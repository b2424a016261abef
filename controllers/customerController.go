package controllers

import (
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"catering-quotes-backend/database"
	"catering-quotes-backend/middlewares"
	"catering-quotes-backend/models"
	"catering-quotes-backend/utils"
)

type CreateCustomerInput struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone"`
	Company string `json:"company"`
}

type UpdateCustomerInput struct {
	Name    *string `json:"name" validate:"omitempty,min=1"`
	Email   *string `json:"email" validate:"omitempty,email"`
	Phone   *string `json:"phone"`
	Company *string `json:"company"`
}

func CreateCustomer(c *fiber.Ctx) error {
	var input CreateCustomerInput
	if err := middlewares.BindAndValidate(c, &input); err != nil {
		return err
	}

	db, err := database.RequestDB(c)
	if err != nil {
		return err
	}

	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.TrimSpace(input.Email)

	if err := ensureEmailUnique(db, input.Email, 0); err != nil {
		return err
	}

	customer := models.Customer{
		Name:    input.Name,
		Email:   input.Email,
		Phone:   input.Phone,
		Company: input.Company,
	}
	if err := db.Create(&customer).Error; err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(customer)
}

func GetCustomers(c *fiber.Ctx) error {
	db, err := database.RequestDB(c)
	if err != nil {
		return err
	}

	params := utils.ParsePageParams(c.Query("page"), c.Query("pageSize"))

	var total int64
	if err := db.Model(&models.Customer{}).Count(&total).Error; err != nil {
		return err
	}

	var customers []models.Customer
	if err := db.Order("name ASC").Offset(params.Offset()).Limit(params.PageSize).Find(&customers).Error; err != nil {
		return err
	}

	return c.JSON(utils.NewPaginatedResponse(customers, total, params))
}

func GetCustomer(c *fiber.Ctx) error {
	db, err := database.RequestDB(c)
	if err != nil {
		return err
	}

	var customer models.Customer
	if err := db.First(&customer, c.Params("id")).Error; err != nil {
		return err // ErrRecordNotFound maps to 404
	}
	return c.JSON(customer)
}

func UpdateCustomer(c *fiber.Ctx) error {
	var input UpdateCustomerInput
	if err := middlewares.BindAndValidate(c, &input); err != nil {
		return err
	}

	db, err := database.RequestDB(c)
	if err != nil {
		return err
	}

	var customer models.Customer
	if err := db.First(&customer, c.Params("id")).Error; err != nil {
		return err
	}

	if input.Email != nil {
		trimmed := strings.TrimSpace(*input.Email)
		input.Email = &trimmed
		if err := ensureEmailUnique(db, trimmed, customer.ID); err != nil {
			return err
		}
	}

	updates := utils.UpdatesFromPtrDTO(&input, nil)
	if len(updates) > 0 {
		updates["modified_at"] = time.Now().UTC()
		if err := db.Model(&customer).Updates(updates).Error; err != nil {
			return err
		}
	}

	return c.JSON(customer)
}

func DeleteCustomer(c *fiber.Ctx) error {
	db, err := database.RequestDB(c)
	if err != nil {
		return err
	}

	var customer models.Customer
	if err := db.First(&customer, c.Params("id")).Error; err != nil {
		return err
	}

	var quotes int64
	if err := db.Model(&models.Quote{}).Where("customer_id = ?", customer.ID).Count(&quotes).Error; err != nil {
		return err
	}
	if quotes > 0 {
		return fiber.NewError(fiber.StatusBadRequest,
			fmt.Sprintf("customer has %d quotes and cannot be deleted", quotes))
	}

	if err := db.Delete(&customer).Error; err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func ensureEmailUnique(db *gorm.DB, email string, excludeID uint) error {
	query := db.Model(&models.Customer{}).Where("LOWER(email) = LOWER(?)", email)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return fiber.NewError(fiber.StatusBadRequest, "a customer with this email already exists")
	}
	return nil
}
