package controllers

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"catering-quotes-backend/database"
	"catering-quotes-backend/middlewares"
	"catering-quotes-backend/models"
	"catering-quotes-backend/repositories"
	"catering-quotes-backend/services"
	"catering-quotes-backend/utils"
)

type QuoteLineItemInput struct {
	FoodItemID  uint            `json:"food_item_id" validate:"required"`
	Description string          `json:"description"`
	Quantity    int             `json:"quantity" validate:"required,gt=0"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
}

type CreateQuoteInput struct {
	CustomerID       uint                 `json:"customer_id" validate:"required"`
	EventDate        *time.Time           `json:"event_date"`
	VatRate          *decimal.Decimal     `json:"vat_rate"`
	MarkupPercentage *decimal.Decimal     `json:"markup_percentage"`
	Notes            string               `json:"notes"`
	LineItems        []QuoteLineItemInput `json:"line_items" validate:"required,min=1,dive"`
}

type UpdateQuoteInput struct {
	EventDate        *time.Time           `json:"event_date"`
	VatRate          *decimal.Decimal     `json:"vat_rate"`
	MarkupPercentage *decimal.Decimal     `json:"markup_percentage"`
	Notes            *string              `json:"notes"`
	LineItems        []QuoteLineItemInput `json:"line_items" validate:"omitempty,min=1,dive"`
}

type SendQuoteInput struct {
	Email string `json:"email" validate:"required,email"`
}

func GetQuotes(c *fiber.Ctx) error {
	db, err := database.RequestDB(c)
	if err != nil {
		return err
	}

	params := utils.ParsePageParams(c.Query("page"), c.Query("pageSize"))
	status := c.Query("status")
	rawCustomerID := c.QueryInt("customerId")
	if rawCustomerID < 0 {
		return fiber.NewError(fiber.StatusBadRequest, "customerId must not be negative")
	}
	customerID := uint(rawCustomerID)

	store := repositories.NewQuoteStore(db)
	quotes, total, err := store.List(params.Offset(), params.PageSize, status, customerID)
	if err != nil {
		return err
	}

	return c.JSON(utils.NewPaginatedResponse(quotes, total, params))
}

func GetQuote(c *fiber.Ctx) error {
	db, err := database.RequestDB(c)
	if err != nil {
		return err
	}

	quote, err := fetchQuote(c, db)
	if err != nil {
		return err
	}
	return c.JSON(quote)
}

func CreateQuote(c *fiber.Ctx) error {
	var input CreateQuoteInput
	if err := middlewares.BindAndValidate(c, &input); err != nil {
		return err
	}

	db, err := database.RequestDB(c)
	if err != nil {
		return err
	}

	var customer models.Customer
	if err := db.First(&customer, input.CustomerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusBadRequest,
				fmt.Sprintf("customer with ID %d not found", input.CustomerID))
		}
		return err
	}

	settings, err := loadSettings(db)
	if err != nil {
		return err
	}
	vatRate, markup := effectiveRates(settings, input.VatRate, input.MarkupPercentage)

	lineInputs, err := resolveLineItems(db, input.LineItems)
	if err != nil {
		return err
	}

	store := repositories.NewQuoteStore(db)
	svc := services.NewQuoteService(store)

	lines, totalCost, err := svc.PriceLineItems(lineInputs, markup)
	if err != nil {
		return err
	}
	pricing, err := svc.PriceQuote(totalCost, markup, vatRate, settings)
	if err != nil {
		return err
	}
	number, err := svc.GenerateQuoteNumber()
	if err != nil {
		return err
	}

	quote := models.Quote{
		CustomerID:       input.CustomerID,
		QuoteNumber:      number,
		QuoteDate:        time.Now().UTC(),
		EventDate:        input.EventDate,
		Status:           models.StatusDraft,
		VatRate:          vatRate,
		MarkupPercentage: markup,
		TotalCost:        pricing.TotalCost,
		TotalPrice:       pricing.TotalPrice,
		Margin:           pricing.Margin,
		Notes:            input.Notes,
		LineItems:        lines,
	}
	if err := store.Create(&quote); err != nil {
		return err
	}
	quote.Customer = customer

	log.Info().Uint("quote_id", quote.ID).Str("quote_number", quote.QuoteNumber).Msg("quote created")
	return c.Status(fiber.StatusCreated).JSON(quote)
}

func UpdateQuote(c *fiber.Ctx) error {
	var input UpdateQuoteInput
	if err := middlewares.BindAndValidate(c, &input); err != nil {
		return err
	}

	db, err := database.RequestDB(c)
	if err != nil {
		return err
	}

	store := repositories.NewQuoteStore(db)
	svc := services.NewQuoteService(store)

	quote, err := fetchQuote(c, db)
	if err != nil {
		return err
	}
	if err := svc.ValidateQuoteCanBeUpdated(quote); err != nil {
		return err
	}

	if input.EventDate != nil {
		quote.EventDate = input.EventDate
	}
	if input.Notes != nil {
		quote.Notes = *input.Notes
	}
	if input.VatRate != nil {
		quote.VatRate = *input.VatRate
	}
	if input.MarkupPercentage != nil {
		quote.MarkupPercentage = *input.MarkupPercentage
	}

	// Rebuild the lines from the replacement set, or from the stored set
	// when only rates changed, so totals and margin always match the
	// effective rates.
	var lineInputs []services.LineItemInput
	if input.LineItems != nil {
		lineInputs, err = resolveLineItems(db, input.LineItems)
		if err != nil {
			return err
		}
	} else {
		for _, li := range quote.LineItems {
			lineInputs = append(lineInputs, services.LineItemInput{
				FoodItemID:  li.FoodItemID,
				Description: li.Description,
				Quantity:    li.Quantity,
				UnitCost:    li.UnitCost,
			})
		}
	}

	settings, err := loadSettings(db)
	if err != nil {
		return err
	}
	lines, totalCost, err := svc.PriceLineItems(lineInputs, quote.MarkupPercentage)
	if err != nil {
		return err
	}
	pricing, err := svc.PriceQuote(totalCost, quote.MarkupPercentage, quote.VatRate, settings)
	if err != nil {
		return err
	}

	if err := store.ReplaceLineItems(quote); err != nil {
		return err
	}
	for i := range lines {
		lines[i].QuoteID = quote.ID
	}
	quote.LineItems = lines
	quote.TotalCost = pricing.TotalCost
	quote.TotalPrice = pricing.TotalPrice
	quote.Margin = pricing.Margin
	now := time.Now().UTC()
	quote.ModifiedAt = &now

	if err := store.Save(quote); err != nil {
		return err
	}

	log.Info().Uint("quote_id", quote.ID).Msg("quote updated")
	return c.JSON(quote)
}

func DeleteQuote(c *fiber.Ctx) error {
	db, err := database.RequestDB(c)
	if err != nil {
		return err
	}

	store := repositories.NewQuoteStore(db)
	svc := services.NewQuoteService(store)

	quote, err := fetchQuote(c, db)
	if err != nil {
		return err
	}
	if err := svc.ValidateQuoteCanBeDeleted(quote); err != nil {
		return err
	}

	if err := store.Delete(quote); err != nil {
		return err
	}

	log.Info().Uint("quote_id", quote.ID).Msg("quote deleted")
	return c.SendStatus(fiber.StatusNoContent)
}

// SendQuote transitions a Draft quote to Sent and records when. Mail
// delivery itself is handled outside this service.
func SendQuote(c *fiber.Ctx) error {
	var input SendQuoteInput
	if err := middlewares.BindAndValidate(c, &input); err != nil {
		return err
	}

	db, err := database.RequestDB(c)
	if err != nil {
		return err
	}

	store := repositories.NewQuoteStore(db)
	svc := services.NewQuoteService(store)

	quote, err := fetchQuote(c, db)
	if err != nil {
		return err
	}
	if err := svc.ValidateQuoteCanBeSent(quote); err != nil {
		return err
	}

	now := time.Now().UTC()
	quote.Status = models.StatusSent
	quote.SentAt = &now
	quote.ModifiedAt = &now
	if err := db.Model(quote).Updates(map[string]any{
		"status":      quote.Status,
		"sent_at":     quote.SentAt,
		"modified_at": quote.ModifiedAt,
	}).Error; err != nil {
		return err
	}

	log.Info().Uint("quote_id", quote.ID).Str("recipient", input.Email).Msg("quote sent")
	return c.JSON(quote)
}

func fetchQuote(c *fiber.Ctx, db *gorm.DB) (*models.Quote, error) {
	var id uint
	if _, err := fmt.Sscanf(c.Params("id"), "%d", &id); err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "invalid quote ID")
	}
	return repositories.NewQuoteStore(db).GetByID(id)
}

func effectiveRates(settings *models.AppSettings, vatRate, markup *decimal.Decimal) (decimal.Decimal, decimal.Decimal) {
	vat := settings.DefaultVatRate
	if vatRate != nil {
		vat = *vatRate
	}
	m := settings.DefaultMarkupPercentage
	if markup != nil {
		m = *markup
	}
	return vat, m
}

func resolveLineItems(db *gorm.DB, items []QuoteLineItemInput) ([]services.LineItemInput, error) {
	out := make([]services.LineItemInput, 0, len(items))
	for _, li := range items {
		var item models.FoodItem
		if err := db.First(&item, li.FoodItemID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fiber.NewError(fiber.StatusBadRequest,
					fmt.Sprintf("food item with ID %d not found", li.FoodItemID))
			}
			return nil, err
		}
		description := li.Description
		if description == "" {
			description = item.Name
		}
		out = append(out, services.LineItemInput{
			FoodItemID:  li.FoodItemID,
			Description: description,
			Quantity:    li.Quantity,
			UnitCost:    li.UnitCost,
		})
	}
	return out, nil
}
