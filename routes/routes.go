package routes

import (
	"github.com/gofiber/fiber/v2"

	"catering-quotes-backend/controllers"
	"catering-quotes-backend/middlewares"
)

// Register wires all HTTP routes.
func Register(app *fiber.App) {
	api := app.Group("/api/v1")

	// Idempotency guard FIRST (not tied to the request TX)
	api.Use(middlewares.Idempotency())

	// Then the per-request transaction (commits on success, rolls back on error)
	api.Use(middlewares.RequestTx())

	// Customers
	api.Post("/customers", controllers.CreateCustomer)
	api.Get("/customers", controllers.GetCustomers)
	api.Get("/customers/:id", controllers.GetCustomer)
	api.Put("/customers/:id", controllers.UpdateCustomer)
	api.Delete("/customers/:id", controllers.DeleteCustomer)

	// Food items
	api.Post("/food-items", controllers.CreateFoodItem)
	api.Get("/food-items", controllers.GetFoodItems)
	api.Get("/food-items/:id", controllers.GetFoodItem)
	api.Put("/food-items/:id", controllers.UpdateFoodItem)
	api.Delete("/food-items/:id", controllers.DeleteFoodItem)

	// Quotes
	api.Post("/quotes", controllers.CreateQuote)
	api.Get("/quotes", controllers.GetQuotes)
	api.Get("/quotes/:id", controllers.GetQuote)
	api.Put("/quotes/:id", controllers.UpdateQuote)
	api.Delete("/quotes/:id", controllers.DeleteQuote)
	api.Post("/quotes/:id/send", controllers.SendQuote)

	// Settings (single row)
	api.Get("/settings", controllers.GetSettings)
	api.Put("/settings", controllers.UpdateSettings)

	// Reference data
	api.Get("/allergens", controllers.GetAllergens)
	api.Get("/dietary-tags", controllers.GetDietaryTags)
}
