package controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"catering-quotes-backend/database"
	"catering-quotes-backend/middlewares"
	"catering-quotes-backend/models"
	"catering-quotes-backend/routes"
)

func setupApp(t *testing.T) *fiber.App {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Customer{}, &models.FoodItem{}, &models.AppSettings{},
		&models.Quote{}, &models.QuoteLineItem{}, &models.QuoteSequence{},
		&models.IdempotencyKey{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	database.DB = db

	settings := models.AppSettings{
		ID:                      models.SettingsRowID,
		DefaultVatRate:          dec(t, "0.20"),
		DefaultMarkupPercentage: dec(t, "0.70"),
		MarginGreenThresholdPct: dec(t, "0.70"),
		MarginAmberThresholdPct: dec(t, "0.60"),
	}
	if err := db.Create(&settings).Error; err != nil {
		t.Fatalf("seed settings: %v", err)
	}

	app := fiber.New(fiber.Config{ErrorHandler: middlewares.ErrorHandler})
	routes.Register(app)
	return app
}

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad decimal %q: %v", s, err)
	}
	return d
}

func seedCustomer(t *testing.T) models.Customer {
	t.Helper()
	c := models.Customer{Name: "Acme Events", Email: fmt.Sprintf("%s@example.com", strings.ToLower(t.Name()))}
	if err := database.DB.Create(&c).Error; err != nil {
		t.Fatalf("seed customer: %v", err)
	}
	return c
}

func seedFoodItem(t *testing.T, name, costPrice string) models.FoodItem {
	t.Helper()
	item := models.FoodItem{Name: name, CostPrice: dec(t, costPrice), IsActive: true}
	if err := database.DB.Create(&item).Error; err != nil {
		t.Fatalf("seed food item: %v", err)
	}
	return item
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any) (*http.Response, []byte) {
	t.Helper()
	return doJSONKeyed(t, app, method, path, body, "")
}

func doJSONKeyed(t *testing.T, app *fiber.App, method, path string, body any, idempotencyKey string) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if idempotencyKey != "" {
		req.Header.Set("Idempotency-Key", idempotencyKey)
	}
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read response: %v", err)
	}
	return resp, raw
}

func decodeQuote(t *testing.T, raw []byte) models.Quote {
	t.Helper()
	var q models.Quote
	if err := json.Unmarshal(raw, &q); err != nil {
		t.Fatalf("decode quote: %v (%s)", err, raw)
	}
	return q
}

func createQuote(t *testing.T, app *fiber.App, customerID, foodItemID uint) models.Quote {
	t.Helper()
	resp, raw := doJSON(t, app, fiber.MethodPost, "/api/v1/quotes", fiber.Map{
		"customer_id": customerID,
		"line_items": []fiber.Map{
			{"food_item_id": foodItemID, "quantity": 4, "unit_cost": 25.00},
		},
	})
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("create quote: status %d (%s)", resp.StatusCode, raw)
	}
	return decodeQuote(t, raw)
}

func TestCreateQuoteAppliesDefaultsAndNumbering(t *testing.T) {
	app := setupApp(t)
	customer := seedCustomer(t)
	item := seedFoodItem(t, "Buffet platter", "25.00")

	quote := createQuote(t, app, customer.ID, item.ID)

	year := time.Now().UTC().Year()
	if want := fmt.Sprintf("QT-%d-001", year); quote.QuoteNumber != want {
		t.Fatalf("quote number = %q, want %q", quote.QuoteNumber, want)
	}
	if quote.Status != models.StatusDraft {
		t.Fatalf("status = %q, want Draft", quote.Status)
	}

	// 4 x 25.00 cost with 0.70 markup and 0.20 VAT.
	if !quote.TotalCost.Equal(dec(t, "100")) {
		t.Fatalf("total cost = %s, want 100", quote.TotalCost)
	}
	if !quote.TotalPrice.Equal(dec(t, "204")) {
		t.Fatalf("total price = %s, want 204", quote.TotalPrice)
	}
	if wantMargin := dec(t, "104").Div(dec(t, "204")); !quote.Margin.Equal(wantMargin) {
		t.Fatalf("margin = %s, want %s", quote.Margin, wantMargin)
	}
	if len(quote.LineItems) != 1 {
		t.Fatalf("expected 1 line item, got %d", len(quote.LineItems))
	}
	if quote.LineItems[0].Description != "Buffet platter" {
		t.Fatalf("description should default to the food item name, got %q", quote.LineItems[0].Description)
	}

	second := createQuote(t, app, customer.ID, item.ID)
	if want := fmt.Sprintf("QT-%d-002", year); second.QuoteNumber != want {
		t.Fatalf("second quote number = %q, want %q", second.QuoteNumber, want)
	}
}

func TestCreateQuoteRejectsUnknownCustomer(t *testing.T) {
	app := setupApp(t)
	item := seedFoodItem(t, "Canapés", "3.50")

	resp, raw := doJSON(t, app, fiber.MethodPost, "/api/v1/quotes", fiber.Map{
		"customer_id": 999,
		"line_items": []fiber.Map{
			{"food_item_id": item.ID, "quantity": 10, "unit_cost": 3.50},
		},
	})
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("status = %d, want 400 (%s)", resp.StatusCode, raw)
	}
	if !strings.Contains(string(raw), "customer with ID 999 not found") {
		t.Fatalf("unexpected error body: %s", raw)
	}
}

func TestSentQuoteIsImmutable(t *testing.T) {
	app := setupApp(t)
	customer := seedCustomer(t)
	item := seedFoodItem(t, "Mains", "12.00")
	quote := createQuote(t, app, customer.ID, item.ID)

	resp, raw := doJSON(t, app, fiber.MethodPost,
		fmt.Sprintf("/api/v1/quotes/%d/send", quote.ID),
		fiber.Map{"email": "client@example.com"})
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("send: status %d (%s)", resp.StatusCode, raw)
	}
	sent := decodeQuote(t, raw)
	if sent.Status != models.StatusSent {
		t.Fatalf("status after send = %q, want Sent", sent.Status)
	}
	if sent.SentAt == nil {
		t.Fatal("sent_at should be set after sending")
	}

	resp, raw = doJSON(t, app, fiber.MethodPut,
		fmt.Sprintf("/api/v1/quotes/%d", quote.ID),
		fiber.Map{"notes": "too late"})
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("update after send: status %d, want 400 (%s)", resp.StatusCode, raw)
	}
	if !strings.Contains(string(raw), "only Draft quotes can be updated") {
		t.Fatalf("unexpected error body: %s", raw)
	}

	resp, raw = doJSON(t, app, fiber.MethodDelete,
		fmt.Sprintf("/api/v1/quotes/%d", quote.ID), nil)
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("delete after send: status %d, want 400 (%s)", resp.StatusCode, raw)
	}

	resp, raw = doJSON(t, app, fiber.MethodPost,
		fmt.Sprintf("/api/v1/quotes/%d/send", quote.ID),
		fiber.Map{"email": "client@example.com"})
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("second send: status %d, want 400 (%s)", resp.StatusCode, raw)
	}
}

func TestSendQuoteRequiresEmail(t *testing.T) {
	app := setupApp(t)
	customer := seedCustomer(t)
	item := seedFoodItem(t, "Dessert", "4.00")
	quote := createQuote(t, app, customer.ID, item.ID)

	resp, raw := doJSON(t, app, fiber.MethodPost,
		fmt.Sprintf("/api/v1/quotes/%d/send", quote.ID),
		fiber.Map{"email": "not-an-email"})
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("status = %d, want 400 (%s)", resp.StatusCode, raw)
	}
}

func TestUpdateDraftRecomputesTotals(t *testing.T) {
	app := setupApp(t)
	customer := seedCustomer(t)
	item := seedFoodItem(t, "Buffet", "25.00")
	quote := createQuote(t, app, customer.ID, item.ID)

	// Rate-only change still recomputes totals against the stored lines.
	resp, raw := doJSON(t, app, fiber.MethodPut,
		fmt.Sprintf("/api/v1/quotes/%d", quote.ID),
		fiber.Map{"markup_percentage": 1.00})
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("update: status %d (%s)", resp.StatusCode, raw)
	}
	updated := decodeQuote(t, raw)
	if !updated.TotalPrice.Equal(dec(t, "240")) {
		t.Fatalf("total price after markup change = %s, want 240", updated.TotalPrice)
	}
	if updated.ModifiedAt == nil {
		t.Fatal("modified_at should be set after update")
	}

	// Replacing the line items replaces, not appends.
	resp, raw = doJSON(t, app, fiber.MethodPut,
		fmt.Sprintf("/api/v1/quotes/%d", quote.ID),
		fiber.Map{
			"line_items": []fiber.Map{
				{"food_item_id": item.ID, "quantity": 2, "unit_cost": 25.00},
				{"food_item_id": item.ID, "quantity": 1, "unit_cost": 10.00},
			},
		})
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("line replace: status %d (%s)", resp.StatusCode, raw)
	}
	updated = decodeQuote(t, raw)
	if len(updated.LineItems) != 2 {
		t.Fatalf("expected 2 line items after replace, got %d", len(updated.LineItems))
	}
	if !updated.TotalCost.Equal(dec(t, "60")) {
		t.Fatalf("total cost after replace = %s, want 60", updated.TotalCost)
	}
}

func TestIdempotencyKeyReplaysStoredResponse(t *testing.T) {
	app := setupApp(t)
	customer := seedCustomer(t)
	item := seedFoodItem(t, "Buffet platter", "25.00")

	body := fiber.Map{
		"customer_id": customer.ID,
		"line_items": []fiber.Map{
			{"food_item_id": item.ID, "quantity": 4, "unit_cost": 25.00},
		},
	}

	resp, raw := doJSONKeyed(t, app, fiber.MethodPost, "/api/v1/quotes", body, "retry-key-1")
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("first request: status %d (%s)", resp.StatusCode, raw)
	}
	first := decodeQuote(t, raw)

	// Retry with the same key and body: the stored response replays and
	// the handler must not run a second time.
	resp, raw = doJSONKeyed(t, app, fiber.MethodPost, "/api/v1/quotes", body, "retry-key-1")
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("retry: status %d (%s)", resp.StatusCode, raw)
	}
	second := decodeQuote(t, raw)
	if second.QuoteNumber != first.QuoteNumber {
		t.Fatalf("retry returned %q, want the stored %q", second.QuoteNumber, first.QuoteNumber)
	}

	var count int64
	if err := database.DB.Model(&models.Quote{}).Count(&count).Error; err != nil {
		t.Fatalf("count quotes: %v", err)
	}
	if count != 1 {
		t.Fatalf("retried create executed twice: %d quotes stored, want 1", count)
	}
}

func TestIdempotencyKeyReuseWithDifferentBodyConflicts(t *testing.T) {
	app := setupApp(t)
	customer := seedCustomer(t)
	item := seedFoodItem(t, "Canapés", "3.50")

	body := fiber.Map{
		"customer_id": customer.ID,
		"line_items": []fiber.Map{
			{"food_item_id": item.ID, "quantity": 10, "unit_cost": 3.50},
		},
	}
	resp, raw := doJSONKeyed(t, app, fiber.MethodPost, "/api/v1/quotes", body, "retry-key-2")
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("first request: status %d (%s)", resp.StatusCode, raw)
	}

	body["line_items"] = []fiber.Map{
		{"food_item_id": item.ID, "quantity": 20, "unit_cost": 3.50},
	}
	resp, raw = doJSONKeyed(t, app, fiber.MethodPost, "/api/v1/quotes", body, "retry-key-2")
	if resp.StatusCode != fiber.StatusConflict {
		t.Fatalf("key reuse with different body: status %d, want 409 (%s)", resp.StatusCode, raw)
	}
}

func TestGetQuotesRejectsNegativeCustomerFilter(t *testing.T) {
	app := setupApp(t)

	resp, raw := doJSON(t, app, fiber.MethodGet, "/api/v1/quotes?customerId=-1", nil)
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("status = %d, want 400 (%s)", resp.StatusCode, raw)
	}
	if !strings.Contains(string(raw), "customerId must not be negative") {
		t.Fatalf("unexpected error body: %s", raw)
	}
}

func TestDeleteDraftQuote(t *testing.T) {
	app := setupApp(t)
	customer := seedCustomer(t)
	item := seedFoodItem(t, "Starters", "6.00")
	quote := createQuote(t, app, customer.ID, item.ID)

	resp, _ := doJSON(t, app, fiber.MethodDelete,
		fmt.Sprintf("/api/v1/quotes/%d", quote.ID), nil)
	if resp.StatusCode != fiber.StatusNoContent {
		t.Fatalf("delete: status %d, want 204", resp.StatusCode)
	}

	resp, _ = doJSON(t, app, fiber.MethodGet,
		fmt.Sprintf("/api/v1/quotes/%d", quote.ID), nil)
	if resp.StatusCode != fiber.StatusNotFound {
		t.Fatalf("get after delete: status %d, want 404", resp.StatusCode)
	}
}
