package database

import (
	"fmt"

	"gorm.io/gorm"

	"catering-quotes-backend/models"
)

// Migrate applies (idempotent) schema migrations:
// - AutoMigrate (tables/columns/index tags)
// - Money/ratio column types (NUMERIC)
// - Basic CHECK constraints
// - Backfill of quote_sequences from existing quote numbers
func Migrate() error {
	return DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.AutoMigrate(
			&models.Customer{},
			&models.FoodItem{},
			&models.Quote{},
			&models.QuoteLineItem{},
			&models.QuoteSequence{},
			&models.Allergen{},
			&models.DietaryTag{},
			&models.AppSettings{},
			&models.IdempotencyKey{},
		); err != nil {
			return fmt.Errorf("automigrate failed: %w", err)
		}

		// --- Enforce numeric column types (idempotent ALTERs) ---
		alters := []string{
			`ALTER TABLE food_items       ALTER COLUMN cost_price        TYPE numeric(12,2)`,
			`ALTER TABLE quotes           ALTER COLUMN vat_rate          TYPE numeric(5,4)`,
			`ALTER TABLE quotes           ALTER COLUMN markup_percentage TYPE numeric(6,4)`,
			`ALTER TABLE quotes           ALTER COLUMN total_cost        TYPE numeric(12,2)`,
			`ALTER TABLE quotes           ALTER COLUMN total_price       TYPE numeric(12,2)`,
			`ALTER TABLE quotes           ALTER COLUMN margin            TYPE numeric(9,6)`,
			`ALTER TABLE quote_line_items ALTER COLUMN unit_cost         TYPE numeric(12,2)`,
			`ALTER TABLE quote_line_items ALTER COLUMN unit_price        TYPE numeric(12,4)`,
			`ALTER TABLE quote_line_items ALTER COLUMN line_total        TYPE numeric(12,4)`,
		}
		for _, stmt := range alters {
			if err := tx.Exec(stmt).Error; err != nil {
				return fmt.Errorf("numeric type migration failed on: %s - %w", stmt, err)
			}
		}

		// --- Basic CHECK constraints (idempotent) ---
		checks := []string{
			`DO $$
			BEGIN
				IF NOT EXISTS (
					SELECT 1 FROM pg_constraint
					WHERE conrelid = 'food_items'::regclass
					  AND conname  = 'chk_food_items_cost_price_positive'
				) THEN
					ALTER TABLE food_items
					ADD CONSTRAINT chk_food_items_cost_price_positive
					CHECK (cost_price > 0);
				END IF;
			END $$;`,
			`DO $$
			BEGIN
				IF NOT EXISTS (
					SELECT 1 FROM pg_constraint
					WHERE conrelid = 'quote_line_items'::regclass
					  AND conname  = 'chk_quote_line_items_quantity_positive'
				) THEN
					ALTER TABLE quote_line_items
					ADD CONSTRAINT chk_quote_line_items_quantity_positive
					CHECK (quantity > 0);
				END IF;
			END $$;`,
			`DO $$
			BEGIN
				IF NOT EXISTS (
					SELECT 1 FROM pg_constraint
					WHERE conrelid = 'quotes'::regclass
					  AND conname  = 'chk_quotes_vat_rate_range'
				) THEN
					ALTER TABLE quotes
					ADD CONSTRAINT chk_quotes_vat_rate_range
					CHECK (vat_rate >= 0 AND vat_rate <= 1);
				END IF;
			END $$;`,
		}
		for _, stmt := range checks {
			if err := tx.Exec(stmt).Error; err != nil {
				return fmt.Errorf("check constraint migration failed: %w", err)
			}
		}

		// --- Seed quote_sequences from quote numbers already in the table,
		// so atomic allocation continues where count-based numbering left off.
		backfill := `
			INSERT INTO quote_sequences (prefix, value)
			SELECT left(quote_number, 7), COUNT(*)
			FROM quotes
			WHERE quote_number LIKE 'QT-____-%'
			GROUP BY left(quote_number, 7)
			ON CONFLICT (prefix) DO NOTHING`
		if err := tx.Exec(backfill).Error; err != nil {
			return fmt.Errorf("quote_sequences backfill failed: %w", err)
		}

		return nil
	})
}
