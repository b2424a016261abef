package repositories

import (
	"gorm.io/gorm"

	"catering-quotes-backend/models"
)

// QuoteStore is the gorm-backed quote repository. It is constructed per
// request around the request transaction, so sequence allocation and
// quote persistence commit or roll back together.
type QuoteStore struct {
	db *gorm.DB
}

func NewQuoteStore(db *gorm.DB) *QuoteStore {
	return &QuoteStore{db: db}
}

// GetByID loads a quote with its customer and line items in display order.
func (s *QuoteStore) GetByID(id uint) (*models.Quote, error) {
	var quote models.Quote
	err := s.db.
		Preload("Customer").
		Preload("LineItems", func(db *gorm.DB) *gorm.DB {
			return db.Order("display_order ASC")
		}).
		First(&quote, id).Error
	if err != nil {
		return nil, err
	}
	return &quote, nil
}

// List returns one page of quotes, newest quote date first, optionally
// filtered by status and/or customer.
func (s *QuoteStore) List(offset, limit int, status string, customerID uint) ([]models.Quote, int64, error) {
	query := s.db.Model(&models.Quote{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if customerID != 0 {
		query = query.Where("customer_id = ?", customerID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var quotes []models.Quote
	err := query.
		Preload("Customer").
		Preload("LineItems", func(db *gorm.DB) *gorm.DB {
			return db.Order("display_order ASC")
		}).
		Order("quote_date DESC").
		Offset(offset).Limit(limit).
		Find(&quotes).Error
	if err != nil {
		return nil, 0, err
	}
	return quotes, total, nil
}

func (s *QuoteStore) Create(q *models.Quote) error {
	return s.db.Omit("Customer").Create(q).Error
}

// Save persists quote fields and inserts any new (zero-ID) line items.
func (s *QuoteStore) Save(q *models.Quote) error {
	return s.db.Omit("Customer").Save(q).Error
}

// ReplaceLineItems deletes the quote's stored line items; the caller then
// assigns the replacement slice and saves the quote.
func (s *QuoteStore) ReplaceLineItems(q *models.Quote) error {
	return s.db.Where("quote_id = ?", q.ID).Delete(&models.QuoteLineItem{}).Error
}

func (s *QuoteStore) Delete(q *models.Quote) error {
	if err := s.db.Where("quote_id = ?", q.ID).Delete(&models.QuoteLineItem{}).Error; err != nil {
		return err
	}
	return s.db.Delete(q).Error
}

// CountByPrefix counts quotes whose number starts with the given prefix.
// This is the minimal capability the quote-number generator requires.
func (s *QuoteStore) CountByPrefix(prefix string) (int64, error) {
	var count int64
	err := s.db.Model(&models.Quote{}).
		Where("quote_number LIKE ?", prefix+"%").
		Count(&count).Error
	return count, err
}

// NextSequence atomically allocates the next quote-number sequence value
// for a prefix via an upsert on quote_sequences. Running it inside the
// request transaction means a rollback relinquishes the candidate number.
func (s *QuoteStore) NextSequence(prefix string) (int64, error) {
	var value int64
	err := s.db.Raw(`
		INSERT INTO quote_sequences (prefix, value)
		VALUES (?, 1)
		ON CONFLICT (prefix) DO UPDATE SET value = quote_sequences.value + 1
		RETURNING value`, prefix).Scan(&value).Error
	return value, err
}
