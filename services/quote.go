package services

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"catering-quotes-backend/models"
)

// QuoteCounter counts stored quotes whose quote number starts with the
// given prefix. This is the only capability the number generator requires
// from quote storage.
type QuoteCounter interface {
	CountByPrefix(prefix string) (int64, error)
}

// QuoteSequencer is an optional upgrade of QuoteCounter: the store
// allocates the next sequence value for a prefix atomically, so two
// concurrent creations can never observe the same candidate number.
// Stores that implement it must allocate inside the caller's transaction
// so a rollback relinquishes the value.
type QuoteSequencer interface {
	NextSequence(prefix string) (int64, error)
}

// LineItemInput is one requested quote line before pricing.
type LineItemInput struct {
	FoodItemID  uint
	Description string
	Quantity    int
	UnitCost    decimal.Decimal
}

// QuoteService owns quote numbering, the Draft-only lifecycle rules and
// line-item assembly.
type QuoteService struct {
	store   QuoteCounter
	pricing *PricingService

	now func() time.Time // test hook
}

func NewQuoteService(store QuoteCounter) *QuoteService {
	return &QuoteService{
		store:   store,
		pricing: NewPricingService(),
		now:     time.Now,
	}
}

// GenerateQuoteNumber produces the next quote number for the current UTC
// year, formatted QT-<year>-<seq> with the sequence zero-padded to three
// digits (unpadded past 999). When the store can allocate sequence values
// atomically that path is preferred; otherwise the next value is the
// prefix count + 1. Store errors propagate unchanged.
func (s *QuoteService) GenerateQuoteNumber() (string, error) {
	prefix := fmt.Sprintf("QT-%d", s.now().UTC().Year())

	if seq, ok := s.store.(QuoteSequencer); ok {
		n, err := seq.NextSequence(prefix)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s-%03d", prefix, n), nil
	}

	count, err := s.store.CountByPrefix(prefix)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s-%03d", prefix, count+1), nil
}

// ValidateQuoteCanBeUpdated enforces that only Draft quotes may be updated.
func (s *QuoteService) ValidateQuoteCanBeUpdated(q *models.Quote) error {
	if q.Status != models.StatusDraft {
		return domainRule("only Draft quotes can be updated; this quote status is '%s'", q.Status)
	}
	return nil
}

// ValidateQuoteCanBeDeleted enforces that only Draft quotes may be deleted.
func (s *QuoteService) ValidateQuoteCanBeDeleted(q *models.Quote) error {
	if q.Status != models.StatusDraft {
		return domainRule("only Draft quotes can be deleted; this quote status is '%s'", q.Status)
	}
	return nil
}

// ValidateQuoteCanBeSent enforces that only Draft quotes may be sent.
func (s *QuoteService) ValidateQuoteCanBeSent(q *models.Quote) error {
	if q.Status != models.StatusDraft {
		return domainRule("only Draft quotes can be sent; this quote status is '%s'", q.Status)
	}
	return nil
}

// PriceLineItems turns requested lines into priced QuoteLineItems and
// returns them with the raw total cost (no markup). Display order is
// assigned in request order, starting at 1.
func (s *QuoteService) PriceLineItems(items []LineItemInput, markup decimal.Decimal) ([]models.QuoteLineItem, decimal.Decimal, error) {
	out := make([]models.QuoteLineItem, 0, len(items))
	totalCost := decimal.Zero

	for i, item := range items {
		lineTotal, err := s.pricing.CalculateLineTotal(item.UnitCost, item.Quantity, markup)
		if err != nil {
			return nil, decimal.Zero, err
		}
		qty := decimal.NewFromInt(int64(item.Quantity))

		out = append(out, models.QuoteLineItem{
			FoodItemID:   item.FoodItemID,
			Description:  item.Description,
			Quantity:     item.Quantity,
			UnitCost:     item.UnitCost,
			UnitPrice:    lineTotal.Div(qty),
			LineTotal:    lineTotal,
			DisplayOrder: i + 1,
		})
		totalCost = totalCost.Add(item.UnitCost.Mul(qty))
	}

	return out, totalCost, nil
}

// PriceQuote computes the quote-level totals for a raw total cost.
func (s *QuoteService) PriceQuote(totalCost, markup, vatRate decimal.Decimal, settings *models.AppSettings) (PricingResult, error) {
	return s.pricing.CalculateQuotePricing(
		totalCost, markup, vatRate,
		settings.MarginGreenThresholdPct, settings.MarginAmberThresholdPct)
}
