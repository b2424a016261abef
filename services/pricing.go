package services

import "github.com/shopspring/decimal"

// MarginStatus is the three-tier margin health classification.
type MarginStatus string

const (
	MarginGreen MarginStatus = "green"
	MarginAmber MarginStatus = "amber"
	MarginRed   MarginStatus = "red"
)

// PricingResult is the immutable output of one quote pricing computation.
type PricingResult struct {
	TotalCost    decimal.Decimal `json:"total_cost"`
	TotalPrice   decimal.Decimal `json:"total_price"`
	Margin       decimal.Decimal `json:"margin"`
	MarginStatus MarginStatus    `json:"margin_status"`
}

var one = decimal.NewFromInt(1)

// PricingService computes monetary totals and margins from cost, markup
// and VAT inputs. Pure arithmetic on decimals; no side effects, no I/O,
// and no rounding — display formatting is a boundary concern.
type PricingService struct{}

func NewPricingService() *PricingService { return &PricingService{} }

// CalculateLineTotal returns unitCost * quantity * (1 + markup).
func (s *PricingService) CalculateLineTotal(unitCost decimal.Decimal, quantity int, markup decimal.Decimal) (decimal.Decimal, error) {
	if unitCost.IsNegative() {
		return decimal.Zero, invalidArgument("unit cost cannot be negative")
	}
	if quantity <= 0 {
		return decimal.Zero, invalidArgument("quantity must be greater than 0")
	}
	if markup.IsNegative() {
		return decimal.Zero, invalidArgument("markup percentage cannot be negative")
	}

	lineCost := unitCost.Mul(decimal.NewFromInt(int64(quantity)))
	return lineCost.Mul(one.Add(markup)), nil
}

// CalculateQuotePricing computes the complete quote pricing:
//
//	priceBeforeVat = totalCost * (1 + markup)
//	vat            = priceBeforeVat * vatRate
//	totalPrice     = priceBeforeVat + vat
//	margin         = (totalPrice - totalCost) / totalPrice  (0 when totalPrice is 0)
//
// totalCost is the sum of unitCost * quantity across line items, without
// markup. All validation happens before any computation.
func (s *PricingService) CalculateQuotePricing(totalCost, markup, vatRate, greenThreshold, amberThreshold decimal.Decimal) (PricingResult, error) {
	if totalCost.IsNegative() {
		return PricingResult{}, invalidArgument("total cost cannot be negative")
	}
	if markup.IsNegative() {
		return PricingResult{}, invalidArgument("markup percentage cannot be negative")
	}
	if vatRate.IsNegative() || vatRate.GreaterThan(one) {
		return PricingResult{}, invalidArgument("VAT rate must be between 0 and 1")
	}

	priceBeforeVat := totalCost.Mul(one.Add(markup))
	vat := priceBeforeVat.Mul(vatRate)
	totalPrice := priceBeforeVat.Add(vat)

	margin := decimal.Zero
	if totalPrice.IsPositive() {
		margin = totalPrice.Sub(totalCost).Div(totalPrice)
	}

	return PricingResult{
		TotalCost:    totalCost,
		TotalPrice:   totalPrice,
		Margin:       margin,
		MarginStatus: DetermineMarginStatus(margin, greenThreshold, amberThreshold),
	}, nil
}

// DetermineMarginStatus maps a margin ratio to green/amber/red.
// Both threshold bounds are inclusive; threshold ordering (green > amber)
// is the caller's responsibility.
func DetermineMarginStatus(margin, greenThreshold, amberThreshold decimal.Decimal) MarginStatus {
	switch {
	case margin.GreaterThanOrEqual(greenThreshold):
		return MarginGreen
	case margin.GreaterThanOrEqual(amberThreshold):
		return MarginAmber
	default:
		return MarginRed
	}
}
