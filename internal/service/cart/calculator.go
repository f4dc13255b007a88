package cart

import (
	"github.com/shopspring/decimal"

	"github.com/jwalitptl/care-portal-api/internal/model"
	apperrors "github.com/jwalitptl/care-portal-api/pkg/errors"
)

var (
	hundred = decimal.NewFromInt(100)

	discountRates = map[model.PlanTier]decimal.Decimal{
		model.PlanBasic:     decimal.Zero,
		model.PlanClassic:   decimal.NewFromInt(10),
		model.PlanPremium:   decimal.NewFromInt(15),
		model.PlanExecutive: decimal.NewFromInt(20),
	}

	// unknownTierRate applies to tiers outside the enum
	unknownTierRate = decimal.NewFromInt(20)
)

// DiscountRate returns the percentage discount for a plan tier
func DiscountRate(tier model.PlanTier) decimal.Decimal {
	if rate, ok := discountRates[tier]; ok {
		return rate
	}
	return unknownTierRate
}

// Calculate prices the cart for the given tier. Invalid items are reported,
// never clamped. Amounts are rounded to two decimal places.
func Calculate(items []model.CartItem, tier model.PlanTier) (*model.Quote, error) {
	quote := &model.Quote{
		Lines:    make([]model.QuoteLine, 0, len(items)),
		PlanTier: tier,
	}

	subtotal := decimal.Zero
	for _, item := range items {
		if err := validateItem(item); err != nil {
			return nil, err
		}
		line := item.Subtotal()
		quote.Lines = append(quote.Lines, model.QuoteLine{
			MedicineID: item.MedicineID,
			Name:       item.Name,
			UnitPrice:  item.UnitPrice,
			Quantity:   item.Quantity,
			Subtotal:   line.Round(2),
		})
		subtotal = subtotal.Add(line)
	}

	rate := DiscountRate(tier)
	discount := subtotal.Mul(rate).Div(hundred).Round(2)
	subtotal = subtotal.Round(2)

	quote.DiscountRate = rate
	quote.Subtotal = subtotal
	quote.Discount = discount
	quote.Total = subtotal.Sub(discount)
	return quote, nil
}

func validateItem(item model.CartItem) error {
	label := item.Name
	if label == "" {
		label = item.MedicineID.String()
	}
	switch {
	case item.Quantity < 1:
		return apperrors.Validationf("quantity for %s must be at least 1", label)
	case item.Quantity > item.Stock:
		return apperrors.Validationf("only %d of %s in stock", item.Stock, label)
	case !item.UnitPrice.IsPositive():
		return apperrors.Validationf("price for %s must be positive", label)
	}
	return nil
}
