package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Medicine is a catalog entry available for ordering
type Medicine struct {
	Base
	Name                 string          `json:"name" db:"name"`
	Manufacturer         string          `json:"manufacturer" db:"manufacturer"`
	UnitPrice            decimal.Decimal `json:"unit_price" db:"unit_price"`
	Stock                int             `json:"stock" db:"stock"`
	RequiresPrescription bool            `json:"requires_prescription" db:"requires_prescription"`
}

// CartItem is a single medicine line in a session cart
type CartItem struct {
	MedicineID uuid.UUID       `json:"medicine_id"`
	Name       string          `json:"name,omitempty"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	Quantity   int             `json:"quantity"`
	Stock      int             `json:"-"`
}

// Subtotal is unit price times quantity
func (i CartItem) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// QuoteLine is a priced cart line
type QuoteLine struct {
	MedicineID uuid.UUID       `json:"medicine_id"`
	Name       string          `json:"name,omitempty"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	Quantity   int             `json:"quantity"`
	Subtotal   decimal.Decimal `json:"subtotal"`
}

// Quote is the payable breakdown of a cart for a plan tier
type Quote struct {
	Lines        []QuoteLine     `json:"lines"`
	PlanTier     PlanTier        `json:"plan_tier"`
	DiscountRate decimal.Decimal `json:"discount_rate"`
	Subtotal     decimal.Decimal `json:"subtotal"`
	Discount     decimal.Decimal `json:"discount"`
	Total        decimal.Decimal `json:"total"`
}

type QuoteItemRequest struct {
	MedicineID string `json:"medicine_id" binding:"required,uuid"`
	Quantity   int    `json:"quantity" binding:"min=1"`
}

type QuoteRequest struct {
	Items []QuoteItemRequest `json:"items" binding:"required,min=1,dive"`
}
