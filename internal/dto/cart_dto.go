package dto

import (
	"posmorales/internal/model"

	"github.com/shopspring/decimal"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

type AddItemRequest struct {
	ProductID int64 `json:"product_id" validate:"required,min=1"`
}

type QuantityRequest struct {
	ProductID int64 `json:"product_id" validate:"required,min=1"`
}

type SetDiscountRequest struct {
	Value decimal.Decimal `json:"value" validate:"min=0"`
	Kind  string          `json:"kind"  validate:"required,oneof=percent amount"`
}

// SetCustomerRequest selects the cart's buyer. CustomerID null resets to the
// walk-in identity.
type SetCustomerRequest struct {
	CustomerID *int64 `json:"customer_id"`
}

type SetNotesRequest struct {
	Notes string `json:"notes" validate:"max=500"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

// CartResponse is the cart plus its derived totals, returned by every cart
// mutation so the UI never computes money client-side.
type CartResponse struct {
	Lines     []model.CartLine  `json:"lines"`
	Customer  model.CustomerRef `json:"customer"`
	Discount  model.Discount    `json:"discount"`
	Notes     string            `json:"notes"`
	Totals    model.CartTotals  `json:"totals"`
	TableID   *int64            `json:"table_id"`
	TableName string            `json:"table_name,omitempty"`
}
