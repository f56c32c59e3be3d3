package dto

import (
	"posmorales/internal/model"

	"github.com/shopspring/decimal"
)

// CheckoutRequest confirms the in-progress sale. For EFECTIVO the handler
// validates amount_received >= cart total before any network call; for other
// methods amount_received is ignored and the total is sent instead.
type CheckoutRequest struct {
	PaymentMethod  string          `json:"payment_method"  validate:"required,oneof=EFECTIVO TARJETA_CREDITO TARJETA_DEBITO TRANSFERENCIA QR"`
	AmountReceived decimal.Decimal `json:"amount_received" validate:"min=0"`
	CustomerEmail  string          `json:"customer_email"  validate:"omitempty,email"`
}

// SelectTableRequest attaches (or detaches, with null) a table to the sale.
type SelectTableRequest struct {
	TableID *int64 `json:"table_id"`
}

// CheckoutResponse carries the authoritative invoice fetched after the sale
// plus the cash change, ready for the confirmation/print step.
type CheckoutResponse struct {
	Invoice *model.Invoice  `json:"invoice"`
	Change  decimal.Decimal `json:"change"`
}

// CheckoutFailure is returned when a multi-step table checkout fails after at
// least one step already committed server-side. CompletedSteps names what the
// server has already applied and Table is the refetched current state, so the
// UI can offer "retry payment" instead of a generic error.
type CheckoutFailure struct {
	Detail         string                 `json:"detail"`
	CompletedSteps []string               `json:"completed_steps"`
	FailedStep     string                 `json:"failed_step"`
	Table          *model.RestaurantTable `json:"table,omitempty"`
	Retryable      bool                   `json:"retryable"`
}

// ResumePaymentRequest retries the pay step of a partially committed table
// checkout (items already added, payment failed).
type ResumePaymentRequest struct {
	TableID        int64           `json:"table_id"        validate:"required,min=1"`
	PaymentMethod  string          `json:"payment_method"  validate:"required,oneof=EFECTIVO TARJETA_CREDITO TARJETA_DEBITO TRANSFERENCIA QR"`
	AmountReceived decimal.Decimal `json:"amount_received" validate:"min=0"`
}
