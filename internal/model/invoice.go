package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Invoice estados; the server owns the transition, the client only mirrors it.
const (
	InvoiceCompleted = "COMPLETADA"
	InvoiceVoided    = "ANULADA"
)

// Payment methods accepted at checkout. EFECTIVO is the only method that
// requires amountReceived >= total and produces change.
const (
	PaymentCash       = "EFECTIVO"
	PaymentCredit     = "TARJETA_CREDITO"
	PaymentDebit      = "TARJETA_DEBITO"
	PaymentTransfer   = "TRANSFERENCIA"
	PaymentQR         = "QR"
)

// Invoice is the authoritative sales ledger entry, immutable once created
// except for the void transition (status + audit fields only).
type Invoice struct {
	ID              int64           `json:"id"`
	InvoiceNumber   string          `json:"invoiceNumber"`
	CustomerID      *int64          `json:"customerId"`
	CustomerName    string          `json:"customerName"`
	Details         []InvoiceDetail `json:"details"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	DiscountPercent decimal.Decimal `json:"discountPercent"`
	DiscountAmount  decimal.Decimal `json:"discountAmount"`
	Total           decimal.Decimal `json:"total"`
	PaymentMethod   string          `json:"paymentMethod"`
	AmountReceived  decimal.Decimal `json:"amountReceived"`
	Change          decimal.Decimal `json:"change"`
	Notes           string          `json:"notes,omitempty"`
	Status          string          `json:"status"`
	CreatedBy       string          `json:"createdBy,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`

	// Void audit; set only when Status == ANULADA
	VoidedBy   string     `json:"voidedBy,omitempty"`
	VoidedAt   *time.Time `json:"voidedAt,omitempty"`
	VoidReason string     `json:"voidReason,omitempty"`
}

// InvoiceDetail is one sold line.
type InvoiceDetail struct {
	ID             int64           `json:"id"`
	ProductID      int64           `json:"productId"`
	ProductCode    string          `json:"productCode,omitempty"`
	ProductName    string          `json:"productName"`
	Quantity       int             `json:"quantity"`
	UnitPrice      decimal.Decimal `json:"unitPrice"`
	DiscountAmount decimal.Decimal `json:"discountAmount"`
	Subtotal       decimal.Decimal `json:"subtotal"`
}

// IsVoided reports whether the invoice has been voided.
func (i *Invoice) IsVoided() bool { return i.Status == InvoiceVoided }
