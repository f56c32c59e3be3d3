package upstream

import (
	"context"
	"fmt"
	"net/http"

	"posmorales/internal/model"

	"github.com/shopspring/decimal"
)

// SaleDetail is one line of a direct-sale request.
type SaleDetail struct {
	ProductID      int64           `json:"productId"`
	Quantity       int             `json:"quantity"`
	UnitPrice      decimal.Decimal `json:"unitPrice"`
	DiscountAmount decimal.Decimal `json:"discountAmount"`
}

// CreateSaleRequest is the POST /invoices payload for a direct (no table)
// sale. DiscountPercent is the cart-level percentage; line discounts ride on
// the details.
type CreateSaleRequest struct {
	CustomerID      *int64          `json:"customerId"`
	PaymentMethod   string          `json:"paymentMethod"`
	DiscountPercent decimal.Decimal `json:"discountPercent"`
	AmountReceived  decimal.Decimal `json:"amountReceived"`
	Notes           string          `json:"notes"`
	Details         []SaleDetail    `json:"details"`
}

// CreatedInvoiceRef is what POST /invoices is guaranteed to return. The full
// invoice (details, customer, totals) must be re-fetched by id; the create
// response is never assumed to carry it.
type CreatedInvoiceRef struct {
	ID            int64  `json:"id"`
	InvoiceNumber string `json:"invoiceNumber"`
}

// CreateSale posts a direct sale and returns the new invoice reference.
func (c *Client) CreateSale(ctx context.Context, req CreateSaleRequest) (*CreatedInvoiceRef, error) {
	var ref CreatedInvoiceRef
	if err := c.do(ctx, http.MethodPost, "/invoices", req, &ref); err != nil {
		return nil, err
	}
	return &ref, nil
}

// InvoiceByID fetches the full invoice for display/printing.
func (c *Client) InvoiceByID(ctx context.Context, id int64) (*model.Invoice, error) {
	var inv model.Invoice
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/invoices/%d", id), nil, &inv); err != nil {
		return nil, err
	}
	return &inv, nil
}

// InvoicesByRange fetches invoices in a closed date range (YYYY-MM-DD).
func (c *Client) InvoicesByRange(ctx context.Context, from, to string) ([]model.Invoice, error) {
	path := fmt.Sprintf("/invoices?from=%s&to=%s", from, to)
	var invoices []model.Invoice
	if err := c.do(ctx, http.MethodGet, path, nil, &invoices); err != nil {
		return nil, err
	}
	return invoices, nil
}

type voidRequest struct {
	Reason string `json:"reason"`
}

// VoidInvoice flips the invoice to ANULADA with audit fields set. The server
// rejects a second void on an already-voided invoice; that rejection is
// returned as an *Error, never swallowed.
func (c *Client) VoidInvoice(ctx context.Context, id int64, reason string) (*model.Invoice, error) {
	var inv model.Invoice
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/invoices/%d/void", id), voidRequest{Reason: reason}, &inv); err != nil {
		return nil, err
	}
	return &inv, nil
}
