package dto

import "posmorales/internal/model"

// InvoiceFilter is bound from the query string of GET /v1/invoices.
// Partition: active | voided | all; a pure filter over status, not a
// separate fetch.
type InvoiceFilter struct {
	From      string `form:"from"`                      // YYYY-MM-DD; empty = today
	To        string `form:"to"`                        // YYYY-MM-DD; empty = From
	Partition string `form:"partition,default=active"`  // active | voided | all
}

type VoidInvoiceRequest struct {
	Reason string `json:"reason" validate:"required,min=5"`
}

type InvoiceListResponse struct {
	Data  []model.Invoice `json:"data"`
	Total int             `json:"total"`
}

// ─── Dashboard ───────────────────────────────────────────────────────────────

// DashboardResponse is today's sales summary, derived from a date-range
// invoice query. Voided invoices are excluded from the money figures.
type DashboardResponse struct {
	SalesCount  int                `json:"sales_count"`
	VoidedCount int                `json:"voided_count"`
	Subtotal    string             `json:"subtotal"`
	Discounts   string             `json:"discounts"`
	Total       string             `json:"total"`
	TopProducts []TopProductEntry  `json:"top_products"`
	ByMethod    map[string]string  `json:"by_method"`
}

type TopProductEntry struct {
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	Amount    string `json:"amount"`
}
