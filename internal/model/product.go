package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is the canonical catalog entry after upstream normalization.
// AvailableStock is the last-fetched on-hand quantity; a snapshot, not a live
// value; the server re-validates stock at sale-confirmation time.
type Product struct {
	ID             int64           `json:"id"`
	Code           string          `json:"code"`
	Name           string          `json:"name"`
	Description    string          `json:"description,omitempty"`
	CategoryID     int64           `json:"categoryId"`
	CategoryName   string          `json:"categoryName,omitempty"`
	SalePrice      decimal.Decimal `json:"salePrice"`
	CostPrice      decimal.Decimal `json:"costPrice"`
	AvailableStock int             `json:"availableStock"`
	MinimumStock   int             `json:"minimumStock"`
	Active         bool            `json:"active"`
	ImageURL       string          `json:"imageUrl,omitempty"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

// Category groups products for the catalog filter.
type Category struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Active bool   `json:"active"`
}
