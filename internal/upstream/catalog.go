package upstream

// catalog.go: Product and category reads, including the normalization adapter
// for the two inventory shapes the backend emits: some endpoints nest stock
// under "inventory", others flatten it next to "productId"/"productCode".
// The adapter maps both into model.Product exactly once, here.

import (
	"context"
	"net/http"
	"time"

	"posmorales/internal/model"

	"github.com/shopspring/decimal"
)

type inventoryPayload struct {
	AvailableStock int `json:"availableStock"`
	MinimumStock   int `json:"minimumStock"`
}

type productPayload struct {
	ID          int64  `json:"id"`
	Code        string `json:"code"`
	Name        string `json:"name"`
	Description string `json:"description"`
	CategoryID  int64  `json:"categoryId"`
	Category    *struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	} `json:"category"`
	SalePrice decimal.Decimal `json:"salePrice"`
	CostPrice decimal.Decimal `json:"costPrice"`
	Active    bool            `json:"active"`
	ImageURL  string          `json:"imageUrl"`
	UpdatedAt time.Time       `json:"updatedAt"`

	// Nested shape
	Inventory *inventoryPayload `json:"inventory"`

	// Flattened shape (inventory endpoints)
	ProductID      *int64  `json:"productId"`
	ProductCode    *string `json:"productCode"`
	AvailableStock *int    `json:"availableStock"`
	MinimumStock   *int    `json:"minimumStock"`
}

// normalize resolves the duck-typed payload into the canonical Product.
func (p productPayload) normalize() model.Product {
	out := model.Product{
		ID:          p.ID,
		Code:        p.Code,
		Name:        p.Name,
		Description: p.Description,
		CategoryID:  p.CategoryID,
		SalePrice:   p.SalePrice,
		CostPrice:   p.CostPrice,
		Active:      p.Active,
		ImageURL:    p.ImageURL,
		UpdatedAt:   p.UpdatedAt,
	}
	if p.Category != nil {
		out.CategoryID = p.Category.ID
		out.CategoryName = p.Category.Name
	}
	if p.ProductID != nil {
		out.ID = *p.ProductID
	}
	if p.ProductCode != nil {
		out.Code = *p.ProductCode
	}
	switch {
	case p.Inventory != nil:
		out.AvailableStock = p.Inventory.AvailableStock
		out.MinimumStock = p.Inventory.MinimumStock
	case p.AvailableStock != nil:
		out.AvailableStock = *p.AvailableStock
		if p.MinimumStock != nil {
			out.MinimumStock = *p.MinimumStock
		}
	}
	return out
}

// Products fetches the full catalog with its inventory snapshot.
func (c *Client) Products(ctx context.Context) ([]model.Product, error) {
	var payloads []productPayload
	if err := c.do(ctx, http.MethodGet, "/products", nil, &payloads); err != nil {
		return nil, err
	}
	products := make([]model.Product, 0, len(payloads))
	for _, p := range payloads {
		products = append(products, p.normalize())
	}
	return products, nil
}

// Categories fetches the category list.
func (c *Client) Categories(ctx context.Context) ([]model.Category, error) {
	var categories []model.Category
	if err := c.do(ctx, http.MethodGet, "/categories", nil, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}
