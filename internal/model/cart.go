package model

import (
	"github.com/shopspring/decimal"
)

// Discount kinds. Percent applies value as a percentage of the subtotal;
// Amount subtracts a fixed value. Either way the resulting discount is clamped
// to [0, subtotal] so the total can never go negative.
const (
	DiscountPercent = "percent"
	DiscountAmount  = "amount"
)

// Discount is the cart-level discount configuration.
type Discount struct {
	Value decimal.Decimal `json:"value"`
	Kind  string          `json:"kind"` // percent | amount
}

// CartLine is one selected product. Unique by ProductID within a cart; the
// unit price is snapshotted when the line is created and never re-read from
// the catalog, so later price changes do not alter an in-progress sale.
type CartLine struct {
	ProductID int64           `json:"productId"`
	Code      string          `json:"code"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Quantity  int             `json:"quantity"`
}

// Subtotal is UnitPrice × Quantity.
func (l CartLine) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart is the in-progress sale. All operations are synchronous and total:
// guarding against overselling is the caller's job (see CanAdd), and quantity
// adjustments that would reach zero remove the line instead.
type Cart struct {
	Lines       []CartLine  `json:"lines"`
	CustomerRef CustomerRef `json:"customer"`
	Discount    Discount    `json:"discount"`
	Notes       string      `json:"notes"`
}

// NewCart returns an empty cart for a walk-in customer.
func NewCart() *Cart {
	return &Cart{CustomerRef: WalkIn(), Discount: Discount{Kind: DiscountPercent}}
}

// AddItem increments the existing line for the product or appends a new line
// with quantity 1, snapshotting the product's current sale price.
func (c *Cart) AddItem(p *Product) {
	for i := range c.Lines {
		if c.Lines[i].ProductID == p.ID {
			c.Lines[i].Quantity++
			return
		}
	}
	c.Lines = append(c.Lines, CartLine{
		ProductID: p.ID,
		Code:      p.Code,
		Name:      p.Name,
		UnitPrice: p.SalePrice,
		Quantity:  1,
	})
}

// IncrementQuantity adds 1 to the line's quantity. The cart itself enforces no
// upper bound; the stock guard is a separate pre-dispatch check.
func (c *Cart) IncrementQuantity(productID int64) {
	for i := range c.Lines {
		if c.Lines[i].ProductID == productID {
			c.Lines[i].Quantity++
			return
		}
	}
}

// DecrementQuantity subtracts 1; reaching zero removes the line entirely, so a
// persisted line always has quantity >= 1.
func (c *Cart) DecrementQuantity(productID int64) {
	for i := range c.Lines {
		if c.Lines[i].ProductID != productID {
			continue
		}
		if c.Lines[i].Quantity <= 1 {
			c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
		} else {
			c.Lines[i].Quantity--
		}
		return
	}
}

// RemoveItem deletes the line unconditionally.
func (c *Cart) RemoveItem(productID int64) {
	for i := range c.Lines {
		if c.Lines[i].ProductID == productID {
			c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
			return
		}
	}
}

// Clear empties the lines and resets discount and notes. The selected customer
// survives an explicit clear; only the cancel flow resets it.
func (c *Cart) Clear() {
	c.Lines = nil
	c.Discount = Discount{Kind: DiscountPercent}
	c.Notes = ""
}

// SetCustomer selects a concrete customer, or resets to the walk-in identity
// when nil is passed. ID and display name always change together.
func (c *Cart) SetCustomer(customer *Customer) {
	if customer == nil {
		c.CustomerRef = WalkIn()
		return
	}
	c.CustomerRef = RefTo(customer)
}

// QuantityOf returns the cart quantity for a product, 0 when absent.
func (c *Cart) QuantityOf(productID int64) int {
	for _, l := range c.Lines {
		if l.ProductID == productID {
			return l.Quantity
		}
	}
	return 0
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool { return len(c.Lines) == 0 }

// CanAdd is the client-side stock guard: true iff one more unit of the product
// fits within the last-fetched on-hand stock. It is a heuristic to avoid
// obviously-futile submissions, not the source of truth; the server performs
// the authoritative check at confirmation time.
func (c *Cart) CanAdd(p *Product) bool {
	return p.AvailableStock-c.QuantityOf(p.ID) > 0
}

// CartTotals is the derived state of a cart, recomputed on every read and
// never stored.
type CartTotals struct {
	Subtotal       decimal.Decimal `json:"subtotal"`
	DiscountAmount decimal.Decimal `json:"discountAmount"`
	Total          decimal.Decimal `json:"total"`
	ItemCount      int             `json:"itemCount"`
}

var oneHundred = decimal.NewFromInt(100)

// Totals computes subtotal, clamped discount, total and item count.
// Invariants: 0 <= DiscountAmount <= Subtotal and Total >= 0, for any discount
// kind and any non-negative value.
func (c *Cart) Totals() CartTotals {
	subtotal := decimal.Zero
	count := 0
	for _, l := range c.Lines {
		subtotal = subtotal.Add(l.Subtotal())
		count += l.Quantity
	}

	discount := decimal.Zero
	switch c.Discount.Kind {
	case DiscountPercent:
		discount = subtotal.Mul(c.Discount.Value).Div(oneHundred)
	case DiscountAmount:
		discount = c.Discount.Value
	}
	if discount.IsNegative() {
		discount = decimal.Zero
	}
	if discount.GreaterThan(subtotal) {
		discount = subtotal
	}

	return CartTotals{
		Subtotal:       subtotal,
		DiscountAmount: discount,
		Total:          subtotal.Sub(discount),
		ItemCount:      count,
	}
}
