package model

// WalkInCustomerName is the display label used when no concrete customer is
// selected. A cart's CustomerRef with ID == nil must always carry this name.
const WalkInCustomerName = "Cliente Ocasional"

// Customer is a registered buyer. DocumentNumber is the fiscal id (RUC/CI).
type Customer struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	DocumentNumber string `json:"documentNumber,omitempty"`
	Phone          string `json:"phone,omitempty"`
	Email          string `json:"email,omitempty"`
	Address        string `json:"address,omitempty"`
	Active         bool   `json:"active"`
}

// CustomerRef is the cart's reference to its buyer. ID nil means walk-in.
// The invariant is that ID and Name change together: a concrete selection sets
// both, clearing sets ID to nil and Name back to the walk-in label.
type CustomerRef struct {
	ID   *int64 `json:"id"`
	Name string `json:"name"`
}

// WalkIn returns the generic anonymous-buyer reference.
func WalkIn() CustomerRef {
	return CustomerRef{ID: nil, Name: WalkInCustomerName}
}

// RefTo builds a CustomerRef for a concrete customer.
func RefTo(c *Customer) CustomerRef {
	id := c.ID
	return CustomerRef{ID: &id, Name: c.Name}
}
