package upstream

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"posmorales/internal/model"
)

// SearchCustomers queries customers by name or document number. An empty
// search returns the first page of all customers.
func (c *Client) SearchCustomers(ctx context.Context, search string) ([]model.Customer, error) {
	path := "/customers"
	if search != "" {
		path += "?search=" + url.QueryEscape(search)
	}
	var customers []model.Customer
	if err := c.do(ctx, http.MethodGet, path, nil, &customers); err != nil {
		return nil, err
	}
	return customers, nil
}

// CreateCustomerRequest is the upstream write shape.
type CreateCustomerRequest struct {
	Name           string `json:"name"`
	DocumentNumber string `json:"documentNumber,omitempty"`
	Phone          string `json:"phone,omitempty"`
	Email          string `json:"email,omitempty"`
	Address        string `json:"address,omitempty"`
}

// CustomerByID fetches one customer.
func (c *Client) CustomerByID(ctx context.Context, id int64) (*model.Customer, error) {
	var customer model.Customer
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/customers/%d", id), nil, &customer); err != nil {
		return nil, err
	}
	return &customer, nil
}

// CreateCustomer registers a new customer and returns it with its id.
func (c *Client) CreateCustomer(ctx context.Context, req CreateCustomerRequest) (*model.Customer, error) {
	var customer model.Customer
	if err := c.do(ctx, http.MethodPost, "/customers", req, &customer); err != nil {
		return nil, err
	}
	return &customer, nil
}
