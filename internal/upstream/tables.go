package upstream

import (
	"context"
	"fmt"
	"net/http"

	"posmorales/internal/model"

	"github.com/shopspring/decimal"
)

// Tables fetches the full table list with active sessions.
func (c *Client) Tables(ctx context.Context) ([]model.RestaurantTable, error) {
	var tables []model.RestaurantTable
	if err := c.do(ctx, http.MethodGet, "/tables", nil, &tables); err != nil {
		return nil, err
	}
	return tables, nil
}

// TableSession fetches the active session of one table.
func (c *Client) TableSession(ctx context.Context, tableID int64) (*model.TableSession, error) {
	var session model.TableSession
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/tables/%d/session", tableID), nil, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// OpenTableRequest starts a session on an available table.
type OpenTableRequest struct {
	GuestCount int    `json:"guestCount"`
	Notes      string `json:"notes,omitempty"`
	CustomerID *int64 `json:"customerId,omitempty"`
}

// OpenTable opens a session; the returned session replaces any local copy.
func (c *Client) OpenTable(ctx context.Context, tableID int64, req OpenTableRequest) (*model.TableSession, error) {
	var session model.TableSession
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/tables/%d/open", tableID), req, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// SessionItem is one line added to an open session.
type SessionItem struct {
	ProductID int64           `json:"productId"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

type addItemsRequest struct {
	Items []SessionItem `json:"items"`
}

// AddTableItems appends items to the table's open session.
func (c *Client) AddTableItems(ctx context.Context, tableID int64, items []SessionItem) (*model.TableSession, error) {
	var session model.TableSession
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/tables/%d/items", tableID), addItemsRequest{Items: items}, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// RemoveTableItem deletes one line from the open session.
func (c *Client) RemoveTableItem(ctx context.Context, tableID, detailID int64) (*model.TableSession, error) {
	var session model.TableSession
	if err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/tables/%d/items/%d", tableID, detailID), nil, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// PayTableRequest settles the session; the server closes it and frees the table.
type PayTableRequest struct {
	PaymentMethod   string          `json:"paymentMethod"`
	AmountReceived  decimal.Decimal `json:"amountReceived"`
	DiscountPercent decimal.Decimal `json:"discountPercent,omitempty"`
	Notes           string          `json:"notes,omitempty"`
}

// PayTable pays the session and returns the resulting invoice reference.
func (c *Client) PayTable(ctx context.Context, tableID int64, req PayTableRequest) (*CreatedInvoiceRef, error) {
	var ref CreatedInvoiceRef
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/tables/%d/pay", tableID), req, &ref); err != nil {
		return nil, err
	}
	return &ref, nil
}

type changeStatusRequest struct {
	Status string `json:"status"`
}

// ChangeTableStatus is the admin override; the server validates the transition.
func (c *Client) ChangeTableStatus(ctx context.Context, tableID int64, status string) (*model.RestaurantTable, error) {
	var table model.RestaurantTable
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/tables/%d/status", tableID), changeStatusRequest{Status: status}, &table); err != nil {
		return nil, err
	}
	return &table, nil
}
