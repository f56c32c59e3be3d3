package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"posmorales/internal/dto"
	"posmorales/internal/model"
)

// ErrInsufficientStock is returned by the client-side stock guard. The message
// is advisory: the authoritative check still happens server-side at
// confirmation, and that rejection is surfaced separately.
var ErrInsufficientStock = errors.New("stock insuficiente")

// CustomerLookup resolves a concrete customer so id and display name are
// always set together on the cart.
type CustomerLookup interface {
	CustomerByID(ctx context.Context, id int64) (*model.Customer, error)
}

// TableLookup validates a table selection against the mirrored table list.
type TableLookup interface {
	Get(ctx context.Context, tableID int64) (*model.RestaurantTable, error)
}

// CartService owns the single in-memory cart of this terminal plus its table
// selection. The cart is single-owner by policy; the mutex makes that policy
// safe under the gateway's concurrent handlers.
type CartService interface {
	AddItem(ctx context.Context, productID int64) (*dto.CartResponse, error)
	Increment(ctx context.Context, productID int64) (*dto.CartResponse, error)
	Decrement(productID int64) *dto.CartResponse
	Remove(productID int64) *dto.CartResponse
	Clear() *dto.CartResponse
	Cancel() *dto.CartResponse
	SetDiscount(value model.Discount) (*dto.CartResponse, error)
	SetNotes(notes string) *dto.CartResponse
	SetCustomer(ctx context.Context, customerID *int64) (*dto.CartResponse, error)
	SelectTable(ctx context.Context, tableID *int64) (*dto.CartResponse, error)
	Snapshot() *dto.CartResponse

	// Sale returns a copy of the cart and the selected table id for the
	// checkout orchestrator, and Reset is its success postcondition.
	Sale() (model.Cart, *int64)
	Reset()
}

type cartService struct {
	catalog   CatalogService
	customers CustomerLookup
	tables    TableLookup

	mu        sync.Mutex
	cart      *model.Cart
	tableID   *int64
	tableName string
}

func NewCartService(catalog CatalogService, customers CustomerLookup, tables TableLookup) CartService {
	return &cartService{
		catalog:   catalog,
		customers: customers,
		tables:    tables,
		cart:      model.NewCart(),
	}
}

func (s *cartService) response() *dto.CartResponse {
	// Copy the lines so handlers never alias the live cart.
	lines := append([]model.CartLine(nil), s.cart.Lines...)
	return &dto.CartResponse{
		Lines:     lines,
		Customer:  s.cart.CustomerRef,
		Discount:  s.cart.Discount,
		Notes:     s.cart.Notes,
		Totals:    s.cart.Totals(),
		TableID:   s.tableID,
		TableName: s.tableName,
	}
}

// AddItem runs the stock guard against the catalog snapshot before touching
// the cart; the price is snapshotted on first add.
func (s *cartService) AddItem(ctx context.Context, productID int64) (*dto.CartResponse, error) {
	product, err := s.catalog.ProductByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.cart.CanAdd(product) {
		return nil, fmt.Errorf("%w: %s", ErrInsufficientStock, product.Name)
	}
	s.cart.AddItem(product)
	return s.response(), nil
}

// Increment is AddItem without a new price snapshot: the guard runs, then the
// existing line's quantity grows by one.
func (s *cartService) Increment(ctx context.Context, productID int64) (*dto.CartResponse, error) {
	product, err := s.catalog.ProductByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.cart.CanAdd(product) {
		return nil, fmt.Errorf("%w: %s", ErrInsufficientStock, product.Name)
	}
	s.cart.IncrementQuantity(productID)
	return s.response(), nil
}

func (s *cartService) Decrement(productID int64) *dto.CartResponse {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart.DecrementQuantity(productID)
	return s.response()
}

func (s *cartService) Remove(productID int64) *dto.CartResponse {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart.RemoveItem(productID)
	return s.response()
}

// Clear empties lines, discount and notes but keeps the selected customer and
// table; the operator asked to start the items over, not to walk away.
func (s *cartService) Clear() *dto.CartResponse {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart.Clear()
	return s.response()
}

// Cancel abandons the sale entirely: lines, discount, notes, customer and
// table selection all reset.
func (s *cartService) Cancel() *dto.CartResponse {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset()
	return s.response()
}

func (s *cartService) SetDiscount(d model.Discount) (*dto.CartResponse, error) {
	if d.Kind != model.DiscountPercent && d.Kind != model.DiscountAmount {
		return nil, fmt.Errorf("tipo de descuento invalido: %s", d.Kind)
	}
	if d.Value.IsNegative() {
		return nil, errors.New("el descuento no puede ser negativo")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart.Discount = d
	return s.response(), nil
}

func (s *cartService) SetNotes(notes string) *dto.CartResponse {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart.Notes = notes
	return s.response()
}

// SetCustomer resolves the customer upstream so the cart never holds an id
// without its display name; nil resets to the walk-in identity.
func (s *cartService) SetCustomer(ctx context.Context, customerID *int64) (*dto.CartResponse, error) {
	var customer *model.Customer
	if customerID != nil {
		found, err := s.customers.CustomerByID(ctx, *customerID)
		if err != nil {
			return nil, err
		}
		customer = found
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart.SetCustomer(customer)
	return s.response(), nil
}

// SelectTable attaches the sale to a dine-in table, or detaches it with nil.
// Selection is validated against the mirrored table list; FUERA_DE_SERVICIO
// tables are rejected up front.
func (s *cartService) SelectTable(ctx context.Context, tableID *int64) (*dto.CartResponse, error) {
	var name string
	if tableID != nil {
		table, err := s.tables.Get(ctx, *tableID)
		if err != nil {
			return nil, err
		}
		if table.Status == model.TableOutOfService {
			return nil, fmt.Errorf("la mesa %s esta fuera de servicio", table.Name)
		}
		name = table.Name
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.tableID = tableID
	s.tableName = name
	return s.response(), nil
}

func (s *cartService) Snapshot() *dto.CartResponse {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.response()
}

// Sale returns a deep copy for the checkout orchestrator so mid-checkout cart
// edits cannot mutate an in-flight request.
func (s *cartService) Sale() (model.Cart, *int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cart := *s.cart
	cart.Lines = append([]model.CartLine(nil), s.cart.Lines...)
	var tableID *int64
	if s.tableID != nil {
		id := *s.tableID
		tableID = &id
	}
	return cart, tableID
}

// Reset is called after a confirmed sale or an explicit cancel.
func (s *cartService) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset()
}

func (s *cartService) reset() {
	s.cart = model.NewCart()
	s.tableID = nil
	s.tableName = ""
}
