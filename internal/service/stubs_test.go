package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"posmorales/internal/model"
	"posmorales/internal/upstream"

	"github.com/shopspring/decimal"
)

// ── Shared stubs ──────────────────────────────────────────────────────────────

// stubCatalogBackend serves a fixed product list; mutate products between
// calls to simulate server-side stock movement.
type stubCatalogBackend struct {
	products   []model.Product
	categories []model.Category
	fetchCount int
	fail       error
}

func (b *stubCatalogBackend) Products(_ context.Context) ([]model.Product, error) {
	if b.fail != nil {
		return nil, b.fail
	}
	b.fetchCount++
	return append([]model.Product(nil), b.products...), nil
}

func (b *stubCatalogBackend) Categories(_ context.Context) ([]model.Category, error) {
	return b.categories, nil
}

var _ CatalogBackend = (*stubCatalogBackend)(nil)

// stubTableBackend is an in-memory table list with session bookkeeping.
// The mutex keeps the stub safe under the poller goroutine in watcher tests.
type stubTableBackend struct {
	mu         sync.Mutex
	tables     []model.RestaurantTable
	sessions   map[int64]*model.TableSession
	fetchCount int
	fail       error
}

func newStubTableBackend(tables ...model.RestaurantTable) *stubTableBackend {
	return &stubTableBackend{tables: tables, sessions: make(map[int64]*model.TableSession)}
}

func (b *stubTableBackend) Tables(_ context.Context) ([]model.RestaurantTable, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.fail != nil {
		return nil, b.fail
	}
	b.fetchCount++
	return append([]model.RestaurantTable(nil), b.tables...), nil
}

func (b *stubTableBackend) fetches() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.fetchCount
}

func (b *stubTableBackend) setTables(tables []model.RestaurantTable) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.tables = tables
}

func (b *stubTableBackend) TableSession(_ context.Context, tableID int64) (*model.TableSession, error) {
	s, ok := b.sessions[tableID]
	if !ok {
		return nil, errors.New("la mesa no tiene sesion activa")
	}
	return s, nil
}

func (b *stubTableBackend) OpenTable(_ context.Context, tableID int64, req upstream.OpenTableRequest) (*model.TableSession, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	session := &model.TableSession{TableID: tableID, GuestCount: req.GuestCount}
	b.sessions[tableID] = session
	for i := range b.tables {
		if b.tables[i].ID == tableID {
			b.tables[i].Status = model.TableOccupied
		}
	}
	return session, nil
}

func (b *stubTableBackend) RemoveTableItem(_ context.Context, tableID, detailID int64) (*model.TableSession, error) {
	s, ok := b.sessions[tableID]
	if !ok {
		return nil, errors.New("la mesa no tiene sesion activa")
	}
	for i, l := range s.Lines {
		if l.ID == detailID {
			s.Lines = append(s.Lines[:i], s.Lines[i+1:]...)
			return s, nil
		}
	}
	return nil, fmt.Errorf("detalle %d no encontrado", detailID)
}

func (b *stubTableBackend) ChangeTableStatus(_ context.Context, tableID int64, status string) (*model.RestaurantTable, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.tables {
		if b.tables[i].ID == tableID {
			b.tables[i].Status = status
			t := b.tables[i]
			return &t, nil
		}
	}
	return nil, fmt.Errorf("mesa %d no encontrada", tableID)
}

var _ TableBackend = (*stubTableBackend)(nil)

// stubCustomerLookup resolves from a fixed map.
type stubCustomerLookup struct {
	customers map[int64]*model.Customer
}

func (l *stubCustomerLookup) CustomerByID(_ context.Context, id int64) (*model.Customer, error) {
	c, ok := l.customers[id]
	if !ok {
		return nil, errors.New("cliente no encontrado")
	}
	return c, nil
}

// stubCheckoutBackend records every call and can be told to fail a step.
type stubCheckoutBackend struct {
	createSaleCalls int
	openTableCalls  int
	addItemsCalls   int
	payCalls        int

	failOpenTable error
	failAddItems  error
	failPay       error
	failFetch     error

	lastSale    upstream.CreateSaleRequest
	lastItems   []upstream.SessionItem
	lastPay     upstream.PayTableRequest
	invoice     *model.Invoice
	nextInvoice int64
}

func (b *stubCheckoutBackend) CreateSale(_ context.Context, req upstream.CreateSaleRequest) (*upstream.CreatedInvoiceRef, error) {
	b.createSaleCalls++
	b.lastSale = req
	b.nextInvoice++
	return &upstream.CreatedInvoiceRef{ID: b.nextInvoice, InvoiceNumber: fmt.Sprintf("001-001-%07d", b.nextInvoice)}, nil
}

func (b *stubCheckoutBackend) InvoiceByID(_ context.Context, id int64) (*model.Invoice, error) {
	if b.failFetch != nil {
		return nil, b.failFetch
	}
	if b.invoice != nil {
		return b.invoice, nil
	}
	return &model.Invoice{ID: id, InvoiceNumber: fmt.Sprintf("001-001-%07d", id), Status: model.InvoiceCompleted}, nil
}

func (b *stubCheckoutBackend) OpenTable(_ context.Context, tableID int64, req upstream.OpenTableRequest) (*model.TableSession, error) {
	b.openTableCalls++
	if b.failOpenTable != nil {
		return nil, b.failOpenTable
	}
	return &model.TableSession{TableID: tableID, GuestCount: req.GuestCount}, nil
}

func (b *stubCheckoutBackend) AddTableItems(_ context.Context, tableID int64, items []upstream.SessionItem) (*model.TableSession, error) {
	b.addItemsCalls++
	b.lastItems = items
	if b.failAddItems != nil {
		return nil, b.failAddItems
	}
	return &model.TableSession{TableID: tableID}, nil
}

func (b *stubCheckoutBackend) PayTable(_ context.Context, tableID int64, req upstream.PayTableRequest) (*upstream.CreatedInvoiceRef, error) {
	b.payCalls++
	b.lastPay = req
	if b.failPay != nil {
		return nil, b.failPay
	}
	b.nextInvoice++
	return &upstream.CreatedInvoiceRef{ID: b.nextInvoice, InvoiceNumber: fmt.Sprintf("001-001-%07d", b.nextInvoice)}, nil
}

var _ CheckoutBackend = (*stubCheckoutBackend)(nil)

// stubDispatcher captures enqueued receipt payloads.
type stubDispatcher struct {
	receipts []interface{}
}

func (d *stubDispatcher) EnqueueReceipt(_ context.Context, payload interface{}) error {
	d.receipts = append(d.receipts, payload)
	return nil
}

// stubInvoiceBackend serves a fixed ledger keyed by id.
type stubInvoiceBackend struct {
	invoices  map[int64]*model.Invoice
	byRange   []model.Invoice
	voidCalls int
}

func (b *stubInvoiceBackend) InvoiceByID(_ context.Context, id int64) (*model.Invoice, error) {
	inv, ok := b.invoices[id]
	if !ok {
		return nil, errors.New("factura no encontrada")
	}
	return inv, nil
}

func (b *stubInvoiceBackend) InvoicesByRange(_ context.Context, _, _ string) ([]model.Invoice, error) {
	return b.byRange, nil
}

func (b *stubInvoiceBackend) VoidInvoice(_ context.Context, id int64, reason string) (*model.Invoice, error) {
	b.voidCalls++
	inv, ok := b.invoices[id]
	if !ok {
		return nil, errors.New("factura no encontrada")
	}
	voided := *inv
	voided.Status = model.InvoiceVoided
	voided.VoidReason = reason
	return &voided, nil
}

var _ InvoiceBackend = (*stubInvoiceBackend)(nil)

// ── Seed helpers ──────────────────────────────────────────────────────────────

func seedProduct(id int64, name string, price int64, stock int) model.Product {
	return model.Product{
		ID:             id,
		Code:           fmt.Sprintf("P-%03d", id),
		Name:           name,
		SalePrice:      decimal.NewFromInt(price),
		AvailableStock: stock,
		Active:         true,
	}
}

func seedTable(id int64, name, status string) model.RestaurantTable {
	return model.RestaurantTable{ID: id, TableNumber: int(id), Name: name, Capacity: 4, Status: status}
}
