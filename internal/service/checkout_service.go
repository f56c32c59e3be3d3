package service

import (
	"context"
	"errors"
	"fmt"

	"posmorales/internal/dto"
	"posmorales/internal/model"
	"posmorales/internal/upstream"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// Validation failures caught before any network call.
var (
	ErrEmptyCart        = errors.New("el carrito esta vacio")
	ErrInsufficientCash = errors.New("el monto recibido es menor al total")
)

// Saga step names, recorded in order of completion so a mid-sequence failure
// can tell the operator exactly what the server already applied.
const (
	StepCreateSale   = "create_sale"
	StepOpenTable    = "open_table"
	StepAddItems     = "add_items"
	StepPay          = "pay"
	StepFetchInvoice = "fetch_invoice"
)

// SagaError reports a checkout that failed after zero or more steps already
// committed server-side. The client performs no rollback; instead Table holds
// the refetched server state and Retryable marks a failed pay step that can be
// resumed without re-adding items.
type SagaError struct {
	CompletedSteps []string
	FailedStep     string
	Table          *model.RestaurantTable
	Retryable      bool
	Err            error
}

func (e *SagaError) Error() string {
	return fmt.Sprintf("checkout fallo en %s: %v", e.FailedStep, e.Err)
}

func (e *SagaError) Unwrap() error { return e.Err }

// CheckoutBackend is the slice of the upstream client the orchestrator needs.
type CheckoutBackend interface {
	CreateSale(ctx context.Context, req upstream.CreateSaleRequest) (*upstream.CreatedInvoiceRef, error)
	InvoiceByID(ctx context.Context, id int64) (*model.Invoice, error)
	OpenTable(ctx context.Context, tableID int64, req upstream.OpenTableRequest) (*model.TableSession, error)
	AddTableItems(ctx context.Context, tableID int64, items []upstream.SessionItem) (*model.TableSession, error)
	PayTable(ctx context.Context, tableID int64, req upstream.PayTableRequest) (*upstream.CreatedInvoiceRef, error)
}

// Dispatcher enqueues the async receipt job after a confirmed sale.
type Dispatcher interface {
	EnqueueReceipt(ctx context.Context, payload interface{}) error
}

// CheckoutService turns the cart plus payment input into one authoritative
// invoice, via one of three branches: direct sale, open-table sale, or sale
// against an existing session.
type CheckoutService interface {
	Checkout(ctx context.Context, req dto.CheckoutRequest) (*dto.CheckoutResponse, error)
	ResumePayment(ctx context.Context, req dto.ResumePaymentRequest) (*dto.CheckoutResponse, error)
}

type checkoutService struct {
	backend    CheckoutBackend
	carts      CartService
	catalog    CatalogService
	tables     TableService
	dispatcher Dispatcher
	terminalID string
}

func NewCheckoutService(
	backend CheckoutBackend,
	carts CartService,
	catalog CatalogService,
	tables TableService,
	dispatcher Dispatcher,
	terminalID string,
) CheckoutService {
	return &checkoutService{
		backend:    backend,
		carts:      carts,
		catalog:    catalog,
		tables:     tables,
		dispatcher: dispatcher,
		terminalID: terminalID,
	}
}

// normalizePayment validates the payment input against the cart total.
// Cash must cover the total and produces change; every other method is taken
// at exactly the total, with no change computed.
func normalizePayment(req dto.CheckoutRequest, total decimal.Decimal) (received, change decimal.Decimal, err error) {
	if req.PaymentMethod == model.PaymentCash {
		if req.AmountReceived.LessThan(total) {
			return decimal.Zero, decimal.Zero, ErrInsufficientCash
		}
		return req.AmountReceived, req.AmountReceived.Sub(total), nil
	}
	return total, decimal.Zero, nil
}

// discountPercentOf converts the cart discount into the percentage the wire
// format carries. Fixed-amount discounts become an equivalent percentage of
// the subtotal; the server recomputes the amount from it within currency
// precision.
func discountPercentOf(totals model.CartTotals, d model.Discount) decimal.Decimal {
	if d.Kind == model.DiscountPercent {
		return d.Value
	}
	if totals.Subtotal.IsZero() {
		return decimal.Zero
	}
	return totals.DiscountAmount.Mul(decimal.NewFromInt(100)).Div(totals.Subtotal)
}

func saleDetails(cart model.Cart) []upstream.SaleDetail {
	details := make([]upstream.SaleDetail, 0, len(cart.Lines))
	for _, l := range cart.Lines {
		details = append(details, upstream.SaleDetail{
			ProductID:      l.ProductID,
			Quantity:       l.Quantity,
			UnitPrice:      l.UnitPrice,
			DiscountAmount: decimal.Zero,
		})
	}
	return details
}

func sessionItems(cart model.Cart) []upstream.SessionItem {
	items := make([]upstream.SessionItem, 0, len(cart.Lines))
	for _, l := range cart.Lines {
		items = append(items, upstream.SessionItem{
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
		})
	}
	return items
}

func (s *checkoutService) Checkout(ctx context.Context, req dto.CheckoutRequest) (*dto.CheckoutResponse, error) {
	cart, tableID := s.carts.Sale()
	if cart.IsEmpty() {
		return nil, ErrEmptyCart
	}

	totals := cart.Totals()
	received, change, err := normalizePayment(req, totals.Total)
	if err != nil {
		return nil, err
	}

	if tableID == nil {
		return s.directSale(ctx, cart, totals, req, received, change)
	}
	return s.tableSale(ctx, cart, totals, *tableID, req, received, change)
}

// ── Branch 1: direct sale ────────────────────────────────────────────────────

func (s *checkoutService) directSale(
	ctx context.Context,
	cart model.Cart,
	totals model.CartTotals,
	req dto.CheckoutRequest,
	received, change decimal.Decimal,
) (*dto.CheckoutResponse, error) {
	ref, err := s.backend.CreateSale(ctx, upstream.CreateSaleRequest{
		CustomerID:      cart.CustomerRef.ID,
		PaymentMethod:   req.PaymentMethod,
		DiscountPercent: discountPercentOf(totals, cart.Discount),
		AmountReceived:  received,
		Notes:           cart.Notes,
		Details:         saleDetails(cart),
	})
	if err != nil {
		// Nothing committed; plain failure, cart stays intact for re-invocation.
		return nil, err
	}

	return s.finish(ctx, ref.ID, change, req.CustomerEmail, []string{StepCreateSale}, nil)
}

// ── Branches 2 and 3: table sale ─────────────────────────────────────────────

func (s *checkoutService) tableSale(
	ctx context.Context,
	cart model.Cart,
	totals model.CartTotals,
	tableID int64,
	req dto.CheckoutRequest,
	received, change decimal.Decimal,
) (*dto.CheckoutResponse, error) {
	// Re-sync the table before branching so the open-vs-add decision is made
	// on the freshest state this terminal can get.
	if err := s.tables.Refresh(ctx); err != nil {
		return nil, err
	}
	table, err := s.tables.Get(ctx, tableID)
	if err != nil {
		return nil, err
	}

	var completed []string

	if !table.IsOccupied() {
		_, err := s.backend.OpenTable(ctx, tableID, upstream.OpenTableRequest{
			GuestCount: 1,
			CustomerID: cart.CustomerRef.ID,
			Notes:      cart.Notes,
		})
		if err != nil {
			return nil, s.sagaFailure(ctx, tableID, completed, StepOpenTable, err, false)
		}
		completed = append(completed, StepOpenTable)
	}

	if _, err := s.backend.AddTableItems(ctx, tableID, sessionItems(cart)); err != nil {
		return nil, s.sagaFailure(ctx, tableID, completed, StepAddItems, err, false)
	}
	completed = append(completed, StepAddItems)

	ref, err := s.backend.PayTable(ctx, tableID, upstream.PayTableRequest{
		PaymentMethod:   req.PaymentMethod,
		AmountReceived:  received,
		DiscountPercent: discountPercentOf(totals, cart.Discount),
		Notes:           cart.Notes,
	})
	if err != nil {
		// Items are on the session; only the payment is missing. Resumable.
		return nil, s.sagaFailure(ctx, tableID, completed, StepPay, err, true)
	}
	completed = append(completed, StepPay)

	return s.finish(ctx, ref.ID, change, req.CustomerEmail, completed, &tableID)
}

// ResumePayment retries the pay step of a partially committed table checkout.
// The session already holds the items; nothing is re-added.
func (s *checkoutService) ResumePayment(ctx context.Context, req dto.ResumePaymentRequest) (*dto.CheckoutResponse, error) {
	session, err := s.tables.Session(ctx, req.TableID)
	if err != nil {
		return nil, err
	}

	received, change, err := normalizePayment(dto.CheckoutRequest{
		PaymentMethod:  req.PaymentMethod,
		AmountReceived: req.AmountReceived,
	}, session.Total)
	if err != nil {
		return nil, err
	}

	ref, err := s.backend.PayTable(ctx, req.TableID, upstream.PayTableRequest{
		PaymentMethod:  req.PaymentMethod,
		AmountReceived: received,
	})
	if err != nil {
		return nil, s.sagaFailure(ctx, req.TableID, []string{StepAddItems}, StepPay, err, true)
	}

	return s.finish(ctx, ref.ID, change, "", []string{StepAddItems, StepPay}, &req.TableID)
}

// sagaFailure refetches the table's current server state instead of trusting
// pre-attempt assumptions, then wraps the step failure.
func (s *checkoutService) sagaFailure(ctx context.Context, tableID int64, completed []string, step string, cause error, retryable bool) error {
	if err := s.tables.Refresh(ctx); err != nil {
		log.Warn().Err(err).Int64("table_id", tableID).Msg("checkout: state refetch after failure failed")
	}
	table, err := s.tables.Get(ctx, tableID)
	if err != nil {
		table = nil
	}

	log.Error().
		Err(cause).
		Int64("table_id", tableID).
		Str("failed_step", step).
		Strs("completed_steps", completed).
		Msg("checkout: table sale failed mid-sequence")

	return &SagaError{
		CompletedSteps: completed,
		FailedStep:     step,
		Table:          table,
		Retryable:      retryable,
		Err:            cause,
	}
}

// finish runs the success postconditions: fetch the authoritative invoice,
// reset the cart and table selection, refresh catalog and tables, and enqueue
// the receipt job.
func (s *checkoutService) finish(ctx context.Context, invoiceID int64, change decimal.Decimal, customerEmail string, completed []string, tableID *int64) (*dto.CheckoutResponse, error) {
	invoice, err := s.backend.InvoiceByID(ctx, invoiceID)
	if err != nil {
		// The sale is committed server-side; reset locally and report the
		// fetch failure so the UI offers a reprint instead of a retry.
		s.reconcileAfterSale(ctx)
		var table *model.RestaurantTable
		if tableID != nil {
			table, _ = s.tables.Get(ctx, *tableID)
		}
		return nil, &SagaError{
			CompletedSteps: completed,
			FailedStep:     StepFetchInvoice,
			Table:          table,
			Retryable:      false,
			Err:            err,
		}
	}

	s.reconcileAfterSale(ctx)

	payload := map[string]interface{}{"invoice_id": invoice.ID}
	if customerEmail != "" {
		payload["customer_email"] = customerEmail
	}
	if s.dispatcher != nil {
		if err := s.dispatcher.EnqueueReceipt(ctx, payload); err != nil {
			log.Warn().Err(err).Int64("invoice_id", invoice.ID).Msg("checkout: failed to enqueue receipt job")
		}
	}

	log.Info().
		Int64("invoice_id", invoice.ID).
		Str("invoice_number", invoice.InvoiceNumber).
		Str("terminal", s.terminalID).
		Msg("checkout: sale confirmed")

	return &dto.CheckoutResponse{Invoice: invoice, Change: change}, nil
}

// reconcileAfterSale clears the cart and re-fetches the aggregates the sale
// changed: stock levels and table statuses.
func (s *checkoutService) reconcileAfterSale(ctx context.Context) {
	s.carts.Reset()
	if err := s.catalog.Refresh(ctx); err != nil {
		log.Warn().Err(err).Msg("checkout: catalog refresh after sale failed")
	}
	if err := s.tables.Refresh(ctx); err != nil {
		log.Warn().Err(err).Msg("checkout: table refresh after sale failed")
	}
}
