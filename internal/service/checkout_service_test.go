package service

import (
	"context"
	"errors"
	"testing"

	"posmorales/internal/dto"
	"posmorales/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type checkoutFixture struct {
	svc     CheckoutService
	carts   CartService
	backend *stubCheckoutBackend
	tables  *stubTableBackend
	jobs    *stubDispatcher
}

func buildCheckoutFixture(t *testing.T, tables ...model.RestaurantTable) *checkoutFixture {
	t.Helper()
	if len(tables) == 0 {
		tables = []model.RestaurantTable{
			seedTable(1, "Mesa 1", model.TableAvailable),
			seedTable(2, "Mesa 2", model.TableOccupied),
		}
	}
	catalogBackend := &stubCatalogBackend{products: []model.Product{
		seedProduct(1, "Pizza", 10000, 20),
		seedProduct(2, "Jugo", 5000, 20),
	}}
	tableBackend := newStubTableBackend(tables...)
	catalog := NewCatalogService(catalogBackend)
	tableSvc := NewTableService(tableBackend)
	carts := NewCartService(catalog, &stubCustomerLookup{}, tableSvc)
	backend := &stubCheckoutBackend{}
	jobs := &stubDispatcher{}
	svc := NewCheckoutService(backend, carts, catalog, tableSvc, jobs, "CAJA-01")
	return &checkoutFixture{svc: svc, carts: carts, backend: backend, tables: tableBackend, jobs: jobs}
}

func (f *checkoutFixture) fillCart(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	// 2 × Pizza(10000) + 1 × Jugo(5000) = 25000; 10% discount → total 22500
	_, err := f.carts.AddItem(ctx, 1)
	require.NoError(t, err)
	_, err = f.carts.AddItem(ctx, 1)
	require.NoError(t, err)
	_, err = f.carts.AddItem(ctx, 2)
	require.NoError(t, err)
	_, err = f.carts.SetDiscount(model.Discount{Kind: model.DiscountPercent, Value: decimal.NewFromInt(10)})
	require.NoError(t, err)
}

func TestCheckout_EmptyCart(t *testing.T) {
	f := buildCheckoutFixture(t)
	_, err := f.svc.Checkout(context.Background(), dto.CheckoutRequest{
		PaymentMethod:  model.PaymentCash,
		AmountReceived: decimal.NewFromInt(50000),
	})
	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.Zero(t, f.backend.createSaleCalls)
}

func TestCheckout_InsufficientCashBlockedBeforeNetwork(t *testing.T) {
	f := buildCheckoutFixture(t)
	f.fillCart(t)

	_, err := f.svc.Checkout(context.Background(), dto.CheckoutRequest{
		PaymentMethod:  model.PaymentCash,
		AmountReceived: decimal.NewFromInt(22499),
	})
	assert.ErrorIs(t, err, ErrInsufficientCash)
	assert.Zero(t, f.backend.createSaleCalls)

	// Cart intact for correction
	assert.Len(t, f.carts.Snapshot().Lines, 2)
}

func TestCheckout_DirectSaleCash(t *testing.T) {
	f := buildCheckoutFixture(t)
	f.fillCart(t)

	resp, err := f.svc.Checkout(context.Background(), dto.CheckoutRequest{
		PaymentMethod:  model.PaymentCash,
		AmountReceived: decimal.NewFromInt(25000),
		CustomerEmail:  "maria@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "2500", resp.Change.String())
	assert.Equal(t, model.InvoiceCompleted, resp.Invoice.Status)

	assert.Equal(t, 1, f.backend.createSaleCalls)
	assert.Equal(t, "10", f.backend.lastSale.DiscountPercent.String())
	assert.Equal(t, "25000", f.backend.lastSale.AmountReceived.String())
	assert.Len(t, f.backend.lastSale.Details, 2)

	// Success postconditions: cart reset and receipt job enqueued
	assert.True(t, f.carts.Snapshot().Totals.Total.IsZero())
	require.Len(t, f.jobs.receipts, 1)
	payload := f.jobs.receipts[0].(map[string]interface{})
	assert.Equal(t, "maria@example.com", payload["customer_email"])
}

func TestCheckout_NonCashTakesExactTotal(t *testing.T) {
	f := buildCheckoutFixture(t)
	f.fillCart(t)

	resp, err := f.svc.Checkout(context.Background(), dto.CheckoutRequest{
		PaymentMethod: model.PaymentCredit,
	})
	require.NoError(t, err)
	assert.True(t, resp.Change.IsZero())
	assert.Equal(t, "22500", f.backend.lastSale.AmountReceived.String())
}

func TestCheckout_AmountDiscountConvertedToPercent(t *testing.T) {
	f := buildCheckoutFixture(t)
	ctx := context.Background()
	// Subtotal 20000, fixed discount 5000 → 25%
	_, err := f.carts.AddItem(ctx, 1)
	require.NoError(t, err)
	_, err = f.carts.AddItem(ctx, 1)
	require.NoError(t, err)
	_, err = f.carts.SetDiscount(model.Discount{Kind: model.DiscountAmount, Value: decimal.NewFromInt(5000)})
	require.NoError(t, err)

	_, err = f.svc.Checkout(ctx, dto.CheckoutRequest{PaymentMethod: model.PaymentCredit})
	require.NoError(t, err)
	assert.Equal(t, "25", f.backend.lastSale.DiscountPercent.String())
}

func TestCheckout_AvailableTableOpensSession(t *testing.T) {
	f := buildCheckoutFixture(t)
	f.fillCart(t)
	tableID := int64(1)
	_, err := f.carts.SelectTable(context.Background(), &tableID)
	require.NoError(t, err)

	resp, err := f.svc.Checkout(context.Background(), dto.CheckoutRequest{
		PaymentMethod:  model.PaymentCash,
		AmountReceived: decimal.NewFromInt(30000),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, f.backend.openTableCalls)
	assert.Equal(t, 1, f.backend.addItemsCalls)
	assert.Equal(t, 1, f.backend.payCalls)
	assert.Zero(t, f.backend.createSaleCalls)
	assert.Equal(t, "7500", resp.Change.String())

	// Table selection cleared with the cart
	assert.Nil(t, f.carts.Snapshot().TableID)
}

func TestCheckout_OccupiedTableSkipsOpen(t *testing.T) {
	f := buildCheckoutFixture(t)
	f.fillCart(t)
	tableID := int64(2)
	_, err := f.carts.SelectTable(context.Background(), &tableID)
	require.NoError(t, err)

	_, err = f.svc.Checkout(context.Background(), dto.CheckoutRequest{
		PaymentMethod: model.PaymentCredit,
	})
	require.NoError(t, err)
	assert.Zero(t, f.backend.openTableCalls)
	assert.Equal(t, 1, f.backend.addItemsCalls)
	assert.Equal(t, 1, f.backend.payCalls)
}

func TestCheckout_PayFailureIsRetryableSaga(t *testing.T) {
	f := buildCheckoutFixture(t)
	f.backend.failPay = errors.New("timeout del servidor")
	f.fillCart(t)
	tableID := int64(1)
	_, err := f.carts.SelectTable(context.Background(), &tableID)
	require.NoError(t, err)

	_, err = f.svc.Checkout(context.Background(), dto.CheckoutRequest{
		PaymentMethod:  model.PaymentCash,
		AmountReceived: decimal.NewFromInt(30000),
	})
	var saga *SagaError
	require.ErrorAs(t, err, &saga)
	assert.Equal(t, StepPay, saga.FailedStep)
	assert.Equal(t, []string{StepOpenTable, StepAddItems}, saga.CompletedSteps)
	assert.True(t, saga.Retryable)
	require.NotNil(t, saga.Table)
	assert.Equal(t, int64(1), saga.Table.ID)

	// Cart NOT reset; the sale is not confirmed
	assert.Len(t, f.carts.Snapshot().Lines, 2)
	assert.Empty(t, f.jobs.receipts)
}

func TestCheckout_AddItemsFailureNotRetryable(t *testing.T) {
	f := buildCheckoutFixture(t)
	f.backend.failAddItems = errors.New("stock insuficiente para Pizza")
	f.fillCart(t)
	tableID := int64(2)
	_, err := f.carts.SelectTable(context.Background(), &tableID)
	require.NoError(t, err)

	_, err = f.svc.Checkout(context.Background(), dto.CheckoutRequest{PaymentMethod: model.PaymentCredit})
	var saga *SagaError
	require.ErrorAs(t, err, &saga)
	assert.Equal(t, StepAddItems, saga.FailedStep)
	assert.Empty(t, saga.CompletedSteps)
	assert.False(t, saga.Retryable)
}

func TestCheckout_InvoiceFetchFailureStillResets(t *testing.T) {
	f := buildCheckoutFixture(t)
	f.backend.failFetch = errors.New("timeout")
	f.fillCart(t)

	_, err := f.svc.Checkout(context.Background(), dto.CheckoutRequest{PaymentMethod: model.PaymentCredit})
	var saga *SagaError
	require.ErrorAs(t, err, &saga)
	assert.Equal(t, StepFetchInvoice, saga.FailedStep)
	assert.False(t, saga.Retryable)

	// The sale committed server-side, so the cart must not survive
	assert.Empty(t, f.carts.Snapshot().Lines)
}

func TestResumePayment(t *testing.T) {
	f := buildCheckoutFixture(t)
	f.tables.sessions[2] = &model.TableSession{
		TableID: 2,
		Total:   decimal.NewFromInt(30000),
	}

	resp, err := f.svc.ResumePayment(context.Background(), dto.ResumePaymentRequest{
		TableID:        2,
		PaymentMethod:  model.PaymentCash,
		AmountReceived: decimal.NewFromInt(35000),
	})
	require.NoError(t, err)
	assert.Equal(t, "5000", resp.Change.String())
	assert.Equal(t, 1, f.backend.payCalls)
	assert.Zero(t, f.backend.addItemsCalls)
}

func TestResumePayment_InsufficientCash(t *testing.T) {
	f := buildCheckoutFixture(t)
	f.tables.sessions[2] = &model.TableSession{TableID: 2, Total: decimal.NewFromInt(30000)}

	_, err := f.svc.ResumePayment(context.Background(), dto.ResumePaymentRequest{
		TableID:        2,
		PaymentMethod:  model.PaymentCash,
		AmountReceived: decimal.NewFromInt(20000),
	})
	assert.ErrorIs(t, err, ErrInsufficientCash)
	assert.Zero(t, f.backend.payCalls)
}
