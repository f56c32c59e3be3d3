package service

import (
	"context"
	"testing"

	"posmorales/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildCartSvc(products ...model.Product) (CartService, *stubTableBackend) {
	catalogBackend := &stubCatalogBackend{products: products}
	tableBackend := newStubTableBackend(
		seedTable(1, "Mesa 1", model.TableAvailable),
		seedTable(2, "Mesa 2", model.TableOccupied),
		seedTable(3, "Mesa 3", model.TableOutOfService),
	)
	catalog := NewCatalogService(catalogBackend)
	tables := NewTableService(tableBackend)
	customers := &stubCustomerLookup{customers: map[int64]*model.Customer{
		7: {ID: 7, Name: "Maria Gonzalez", Active: true},
	}}
	return NewCartService(catalog, customers, tables), tableBackend
}

func TestCartAddItem_StockGuardBlocksAtLimit(t *testing.T) {
	svc, _ := buildCartSvc(seedProduct(1, "Lomito", 25000, 2))
	ctx := context.Background()

	_, err := svc.AddItem(ctx, 1)
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, 1)
	require.NoError(t, err)

	_, err = svc.AddItem(ctx, 1)
	assert.ErrorIs(t, err, ErrInsufficientStock)
	assert.ErrorContains(t, err, "Lomito")

	// The failed add left the cart untouched
	resp := svc.Snapshot()
	require.Len(t, resp.Lines, 1)
	assert.Equal(t, 2, resp.Lines[0].Quantity)
}

func TestCartIncrement_GuardAndMissingLine(t *testing.T) {
	svc, _ := buildCartSvc(seedProduct(1, "Pollo", 30000, 1))
	ctx := context.Background()

	_, err := svc.AddItem(ctx, 1)
	require.NoError(t, err)

	_, err = svc.Increment(ctx, 1)
	assert.ErrorIs(t, err, ErrInsufficientStock)

	_, err = svc.AddItem(ctx, 99)
	assert.Error(t, err)
}

func TestCartClear_KeepsCustomerAndTable(t *testing.T) {
	svc, _ := buildCartSvc(seedProduct(1, "Flan", 7000, 5))
	ctx := context.Background()

	_, err := svc.AddItem(ctx, 1)
	require.NoError(t, err)
	customerID := int64(7)
	_, err = svc.SetCustomer(ctx, &customerID)
	require.NoError(t, err)
	tableID := int64(1)
	_, err = svc.SelectTable(ctx, &tableID)
	require.NoError(t, err)

	resp := svc.Clear()
	assert.Empty(t, resp.Lines)
	require.NotNil(t, resp.Customer.ID)
	assert.Equal(t, "Maria Gonzalez", resp.Customer.Name)
	require.NotNil(t, resp.TableID)
	assert.Equal(t, "Mesa 1", resp.TableName)
}

func TestCartCancel_ResetsEverything(t *testing.T) {
	svc, _ := buildCartSvc(seedProduct(1, "Flan", 7000, 5))
	ctx := context.Background()

	_, err := svc.AddItem(ctx, 1)
	require.NoError(t, err)
	customerID := int64(7)
	_, err = svc.SetCustomer(ctx, &customerID)
	require.NoError(t, err)
	tableID := int64(1)
	_, err = svc.SelectTable(ctx, &tableID)
	require.NoError(t, err)

	resp := svc.Cancel()
	assert.Empty(t, resp.Lines)
	assert.Nil(t, resp.Customer.ID)
	assert.Equal(t, model.WalkInCustomerName, resp.Customer.Name)
	assert.Nil(t, resp.TableID)
	assert.Empty(t, resp.TableName)
}

func TestCartSetCustomer_UnknownID(t *testing.T) {
	svc, _ := buildCartSvc()
	unknown := int64(99)
	_, err := svc.SetCustomer(context.Background(), &unknown)
	assert.ErrorContains(t, err, "cliente no encontrado")
}

func TestCartSelectTable_RejectsOutOfService(t *testing.T) {
	svc, _ := buildCartSvc()
	tableID := int64(3)
	_, err := svc.SelectTable(context.Background(), &tableID)
	assert.ErrorContains(t, err, "fuera de servicio")
}

func TestCartSelectTable_OccupiedIsSelectable(t *testing.T) {
	// Selecting an occupied table is the add-to-session flow, not an error.
	svc, _ := buildCartSvc()
	tableID := int64(2)
	resp, err := svc.SelectTable(context.Background(), &tableID)
	require.NoError(t, err)
	assert.Equal(t, "Mesa 2", resp.TableName)

	resp, err = svc.SelectTable(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, resp.TableID)
}

func TestCartSetDiscount_Validation(t *testing.T) {
	svc, _ := buildCartSvc()

	_, err := svc.SetDiscount(model.Discount{Kind: "fixed", Value: decimal.NewFromInt(10)})
	assert.ErrorContains(t, err, "tipo de descuento invalido")

	_, err = svc.SetDiscount(model.Discount{Kind: model.DiscountPercent, Value: decimal.NewFromInt(-5)})
	assert.ErrorContains(t, err, "negativo")

	resp, err := svc.SetDiscount(model.Discount{Kind: model.DiscountAmount, Value: decimal.NewFromInt(5000)})
	require.NoError(t, err)
	assert.Equal(t, model.DiscountAmount, resp.Discount.Kind)
}

func TestCartSale_ReturnsDetachedCopy(t *testing.T) {
	svc, _ := buildCartSvc(seedProduct(1, "Sopa", 12000, 5))
	ctx := context.Background()
	_, err := svc.AddItem(ctx, 1)
	require.NoError(t, err)

	cart, tableID := svc.Sale()
	assert.Nil(t, tableID)
	require.Len(t, cart.Lines, 1)

	// Mutating the copy must not leak into the live cart
	cart.Lines[0].Quantity = 99
	assert.Equal(t, 1, svc.Snapshot().Lines[0].Quantity)
}
