package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"posmorales/internal/dto"
	"posmorales/internal/events"
	"posmorales/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableRefresh_WholesaleReplace(t *testing.T) {
	backend := newStubTableBackend(
		seedTable(1, "Mesa 1", model.TableAvailable),
		seedTable(2, "Mesa 2", model.TableAvailable),
	)
	svc := NewTableService(backend)
	ctx := context.Background()

	tables, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, tables, 2)

	// Server-side change on another terminal: table 2 occupied, table 3 added
	backend.setTables([]model.RestaurantTable{
		seedTable(1, "Mesa 1", model.TableAvailable),
		seedTable(2, "Mesa 2", model.TableOccupied),
		seedTable(3, "Mesa 3", model.TableAvailable),
	})
	require.NoError(t, svc.Refresh(ctx))

	tables, err = svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, tables, 3)
	assert.Equal(t, model.TableOccupied, tables[1].Status)
}

func TestTableList_LazyFirstFetch(t *testing.T) {
	backend := newStubTableBackend(seedTable(1, "Mesa 1", model.TableAvailable))
	svc := NewTableService(backend)
	ctx := context.Background()

	_, err := svc.List(ctx)
	require.NoError(t, err)
	_, err = svc.Get(ctx, 1)
	require.NoError(t, err)
	// Second read served from the mirror, no refetch
	assert.Equal(t, 1, backend.fetches())
}

func TestTableSession_ReplacesMirroredSession(t *testing.T) {
	backend := newStubTableBackend(seedTable(1, "Mesa 1", model.TableAvailable))
	backend.sessions[1] = &model.TableSession{TableID: 1, GuestCount: 4}
	svc := NewTableService(backend)
	ctx := context.Background()

	// Load the mirror first; Session then patches the loaded entry
	_, err := svc.List(ctx)
	require.NoError(t, err)

	session, err := svc.Session(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 4, session.GuestCount)

	table, err := svc.Get(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, table.ActiveSession)
	// A table with a live session is mirrored as occupied regardless of the
	// list status fetched earlier
	assert.Equal(t, model.TableOccupied, table.Status)
}

func TestTableOpen_MarksOccupied(t *testing.T) {
	backend := newStubTableBackend(seedTable(1, "Mesa 1", model.TableAvailable))
	svc := NewTableService(backend)
	ctx := context.Background()

	session, err := svc.Open(ctx, 1, dto.OpenTableRequest{GuestCount: 3})
	require.NoError(t, err)
	assert.Equal(t, 3, session.GuestCount)

	table, err := svc.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, model.TableOccupied, table.Status)
}

func TestTableRemoveItem_RefetchesList(t *testing.T) {
	backend := newStubTableBackend(seedTable(1, "Mesa 1", model.TableOccupied))
	backend.sessions[1] = &model.TableSession{
		TableID: 1,
		Lines: []model.InvoiceDetail{
			{ID: 10, ProductName: "Pizza", Quantity: 1},
			{ID: 11, ProductName: "Jugo", Quantity: 2},
		},
	}
	svc := NewTableService(backend)

	session, err := svc.RemoveItem(context.Background(), 1, 10)
	require.NoError(t, err)
	require.Len(t, session.Lines, 1)
	assert.Equal(t, int64(11), session.Lines[0].ID)
	assert.GreaterOrEqual(t, backend.fetches(), 1)
}

func TestTableChangeStatus(t *testing.T) {
	backend := newStubTableBackend(seedTable(1, "Mesa 1", model.TableAvailable))
	svc := NewTableService(backend)

	table, err := svc.ChangeStatus(context.Background(), 1, model.TableOutOfService)
	require.NoError(t, err)
	assert.Equal(t, model.TableOutOfService, table.Status)

	mirrored, err := svc.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, model.TableOutOfService, mirrored.Status)
}

func TestStartWatching_EventDrivenRefresh(t *testing.T) {
	backend := newStubTableBackend(seedTable(1, "Mesa 1", model.TableAvailable))
	svc := NewTableService(backend)
	broker := events.NewBroker()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	svc.StartWatching(ctx, time.Hour, broker)

	// Give the subscriber goroutine a moment to attach
	require.Eventually(t, func() bool { return broker.SubscriberCount() == 1 }, time.Second, 10*time.Millisecond)

	before := backend.fetches()
	broker.Publish(events.Event{Name: events.EventNewOrder, Data: json.RawMessage(`{}`)})

	assert.Eventually(t, func() bool { return backend.fetches() > before }, time.Second, 10*time.Millisecond)

	// Unrelated events do not trigger a refetch
	after := backend.fetches()
	broker.Publish(events.Event{Name: events.EventKitchenUpdate, Data: json.RawMessage(`{}`)})
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, after, backend.fetches())
}
