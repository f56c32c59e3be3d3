package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"posmorales/internal/dto"
	"posmorales/internal/events"
	"posmorales/internal/model"
	"posmorales/internal/upstream"

	"github.com/rs/zerolog/log"
)

// TableBackend is the slice of the upstream client the table mirror needs.
type TableBackend interface {
	Tables(ctx context.Context) ([]model.RestaurantTable, error)
	TableSession(ctx context.Context, tableID int64) (*model.TableSession, error)
	OpenTable(ctx context.Context, tableID int64, req upstream.OpenTableRequest) (*model.TableSession, error)
	RemoveTableItem(ctx context.Context, tableID, detailID int64) (*model.TableSession, error)
	ChangeTableStatus(ctx context.Context, tableID int64, status string) (*model.RestaurantTable, error)
}

// TableService mirrors the server-owned table list. Reconciliation rules:
// every mutating call is followed by a wholesale list refetch (never an
// in-place patch), a returned session replaces the local one entirely, and a
// background poller independently converges state changed on other terminals.
type TableService interface {
	List(ctx context.Context) ([]model.RestaurantTable, error)
	Get(ctx context.Context, tableID int64) (*model.RestaurantTable, error)
	Session(ctx context.Context, tableID int64) (*model.TableSession, error)
	Open(ctx context.Context, tableID int64, req dto.OpenTableRequest) (*model.TableSession, error)
	Refresh(ctx context.Context) error
	RemoveItem(ctx context.Context, tableID, detailID int64) (*model.TableSession, error)
	ChangeStatus(ctx context.Context, tableID int64, status string) (*model.RestaurantTable, error)

	// StartWatching launches the poll timer and the event-driven refresh;
	// both stop when ctx is cancelled.
	StartWatching(ctx context.Context, interval time.Duration, broker *events.Broker)
}

type tableService struct {
	backend TableBackend

	mu          sync.RWMutex
	tables      []model.RestaurantTable
	byID        map[int64]int
	refreshedAt time.Time
}

func NewTableService(backend TableBackend) TableService {
	return &tableService{backend: backend, byID: make(map[int64]int)}
}

// Refresh refetches the full table list and replaces the mirror wholesale -
// the chosen mitigation for lost-update races across terminals.
func (s *tableService) Refresh(ctx context.Context) error {
	tables, err := s.backend.Tables(ctx)
	if err != nil {
		return fmt.Errorf("tables: fetch list: %w", err)
	}

	byID := make(map[int64]int, len(tables))
	for i, t := range tables {
		byID[t.ID] = i
	}

	s.mu.Lock()
	s.tables = tables
	s.byID = byID
	s.refreshedAt = time.Now()
	s.mu.Unlock()
	return nil
}

func (s *tableService) ensureLoaded(ctx context.Context) error {
	s.mu.RLock()
	loaded := !s.refreshedAt.IsZero()
	s.mu.RUnlock()
	if loaded {
		return nil
	}
	return s.Refresh(ctx)
}

func (s *tableService) List(ctx context.Context) ([]model.RestaurantTable, error) {
	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.RestaurantTable(nil), s.tables...), nil
}

func (s *tableService) Get(ctx context.Context, tableID int64) (*model.RestaurantTable, error) {
	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx, ok := s.byID[tableID]
	if !ok {
		return nil, fmt.Errorf("mesa %d no encontrada", tableID)
	}
	t := s.tables[idx]
	return &t, nil
}

// Session fetches the table's active session from the server and stores it on
// the mirrored table (wholesale replace, no merge).
func (s *tableService) Session(ctx context.Context, tableID int64) (*model.TableSession, error) {
	session, err := s.backend.TableSession(ctx, tableID)
	if err != nil {
		return nil, err
	}
	s.applySession(tableID, session)
	return session, nil
}

// Open starts a dine-in session without ordering: guests sit down first, the
// items come later. Rejected server-side unless the table is DISPONIBLE.
func (s *tableService) Open(ctx context.Context, tableID int64, req dto.OpenTableRequest) (*model.TableSession, error) {
	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	session, err := s.backend.OpenTable(ctx, tableID, upstream.OpenTableRequest{
		GuestCount: req.GuestCount,
		CustomerID: req.CustomerID,
		Notes:      req.Notes,
	})
	if err != nil {
		return nil, err
	}
	s.applySession(tableID, session)
	if err := s.Refresh(ctx); err != nil {
		log.Warn().Err(err).Int64("table_id", tableID).Msg("tables: refresh after open failed")
	}
	return session, nil
}

// RemoveItem deletes a line from the open session, then refetches the list.
func (s *tableService) RemoveItem(ctx context.Context, tableID, detailID int64) (*model.TableSession, error) {
	session, err := s.backend.RemoveTableItem(ctx, tableID, detailID)
	if err != nil {
		return nil, err
	}
	s.applySession(tableID, session)
	if err := s.Refresh(ctx); err != nil {
		log.Warn().Err(err).Int64("table_id", tableID).Msg("tables: refresh after remove item failed")
	}
	return session, nil
}

// ChangeStatus passes the admin override through and refetches the list; the
// server decides whether the transition is legal.
func (s *tableService) ChangeStatus(ctx context.Context, tableID int64, status string) (*model.RestaurantTable, error) {
	table, err := s.backend.ChangeTableStatus(ctx, tableID, status)
	if err != nil {
		return nil, err
	}
	if err := s.Refresh(ctx); err != nil {
		log.Warn().Err(err).Int64("table_id", tableID).Msg("tables: refresh after status change failed")
	}
	return table, nil
}

// applySession replaces the mirrored activeSession for one table. The session
// is server-returned and complete; no field-level merge happens here.
func (s *tableService) applySession(tableID int64, session *model.TableSession) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if idx, ok := s.byID[tableID]; ok {
		s.tables[idx].ActiveSession = session
		if session != nil {
			s.tables[idx].Status = model.TableOccupied
		}
	}
}

// StartWatching runs the periodic poll and subscribes to the event broker so
// order activity on other terminals shows up before the next tick. Both
// goroutines exit when ctx is cancelled.
func (s *tableService) StartWatching(ctx context.Context, interval time.Duration, broker *events.Broker) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("tables: poll timer stopped")
				return
			case <-ticker.C:
				if err := s.Refresh(ctx); err != nil {
					log.Warn().Err(err).Msg("tables: poll refresh failed")
				}
			}
		}
	}()

	if broker == nil {
		return
	}
	ch, cancel := broker.Subscribe()
	go func() {
		defer cancel()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-ch:
				if !ok {
					return
				}
				if ev.Name != events.EventNewOrder && ev.Name != events.EventOrderPaid {
					continue
				}
				if err := s.Refresh(ctx); err != nil {
					log.Warn().Err(err).Str("event", ev.Name).Msg("tables: event refresh failed")
				}
			}
		}
	}()
}
