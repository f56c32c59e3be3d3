package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"posmorales/internal/model"

	"github.com/rs/zerolog/log"
)

// CatalogBackend is the slice of the upstream client the catalog needs.
type CatalogBackend interface {
	Products(ctx context.Context) ([]model.Product, error)
	Categories(ctx context.Context) ([]model.Category, error)
}

// CatalogService serves the product/category snapshot that feeds the cart and
// the stock guard. The snapshot is read-through: refreshed on demand, after
// every completed sale, and lazily when empty. AvailableStock values are
// heuristic between refreshes; the server re-checks at confirmation time.
type CatalogService interface {
	Refresh(ctx context.Context) error
	Products(ctx context.Context, search string, categoryID int64) ([]model.Product, error)
	Categories(ctx context.Context) ([]model.Category, error)
	ProductByID(ctx context.Context, id int64) (*model.Product, error)
}

type catalogService struct {
	backend CatalogBackend

	mu          sync.RWMutex
	products    []model.Product
	byID        map[int64]int
	categories  []model.Category
	refreshedAt time.Time
}

func NewCatalogService(backend CatalogBackend) CatalogService {
	return &catalogService{backend: backend, byID: make(map[int64]int)}
}

// Refresh refetches products and categories wholesale and rebuilds the index.
func (s *catalogService) Refresh(ctx context.Context) error {
	products, err := s.backend.Products(ctx)
	if err != nil {
		return fmt.Errorf("catalog: fetch products: %w", err)
	}
	categories, err := s.backend.Categories(ctx)
	if err != nil {
		return fmt.Errorf("catalog: fetch categories: %w", err)
	}

	byID := make(map[int64]int, len(products))
	for i, p := range products {
		byID[p.ID] = i
	}

	s.mu.Lock()
	s.products = products
	s.byID = byID
	s.categories = categories
	s.refreshedAt = time.Now()
	s.mu.Unlock()

	log.Debug().Int("products", len(products)).Int("categories", len(categories)).Msg("catalog: snapshot refreshed")
	return nil
}

func (s *catalogService) ensureLoaded(ctx context.Context) error {
	s.mu.RLock()
	loaded := !s.refreshedAt.IsZero()
	s.mu.RUnlock()
	if loaded {
		return nil
	}
	return s.Refresh(ctx)
}

// Products filters the snapshot by name/code search and category. Inactive
// products are never offered to the cart.
func (s *catalogService) Products(ctx context.Context, search string, categoryID int64) ([]model.Product, error) {
	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	needle := strings.ToLower(strings.TrimSpace(search))
	out := make([]model.Product, 0, len(s.products))
	for _, p := range s.products {
		if !p.Active {
			continue
		}
		if categoryID != 0 && p.CategoryID != categoryID {
			continue
		}
		if needle != "" &&
			!strings.Contains(strings.ToLower(p.Name), needle) &&
			!strings.Contains(strings.ToLower(p.Code), needle) {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (s *catalogService) Categories(ctx context.Context) ([]model.Category, error) {
	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.Category(nil), s.categories...), nil
}

// ProductByID returns a copy of the snapshot entry for the product.
func (s *catalogService) ProductByID(ctx context.Context, id int64) (*model.Product, error) {
	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx, ok := s.byID[id]
	if !ok {
		return nil, fmt.Errorf("producto %d no encontrado", id)
	}
	p := s.products[idx]
	return &p, nil
}
