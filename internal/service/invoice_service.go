package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"posmorales/internal/dto"
	"posmorales/internal/model"

	"github.com/shopspring/decimal"
)

// ErrAlreadyVoided blocks a second void attempt before it reaches the network.
var ErrAlreadyVoided = errors.New("la factura ya esta anulada")

// InvoiceBackend is the slice of the upstream client the invoice views need.
type InvoiceBackend interface {
	InvoiceByID(ctx context.Context, id int64) (*model.Invoice, error)
	InvoicesByRange(ctx context.Context, from, to string) ([]model.Invoice, error)
	VoidInvoice(ctx context.Context, id int64, reason string) (*model.Invoice, error)
}

// InvoiceService reads the authoritative ledger and performs the one mutation
// the terminal is allowed: the void transition.
type InvoiceService interface {
	List(ctx context.Context, filter dto.InvoiceFilter) (*dto.InvoiceListResponse, error)
	Get(ctx context.Context, id int64) (*model.Invoice, error)
	Void(ctx context.Context, id int64, reason string) (*model.Invoice, error)
	Dashboard(ctx context.Context) (*dto.DashboardResponse, error)
}

type invoiceService struct {
	backend InvoiceBackend
}

func NewInvoiceService(backend InvoiceBackend) InvoiceService {
	return &invoiceService{backend: backend}
}

const dateLayout = "2006-01-02"

// List fetches the date range and partitions it client-side: the active/voided
// split is a pure filter over status, not a separate fetch.
func (s *invoiceService) List(ctx context.Context, filter dto.InvoiceFilter) (*dto.InvoiceListResponse, error) {
	from := filter.From
	if from == "" {
		from = time.Now().Format(dateLayout)
	}
	to := filter.To
	if to == "" {
		to = from
	}

	invoices, err := s.backend.InvoicesByRange(ctx, from, to)
	if err != nil {
		return nil, err
	}

	out := make([]model.Invoice, 0, len(invoices))
	for _, inv := range invoices {
		switch filter.Partition {
		case "voided":
			if !inv.IsVoided() {
				continue
			}
		case "all":
		default: // active
			if inv.IsVoided() {
				continue
			}
		}
		out = append(out, inv)
	}

	return &dto.InvoiceListResponse{Data: out, Total: len(out)}, nil
}

func (s *invoiceService) Get(ctx context.Context, id int64) (*model.Invoice, error) {
	return s.backend.InvoiceByID(ctx, id)
}

// Void flips the invoice to ANULADA. The current status is checked first so
// an obviously redundant void never reaches the server; a race that slips
// through is rejected server-side and surfaced, never silently accepted.
func (s *invoiceService) Void(ctx context.Context, id int64, reason string) (*model.Invoice, error) {
	current, err := s.backend.InvoiceByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.IsVoided() {
		return nil, ErrAlreadyVoided
	}
	return s.backend.VoidInvoice(ctx, id, reason)
}

// Dashboard aggregates today's invoices into the summary card figures.
// Voided invoices count toward VoidedCount only.
func (s *invoiceService) Dashboard(ctx context.Context) (*dto.DashboardResponse, error) {
	today := time.Now().Format(dateLayout)
	invoices, err := s.backend.InvoicesByRange(ctx, today, today)
	if err != nil {
		return nil, err
	}

	resp := &dto.DashboardResponse{ByMethod: make(map[string]string)}
	subtotal := decimal.Zero
	discounts := decimal.Zero
	total := decimal.Zero
	byMethod := make(map[string]decimal.Decimal)

	type productAgg struct {
		name     string
		quantity int
		amount   decimal.Decimal
	}
	byProduct := make(map[int64]*productAgg)

	for _, inv := range invoices {
		if inv.IsVoided() {
			resp.VoidedCount++
			continue
		}
		resp.SalesCount++
		subtotal = subtotal.Add(inv.Subtotal)
		discounts = discounts.Add(inv.DiscountAmount)
		total = total.Add(inv.Total)
		byMethod[inv.PaymentMethod] = byMethod[inv.PaymentMethod].Add(inv.Total)

		for _, d := range inv.Details {
			agg, ok := byProduct[d.ProductID]
			if !ok {
				agg = &productAgg{name: d.ProductName}
				byProduct[d.ProductID] = agg
			}
			agg.quantity += d.Quantity
			agg.amount = agg.amount.Add(d.Subtotal)
		}
	}

	resp.Subtotal = subtotal.StringFixed(2)
	resp.Discounts = discounts.StringFixed(2)
	resp.Total = total.StringFixed(2)
	for method, amount := range byMethod {
		resp.ByMethod[method] = amount.StringFixed(2)
	}

	top := make([]dto.TopProductEntry, 0, len(byProduct))
	for id, agg := range byProduct {
		top = append(top, dto.TopProductEntry{
			ProductID: id,
			Name:      agg.name,
			Quantity:  agg.quantity,
			Amount:    agg.amount.StringFixed(2),
		})
	}
	sort.Slice(top, func(i, j int) bool { return top[i].Quantity > top[j].Quantity })
	if len(top) > 5 {
		top = top[:5]
	}
	resp.TopProducts = top

	return resp, nil
}
