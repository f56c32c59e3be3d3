package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"

	"posmorales/internal/infra"
	"posmorales/internal/model"
	"posmorales/internal/settings"
)

// SalesFetcher is the slice of the backend client the report worker needs.
type SalesFetcher interface {
	InvoicesByRange(ctx context.Context, from, to string) ([]model.Invoice, error)
}

// ReportJobPayload travels through the jobs:report queue.
type ReportJobPayload struct {
	JobID    string `json:"job_id"`
	From     string `json:"from"`
	To       string `json:"to"`
	FileName string `json:"file_name"`
}

// ReportWorker exports a sales range to an Excel workbook on local disk.
type ReportWorker struct {
	backend     SalesFetcher
	settings    *settings.Store
	storagePath string
}

func NewReportWorker(backend SalesFetcher, st *settings.Store, storagePath string) *ReportWorker {
	return &ReportWorker{backend: backend, settings: st, storagePath: storagePath}
}

func (w *ReportWorker) Process(ctx context.Context, payload json.RawMessage) error {
	var job ReportJobPayload
	if err := json.Unmarshal(payload, &job); err != nil {
		return fmt.Errorf("invalid report payload: %w", err)
	}

	invoices, err := w.backend.InvoicesByRange(ctx, job.From, job.To)
	if err != nil {
		return fmt.Errorf("fetching sales %s..%s: %w", job.From, job.To, err)
	}

	path, err := infra.GenerateSalesReport(invoices, w.settings.Get(), w.storagePath, job.FileName)
	if err != nil {
		return fmt.Errorf("writing report %s: %w", job.FileName, err)
	}
	log.Info().Str("job_id", job.JobID).Str("path", path).Int("invoices", len(invoices)).Msg("sales report exported")
	return nil
}
