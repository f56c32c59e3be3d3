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

// InvoiceFetcher is the slice of the backend client the receipt worker needs.
type InvoiceFetcher interface {
	InvoiceByID(ctx context.Context, id int64) (*model.Invoice, error)
}

// ReceiptJobPayload travels through the jobs:receipt queue.
type ReceiptJobPayload struct {
	InvoiceID     int64  `json:"invoice_id"`
	CustomerEmail string `json:"customer_email"`
}

// EmailJobPayload travels through the jobs:email queue.
type EmailJobPayload struct {
	To            string `json:"to"`
	InvoiceNumber string `json:"invoice_number"`
	PDFPath       string `json:"pdf_path"`
}

// ReceiptWorker renders the PDF receipt for a completed sale and, when the
// customer left an email, chains an email job.
type ReceiptWorker struct {
	backend     InvoiceFetcher
	settings    *settings.Store
	dispatcher  *Dispatcher
	storagePath string
}

func NewReceiptWorker(backend InvoiceFetcher, st *settings.Store, dispatcher *Dispatcher, storagePath string) *ReceiptWorker {
	return &ReceiptWorker{backend: backend, settings: st, dispatcher: dispatcher, storagePath: storagePath}
}

func (w *ReceiptWorker) Process(ctx context.Context, payload json.RawMessage) error {
	var job ReceiptJobPayload
	if err := json.Unmarshal(payload, &job); err != nil {
		return fmt.Errorf("invalid receipt payload: %w", err)
	}

	inv, err := w.backend.InvoiceByID(ctx, job.InvoiceID)
	if err != nil {
		return fmt.Errorf("fetching invoice %d: %w", job.InvoiceID, err)
	}

	path, err := infra.GenerateReceiptPDF(inv, w.settings.Get(), w.storagePath)
	if err != nil {
		return fmt.Errorf("rendering receipt for %s: %w", inv.InvoiceNumber, err)
	}
	log.Info().Str("invoice", inv.InvoiceNumber).Str("path", path).Msg("receipt generated")

	if job.CustomerEmail != "" {
		emailJob := EmailJobPayload{To: job.CustomerEmail, InvoiceNumber: inv.InvoiceNumber, PDFPath: path}
		if err := w.dispatcher.EnqueueEmail(ctx, emailJob); err != nil {
			// The receipt itself succeeded; log and move on
			log.Error().Err(err).Str("invoice", inv.InvoiceNumber).Msg("failed to enqueue receipt email")
		}
	}
	return nil
}
