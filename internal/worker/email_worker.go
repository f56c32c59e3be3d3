package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"

	"posmorales/internal/infra"
)

// EmailWorker delivers receipt PDFs to customers over SMTP.
type EmailWorker struct {
	mailer *infra.Mailer
}

func NewEmailWorker(mailer *infra.Mailer) *EmailWorker {
	return &EmailWorker{mailer: mailer}
}

func (w *EmailWorker) Process(ctx context.Context, payload json.RawMessage) error {
	var job EmailJobPayload
	if err := json.Unmarshal(payload, &job); err != nil {
		return fmt.Errorf("invalid email payload: %w", err)
	}

	subject := fmt.Sprintf("Comprobante de venta %s", job.InvoiceNumber)
	body := fmt.Sprintf("Adjuntamos el comprobante de su compra %s. Gracias por su preferencia.", job.InvoiceNumber)
	if err := w.mailer.SendReceipt(job.To, subject, body, job.PDFPath); err != nil {
		return fmt.Errorf("sending receipt %s to %s: %w", job.InvoiceNumber, job.To, err)
	}
	log.Info().Str("invoice", job.InvoiceNumber).Str("to", job.To).Msg("receipt emailed")
	return nil
}
