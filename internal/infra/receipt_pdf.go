package infra

// receipt_pdf.go: Thermal-format receipt generation using go-pdf/fpdf.
// Renders an invoice fetched from the backend plus the device branding:
//   - Company name / tax id header
//   - Invoice number, cashier and timestamp
//   - Item table (product name, quantity, subtotal)
//   - Discount line (if applicable)
//   - Bold total, amount received and change
//   - VOID watermark line when the invoice is ANULADA
//
// The output file is saved to storagePath/recibo_{invoiceNumber}.pdf.

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"posmorales/internal/model"

	"github.com/go-pdf/fpdf"
)

// GenerateReceiptPDF renders a PDF receipt for an invoice.
// storagePath is the directory where the PDF will be written (created if needed).
// Returns the absolute path to the generated file.
func GenerateReceiptPDF(inv *model.Invoice, settings model.Settings, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	fileName := fmt.Sprintf("recibo_%s.pdf", sanitizeFileName(inv.InvoiceNumber))
	filePath := filepath.Join(storagePath, fileName)

	// 74mm × 105mm; close to 80mm thermal receipt paper
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: 74, Ht: 105},
	})
	pdf.SetMargins(4, 4, 4)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 8 // total margins = 8mm

	currency := settings.Currency
	if currency == "" {
		currency = "PYG"
	}

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(contentW, 7, settings.CompanyName, "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 8)
	if settings.TaxID != "" {
		pdf.CellFormat(contentW, 4, "RUC: "+settings.TaxID, "", 1, "C", false, 0, "")
	}
	pdf.CellFormat(contentW, 5, "Comprobante de Venta", "", 1, "C", false, 0, "")
	pdf.Ln(2)

	// ── Invoice info ──────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 8)
	pdf.CellFormat(contentW, 5, "Factura "+inv.InvoiceNumber, "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 7)
	pdf.CellFormat(contentW, 4, inv.CreatedAt.Format("02/01/2006  15:04"), "", 1, "L", false, 0, "")
	pdf.CellFormat(contentW, 4, "Cliente: "+inv.CustomerName, "", 1, "L", false, 0, "")
	if inv.IsVoided() {
		pdf.SetFont("Helvetica", "B", 9)
		pdf.CellFormat(contentW, 5, "*** ANULADA ***", "", 1, "C", false, 0, "")
		pdf.SetFont("Helvetica", "", 7)
	}
	pdf.Ln(2)

	// ── Separator ────────────────────────────────────────────────────────────
	pdf.Line(4, pdf.GetY(), pageW-4, pdf.GetY())
	pdf.Ln(2)

	// ── Items header ──────────────────────────────────────────────────────────
	col1 := contentW * 0.52 // product name
	col2 := contentW * 0.16 // qty
	col3 := contentW * 0.32 // subtotal

	pdf.SetFont("Helvetica", "B", 7)
	pdf.CellFormat(col1, 5, "Producto", "B", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 5, "Cant", "B", 0, "C", false, 0, "")
	pdf.CellFormat(col3, 5, "Subtotal", "B", 1, "R", false, 0, "")

	// ── Item rows ─────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "", 7)
	for _, d := range inv.Details {
		name := d.ProductName
		if len(name) > 22 {
			name = name[:21] + "…"
		}
		pdf.CellFormat(col1, 5, name, "", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 5, fmt.Sprintf("x%d", d.Quantity), "", 0, "C", false, 0, "")
		pdf.CellFormat(col3, 5, d.Subtotal.StringFixed(0), "", 1, "R", false, 0, "")
	}

	pdf.Ln(2)
	pdf.Line(4, pdf.GetY(), pageW-4, pdf.GetY())
	pdf.Ln(2)

	// ── Totals ────────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "", 7)
	if !inv.DiscountAmount.IsZero() {
		pdf.CellFormat(col1+col2, 5, "Descuento:", "", 0, "L", false, 0, "")
		pdf.CellFormat(col3, 5, "-"+inv.DiscountAmount.StringFixed(0), "", 1, "R", false, 0, "")
	}

	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(col1+col2, 6, "TOTAL "+currency+":", "", 0, "L", false, 0, "")
	pdf.CellFormat(col3, 6, inv.Total.StringFixed(0), "", 1, "R", false, 0, "")

	// ── Payment ───────────────────────────────────────────────────────────────
	pdf.Ln(2)
	pdf.SetFont("Helvetica", "", 7)
	pdf.CellFormat(col1+col2, 4, "Pago ("+inv.PaymentMethod+"):", "", 0, "L", false, 0, "")
	pdf.CellFormat(col3, 4, inv.AmountReceived.StringFixed(0), "", 1, "R", false, 0, "")
	if inv.PaymentMethod == model.PaymentCash && !inv.Change.IsZero() {
		pdf.CellFormat(col1+col2, 4, "Vuelto:", "", 0, "L", false, 0, "")
		pdf.CellFormat(col3, 4, inv.Change.StringFixed(0), "", 1, "R", false, 0, "")
	}

	// ── Footer ────────────────────────────────────────────────────────────────
	pdf.Ln(3)
	pdf.SetFont("Helvetica", "I", 7)
	pdf.CellFormat(contentW, 4, "¡Gracias por su compra!", "", 1, "C", false, 0, "")

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}

	return filePath, nil
}

// sanitizeFileName strips path separators from server-provided invoice numbers
// (e.g. "001-001-0000123") before using them in a file name.
func sanitizeFileName(s string) string {
	s = strings.ReplaceAll(s, "/", "-")
	return strings.ReplaceAll(s, string(os.PathSeparator), "-")
}
