package infra

// excel.go: Sales report workbook generation using excelize.
// One row per invoice in the requested range; voided invoices are listed with
// their status but excluded from the totals row.

import (
	"fmt"
	"os"
	"path/filepath"

	"posmorales/internal/model"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const reportSheet = "Ventas"

var reportHeaders = []string{"Factura", "Fecha", "Cliente", "Metodo de Pago", "Subtotal", "Descuento", "Total", "Estado"}

// GenerateSalesReport writes an .xlsx workbook for the given invoices and
// returns the absolute path of the file. fileName should not include a path.
func GenerateSalesReport(invoices []model.Invoice, settings model.Settings, storagePath, fileName string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("excel: create storage dir: %w", err)
	}
	filePath := filepath.Join(storagePath, fileName)

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", reportSheet); err != nil {
		return "", fmt.Errorf("excel: rename sheet: %w", err)
	}

	boldStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return "", fmt.Errorf("excel: create style: %w", err)
	}

	// Title + header row
	_ = f.SetCellValue(reportSheet, "A1", settings.CompanyName+" - Reporte de Ventas")
	_ = f.SetCellStyle(reportSheet, "A1", "A1", boldStyle)
	for i, h := range reportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 3)
		_ = f.SetCellValue(reportSheet, cell, h)
		_ = f.SetCellStyle(reportSheet, cell, cell, boldStyle)
	}

	subtotal := decimal.Zero
	discounts := decimal.Zero
	total := decimal.Zero

	row := 4
	for _, inv := range invoices {
		values := []interface{}{
			inv.InvoiceNumber,
			inv.CreatedAt.Format("02/01/2006 15:04"),
			inv.CustomerName,
			inv.PaymentMethod,
			inv.Subtotal.InexactFloat64(),
			inv.DiscountAmount.InexactFloat64(),
			inv.Total.InexactFloat64(),
			inv.Status,
		}
		for i, v := range values {
			cell, _ := excelize.CoordinatesToCellName(i+1, row)
			_ = f.SetCellValue(reportSheet, cell, v)
		}
		if !inv.IsVoided() {
			subtotal = subtotal.Add(inv.Subtotal)
			discounts = discounts.Add(inv.DiscountAmount)
			total = total.Add(inv.Total)
		}
		row++
	}

	// Totals row; completed invoices only
	totalsRow := row + 1
	cellLabel, _ := excelize.CoordinatesToCellName(4, totalsRow)
	_ = f.SetCellValue(reportSheet, cellLabel, "TOTALES")
	for i, v := range []float64{subtotal.InexactFloat64(), discounts.InexactFloat64(), total.InexactFloat64()} {
		cell, _ := excelize.CoordinatesToCellName(5+i, totalsRow)
		_ = f.SetCellValue(reportSheet, cell, v)
	}
	lastCell, _ := excelize.CoordinatesToCellName(7, totalsRow)
	_ = f.SetCellStyle(reportSheet, cellLabel, lastCell, boldStyle)

	_ = f.SetColWidth(reportSheet, "A", "D", 20)
	_ = f.SetColWidth(reportSheet, "E", "H", 14)

	if err := f.SaveAs(filePath); err != nil {
		return "", fmt.Errorf("excel: save workbook: %w", err)
	}
	return filePath, nil
}
