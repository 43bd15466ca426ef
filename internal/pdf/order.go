// Package pdf renders printable order confirmations with go-pdf/fpdf.
package pdf

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"

	"go-sales-tracker/internal/service"
)

// RenderOrder lays out an A4 confirmation for one order: header, item table,
// totals and the payments received so far.
func RenderOrder(s service.OrderSummary) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.SetTitle(s.Order.OrderCode, true)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 30

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(contentW, 9, tr("Order "+s.Order.OrderCode), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(contentW, 6, tr("Customer: "+s.CustomerName), "", 1, "L", false, 0, "")
	pdf.CellFormat(contentW, 6, "Date: "+s.Order.OrderDate.Format("02/01/2006"), "", 1, "L", false, 0, "")
	pdf.CellFormat(contentW, 6, "Status: "+string(s.Order.Status), "", 1, "L", false, 0, "")
	if s.CreatedBy != "" {
		pdf.CellFormat(contentW, 6, tr("Created by: "+s.CreatedBy), "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	// ── Items ────────────────────────────────────────────────────────────────
	col := []float64{contentW * 0.18, contentW * 0.40, contentW * 0.12, contentW * 0.15, contentW * 0.15}
	pdf.SetFont("Helvetica", "B", 9)
	for i, h := range []string{"Code", "Product", "Qty", "Price", "Total"} {
		align := "L"
		if i >= 2 {
			align = "R"
		}
		pdf.CellFormat(col[i], 6, h, "B", 0, align, false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	for _, it := range s.Items {
		name := it.ProductName
		if len(name) > 45 {
			name = name[:44] + "..."
		}
		pdf.CellFormat(col[0], 6, tr(it.ProductCode), "", 0, "L", false, 0, "")
		pdf.CellFormat(col[1], 6, tr(name), "", 0, "L", false, 0, "")
		pdf.CellFormat(col[2], 6, fmt.Sprintf("%d", it.Quantity), "", 0, "R", false, 0, "")
		pdf.CellFormat(col[3], 6, it.Price.StringFixed(2), "", 0, "R", false, 0, "")
		pdf.CellFormat(col[4], 6, it.Total.StringFixed(2), "", 1, "R", false, 0, "")
	}
	pdf.Ln(2)
	pdf.Line(15, pdf.GetY(), pageW-15, pdf.GetY())
	pdf.Ln(2)

	// ── Totals ───────────────────────────────────────────────────────────────
	labelW := contentW - col[4]
	line := func(label, value string, bold bool) {
		style := ""
		if bold {
			style = "B"
		}
		pdf.SetFont("Helvetica", style, 10)
		pdf.CellFormat(labelW, 6, label, "", 0, "R", false, 0, "")
		pdf.CellFormat(col[4], 6, value, "", 1, "R", false, 0, "")
	}
	line("Total:", s.Total.StringFixed(2), true)
	line("Paid:", s.Paid.StringFixed(2), false)
	line("Balance:", s.Balance.StringFixed(2), true)

	if len(s.Payments) > 0 {
		pdf.Ln(4)
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(contentW, 6, "Payments", "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 9)
		for _, p := range s.Payments {
			label := p.PaymentDate.Format("02/01/2006")
			if p.PaymentMethod != "" {
				label += " (" + p.PaymentMethod + ")"
			}
			pdf.CellFormat(labelW, 5, tr(label), "", 0, "L", false, 0, "")
			pdf.CellFormat(col[4], 5, p.Amount.StringFixed(2), "", 1, "R", false, 0, "")
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf: render order %d: %w", s.Order.ID, err)
	}
	return buf.Bytes(), nil
}
