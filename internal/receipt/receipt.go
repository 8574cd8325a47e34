// Package receipt renders a finalized sale as a printable document.
package receipt

import (
	"fmt"
	"io"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/mesa-pos/api/internal/service"
	"github.com/shopspring/decimal"
)

const title = "Receipt"

// Receipt is the fixed layout of a printed sale.
type Receipt struct {
	SaleID          string
	TableID         int
	Lines           []service.LineItem
	Subtotal        decimal.Decimal
	DiscountPercent decimal.Decimal
	Total           decimal.Decimal
	IssuedAt        time.Time
}

// FromSale builds the receipt for s.
func FromSale(s service.Sale) Receipt {
	return Receipt{
		SaleID:          s.ID.String(),
		TableID:         s.TableID,
		Lines:           s.Items,
		Subtotal:        s.Subtotal,
		DiscountPercent: s.DiscountPercent,
		Total:           s.Total,
		IssuedAt:        s.CreatedAt,
	}
}

// Text returns the receipt body one row per line, in print order.
func (r Receipt) Text() []string {
	out := []string{
		title,
		fmt.Sprintf("Table %d", r.TableID),
		r.IssuedAt.Format("2006-01-02 15:04"),
	}
	for _, li := range r.Lines {
		out = append(out, fmt.Sprintf("%s x%d @ %s = %s",
			li.Name, li.Quantity, li.UnitPrice.StringFixed(2), li.LineTotal().StringFixed(2)))
	}
	out = append(out,
		"Subtotal: "+r.Subtotal.StringFixed(2),
		"Discount: "+r.DiscountPercent.StringFixed(2)+"%",
		"Total: "+r.Total.StringFixed(2),
	)
	return out
}

// Render writes the receipt as a single-page PDF.
func (r Receipt) Render(w io.Writer) error {
	pdf := fpdf.New("P", "mm", "A5", "")
	pdf.SetTitle(fmt.Sprintf("%s table %d", title, r.TableID), true)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 10, title, "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 7, fmt.Sprintf("Table %d", r.TableID), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 7, r.IssuedAt.Format("2006-01-02 15:04"), "", 1, "L", false, 0, "")
	if r.SaleID != "" {
		pdf.SetFont("Helvetica", "", 8)
		pdf.CellFormat(0, 5, r.SaleID, "", 1, "L", false, 0, "")
	}
	pdf.Ln(3)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(60, 7, "Item", "B", 0, "L", false, 0, "")
	pdf.CellFormat(15, 7, "Qty", "B", 0, "R", false, 0, "")
	pdf.CellFormat(25, 7, "Price", "B", 0, "R", false, 0, "")
	pdf.CellFormat(28, 7, "Amount", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	for _, li := range r.Lines {
		pdf.CellFormat(60, 6, tr(li.Name), "", 0, "L", false, 0, "")
		pdf.CellFormat(15, 6, fmt.Sprintf("%d", li.Quantity), "", 0, "R", false, 0, "")
		pdf.CellFormat(25, 6, li.UnitPrice.StringFixed(2), "", 0, "R", false, 0, "")
		pdf.CellFormat(28, 6, li.LineTotal().StringFixed(2), "", 1, "R", false, 0, "")
	}
	pdf.Ln(2)

	summary := [][2]string{
		{"Subtotal", r.Subtotal.StringFixed(2)},
		{"Discount", r.DiscountPercent.StringFixed(2) + "%"},
		{"Total", r.Total.StringFixed(2)},
	}
	for i, row := range summary {
		if i == len(summary)-1 {
			pdf.SetFont("Helvetica", "B", 11)
		}
		pdf.CellFormat(100, 7, row[0], "T", 0, "R", false, 0, "")
		pdf.CellFormat(28, 7, row[1], "T", 1, "R", false, 0, "")
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render receipt: %w", err)
	}
	return nil
}
