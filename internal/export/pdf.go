package export

import (
	"fmt"
	"io"

	"github.com/phpdave11/gofpdf"
)

var pdfColumnWidths = []float64{24, 50, 36, 24, 56}

// WritePDF renders an A4 statement with one table row per transaction.
func WritePDF(w io.Writer, t Table) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Transactions export", false)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, "Transactions")
	pdf.Ln(12)

	header := func() {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.SetFillColor(238, 238, 248)
		for i, h := range t.Header {
			pdf.CellFormat(pdfColumnWidths[i], 7, tr(h), "1", 0, "L", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Helvetica", "", 9)
	}
	header()

	_, pageHeight := pdf.GetPageSize()
	_, _, _, bottom := pdf.GetMargins()
	for _, row := range t.Rows {
		if pdf.GetY()+6 > pageHeight-bottom-10 {
			pdf.AddPage()
			header()
		}
		for i, v := range row {
			align := "L"
			if i == 3 {
				align = "R"
			}
			pdf.CellFormat(pdfColumnWidths[i], 6, tr(truncate(pdf, v, pdfColumnWidths[i]-2)), "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "I", 9)
	pdf.Cell(0, 6, fmt.Sprintf("%d transactions", len(t.Rows)))

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

// truncate shortens s so it fits in width mm with the current font.
func truncate(pdf *gofpdf.Fpdf, s string, width float64) string {
	if pdf.GetStringWidth(s) <= width {
		return s
	}
	r := []rune(s)
	for len(r) > 0 && pdf.GetStringWidth(string(r)+"...") > width {
		r = r[:len(r)-1]
	}
	return string(r) + "..."
}
