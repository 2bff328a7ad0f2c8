package export

import (
	"io"

	"github.com/jung-kurt/gofpdf"

	"salesdash/internal/models"
)

var colWidths = []float64{70, 25, 25, 25, 22, 22, 22, 22, 18}

// WritePDF emits the same drill-down rows as a landscape A4 table.
func WritePDF(w io.Writer, title string, rows []models.EntitySalesRow) error {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(10, 12, 10)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 8, title, "", 1, "L", false, 0, "")
	pdf.Ln(2)

	writeHeader(pdf)

	pdf.SetFont("Helvetica", "", 8)
	for _, r := range rows {
		// Repeat the header after a page break.
		if pdf.GetY() > 185 {
			pdf.AddPage()
			writeHeader(pdf)
			pdf.SetFont("Helvetica", "", 8)
		}
		for i, cell := range cells(r) {
			align := "R"
			if i < 2 {
				align = "L"
			}
			pdf.CellFormat(colWidths[i], 6, cell, "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	return pdf.Output(w)
}

func writeHeader(pdf *gofpdf.Fpdf) {
	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetFillColor(230, 230, 230)
	for i, c := range columns {
		pdf.CellFormat(colWidths[i], 7, c, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)
}
