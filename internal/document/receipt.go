// Package document renders printable PDF artifacts (transaction receipts,
// account statements, attestations) from committed ledger snapshots. The
// renderers are pure: they read their inputs and write a PDF, nothing else.
package document

import (
	"fmt"
	"io"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"
)

const dateLayout = "02/01/2006 15:04"

// ReceiptData is the committed snapshot a receipt is rendered from.
type ReceiptData struct {
	Reference   string
	Date        time.Time
	Kind        string
	Amount      decimal.Decimal
	Currency    string
	Description string

	IBAN     string
	BankName string
	BIC      string

	ClientName  string
	ClientEmail string
}

// ReceiptOptions control optional receipt blocks.
type ReceiptOptions struct {
	Notes         string
	SignatureLine bool
}

// Receipt writes a one-page transaction receipt PDF.
func Receipt(w io.Writer, data ReceiptData, opts ReceiptOptions) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(fmt.Sprintf("Receipt %s", data.Reference), false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 12, "Transaction Receipt", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 8, data.BankName, "", 1, "C", false, 0, "")
	pdf.Ln(6)

	rows := [][2]string{
		{"Reference", data.Reference},
		{"Date", data.Date.Format(dateLayout)},
		{"Type", data.Kind},
		{"Amount", fmt.Sprintf("%s %s", data.Amount.StringFixed(2), data.Currency)},
		{"IBAN", data.IBAN},
		{"BIC", data.BIC},
	}
	if data.Description != "" {
		rows = append(rows, [2]string{"Description", data.Description})
	}
	table(pdf, "Transaction", rows)

	table(pdf, "Client", [][2]string{
		{"Name", data.ClientName},
		{"Email", data.ClientEmail},
	})

	if opts.Notes != "" {
		pdf.Ln(4)
		pdf.SetFont("Helvetica", "I", 10)
		pdf.MultiCell(0, 6, opts.Notes, "", "L", false)
	}

	if opts.SignatureLine {
		pdf.Ln(16)
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(90, 8, "", "", 0, "", false, 0, "")
		pdf.CellFormat(90, 8, "Signature", "T", 1, "C", false, 0, "")
	}

	footer(pdf)
	return pdf.Output(w)
}

// table renders a two-column labelled block with a section heading.
func table(pdf *gofpdf.Fpdf, title string, rows [][2]string) {
	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 8, title, "B", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	for _, row := range rows {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(50, 7, row[0], "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(0, 7, row[1], "", 1, "L", false, 0, "")
	}
}

func footer(pdf *gofpdf.Fpdf) {
	pdf.SetY(-20)
	pdf.SetFont("Helvetica", "I", 8)
	pdf.CellFormat(0, 6, fmt.Sprintf("Generated on %s", time.Now().Format(dateLayout)), "T", 1, "C", false, 0, "")
}
