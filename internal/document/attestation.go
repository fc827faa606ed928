package document

import (
	"fmt"
	"io"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"
)

// AttestationData is the snapshot a balance attestation is rendered from.
type AttestationData struct {
	Reference string
	FullName  string
	IBAN      string
	BIC       string
	BankName  string
	Amount    decimal.Decimal
	Currency  string
	Comments  string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Attestation writes a balance attestation (AVI) PDF.
func Attestation(w io.Writer, data AttestationData) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(fmt.Sprintf("Attestation %s", data.Reference), false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 12, "Balance Attestation", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 8, data.BankName, "", 1, "C", false, 0, "")
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "", 11)
	body := fmt.Sprintf(
		"We hereby certify that %s holds the account %s (BIC %s) with a balance of %s %s as of %s.",
		data.FullName, data.IBAN, data.BIC,
		data.Amount.StringFixed(2), data.Currency,
		data.IssuedAt.Format("02/01/2006"),
	)
	pdf.MultiCell(0, 7, body, "", "L", false)

	table(pdf, "Details", [][2]string{
		{"Reference", data.Reference},
		{"Issued", data.IssuedAt.Format("02/01/2006")},
		{"Valid until", data.ExpiresAt.Format("02/01/2006")},
	})

	if data.Comments != "" {
		pdf.Ln(4)
		pdf.SetFont("Helvetica", "I", 10)
		pdf.MultiCell(0, 6, data.Comments, "", "L", false)
	}

	pdf.Ln(16)
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(90, 8, "", "", 0, "", false, 0, "")
	pdf.CellFormat(90, 8, "Authorized signature", "T", 1, "C", false, 0, "")

	footer(pdf)
	return pdf.Output(w)
}
