package document

import (
	"fmt"
	"io"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"
)

// StatementEntry is one ledger line on a statement. Amount carries the sign
// applied to the balance.
type StatementEntry struct {
	Date        time.Time
	Kind        string
	Description string
	Amount      decimal.Decimal
}

// StatementData is the committed snapshot a statement is rendered from.
type StatementData struct {
	HolderName string
	IBAN       string
	BIC        string
	BankName   string
	Currency   string

	From           time.Time
	To             time.Time
	OpeningBalance decimal.Decimal
	ClosingBalance decimal.Decimal
	Entries        []StatementEntry
}

// Statement writes an account statement PDF covering one period.
func Statement(w io.Writer, data StatementData) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(fmt.Sprintf("Statement %s", data.IBAN), false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 12, "Account Statement", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 8, data.BankName, "", 1, "C", false, 0, "")
	pdf.Ln(4)

	table(pdf, "Account", [][2]string{
		{"Holder", data.HolderName},
		{"IBAN", data.IBAN},
		{"BIC", data.BIC},
		{"Currency", data.Currency},
		{"Period", fmt.Sprintf("%s to %s", data.From.Format("02/01/2006"), data.To.Format("02/01/2006"))},
		{"Opening balance", data.OpeningBalance.StringFixed(2)},
		{"Closing balance", data.ClosingBalance.StringFixed(2)},
	})

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 8, "Transactions", "B", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(30, 7, "Date", "B", 0, "L", false, 0, "")
	pdf.CellFormat(30, 7, "Type", "B", 0, "L", false, 0, "")
	pdf.CellFormat(95, 7, "Description", "B", 0, "L", false, 0, "")
	pdf.CellFormat(0, 7, "Amount", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	if len(data.Entries) == 0 {
		pdf.CellFormat(0, 7, "No movements in this period", "", 1, "C", false, 0, "")
	}
	for _, e := range data.Entries {
		pdf.CellFormat(30, 6, e.Date.Format("02/01/2006"), "", 0, "L", false, 0, "")
		pdf.CellFormat(30, 6, e.Kind, "", 0, "L", false, 0, "")
		pdf.CellFormat(95, 6, e.Description, "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 6, e.Amount.StringFixed(2), "", 1, "R", false, 0, "")
	}

	footer(pdf)
	return pdf.Output(w)
}
