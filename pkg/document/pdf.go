// Package document renders invoices and quotes as PDF files.
package document

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/merocrm/mero-crm/pkg/totals"
)

// Kind is the type of document being rendered
type Kind string

const (
	KindInvoice Kind = "INVOICE"
	KindQuote   Kind = "QUOTE"
)

// Label returns the human readable name of the kind
func (k Kind) Label() string {
	if k == KindQuote {
		return "Quote"
	}
	return "Invoice"
}

// Party is the issuer or the recipient of a document
type Party struct {
	Name      string
	Email     string
	Phone     string
	Address   string
	TaxNumber string
}

// Document is everything printed on an invoice or quote
type Document struct {
	Kind     Kind
	Number   string
	Date     time.Time
	DueDate  *time.Time
	Status   string
	Currency string
	Company  Party
	Client   Party
	Items    []totals.LineItem
	TaxRate  float64
	Discount float64
	// Credit is the amount already paid; only printed on invoices
	Credit float64
	Notes  string
}

// Totals returns the computed totals of the document
func (d Document) Totals() totals.Totals {
	return totals.Compute(d.Items, d.TaxRate, d.Discount)
}

// Generator renders documents
type Generator struct {
	footer string
}

// NewGenerator creates a generator. footer is printed at the bottom of every document.
func NewGenerator(footer string) *Generator {
	return &Generator{footer: footer}
}

// Generate renders doc and returns the PDF bytes
func (g *Generator) Generate(doc Document) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(tr(fmt.Sprintf("%s %s", doc.Kind.Label(), doc.Number)), false)
	pdf.SetCreator("Mero CRM", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(100, 10, tr(doc.Company.Name), "", 0, "L", false, 0, "")
	pdf.CellFormat(0, 10, string(doc.Kind), "", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	for _, line := range partyLines(doc.Company) {
		pdf.CellFormat(0, 5, tr(line), "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(100, 6, "Bill to", "", 0, "L", false, 0, "")
	pdf.CellFormat(0, 6, tr("No. "+doc.Number), "", 1, "R", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(100, 5, tr(doc.Client.Name), "", 0, "L", false, 0, "")
	pdf.CellFormat(0, 5, "Date: "+doc.Date.Format("2006-01-02"), "", 1, "R", false, 0, "")
	clientLines := partyLines(doc.Client)
	right := []string{}
	if doc.DueDate != nil {
		label := "Due"
		if doc.Kind == KindQuote {
			label = "Valid until"
		}
		right = append(right, fmt.Sprintf("%s: %s", label, doc.DueDate.Format("2006-01-02")))
	}
	if doc.Status != "" {
		right = append(right, "Status: "+doc.Status)
	}
	for i := 0; i < len(clientLines) || i < len(right); i++ {
		left, r := "", ""
		if i < len(clientLines) {
			left = clientLines[i]
		}
		if i < len(right) {
			r = right[i]
		}
		pdf.CellFormat(100, 5, tr(left), "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 5, tr(r), "", 1, "R", false, 0, "")
	}
	pdf.Ln(6)

	widths := []float64{95, 25, 35, 35}
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(235, 235, 235)
	for i, h := range []string{"Description", "Qty", "Unit price", "Total"} {
		align := "R"
		if i == 0 {
			align = "L"
		}
		pdf.CellFormat(widths[i], 7, h, "B", 0, align, true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	for _, it := range doc.Items {
		pdf.CellFormat(widths[0], 6, tr(trim(it.Description, 55)), "", 0, "L", false, 0, "")
		pdf.CellFormat(widths[1], 6, formatQuantity(it.Quantity), "", 0, "R", false, 0, "")
		pdf.CellFormat(widths[2], 6, totals.Format(it.UnitPrice), "", 0, "R", false, 0, "")
		pdf.CellFormat(widths[3], 6, totals.Format(it.Total()), "", 1, "R", false, 0, "")
	}
	pdf.Ln(4)

	t := doc.Totals()
	summary := [][2]string{
		{"Subtotal", totals.FormatMoney(doc.Currency, t.Subtotal)},
		{fmt.Sprintf("Tax (%s%%)", totals.Format(t.TaxRate)), totals.FormatMoney(doc.Currency, t.TaxAmount)},
	}
	if t.Discount != 0 {
		summary = append(summary, [2]string{"Discount", "-" + totals.FormatMoney(doc.Currency, t.Discount)})
	}
	summary = append(summary, [2]string{"Total", totals.FormatMoney(doc.Currency, t.Total)})
	if doc.Kind == KindInvoice && doc.Credit != 0 {
		summary = append(summary,
			[2]string{"Paid", totals.FormatMoney(doc.Currency, doc.Credit)},
			[2]string{"Balance due", totals.FormatMoney(doc.Currency, t.Total-doc.Credit)},
		)
	}
	for _, row := range summary {
		style := ""
		if row[0] == "Total" || row[0] == "Balance due" {
			style = "B"
		}
		pdf.SetFont("Helvetica", style, 10)
		pdf.CellFormat(widths[0]+widths[1], 6, "", "", 0, "L", false, 0, "")
		pdf.CellFormat(widths[2], 6, row[0], "", 0, "R", false, 0, "")
		pdf.CellFormat(widths[3], 6, row[1], "", 1, "R", false, 0, "")
	}

	if doc.Notes != "" {
		pdf.Ln(6)
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(0, 6, "Notes", "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 9)
		pdf.MultiCell(0, 5, tr(doc.Notes), "", "L", false)
	}

	if g.footer != "" {
		pdf.SetY(-20)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.CellFormat(0, 5, tr(g.footer), "", 0, "C", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render %s %s: %w", strings.ToLower(string(doc.Kind)), doc.Number, err)
	}
	return buf.Bytes(), nil
}

// FileName returns a download name such as invoice-INV-2025-0007.pdf
func FileName(doc Document) string {
	number := strings.NewReplacer("/", "-", " ", "-").Replace(doc.Number)
	return fmt.Sprintf("%s-%s.pdf", strings.ToLower(string(doc.Kind)), number)
}

func partyLines(p Party) []string {
	var lines []string
	for _, s := range []string{p.Address, p.Email, p.Phone} {
		if s != "" {
			lines = append(lines, s)
		}
	}
	if p.TaxNumber != "" {
		lines = append(lines, "Tax no. "+p.TaxNumber)
	}
	return lines
}

func formatQuantity(q float64) string {
	if q == float64(int64(q)) {
		return fmt.Sprintf("%d", int64(q))
	}
	return totals.Format(q)
}

func trim(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}
