package document

import (
	"bytes"
	"testing"
	"time"

	"github.com/merocrm/mero-crm/pkg/totals"
)

func sampleDocument(kind Kind) Document {
	due := time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC)
	return Document{
		Kind:     kind,
		Number:   "INV-2025-0007",
		Date:     time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		DueDate:  &due,
		Status:   "sent",
		Currency: "USD",
		Company:  Party{Name: "Acme Ltd", Email: "billing@acme.test"},
		Client:   Party{Name: "Café Zürich", Address: "Bahnhofstrasse 1", TaxNumber: "CHE-123"},
		Items: []totals.LineItem{
			{Description: "Consulting", Quantity: 2, UnitPrice: 50},
			{Description: "Setup", Quantity: 1, UnitPrice: 30},
		},
		TaxRate:  10,
		Discount: 5,
		Credit:   38,
		Notes:    "Thank you for your business.",
	}
}

func TestGenerate(t *testing.T) {
	g := NewGenerator("Mero CRM")
	for _, kind := range []Kind{KindInvoice, KindQuote} {
		t.Run(string(kind), func(t *testing.T) {
			out, err := g.Generate(sampleDocument(kind))
			if err != nil {
				t.Fatalf("Generate() error = %v", err)
			}
			if !bytes.HasPrefix(out, []byte("%PDF-")) {
				t.Errorf("output does not start with a PDF header: %q", out[:8])
			}
		})
	}
}

func TestDocumentTotals(t *testing.T) {
	got := sampleDocument(KindInvoice).Totals()
	if got.Subtotal != 130 || got.TaxAmount != 13 || got.Total != 138 {
		t.Errorf("Totals() = %+v", got)
	}
}

func TestFileName(t *testing.T) {
	doc := sampleDocument(KindQuote)
	doc.Number = "QT/2025 12"
	if got := FileName(doc); got != "quote-QT-2025-12.pdf" {
		t.Errorf("FileName() = %q", got)
	}
}
