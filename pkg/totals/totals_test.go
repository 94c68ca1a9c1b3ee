package totals

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestCompute(t *testing.T) {
	tests := []struct {
		name     string
		items    []LineItem
		taxRate  float64
		discount float64
		want     Totals
	}{
		{
			name:     "two lines with tax and discount",
			items:    []LineItem{{Quantity: 2, UnitPrice: 50}, {Quantity: 1, UnitPrice: 30}},
			taxRate:  10,
			discount: 5,
			want:     Totals{Subtotal: 130, TaxRate: 10, TaxAmount: 13, Discount: 5, Total: 138},
		},
		{
			name: "empty items",
			want: Totals{},
		},
		{
			name:     "discount exceeds subtotal and tax",
			items:    []LineItem{{Quantity: 1, UnitPrice: 10}},
			taxRate:  0,
			discount: 25,
			want:     Totals{Subtotal: 10, Discount: 25, Total: -15},
		},
		{
			name:    "fractional quantities",
			items:   []LineItem{{Quantity: 1.5, UnitPrice: 20}, {Quantity: 0.25, UnitPrice: 8}},
			taxRate: 16,
			want:    Totals{Subtotal: 32, TaxRate: 16, TaxAmount: 5.12, Total: 37.12},
		},
		{
			name:    "negative values are not rejected",
			items:   []LineItem{{Quantity: -1, UnitPrice: 10}},
			taxRate: 10,
			want:    Totals{Subtotal: -10, TaxRate: 10, TaxAmount: -1, Total: -11},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Compute(tt.items, tt.taxRate, tt.discount)
			if !almostEqual(got.Subtotal, tt.want.Subtotal) ||
				!almostEqual(got.TaxAmount, tt.want.TaxAmount) ||
				!almostEqual(got.Total, tt.want.Total) ||
				got.TaxRate != tt.want.TaxRate ||
				got.Discount != tt.want.Discount {
				t.Errorf("Compute() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestComputeSubtotalIsSumOfLines(t *testing.T) {
	items := make([]LineItem, 0, 50)
	var want float64
	for i := 0; i < 50; i++ {
		item := LineItem{Quantity: float64(i%7 + 1), UnitPrice: float64(i) * 1.25}
		items = append(items, item)
		want += item.Quantity * item.UnitPrice
	}

	got := Compute(items, 7.5, 0)
	if !almostEqual(got.Subtotal, want) {
		t.Fatalf("subtotal = %f, want %f", got.Subtotal, want)
	}
	if !almostEqual(got.TaxAmount, want*7.5/100) {
		t.Fatalf("tax amount = %f, want %f", got.TaxAmount, want*7.5/100)
	}
}

func TestFormat(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{138, "138.00"},
		{0.1 + 0.2, "0.30"},
		{-15, "-15.00"},
		{2.345, "2.35"},
	}
	for _, tt := range tests {
		if got := Format(tt.in); got != tt.want {
			t.Errorf("Format(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}

	if got := FormatMoney("KES", 12.5); got != "KES 12.50" {
		t.Errorf("FormatMoney() = %q", got)
	}
}

func TestParseNumber(t *testing.T) {
	tests := map[string]float64{
		"":        0,
		"  ":      0,
		"12":      12,
		"1,250.5": 1250.5,
		"abc":     0,
		"-3":      -3,
	}
	for in, want := range tests {
		if got := ParseNumber(in); got != want {
			t.Errorf("ParseNumber(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestDraftRecomputesOnEdit(t *testing.T) {
	d := NewDraft([]LineItem{{Description: "Design", Quantity: 2, UnitPrice: 50}}, 10, 5)
	second := d.AddItem(LineItem{Description: "Hosting", Quantity: 1, UnitPrice: 30})

	if got := d.Totals().Total; !almostEqual(got, 138) {
		t.Fatalf("initial total = %f, want 138", got)
	}

	d.SetQuantityText(0, "3")
	if got := d.ItemTotal(0); got != 150 {
		t.Fatalf("item total after quantity edit = %f, want 150", got)
	}
	if got := d.Totals().Subtotal; got != 180 {
		t.Fatalf("subtotal after quantity edit = %f, want 180", got)
	}

	d.SetUnitPriceText(second, "not a number")
	if got := d.ItemTotal(second); got != 0 {
		t.Fatalf("item total with malformed price = %f, want 0", got)
	}

	d.RemoveItem(second)
	d.SetDiscount(0)
	d.SetTaxRate(0)
	if got := d.Totals().Total; got != 150 {
		t.Fatalf("total after removal = %f, want 150", got)
	}

	d.SetQuantity(9, 1)
	d.RemoveItem(-1)
	if len(d.Items) != 1 {
		t.Fatalf("out of range edits changed items: %+v", d.Items)
	}
}
