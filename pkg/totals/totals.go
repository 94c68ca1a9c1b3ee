// Package totals computes the derived amounts shown on invoices and quotes.
//
// All arithmetic is plain float64. Values are never rounded when computed or
// stored; rounding to two decimals happens only when an amount is formatted
// for display.
package totals

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// LineItem is a single billable row of an invoice or quote
type LineItem struct {
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
}

// Total returns quantity * unit price
func (l LineItem) Total() float64 {
	return l.Quantity * l.UnitPrice
}

// Totals holds the aggregate amounts of a document
type Totals struct {
	Subtotal  float64 `json:"subtotal"`
	TaxRate   float64 `json:"tax_rate"`
	TaxAmount float64 `json:"tax_amount"`
	Discount  float64 `json:"discount"`
	Total     float64 `json:"total"`
}

// Compute derives the document totals from its line items.
// taxRate is a percentage. Negative inputs are accepted as-is and the
// resulting total is not clamped, so a discount larger than subtotal+tax
// yields a negative total.
func Compute(items []LineItem, taxRate, discount float64) Totals {
	var subtotal float64
	for _, item := range items {
		subtotal += item.Total()
	}

	taxAmount := subtotal * taxRate / 100

	return Totals{
		Subtotal:  subtotal,
		TaxRate:   taxRate,
		TaxAmount: taxAmount,
		Discount:  discount,
		Total:     subtotal + taxAmount - discount,
	}
}

// Format renders an amount with two decimals for display
func Format(amount float64) string {
	return decimal.NewFromFloat(amount).StringFixed(2)
}

// FormatMoney renders an amount with two decimals prefixed by a currency code
func FormatMoney(currency string, amount float64) string {
	if currency == "" {
		return Format(amount)
	}
	return currency + " " + Format(amount)
}

// ParseNumber coerces form input into a number. Blank or malformed input
// becomes 0, mirroring how numeric form fields behave.
func ParseNumber(s string) float64 {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}
