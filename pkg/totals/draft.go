package totals

// Draft is the editable state of an invoice or quote form.
// Totals are derived on every read, so an edit to any line is reflected in
// the line total and in the aggregates immediately, without saving.
type Draft struct {
	Items    []LineItem
	TaxRate  float64
	Discount float64
}

// NewDraft creates a draft from existing document values
func NewDraft(items []LineItem, taxRate, discount float64) *Draft {
	d := &Draft{TaxRate: taxRate, Discount: discount}
	d.Items = append(d.Items, items...)
	return d
}

// AddItem appends a line and returns its index
func (d *Draft) AddItem(item LineItem) int {
	d.Items = append(d.Items, item)
	return len(d.Items) - 1
}

// RemoveItem drops the line at index i. Out of range indexes are ignored.
func (d *Draft) RemoveItem(i int) {
	if !d.valid(i) {
		return
	}
	d.Items = append(d.Items[:i], d.Items[i+1:]...)
}

// SetDescription updates the description of line i
func (d *Draft) SetDescription(i int, description string) {
	if d.valid(i) {
		d.Items[i].Description = description
	}
}

// SetQuantity updates the quantity of line i
func (d *Draft) SetQuantity(i int, quantity float64) {
	if d.valid(i) {
		d.Items[i].Quantity = quantity
	}
}

// SetUnitPrice updates the unit price of line i
func (d *Draft) SetUnitPrice(i int, price float64) {
	if d.valid(i) {
		d.Items[i].UnitPrice = price
	}
}

// SetQuantityText updates the quantity of line i from raw form input
func (d *Draft) SetQuantityText(i int, raw string) {
	d.SetQuantity(i, ParseNumber(raw))
}

// SetUnitPriceText updates the unit price of line i from raw form input
func (d *Draft) SetUnitPriceText(i int, raw string) {
	d.SetUnitPrice(i, ParseNumber(raw))
}

// SetTaxRate updates the tax percentage
func (d *Draft) SetTaxRate(rate float64) {
	d.TaxRate = rate
}

// SetDiscount updates the absolute discount
func (d *Draft) SetDiscount(discount float64) {
	d.Discount = discount
}

// ItemTotal returns the current total of line i, or 0 when i is out of range
func (d *Draft) ItemTotal(i int) float64 {
	if !d.valid(i) {
		return 0
	}
	return d.Items[i].Total()
}

// Totals recomputes the aggregates from the current lines
func (d *Draft) Totals() Totals {
	return Compute(d.Items, d.TaxRate, d.Discount)
}

func (d *Draft) valid(i int) bool {
	return i >= 0 && i < len(d.Items)
}
