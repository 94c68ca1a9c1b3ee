package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/merocrm/mero-crm/internal/domain/enum"
	"github.com/merocrm/mero-crm/pkg/totals"
	"gorm.io/gorm"
)

// Invoice is a bill issued to a client. Amounts are derived from Items by
// the totals package and stored unrounded.
type Invoice struct {
	ID                   uuid.UUID           `gorm:"type:uuid;primary_key" json:"id"`
	TenantID             uuid.UUID           `gorm:"type:uuid;not null;index;uniqueIndex:idx_invoice_tenant_number" json:"tenant_id"`
	CreatedBy            uuid.UUID           `gorm:"type:uuid;index" json:"created_by"`
	Number               int                 `gorm:"not null;uniqueIndex:idx_invoice_tenant_number" json:"number"`
	Year                 int                 `gorm:"not null" json:"year"`
	DisplayNumber        string              `gorm:"size:50" json:"display_number"`
	Reference            string              `gorm:"size:100" json:"reference,omitempty"`
	Date                 time.Time           `gorm:"not null" json:"date"`
	ExpiredDate          *time.Time          `json:"expired_date,omitempty"`
	ClientID             uuid.UUID           `gorm:"type:uuid;not null;index" json:"client_id"`
	TaxID                *uuid.UUID          `gorm:"type:uuid" json:"tax_id,omitempty"`
	TaxRate              float64             `gorm:"default:0" json:"tax_rate"`
	Subtotal             float64             `gorm:"default:0" json:"subtotal"`
	TaxAmount            float64             `gorm:"default:0" json:"tax_amount"`
	Discount             float64             `gorm:"default:0" json:"discount"`
	Total                float64             `gorm:"default:0" json:"total"`
	Credit               float64             `gorm:"default:0" json:"credit"`
	Currency             string              `gorm:"size:10" json:"currency"`
	Status               enum.DocumentStatus `gorm:"size:20;default:'draft';index" json:"status"`
	PaymentStatus        enum.PaymentStatus  `gorm:"size:20;default:'unpaid';index" json:"payment_status"`
	Notes                string              `gorm:"type:text" json:"notes,omitempty"`
	ConvertedFromQuoteID *uuid.UUID          `gorm:"type:uuid" json:"converted_from_quote_id,omitempty"`
	Removed              bool                `gorm:"default:false;index" json:"removed"`
	CreatedAt            time.Time           `json:"created_at"`
	UpdatedAt            time.Time           `json:"updated_at"`

	// Relationships
	Client     *Client       `gorm:"foreignKey:ClientID" json:"-"`
	Items      []InvoiceItem `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE" json:"items"`
	ClientName string        `gorm:"-" json:"client_name"`
}

func (i *Invoice) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// AfterFind exposes the preloaded client's name
func (i *Invoice) AfterFind(tx *gorm.DB) error {
	if i.Client != nil {
		i.ClientName = i.Client.Name
	}
	return nil
}

func (Invoice) TableName() string {
	return "invoices"
}

// LineItems returns the items in the shape used by the totals package
func (i *Invoice) LineItems() []totals.LineItem {
	out := make([]totals.LineItem, len(i.Items))
	for n, it := range i.Items {
		out[n] = it.LineItem()
	}
	return out
}

// ApplyTotals stores the computed amounts on the invoice
func (i *Invoice) ApplyTotals(t totals.Totals) {
	i.Subtotal = t.Subtotal
	i.TaxRate = t.TaxRate
	i.TaxAmount = t.TaxAmount
	i.Discount = t.Discount
	i.Total = t.Total
}

// Outstanding is the amount still owed on the invoice
func (i *Invoice) Outstanding() float64 {
	return i.Total - i.Credit
}

// InvoiceItem is a stored line of an invoice
type InvoiceItem struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	InvoiceID   uuid.UUID `gorm:"type:uuid;not null;index" json:"-"`
	Position    int       `gorm:"not null;default:0" json:"-"`
	Description string    `gorm:"type:text" json:"description"`
	Quantity    float64   `gorm:"not null" json:"quantity"`
	UnitPrice   float64   `gorm:"not null" json:"unit_price"`
	Total       float64   `gorm:"not null" json:"total"`
}

func (it *InvoiceItem) BeforeCreate(tx *gorm.DB) error {
	if it.ID == uuid.Nil {
		it.ID = uuid.New()
	}
	return nil
}

func (InvoiceItem) TableName() string {
	return "invoice_items"
}

func (it InvoiceItem) LineItem() totals.LineItem {
	return totals.LineItem{Description: it.Description, Quantity: it.Quantity, UnitPrice: it.UnitPrice}
}

// NewInvoiceItems builds stored lines, keeping their order
func NewInvoiceItems(items []totals.LineItem) []InvoiceItem {
	out := make([]InvoiceItem, len(items))
	for n, li := range items {
		out[n] = InvoiceItem{
			Position:    n,
			Description: li.Description,
			Quantity:    li.Quantity,
			UnitPrice:   li.UnitPrice,
			Total:       li.Total(),
		}
	}
	return out
}
