package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/merocrm/mero-crm/internal/domain/enum"
	"github.com/merocrm/mero-crm/pkg/totals"
	"gorm.io/gorm"
)

// Quote is a priced offer that can be converted into an invoice
type Quote struct {
	ID            uuid.UUID           `gorm:"type:uuid;primary_key" json:"id"`
	TenantID      uuid.UUID           `gorm:"type:uuid;not null;index;uniqueIndex:idx_quote_tenant_number" json:"tenant_id"`
	CreatedBy     uuid.UUID           `gorm:"type:uuid;index" json:"created_by"`
	Number        int                 `gorm:"not null;uniqueIndex:idx_quote_tenant_number" json:"number"`
	Year          int                 `gorm:"not null" json:"year"`
	DisplayNumber string              `gorm:"size:50" json:"display_number"`
	Date          time.Time           `gorm:"not null" json:"date"`
	ExpiredDate   *time.Time          `json:"expired_date,omitempty"`
	ClientID      uuid.UUID           `gorm:"type:uuid;not null;index" json:"client_id"`
	TaxID         *uuid.UUID          `gorm:"type:uuid" json:"tax_id,omitempty"`
	TaxRate       float64             `gorm:"default:0" json:"tax_rate"`
	Subtotal      float64             `gorm:"default:0" json:"subtotal"`
	TaxAmount     float64             `gorm:"default:0" json:"tax_amount"`
	Discount      float64             `gorm:"default:0" json:"discount"`
	Total         float64             `gorm:"default:0" json:"total"`
	Currency      string              `gorm:"size:10" json:"currency"`
	Status        enum.DocumentStatus `gorm:"size:20;default:'draft';index" json:"status"`
	Notes         string              `gorm:"type:text" json:"notes,omitempty"`
	Converted     bool                `gorm:"default:false" json:"converted"`
	InvoiceID     *uuid.UUID          `gorm:"type:uuid" json:"invoice_id,omitempty"`
	Removed       bool                `gorm:"default:false;index" json:"removed"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`

	// Relationships
	Client     *Client     `gorm:"foreignKey:ClientID" json:"-"`
	Items      []QuoteItem `gorm:"foreignKey:QuoteID;constraint:OnDelete:CASCADE" json:"items"`
	ClientName string      `gorm:"-" json:"client_name"`
}

func (q *Quote) BeforeCreate(tx *gorm.DB) error {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	return nil
}

// AfterFind exposes the preloaded client's name
func (q *Quote) AfterFind(tx *gorm.DB) error {
	if q.Client != nil {
		q.ClientName = q.Client.Name
	}
	return nil
}

func (Quote) TableName() string {
	return "quotes"
}

func (q *Quote) LineItems() []totals.LineItem {
	out := make([]totals.LineItem, len(q.Items))
	for n, it := range q.Items {
		out[n] = it.LineItem()
	}
	return out
}

func (q *Quote) ApplyTotals(t totals.Totals) {
	q.Subtotal = t.Subtotal
	q.TaxRate = t.TaxRate
	q.TaxAmount = t.TaxAmount
	q.Discount = t.Discount
	q.Total = t.Total
}

// QuoteItem is a stored line of a quote
type QuoteItem struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	QuoteID     uuid.UUID `gorm:"type:uuid;not null;index" json:"-"`
	Position    int       `gorm:"not null;default:0" json:"-"`
	Description string    `gorm:"type:text" json:"description"`
	Quantity    float64   `gorm:"not null" json:"quantity"`
	UnitPrice   float64   `gorm:"not null" json:"unit_price"`
	Total       float64   `gorm:"not null" json:"total"`
}

func (it *QuoteItem) BeforeCreate(tx *gorm.DB) error {
	if it.ID == uuid.Nil {
		it.ID = uuid.New()
	}
	return nil
}

func (QuoteItem) TableName() string {
	return "quote_items"
}

func (it QuoteItem) LineItem() totals.LineItem {
	return totals.LineItem{Description: it.Description, Quantity: it.Quantity, UnitPrice: it.UnitPrice}
}

func NewQuoteItems(items []totals.LineItem) []QuoteItem {
	out := make([]QuoteItem, len(items))
	for n, li := range items {
		out[n] = QuoteItem{
			Position:    n,
			Description: li.Description,
			Quantity:    li.Quantity,
			UnitPrice:   li.UnitPrice,
			Total:       li.Total(),
		}
	}
	return out
}
