package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Payment records money received against an invoice
type Payment struct {
	ID            uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	TenantID      uuid.UUID  `gorm:"type:uuid;not null;index;uniqueIndex:idx_payment_tenant_number" json:"tenant_id"`
	CreatedBy     uuid.UUID  `gorm:"type:uuid;index" json:"created_by"`
	Number        int        `gorm:"not null;uniqueIndex:idx_payment_tenant_number" json:"number"`
	Date          time.Time  `gorm:"not null" json:"date"`
	Amount        float64    `gorm:"not null" json:"amount"`
	Currency      string     `gorm:"size:10" json:"currency"`
	PaymentModeID *uuid.UUID `gorm:"type:uuid" json:"payment_mode_id,omitempty"`
	InvoiceID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"invoice_id"`
	ClientID      uuid.UUID  `gorm:"type:uuid;not null;index" json:"client_id"`
	Reference     string     `gorm:"size:100" json:"reference,omitempty"`
	Description   string     `gorm:"type:text" json:"description,omitempty"`
	Removed       bool       `gorm:"default:false;index" json:"removed"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

func (Payment) TableName() string {
	return "payments"
}

// Tax is a named tax rate that documents can reference
type Tax struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	TenantID  uuid.UUID `gorm:"type:uuid;not null;index" json:"tenant_id"`
	Name      string    `gorm:"size:100;not null" json:"name"`
	Rate      float64   `gorm:"not null" json:"rate"`
	IsDefault bool      `gorm:"default:false" json:"is_default"`
	Enabled   bool      `gorm:"not null" json:"enabled"`
	Removed   bool      `gorm:"default:false;index" json:"removed"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (t *Tax) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

func (Tax) TableName() string {
	return "taxes"
}

// PaymentMode is a way of paying such as cash or bank transfer
type PaymentMode struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	TenantID    uuid.UUID `gorm:"type:uuid;not null;index" json:"tenant_id"`
	Name        string    `gorm:"size:100;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description,omitempty"`
	IsDefault   bool      `gorm:"default:false" json:"is_default"`
	Enabled     bool      `gorm:"not null" json:"enabled"`
	Removed     bool      `gorm:"default:false;index" json:"removed"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (m *PaymentMode) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

func (PaymentMode) TableName() string {
	return "payment_modes"
}
