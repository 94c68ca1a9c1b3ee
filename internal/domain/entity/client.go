package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Client represents a customer organization or person in the CRM
type Client struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	TenantID  uuid.UUID `gorm:"type:uuid;not null;index" json:"tenant_id"`
	CreatedBy uuid.UUID `gorm:"type:uuid;index" json:"created_by"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Email     string    `gorm:"size:255" json:"email,omitempty"`
	Phone     string    `gorm:"size:50" json:"phone,omitempty"`
	Country   string    `gorm:"size:100" json:"country,omitempty"`
	Address   string    `gorm:"type:text" json:"address,omitempty"`
	TaxNumber string    `gorm:"size:50" json:"tax_number,omitempty"`
	Removed   bool      `gorm:"default:false;index" json:"removed"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate generates a UUID before creating a new client
func (c *Client) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Client model
func (Client) TableName() string {
	return "clients"
}
