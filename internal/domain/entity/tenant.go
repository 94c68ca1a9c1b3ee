package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/merocrm/mero-crm/pkg/access"
	"gorm.io/gorm"
)

// Tenant represents an organization in the multitenant system
type Tenant struct {
	ID        uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	Name      string         `gorm:"size:255;not null" json:"name"`
	Slug      string         `gorm:"size:255;unique;not null" json:"slug"`
	OwnerID   uuid.UUID      `gorm:"type:uuid;not null;index" json:"owner_id"`
	Settings  TenantSettings `gorm:"type:jsonb;serializer:json" json:"settings"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Owner   User               `gorm:"foreignKey:OwnerID" json:"-"`
	Members []TenantMembership `gorm:"foreignKey:TenantID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new tenant
func (t *Tenant) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Tenant model
func (Tenant) TableName() string {
	return "tenants"
}

// TenantMembership represents a user's membership in a tenant
type TenantMembership struct {
	TenantID  uuid.UUID   `gorm:"type:uuid;primaryKey" json:"tenant_id"`
	UserID    uuid.UUID   `gorm:"type:uuid;primaryKey" json:"user_id"`
	Role      access.Role `gorm:"size:50;default:'member'" json:"role"`
	CreatedAt time.Time   `json:"created_at"`

	// Relationships
	Tenant Tenant `gorm:"foreignKey:TenantID" json:"-"`
	User   User   `gorm:"foreignKey:UserID" json:"-"`
}

// TableName returns the table name for the TenantMembership model
func (TenantMembership) TableName() string {
	return "tenant_memberships"
}

// Member is the console view of a membership joined with its user
type Member struct {
	UserID    uuid.UUID   `json:"user_id"`
	Email     string      `json:"email"`
	FirstName string      `json:"first_name"`
	LastName  string      `json:"last_name"`
	Role      access.Role `json:"role"`
	JoinedAt  time.Time   `json:"joined_at"`
}

// ToMember flattens the membership with its preloaded user
func (tm *TenantMembership) ToMember() Member {
	return Member{
		UserID:    tm.UserID,
		Email:     tm.User.Email,
		FirstName: tm.User.FirstName,
		LastName:  tm.User.LastName,
		Role:      tm.Role,
		JoinedAt:  tm.CreatedAt,
	}
}

// TenantSettings holds the organization defaults used when issuing documents
type TenantSettings struct {
	// Company details printed on documents
	CompanyEmail   string `json:"company_email,omitempty"`
	CompanyPhone   string `json:"company_phone,omitempty"`
	CompanyAddress string `json:"company_address,omitempty"`
	TaxNumber      string `json:"tax_number,omitempty"`

	// Localization
	Currency   string `json:"currency,omitempty"`
	Timezone   string `json:"timezone,omitempty"`
	DateFormat string `json:"date_format,omitempty"`

	// Numbering
	InvoicePrefix string `json:"invoice_prefix,omitempty"`
	QuotePrefix   string `json:"quote_prefix,omitempty"`

	EmailNotifications bool `json:"email_notifications,omitempty"`
}

// Scan implements the sql.Scanner interface for TenantSettings
func (ts *TenantSettings) Scan(value interface{}) error {
	if value == nil {
		*ts = TenantSettings{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to scan TenantSettings: unsupported type")
	}

	return json.Unmarshal(bytes, ts)
}

// Value implements the driver.Valuer interface for TenantSettings
func (ts TenantSettings) Value() (driver.Value, error) {
	return json.Marshal(ts)
}

// DefaultTenantSettings returns default settings for new tenants
func DefaultTenantSettings() TenantSettings {
	return TenantSettings{
		Currency:           "USD",
		Timezone:           "UTC",
		DateFormat:         "DD/MM/YYYY",
		InvoicePrefix:      "INV",
		QuotePrefix:        "QT",
		EmailNotifications: true,
	}
}

// DefaultTaxes returns the taxes a new tenant starts with
func DefaultTaxes(tenantID uuid.UUID) []Tax {
	return []Tax{
		{TenantID: tenantID, Name: "Tax 0%", Rate: 0, IsDefault: true, Enabled: true},
	}
}

// DefaultPaymentModes returns the payment modes a new tenant starts with
func DefaultPaymentModes(tenantID uuid.UUID) []PaymentMode {
	return []PaymentMode{
		{TenantID: tenantID, Name: "Cash", IsDefault: true, Enabled: true},
		{TenantID: tenantID, Name: "Bank transfer", Enabled: true},
	}
}
