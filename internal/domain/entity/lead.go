package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/merocrm/mero-crm/internal/domain/enum"
	"gorm.io/gorm"
)

// Lead is a prospect that may become a client
type Lead struct {
	ID        uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	TenantID  uuid.UUID       `gorm:"type:uuid;not null;index" json:"tenant_id"`
	CreatedBy uuid.UUID       `gorm:"type:uuid;index" json:"created_by"`
	Name      string          `gorm:"size:255;not null" json:"name"`
	Email     string          `gorm:"size:255" json:"email,omitempty"`
	Phone     string          `gorm:"size:50" json:"phone,omitempty"`
	Company   string          `gorm:"size:255" json:"company,omitempty"`
	Source    string          `gorm:"size:100" json:"source,omitempty"`
	Status    enum.LeadStatus `gorm:"size:20;default:'new';index" json:"status"`
	Notes     string          `gorm:"type:text" json:"notes,omitempty"`
	ClientID  *uuid.UUID      `gorm:"type:uuid;index" json:"client_id,omitempty"`
	Removed   bool            `gorm:"default:false;index" json:"removed"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

func (l *Lead) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

func (Lead) TableName() string {
	return "leads"
}

// Deal is a sales opportunity moving through the pipeline
type Deal struct {
	ID                uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	TenantID          uuid.UUID      `gorm:"type:uuid;not null;index" json:"tenant_id"`
	CreatedBy         uuid.UUID      `gorm:"type:uuid;index" json:"created_by"`
	Title             string         `gorm:"size:255;not null" json:"title"`
	ClientID          *uuid.UUID     `gorm:"type:uuid;index" json:"client_id,omitempty"`
	LeadID            *uuid.UUID     `gorm:"type:uuid;index" json:"lead_id,omitempty"`
	Value             float64        `gorm:"default:0" json:"value"`
	Currency          string         `gorm:"size:10" json:"currency"`
	Stage             enum.DealStage `gorm:"size:20;default:'prospecting';index" json:"stage"`
	Probability       int            `gorm:"default:0" json:"probability"`
	ExpectedCloseDate *time.Time     `json:"expected_close_date,omitempty"`
	Notes             string         `gorm:"type:text" json:"notes,omitempty"`
	Removed           bool           `gorm:"default:false;index" json:"removed"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
}

func (d *Deal) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

func (Deal) TableName() string {
	return "deals"
}
