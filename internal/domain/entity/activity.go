package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/merocrm/mero-crm/internal/domain/enum"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Activity is a call, meeting, task or note attached to a client, lead or deal
type Activity struct {
	ID        uuid.UUID           `gorm:"type:uuid;primary_key" json:"id"`
	TenantID  uuid.UUID           `gorm:"type:uuid;not null;index" json:"tenant_id"`
	CreatedBy uuid.UUID           `gorm:"type:uuid;index" json:"created_by"`
	Type      enum.ActivityType   `gorm:"size:20;not null" json:"type"`
	Subject   string              `gorm:"size:255;not null" json:"subject"`
	Notes     string              `gorm:"type:text" json:"notes,omitempty"`
	ClientID  *uuid.UUID          `gorm:"type:uuid;index" json:"client_id,omitempty"`
	LeadID    *uuid.UUID          `gorm:"type:uuid;index" json:"lead_id,omitempty"`
	DealID    *uuid.UUID          `gorm:"type:uuid;index" json:"deal_id,omitempty"`
	DueAt     *time.Time          `json:"due_at,omitempty"`
	Status    enum.ActivityStatus `gorm:"size:20;default:'planned';index" json:"status"`
	Removed   bool                `gorm:"default:false;index" json:"removed"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`
}

func (a *Activity) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

func (Activity) TableName() string {
	return "activities"
}

// Setting is one key of an organization's configuration with a JSON value
type Setting struct {
	ID        uuid.UUID      `gorm:"type:uuid;primary_key" json:"-"`
	TenantID  uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_setting_tenant_key" json:"-"`
	Key       string         `gorm:"size:100;not null;uniqueIndex:idx_setting_tenant_key" json:"key"`
	Category  string         `gorm:"size:50;index" json:"category"`
	Value     datatypes.JSON `json:"value"`
	UpdatedBy uuid.UUID      `gorm:"type:uuid" json:"-"`
	CreatedAt time.Time      `json:"-"`
	UpdatedAt time.Time      `json:"updated_at"`
}

func (s *Setting) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

func (Setting) TableName() string {
	return "settings"
}
