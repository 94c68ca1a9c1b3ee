package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/merocrm/mero-crm/internal/domain/enum"
	"gorm.io/gorm"
)

// Ticket is a support request tracked in the organization console
type Ticket struct {
	ID          uuid.UUID           `gorm:"type:uuid;primary_key" json:"id"`
	TenantID    uuid.UUID           `gorm:"type:uuid;not null;index" json:"tenant_id"`
	CreatedBy   uuid.UUID           `gorm:"type:uuid;index" json:"created_by"`
	Subject     string              `gorm:"size:255;not null" json:"subject"`
	Description string              `gorm:"type:text" json:"description,omitempty"`
	Status      enum.TicketStatus   `gorm:"size:20;default:'open';index" json:"status"`
	Priority    enum.TicketPriority `gorm:"size:20;default:'normal';index" json:"priority"`
	ClientID    *uuid.UUID          `gorm:"type:uuid;index" json:"client_id,omitempty"`
	AssigneeID  *uuid.UUID          `gorm:"type:uuid;index" json:"assignee_id,omitempty"`
	ClosedAt    *time.Time          `json:"closed_at,omitempty"`
	Removed     bool                `gorm:"default:false;index" json:"removed"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

func (t *Ticket) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

func (Ticket) TableName() string {
	return "tickets"
}
