package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// IdempotencyKey is a successful create response remembered for one user.
// A key is unique per user, so two users may pick the same key.
type IdempotencyKey struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_idempotency_user_key"`
	Key          string    `gorm:"size:255;not null;uniqueIndex:idx_idempotency_user_key"`
	Endpoint     string    `gorm:"size:255;not null"` // "POST /api/v1/crm/invoices"
	ResponseCode int       `gorm:"not null"`
	ResponseBody string    `gorm:"type:text"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	ExpiresAt    time.Time `gorm:"not null;index"`
}

func (i *IdempotencyKey) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

func (IdempotencyKey) TableName() string {
	return "idempotency_keys"
}

// Replays reports whether a request to endpoint at now should get this
// stored response back
func (i *IdempotencyKey) Replays(endpoint string, now time.Time) bool {
	return i.Endpoint == endpoint && now.Before(i.ExpiresAt)
}
