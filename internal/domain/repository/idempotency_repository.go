package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/merocrm/mero-crm/internal/domain/entity"
)

// IdempotencyRepository remembers create responses per user and key
type IdempotencyRepository interface {
	// FindLive returns the user's unexpired response for key, or nil
	FindLive(ctx context.Context, userID uuid.UUID, key string, now time.Time) (*entity.IdempotencyKey, error)
	// Remember stores a response, replacing an expired one under the same
	// user and key
	Remember(ctx context.Context, ikey *entity.IdempotencyKey, now time.Time) error
	// Purge drops every response that expired before the given time
	Purge(ctx context.Context, before time.Time) error
}
