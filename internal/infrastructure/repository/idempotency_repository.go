package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/merocrm/mero-crm/internal/domain/entity"
	domainRepo "github.com/merocrm/mero-crm/internal/domain/repository"
	"gorm.io/gorm"
)

type idempotencyRepository struct {
	db *gorm.DB
}

// NewIdempotencyRepository creates a new idempotency repository
func NewIdempotencyRepository(db *gorm.DB) domainRepo.IdempotencyRepository {
	return &idempotencyRepository{db: db}
}

func (r *idempotencyRepository) FindLive(ctx context.Context, userID uuid.UUID, key string, now time.Time) (*entity.IdempotencyKey, error) {
	var ikey entity.IdempotencyKey
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND key = ? AND expires_at > ?", userID, key, now).
		First(&ikey).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ikey, nil
}

func (r *idempotencyRepository) Remember(ctx context.Context, ikey *entity.IdempotencyKey, now time.Time) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("user_id = ? AND key = ? AND expires_at <= ?", ikey.UserID, ikey.Key, now).
			Delete(&entity.IdempotencyKey{}).Error
		if err != nil {
			return err
		}
		return tx.Create(ikey).Error
	})
}

func (r *idempotencyRepository) Purge(ctx context.Context, before time.Time) error {
	return r.db.WithContext(ctx).
		Where("expires_at <= ?", before).
		Delete(&entity.IdempotencyKey{}).Error
}
