package repository

import (
	"context"
	"errors"

	"github.com/merocrm/mero-crm/internal/domain/entity"
	"github.com/merocrm/mero-crm/internal/domain/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type settingsRepository struct {
	db *gorm.DB
}

// NewSettingsRepository creates a new settings repository
func NewSettingsRepository(db *gorm.DB) repository.SettingsRepository {
	return &settingsRepository{db: db}
}

func (r *settingsRepository) List(ctx context.Context, category string) ([]entity.Setting, error) {
	var settings []entity.Setting
	query := r.db.WithContext(ctx).Scopes(TenantScope(ctx))
	if category != "" {
		query = query.Where("category = ?", category)
	}
	err := query.Order("category ASC, key ASC").Find(&settings).Error
	return settings, err
}

func (r *settingsRepository) Get(ctx context.Context, key string) (*entity.Setting, error) {
	var setting entity.Setting
	err := r.db.WithContext(ctx).Scopes(TenantScope(ctx)).Where("key = ?", key).First(&setting).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &setting, nil
}

func (r *settingsRepository) Upsert(ctx context.Context, setting *entity.Setting) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "tenant_id"}, {Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "category", "updated_by", "updated_at"}),
	}).Create(setting).Error
}
