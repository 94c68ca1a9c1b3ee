package repository

import (
	"context"

	"github.com/merocrm/mero-crm/internal/domain/entity"
)

// SettingsRepository defines the interface for organization settings.
// The tenant comes from the context.
type SettingsRepository interface {
	// List returns all settings, optionally restricted to a category
	List(ctx context.Context, category string) ([]entity.Setting, error)
	Get(ctx context.Context, key string) (*entity.Setting, error)
	// Upsert creates the key or replaces its value
	Upsert(ctx context.Context, setting *entity.Setting) error
}
