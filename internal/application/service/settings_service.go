package service

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/google/uuid"
	"github.com/merocrm/mero-crm/internal/domain/entity"
	"github.com/merocrm/mero-crm/internal/domain/repository"
	"github.com/merocrm/mero-crm/pkg/apperror"
	"gorm.io/datatypes"
)

const maxSettingKeyLength = 100

// stringSettings must hold a JSON string
var stringSettings = map[string]bool{
	SettingInvoicePrefix: true,
	SettingQuotePrefix:   true,
	SettingCurrency:      true,
	SettingCompanyName:   true,
}

// SettingsService handles organization settings
type SettingsService struct {
	settingsRepo repository.SettingsRepository
}

// NewSettingsService creates a new settings service
func NewSettingsService(settingsRepo repository.SettingsRepository) *SettingsService {
	return &SettingsService{settingsRepo: settingsRepo}
}

// ListSettings returns the tenant's settings, optionally for one category
func (s *SettingsService) ListSettings(ctx context.Context, category string) ([]entity.Setting, error) {
	if _, err := requireTenant(ctx); err != nil {
		return nil, err
	}
	settings, err := s.settingsRepo.List(ctx, strings.TrimSpace(category))
	if err != nil {
		return nil, err
	}
	if settings == nil {
		settings = []entity.Setting{}
	}
	return settings, nil
}

// GetSetting returns a single setting
func (s *SettingsService) GetSetting(ctx context.Context, key string) (*entity.Setting, error) {
	if _, err := requireTenant(ctx); err != nil {
		return nil, err
	}
	setting, err := s.settingsRepo.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if setting == nil {
		return nil, apperror.NewNotFoundError("Setting")
	}
	return setting, nil
}

// PutSettingInput represents the input for storing a setting
type PutSettingInput struct {
	UserID   uuid.UUID
	Key      string
	Value    json.RawMessage
	Category string
}

// PutSetting creates or replaces a setting
func (s *SettingsService) PutSetting(ctx context.Context, input *PutSettingInput) (*entity.Setting, error) {
	tenantID, err := requireTenant(ctx)
	if err != nil {
		return nil, err
	}

	key := strings.TrimSpace(input.Key)
	if key == "" || len(key) > maxSettingKeyLength {
		return nil, fieldError("key", "must be between 1 and 100 characters")
	}
	if len(input.Value) == 0 || !json.Valid(input.Value) {
		return nil, fieldError("value", "must be valid JSON")
	}
	if stringSettings[key] {
		var v string
		if err := json.Unmarshal(input.Value, &v); err != nil {
			return nil, fieldError("value", "must be a string")
		}
	}

	category := strings.TrimSpace(input.Category)
	if category == "" {
		category = "general"
	}

	setting := &entity.Setting{
		TenantID:  tenantID,
		Key:       key,
		Category:  category,
		Value:     datatypes.JSON(input.Value),
		UpdatedBy: input.UserID,
	}
	if err := s.settingsRepo.Upsert(ctx, setting); err != nil {
		return nil, err
	}
	return s.GetSetting(ctx, key)
}
