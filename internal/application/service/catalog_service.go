package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/merocrm/mero-crm/internal/domain/entity"
	"github.com/merocrm/mero-crm/internal/domain/repository"
	"github.com/merocrm/mero-crm/pkg/pagination"
)

// CatalogService manages taxes and payment modes. At most one of each is
// the tenant default.
type CatalogService struct {
	taxRepo  repository.TaxRepository
	modeRepo repository.PaymentModeRepository
}

// NewCatalogService creates a new catalog service
func NewCatalogService(taxRepo repository.TaxRepository, modeRepo repository.PaymentModeRepository) *CatalogService {
	return &CatalogService{taxRepo: taxRepo, modeRepo: modeRepo}
}

// TaxInput carries the fields of a tax
type TaxInput struct {
	Name      *string
	Rate      *float64
	IsDefault *bool
	Enabled   *bool
}

func (in *TaxInput) apply(t *entity.Tax) error {
	if in.Name != nil {
		t.Name = strings.TrimSpace(*in.Name)
	}
	if in.Rate != nil {
		if *in.Rate < 0 || *in.Rate > 100 {
			return fieldError("rate", "must be between 0 and 100")
		}
		t.Rate = *in.Rate
	}
	if in.IsDefault != nil {
		t.IsDefault = *in.IsDefault
	}
	if in.Enabled != nil {
		t.Enabled = *in.Enabled
	}
	if t.Name == "" {
		return fieldError("name", "is required")
	}
	return nil
}

// CreateTax creates a tax. Making it the default unsets the previous one.
func (s *CatalogService) CreateTax(ctx context.Context, input *TaxInput) (*entity.Tax, error) {
	tenantID, err := requireTenant(ctx)
	if err != nil {
		return nil, err
	}
	tax := &entity.Tax{TenantID: tenantID, Enabled: true}
	if err := input.apply(tax); err != nil {
		return nil, err
	}
	if tax.IsDefault {
		if err := s.taxRepo.ClearDefault(ctx); err != nil {
			return nil, err
		}
	}
	if err := s.taxRepo.Create(ctx, tax); err != nil {
		return nil, err
	}
	return tax, nil
}

func (s *CatalogService) GetTax(ctx context.Context, id uuid.UUID) (*entity.Tax, error) {
	return getRecord[entity.Tax](ctx, s.taxRepo, id, "Tax")
}

func (s *CatalogService) ListTaxes(ctx context.Context, input *ListInput) (*pagination.Page[entity.Tax], error) {
	return listRecords[entity.Tax](ctx, s.taxRepo, input)
}

func (s *CatalogService) UpdateTax(ctx context.Context, id uuid.UUID, input *TaxInput) (*entity.Tax, error) {
	tax, err := s.GetTax(ctx, id)
	if err != nil {
		return nil, err
	}
	wasDefault := tax.IsDefault
	if err := input.apply(tax); err != nil {
		return nil, err
	}
	if tax.IsDefault && !wasDefault {
		if err := s.taxRepo.ClearDefault(ctx); err != nil {
			return nil, err
		}
	}
	if err := s.taxRepo.Update(ctx, tax); err != nil {
		return nil, err
	}
	return tax, nil
}

func (s *CatalogService) DeleteTax(ctx context.Context, id uuid.UUID) error {
	return removeRecord[entity.Tax](ctx, s.taxRepo, id, "Tax")
}

// DefaultTax returns the tenant's default tax, or nil if none is set
func (s *CatalogService) DefaultTax(ctx context.Context) (*entity.Tax, error) {
	return s.taxRepo.GetDefault(ctx)
}

// PaymentModeInput carries the fields of a payment mode
type PaymentModeInput struct {
	Name        *string
	Description *string
	IsDefault   *bool
	Enabled     *bool
}

func (in *PaymentModeInput) apply(m *entity.PaymentMode) error {
	if in.Name != nil {
		m.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		m.Description = *in.Description
	}
	if in.IsDefault != nil {
		m.IsDefault = *in.IsDefault
	}
	if in.Enabled != nil {
		m.Enabled = *in.Enabled
	}
	if m.Name == "" {
		return fieldError("name", "is required")
	}
	return nil
}

func (s *CatalogService) CreatePaymentMode(ctx context.Context, input *PaymentModeInput) (*entity.PaymentMode, error) {
	tenantID, err := requireTenant(ctx)
	if err != nil {
		return nil, err
	}
	mode := &entity.PaymentMode{TenantID: tenantID, Enabled: true}
	if err := input.apply(mode); err != nil {
		return nil, err
	}
	if mode.IsDefault {
		if err := s.modeRepo.ClearDefault(ctx); err != nil {
			return nil, err
		}
	}
	if err := s.modeRepo.Create(ctx, mode); err != nil {
		return nil, err
	}
	return mode, nil
}

func (s *CatalogService) GetPaymentMode(ctx context.Context, id uuid.UUID) (*entity.PaymentMode, error) {
	return getRecord[entity.PaymentMode](ctx, s.modeRepo, id, "Payment mode")
}

func (s *CatalogService) ListPaymentModes(ctx context.Context, input *ListInput) (*pagination.Page[entity.PaymentMode], error) {
	return listRecords[entity.PaymentMode](ctx, s.modeRepo, input)
}

func (s *CatalogService) UpdatePaymentMode(ctx context.Context, id uuid.UUID, input *PaymentModeInput) (*entity.PaymentMode, error) {
	mode, err := s.GetPaymentMode(ctx, id)
	if err != nil {
		return nil, err
	}
	wasDefault := mode.IsDefault
	if err := input.apply(mode); err != nil {
		return nil, err
	}
	if mode.IsDefault && !wasDefault {
		if err := s.modeRepo.ClearDefault(ctx); err != nil {
			return nil, err
		}
	}
	if err := s.modeRepo.Update(ctx, mode); err != nil {
		return nil, err
	}
	return mode, nil
}

func (s *CatalogService) DeletePaymentMode(ctx context.Context, id uuid.UUID) error {
	return removeRecord[entity.PaymentMode](ctx, s.modeRepo, id, "Payment mode")
}
