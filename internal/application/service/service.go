package service

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/google/uuid"
	"github.com/merocrm/mero-crm/internal/domain/entity"
	"github.com/merocrm/mero-crm/internal/domain/repository"
	infraRepo "github.com/merocrm/mero-crm/internal/infrastructure/repository"
	"github.com/merocrm/mero-crm/pkg/apperror"
	"github.com/merocrm/mero-crm/pkg/pagination"
)

// ListInput is the query of a paged list endpoint
type ListInput struct {
	Params  pagination.Params
	Search  string
	Status  string
	Filters map[string]string
}

func (in *ListInput) filter() repository.ListFilter {
	return repository.ListFilter{
		Search:  strings.TrimSpace(in.Search),
		Status:  strings.TrimSpace(in.Status),
		Filters: in.Filters,
	}
}

// requireTenant returns the tenant carried by ctx
func requireTenant(ctx context.Context) (uuid.UUID, error) {
	tenantID, ok := infraRepo.GetTenantID(ctx)
	if !ok || tenantID == uuid.Nil {
		return uuid.Nil, apperror.ErrTenantRequired
	}
	return tenantID, nil
}

func listRecords[T any](ctx context.Context, repo repository.ScopedRepository[T], input *ListInput) (*pagination.Page[T], error) {
	if _, err := requireTenant(ctx); err != nil {
		return nil, err
	}
	params := input.Params
	params.Validate()

	records, total, err := repo.List(ctx, &params, input.filter())
	if err != nil {
		return nil, err
	}
	return pagination.NewPage(records, &params, total), nil
}

func getRecord[T any](ctx context.Context, repo repository.ScopedRepository[T], id uuid.UUID, name string) (*T, error) {
	record, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, apperror.NewNotFoundError(name)
	}
	return record, nil
}

func removeRecord[T any](ctx context.Context, repo repository.ScopedRepository[T], id uuid.UUID, name string) error {
	if _, err := getRecord(ctx, repo, id, name); err != nil {
		return err
	}
	return repo.SetRemoved(ctx, id, true)
}

func restoreRecord[T any](ctx context.Context, repo repository.ScopedRepository[T], id uuid.UUID, name string) (*T, error) {
	record, err := repo.GetAnyByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, apperror.NewNotFoundError(name)
	}
	if err := repo.SetRemoved(ctx, id, false); err != nil {
		return nil, err
	}
	return getRecord(ctx, repo, id, name)
}

func fieldError(field, message string) *apperror.AppError {
	return apperror.NewValidationError([]apperror.FieldError{{Field: field, Message: message}})
}

// orgDefaults are the organization values used when issuing documents.
// Setting rows override the tenant's stored settings.
type orgDefaults struct {
	CompanyName   string
	Company       entity.TenantSettings
	InvoicePrefix string
	QuotePrefix   string
	Currency      string
}

// Setting keys that override tenant settings
const (
	SettingInvoicePrefix = "invoice_prefix"
	SettingQuotePrefix   = "quote_prefix"
	SettingCurrency      = "currency"
	SettingCompanyName   = "company_name"
)

func loadOrgDefaults(ctx context.Context, tenants repository.TenantRepository, settings repository.SettingsRepository) (*orgDefaults, error) {
	tenantID, err := requireTenant(ctx)
	if err != nil {
		return nil, err
	}
	tenant, err := tenants.GetByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if tenant == nil {
		return nil, apperror.NewNotFoundError("Organization")
	}

	d := &orgDefaults{
		CompanyName:   tenant.Name,
		Company:       tenant.Settings,
		InvoicePrefix: tenant.Settings.InvoicePrefix,
		QuotePrefix:   tenant.Settings.QuotePrefix,
		Currency:      tenant.Settings.Currency,
	}

	rows, err := settings.List(ctx, "")
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		var v string
		if json.Unmarshal(row.Value, &v) != nil {
			continue
		}
		switch row.Key {
		case SettingInvoicePrefix:
			d.InvoicePrefix = v
		case SettingQuotePrefix:
			d.QuotePrefix = v
		case SettingCurrency:
			d.Currency = v
		case SettingCompanyName:
			d.CompanyName = v
		}
	}
	return d, nil
}

// parseOptionalUUID parses s, returning nil for an empty string
func parseOptionalUUID(field, s string) (*uuid.UUID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return nil, fieldError(field, "must be a valid id")
	}
	return &id, nil
}
