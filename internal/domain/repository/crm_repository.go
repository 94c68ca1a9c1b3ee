package repository

import (
	"context"

	"github.com/merocrm/mero-crm/internal/domain/entity"
)

// ClientRepository defines the interface for client data operations
type ClientRepository interface {
	ScopedRepository[entity.Client]
	// ListAll returns every matching client for export
	ListAll(ctx context.Context, filter ListFilter) ([]entity.Client, error)
}

type LeadRepository interface {
	ScopedRepository[entity.Lead]
}

type DealRepository interface {
	ScopedRepository[entity.Deal]
}

type ActivityRepository interface {
	ScopedRepository[entity.Activity]
}

// TaxRepository defines the interface for tax rate data operations
type TaxRepository interface {
	ScopedRepository[entity.Tax]
	// GetDefault returns the enabled default tax, or nil
	GetDefault(ctx context.Context) (*entity.Tax, error)
	// ClearDefault unsets is_default on every tax of the tenant
	ClearDefault(ctx context.Context) error
}

type PaymentModeRepository interface {
	ScopedRepository[entity.PaymentMode]
	ClearDefault(ctx context.Context) error
}

type TicketRepository interface {
	ScopedRepository[entity.Ticket]
}
