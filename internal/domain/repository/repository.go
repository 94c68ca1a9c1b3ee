package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/merocrm/mero-crm/pkg/pagination"
)

var (
	// ErrExceedsOutstanding is returned when a payment would bring an
	// invoice's credit above its total
	ErrExceedsOutstanding = errors.New("payment exceeds invoice outstanding amount")
	// ErrAlreadyConverted is returned when a quote has already been turned
	// into an invoice
	ErrAlreadyConverted = errors.New("quote already converted")
)

// ListFilter narrows a list query. Empty fields are ignored.
type ListFilter struct {
	Search string
	Status string
	// Filters are equality matches on columns the repository allows
	Filters map[string]string
}

// ScopedRepository is the common contract of tenant-scoped CRM records that
// support soft removal. The tenant comes from the context.
type ScopedRepository[T any] interface {
	Create(ctx context.Context, record *T) error
	// GetByID returns nil when the record is missing or removed
	GetByID(ctx context.Context, id uuid.UUID) (*T, error)
	// GetAnyByID includes removed records
	GetAnyByID(ctx context.Context, id uuid.UUID) (*T, error)
	Update(ctx context.Context, record *T) error
	SetRemoved(ctx context.Context, id uuid.UUID, removed bool) error
	List(ctx context.Context, params *pagination.Params, filter ListFilter) ([]T, int64, error)
	Count(ctx context.Context, filter ListFilter) (int64, error)
}
