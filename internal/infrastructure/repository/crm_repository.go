package repository

import (
	"context"

	"github.com/merocrm/mero-crm/internal/domain/entity"
	domainRepo "github.com/merocrm/mero-crm/internal/domain/repository"
	"gorm.io/gorm"
)

type clientRepository struct {
	*scopedRepository[entity.Client]
}

// NewClientRepository creates a new client repository
func NewClientRepository(db *gorm.DB) domainRepo.ClientRepository {
	return &clientRepository{newScopedRepository[entity.Client](db, listOptions{
		searchColumns: []string{"name", "email", "phone"},
		filterColumns: map[string]string{"country": "country"},
		order:         "name ASC",
	})}
}

func (r *clientRepository) ListAll(ctx context.Context, filter domainRepo.ListFilter) ([]entity.Client, error) {
	return r.all(ctx, filter)
}

// NewLeadRepository creates a new lead repository
func NewLeadRepository(db *gorm.DB) domainRepo.LeadRepository {
	return newScopedRepository[entity.Lead](db, listOptions{
		searchColumns: []string{"name", "email", "company"},
		statusColumn:  "status",
		filterColumns: map[string]string{"source": "source", "client_id": "client_id"},
	})
}

// NewDealRepository creates a new deal repository
func NewDealRepository(db *gorm.DB) domainRepo.DealRepository {
	return newScopedRepository[entity.Deal](db, listOptions{
		searchColumns: []string{"title", "notes"},
		statusColumn:  "stage",
		filterColumns: map[string]string{"client_id": "client_id", "lead_id": "lead_id"},
	})
}

// NewActivityRepository creates a new activity repository
func NewActivityRepository(db *gorm.DB) domainRepo.ActivityRepository {
	return newScopedRepository[entity.Activity](db, listOptions{
		searchColumns: []string{"subject", "notes"},
		statusColumn:  "status",
		filterColumns: map[string]string{
			"type":      "type",
			"client_id": "client_id",
			"lead_id":   "lead_id",
			"deal_id":   "deal_id",
		},
		order: "due_at ASC, created_at DESC",
	})
}

// NewTicketRepository creates a new support ticket repository
func NewTicketRepository(db *gorm.DB) domainRepo.TicketRepository {
	return newScopedRepository[entity.Ticket](db, listOptions{
		searchColumns: []string{"subject", "description"},
		statusColumn:  "status",
		filterColumns: map[string]string{
			"priority":    "priority",
			"client_id":   "client_id",
			"assignee_id": "assignee_id",
		},
	})
}

type taxRepository struct {
	*scopedRepository[entity.Tax]
}

// NewTaxRepository creates a new tax repository
func NewTaxRepository(db *gorm.DB) domainRepo.TaxRepository {
	return &taxRepository{newScopedRepository[entity.Tax](db, listOptions{
		searchColumns: []string{"name"},
		order:         "name ASC",
	})}
}

func (r *taxRepository) GetDefault(ctx context.Context) (*entity.Tax, error) {
	var taxes []entity.Tax
	err := r.live(ctx).
		Where("enabled = ? AND is_default = ?", true, true).
		Limit(1).Find(&taxes).Error
	if err != nil || len(taxes) == 0 {
		return nil, err
	}
	return &taxes[0], nil
}

func (r *taxRepository) ClearDefault(ctx context.Context) error {
	return r.model(ctx).Where("is_default = ?", true).Update("is_default", false).Error
}

type paymentModeRepository struct {
	*scopedRepository[entity.PaymentMode]
}

// NewPaymentModeRepository creates a new payment mode repository
func NewPaymentModeRepository(db *gorm.DB) domainRepo.PaymentModeRepository {
	return &paymentModeRepository{newScopedRepository[entity.PaymentMode](db, listOptions{
		searchColumns: []string{"name", "description"},
		order:         "name ASC",
	})}
}

func (r *paymentModeRepository) ClearDefault(ctx context.Context) error {
	return r.model(ctx).Where("is_default = ?", true).Update("is_default", false).Error
}
