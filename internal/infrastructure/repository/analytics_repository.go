package repository

import (
	"context"

	"github.com/merocrm/mero-crm/internal/domain/entity"
	"github.com/merocrm/mero-crm/internal/domain/enum"
	domainRepo "github.com/merocrm/mero-crm/internal/domain/repository"
	"gorm.io/gorm"
)

type analyticsRepository struct {
	db *gorm.DB
}

// NewAnalyticsRepository creates a new analytics repository
func NewAnalyticsRepository(db *gorm.DB) domainRepo.AnalyticsRepository {
	return &analyticsRepository{db: db}
}

func (r *analyticsRepository) live(ctx context.Context, model interface{}) *gorm.DB {
	return r.db.WithContext(ctx).Model(model).Scopes(LiveScope(ctx))
}

func (r *analyticsRepository) GetSummary(ctx context.Context) (*domainRepo.Summary, error) {
	var s domainRepo.Summary

	if err := r.live(ctx, &entity.Client{}).Count(&s.Clients).Error; err != nil {
		return nil, err
	}
	if err := r.live(ctx, &entity.Lead{}).Count(&s.Leads).Error; err != nil {
		return nil, err
	}
	err := r.live(ctx, &entity.Deal{}).
		Where("stage NOT IN ?", []enum.DealStage{enum.DealStageWon, enum.DealStageLost}).
		Count(&s.OpenDeals).Error
	if err != nil {
		return nil, err
	}
	if err := r.live(ctx, &entity.Invoice{}).Count(&s.Invoices).Error; err != nil {
		return nil, err
	}
	err = r.live(ctx, &entity.Invoice{}).
		Where("payment_status <> ?", enum.PaymentStatusPaid).
		Count(&s.UnpaidInvoices).Error
	if err != nil {
		return nil, err
	}

	var sums struct {
		Invoiced float64
		Paid     float64
	}
	err = r.live(ctx, &entity.Invoice{}).
		Select("COALESCE(SUM(total), 0) AS invoiced, COALESCE(SUM(credit), 0) AS paid").
		Scan(&sums).Error
	if err != nil {
		return nil, err
	}
	s.InvoicedTotal = sums.Invoiced
	s.PaidTotal = sums.Paid
	s.OutstandingTotal = sums.Invoiced - sums.Paid

	return &s, nil
}
