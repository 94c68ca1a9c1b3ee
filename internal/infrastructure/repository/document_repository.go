package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/merocrm/mero-crm/internal/domain/entity"
	"github.com/merocrm/mero-crm/internal/domain/enum"
	domainRepo "github.com/merocrm/mero-crm/internal/domain/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func orderByPosition(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

type invoiceRepository struct {
	*scopedRepository[entity.Invoice]
}

// NewInvoiceRepository creates a new invoice repository
func NewInvoiceRepository(db *gorm.DB) domainRepo.InvoiceRepository {
	return &invoiceRepository{newScopedRepository[entity.Invoice](db, listOptions{
		searchColumns: []string{"display_number", "reference", "notes"},
		statusColumn:  "status",
		filterColumns: map[string]string{
			"client_id":      "client_id",
			"payment_status": "payment_status",
			"year":           "year",
		},
		preloads: map[string]func(*gorm.DB) *gorm.DB{
			"Items":  orderByPosition,
			"Client": nil,
		},
		order: "number DESC",
	})}
}

func (r *invoiceRepository) CreateNumbered(ctx context.Context, invoice *entity.Invoice, assign domainRepo.NumberFunc) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := number(ctx, tx, invoice.TenantID, &entity.Invoice{}, assign); err != nil {
			return err
		}
		return tx.Create(invoice).Error
	})
}

// Update saves the invoice and replaces its items
func (r *invoiceRepository) Update(ctx context.Context, invoice *entity.Invoice) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(invoice).Error; err != nil {
			return err
		}
		if err := tx.Where("invoice_id = ?", invoice.ID).Delete(&entity.InvoiceItem{}).Error; err != nil {
			return err
		}
		if len(invoice.Items) == 0 {
			return nil
		}
		for i := range invoice.Items {
			invoice.Items[i].ID = uuid.Nil
			invoice.Items[i].InvoiceID = invoice.ID
		}
		return tx.Create(&invoice.Items).Error
	})
}

type quoteRepository struct {
	*scopedRepository[entity.Quote]
}

// NewQuoteRepository creates a new quote repository
func NewQuoteRepository(db *gorm.DB) domainRepo.QuoteRepository {
	return &quoteRepository{newScopedRepository[entity.Quote](db, listOptions{
		searchColumns: []string{"display_number", "notes"},
		statusColumn:  "status",
		filterColumns: map[string]string{"client_id": "client_id", "year": "year"},
		preloads: map[string]func(*gorm.DB) *gorm.DB{
			"Items":  orderByPosition,
			"Client": nil,
		},
		order: "number DESC",
	})}
}

func (r *quoteRepository) CreateNumbered(ctx context.Context, quote *entity.Quote, assign domainRepo.NumberFunc) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := number(ctx, tx, quote.TenantID, &entity.Quote{}, assign); err != nil {
			return err
		}
		return tx.Create(quote).Error
	})
}

// Update saves the quote and replaces its items
func (r *quoteRepository) Update(ctx context.Context, quote *entity.Quote) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(quote).Error; err != nil {
			return err
		}
		if err := tx.Where("quote_id = ?", quote.ID).Delete(&entity.QuoteItem{}).Error; err != nil {
			return err
		}
		if len(quote.Items) == 0 {
			return nil
		}
		for i := range quote.Items {
			quote.Items[i].ID = uuid.Nil
			quote.Items[i].QuoteID = quote.ID
		}
		return tx.Create(&quote.Items).Error
	})
}

func (r *quoteRepository) Convert(ctx context.Context, quoteID uuid.UUID, invoice *entity.Invoice, assign domainRepo.NumberFunc) error {
	if invoice.ID == uuid.Nil {
		invoice.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&entity.Quote{}).Scopes(TenantScope(ctx)).
			Where("id = ? AND converted = ?", quoteID, false).
			Updates(map[string]interface{}{
				"converted":  true,
				"invoice_id": invoice.ID,
				"status":     enum.DocumentStatusAccepted,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domainRepo.ErrAlreadyConverted
		}
		if err := number(ctx, tx, invoice.TenantID, &entity.Invoice{}, assign); err != nil {
			return err
		}
		return tx.Create(invoice).Error
	})
}

// creditTolerance absorbs float error when comparing credit with total
const creditTolerance = 1e-6

type paymentRepository struct {
	*scopedRepository[entity.Payment]
}

// NewPaymentRepository creates a new payment repository
func NewPaymentRepository(db *gorm.DB) domainRepo.PaymentRepository {
	return &paymentRepository{newScopedRepository[entity.Payment](db, listOptions{
		searchColumns: []string{"reference", "description"},
		filterColumns: map[string]string{
			"invoice_id":      "invoice_id",
			"client_id":       "client_id",
			"payment_mode_id": "payment_mode_id",
		},
		order: "number DESC",
	})}
}

func (r *paymentRepository) Record(ctx context.Context, payment *entity.Payment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := applyCredit(tx, payment.InvoiceID, payment.Amount); err != nil {
			return err
		}
		err := number(ctx, tx, payment.TenantID, &entity.Payment{}, func(n int) {
			payment.Number = n
		})
		if err != nil {
			return err
		}
		return tx.Create(payment).Error
	})
}

func (r *paymentRepository) Amend(ctx context.Context, payment *entity.Payment, previousAmount float64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if delta := payment.Amount - previousAmount; delta != 0 {
			if err := applyCredit(tx, payment.InvoiceID, delta); err != nil {
				return err
			}
		}
		return tx.Save(payment).Error
	})
}

// SetRemoved removes or restores the payment, taking its amount off or
// back onto the invoice credit
func (r *paymentRepository) SetRemoved(ctx context.Context, id uuid.UUID, removed bool) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var payment entity.Payment
		err := tx.Scopes(TenantScope(ctx)).First(&payment, "id = ?", id).Error
		if err != nil {
			return err
		}
		if payment.Removed == removed {
			return nil
		}

		delta := payment.Amount
		if removed {
			delta = -delta
		}
		if err := applyCredit(tx, payment.InvoiceID, delta); err != nil {
			return err
		}
		return tx.Model(&payment).Update("removed", removed).Error
	})
}

// applyCredit adds delta to the invoice credit unless that would exceed the
// invoice total, then refreshes the payment status
func applyCredit(tx *gorm.DB, invoiceID uuid.UUID, delta float64) error {
	result := tx.Model(&entity.Invoice{}).
		Where("id = ? AND credit + ? <= total + ?", invoiceID, delta, creditTolerance).
		Update("credit", gorm.Expr("credit + ?", delta))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainRepo.ErrExceedsOutstanding
	}

	var invoice entity.Invoice
	if err := tx.Select("id", "total", "credit").First(&invoice, "id = ?", invoiceID).Error; err != nil {
		return err
	}
	status := enum.PaymentStatusFor(invoice.Total, invoice.Credit)
	return tx.Model(&entity.Invoice{}).Where("id = ?", invoiceID).Update("payment_status", status).Error
}
