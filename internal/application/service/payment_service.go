package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/merocrm/mero-crm/internal/domain/entity"
	"github.com/merocrm/mero-crm/internal/domain/repository"
	"github.com/merocrm/mero-crm/pkg/apperror"
	"github.com/merocrm/mero-crm/pkg/pagination"
)

// PaymentService records payments against invoices
type PaymentService struct {
	paymentRepo repository.PaymentRepository
	invoiceRepo repository.InvoiceRepository
	modeRepo    repository.PaymentModeRepository
	now         func() time.Time
}

// NewPaymentService creates a new payment service
func NewPaymentService(
	paymentRepo repository.PaymentRepository,
	invoiceRepo repository.InvoiceRepository,
	modeRepo repository.PaymentModeRepository,
) *PaymentService {
	return &PaymentService{
		paymentRepo: paymentRepo,
		invoiceRepo: invoiceRepo,
		modeRepo:    modeRepo,
		now:         time.Now,
	}
}

// PaymentInput carries the fields of a payment. The invoice cannot change
// once a payment is recorded.
type PaymentInput struct {
	InvoiceID     *string
	Amount        *float64
	Date          *time.Time
	PaymentModeID *string
	Reference     *string
	Description   *string
}

func (s *PaymentService) apply(ctx context.Context, p *entity.Payment, in *PaymentInput) error {
	if in.Amount != nil {
		p.Amount = *in.Amount
	}
	if p.Amount <= 0 {
		return fieldError("amount", "must be greater than zero")
	}
	if in.Date != nil {
		p.Date = *in.Date
	}
	if in.Reference != nil {
		p.Reference = strings.TrimSpace(*in.Reference)
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.PaymentModeID != nil {
		modeID, err := parseOptionalUUID("payment_mode_id", *in.PaymentModeID)
		if err != nil {
			return err
		}
		if modeID != nil {
			mode, err := s.modeRepo.GetByID(ctx, *modeID)
			if err != nil {
				return err
			}
			if mode == nil || !mode.Enabled {
				return fieldError("payment_mode_id", "payment mode does not exist")
			}
		}
		p.PaymentModeID = modeID
	}
	return nil
}

func paymentError(err error) error {
	if errors.Is(err, repository.ErrExceedsOutstanding) {
		return fieldError("amount", "exceeds the outstanding amount of the invoice")
	}
	return err
}

// CreatePayment records a payment and credits its invoice
func (s *PaymentService) CreatePayment(ctx context.Context, userID uuid.UUID, input *PaymentInput) (*entity.Payment, error) {
	tenantID, err := requireTenant(ctx)
	if err != nil {
		return nil, err
	}

	if input.InvoiceID == nil {
		return nil, fieldError("invoice_id", "is required")
	}
	invoiceID, err := parseOptionalUUID("invoice_id", *input.InvoiceID)
	if err != nil {
		return nil, err
	}
	if invoiceID == nil {
		return nil, fieldError("invoice_id", "is required")
	}
	invoice, err := s.invoiceRepo.GetByID(ctx, *invoiceID)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, fieldError("invoice_id", "invoice does not exist")
	}

	payment := &entity.Payment{
		TenantID:  tenantID,
		CreatedBy: userID,
		Date:      s.now(),
		InvoiceID: invoice.ID,
		ClientID:  invoice.ClientID,
		Currency:  invoice.Currency,
	}
	if err := s.apply(ctx, payment, input); err != nil {
		return nil, err
	}

	if err := s.paymentRepo.Record(ctx, payment); err != nil {
		return nil, paymentError(err)
	}
	return payment, nil
}

// GetPayment retrieves a payment by ID
func (s *PaymentService) GetPayment(ctx context.Context, id uuid.UUID) (*entity.Payment, error) {
	return getRecord[entity.Payment](ctx, s.paymentRepo, id, "Payment")
}

// ListPayments pages through the tenant's payments
func (s *PaymentService) ListPayments(ctx context.Context, input *ListInput) (*pagination.Page[entity.Payment], error) {
	return listRecords[entity.Payment](ctx, s.paymentRepo, input)
}

// UpdatePayment changes a payment and credits the invoice with the
// difference
func (s *PaymentService) UpdatePayment(ctx context.Context, id uuid.UUID, input *PaymentInput) (*entity.Payment, error) {
	payment, err := s.GetPayment(ctx, id)
	if err != nil {
		return nil, err
	}
	if input.InvoiceID != nil && *input.InvoiceID != "" && *input.InvoiceID != payment.InvoiceID.String() {
		return nil, fieldError("invoice_id", "cannot be changed")
	}

	previous := payment.Amount
	if err := s.apply(ctx, payment, input); err != nil {
		return nil, err
	}
	if err := s.paymentRepo.Amend(ctx, payment, previous); err != nil {
		return nil, paymentError(err)
	}
	return payment, nil
}

// DeletePayment removes a payment and takes its amount off the invoice
func (s *PaymentService) DeletePayment(ctx context.Context, id uuid.UUID) error {
	return paymentError(removeRecord[entity.Payment](ctx, s.paymentRepo, id, "Payment"))
}

// RestorePayment brings a removed payment back onto its invoice. It fails
// if the invoice is removed or no longer has room for the amount.
func (s *PaymentService) RestorePayment(ctx context.Context, id uuid.UUID) (*entity.Payment, error) {
	existing, err := s.paymentRepo.GetAnyByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, apperror.NewNotFoundError("Payment")
	}
	removed, err := s.invoiceRemoved(ctx, existing.InvoiceID)
	if err != nil {
		return nil, err
	}
	if removed {
		return nil, apperror.NewConflictError("Restore the invoice before its payments")
	}

	payment, err := restoreRecord[entity.Payment](ctx, s.paymentRepo, id, "Payment")
	if err != nil {
		return nil, paymentError(err)
	}
	return payment, nil
}

func (s *PaymentService) invoiceRemoved(ctx context.Context, invoiceID uuid.UUID) (bool, error) {
	invoice, err := s.invoiceRepo.GetAnyByID(ctx, invoiceID)
	if err != nil {
		return false, err
	}
	if invoice == nil {
		return false, apperror.NewNotFoundError("Invoice")
	}
	return invoice.Removed, nil
}
