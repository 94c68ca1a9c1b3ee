package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/merocrm/mero-crm/internal/domain/entity"
	"github.com/merocrm/mero-crm/internal/domain/enum"
	"github.com/merocrm/mero-crm/internal/domain/repository"
	"github.com/merocrm/mero-crm/pkg/apperror"
	"github.com/merocrm/mero-crm/pkg/pagination"
	"github.com/merocrm/mero-crm/pkg/utils"
)

const creditTolerance = 1e-6

// InvoiceService handles invoice-related operations
type InvoiceService struct {
	invoiceRepo  repository.InvoiceRepository
	tenantRepo   repository.TenantRepository
	settingsRepo repository.SettingsRepository
	pricer       *documentPricer
	now          func() time.Time
}

// NewInvoiceService creates a new invoice service
func NewInvoiceService(
	invoiceRepo repository.InvoiceRepository,
	clientRepo repository.ClientRepository,
	taxRepo repository.TaxRepository,
	tenantRepo repository.TenantRepository,
	settingsRepo repository.SettingsRepository,
) *InvoiceService {
	return &InvoiceService{
		invoiceRepo:  invoiceRepo,
		tenantRepo:   tenantRepo,
		settingsRepo: settingsRepo,
		pricer:       &documentPricer{clientRepo: clientRepo, taxRepo: taxRepo},
		now:          time.Now,
	}
}

func invoiceDraft(inv *entity.Invoice) *documentDraft {
	return &documentDraft{
		ClientID:    inv.ClientID,
		Reference:   inv.Reference,
		Date:        inv.Date,
		ExpiredDate: inv.ExpiredDate,
		Items:       inv.LineItems(),
		TaxID:       inv.TaxID,
		TaxRate:     inv.TaxRate,
		Discount:    inv.Discount,
		Currency:    inv.Currency,
		Status:      inv.Status,
		Notes:       inv.Notes,
	}
}

func (d *documentDraft) toInvoice(inv *entity.Invoice) {
	inv.ClientID = d.ClientID
	inv.Reference = d.Reference
	inv.Date = d.Date
	inv.ExpiredDate = d.ExpiredDate
	inv.Items = entity.NewInvoiceItems(d.Items)
	inv.TaxID = d.TaxID
	inv.Currency = d.Currency
	inv.Status = d.Status
	inv.Notes = d.Notes
}

// CreateInvoice prices and numbers a new invoice
func (s *InvoiceService) CreateInvoice(ctx context.Context, userID uuid.UUID, input *DocumentInput) (*entity.Invoice, error) {
	tenantID, err := requireTenant(ctx)
	if err != nil {
		return nil, err
	}
	org, err := loadOrgDefaults(ctx, s.tenantRepo, s.settingsRepo)
	if err != nil {
		return nil, err
	}

	draft := &documentDraft{
		Date:     s.now(),
		Currency: org.Currency,
		Status:   enum.DocumentStatusDraft,
	}
	t, err := s.pricer.apply(ctx, draft, input, true)
	if err != nil {
		return nil, err
	}

	invoice := &entity.Invoice{
		TenantID:      tenantID,
		CreatedBy:     userID,
		PaymentStatus: enum.PaymentStatusUnpaid,
	}
	draft.toInvoice(invoice)
	invoice.ApplyTotals(t)

	if err := s.invoiceRepo.CreateNumbered(ctx, invoice, numberInvoice(invoice, org.InvoicePrefix)); err != nil {
		return nil, err
	}
	return s.GetInvoice(ctx, invoice.ID)
}

func numberInvoice(invoice *entity.Invoice, prefix string) repository.NumberFunc {
	return func(number int) {
		invoice.Number = number
		invoice.Year = invoice.Date.Year()
		invoice.DisplayNumber = utils.FormatDocumentNumber(prefix, invoice.Year, number)
	}
}

// GetInvoice retrieves an invoice with its items and client
func (s *InvoiceService) GetInvoice(ctx context.Context, id uuid.UUID) (*entity.Invoice, error) {
	return getRecord[entity.Invoice](ctx, s.invoiceRepo, id, "Invoice")
}

// ListInvoices pages through the tenant's invoices
func (s *InvoiceService) ListInvoices(ctx context.Context, input *ListInput) (*pagination.Page[entity.Invoice], error) {
	return listRecords[entity.Invoice](ctx, s.invoiceRepo, input)
}

// UpdateInvoice applies the input and recomputes the totals. The new total
// may not fall below the amount already paid.
func (s *InvoiceService) UpdateInvoice(ctx context.Context, id uuid.UUID, input *DocumentInput) (*entity.Invoice, error) {
	invoice, err := s.GetInvoice(ctx, id)
	if err != nil {
		return nil, err
	}

	draft := invoiceDraft(invoice)
	t, err := s.pricer.apply(ctx, draft, input, false)
	if err != nil {
		return nil, err
	}
	if t.Total+creditTolerance < invoice.Credit {
		return nil, fieldError("items", "total cannot be lower than the amount already paid")
	}

	draft.toInvoice(invoice)
	invoice.ApplyTotals(t)
	invoice.PaymentStatus = enum.PaymentStatusFor(invoice.Total, invoice.Credit)

	if err := s.invoiceRepo.Update(ctx, invoice); err != nil {
		return nil, err
	}
	return s.GetInvoice(ctx, id)
}

// DeleteInvoice marks an invoice as removed. Invoices with payments must
// have their payments removed first.
func (s *InvoiceService) DeleteInvoice(ctx context.Context, id uuid.UUID) error {
	invoice, err := s.GetInvoice(ctx, id)
	if err != nil {
		return err
	}
	if invoice.Credit > creditTolerance {
		return apperror.NewConflictError("Invoice has payments; remove them first")
	}
	return s.invoiceRepo.SetRemoved(ctx, id, true)
}

// RestoreInvoice brings a removed invoice back
func (s *InvoiceService) RestoreInvoice(ctx context.Context, id uuid.UUID) (*entity.Invoice, error) {
	return restoreRecord[entity.Invoice](ctx, s.invoiceRepo, id, "Invoice")
}
