package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/merocrm/mero-crm/internal/domain/entity"
	"github.com/merocrm/mero-crm/internal/domain/enum"
	"github.com/merocrm/mero-crm/internal/domain/repository"
	"github.com/merocrm/mero-crm/pkg/apperror"
	"github.com/merocrm/mero-crm/pkg/pagination"
	"github.com/merocrm/mero-crm/pkg/totals"
	"github.com/merocrm/mero-crm/pkg/utils"
)

// QuoteService handles quote-related operations
type QuoteService struct {
	quoteRepo    repository.QuoteRepository
	invoices     *InvoiceService
	tenantRepo   repository.TenantRepository
	settingsRepo repository.SettingsRepository
	pricer       *documentPricer
	now          func() time.Time
}

// NewQuoteService creates a new quote service
func NewQuoteService(
	quoteRepo repository.QuoteRepository,
	invoices *InvoiceService,
	clientRepo repository.ClientRepository,
	taxRepo repository.TaxRepository,
	tenantRepo repository.TenantRepository,
	settingsRepo repository.SettingsRepository,
) *QuoteService {
	return &QuoteService{
		quoteRepo:    quoteRepo,
		invoices:     invoices,
		tenantRepo:   tenantRepo,
		settingsRepo: settingsRepo,
		pricer:       &documentPricer{clientRepo: clientRepo, taxRepo: taxRepo},
		now:          time.Now,
	}
}

func quoteDraft(q *entity.Quote) *documentDraft {
	return &documentDraft{
		ClientID:    q.ClientID,
		Date:        q.Date,
		ExpiredDate: q.ExpiredDate,
		Items:       q.LineItems(),
		TaxID:       q.TaxID,
		TaxRate:     q.TaxRate,
		Discount:    q.Discount,
		Currency:    q.Currency,
		Status:      q.Status,
		Notes:       q.Notes,
	}
}

func (d *documentDraft) toQuote(q *entity.Quote) {
	q.ClientID = d.ClientID
	q.Date = d.Date
	q.ExpiredDate = d.ExpiredDate
	q.Items = entity.NewQuoteItems(d.Items)
	q.TaxID = d.TaxID
	q.Currency = d.Currency
	q.Status = d.Status
	q.Notes = d.Notes
}

// CreateQuote prices and numbers a new quote
func (s *QuoteService) CreateQuote(ctx context.Context, userID uuid.UUID, input *DocumentInput) (*entity.Quote, error) {
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

	quote := &entity.Quote{TenantID: tenantID, CreatedBy: userID}
	draft.toQuote(quote)
	quote.ApplyTotals(t)

	err = s.quoteRepo.CreateNumbered(ctx, quote, func(number int) {
		quote.Number = number
		quote.Year = quote.Date.Year()
		quote.DisplayNumber = utils.FormatDocumentNumber(org.QuotePrefix, quote.Year, number)
	})
	if err != nil {
		return nil, err
	}
	return s.GetQuote(ctx, quote.ID)
}

// GetQuote retrieves a quote with its items and client
func (s *QuoteService) GetQuote(ctx context.Context, id uuid.UUID) (*entity.Quote, error) {
	return getRecord[entity.Quote](ctx, s.quoteRepo, id, "Quote")
}

// ListQuotes pages through the tenant's quotes
func (s *QuoteService) ListQuotes(ctx context.Context, input *ListInput) (*pagination.Page[entity.Quote], error) {
	return listRecords[entity.Quote](ctx, s.quoteRepo, input)
}

// UpdateQuote applies the input and recomputes the totals
func (s *QuoteService) UpdateQuote(ctx context.Context, id uuid.UUID, input *DocumentInput) (*entity.Quote, error) {
	quote, err := s.GetQuote(ctx, id)
	if err != nil {
		return nil, err
	}
	if quote.Converted {
		return nil, apperror.NewConflictError("Quote has already been converted to an invoice")
	}

	draft := quoteDraft(quote)
	t, err := s.pricer.apply(ctx, draft, input, false)
	if err != nil {
		return nil, err
	}
	draft.toQuote(quote)
	quote.ApplyTotals(t)

	if err := s.quoteRepo.Update(ctx, quote); err != nil {
		return nil, err
	}
	return s.GetQuote(ctx, id)
}

// DeleteQuote marks a quote as removed
func (s *QuoteService) DeleteQuote(ctx context.Context, id uuid.UUID) error {
	return removeRecord[entity.Quote](ctx, s.quoteRepo, id, "Quote")
}

// ConvertToInvoice creates an invoice carrying the quote's client, items,
// tax and discount and marks the quote converted. A quote converts once.
func (s *QuoteService) ConvertToInvoice(ctx context.Context, userID, id uuid.UUID) (*entity.Invoice, error) {
	quote, err := s.GetQuote(ctx, id)
	if err != nil {
		return nil, err
	}
	if quote.Converted {
		return nil, apperror.NewConflictError("Quote has already been converted to an invoice")
	}

	org, err := loadOrgDefaults(ctx, s.tenantRepo, s.settingsRepo)
	if err != nil {
		return nil, err
	}

	invoice := &entity.Invoice{
		TenantID:             quote.TenantID,
		CreatedBy:            userID,
		Date:                 s.now(),
		ExpiredDate:          quote.ExpiredDate,
		ClientID:             quote.ClientID,
		TaxID:                quote.TaxID,
		Items:                entity.NewInvoiceItems(quote.LineItems()),
		Currency:             quote.Currency,
		Status:               enum.DocumentStatusDraft,
		PaymentStatus:        enum.PaymentStatusUnpaid,
		Notes:                quote.Notes,
		ConvertedFromQuoteID: &quote.ID,
	}
	invoice.ApplyTotals(totals.Compute(quote.LineItems(), quote.TaxRate, quote.Discount))
	if err := s.quoteRepo.Convert(ctx, quote.ID, invoice, numberInvoice(invoice, org.InvoicePrefix)); err != nil {
		if errors.Is(err, repository.ErrAlreadyConverted) {
			return nil, apperror.NewConflictError("Quote has already been converted to an invoice")
		}
		return nil, err
	}
	return s.invoices.GetInvoice(ctx, invoice.ID)
}
