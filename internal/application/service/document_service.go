package service

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/merocrm/mero-crm/internal/domain/entity"
	"github.com/merocrm/mero-crm/internal/domain/enum"
	"github.com/merocrm/mero-crm/internal/domain/repository"
	"github.com/merocrm/mero-crm/pkg/apperror"
	"github.com/merocrm/mero-crm/pkg/document"
	"github.com/merocrm/mero-crm/pkg/email"
	"github.com/merocrm/mero-crm/pkg/export"
	"github.com/merocrm/mero-crm/pkg/totals"
)

const pdfContentType = "application/pdf"

// RenderedFile is a generated download
type RenderedFile struct {
	FileName    string
	ContentType string
	Data        []byte
}

// DocumentService renders invoices and quotes, mails invoices and exports
// client lists
type DocumentService struct {
	invoices     *InvoiceService
	quotes       *QuoteService
	clients      *ClientService
	tenantRepo   repository.TenantRepository
	settingsRepo repository.SettingsRepository
	generator    *document.Generator
	emailService *email.EmailService
}

// NewDocumentService creates a new document service
func NewDocumentService(
	invoices *InvoiceService,
	quotes *QuoteService,
	clients *ClientService,
	tenantRepo repository.TenantRepository,
	settingsRepo repository.SettingsRepository,
	generator *document.Generator,
	emailService *email.EmailService,
) *DocumentService {
	return &DocumentService{
		invoices:     invoices,
		quotes:       quotes,
		clients:      clients,
		tenantRepo:   tenantRepo,
		settingsRepo: settingsRepo,
		generator:    generator,
		emailService: emailService,
	}
}

func companyParty(org *orgDefaults) document.Party {
	return document.Party{
		Name:      org.CompanyName,
		Email:     org.Company.CompanyEmail,
		Phone:     org.Company.CompanyPhone,
		Address:   org.Company.CompanyAddress,
		TaxNumber: org.Company.TaxNumber,
	}
}

func clientParty(c *entity.Client) document.Party {
	if c == nil {
		return document.Party{}
	}
	return document.Party{
		Name:      c.Name,
		Email:     c.Email,
		Phone:     c.Phone,
		Address:   c.Address,
		TaxNumber: c.TaxNumber,
	}
}

func (s *DocumentService) invoiceDocument(ctx context.Context, id uuid.UUID) (*entity.Invoice, document.Document, error) {
	invoice, err := s.invoices.GetInvoice(ctx, id)
	if err != nil {
		return nil, document.Document{}, err
	}
	org, err := loadOrgDefaults(ctx, s.tenantRepo, s.settingsRepo)
	if err != nil {
		return nil, document.Document{}, err
	}
	return invoice, document.Document{
		Kind:     document.KindInvoice,
		Number:   invoice.DisplayNumber,
		Date:     invoice.Date,
		DueDate:  invoice.ExpiredDate,
		Status:   string(invoice.PaymentStatus),
		Currency: invoice.Currency,
		Company:  companyParty(org),
		Client:   clientParty(invoice.Client),
		Items:    invoice.LineItems(),
		TaxRate:  invoice.TaxRate,
		Discount: invoice.Discount,
		Credit:   invoice.Credit,
		Notes:    invoice.Notes,
	}, nil
}

func (s *DocumentService) render(doc document.Document) (*RenderedFile, error) {
	data, err := s.generator.Generate(doc)
	if err != nil {
		return nil, err
	}
	return &RenderedFile{FileName: document.FileName(doc), ContentType: pdfContentType, Data: data}, nil
}

// InvoicePDF renders an invoice
func (s *DocumentService) InvoicePDF(ctx context.Context, id uuid.UUID) (*RenderedFile, error) {
	_, doc, err := s.invoiceDocument(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.render(doc)
}

// QuotePDF renders a quote
func (s *DocumentService) QuotePDF(ctx context.Context, id uuid.UUID) (*RenderedFile, error) {
	quote, err := s.quotes.GetQuote(ctx, id)
	if err != nil {
		return nil, err
	}
	org, err := loadOrgDefaults(ctx, s.tenantRepo, s.settingsRepo)
	if err != nil {
		return nil, err
	}
	return s.render(document.Document{
		Kind:     document.KindQuote,
		Number:   quote.DisplayNumber,
		Date:     quote.Date,
		DueDate:  quote.ExpiredDate,
		Status:   string(quote.Status),
		Currency: quote.Currency,
		Company:  companyParty(org),
		Client:   clientParty(quote.Client),
		Items:    quote.LineItems(),
		TaxRate:  quote.TaxRate,
		Discount: quote.Discount,
		Notes:    quote.Notes,
	})
}

// SendInvoice mails the invoice PDF to the client, or to the given address.
// A draft invoice is marked sent afterwards.
func (s *DocumentService) SendInvoice(ctx context.Context, id uuid.UUID, to string) (*entity.Invoice, error) {
	if !s.emailService.Configured() {
		return nil, apperror.NewAppError(http.StatusServiceUnavailable, "Email delivery is not configured")
	}

	invoice, doc, err := s.invoiceDocument(ctx, id)
	if err != nil {
		return nil, err
	}

	to = strings.TrimSpace(to)
	if to == "" {
		to = doc.Client.Email
	}
	if to == "" {
		return nil, fieldError("to", "client has no email address")
	}

	file, err := s.render(doc)
	if err != nil {
		return nil, err
	}

	mail := email.InvoiceMail{
		To:          to,
		ClientName:  doc.Client.Name,
		CompanyName: doc.Company.Name,
		Kind:        doc.Kind.Label(),
		Number:      doc.Number,
		Total:       totals.FormatMoney(doc.Currency, invoice.Total),
		Attachment: &email.Attachment{
			FileName:    file.FileName,
			ContentType: file.ContentType,
			Data:        file.Data,
		},
	}
	if doc.DueDate != nil {
		mail.DueDate = doc.DueDate.Format("2006-01-02")
	}
	if err := s.emailService.SendInvoice(mail); err != nil {
		return nil, fmt.Errorf("send invoice %s: %w", doc.Number, err)
	}

	if invoice.Status != enum.DocumentStatusDraft {
		return invoice, nil
	}
	sent := string(enum.DocumentStatusSent)
	return s.invoices.UpdateInvoice(ctx, id, &DocumentInput{Status: &sent})
}

var clientColumns = []export.Column[entity.Client]{
	{Header: "Name", Width: 30, Value: func(c entity.Client) any { return c.Name }},
	{Header: "Email", Width: 30, Value: func(c entity.Client) any { return c.Email }},
	{Header: "Phone", Width: 18, Value: func(c entity.Client) any { return c.Phone }},
	{Header: "Country", Width: 16, Value: func(c entity.Client) any { return c.Country }},
	{Header: "Address", Width: 40, Value: func(c entity.Client) any { return c.Address }},
	{Header: "Tax number", Width: 18, Value: func(c entity.Client) any { return c.TaxNumber }},
	{Header: "Created", Width: 14, Value: func(c entity.Client) any { return c.CreatedAt.Format("2006-01-02") }},
}

// ExportClients writes the matching clients as a spreadsheet to w
func (s *DocumentService) ExportClients(ctx context.Context, input *ListInput, w io.Writer) error {
	clients, err := s.clients.ExportClients(ctx, input)
	if err != nil {
		return err
	}
	return export.Write(w, "Clients", clientColumns, clients)
}
