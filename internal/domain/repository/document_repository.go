package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/merocrm/mero-crm/internal/domain/entity"
)

// NumberFunc receives the sequential number allocated to a new document
// before it is inserted
type NumberFunc func(number int)

// InvoiceRepository defines the interface for invoice data operations.
// Create and Update persist the invoice together with its items.
type InvoiceRepository interface {
	ScopedRepository[entity.Invoice]
	// CreateNumbered allocates the tenant's next invoice number and inserts
	// the invoice in one transaction
	CreateNumbered(ctx context.Context, invoice *entity.Invoice, assign NumberFunc) error
}

// QuoteRepository defines the interface for quote data operations
type QuoteRepository interface {
	ScopedRepository[entity.Quote]
	CreateNumbered(ctx context.Context, quote *entity.Quote, assign NumberFunc) error
	// Convert numbers and stores the invoice and marks the quote converted
	// in one transaction. It returns ErrAlreadyConverted if the quote was
	// converted before.
	Convert(ctx context.Context, quoteID uuid.UUID, invoice *entity.Invoice, assign NumberFunc) error
}

// PaymentRepository persists payments and keeps the paid invoice's credit
// and payment status in step. Every method that changes an amount returns
// ErrExceedsOutstanding instead of over-crediting an invoice.
type PaymentRepository interface {
	ScopedRepository[entity.Payment]
	// Record numbers and creates the payment and credits its invoice
	Record(ctx context.Context, payment *entity.Payment) error
	// Amend saves the payment and credits the invoice with the difference
	// from previousAmount
	Amend(ctx context.Context, payment *entity.Payment, previousAmount float64) error
}
