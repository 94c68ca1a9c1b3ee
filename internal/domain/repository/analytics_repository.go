package repository

import (
	"context"
)

// Summary aggregates the CRM records of the current tenant
type Summary struct {
	Clients          int64
	Leads            int64
	OpenDeals        int64
	Invoices         int64
	UnpaidInvoices   int64
	InvoicedTotal    float64
	PaidTotal        float64
	OutstandingTotal float64
}

// AnalyticsRepository defines interface for aggregation queries
type AnalyticsRepository interface {
	// GetSummary counts records and sums invoice amounts, ignoring removed rows
	GetSummary(ctx context.Context) (*Summary, error)
}
