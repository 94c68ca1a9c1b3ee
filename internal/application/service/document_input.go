package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/merocrm/mero-crm/internal/domain/enum"
	"github.com/merocrm/mero-crm/internal/domain/repository"
	"github.com/merocrm/mero-crm/pkg/totals"
)

// DocumentInput is the editable part of an invoice or quote. Nil fields are
// left unchanged on update; a nil Items slice keeps the stored lines.
type DocumentInput struct {
	ClientID    *string
	Reference   *string
	Date        *time.Time
	ExpiredDate *time.Time
	Items       []totals.LineItem
	TaxID       *string
	TaxRate     *float64
	Discount    *float64
	Currency    *string
	Status      *string
	Notes       *string
}

// documentDraft holds the fields shared by invoices and quotes while an
// input is applied to them
type documentDraft struct {
	ClientID    uuid.UUID
	Reference   string
	Date        time.Time
	ExpiredDate *time.Time
	Items       []totals.LineItem
	TaxID       *uuid.UUID
	TaxRate     float64
	Discount    float64
	Currency    string
	Status      enum.DocumentStatus
	Notes       string
}

// documentPricer validates document input against the tenant's clients and
// taxes and computes the totals
type documentPricer struct {
	clientRepo repository.ClientRepository
	taxRepo    repository.TaxRepository
}

// apply merges in into d and returns the recomputed totals. When creating,
// a document without an explicit tax gets the tenant's default tax.
func (p *documentPricer) apply(ctx context.Context, d *documentDraft, in *DocumentInput, creating bool) (totals.Totals, error) {
	if in.ClientID != nil {
		clientID, err := parseOptionalUUID("client_id", *in.ClientID)
		if err != nil {
			return totals.Totals{}, err
		}
		if clientID == nil {
			return totals.Totals{}, fieldError("client_id", "is required")
		}
		client, err := p.clientRepo.GetByID(ctx, *clientID)
		if err != nil {
			return totals.Totals{}, err
		}
		if client == nil {
			return totals.Totals{}, fieldError("client_id", "client does not exist")
		}
		d.ClientID = *clientID
	}
	if d.ClientID == uuid.Nil {
		return totals.Totals{}, fieldError("client_id", "is required")
	}

	if in.Reference != nil {
		d.Reference = strings.TrimSpace(*in.Reference)
	}
	if in.Date != nil {
		d.Date = *in.Date
	}
	if in.ExpiredDate != nil {
		d.ExpiredDate = in.ExpiredDate
	}
	if in.Currency != nil && *in.Currency != "" {
		d.Currency = strings.ToUpper(strings.TrimSpace(*in.Currency))
	}
	if in.Notes != nil {
		d.Notes = *in.Notes
	}
	if in.Status != nil {
		status := enum.DocumentStatus(*in.Status)
		if !status.Valid() {
			return totals.Totals{}, fieldError("status", "unknown status")
		}
		d.Status = status
	}
	if in.Discount != nil {
		d.Discount = *in.Discount
	}

	if in.Items != nil {
		d.Items = in.Items
	}
	if len(d.Items) == 0 {
		return totals.Totals{}, fieldError("items", "at least one item is required")
	}

	if err := p.resolveTax(ctx, d, in, creating); err != nil {
		return totals.Totals{}, err
	}

	return totals.Compute(d.Items, d.TaxRate, d.Discount), nil
}

// resolveTax picks the rate from the referenced tax, then an explicit rate,
// then the tenant default on creation
func (p *documentPricer) resolveTax(ctx context.Context, d *documentDraft, in *DocumentInput, creating bool) error {
	switch {
	case in.TaxID != nil:
		taxID, err := parseOptionalUUID("tax_id", *in.TaxID)
		if err != nil {
			return err
		}
		if taxID == nil {
			d.TaxID = nil
			if in.TaxRate != nil {
				d.TaxRate = *in.TaxRate
			}
			return nil
		}
		tax, err := p.taxRepo.GetByID(ctx, *taxID)
		if err != nil {
			return err
		}
		if tax == nil || !tax.Enabled {
			return fieldError("tax_id", "tax does not exist")
		}
		d.TaxID = &tax.ID
		d.TaxRate = tax.Rate
	case in.TaxRate != nil:
		d.TaxID = nil
		d.TaxRate = *in.TaxRate
	case creating:
		tax, err := p.taxRepo.GetDefault(ctx)
		if err != nil {
			return err
		}
		if tax != nil {
			d.TaxID = &tax.ID
			d.TaxRate = tax.Rate
		}
	}
	return nil
}
