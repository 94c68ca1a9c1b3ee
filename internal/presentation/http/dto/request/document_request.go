package request

import (
	"github.com/merocrm/mero-crm/internal/application/service"
	"github.com/merocrm/mero-crm/internal/domain/entity"
	"github.com/merocrm/mero-crm/pkg/totals"
)

// DocumentRequest creates or patches an invoice or a quote. Items replace
// the existing lines when present.
type DocumentRequest struct {
	ClientID    *string           `json:"client_id"`
	Reference   *string           `json:"reference"`
	Date        *Date             `json:"date"`
	ExpiredDate *Date             `json:"expired_date"`
	Items       []totals.LineItem `json:"items"`
	TaxID       *string           `json:"tax_id"`
	TaxRate     *float64          `json:"tax_rate"`
	Discount    *float64          `json:"discount"`
	Currency    *string           `json:"currency"`
	Status      *string           `json:"status"`
	Notes       *string           `json:"notes"`
}

func (r *DocumentRequest) Input() *service.DocumentInput {
	return &service.DocumentInput{
		ClientID:    r.ClientID,
		Reference:   r.Reference,
		Date:        r.Date.TimePtr(),
		ExpiredDate: r.ExpiredDate.TimePtr(),
		Items:       r.Items,
		TaxID:       r.TaxID,
		TaxRate:     r.TaxRate,
		Discount:    r.Discount,
		Currency:    r.Currency,
		Status:      r.Status,
		Notes:       r.Notes,
	}
}

// SendInvoiceRequest overrides the recipient of a mailed invoice
type SendInvoiceRequest struct {
	To string `json:"to"`
}

// OrganizationRequest renames the organization or replaces its settings
type OrganizationRequest struct {
	Name     string                  `json:"name"`
	Settings *entity.TenantSettings `json:"settings"`
}
