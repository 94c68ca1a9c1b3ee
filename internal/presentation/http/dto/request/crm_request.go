package request

import (
	"encoding/json"

	"github.com/merocrm/mero-crm/internal/application/service"
	"github.com/merocrm/mero-crm/pkg/pagination"
)

// ListRequest holds the query parameters of list endpoints
type ListRequest struct {
	Page   int    `form:"page"`
	Limit  int    `form:"limit"`
	Search string `form:"search"`
	Status string `form:"status"`
}

// Input converts the query into a service list input
func (r *ListRequest) Input(filters map[string]string) *service.ListInput {
	return &service.ListInput{
		Params:  pagination.Params{Page: r.Page, Limit: r.Limit},
		Search:  r.Search,
		Status:  r.Status,
		Filters: filters,
	}
}

// ClientRequest creates or patches a client
type ClientRequest struct {
	Name      *string `json:"name"`
	Email     *string `json:"email"`
	Phone     *string `json:"phone"`
	Country   *string `json:"country"`
	Address   *string `json:"address"`
	TaxNumber *string `json:"tax_number"`
}

func (r *ClientRequest) Input() *service.ClientInput {
	return &service.ClientInput{
		Name:      r.Name,
		Email:     r.Email,
		Phone:     r.Phone,
		Country:   r.Country,
		Address:   r.Address,
		TaxNumber: r.TaxNumber,
	}
}

// LeadRequest creates or patches a lead
type LeadRequest struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Phone    *string `json:"phone"`
	Company  *string `json:"company"`
	Source   *string `json:"source"`
	Status   *string `json:"status"`
	Notes    *string `json:"notes"`
	ClientID *string `json:"client_id"`
}

func (r *LeadRequest) Input() *service.LeadInput {
	return &service.LeadInput{
		Name:     r.Name,
		Email:    r.Email,
		Phone:    r.Phone,
		Company:  r.Company,
		Source:   r.Source,
		Status:   r.Status,
		Notes:    r.Notes,
		ClientID: r.ClientID,
	}
}

// DealRequest creates or patches a deal
type DealRequest struct {
	Title             *string  `json:"title"`
	ClientID          *string  `json:"client_id"`
	LeadID            *string  `json:"lead_id"`
	Value             *float64 `json:"value"`
	Currency          *string  `json:"currency"`
	Stage             *string  `json:"stage"`
	Probability       *int     `json:"probability"`
	ExpectedCloseDate *Date    `json:"expected_close_date"`
	Notes             *string  `json:"notes"`
}

func (r *DealRequest) Input() *service.DealInput {
	return &service.DealInput{
		Title:             r.Title,
		ClientID:          r.ClientID,
		LeadID:            r.LeadID,
		Value:             r.Value,
		Currency:          r.Currency,
		Stage:             r.Stage,
		Probability:       r.Probability,
		ExpectedCloseDate: r.ExpectedCloseDate.TimePtr(),
		Notes:             r.Notes,
	}
}

// ActivityRequest creates or patches an activity
type ActivityRequest struct {
	Type     *string `json:"type"`
	Subject  *string `json:"subject"`
	Notes    *string `json:"notes"`
	ClientID *string `json:"client_id"`
	LeadID   *string `json:"lead_id"`
	DealID   *string `json:"deal_id"`
	DueAt    *Date   `json:"due_at"`
	Status   *string `json:"status"`
}

func (r *ActivityRequest) Input() *service.ActivityInput {
	return &service.ActivityInput{
		Type:     r.Type,
		Subject:  r.Subject,
		Notes:    r.Notes,
		ClientID: r.ClientID,
		LeadID:   r.LeadID,
		DealID:   r.DealID,
		DueAt:    r.DueAt.TimePtr(),
		Status:   r.Status,
	}
}

// TaxRequest creates or patches a tax
type TaxRequest struct {
	Name      *string  `json:"name"`
	Rate      *float64 `json:"rate"`
	IsDefault *bool    `json:"is_default"`
	Enabled   *bool    `json:"enabled"`
}

func (r *TaxRequest) Input() *service.TaxInput {
	return &service.TaxInput{Name: r.Name, Rate: r.Rate, IsDefault: r.IsDefault, Enabled: r.Enabled}
}

// PaymentModeRequest creates or patches a payment mode
type PaymentModeRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	IsDefault   *bool   `json:"is_default"`
	Enabled     *bool   `json:"enabled"`
}

func (r *PaymentModeRequest) Input() *service.PaymentModeInput {
	return &service.PaymentModeInput{Name: r.Name, Description: r.Description, IsDefault: r.IsDefault, Enabled: r.Enabled}
}

// PaymentRequest records or patches a payment
type PaymentRequest struct {
	InvoiceID     *string  `json:"invoice_id"`
	Amount        *float64 `json:"amount"`
	Date          *Date    `json:"date"`
	PaymentModeID *string  `json:"payment_mode_id"`
	Reference     *string  `json:"reference"`
	Description   *string  `json:"description"`
}

func (r *PaymentRequest) Input() *service.PaymentInput {
	return &service.PaymentInput{
		InvoiceID:     r.InvoiceID,
		Amount:        r.Amount,
		Date:          r.Date.TimePtr(),
		PaymentModeID: r.PaymentModeID,
		Reference:     r.Reference,
		Description:   r.Description,
	}
}

// SettingRequest stores a setting value
type SettingRequest struct {
	Value    json.RawMessage `json:"value" binding:"required"`
	Category string          `json:"category"`
}

// RoleRequest changes a member's role
type RoleRequest struct {
	Role string `json:"role" binding:"required"`
}

// TicketRequest opens or patches a support ticket
type TicketRequest struct {
	Subject     *string `json:"subject"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
	Priority    *string `json:"priority"`
	ClientID    *string `json:"client_id"`
	AssigneeID  *string `json:"assignee_id"`
}

func (r *TicketRequest) Input() *service.TicketInput {
	return &service.TicketInput{
		Subject:     r.Subject,
		Description: r.Description,
		Status:      r.Status,
		Priority:    r.Priority,
		ClientID:    r.ClientID,
		AssigneeID:  r.AssigneeID,
	}
}
