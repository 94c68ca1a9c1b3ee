package crmclient

import (
	"encoding/json"
	"time"

	"github.com/merocrm/mero-crm/pkg/totals"
)

// Customer is a customer organization or person
type Customer struct {
	ID        string     `json:"id,omitempty"`
	Name      string     `json:"name,omitempty"`
	Email     string     `json:"email,omitempty"`
	Phone     string     `json:"phone,omitempty"`
	Country   string     `json:"country,omitempty"`
	Address   string     `json:"address,omitempty"`
	TaxNumber string     `json:"tax_number,omitempty"`
	Removed   bool       `json:"removed,omitempty"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// Lead is a prospect that may become a client
type Lead struct {
	ID        string     `json:"id,omitempty"`
	Name      string     `json:"name,omitempty"`
	Email     string     `json:"email,omitempty"`
	Phone     string     `json:"phone,omitempty"`
	Company   string     `json:"company,omitempty"`
	Source    string     `json:"source,omitempty"`
	Status    string     `json:"status,omitempty"`
	Notes     string     `json:"notes,omitempty"`
	ClientID  string     `json:"client_id,omitempty"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

// Deal is a sales opportunity
type Deal struct {
	ID                string     `json:"id,omitempty"`
	Title             string     `json:"title,omitempty"`
	ClientID          string     `json:"client_id,omitempty"`
	LeadID            string     `json:"lead_id,omitempty"`
	Value             float64    `json:"value,omitempty"`
	Currency          string     `json:"currency,omitempty"`
	Stage             string     `json:"stage,omitempty"`
	Probability       int        `json:"probability,omitempty"`
	ExpectedCloseDate *time.Time `json:"expected_close_date,omitempty"`
	Notes             string     `json:"notes,omitempty"`
	CreatedAt         *time.Time `json:"created_at,omitempty"`
}

// Item is a stored line of an invoice or quote
type Item struct {
	ID          string  `json:"id,omitempty"`
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	Total       float64 `json:"total"`
}

// Invoice is a bill sent to a client
type Invoice struct {
	ID                   string     `json:"id"`
	Number               int        `json:"number"`
	Year                 int        `json:"year"`
	DisplayNumber        string     `json:"display_number"`
	Reference            string     `json:"reference,omitempty"`
	Date                 time.Time  `json:"date"`
	ExpiredDate          *time.Time `json:"expired_date,omitempty"`
	ClientID             string     `json:"client_id"`
	ClientName           string     `json:"client_name"`
	Items                []Item     `json:"items"`
	TaxID                string     `json:"tax_id,omitempty"`
	TaxRate              float64    `json:"tax_rate"`
	Subtotal             float64    `json:"subtotal"`
	TaxAmount            float64    `json:"tax_amount"`
	Discount             float64    `json:"discount"`
	Total                float64    `json:"total"`
	Credit               float64    `json:"credit"`
	Currency             string     `json:"currency"`
	Status               string     `json:"status"`
	PaymentStatus        string     `json:"payment_status"`
	Notes                string     `json:"notes,omitempty"`
	ConvertedFromQuoteID string     `json:"converted_from_quote_id,omitempty"`
	Removed              bool       `json:"removed"`
	CreatedAt            time.Time  `json:"created_at"`
}

// LineItems returns the items in the shape used for totals
func (i Invoice) LineItems() []totals.LineItem {
	return lineItems(i.Items)
}

// Outstanding is the amount still owed
func (i Invoice) Outstanding() float64 {
	return i.Total - i.Credit
}

// Quote is a priced offer that can be converted into an invoice
type Quote struct {
	ID            string     `json:"id"`
	Number        int        `json:"number"`
	Year          int        `json:"year"`
	DisplayNumber string     `json:"display_number"`
	Date          time.Time  `json:"date"`
	ExpiredDate   *time.Time `json:"expired_date,omitempty"`
	ClientID      string     `json:"client_id"`
	ClientName    string     `json:"client_name"`
	Items         []Item     `json:"items"`
	TaxID         string     `json:"tax_id,omitempty"`
	TaxRate       float64    `json:"tax_rate"`
	Subtotal      float64    `json:"subtotal"`
	TaxAmount     float64    `json:"tax_amount"`
	Discount      float64    `json:"discount"`
	Total         float64    `json:"total"`
	Currency      string     `json:"currency"`
	Status        string     `json:"status"`
	Notes         string     `json:"notes,omitempty"`
	Converted     bool       `json:"converted"`
	InvoiceID     string     `json:"invoice_id,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// LineItems returns the items in the shape used for totals
func (q Quote) LineItems() []totals.LineItem {
	return lineItems(q.Items)
}

func lineItems(items []Item) []totals.LineItem {
	out := make([]totals.LineItem, len(items))
	for i, it := range items {
		out[i] = totals.LineItem{Description: it.Description, Quantity: it.Quantity, UnitPrice: it.UnitPrice}
	}
	return out
}

// DocumentInput is the request body for creating or updating an invoice or quote
type DocumentInput struct {
	ClientID    string            `json:"client_id,omitempty"`
	Reference   string            `json:"reference,omitempty"`
	Date        *time.Time        `json:"date,omitempty"`
	ExpiredDate *time.Time        `json:"expired_date,omitempty"`
	Items       []totals.LineItem `json:"items,omitempty"`
	TaxID       string            `json:"tax_id,omitempty"`
	TaxRate     *float64          `json:"tax_rate,omitempty"`
	Discount    *float64          `json:"discount,omitempty"`
	Currency    string            `json:"currency,omitempty"`
	Status      string            `json:"status,omitempty"`
	Notes       string            `json:"notes,omitempty"`
}

// DocumentInputFromDraft copies the editable state of a form into a request body
func DocumentInputFromDraft(clientID string, d *totals.Draft) DocumentInput {
	items := make([]totals.LineItem, len(d.Items))
	copy(items, d.Items)
	taxRate, discount := d.TaxRate, d.Discount
	return DocumentInput{
		ClientID: clientID,
		Items:    items,
		TaxRate:  &taxRate,
		Discount: &discount,
	}
}

// Payment records money received against an invoice
type Payment struct {
	ID            string     `json:"id,omitempty"`
	Number        int        `json:"number,omitempty"`
	Date          *time.Time `json:"date,omitempty"`
	Amount        float64    `json:"amount,omitempty"`
	Currency      string     `json:"currency,omitempty"`
	PaymentModeID string     `json:"payment_mode_id,omitempty"`
	InvoiceID     string     `json:"invoice_id,omitempty"`
	ClientID      string     `json:"client_id,omitempty"`
	Reference     string     `json:"reference,omitempty"`
	Description   string     `json:"description,omitempty"`
	Removed       bool       `json:"removed,omitempty"`
	CreatedAt     *time.Time `json:"created_at,omitempty"`
}

// Tax is a named tax rate
type Tax struct {
	ID        string  `json:"id,omitempty"`
	Name      string  `json:"name,omitempty"`
	Rate      float64 `json:"rate"`
	IsDefault bool    `json:"is_default"`
	Enabled   bool    `json:"enabled"`
}

// PaymentMode is a way of paying (cash, bank transfer...)
type PaymentMode struct {
	ID          string `json:"id,omitempty"`
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
	IsDefault   bool   `json:"is_default"`
	Enabled     bool   `json:"enabled"`
}

// Activity is a call, meeting, task or note attached to a record
type Activity struct {
	ID        string     `json:"id,omitempty"`
	Type      string     `json:"type,omitempty"`
	Subject   string     `json:"subject,omitempty"`
	Notes     string     `json:"notes,omitempty"`
	ClientID  string     `json:"client_id,omitempty"`
	LeadID    string     `json:"lead_id,omitempty"`
	DealID    string     `json:"deal_id,omitempty"`
	DueAt     *time.Time `json:"due_at,omitempty"`
	Status    string     `json:"status,omitempty"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

// Setting is one key of the organization configuration
type Setting struct {
	Key      string          `json:"key"`
	Value    json.RawMessage `json:"value"`
	Category string          `json:"category"`
}

// User is an account
type User struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// Member is a user within the current organization
type Member struct {
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Role      string    `json:"role"`
	JoinedAt  time.Time `json:"joined_at"`
}

// Ticket is a support ticket of the organization console
type Ticket struct {
	ID          string     `json:"id"`
	Subject     string     `json:"subject"`
	Description string     `json:"description,omitempty"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	ClientID    *string    `json:"client_id,omitempty"`
	AssigneeID  *string    `json:"assignee_id,omitempty"`
	ClosedAt    *time.Time `json:"closed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// Analytics summarizes the organization's activity
type Analytics struct {
	Members          int64            `json:"members"`
	MembersByRole    map[string]int64 `json:"members_by_role"`
	Clients          int64            `json:"clients"`
	Leads            int64            `json:"leads"`
	OpenDeals        int64            `json:"open_deals"`
	Invoices         int64            `json:"invoices"`
	UnpaidInvoices   int64            `json:"unpaid_invoices"`
	InvoicedTotal    float64          `json:"invoiced_total"`
	PaidTotal        float64          `json:"paid_total"`
	OutstandingTotal float64          `json:"outstanding_total"`
}
