package crmclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/merocrm/mero-crm/pkg/pagination"
)

// ListQuery holds the parameters of a list request
type ListQuery struct {
	Page    int
	Limit   int
	Search  string
	Status  string
	Filters map[string]string
}

// Values encodes the query. Page and limit fall back to their defaults;
// empty search, status and filter values are left out entirely.
func (q ListQuery) Values() url.Values {
	params := pagination.Params{Page: q.Page, Limit: q.Limit}
	if params.Page < 1 {
		params.Page = pagination.DefaultPage
	}
	if params.Limit < 1 {
		params.Limit = pagination.DefaultLimit
	}

	v := url.Values{}
	v.Set("page", strconv.Itoa(params.Page))
	v.Set("limit", strconv.Itoa(params.Limit))
	if s := strings.TrimSpace(q.Search); s != "" {
		v.Set("search", s)
	}
	if s := strings.TrimSpace(q.Status); s != "" {
		v.Set("status", s)
	}
	for k, val := range q.Filters {
		if val != "" {
			v.Set(k, val)
		}
	}
	return v
}

// Resource is the CRUD surface of one collection endpoint
type Resource[T any] struct {
	c    *Client
	path string
}

// NewResource binds a collection endpoint such as /crm/clients
func NewResource[T any](c *Client, path string) *Resource[T] {
	return &Resource[T]{c: c, path: path}
}

// Path returns the collection path
func (r *Resource[T]) Path() string { return r.path }

// List fetches one page of the collection
func (r *Resource[T]) List(ctx context.Context, q ListQuery) (*pagination.Page[T], error) {
	data, err := r.c.raw(ctx, request{method: http.MethodGet, path: r.path, query: q.Values()})
	if err != nil {
		return nil, err
	}
	var page pagination.Page[T]
	if err := json.Unmarshal(data, &page); err != nil {
		return nil, fmt.Errorf("decode %s list: %w", r.path, err)
	}
	if page.Data == nil {
		page.Data = []T{}
	}
	return &page, nil
}

// Get fetches a single record
func (r *Resource[T]) Get(ctx context.Context, id string) (*T, error) {
	var out T
	if err := r.c.do(ctx, request{method: http.MethodGet, path: r.item(id)}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Create posts a new record. in is any JSON-encodable value.
func (r *Resource[T]) Create(ctx context.Context, in any) (*T, error) {
	var out T
	if err := r.c.do(ctx, request{method: http.MethodPost, path: r.path, body: in}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Update patches an existing record
func (r *Resource[T]) Update(ctx context.Context, id string, in any) (*T, error) {
	var out T
	if err := r.c.do(ctx, request{method: http.MethodPatch, path: r.item(id), body: in}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete soft deletes a record
func (r *Resource[T]) Delete(ctx context.Context, id string) error {
	return r.c.do(ctx, request{method: http.MethodDelete, path: r.item(id)}, nil)
}

// Restore undoes a soft delete. The API only exposes it for clients,
// invoices and payments; other collections answer 404.
func (r *Resource[T]) Restore(ctx context.Context, id string) (*T, error) {
	var out T
	if err := r.c.do(ctx, request{method: http.MethodPost, path: r.item(id) + "/restore"}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *Resource[T]) item(id string) string {
	return r.path + "/" + url.PathEscape(id)
}

// InvoiceResource adds invoice-only actions
type InvoiceResource struct {
	*Resource[Invoice]
}

// PDF downloads the rendered invoice
func (r *InvoiceResource) PDF(ctx context.Context, id string) ([]byte, error) {
	return r.c.raw(ctx, request{method: http.MethodGet, path: r.item(id) + "/pdf"})
}

// Send mails the invoice to its client
func (r *InvoiceResource) Send(ctx context.Context, id string) error {
	return r.c.do(ctx, request{method: http.MethodPost, path: r.item(id) + "/send"}, nil)
}

// QuoteResource adds quote-only actions
type QuoteResource struct {
	*Resource[Quote]
}

// ConvertToInvoice turns the quote into a new invoice
func (r *QuoteResource) ConvertToInvoice(ctx context.Context, id string) (*Invoice, error) {
	var out Invoice
	if err := r.c.do(ctx, request{method: http.MethodPost, path: r.item(id) + "/convert-to-invoice"}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// PDF downloads the rendered quote
func (r *QuoteResource) PDF(ctx context.Context, id string) ([]byte, error) {
	return r.c.raw(ctx, request{method: http.MethodGet, path: r.item(id) + "/pdf"})
}

// ExportClients downloads the client list as a spreadsheet
func (c *Client) ExportClients(ctx context.Context, q ListQuery) ([]byte, error) {
	values := q.Values()
	values.Del("page")
	values.Del("limit")
	return c.raw(ctx, request{method: http.MethodGet, path: "/crm/clients/export", query: values})
}
