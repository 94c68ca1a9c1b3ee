// Package crmclient is a typed HTTP client for the Mero CRM REST API.
package crmclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/merocrm/mero-crm/pkg/apperror"
)

// AppSessionHeader carries the lock-screen session token
const AppSessionHeader = "X-App-Session"

const defaultTimeout = 30 * time.Second

// Client talks to the API on behalf of one Session
type Client struct {
	baseURL   string
	session   *Session
	public    *http.Client
	authed    *http.Client
	userAgent string

	clients      *Resource[Customer]
	leads        *Resource[Lead]
	deals        *Resource[Deal]
	invoices     *InvoiceResource
	quotes       *QuoteResource
	payments     *Resource[Payment]
	taxes        *Resource[Tax]
	paymentModes *Resource[PaymentMode]
	activities   *Resource[Activity]
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient sets the underlying HTTP client. Its transport is wrapped
// to add the bearer token and app session header.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.public = hc
	}
}

// WithUserAgent sets the User-Agent header
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// New creates a client for the API rooted at baseURL (for example
// http://localhost:8080/api/v1). A nil session is replaced by an empty one.
func New(baseURL string, session *Session, opts ...Option) *Client {
	if session == nil {
		session = NewSession()
	}
	c := &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		session:   session,
		public:    &http.Client{Timeout: defaultTimeout},
		userAgent: "mero-crm-go",
	}
	for _, opt := range opts {
		opt(c)
	}

	base := c.public.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	c.authed = &http.Client{
		Timeout: c.public.Timeout,
		Transport: &oauth2.Transport{
			Source: session,
			Base:   &appSessionTransport{session: session, base: base},
		},
	}

	c.clients = NewResource[Customer](c, "/crm/clients")
	c.leads = NewResource[Lead](c, "/crm/leads")
	c.deals = NewResource[Deal](c, "/crm/deals")
	c.invoices = &InvoiceResource{Resource: NewResource[Invoice](c, "/crm/invoices")}
	c.quotes = &QuoteResource{Resource: NewResource[Quote](c, "/crm/quotes")}
	c.payments = NewResource[Payment](c, "/crm/payments")
	c.taxes = NewResource[Tax](c, "/crm/taxes")
	c.paymentModes = NewResource[PaymentMode](c, "/crm/payment-modes")
	c.activities = NewResource[Activity](c, "/crm/activities")
	return c
}

// Session returns the session the client authenticates with
func (c *Client) Session() *Session { return c.session }

func (c *Client) Clients() *Resource[Customer]         { return c.clients }
func (c *Client) Leads() *Resource[Lead]               { return c.leads }
func (c *Client) Deals() *Resource[Deal]               { return c.deals }
func (c *Client) Invoices() *InvoiceResource           { return c.invoices }
func (c *Client) Quotes() *QuoteResource               { return c.quotes }
func (c *Client) Payments() *Resource[Payment]         { return c.payments }
func (c *Client) Taxes() *Resource[Tax]                { return c.taxes }
func (c *Client) PaymentModes() *Resource[PaymentMode] { return c.paymentModes }
func (c *Client) Activities() *Resource[Activity]      { return c.activities }

// Settings returns the settings API
func (c *Client) Settings() *SettingsAPI { return &SettingsAPI{c: c} }

// Auth returns the authentication API
func (c *Client) Auth() *AuthAPI { return &AuthAPI{c: c} }

// Org returns the organization console API
func (c *Client) Org() *OrgAPI { return &OrgAPI{c: c} }

// appSessionTransport adds the app session header when the app is unlocked
type appSessionTransport struct {
	session *Session
	base    http.RoundTripper
}

func (t *appSessionTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	token := t.session.AppSession()
	if token == "" {
		return t.base.RoundTrip(req)
	}
	req2 := req.Clone(req.Context())
	req2.Header.Set(AppSessionHeader, token)
	return t.base.RoundTrip(req2)
}

// envelope is the API response wrapper
type envelope struct {
	Success bool                  `json:"success"`
	Message string                `json:"message"`
	Data    json.RawMessage       `json:"data"`
	Errors  []apperror.FieldError `json:"errors"`
}

// request describes one API call
type request struct {
	method string
	path   string
	query  url.Values
	body   any
	public bool
}

// raw performs the call and returns the body of a successful response
func (c *Client) raw(ctx context.Context, r request) ([]byte, error) {
	if !r.public && c.session.AccessToken() == "" {
		return nil, &apperror.AppError{Code: http.StatusUnauthorized, Message: ErrNoSession.Error()}
	}

	target := c.baseURL + r.path
	if len(r.query) > 0 {
		target += "?" + r.query.Encode()
	}

	var body io.Reader
	if r.body != nil {
		payload, err := json.Marshal(r.body)
		if err != nil {
			return nil, fmt.Errorf("encode %s %s: %w", r.method, r.path, err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, target, body)
	if err != nil {
		return nil, fmt.Errorf("build %s %s: %w", r.method, r.path, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	hc := c.authed
	if r.public {
		hc = c.public
	}
	resp, err := hc.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, &apperror.TransportError{Op: r.method, URL: target, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &apperror.TransportError{Op: r.method, URL: target, Err: err}
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return nil, decodeError(resp.StatusCode, data)
	}
	return data, nil
}

// do performs the call and decodes the envelope's data into out
func (c *Client) do(ctx context.Context, r request, out any) error {
	data, err := c.raw(ctx, r)
	if err != nil {
		return err
	}
	if out == nil || len(data) == 0 {
		return nil
	}
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return fmt.Errorf("decode %s %s: %w", r.method, r.path, err)
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decode %s %s data: %w", r.method, r.path, err)
	}
	return nil
}

func decodeError(status int, body []byte) error {
	appErr := &apperror.AppError{Code: status}
	var env envelope
	if err := json.Unmarshal(body, &env); err == nil {
		appErr.Message = env.Message
		appErr.Errors = env.Errors
	}
	if appErr.Message == "" {
		appErr.Message = http.StatusText(status)
	}
	return appErr
}
