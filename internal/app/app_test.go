package app_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/smtp"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/merocrm/mero-crm/internal/app"
	"github.com/merocrm/mero-crm/internal/config"
	"github.com/merocrm/mero-crm/internal/domain/entity"
	"github.com/merocrm/mero-crm/internal/infrastructure/database"
	"github.com/merocrm/mero-crm/internal/logging"
	"github.com/merocrm/mero-crm/pkg/access"
	"github.com/merocrm/mero-crm/pkg/apperror"
	"github.com/merocrm/mero-crm/pkg/crmclient"
	"github.com/merocrm/mero-crm/pkg/email"
	"github.com/merocrm/mero-crm/pkg/totals"
	"github.com/merocrm/mero-crm/pkg/utils"
	"github.com/spf13/viper"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const ownerPassword = "correct horse battery"

type server struct {
	url string
	db  *gorm.DB

	mu   sync.Mutex
	sent []string
}

func (s *server) outbox() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.sent...)
}

func newServer(t *testing.T) *server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := database.NewSQLiteDB(fmt.Sprintf("file:app_%s?mode=memory&cache=shared", name), logger.Silent)
	if err != nil {
		t.Fatalf("NewSQLiteDB() error = %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("AutoMigrate() error = %v", err)
	}

	v := viper.New()
	v.Set("JWT_SECRET", "test-secret")
	v.Set("RATE_LIMIT_REQUESTS", 1000)
	v.Set("RATE_LIMIT_DURATION", 1)
	cfg := config.FromViper(v)

	s := &server{db: db}
	mailer := email.NewEmailService(email.EmailConfig{
		SMTPHost:  "smtp.test",
		SMTPPort:  25,
		FromEmail: "crm@acme.test",
	}).WithSender(func(_ string, _ smtp.Auth, _ string, to []string, _ []byte) error {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.sent = append(s.sent, to...)
		return nil
	})

	a := app.New(cfg, db, logging.NewWithWriter(io.Discard, &cfg.App, &cfg.Log), mailer)
	srv := httptest.NewServer(a.Router)
	t.Cleanup(func() {
		srv.Close()
		a.Close()
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	s.url = srv.URL + "/api/v1"
	return s
}

// signUp registers an owner and unlocks the app
func (s *server) signUp(t *testing.T) *crmclient.Client {
	t.Helper()
	ctx := context.Background()
	c := crmclient.New(s.url, nil)
	if _, err := c.Auth().Register(ctx, crmclient.RegisterRequest{
		Email:            "owner@acme.test",
		Password:         ownerPassword,
		FirstName:        "Olivia",
		OrganizationName: "Acme",
	}); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if _, err := c.Auth().Unlock(ctx, ownerPassword); err != nil {
		t.Fatalf("Unlock() error = %v", err)
	}
	return c
}

// join adds a user with role to the tenant and returns a signed-in,
// unlocked client for them
func (s *server) join(t *testing.T, tenantID, emailAddr string, role access.Role) (*crmclient.Client, uuid.UUID) {
	t.Helper()
	const password = "member password"
	hash, err := utils.HashPassword(password)
	if err != nil {
		t.Fatal(err)
	}
	user := &entity.User{FirstName: "M", Email: emailAddr, Password: hash}
	if err := s.db.Create(user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	membership := &entity.TenantMembership{TenantID: uuid.MustParse(tenantID), UserID: user.ID, Role: role}
	if err := s.db.Omit("Tenant", "User").Create(membership).Error; err != nil {
		t.Fatalf("create membership: %v", err)
	}

	ctx := context.Background()
	c := crmclient.New(s.url, nil)
	if _, err := c.Auth().Login(ctx, crmclient.LoginRequest{Email: emailAddr, Password: password}); err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if _, err := c.Auth().Unlock(ctx, password); err != nil {
		t.Fatalf("Unlock() error = %v", err)
	}
	return c, user.ID
}

func wantStatus(t *testing.T, err error, code int) {
	t.Helper()
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("error = %v, want status %d", err, code)
	}
	if appErr.Code != code {
		t.Fatalf("status = %d (%s), want %d", appErr.Code, appErr.Message, code)
	}
}

func TestHealth(t *testing.T) {
	s := newServer(t)
	resp, err := http.Get(s.url + "/health")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d", resp.StatusCode)
	}
}

func TestLockScreen(t *testing.T) {
	s := newServer(t)
	ctx := context.Background()
	c := crmclient.New(s.url, nil)

	_, err := c.Clients().List(ctx, crmclient.ListQuery{})
	wantStatus(t, err, http.StatusUnauthorized)

	if _, err := c.Auth().Register(ctx, crmclient.RegisterRequest{
		Email: "owner@acme.test", Password: ownerPassword, FirstName: "Olivia",
	}); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	_, err = c.Clients().List(ctx, crmclient.ListQuery{})
	wantStatus(t, err, http.StatusUnauthorized)

	_, err = c.Auth().Unlock(ctx, "wrong password")
	wantStatus(t, err, http.StatusUnauthorized)

	if _, err := c.Auth().Unlock(ctx, ownerPassword); err != nil {
		t.Fatalf("Unlock() error = %v", err)
	}
	if _, err := c.Clients().List(ctx, crmclient.ListQuery{}); err != nil {
		t.Fatalf("List() after unlock error = %v", err)
	}

	if err := c.Auth().Lock(ctx); err != nil {
		t.Fatalf("Lock() error = %v", err)
	}
	_, err = c.Clients().List(ctx, crmclient.ListQuery{})
	wantStatus(t, err, http.StatusUnauthorized)

	if _, err := c.Auth().Profile(ctx); err != nil {
		t.Errorf("Profile() while locked error = %v", err)
	}
}

func TestBillingFlow(t *testing.T) {
	s := newServer(t)
	ctx := context.Background()
	c := s.signUp(t)

	client, err := c.Clients().Create(ctx, crmclient.Customer{Name: "Globex", Email: "ap@globex.test"})
	if err != nil {
		t.Fatalf("create client: %v", err)
	}
	page, err := c.Clients().List(ctx, crmclient.ListQuery{Search: "glob"})
	if err != nil {
		t.Fatalf("list clients: %v", err)
	}
	if page.Total != 1 || len(page.Data) != 1 || page.Data[0].ID != client.ID {
		t.Fatalf("clients page = %+v", page)
	}

	_, err = c.Invoices().Create(ctx, crmclient.DocumentInput{ClientID: client.ID})
	wantStatus(t, err, http.StatusUnprocessableEntity)

	invoice, err := c.Invoices().Create(ctx, crmclient.DocumentInput{
		ClientID: client.ID,
		Items:    []totals.LineItem{{Description: "Consulting", Quantity: 2, UnitPrice: 50}},
	})
	if err != nil {
		t.Fatalf("create invoice: %v", err)
	}
	if invoice.ClientName != "Globex" || invoice.PaymentStatus != "unpaid" || invoice.Total <= 0 {
		t.Fatalf("invoice = %+v", invoice)
	}

	if _, err := c.Payments().Create(ctx, map[string]any{
		"invoice_id": invoice.ID,
		"amount":     invoice.Total,
	}); err != nil {
		t.Fatalf("create payment: %v", err)
	}
	paid, err := c.Invoices().Get(ctx, invoice.ID)
	if err != nil {
		t.Fatal(err)
	}
	if paid.PaymentStatus != "paid" {
		t.Errorf("payment status = %s, want paid", paid.PaymentStatus)
	}

	_, err = c.Payments().Create(ctx, map[string]any{"invoice_id": invoice.ID, "amount": 1})
	wantStatus(t, err, http.StatusUnprocessableEntity)

	pdf, err := c.Invoices().PDF(ctx, invoice.ID)
	if err != nil {
		t.Fatalf("PDF() error = %v", err)
	}
	if !strings.HasPrefix(string(pdf), "%PDF") {
		t.Errorf("PDF does not start with the PDF magic")
	}

	if err := c.Invoices().Send(ctx, invoice.ID); err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if out := s.outbox(); len(out) != 1 || out[0] != "ap@globex.test" {
		t.Errorf("outbox = %v", out)
	}
}

func TestQuoteConversion(t *testing.T) {
	s := newServer(t)
	ctx := context.Background()
	c := s.signUp(t)

	client, err := c.Clients().Create(ctx, crmclient.Customer{Name: "Initech"})
	if err != nil {
		t.Fatal(err)
	}
	quote, err := c.Quotes().Create(ctx, crmclient.DocumentInput{
		ClientID: client.ID,
		Items:    []totals.LineItem{{Description: "Licence", Quantity: 1, UnitPrice: 300}},
	})
	if err != nil {
		t.Fatalf("create quote: %v", err)
	}

	invoice, err := c.Quotes().ConvertToInvoice(ctx, quote.ID)
	if err != nil {
		t.Fatalf("ConvertToInvoice() error = %v", err)
	}
	if invoice.ConvertedFromQuoteID != quote.ID || invoice.Total != quote.Total {
		t.Errorf("invoice = %+v", invoice)
	}

	_, err = c.Quotes().ConvertToInvoice(ctx, quote.ID)
	wantStatus(t, err, http.StatusConflict)

	converted, err := c.Quotes().Get(ctx, quote.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !converted.Converted || converted.InvoiceID != invoice.ID {
		t.Errorf("quote = %+v", converted)
	}
}

func TestIdempotentCreate(t *testing.T) {
	s := newServer(t)
	c := s.signUp(t)
	session := c.Session()

	post := func(key string) (*http.Response, string) {
		t.Helper()
		req, err := http.NewRequest(http.MethodPost, s.url+"/crm/clients", strings.NewReader(`{"name":"Umbrella"}`))
		if err != nil {
			t.Fatal(err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+session.AccessToken())
		req.Header.Set(crmclient.AppSessionHeader, session.AppSession())
		req.Header.Set("Idempotency-Key", key)
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatal(err)
		}
		defer resp.Body.Close()
		body, _ := io.ReadAll(resp.Body)
		return resp, string(body)
	}

	first, firstBody := post("create-umbrella")
	if first.StatusCode != http.StatusCreated {
		t.Fatalf("first status = %d: %s", first.StatusCode, firstBody)
	}
	second, secondBody := post("create-umbrella")
	if second.Header.Get("X-Idempotency-Replayed") != "true" {
		t.Errorf("second response was not replayed")
	}
	if second.StatusCode != http.StatusCreated || secondBody != firstBody {
		t.Errorf("replay = %d %s", second.StatusCode, secondBody)
	}

	page, err := c.Clients().List(context.Background(), crmclient.ListQuery{})
	if err != nil {
		t.Fatal(err)
	}
	if page.Total != 1 {
		t.Errorf("clients = %d, want 1", page.Total)
	}
}

func TestRolesAndConsole(t *testing.T) {
	s := newServer(t)
	ctx := context.Background()
	owner := s.signUp(t)
	tenantID := owner.Session().TenantID()

	viewer, viewerID := s.join(t, tenantID, "viewer@acme.test", access.RoleViewer)

	if _, err := viewer.Clients().List(ctx, crmclient.ListQuery{}); err != nil {
		t.Fatalf("viewer list: %v", err)
	}
	_, err := viewer.Clients().Create(ctx, crmclient.Customer{Name: "Nope"})
	wantStatus(t, err, http.StatusForbidden)
	_, err = viewer.Org().Users(ctx, crmclient.ListQuery{})
	wantStatus(t, err, http.StatusForbidden)
	_, err = viewer.Org().Tickets().List(ctx, crmclient.ListQuery{})
	wantStatus(t, err, http.StatusForbidden)
	_, err = viewer.Org().Analytics(ctx)
	wantStatus(t, err, http.StatusForbidden)

	ticket, err := owner.Org().Tickets().Create(ctx, map[string]any{"subject": "Cannot print invoices", "priority": "high"})
	if err != nil {
		t.Fatalf("create ticket: %v", err)
	}
	if ticket.Status != "open" || ticket.Priority != "high" {
		t.Errorf("ticket = %+v", ticket)
	}
	tickets, err := owner.Org().Tickets().List(ctx, crmclient.ListQuery{Status: "open"})
	if err != nil || tickets.Total != 1 {
		t.Fatalf("open tickets = %+v, %v", tickets, err)
	}

	members, err := owner.Org().Users(ctx, crmclient.ListQuery{})
	if err != nil {
		t.Fatalf("Users() error = %v", err)
	}
	if members.Total != 2 {
		t.Errorf("members = %d, want 2", members.Total)
	}

	if _, err := owner.Org().UpdateRole(ctx, viewerID.String(), "member"); err != nil {
		t.Fatalf("UpdateRole() error = %v", err)
	}
	if _, err := viewer.Clients().Create(ctx, crmclient.Customer{Name: "Now allowed"}); err != nil {
		t.Errorf("member create after promotion: %v", err)
	}
	_, err = viewer.Taxes().Create(ctx, crmclient.Tax{Name: "VAT", Rate: 13})
	wantStatus(t, err, http.StatusForbidden)

	perms, err := owner.Org().Permissions(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(perms["viewer"]) != 1 || perms["viewer"][0] != "view-crm" {
		t.Errorf("viewer permissions = %v", perms["viewer"])
	}

	analytics, err := owner.Org().Analytics(ctx)
	if err != nil {
		t.Fatalf("Analytics() error = %v", err)
	}
	if analytics.Members != 2 || analytics.Clients != 1 {
		t.Errorf("analytics = %+v", analytics)
	}

	if err := owner.Org().Remove(ctx, viewerID.String()); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	_, err = viewer.Clients().List(ctx, crmclient.ListQuery{})
	wantStatus(t, err, http.StatusForbidden)
}

func TestSettings(t *testing.T) {
	s := newServer(t)
	ctx := context.Background()
	c := s.signUp(t)

	if _, err := c.Settings().Put(ctx, "theme", map[string]bool{"dark": true}); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	got, err := c.Settings().Get(ctx, "theme")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if string(got.Value) != `{"dark":true}` {
		t.Errorf("value = %s", got.Value)
	}
	_, err = c.Settings().Get(ctx, "missing")
	wantStatus(t, err, http.StatusNotFound)
}
