package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/smtp"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/merocrm/mero-crm/internal/domain/entity"
	"github.com/merocrm/mero-crm/internal/infrastructure/database"
	infraRepo "github.com/merocrm/mero-crm/internal/infrastructure/repository"
	"github.com/merocrm/mero-crm/pkg/access"
	"github.com/merocrm/mero-crm/pkg/apperror"
	"github.com/merocrm/mero-crm/pkg/document"
	"github.com/merocrm/mero-crm/pkg/email"
	"github.com/merocrm/mero-crm/pkg/pagination"
	"github.com/merocrm/mero-crm/pkg/totals"
	"github.com/merocrm/mero-crm/pkg/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// testEnv wires every service over an in-memory sqlite database with one
// organization owned by ownerID
type testEnv struct {
	db       *gorm.DB
	ctx      context.Context
	tenantID uuid.UUID
	ownerID  uuid.UUID

	auth      *AuthService
	clients   *ClientService
	pipeline  *PipelineService
	catalog   *CatalogService
	invoices  *InvoiceService
	quotes    *QuoteService
	payments  *PaymentService
	settings  *SettingsService
	org       *OrgService
	documents *DocumentService
	tickets   *TicketService
	mailbox   *[]string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := database.NewSQLiteDB(fmt.Sprintf("file:%s?mode=memory&cache=shared", name), logger.Silent)
	if err != nil {
		t.Fatalf("NewSQLiteDB() error = %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("AutoMigrate() error = %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	userRepo := infraRepo.NewUserRepository(db)
	tenantRepo := infraRepo.NewTenantRepository(db)
	sessionRepo := infraRepo.NewAppSessionRepository(db)
	resetRepo := infraRepo.NewPasswordResetTokenRepository(db)
	clientRepo := infraRepo.NewClientRepository(db)
	taxRepo := infraRepo.NewTaxRepository(db)
	modeRepo := infraRepo.NewPaymentModeRepository(db)
	invoiceRepo := infraRepo.NewInvoiceRepository(db)
	settingsRepo := infraRepo.NewSettingsRepository(db)

	var mailbox []string
	mailer := email.NewEmailService(email.EmailConfig{
		SMTPHost:    "smtp.test",
		SMTPPort:    25,
		FromEmail:   "crm@acme.test",
		FrontendURL: "https://app.acme.test",
	}).WithSender(func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		mailbox = append(mailbox, string(msg))
		return nil
	})

	env := &testEnv{db: db, mailbox: &mailbox}
	env.auth = NewAuthService(userRepo, tenantRepo, sessionRepo, resetRepo,
		utils.NewJWTManager("test-secret", time.Hour, 24*time.Hour), mailer, 30*time.Minute)
	env.clients = NewClientService(clientRepo)
	env.pipeline = NewPipelineService(infraRepo.NewLeadRepository(db), infraRepo.NewDealRepository(db),
		infraRepo.NewActivityRepository(db), clientRepo)
	env.catalog = NewCatalogService(taxRepo, modeRepo)
	env.invoices = NewInvoiceService(invoiceRepo, clientRepo, taxRepo, tenantRepo, settingsRepo)
	env.quotes = NewQuoteService(infraRepo.NewQuoteRepository(db), env.invoices, clientRepo, taxRepo, tenantRepo, settingsRepo)
	env.payments = NewPaymentService(infraRepo.NewPaymentRepository(db), invoiceRepo, modeRepo)
	env.settings = NewSettingsService(settingsRepo)
	env.org = NewOrgService(tenantRepo, sessionRepo, infraRepo.NewAnalyticsRepository(db))
	env.tickets = NewTicketService(infraRepo.NewTicketRepository(db), clientRepo, tenantRepo)
	env.documents = NewDocumentService(env.invoices, env.quotes, env.clients, tenantRepo, settingsRepo,
		document.NewGenerator("test footer"), mailer)

	out, err := env.auth.Register(context.Background(), &RegisterInput{
		FirstName:        "Olive",
		LastName:         "Owner",
		Email:            "owner@acme.test",
		Password:         "correct horse",
		OrganizationName: "Acme",
	})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	env.ownerID = out.User.ID
	env.tenantID = out.TenantID
	env.ctx = infraRepo.WithTenant(context.Background(), out.TenantID)
	return env
}

// addMember creates a user holding role in the env's organization
func (e *testEnv) addMember(t *testing.T, emailAddr string, role access.Role) uuid.UUID {
	t.Helper()
	hash, err := utils.HashPassword("member password")
	if err != nil {
		t.Fatal(err)
	}
	user := &entity.User{FirstName: "M", Email: emailAddr, Password: hash}
	if err := e.db.Create(user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	membership := &entity.TenantMembership{TenantID: e.tenantID, UserID: user.ID, Role: role}
	if err := e.db.Omit("Tenant", "User").Create(membership).Error; err != nil {
		t.Fatalf("create membership: %v", err)
	}
	return user.ID
}

func (e *testEnv) newClient(t *testing.T, name string) *entity.Client {
	t.Helper()
	mail := strings.ReplaceAll(strings.ToLower(name), " ", ".") + "@client.test"
	c, err := e.clients.CreateClient(e.ctx, e.ownerID, &ClientInput{Name: &name, Email: &mail})
	if err != nil {
		t.Fatalf("CreateClient() error = %v", err)
	}
	return c
}

func ptr[T any](v T) *T { return &v }

func wantCode(t *testing.T, err error, code int) *apperror.AppError {
	t.Helper()
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("error = %v, want AppError with code %d", err, code)
	}
	if appErr.Code != code {
		t.Fatalf("code = %d (%s), want %d", appErr.Code, appErr.Message, code)
	}
	return appErr
}

func items(lines ...totals.LineItem) []totals.LineItem { return lines }

func TestRequireTenant(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.clients.ListClients(context.Background(), &ListInput{})
	wantCode(t, err, http.StatusBadRequest)
}

func TestTenantIsolation(t *testing.T) {
	env := newTestEnv(t)
	client := env.newClient(t, "Globex")

	other := infraRepo.WithTenant(context.Background(), uuid.New())
	_, err := env.clients.GetClient(other, client.ID)
	wantCode(t, err, http.StatusNotFound)

	page, err := env.clients.ListClients(other, &ListInput{})
	if err != nil {
		t.Fatal(err)
	}
	if page.Total != 0 {
		t.Errorf("other tenant sees %d clients", page.Total)
	}
}

func TestClientSoftDeleteAndRestore(t *testing.T) {
	env := newTestEnv(t)
	client := env.newClient(t, "Initech")
	env.newClient(t, "Hooli")

	if err := env.clients.DeleteClient(env.ctx, client.ID); err != nil {
		t.Fatalf("DeleteClient() error = %v", err)
	}
	page, err := env.clients.ListClients(env.ctx, &ListInput{})
	if err != nil {
		t.Fatal(err)
	}
	if page.Total != 1 || page.Data[0].Name != "Hooli" {
		t.Errorf("page after delete = %+v", page)
	}

	restored, err := env.clients.RestoreClient(env.ctx, client.ID)
	if err != nil {
		t.Fatalf("RestoreClient() error = %v", err)
	}
	if restored.Removed {
		t.Error("restored client still removed")
	}

	page, err = env.clients.ListClients(env.ctx, &ListInput{Search: "INIT"})
	if err != nil {
		t.Fatal(err)
	}
	if page.Total != 1 {
		t.Errorf("search total = %d, want 1", page.Total)
	}
}

func TestListPaging(t *testing.T) {
	env := newTestEnv(t)
	for i := 0; i < 12; i++ {
		env.newClient(t, fmt.Sprintf("Client%02d", i))
	}

	page, err := env.clients.ListClients(env.ctx, &ListInput{Params: pagination.Params{Page: 2, Limit: 5}})
	if err != nil {
		t.Fatal(err)
	}
	if page.Total != 12 || page.Page != 2 || page.Limit != 5 || len(page.Data) != 5 {
		t.Errorf("page = total %d page %d limit %d len %d", page.Total, page.Page, page.Limit, len(page.Data))
	}
	if page.Data[0].Name != "Client05" {
		t.Errorf("first of page 2 = %s, want Client05", page.Data[0].Name)
	}
}
