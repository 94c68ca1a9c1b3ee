// Package app wires repositories, services and handlers into the HTTP API.
package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/merocrm/mero-crm/internal/application/service"
	"github.com/merocrm/mero-crm/internal/config"
	domainRepo "github.com/merocrm/mero-crm/internal/domain/repository"
	"github.com/merocrm/mero-crm/internal/infrastructure/repository"
	"github.com/merocrm/mero-crm/internal/presentation/http/handler"
	"github.com/merocrm/mero-crm/internal/presentation/http/middleware"
	"github.com/merocrm/mero-crm/internal/presentation/http/routes"
	"github.com/merocrm/mero-crm/pkg/document"
	"github.com/merocrm/mero-crm/pkg/email"
	"github.com/merocrm/mero-crm/pkg/utils"
	"gorm.io/gorm"
)

// App is the assembled API
type App struct {
	Router *gin.Engine
	Auth   *service.AuthService

	idempotencyRepo domainRepo.IdempotencyRepository
	rateLimiter     *middleware.TenantRateLimiter
	logger          *slog.Logger
}

// New builds the API on top of db. mailer may be nil, in which case one is
// created from cfg.Email.
func New(cfg *config.Config, db *gorm.DB, logger *slog.Logger, mailer *email.EmailService) *App {
	if mailer == nil {
		mailer = email.NewEmailService(email.EmailConfig{
			SMTPHost:     cfg.Email.SMTPHost,
			SMTPPort:     cfg.Email.SMTPPort,
			SMTPUsername: cfg.Email.SMTPUsername,
			SMTPPassword: cfg.Email.SMTPPassword,
			FromName:     cfg.Email.FromName,
			FromEmail:    cfg.Email.FromEmail,
			FrontendURL:  cfg.Email.FrontendURL,
		})
	}

	jwtManager := utils.NewJWTManager(cfg.JWT.Secret, cfg.JWT.ExpiryHours, cfg.JWT.RefreshExpiryHours)

	// Repositories
	userRepo := repository.NewUserRepository(db)
	tenantRepo := repository.NewTenantRepository(db)
	appSessionRepo := repository.NewAppSessionRepository(db)
	passwordResetRepo := repository.NewPasswordResetTokenRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)
	clientRepo := repository.NewClientRepository(db)
	leadRepo := repository.NewLeadRepository(db)
	dealRepo := repository.NewDealRepository(db)
	activityRepo := repository.NewActivityRepository(db)
	taxRepo := repository.NewTaxRepository(db)
	modeRepo := repository.NewPaymentModeRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)
	quoteRepo := repository.NewQuoteRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)
	analyticsRepo := repository.NewAnalyticsRepository(db)
	ticketRepo := repository.NewTicketRepository(db)

	// Services
	authService := service.NewAuthService(userRepo, tenantRepo, appSessionRepo, passwordResetRepo,
		jwtManager, mailer, cfg.AppSession.TTL)
	clientService := service.NewClientService(clientRepo)
	pipelineService := service.NewPipelineService(leadRepo, dealRepo, activityRepo, clientRepo)
	catalogService := service.NewCatalogService(taxRepo, modeRepo)
	invoiceService := service.NewInvoiceService(invoiceRepo, clientRepo, taxRepo, tenantRepo, settingsRepo)
	quoteService := service.NewQuoteService(quoteRepo, invoiceService, clientRepo, taxRepo, tenantRepo, settingsRepo)
	paymentService := service.NewPaymentService(paymentRepo, invoiceRepo, modeRepo)
	settingsService := service.NewSettingsService(settingsRepo)
	orgService := service.NewOrgService(tenantRepo, appSessionRepo, analyticsRepo)
	ticketService := service.NewTicketService(ticketRepo, clientRepo, tenantRepo)
	documentService := service.NewDocumentService(invoiceService, quoteService, clientService,
		tenantRepo, settingsRepo, document.NewGenerator(cfg.Documents.Footer), mailer)

	handlers := &routes.Handlers{
		Auth:     handler.NewAuthHandler(authService),
		Client:   handler.NewClientHandler(clientService, documentService),
		Pipeline: handler.NewPipelineHandler(pipelineService),
		Catalog:  handler.NewCatalogHandler(catalogService),
		Invoice:  handler.NewInvoiceHandler(invoiceService, documentService),
		Quote:    handler.NewQuoteHandler(quoteService, documentService),
		Payment:  handler.NewPaymentHandler(paymentService),
		Settings: handler.NewSettingsHandler(settingsService),
		Org:      handler.NewOrgHandler(orgService),
		Ticket:   handler.NewTicketHandler(ticketService),
	}

	rateLimiter := routes.NewRateLimiter(&cfg.RateLimit)
	router := routes.Setup(handlers, &routes.Deps{
		JWTManager:      jwtManager,
		Cfg:             cfg,
		Logger:          logger,
		TenantRepo:      tenantRepo,
		IdempotencyRepo: idempotencyRepo,
		AppSessions:     authService,
		RateLimiter:     rateLimiter,
		Ping: func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	})

	return &App{
		Router:          router,
		Auth:            authService,
		idempotencyRepo: idempotencyRepo,
		rateLimiter:     rateLimiter,
		logger:          logger,
	}
}

// Close stops the API's background workers
func (a *App) Close() {
	a.rateLimiter.Stop()
}

// Sweep deletes expired app sessions, reset tokens and idempotency keys
func (a *App) Sweep(ctx context.Context) error {
	if err := a.Auth.PurgeExpired(ctx); err != nil {
		return err
	}
	return a.idempotencyRepo.Purge(ctx, time.Now())
}

// RunSweeper calls Sweep every interval until ctx is done
func (a *App) RunSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := a.Sweep(ctx); err != nil {
				a.logger.Warn("sweep failed", "error", err)
			}
		}
	}
}
