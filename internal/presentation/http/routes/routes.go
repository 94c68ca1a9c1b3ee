package routes

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/merocrm/mero-crm/internal/config"
	domainRepo "github.com/merocrm/mero-crm/internal/domain/repository"
	"github.com/merocrm/mero-crm/internal/presentation/http/handler"
	"github.com/merocrm/mero-crm/internal/presentation/http/middleware"
	"github.com/merocrm/mero-crm/pkg/access"
	"github.com/merocrm/mero-crm/pkg/utils"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Auth     *handler.AuthHandler
	Client   *handler.ClientHandler
	Pipeline *handler.PipelineHandler
	Catalog  *handler.CatalogHandler
	Invoice  *handler.InvoiceHandler
	Quote    *handler.QuoteHandler
	Payment  *handler.PaymentHandler
	Settings *handler.SettingsHandler
	Org      *handler.OrgHandler
	Ticket   *handler.TicketHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager      *utils.JWTManager
	Cfg             *config.Config
	Logger          *slog.Logger
	TenantRepo      domainRepo.TenantRepository
	IdempotencyRepo domainRepo.IdempotencyRepository
	AppSessions     middleware.AppSessionChecker
	// RateLimiter limits protected routes per tenant; nil builds one from
	// Cfg.RateLimit
	RateLimiter *middleware.TenantRateLimiter
	// Ping reports database health; nil skips the check
	Ping func(ctx context.Context) error
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware(deps.Logger))
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	health := healthHandler(deps)
	router.GET("/health", health)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", health)
		registerAuthRoutes(v1, h)

		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTManager))
		limiter := deps.RateLimiter
		if limiter == nil {
			limiter = NewRateLimiter(&deps.Cfg.RateLimit)
		}
		protected.Use(limiter.Middleware())

		registerProtectedRoutes(protected, h, deps)
	}

	return router
}

func healthHandler(deps *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		if deps.Ping != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := deps.Ping(ctx); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{
					"status":  "unavailable",
					"service": deps.Cfg.App.Name,
				})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	}
}

// NewRateLimiter turns cfg into a per-tenant limiter. Call Stop on it when
// the server shuts down.
func NewRateLimiter(cfg *config.RateLimitConfig) *middleware.TenantRateLimiter {
	rlCfg := middleware.DefaultRateLimiterConfig()
	if cfg.Requests > 0 && cfg.Duration > 0 {
		rlCfg.RequestsPerSecond = float64(cfg.Requests) / float64(cfg.Duration)
		rlCfg.BurstSize = cfg.Requests
	}
	return middleware.NewTenantRateLimiter(rlCfg)
}

func registerAuthRoutes(v1 *gin.RouterGroup, h *Handlers) {
	auth := v1.Group("/auth")
	{
		auth.POST("/login", h.Auth.Login)
		auth.POST("/register", h.Auth.Register)
		auth.POST("/refresh", h.Auth.RefreshToken)
		auth.POST("/forgot-password", h.Auth.ForgotPassword)
		auth.POST("/reset-password", h.Auth.ResetPassword)
	}
}

func registerProtectedRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	member := protected.Group("")
	member.Use(middleware.TenantMiddleware(deps.TenantRepo))

	// Profile and lock screen
	member.POST("/auth/app-session", h.Auth.Unlock)
	member.DELETE("/auth/app-session", h.Auth.Lock)
	member.GET("/profile", h.Auth.GetProfile)
	member.PUT("/profile", h.Auth.UpdateProfile)
	member.PUT("/profile/password", h.Auth.ChangePassword)

	crm := member.Group("/crm")
	crm.Use(middleware.AppSessionMiddleware(deps.AppSessions))
	crm.Use(middleware.RequirePermission(access.PermViewCRM))
	crm.Use(middleware.Idempotency(deps.IdempotencyRepo))
	registerCRMRoutes(crm, h)

	registerOrgRoutes(member.Group("/org"), h)
}

func registerCRMRoutes(crm *gin.RouterGroup, h *Handlers) {
	can := middleware.RequirePermission

	clients := crm.Group("/clients")
	{
		clients.GET("", h.Client.List)
		clients.GET("/export", h.Client.Export)
		clients.GET("/:id", h.Client.Get)
		clients.POST("", can(access.PermManageClients), h.Client.Create)
		clients.PATCH("/:id", can(access.PermManageClients), h.Client.Update)
		clients.DELETE("/:id", can(access.PermManageClients), h.Client.Delete)
		clients.POST("/:id/restore", can(access.PermManageClients), h.Client.Restore)
	}

	leads := crm.Group("/leads")
	{
		leads.GET("", h.Pipeline.ListLeads)
		leads.GET("/:id", h.Pipeline.GetLead)
		leads.POST("", can(access.PermManageLeads), h.Pipeline.CreateLead)
		leads.PATCH("/:id", can(access.PermManageLeads), h.Pipeline.UpdateLead)
		leads.DELETE("/:id", can(access.PermManageLeads), h.Pipeline.DeleteLead)
	}

	deals := crm.Group("/deals")
	{
		deals.GET("", h.Pipeline.ListDeals)
		deals.GET("/:id", h.Pipeline.GetDeal)
		deals.POST("", can(access.PermManageDeals), h.Pipeline.CreateDeal)
		deals.PATCH("/:id", can(access.PermManageDeals), h.Pipeline.UpdateDeal)
		deals.DELETE("/:id", can(access.PermManageDeals), h.Pipeline.DeleteDeal)
	}

	activities := crm.Group("/activities")
	{
		activities.GET("", h.Pipeline.ListActivities)
		activities.GET("/:id", h.Pipeline.GetActivity)
		activities.POST("", can(access.PermManageActivities), h.Pipeline.CreateActivity)
		activities.PATCH("/:id", can(access.PermManageActivities), h.Pipeline.UpdateActivity)
		activities.DELETE("/:id", can(access.PermManageActivities), h.Pipeline.DeleteActivity)
	}

	taxes := crm.Group("/taxes")
	{
		taxes.GET("", h.Catalog.ListTaxes)
		taxes.GET("/:id", h.Catalog.GetTax)
		taxes.POST("", can(access.PermManageCatalog), h.Catalog.CreateTax)
		taxes.PATCH("/:id", can(access.PermManageCatalog), h.Catalog.UpdateTax)
		taxes.DELETE("/:id", can(access.PermManageCatalog), h.Catalog.DeleteTax)
	}

	modes := crm.Group("/payment-modes")
	{
		modes.GET("", h.Catalog.ListPaymentModes)
		modes.GET("/:id", h.Catalog.GetPaymentMode)
		modes.POST("", can(access.PermManageCatalog), h.Catalog.CreatePaymentMode)
		modes.PATCH("/:id", can(access.PermManageCatalog), h.Catalog.UpdatePaymentMode)
		modes.DELETE("/:id", can(access.PermManageCatalog), h.Catalog.DeletePaymentMode)
	}

	invoices := crm.Group("/invoices")
	{
		invoices.GET("", h.Invoice.List)
		invoices.GET("/:id", h.Invoice.Get)
		invoices.GET("/:id/pdf", h.Invoice.PDF)
		invoices.POST("", can(access.PermManageInvoices), h.Invoice.Create)
		invoices.PATCH("/:id", can(access.PermManageInvoices), h.Invoice.Update)
		invoices.DELETE("/:id", can(access.PermManageInvoices), h.Invoice.Delete)
		invoices.POST("/:id/restore", can(access.PermManageInvoices), h.Invoice.Restore)
		invoices.POST("/:id/send", can(access.PermManageInvoices), h.Invoice.Send)
	}

	quotes := crm.Group("/quotes")
	{
		quotes.GET("", h.Quote.List)
		quotes.GET("/:id", h.Quote.Get)
		quotes.GET("/:id/pdf", h.Quote.PDF)
		quotes.POST("", can(access.PermManageQuotes), h.Quote.Create)
		quotes.PATCH("/:id", can(access.PermManageQuotes), h.Quote.Update)
		quotes.DELETE("/:id", can(access.PermManageQuotes), h.Quote.Delete)
		quotes.POST("/:id/convert-to-invoice", can(access.PermManageQuotes), can(access.PermManageInvoices), h.Quote.ConvertToInvoice)
	}

	payments := crm.Group("/payments")
	{
		payments.GET("", h.Payment.List)
		payments.GET("/:id", h.Payment.Get)
		payments.POST("", can(access.PermManagePayments), h.Payment.Create)
		payments.PATCH("/:id", can(access.PermManagePayments), h.Payment.Update)
		payments.DELETE("/:id", can(access.PermManagePayments), h.Payment.Delete)
		payments.POST("/:id/restore", can(access.PermManagePayments), h.Payment.Restore)
	}

	settings := crm.Group("/settings")
	{
		settings.GET("", h.Settings.List)
		settings.GET("/:key", h.Settings.Get)
		settings.PUT("/:key", can(access.PermManageSettings), h.Settings.Put)
	}
}

func registerOrgRoutes(org *gin.RouterGroup, h *Handlers) {
	can := middleware.RequirePermission

	org.GET("/analytics", can(access.PermViewAnalytics), h.Org.Analytics)
	org.GET("/organization", h.Org.GetOrganization)
	org.PATCH("/organization", can(access.PermManageSettings), h.Org.UpdateOrganization)

	console := org.Group("", can(access.PermManageUsers))
	{
		console.GET("/users", h.Org.ListMembers)
		console.PATCH("/users/:id/role", h.Org.UpdateRole)
		console.DELETE("/users/:id", h.Org.RemoveMember)
		console.GET("/permissions", h.Org.Permissions)

		console.GET("/tickets", h.Ticket.List)
		console.GET("/tickets/:id", h.Ticket.Get)
		console.POST("/tickets", h.Ticket.Create)
		console.PATCH("/tickets/:id", h.Ticket.Update)
		console.DELETE("/tickets/:id", h.Ticket.Delete)
	}
}
