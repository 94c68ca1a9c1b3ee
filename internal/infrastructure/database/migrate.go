package database

import (
	"fmt"
	"log/slog"

	"github.com/merocrm/mero-crm/internal/domain/entity"
	"gorm.io/gorm"
)

// AutoMigrate runs GORM auto-migration for all entities
func AutoMigrate(db *gorm.DB) error {
	slog.Info("running database migrations")

	err := db.AutoMigrate(
		// Accounts
		&entity.User{},
		&entity.Tenant{},
		&entity.TenantMembership{},
		&entity.AppSession{},
		&entity.PasswordResetToken{},
		&entity.IdempotencyKey{},

		// CRM
		&entity.Client{},
		&entity.Lead{},
		&entity.Deal{},
		&entity.Activity{},
		&entity.Tax{},
		&entity.PaymentMode{},
		&entity.Setting{},
		&entity.Ticket{},

		// Documents
		&entity.Invoice{},
		&entity.InvoiceItem{},
		&entity.Quote{},
		&entity.QuoteItem{},
		&entity.Payment{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	slog.Info("database migrations completed")
	return nil
}
