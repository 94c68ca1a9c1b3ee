package database

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/merocrm/mero-crm/internal/config"
	"github.com/merocrm/mero-crm/internal/domain/entity"
	"github.com/merocrm/mero-crm/pkg/access"
	"github.com/merocrm/mero-crm/pkg/utils"
	"gorm.io/gorm"
)

// SeedDefaultData creates the configured admin account as the owner of its
// own organization. It does nothing when no admin is configured or the
// account already exists.
func SeedDefaultData(db *gorm.DB, admin *config.AdminConfig) error {
	if admin.Email == "" || admin.Password == "" {
		return nil
	}

	var existing entity.User
	err := db.Where("email = ?", strings.ToLower(admin.Email)).First(&existing).Error
	if err == nil {
		slog.Info("admin user already exists", "email", admin.Email)
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hashedPassword, err := utils.HashPassword(admin.Password)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	firstName, lastName, _ := strings.Cut(strings.TrimSpace(admin.Name), " ")
	user := entity.User{
		FirstName: firstName,
		LastName:  lastName,
		Email:     strings.ToLower(admin.Email),
		Password:  hashedPassword,
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		tenant := entity.Tenant{
			Name:     admin.Organization,
			Slug:     utils.Slugify(admin.Organization),
			OwnerID:  user.ID,
			Settings: entity.DefaultTenantSettings(),
		}
		if err := tx.Omit("Owner", "Members").Create(&tenant).Error; err != nil {
			return err
		}
		membership := entity.TenantMembership{TenantID: tenant.ID, UserID: user.ID, Role: access.RoleOwner}
		if err := tx.Omit("Tenant", "User").Create(&membership).Error; err != nil {
			return err
		}
		taxes := entity.DefaultTaxes(tenant.ID)
		if err := tx.Create(&taxes).Error; err != nil {
			return err
		}
		modes := entity.DefaultPaymentModes(tenant.ID)
		return tx.Create(&modes).Error
	})
	if err != nil {
		return fmt.Errorf("failed to seed admin user: %w", err)
	}

	slog.Info("admin user created", "email", user.Email, "organization", admin.Organization)
	return nil
}
