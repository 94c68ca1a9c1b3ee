package database

import (
	"fmt"
	"testing"

	"github.com/merocrm/mero-crm/internal/config"
	"github.com/merocrm/mero-crm/internal/domain/entity"
	"github.com/merocrm/mero-crm/pkg/access"
	"github.com/merocrm/mero-crm/pkg/utils"
	"gorm.io/gorm/logger"
)

func TestSeedDefaultData(t *testing.T) {
	db, err := NewSQLiteDB(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name()), logger.Silent)
	if err != nil {
		t.Fatalf("NewSQLiteDB() error = %v", err)
	}
	if err := AutoMigrate(db); err != nil {
		t.Fatalf("AutoMigrate() error = %v", err)
	}

	admin := &config.AdminConfig{Email: "Owner@Acme.test", Password: "s3cret!", Name: "Ada Lovelace", Organization: "Acme Ltd"}
	for i := 0; i < 2; i++ {
		if err := SeedDefaultData(db, admin); err != nil {
			t.Fatalf("SeedDefaultData() run %d error = %v", i, err)
		}
	}

	var users []entity.User
	db.Find(&users)
	if len(users) != 1 {
		t.Fatalf("users = %d, want 1", len(users))
	}
	if users[0].Email != "owner@acme.test" || users[0].FirstName != "Ada" || users[0].LastName != "Lovelace" {
		t.Errorf("user = %+v", users[0])
	}
	if !utils.CheckPasswordHash("s3cret!", users[0].Password) {
		t.Error("password not hashed with bcrypt")
	}

	var membership entity.TenantMembership
	if err := db.Preload("Tenant").First(&membership, "user_id = ?", users[0].ID).Error; err != nil {
		t.Fatalf("membership lookup error = %v", err)
	}
	if membership.Role != access.RoleOwner || membership.Tenant.Slug != "acme-ltd" {
		t.Errorf("membership = %+v", membership)
	}

	var taxes int64
	db.Model(&entity.Tax{}).Where("tenant_id = ?", membership.TenantID).Count(&taxes)
	if taxes != 1 {
		t.Errorf("taxes = %d, want 1", taxes)
	}
}

func TestOpenUnsupportedDriver(t *testing.T) {
	if _, err := Open(&config.DatabaseConfig{Driver: "oracle"}, false); err == nil {
		t.Error("expected error for unsupported driver")
	}
}
