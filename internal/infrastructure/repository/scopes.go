package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type tenantKey struct{}

// WithTenant returns a context whose queries are limited to one organization
func WithTenant(ctx context.Context, tenantID uuid.UUID) context.Context {
	return context.WithValue(ctx, tenantKey{}, tenantID)
}

// GetTenantID returns the organization set by WithTenant
func GetTenantID(ctx context.Context) (uuid.UUID, bool) {
	tenantID, ok := ctx.Value(tenantKey{}).(uuid.UUID)
	return tenantID, ok && tenantID != uuid.Nil
}

// TenantScope limits a query to the organization in ctx. Without one the
// query matches nothing.
func TenantScope(ctx context.Context) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		tenantID, ok := GetTenantID(ctx)
		if !ok {
			return db.Where("1 = 0")
		}
		return db.Where("tenant_id = ?", tenantID)
	}
}

// LiveScope is TenantScope plus the removed = false filter every list,
// lookup and report applies to soft-deletable records
func LiveScope(ctx context.Context) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return TenantScope(ctx)(db).Where("removed = ?", false)
	}
}
