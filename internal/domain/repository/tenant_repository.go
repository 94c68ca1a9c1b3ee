package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/merocrm/mero-crm/internal/domain/entity"
	"github.com/merocrm/mero-crm/pkg/access"
	"github.com/merocrm/mero-crm/pkg/pagination"
)

// TenantRepository defines the interface for tenant data operations
type TenantRepository interface {
	// Create creates a new tenant
	Create(ctx context.Context, tenant *entity.Tenant) error

	// CreateWithOwner creates the tenant, its owner membership and the
	// default taxes and payment modes in one transaction
	CreateWithOwner(ctx context.Context, tenant *entity.Tenant) error

	// GetByID retrieves a tenant by ID
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Tenant, error)

	// GetBySlug retrieves a tenant by slug
	GetBySlug(ctx context.Context, slug string) (*entity.Tenant, error)

	// Update updates an existing tenant
	Update(ctx context.Context, tenant *entity.Tenant) error

	// SlugExists checks if a slug is already taken
	SlugExists(ctx context.Context, slug string) (bool, error)

	// AddMember adds a user as a member of a tenant
	AddMember(ctx context.Context, membership *entity.TenantMembership) error

	// RemoveMember removes a user from a tenant
	RemoveMember(ctx context.Context, tenantID, userID uuid.UUID) error

	// GetMembership retrieves a specific membership with its user
	GetMembership(ctx context.Context, tenantID, userID uuid.UUID) (*entity.TenantMembership, error)

	// GetUserMemberships lists the tenants a user belongs to, oldest first
	GetUserMemberships(ctx context.Context, userID uuid.UUID) ([]entity.TenantMembership, error)

	// ListMembers pages through a tenant's members with their users
	ListMembers(ctx context.Context, tenantID uuid.UUID, params *pagination.Params, search string) ([]entity.TenantMembership, int64, error)

	// UpdateMemberRole updates a member's role in a tenant
	UpdateMemberRole(ctx context.Context, tenantID, userID uuid.UUID, role access.Role) error

	// CountMembersByRole returns the member count per role
	CountMembersByRole(ctx context.Context, tenantID uuid.UUID) (map[access.Role]int64, error)
}
