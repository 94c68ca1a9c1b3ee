package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/merocrm/mero-crm/internal/domain/entity"
	domainRepo "github.com/merocrm/mero-crm/internal/domain/repository"
	"github.com/merocrm/mero-crm/pkg/access"
	"github.com/merocrm/mero-crm/pkg/pagination"
	"gorm.io/gorm"
)

type tenantRepository struct {
	db *gorm.DB
}

// NewTenantRepository creates a new tenant repository
func NewTenantRepository(db *gorm.DB) domainRepo.TenantRepository {
	return &tenantRepository{db: db}
}

func (r *tenantRepository) Create(ctx context.Context, tenant *entity.Tenant) error {
	return r.db.WithContext(ctx).Create(tenant).Error
}

func (r *tenantRepository) CreateWithOwner(ctx context.Context, tenant *entity.Tenant) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Owner", "Members").Create(tenant).Error; err != nil {
			return err
		}
		err := tx.Omit("Tenant", "User").Create(&entity.TenantMembership{
			TenantID: tenant.ID,
			UserID:   tenant.OwnerID,
			Role:     access.RoleOwner,
		}).Error
		if err != nil {
			return err
		}
		taxes := entity.DefaultTaxes(tenant.ID)
		if err := tx.Create(&taxes).Error; err != nil {
			return err
		}
		modes := entity.DefaultPaymentModes(tenant.ID)
		return tx.Create(&modes).Error
	})
}

func (r *tenantRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Tenant, error) {
	var tenant entity.Tenant
	err := r.db.WithContext(ctx).First(&tenant, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &tenant, err
}

func (r *tenantRepository) GetBySlug(ctx context.Context, slug string) (*entity.Tenant, error) {
	var tenant entity.Tenant
	err := r.db.WithContext(ctx).First(&tenant, "slug = ?", slug).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &tenant, err
}

func (r *tenantRepository) Update(ctx context.Context, tenant *entity.Tenant) error {
	return r.db.WithContext(ctx).Omit("Owner", "Members").Save(tenant).Error
}

func (r *tenantRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.Tenant{}).
		Where("slug = ?", slug).
		Count(&count).Error
	return count > 0, err
}

func (r *tenantRepository) AddMember(ctx context.Context, membership *entity.TenantMembership) error {
	return r.db.WithContext(ctx).Omit("Tenant", "User").Create(membership).Error
}

func (r *tenantRepository) RemoveMember(ctx context.Context, tenantID, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Delete(&entity.TenantMembership{}, "tenant_id = ? AND user_id = ?", tenantID, userID).Error
}

func (r *tenantRepository) GetMembership(ctx context.Context, tenantID, userID uuid.UUID) (*entity.TenantMembership, error) {
	var membership entity.TenantMembership
	err := r.db.WithContext(ctx).
		Preload("User").
		First(&membership, "tenant_id = ? AND user_id = ?", tenantID, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &membership, err
}

func (r *tenantRepository) GetUserMemberships(ctx context.Context, userID uuid.UUID) ([]entity.TenantMembership, error) {
	var memberships []entity.TenantMembership
	err := r.db.WithContext(ctx).
		Preload("Tenant").
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&memberships).Error
	return memberships, err
}

func (r *tenantRepository) ListMembers(ctx context.Context, tenantID uuid.UUID, params *pagination.Params, search string) ([]entity.TenantMembership, int64, error) {
	var members []entity.TenantMembership
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.TenantMembership{}).
		Joins("JOIN users ON users.id = tenant_memberships.user_id").
		Where("tenant_memberships.tenant_id = ?", tenantID)

	if search = strings.TrimSpace(search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("(LOWER(users.email) LIKE ? OR LOWER(users.first_name) LIKE ? OR LOWER(users.last_name) LIKE ?)",
			pattern, pattern, pattern)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Validate()
	err := query.Preload("User").
		Offset(params.Offset()).Limit(params.Limit).
		Order("tenant_memberships.created_at ASC").
		Find(&members).Error

	return members, total, err
}

func (r *tenantRepository) UpdateMemberRole(ctx context.Context, tenantID, userID uuid.UUID, role access.Role) error {
	return r.db.WithContext(ctx).
		Model(&entity.TenantMembership{}).
		Where("tenant_id = ? AND user_id = ?", tenantID, userID).
		Update("role", role).Error
}

func (r *tenantRepository) CountMembersByRole(ctx context.Context, tenantID uuid.UUID) (map[access.Role]int64, error) {
	var rows []struct {
		Role  string
		Count int64
	}
	err := r.db.WithContext(ctx).
		Model(&entity.TenantMembership{}).
		Select("role, COUNT(*) AS count").
		Where("tenant_id = ?", tenantID).
		Group("role").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[access.Role]int64, len(rows))
	for _, row := range rows {
		counts[access.Role(row.Role)] = row.Count
	}
	return counts, nil
}
