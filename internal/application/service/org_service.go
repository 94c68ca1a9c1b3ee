package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/merocrm/mero-crm/internal/domain/entity"
	"github.com/merocrm/mero-crm/internal/domain/repository"
	"github.com/merocrm/mero-crm/pkg/access"
	"github.com/merocrm/mero-crm/pkg/apperror"
	"github.com/merocrm/mero-crm/pkg/pagination"
)

// OrgService is the organization console: members, roles and analytics.
// Every change to another member goes through the role comparator.
type OrgService struct {
	tenantRepo     repository.TenantRepository
	appSessionRepo repository.AppSessionRepository
	analyticsRepo  repository.AnalyticsRepository
	now            func() time.Time
}

// NewOrgService creates a new organization service
func NewOrgService(
	tenantRepo repository.TenantRepository,
	appSessionRepo repository.AppSessionRepository,
	analyticsRepo repository.AnalyticsRepository,
) *OrgService {
	return &OrgService{
		tenantRepo:     tenantRepo,
		appSessionRepo: appSessionRepo,
		analyticsRepo:  analyticsRepo,
		now:            time.Now,
	}
}

// GetOrganization returns the current tenant
func (s *OrgService) GetOrganization(ctx context.Context) (*entity.Tenant, error) {
	tenantID, err := requireTenant(ctx)
	if err != nil {
		return nil, err
	}
	tenant, err := s.tenantRepo.GetByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if tenant == nil {
		return nil, apperror.NewNotFoundError("Organization")
	}
	return tenant, nil
}

// UpdateOrganizationInput represents input for updating the organization
type UpdateOrganizationInput struct {
	Name     string
	Settings *entity.TenantSettings
}

// UpdateOrganization renames the tenant or replaces its settings
func (s *OrgService) UpdateOrganization(ctx context.Context, input *UpdateOrganizationInput) (*entity.Tenant, error) {
	tenant, err := s.GetOrganization(ctx)
	if err != nil {
		return nil, err
	}

	if name := strings.TrimSpace(input.Name); name != "" {
		tenant.Name = name
	}
	if input.Settings != nil {
		tenant.Settings = *input.Settings
	}

	if err := s.tenantRepo.Update(ctx, tenant); err != nil {
		return nil, err
	}
	return tenant, nil
}

// ListMembers pages through the organization's members
func (s *OrgService) ListMembers(ctx context.Context, input *ListInput) (*pagination.Page[entity.Member], error) {
	tenantID, err := requireTenant(ctx)
	if err != nil {
		return nil, err
	}
	params := input.Params
	params.Validate()

	memberships, total, err := s.tenantRepo.ListMembers(ctx, tenantID, &params, strings.TrimSpace(input.Search))
	if err != nil {
		return nil, err
	}

	members := make([]entity.Member, len(memberships))
	for i := range memberships {
		members[i] = memberships[i].ToMember()
	}
	return pagination.NewPage(members, &params, total), nil
}

// membersPair loads the acting and the target membership
func (s *OrgService) membersPair(ctx context.Context, actorID, targetID uuid.UUID) (*entity.TenantMembership, *entity.TenantMembership, error) {
	tenantID, err := requireTenant(ctx)
	if err != nil {
		return nil, nil, err
	}
	if actorID == targetID {
		return nil, nil, apperror.NewForbiddenError("You cannot change your own membership")
	}

	actor, err := s.tenantRepo.GetMembership(ctx, tenantID, actorID)
	if err != nil {
		return nil, nil, err
	}
	if actor == nil {
		return nil, nil, apperror.ErrForbidden
	}

	target, err := s.tenantRepo.GetMembership(ctx, tenantID, targetID)
	if err != nil {
		return nil, nil, err
	}
	if target == nil {
		return nil, nil, apperror.NewNotFoundError("Member")
	}
	if target.Role == access.RoleOwner {
		return nil, nil, apperror.NewForbiddenError("The organization owner cannot be changed")
	}
	return actor, target, nil
}

// UpdateMemberRole changes a member's role. The actor must outrank both the
// member's current role and the new one, and ownership is never assigned.
func (s *OrgService) UpdateMemberRole(ctx context.Context, actorID, targetID uuid.UUID, role string) (*entity.Member, error) {
	next := access.Role(strings.ToLower(strings.TrimSpace(role)))
	if !next.Valid() {
		return nil, fieldError("role", "unknown role")
	}
	if next == access.RoleOwner {
		return nil, apperror.NewForbiddenError("Ownership cannot be assigned")
	}

	actor, target, err := s.membersPair(ctx, actorID, targetID)
	if err != nil {
		return nil, err
	}
	if !access.CanAssign(actor.Role, target.Role, next).Allowed() {
		return nil, apperror.NewForbiddenError("Your role does not allow this change")
	}

	if err := s.tenantRepo.UpdateMemberRole(ctx, target.TenantID, targetID, next); err != nil {
		return nil, err
	}
	target.Role = next
	member := target.ToMember()
	return &member, nil
}

// RemoveMember takes a member out of the organization and revokes their app
// sessions
func (s *OrgService) RemoveMember(ctx context.Context, actorID, targetID uuid.UUID) error {
	actor, target, err := s.membersPair(ctx, actorID, targetID)
	if err != nil {
		return err
	}
	if !access.Compare(actor.Role.Level(), target.Role.Level()).Allowed() {
		return apperror.NewForbiddenError("Your role does not allow this change")
	}

	if err := s.tenantRepo.RemoveMember(ctx, target.TenantID, targetID); err != nil {
		return err
	}
	return s.appSessionRepo.RevokeForUser(ctx, targetID, target.TenantID, s.now())
}

// Permissions returns the permission matrix keyed by role
func (s *OrgService) Permissions() map[access.Role][]access.Permission {
	return access.Matrix()
}

// Analytics summarizes the organization
type Analytics struct {
	Members          int64                 `json:"members"`
	MembersByRole    map[access.Role]int64 `json:"members_by_role"`
	Clients          int64                 `json:"clients"`
	Leads            int64                 `json:"leads"`
	OpenDeals        int64                 `json:"open_deals"`
	Invoices         int64                 `json:"invoices"`
	UnpaidInvoices   int64                 `json:"unpaid_invoices"`
	InvoicedTotal    float64               `json:"invoiced_total"`
	PaidTotal        float64               `json:"paid_total"`
	OutstandingTotal float64               `json:"outstanding_total"`
}

// GetAnalytics returns member counts and CRM totals for the organization
func (s *OrgService) GetAnalytics(ctx context.Context) (*Analytics, error) {
	tenantID, err := requireTenant(ctx)
	if err != nil {
		return nil, err
	}

	byRole, err := s.tenantRepo.CountMembersByRole(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	summary, err := s.analyticsRepo.GetSummary(ctx)
	if err != nil {
		return nil, err
	}

	out := &Analytics{
		MembersByRole:    byRole,
		Clients:          summary.Clients,
		Leads:            summary.Leads,
		OpenDeals:        summary.OpenDeals,
		Invoices:         summary.Invoices,
		UnpaidInvoices:   summary.UnpaidInvoices,
		InvoicedTotal:    summary.InvoicedTotal,
		PaidTotal:        summary.PaidTotal,
		OutstandingTotal: summary.OutstandingTotal,
	}
	for _, n := range byRole {
		out.Members += n
	}
	return out, nil
}
