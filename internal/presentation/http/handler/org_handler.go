package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/merocrm/mero-crm/internal/application/service"
	"github.com/merocrm/mero-crm/internal/presentation/http/dto/request"
	"github.com/merocrm/mero-crm/internal/presentation/http/dto/response"
)

// OrgHandler serves the organization console
type OrgHandler struct {
	orgService *service.OrgService
}

// NewOrgHandler creates a new organization handler
func NewOrgHandler(orgService *service.OrgService) *OrgHandler {
	return &OrgHandler{orgService: orgService}
}

// GetOrganization returns the caller's organization
func (h *OrgHandler) GetOrganization(c *gin.Context) {
	tenant, err := h.orgService.GetOrganization(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Organization retrieved successfully", tenant)
}

// UpdateOrganization renames the organization or replaces its settings
func (h *OrgHandler) UpdateOrganization(c *gin.Context) {
	var req request.OrganizationRequest
	if !bindJSON(c, &req) {
		return
	}
	tenant, err := h.orgService.UpdateOrganization(c.Request.Context(), &service.UpdateOrganizationInput{
		Name:     req.Name,
		Settings: req.Settings,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Organization updated successfully", tenant)
}

// ListMembers handles listing the organization's users
func (h *OrgHandler) ListMembers(c *gin.Context) {
	input, ok := listInput(c)
	if !ok {
		return
	}
	page, err := h.orgService.ListMembers(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Paginated(c, "Users retrieved successfully", page)
}

// UpdateRole changes a member's role
func (h *OrgHandler) UpdateRole(c *gin.Context) {
	actorID, ok := requireUser(c)
	if !ok {
		return
	}
	targetID, ok := parseID(c)
	if !ok {
		return
	}
	var req request.RoleRequest
	if !bindJSON(c, &req) {
		return
	}

	member, err := h.orgService.UpdateMemberRole(c.Request.Context(), actorID, targetID, req.Role)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Role updated successfully", member)
}

// RemoveMember takes a user out of the organization
func (h *OrgHandler) RemoveMember(c *gin.Context) {
	actorID, ok := requireUser(c)
	if !ok {
		return
	}
	targetID, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.orgService.RemoveMember(c.Request.Context(), actorID, targetID); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "User removed successfully", nil)
}

// Permissions returns the permission matrix keyed by role
func (h *OrgHandler) Permissions(c *gin.Context) {
	response.OK(c, "Permissions retrieved successfully", h.orgService.Permissions())
}

// Analytics returns the organization summary
func (h *OrgHandler) Analytics(c *gin.Context) {
	analytics, err := h.orgService.GetAnalytics(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Analytics retrieved successfully", analytics)
}
