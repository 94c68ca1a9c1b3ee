package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/merocrm/mero-crm/internal/application/service"
	"github.com/merocrm/mero-crm/internal/presentation/http/dto/request"
	"github.com/merocrm/mero-crm/internal/presentation/http/dto/response"
)

// PipelineHandler handles leads, deals and activities
type PipelineHandler struct {
	pipelineService *service.PipelineService
}

// NewPipelineHandler creates a new pipeline handler
func NewPipelineHandler(pipelineService *service.PipelineService) *PipelineHandler {
	return &PipelineHandler{pipelineService: pipelineService}
}

// ListLeads handles listing leads
func (h *PipelineHandler) ListLeads(c *gin.Context) {
	input, ok := listInput(c, "source", "client_id")
	if !ok {
		return
	}
	page, err := h.pipelineService.ListLeads(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Paginated(c, "Leads retrieved successfully", page)
}

// GetLead handles fetching a lead
func (h *PipelineHandler) GetLead(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	lead, err := h.pipelineService.GetLead(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Lead retrieved successfully", lead)
}

// CreateLead handles creating a lead
func (h *PipelineHandler) CreateLead(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	var req request.LeadRequest
	if !bindJSON(c, &req) {
		return
	}
	lead, err := h.pipelineService.CreateLead(c.Request.Context(), userID, req.Input())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Lead created successfully", lead)
}

// UpdateLead handles patching a lead
func (h *PipelineHandler) UpdateLead(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req request.LeadRequest
	if !bindJSON(c, &req) {
		return
	}
	lead, err := h.pipelineService.UpdateLead(c.Request.Context(), id, req.Input())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Lead updated successfully", lead)
}

// DeleteLead handles removing a lead
func (h *PipelineHandler) DeleteLead(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.pipelineService.DeleteLead(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Lead deleted successfully", nil)
}

// ListDeals handles listing deals. status filters by stage.
func (h *PipelineHandler) ListDeals(c *gin.Context) {
	input, ok := listInput(c, "client_id", "lead_id")
	if !ok {
		return
	}
	page, err := h.pipelineService.ListDeals(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Paginated(c, "Deals retrieved successfully", page)
}

// GetDeal handles fetching a deal
func (h *PipelineHandler) GetDeal(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	deal, err := h.pipelineService.GetDeal(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Deal retrieved successfully", deal)
}

// CreateDeal handles creating a deal
func (h *PipelineHandler) CreateDeal(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	var req request.DealRequest
	if !bindJSON(c, &req) {
		return
	}
	deal, err := h.pipelineService.CreateDeal(c.Request.Context(), userID, req.Input())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Deal created successfully", deal)
}

// UpdateDeal handles patching a deal
func (h *PipelineHandler) UpdateDeal(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req request.DealRequest
	if !bindJSON(c, &req) {
		return
	}
	deal, err := h.pipelineService.UpdateDeal(c.Request.Context(), id, req.Input())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Deal updated successfully", deal)
}

// DeleteDeal handles removing a deal
func (h *PipelineHandler) DeleteDeal(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.pipelineService.DeleteDeal(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Deal deleted successfully", nil)
}

// ListActivities handles listing activities
func (h *PipelineHandler) ListActivities(c *gin.Context) {
	input, ok := listInput(c, "type", "client_id", "lead_id", "deal_id")
	if !ok {
		return
	}
	page, err := h.pipelineService.ListActivities(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Paginated(c, "Activities retrieved successfully", page)
}

// GetActivity handles fetching an activity
func (h *PipelineHandler) GetActivity(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	activity, err := h.pipelineService.GetActivity(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Activity retrieved successfully", activity)
}

// CreateActivity handles creating an activity
func (h *PipelineHandler) CreateActivity(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	var req request.ActivityRequest
	if !bindJSON(c, &req) {
		return
	}
	activity, err := h.pipelineService.CreateActivity(c.Request.Context(), userID, req.Input())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Activity created successfully", activity)
}

// UpdateActivity handles patching an activity
func (h *PipelineHandler) UpdateActivity(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req request.ActivityRequest
	if !bindJSON(c, &req) {
		return
	}
	activity, err := h.pipelineService.UpdateActivity(c.Request.Context(), id, req.Input())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Activity updated successfully", activity)
}

// DeleteActivity handles removing an activity
func (h *PipelineHandler) DeleteActivity(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.pipelineService.DeleteActivity(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Activity deleted successfully", nil)
}
