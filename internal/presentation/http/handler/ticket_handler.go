package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/merocrm/mero-crm/internal/application/service"
	"github.com/merocrm/mero-crm/internal/presentation/http/dto/request"
	"github.com/merocrm/mero-crm/internal/presentation/http/dto/response"
)

// TicketHandler serves the console's support tickets
type TicketHandler struct {
	ticketService *service.TicketService
}

// NewTicketHandler creates a new ticket handler
func NewTicketHandler(ticketService *service.TicketService) *TicketHandler {
	return &TicketHandler{ticketService: ticketService}
}

func (h *TicketHandler) List(c *gin.Context) {
	input, ok := listInput(c, "priority", "client_id", "assignee_id")
	if !ok {
		return
	}
	page, err := h.ticketService.ListTickets(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Paginated(c, "Tickets retrieved successfully", page)
}

func (h *TicketHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	ticket, err := h.ticketService.GetTicket(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Ticket retrieved successfully", ticket)
}

func (h *TicketHandler) Create(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	var req request.TicketRequest
	if !bindJSON(c, &req) {
		return
	}
	ticket, err := h.ticketService.CreateTicket(c.Request.Context(), userID, req.Input())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Ticket created successfully", ticket)
}

func (h *TicketHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req request.TicketRequest
	if !bindJSON(c, &req) {
		return
	}
	ticket, err := h.ticketService.UpdateTicket(c.Request.Context(), id, req.Input())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Ticket updated successfully", ticket)
}

func (h *TicketHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.ticketService.DeleteTicket(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Ticket deleted successfully", nil)
}
