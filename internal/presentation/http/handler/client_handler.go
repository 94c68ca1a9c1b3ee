package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/merocrm/mero-crm/internal/application/service"
	"github.com/merocrm/mero-crm/internal/presentation/http/dto/request"
	"github.com/merocrm/mero-crm/internal/presentation/http/dto/response"
	"github.com/merocrm/mero-crm/pkg/export"
)

// ClientHandler handles client-related HTTP requests
type ClientHandler struct {
	clientService   *service.ClientService
	documentService *service.DocumentService
}

// NewClientHandler creates a new client handler
func NewClientHandler(clientService *service.ClientService, documentService *service.DocumentService) *ClientHandler {
	return &ClientHandler{clientService: clientService, documentService: documentService}
}

// List handles listing clients
func (h *ClientHandler) List(c *gin.Context) {
	input, ok := listInput(c, "country")
	if !ok {
		return
	}

	page, err := h.clientService.ListClients(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, "Clients retrieved successfully", page)
}

// Get handles fetching a single client
func (h *ClientHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	client, err := h.clientService.GetClient(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Client retrieved successfully", client)
}

// Create handles creating a client
func (h *ClientHandler) Create(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req request.ClientRequest
	if !bindJSON(c, &req) {
		return
	}

	client, err := h.clientService.CreateClient(c.Request.Context(), userID, req.Input())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Client created successfully", client)
}

// Update handles patching a client
func (h *ClientHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req request.ClientRequest
	if !bindJSON(c, &req) {
		return
	}

	client, err := h.clientService.UpdateClient(c.Request.Context(), id, req.Input())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Client updated successfully", client)
}

// Delete handles removing a client
func (h *ClientHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.clientService.DeleteClient(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Client deleted successfully", nil)
}

// Restore handles bringing back a removed client
func (h *ClientHandler) Restore(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	client, err := h.clientService.RestoreClient(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Client restored successfully", client)
}

// Export downloads the matching clients as a spreadsheet
func (h *ClientHandler) Export(c *gin.Context) {
	input, ok := listInput(c, "country")
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := h.documentService.ExportClients(c.Request.Context(), input, &buf); err != nil {
		response.Error(c, err)
		return
	}

	fileName := fmt.Sprintf("clients-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, fileName))
	c.Data(http.StatusOK, export.ContentType, buf.Bytes())
}
