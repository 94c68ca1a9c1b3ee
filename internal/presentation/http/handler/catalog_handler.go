package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/merocrm/mero-crm/internal/application/service"
	"github.com/merocrm/mero-crm/internal/presentation/http/dto/request"
	"github.com/merocrm/mero-crm/internal/presentation/http/dto/response"
)

// CatalogHandler handles taxes and payment modes
type CatalogHandler struct {
	catalogService *service.CatalogService
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(catalogService *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

// ListTaxes handles listing taxes
func (h *CatalogHandler) ListTaxes(c *gin.Context) {
	input, ok := listInput(c)
	if !ok {
		return
	}
	page, err := h.catalogService.ListTaxes(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Paginated(c, "Taxes retrieved successfully", page)
}

// GetTax handles fetching a tax
func (h *CatalogHandler) GetTax(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	tax, err := h.catalogService.GetTax(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Tax retrieved successfully", tax)
}

// CreateTax handles creating a tax
func (h *CatalogHandler) CreateTax(c *gin.Context) {
	var req request.TaxRequest
	if !bindJSON(c, &req) {
		return
	}
	tax, err := h.catalogService.CreateTax(c.Request.Context(), req.Input())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Tax created successfully", tax)
}

// UpdateTax handles patching a tax
func (h *CatalogHandler) UpdateTax(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req request.TaxRequest
	if !bindJSON(c, &req) {
		return
	}
	tax, err := h.catalogService.UpdateTax(c.Request.Context(), id, req.Input())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Tax updated successfully", tax)
}

// DeleteTax handles removing a tax
func (h *CatalogHandler) DeleteTax(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.catalogService.DeleteTax(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Tax deleted successfully", nil)
}

// ListPaymentModes handles listing payment modes
func (h *CatalogHandler) ListPaymentModes(c *gin.Context) {
	input, ok := listInput(c)
	if !ok {
		return
	}
	page, err := h.catalogService.ListPaymentModes(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Paginated(c, "Payment modes retrieved successfully", page)
}

// GetPaymentMode handles fetching a payment mode
func (h *CatalogHandler) GetPaymentMode(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	mode, err := h.catalogService.GetPaymentMode(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Payment mode retrieved successfully", mode)
}

// CreatePaymentMode handles creating a payment mode
func (h *CatalogHandler) CreatePaymentMode(c *gin.Context) {
	var req request.PaymentModeRequest
	if !bindJSON(c, &req) {
		return
	}
	mode, err := h.catalogService.CreatePaymentMode(c.Request.Context(), req.Input())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Payment mode created successfully", mode)
}

// UpdatePaymentMode handles patching a payment mode
func (h *CatalogHandler) UpdatePaymentMode(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req request.PaymentModeRequest
	if !bindJSON(c, &req) {
		return
	}
	mode, err := h.catalogService.UpdatePaymentMode(c.Request.Context(), id, req.Input())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Payment mode updated successfully", mode)
}

// DeletePaymentMode handles removing a payment mode
func (h *CatalogHandler) DeletePaymentMode(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.catalogService.DeletePaymentMode(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Payment mode deleted successfully", nil)
}
