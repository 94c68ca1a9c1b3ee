package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/merocrm/mero-crm/internal/application/service"
	"github.com/merocrm/mero-crm/internal/presentation/http/dto/request"
	"github.com/merocrm/mero-crm/internal/presentation/http/dto/response"
)

// sendFile writes a rendered document inline
func sendFile(c *gin.Context, file *service.RenderedFile) {
	c.Header("Content-Disposition", fmt.Sprintf(`inline; filename="%s"`, file.FileName))
	c.Data(http.StatusOK, file.ContentType, file.Data)
}

// InvoiceHandler handles invoice-related HTTP requests
type InvoiceHandler struct {
	invoiceService  *service.InvoiceService
	documentService *service.DocumentService
}

// NewInvoiceHandler creates a new invoice handler
func NewInvoiceHandler(invoiceService *service.InvoiceService, documentService *service.DocumentService) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService, documentService: documentService}
}

// List handles listing invoices
func (h *InvoiceHandler) List(c *gin.Context) {
	input, ok := listInput(c, "client_id", "payment_status", "year")
	if !ok {
		return
	}
	page, err := h.invoiceService.ListInvoices(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Paginated(c, "Invoices retrieved successfully", page)
}

// Get handles fetching an invoice with its items
func (h *InvoiceHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	invoice, err := h.invoiceService.GetInvoice(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Invoice retrieved successfully", invoice)
}

// Create handles creating an invoice
func (h *InvoiceHandler) Create(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	var req request.DocumentRequest
	if !bindJSON(c, &req) {
		return
	}
	invoice, err := h.invoiceService.CreateInvoice(c.Request.Context(), userID, req.Input())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Invoice created successfully", invoice)
}

// Update handles patching an invoice
func (h *InvoiceHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req request.DocumentRequest
	if !bindJSON(c, &req) {
		return
	}
	invoice, err := h.invoiceService.UpdateInvoice(c.Request.Context(), id, req.Input())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Invoice updated successfully", invoice)
}

// Delete handles removing an invoice
func (h *InvoiceHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.invoiceService.DeleteInvoice(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Invoice deleted successfully", nil)
}

// Restore handles bringing back a removed invoice
func (h *InvoiceHandler) Restore(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	invoice, err := h.invoiceService.RestoreInvoice(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Invoice restored successfully", invoice)
}

// PDF renders the invoice
func (h *InvoiceHandler) PDF(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	file, err := h.documentService.InvoicePDF(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	sendFile(c, file)
}

// Send mails the invoice. The body may name another recipient.
func (h *InvoiceHandler) Send(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req request.SendInvoiceRequest
	if c.Request.ContentLength > 0 && !bindJSON(c, &req) {
		return
	}
	invoice, err := h.documentService.SendInvoice(c.Request.Context(), id, req.To)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Invoice sent successfully", invoice)
}

// QuoteHandler handles quote-related HTTP requests
type QuoteHandler struct {
	quoteService    *service.QuoteService
	documentService *service.DocumentService
}

// NewQuoteHandler creates a new quote handler
func NewQuoteHandler(quoteService *service.QuoteService, documentService *service.DocumentService) *QuoteHandler {
	return &QuoteHandler{quoteService: quoteService, documentService: documentService}
}

// List handles listing quotes
func (h *QuoteHandler) List(c *gin.Context) {
	input, ok := listInput(c, "client_id", "year")
	if !ok {
		return
	}
	page, err := h.quoteService.ListQuotes(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Paginated(c, "Quotes retrieved successfully", page)
}

// Get handles fetching a quote with its items
func (h *QuoteHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	quote, err := h.quoteService.GetQuote(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Quote retrieved successfully", quote)
}

// Create handles creating a quote
func (h *QuoteHandler) Create(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	var req request.DocumentRequest
	if !bindJSON(c, &req) {
		return
	}
	quote, err := h.quoteService.CreateQuote(c.Request.Context(), userID, req.Input())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Quote created successfully", quote)
}

// Update handles patching a quote
func (h *QuoteHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req request.DocumentRequest
	if !bindJSON(c, &req) {
		return
	}
	quote, err := h.quoteService.UpdateQuote(c.Request.Context(), id, req.Input())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Quote updated successfully", quote)
}

// Delete handles removing a quote
func (h *QuoteHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.quoteService.DeleteQuote(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Quote deleted successfully", nil)
}

// ConvertToInvoice turns the quote into a new invoice
func (h *QuoteHandler) ConvertToInvoice(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}
	invoice, err := h.quoteService.ConvertToInvoice(c.Request.Context(), userID, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Quote converted to invoice", invoice)
}

// PDF renders the quote
func (h *QuoteHandler) PDF(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	file, err := h.documentService.QuotePDF(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	sendFile(c, file)
}
