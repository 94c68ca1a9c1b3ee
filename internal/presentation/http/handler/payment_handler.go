package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/merocrm/mero-crm/internal/application/service"
	"github.com/merocrm/mero-crm/internal/presentation/http/dto/request"
	"github.com/merocrm/mero-crm/internal/presentation/http/dto/response"
)

// PaymentHandler handles payment-related HTTP requests
type PaymentHandler struct {
	paymentService *service.PaymentService
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(paymentService *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// List handles listing payments
func (h *PaymentHandler) List(c *gin.Context) {
	input, ok := listInput(c, "invoice_id", "client_id", "payment_mode_id")
	if !ok {
		return
	}
	page, err := h.paymentService.ListPayments(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Paginated(c, "Payments retrieved successfully", page)
}

// Get handles fetching a payment
func (h *PaymentHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	payment, err := h.paymentService.GetPayment(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Payment retrieved successfully", payment)
}

// Create records a payment against an invoice
func (h *PaymentHandler) Create(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	var req request.PaymentRequest
	if !bindJSON(c, &req) {
		return
	}
	payment, err := h.paymentService.CreatePayment(c.Request.Context(), userID, req.Input())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Payment recorded successfully", payment)
}

// Update handles patching a payment
func (h *PaymentHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req request.PaymentRequest
	if !bindJSON(c, &req) {
		return
	}
	payment, err := h.paymentService.UpdatePayment(c.Request.Context(), id, req.Input())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Payment updated successfully", payment)
}

// Delete handles removing a payment
func (h *PaymentHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.paymentService.DeletePayment(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Payment deleted successfully", nil)
}

// Restore handles bringing back a removed payment
func (h *PaymentHandler) Restore(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	payment, err := h.paymentService.RestorePayment(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Payment restored successfully", payment)
}
