package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/roadlink/bus-booking-backend/internal/models"
	"github.com/roadlink/bus-booking-backend/internal/services"
)

// PaymentHandler proxies the mobile-money collection provider.
type PaymentHandler struct {
	paymentService *services.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(paymentService *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

type cancelPaymentRequest struct {
	Reference string `json:"reference" binding:"required"`
}

// Cancel flags a payment reference so later status and OTP calls
// short-circuit
// POST /api/payments/cancel
func (h *PaymentHandler) Cancel(c *gin.Context) {
	var req cancelPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if err := h.paymentService.Cancel(req.Reference); err != nil {
		respondDomainError(c, err)
		return
	}

	respondOK(c, http.StatusOK, "Payment cancelled", nil)
}

// Status returns the provider's view of a collection request
// GET /api/payments/status/:reference
func (h *PaymentHandler) Status(c *gin.Context) {
	status, err := h.paymentService.Status(c.Param("reference"))
	if err != nil {
		respondDomainError(c, err)
		return
	}

	respondOK(c, http.StatusOK, "OK", status)
}

// SubmitOTP forwards a collection OTP to the provider
// POST /api/payments/otp
func (h *PaymentHandler) SubmitOTP(c *gin.Context) {
	var req models.SubmitOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	status, err := h.paymentService.SubmitOTP(&req)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	respondOK(c, http.StatusOK, "OTP submitted", status)
}

// Channels lists the provider's supported collection channels
// GET /api/payments/channels
func (h *PaymentHandler) Channels(c *gin.Context) {
	channels, err := h.paymentService.Channels()
	if err != nil {
		respondDomainError(c, err)
		return
	}

	respondOK(c, http.StatusOK, "OK", channels)
}
