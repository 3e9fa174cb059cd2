package handler

import (
	"senepay/internal/adapter/http/dto"
	"senepay/internal/core/domain"
	"senepay/internal/core/ports"
	"senepay/pkg/apperror"
	"senepay/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// PaymentHandler handles payment initiation, provider callbacks and status queries.
type PaymentHandler struct {
	paymentSvc ports.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(paymentSvc ports.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentSvc: paymentSvc}
}

// InitiatePayment handles POST /api/v1/payments.
func (h *PaymentHandler) InitiatePayment(c *gin.Context) {
	var req dto.InitiatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	merchantID, err := uuid.Parse(req.MerchantID)
	if err != nil {
		response.Error(c, apperror.Validation("invalid merchant_id"))
		return
	}

	result, err := h.paymentSvc.InitiatePayment(c.Request.Context(), ports.InitiatePaymentRequest{
		MerchantID:    merchantID,
		Reference:     req.Reference,
		Amount:        req.Amount,
		Currency:      req.Currency,
		PaymentMethod: domain.PaymentMethod(req.PaymentMethod),
		CustomerEmail: req.CustomerEmail,
		CustomerPhone: req.CustomerPhone,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.InitiatePaymentResponse{
		PaymentID:  result.Payment.ID.String(),
		Status:     string(result.Payment.Status),
		PaymentURL: result.PaymentURL,
	})
}

// ProviderCallback handles POST /api/v1/payments/callback/:provider.
func (h *PaymentHandler) ProviderCallback(c *gin.Context) {
	provider := domain.PaymentMethod(c.Param("provider"))
	if provider != domain.PaymentMethodWave && provider != domain.PaymentMethodOrangeMoney {
		response.Error(c, apperror.ErrUnknownProvider(c.Param("provider")))
		return
	}

	var req dto.ProviderCallbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	paymentID, err := uuid.Parse(req.PaymentID)
	if err != nil {
		response.Error(c, apperror.Validation("invalid payment_id"))
		return
	}

	payment, err := h.paymentSvc.FinalizePayment(c.Request.Context(), ports.FinalizePaymentRequest{
		PaymentID:      paymentID,
		Provider:       provider,
		ProviderStatus: req.Status,
		ProviderTxnID:  req.TransactionID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.NewPaymentResponse(payment))
}

// GetPayment handles GET /api/v1/payments/:id.
func (h *PaymentHandler) GetPayment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("invalid payment id"))
		return
	}

	payment, err := h.paymentSvc.GetPayment(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.NewPaymentResponse(payment))
}
