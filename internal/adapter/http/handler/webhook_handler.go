package handler

import (
	"senepay/internal/adapter/http/dto"
	"senepay/internal/core/ports"
	"senepay/pkg/apperror"
	"senepay/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// WebhookHandler exposes the batch trigger and delivery-state inspection.
type WebhookHandler struct {
	deliverySvc ports.DeliveryService
	eventRepo   ports.WebhookEventRepository
}

// NewWebhookHandler creates a new WebhookHandler.
func NewWebhookHandler(deliverySvc ports.DeliveryService, eventRepo ports.WebhookEventRepository) *WebhookHandler {
	return &WebhookHandler{deliverySvc: deliverySvc, eventRepo: eventRepo}
}

// RunDeliveryPass handles POST /internal/v1/webhooks/run.
// This is the batch-trigger entry point hit by the external scheduler.
func (h *WebhookHandler) RunDeliveryPass(c *gin.Context) {
	summary, err := h.deliverySvc.RunPass(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, summary)
}

// ListEvents handles GET /internal/v1/webhooks?payment_id=...
func (h *WebhookHandler) ListEvents(c *gin.Context) {
	paymentID, err := uuid.Parse(c.Query("payment_id"))
	if err != nil {
		response.Error(c, apperror.Validation("invalid payment_id"))
		return
	}

	events, err := h.eventRepo.ListByPaymentID(c.Request.Context(), paymentID)
	if err != nil {
		response.Error(c, apperror.ErrDatabaseError(err))
		return
	}

	items := make([]dto.WebhookEventResponse, 0, len(events))
	for i := range events {
		items = append(items, dto.NewWebhookEventResponse(&events[i]))
	}
	response.OK(c, items)
}

// GetEvent handles GET /internal/v1/webhooks/:id.
func (h *WebhookHandler) GetEvent(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("invalid event id"))
		return
	}

	event, err := h.eventRepo.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, apperror.ErrDatabaseError(err))
		return
	}
	if event == nil {
		response.Error(c, apperror.ErrWebhookEventNotFound())
		return
	}

	response.OK(c, dto.NewWebhookEventResponse(event))
}
