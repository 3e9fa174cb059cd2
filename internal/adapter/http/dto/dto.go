package dto

import (
	"time"

	"senepay/internal/core/domain"
)

// InitiatePaymentRequest is the request body for payment initiation.
type InitiatePaymentRequest struct {
	MerchantID    string `json:"merchant_id" binding:"required,uuid"`
	Reference     string `json:"reference" binding:"required,max=100"`
	Amount        int64  `json:"amount" binding:"required,gt=0"`
	Currency      string `json:"currency" binding:"required,len=3"`
	PaymentMethod string `json:"payment_method" binding:"required,oneof=wave orange_money"`
	CustomerEmail string `json:"customer_email,omitempty" binding:"omitempty,email"`
	CustomerPhone string `json:"customer_phone,omitempty" binding:"omitempty,max=20"`
}

// InitiatePaymentResponse is returned after a payment is created.
type InitiatePaymentResponse struct {
	PaymentID  string `json:"payment_id"`
	Status     string `json:"status"`
	PaymentURL string `json:"payment_url"`
}

// ProviderCallbackRequest is the status notification posted by a provider.
type ProviderCallbackRequest struct {
	PaymentID     string `json:"payment_id" binding:"required,uuid"`
	Status        string `json:"status" binding:"required"`
	TransactionID string `json:"transaction_id,omitempty"`
}

// PaymentResponse is the response body for payment status queries.
type PaymentResponse struct {
	ID            string  `json:"id"`
	Reference     string  `json:"reference"`
	Amount        int64   `json:"amount"`
	Currency      string  `json:"currency"`
	Status        string  `json:"status"`
	PaymentMethod string  `json:"payment_method"`
	CreatedAt     string  `json:"created_at"`
	CompletedAt   *string `json:"completed_at,omitempty"`
}

// NewPaymentResponse maps a domain payment to its API representation.
func NewPaymentResponse(p *domain.Payment) PaymentResponse {
	resp := PaymentResponse{
		ID:            p.ID.String(),
		Reference:     p.Reference,
		Amount:        p.Amount,
		Currency:      p.Currency,
		Status:        string(p.Status),
		PaymentMethod: string(p.PaymentMethod),
		CreatedAt:     p.CreatedAt.UTC().Format(time.RFC3339),
	}
	if p.CompletedAt != nil {
		s := p.CompletedAt.UTC().Format(time.RFC3339)
		resp.CompletedAt = &s
	}
	return resp
}

// WebhookEventResponse describes one notification record and its state.
type WebhookEventResponse struct {
	ID            string  `json:"id"`
	EventType     string  `json:"event_type"`
	WebhookURL    string  `json:"webhook_url"`
	Attempts      int     `json:"attempts"`
	MaxAttempts   int     `json:"max_attempts"`
	Delivered     bool    `json:"delivered"`
	Abandoned     bool    `json:"abandoned"`
	LastAttemptAt *string `json:"last_attempt_at,omitempty"`
	NextRetryAt   *string `json:"next_retry_at,omitempty"`
	CreatedAt     string  `json:"created_at"`
}

// NewWebhookEventResponse maps a webhook event to its API representation.
func NewWebhookEventResponse(e *domain.WebhookEvent) WebhookEventResponse {
	resp := WebhookEventResponse{
		ID:          e.ID.String(),
		EventType:   string(e.EventType),
		WebhookURL:  e.WebhookURL,
		Attempts:    e.Attempts,
		MaxAttempts: e.MaxAttempts,
		Delivered:   e.Delivered,
		Abandoned:   !e.Delivered && e.Attempts >= e.MaxAttempts,
		CreatedAt:   e.CreatedAt.UTC().Format(time.RFC3339),
	}
	if e.LastAttemptAt != nil {
		s := e.LastAttemptAt.UTC().Format(time.RFC3339)
		resp.LastAttemptAt = &s
	}
	if e.NextRetryAt != nil {
		s := e.NextRetryAt.UTC().Format(time.RFC3339)
		resp.NextRetryAt = &s
	}
	return resp
}
