package ports

import (
	"context"

	"senepay/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// SignatureService handles HMAC-SHA256 signing of webhook payloads.
type SignatureService interface {
	// Sign computes the lowercase hex HMAC-SHA256 of payload keyed by secret.
	Sign(secret string, payload []byte) string
	// Verify checks a signature in constant time.
	Verify(secret string, payload []byte, signature string) bool
}

// DeliveryResult describes the outcome for one record in a pass.
type DeliveryResult struct {
	EventID    uuid.UUID `json:"event_id"`
	MerchantID uuid.UUID `json:"merchant_id"`
	Attempt    int       `json:"attempt"`
	Success    bool      `json:"success"`
	HTTPStatus *int      `json:"http_status,omitempty"`
	Abandoned  bool      `json:"abandoned,omitempty"`
	Error      string    `json:"error,omitempty"`
}

// PassSummary is returned to the batch-trigger caller after each pass.
type PassSummary struct {
	Processed  int              `json:"processed"`
	Successful int              `json:"successful"`
	Failed     int              `json:"failed"`
	Results    []DeliveryResult `json:"results"`
}

// DeliveryService drives outstanding webhook events to delivered or
// abandoned. Each RunPass invocation is a complete, independent unit of
// work; no state is carried between passes.
type DeliveryService interface {
	RunPass(ctx context.Context) (*PassSummary, error)
}

// WebhookEnqueuer creates the notification record for a terminal payment.
type WebhookEnqueuer interface {
	// EnqueueForPayment builds the canonical payload, freezes its bytes and
	// inserts the event within tx. Returns nil (no event) when the merchant
	// has no webhook URL configured.
	EnqueueForPayment(ctx context.Context, tx pgx.Tx, payment *domain.Payment, merchant *domain.Merchant) (*domain.WebhookEvent, error)
}

// PaymentService defines the payment processing business logic.
type PaymentService interface {
	InitiatePayment(ctx context.Context, req InitiatePaymentRequest) (*InitiatePaymentResult, error)
	// FinalizePayment applies a provider status callback: maps the provider
	// status to a terminal state, updates the payment and enqueues the
	// merchant webhook atomically.
	FinalizePayment(ctx context.Context, req FinalizePaymentRequest) (*domain.Payment, error)
	GetPayment(ctx context.Context, id uuid.UUID) (*domain.Payment, error)
}

// InitiatePaymentRequest holds validated input for payment initiation.
type InitiatePaymentRequest struct {
	MerchantID    uuid.UUID
	Reference     string
	Amount        int64
	Currency      string
	PaymentMethod domain.PaymentMethod
	CustomerEmail string
	CustomerPhone string
}

// InitiatePaymentResult is returned after a payment is created with the
// provider checkout URL the customer is redirected to.
type InitiatePaymentResult struct {
	Payment    *domain.Payment
	PaymentURL string
}

// FinalizePaymentRequest holds a provider status callback.
type FinalizePaymentRequest struct {
	PaymentID      uuid.UUID
	Provider       domain.PaymentMethod
	ProviderStatus string
	ProviderTxnID  string
}

// AuditService records delivery attempt outcomes.
type AuditService interface {
	// Record persists one audit entry. Persistence failures are logged,
	// never propagated: an audit miss must not fail the attempt it audits.
	Record(ctx context.Context, entry *domain.WebhookAuditEntry)
}
