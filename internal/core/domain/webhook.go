package domain

import (
	"time"

	"github.com/google/uuid"
)

// WebhookEventType identifies the notification kind sent to merchants.
type WebhookEventType string

const (
	EventPaymentCompleted WebhookEventType = "payment.completed"
	EventPaymentFailed    WebhookEventType = "payment.failed"
)

// DefaultMaxAttempts is the delivery attempt ceiling for new events.
const DefaultMaxAttempts = 5

// WebhookEvent is one notification intent for a merchant endpoint.
//
// Payload holds the canonical JSON bytes frozen at enqueue time; every
// delivery attempt reuses these exact bytes so the HMAC signature stays
// valid. Records are never deleted, only driven to Delivered or abandoned.
type WebhookEvent struct {
	ID            uuid.UUID        `json:"id"`
	MerchantID    uuid.UUID        `json:"merchant_id"`
	PaymentID     *uuid.UUID       `json:"payment_id,omitempty"`
	EventType     WebhookEventType `json:"event_type"`
	Payload       []byte           `json:"payload"`
	WebhookURL    string           `json:"webhook_url"`
	Attempts      int              `json:"attempts"`
	MaxAttempts   int              `json:"max_attempts"`
	Delivered     bool             `json:"delivered"`
	LastAttemptAt *time.Time       `json:"last_attempt_at,omitempty"`
	NextRetryAt   *time.Time       `json:"next_retry_at,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

// IsTerminal returns true once the event needs no further scheduling:
// either delivered, or abandoned after exhausting its attempts.
func (e *WebhookEvent) IsTerminal() bool {
	return e.Delivered || e.Attempts >= e.MaxAttempts
}

// IsDue returns true if the event should be picked up by a delivery pass
// starting at now.
func (e *WebhookEvent) IsDue(now time.Time) bool {
	if e.IsTerminal() {
		return false
	}
	return e.NextRetryAt == nil || !e.NextRetryAt.After(now)
}
