package domain

import (
	"time"

	"github.com/google/uuid"
)

// PaymentMethod identifies the mobile-money provider used for a payment.
type PaymentMethod string

const (
	PaymentMethodWave        PaymentMethod = "wave"
	PaymentMethodOrangeMoney PaymentMethod = "orange_money"
)

// PaymentStatus represents the lifecycle state of a payment.
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "PENDING"
	PaymentStatusCompleted PaymentStatus = "COMPLETED"
	PaymentStatusFailed    PaymentStatus = "FAILED"
)

// Payment represents one collection attempt through a mobile-money provider.
// Amounts are whole currency units (FCFA has no minor unit).
type Payment struct {
	ID            uuid.UUID     `json:"id"`
	MerchantID    uuid.UUID     `json:"merchant_id"`
	Reference     string        `json:"reference"` // merchant-supplied order reference
	Amount        int64         `json:"amount"`
	Currency      string        `json:"currency"` // ISO 4217, e.g. XOF
	Status        PaymentStatus `json:"status"`
	PaymentMethod PaymentMethod `json:"payment_method"`
	CustomerEmail string        `json:"customer_email,omitempty"`
	CustomerPhone string        `json:"customer_phone,omitempty"`
	ProviderTxnID *string       `json:"provider_txn_id,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
	CompletedAt   *time.Time    `json:"completed_at,omitempty"`
}

// IsTerminal returns true if the payment is in a final state.
func (p *Payment) IsTerminal() bool {
	return p.Status == PaymentStatusCompleted || p.Status == PaymentStatusFailed
}

// WebhookEventType maps the terminal payment status to the event type
// notified to the merchant. Only valid for terminal payments.
func (p *Payment) WebhookEventType() WebhookEventType {
	if p.Status == PaymentStatusCompleted {
		return EventPaymentCompleted
	}
	return EventPaymentFailed
}
