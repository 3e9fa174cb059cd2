package domain

import (
	"encoding/json"
	"time"
)

// WaveDetails carries Wave-specific fields in the webhook payload.
type WaveDetails struct {
	TransactionID string `json:"transaction_id"`
}

// OrangeMoneyDetails carries Orange Money-specific fields in the webhook payload.
type OrangeMoneyDetails struct {
	TransactionID string `json:"transaction_id"`
}

// WebhookPayload is the JSON document POSTed to merchant endpoints.
//
// It is built and marshaled exactly once, at enqueue time; the resulting
// bytes are stored on the WebhookEvent and reused verbatim for every
// delivery attempt and for signing. Never re-marshal on delivery: key
// ordering is not guaranteed stable across serializations of a mutated
// value, and a single changed byte invalidates the signature.
type WebhookPayload struct {
	Event         WebhookEventType    `json:"event"`
	PaymentID     string              `json:"payment_id"`
	Reference     string              `json:"reference"`
	Amount        int64               `json:"amount"`
	Currency      string              `json:"currency"`
	Status        string              `json:"status"`
	PaymentMethod string              `json:"payment_method"`
	CustomerEmail string              `json:"customer_email,omitempty"`
	CustomerPhone string              `json:"customer_phone,omitempty"`
	Wave          *WaveDetails        `json:"wave,omitempty"`
	OrangeMoney   *OrangeMoneyDetails `json:"orange_money,omitempty"`
	Timestamp     string              `json:"timestamp"` // ISO-8601
}

// NewWebhookPayload builds the notification payload for a terminal payment.
func NewWebhookPayload(p *Payment, now time.Time) WebhookPayload {
	payload := WebhookPayload{
		Event:         p.WebhookEventType(),
		PaymentID:     p.ID.String(),
		Reference:     p.Reference,
		Amount:        p.Amount,
		Currency:      p.Currency,
		Status:        string(p.Status),
		PaymentMethod: string(p.PaymentMethod),
		CustomerEmail: p.CustomerEmail,
		CustomerPhone: p.CustomerPhone,
		Timestamp:     now.UTC().Format(time.RFC3339),
	}

	if p.ProviderTxnID != nil {
		switch p.PaymentMethod {
		case PaymentMethodWave:
			payload.Wave = &WaveDetails{TransactionID: *p.ProviderTxnID}
		case PaymentMethodOrangeMoney:
			payload.OrangeMoney = &OrangeMoneyDetails{TransactionID: *p.ProviderTxnID}
		}
	}

	return payload
}

// Marshal produces the canonical payload bytes stored on the event.
func (p WebhookPayload) Marshal() ([]byte, error) {
	return json.Marshal(p)
}
