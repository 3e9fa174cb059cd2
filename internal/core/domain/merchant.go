package domain

import (
	"time"

	"github.com/google/uuid"
)

// MerchantStatus represents the state of a merchant account.
type MerchantStatus string

const (
	MerchantStatusActive    MerchantStatus = "ACTIVE"
	MerchantStatusSuspended MerchantStatus = "SUSPENDED"
)

// Merchant represents a registered merchant. WebhookURL is optional;
// merchants without one simply never receive webhook notifications.
type Merchant struct {
	ID         uuid.UUID      `json:"id"`
	Name       string         `json:"name"`
	WebhookURL *string        `json:"webhook_url,omitempty"`
	Status     MerchantStatus `json:"status"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

// IsActive returns true if the merchant account is active.
func (m *Merchant) IsActive() bool {
	return m.Status == MerchantStatusActive
}

// HasWebhook returns true if the merchant has a callback URL configured.
func (m *Merchant) HasWebhook() bool {
	return m.WebhookURL != nil && *m.WebhookURL != ""
}
