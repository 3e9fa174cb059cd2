package domain

import (
	"time"

	"github.com/google/uuid"
)

// WebhookAuditEntry records the outcome of one delivery attempt.
// The audit log is append-only; entries are never updated or deleted.
type WebhookAuditEntry struct {
	ID         uuid.UUID `json:"id"`
	MerchantID uuid.UUID `json:"merchant_id"`
	EventID    uuid.UUID `json:"event_id"`
	Attempt    int       `json:"attempt"`
	Success    bool      `json:"success"`
	HTTPStatus *int      `json:"http_status,omitempty"`
	Error      *string   `json:"error,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
