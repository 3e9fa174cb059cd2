package ports

import (
	"context"
	"time"

	"senepay/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// WebhookEventRepository defines persistence for webhook delivery records.
// Create runs inside the payment finalization transaction so that a payment
// never reaches a terminal state without its notification being enqueued.
type WebhookEventRepository interface {
	Create(ctx context.Context, tx pgx.Tx, event *domain.WebhookEvent) error
	// SelectDue returns up to limit records with delivered=false,
	// attempts < max_attempts and next_retry_at <= now (or unset).
	// No cross-merchant ordering is guaranteed.
	SelectDue(ctx context.Context, limit int, now time.Time) ([]domain.WebhookEvent, error)
	Update(ctx context.Context, event *domain.WebhookEvent) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.WebhookEvent, error)
	ListByPaymentID(ctx context.Context, paymentID uuid.UUID) ([]domain.WebhookEvent, error)
}

// WebhookAuditRepository defines the append-only audit sink.
type WebhookAuditRepository interface {
	Create(ctx context.Context, entry *domain.WebhookAuditEntry) error
	ListByEventID(ctx context.Context, eventID uuid.UUID) ([]domain.WebhookAuditEntry, error)
}

// MerchantRepository defines persistence operations for merchants.
type MerchantRepository interface {
	Create(ctx context.Context, merchant *domain.Merchant) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Merchant, error)
}

// PaymentRepository defines persistence operations for payments.
type PaymentRepository interface {
	Create(ctx context.Context, payment *domain.Payment) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Payment, error)
	GetByReference(ctx context.Context, merchantID uuid.UUID, reference string) (*domain.Payment, error)
	// UpdateStatus finalizes a payment inside a database transaction. The
	// update only applies to PENDING payments; false means another caller
	// already finalized the payment.
	UpdateStatus(ctx context.Context, tx pgx.Tx, id uuid.UUID, status domain.PaymentStatus, providerTxnID *string) (bool, error)
}

// DBTransactor provides database transaction management.
type DBTransactor interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// DeliveryLeaseStore claims a webhook event for the duration of one delivery
// attempt, so overlapping worker passes never process the same record twice.
type DeliveryLeaseStore interface {
	// Acquire returns true if the lease was obtained, false if another
	// pass already holds it.
	Acquire(ctx context.Context, eventID uuid.UUID, ttl time.Duration) (bool, error)
	Release(ctx context.Context, eventID uuid.UUID) error
}
