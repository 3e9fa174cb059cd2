package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"senepay/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// WebhookEventRepo implements ports.WebhookEventRepository.
type WebhookEventRepo struct {
	pool Pool
}

// NewWebhookEventRepo creates a new WebhookEventRepo.
func NewWebhookEventRepo(pool Pool) *WebhookEventRepo {
	return &WebhookEventRepo{pool: pool}
}

const webhookEventColumns = `id, merchant_id, payment_id, event_type, payload, webhook_url,
	attempts, max_attempts, delivered, last_attempt_at, next_retry_at, created_at, updated_at`

// Create inserts a new webhook event within a database transaction.
func (r *WebhookEventRepo) Create(ctx context.Context, tx pgx.Tx, e *domain.WebhookEvent) error {
	query := `INSERT INTO webhook_events (` + webhookEventColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	_, err := tx.Exec(ctx, query,
		e.ID, e.MerchantID, e.PaymentID, string(e.EventType), e.Payload, e.WebhookURL,
		e.Attempts, e.MaxAttempts, e.Delivered, e.LastAttemptAt, e.NextRetryAt,
		e.CreatedAt, e.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert webhook event: %w", err)
	}
	return nil
}

// SelectDue fetches up to limit undelivered events whose retry time has
// elapsed. Abandoned events (attempts = max_attempts) are never returned.
func (r *WebhookEventRepo) SelectDue(ctx context.Context, limit int, now time.Time) ([]domain.WebhookEvent, error) {
	query := `SELECT ` + webhookEventColumns + `
		FROM webhook_events
		WHERE delivered = false
		  AND attempts < max_attempts
		  AND (next_retry_at IS NULL OR next_retry_at <= $1)
		ORDER BY next_retry_at ASC NULLS FIRST
		LIMIT $2`

	rows, err := r.pool.Query(ctx, query, now, limit)
	if err != nil {
		return nil, fmt.Errorf("select due webhook events: %w", err)
	}
	defer rows.Close()

	var events []domain.WebhookEvent
	for rows.Next() {
		e, err := scanWebhookEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, *e)
	}
	return events, rows.Err()
}

// Update persists the outcome of a delivery attempt.
func (r *WebhookEventRepo) Update(ctx context.Context, e *domain.WebhookEvent) error {
	query := `UPDATE webhook_events
		SET attempts = $1, delivered = $2, last_attempt_at = $3, next_retry_at = $4, updated_at = $5
		WHERE id = $6`

	tag, err := r.pool.Exec(ctx, query,
		e.Attempts, e.Delivered, e.LastAttemptAt, e.NextRetryAt, e.UpdatedAt, e.ID,
	)
	if err != nil {
		return fmt.Errorf("update webhook event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("webhook event not found: %s", e.ID)
	}
	return nil
}

// GetByID fetches a webhook event by UUID. Returns nil if not found.
func (r *WebhookEventRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.WebhookEvent, error) {
	query := `SELECT ` + webhookEventColumns + ` FROM webhook_events WHERE id = $1`

	e, err := scanWebhookEvent(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return e, nil
}

// ListByPaymentID fetches all webhook events for one payment, newest first.
func (r *WebhookEventRepo) ListByPaymentID(ctx context.Context, paymentID uuid.UUID) ([]domain.WebhookEvent, error) {
	query := `SELECT ` + webhookEventColumns + `
		FROM webhook_events WHERE payment_id = $1 ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, paymentID)
	if err != nil {
		return nil, fmt.Errorf("list webhook events: %w", err)
	}
	defer rows.Close()

	var events []domain.WebhookEvent
	for rows.Next() {
		e, err := scanWebhookEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, *e)
	}
	return events, rows.Err()
}

func scanWebhookEvent(row pgx.Row) (*domain.WebhookEvent, error) {
	var e domain.WebhookEvent
	var eventType string
	if err := row.Scan(
		&e.ID, &e.MerchantID, &e.PaymentID, &eventType, &e.Payload, &e.WebhookURL,
		&e.Attempts, &e.MaxAttempts, &e.Delivered, &e.LastAttemptAt, &e.NextRetryAt,
		&e.CreatedAt, &e.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, pgx.ErrNoRows
		}
		return nil, fmt.Errorf("scan webhook event: %w", err)
	}
	e.EventType = domain.WebhookEventType(eventType)
	return &e, nil
}
