package postgres

import (
	"context"
	"fmt"

	"senepay/internal/core/domain"

	"github.com/google/uuid"
)

// AuditRepo implements ports.WebhookAuditRepository.
// The audit log is append-only: no update or delete queries exist.
type AuditRepo struct {
	pool Pool
}

// NewAuditRepo creates a new AuditRepo.
func NewAuditRepo(pool Pool) *AuditRepo {
	return &AuditRepo{pool: pool}
}

// Create appends one delivery attempt outcome.
func (r *AuditRepo) Create(ctx context.Context, entry *domain.WebhookAuditEntry) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO webhook_audit_log (id, merchant_id, event_id, attempt, success, http_status, error, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		entry.ID, entry.MerchantID, entry.EventID, entry.Attempt,
		entry.Success, entry.HTTPStatus, entry.Error, entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert webhook audit entry: %w", err)
	}
	return nil
}

// ListByEventID fetches the attempt history of one event, oldest first.
func (r *AuditRepo) ListByEventID(ctx context.Context, eventID uuid.UUID) ([]domain.WebhookAuditEntry, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, merchant_id, event_id, attempt, success, http_status, error, created_at
		 FROM webhook_audit_log WHERE event_id = $1 ORDER BY attempt ASC`, eventID)
	if err != nil {
		return nil, fmt.Errorf("list webhook audit entries: %w", err)
	}
	defer rows.Close()

	var entries []domain.WebhookAuditEntry
	for rows.Next() {
		var e domain.WebhookAuditEntry
		if err := rows.Scan(
			&e.ID, &e.MerchantID, &e.EventID, &e.Attempt,
			&e.Success, &e.HTTPStatus, &e.Error, &e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan webhook audit entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
