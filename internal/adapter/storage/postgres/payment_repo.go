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

// PaymentRepo implements ports.PaymentRepository.
type PaymentRepo struct {
	pool Pool
}

// NewPaymentRepo creates a new PaymentRepo.
func NewPaymentRepo(pool Pool) *PaymentRepo {
	return &PaymentRepo{pool: pool}
}

const paymentColumns = `id, merchant_id, reference, amount, currency, status, payment_method,
	customer_email, customer_phone, provider_txn_id, created_at, completed_at`

// Create inserts a new pending payment.
func (r *PaymentRepo) Create(ctx context.Context, p *domain.Payment) error {
	query := `INSERT INTO payments (` + paymentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err := r.pool.Exec(ctx, query,
		p.ID, p.MerchantID, p.Reference, p.Amount, p.Currency, string(p.Status),
		string(p.PaymentMethod), p.CustomerEmail, p.CustomerPhone, p.ProviderTxnID,
		p.CreatedAt, p.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("insert payment: %w", err)
	}
	return nil
}

// GetByID fetches a payment by UUID. Returns nil if not found.
func (r *PaymentRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE id = $1`
	return r.scanPayment(r.pool.QueryRow(ctx, query, id))
}

// GetByReference fetches a payment by merchant ID and order reference.
func (r *PaymentRepo) GetByReference(ctx context.Context, merchantID uuid.UUID, reference string) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE merchant_id = $1 AND reference = $2`
	return r.scanPayment(r.pool.QueryRow(ctx, query, merchantID, reference))
}

// UpdateStatus finalizes a payment within a database transaction. The UPDATE
// is guarded on the PENDING state, so two callbacks racing on the same payment
// cannot both finalize it. Returns false when no row changed, i.e. the payment
// is unknown or a concurrent callback already moved it to a terminal state.
func (r *PaymentRepo) UpdateStatus(ctx context.Context, tx pgx.Tx, id uuid.UUID, status domain.PaymentStatus, providerTxnID *string) (bool, error) {
	now := time.Now().UTC()
	query := `UPDATE payments SET status = $1, provider_txn_id = $2, completed_at = $3
		WHERE id = $4 AND status = $5`

	tag, err := tx.Exec(ctx, query, string(status), providerTxnID, now, id, string(domain.PaymentStatusPending))
	if err != nil {
		return false, fmt.Errorf("update payment status: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *PaymentRepo) scanPayment(row pgx.Row) (*domain.Payment, error) {
	var p domain.Payment
	var status, method string
	if err := row.Scan(
		&p.ID, &p.MerchantID, &p.Reference, &p.Amount, &p.Currency, &status,
		&method, &p.CustomerEmail, &p.CustomerPhone, &p.ProviderTxnID,
		&p.CreatedAt, &p.CompletedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan payment: %w", err)
	}
	p.Status = domain.PaymentStatus(status)
	p.PaymentMethod = domain.PaymentMethod(method)
	return &p, nil
}
