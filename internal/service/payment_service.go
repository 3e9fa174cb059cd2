package service

import (
	"context"
	"fmt"
	"time"

	"senepay/internal/adapter/provider"
	"senepay/internal/core/domain"
	"senepay/internal/core/ports"
	"senepay/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// PaymentServiceImpl implements ports.PaymentService.
type PaymentServiceImpl struct {
	paymentRepo  ports.PaymentRepository
	merchantRepo ports.MerchantRepository
	enqueuer     ports.WebhookEnqueuer
	providers    provider.Registry
	transactor   ports.DBTransactor
	log          zerolog.Logger
}

// NewPaymentService creates a new PaymentServiceImpl.
func NewPaymentService(
	paymentRepo ports.PaymentRepository,
	merchantRepo ports.MerchantRepository,
	enqueuer ports.WebhookEnqueuer,
	providers provider.Registry,
	transactor ports.DBTransactor,
	log zerolog.Logger,
) *PaymentServiceImpl {
	return &PaymentServiceImpl{
		paymentRepo:  paymentRepo,
		merchantRepo: merchantRepo,
		enqueuer:     enqueuer,
		providers:    providers,
		transactor:   transactor,
		log:          log,
	}
}

// InitiatePayment creates a pending payment and opens a provider checkout session.
func (s *PaymentServiceImpl) InitiatePayment(ctx context.Context, req ports.InitiatePaymentRequest) (*ports.InitiatePaymentResult, error) {
	if req.Amount <= 0 {
		return nil, apperror.ErrInvalidAmount()
	}

	merchant, err := s.merchantRepo.GetByID(ctx, req.MerchantID)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("fetch merchant: %w", err))
	}
	if merchant == nil {
		return nil, apperror.ErrNotFound("merchant")
	}
	if !merchant.IsActive() {
		return nil, apperror.ErrMerchantSuspended()
	}

	existing, err := s.paymentRepo.GetByReference(ctx, req.MerchantID, req.Reference)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("check reference: %w", err))
	}
	if existing != nil {
		return nil, apperror.ErrDuplicateReference()
	}

	client, err := s.providers.Get(req.PaymentMethod)
	if err != nil {
		return nil, apperror.ErrUnknownProvider(string(req.PaymentMethod))
	}

	payment := &domain.Payment{
		ID:            uuid.New(),
		MerchantID:    req.MerchantID,
		Reference:     req.Reference,
		Amount:        req.Amount,
		Currency:      req.Currency,
		Status:        domain.PaymentStatusPending,
		PaymentMethod: req.PaymentMethod,
		CustomerEmail: req.CustomerEmail,
		CustomerPhone: req.CustomerPhone,
		CreatedAt:     time.Now().UTC(),
	}

	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("insert payment: %w", err))
	}

	session, err := client.InitiatePayment(ctx, provider.InitiateRequest{
		PaymentID:     payment.ID.String(),
		Amount:        payment.Amount,
		Currency:      payment.Currency,
		CustomerPhone: payment.CustomerPhone,
	})
	if err != nil {
		return nil, apperror.ErrProviderUnreachable(err)
	}

	s.log.Info().
		Str("payment_id", payment.ID.String()).
		Str("method", string(payment.PaymentMethod)).
		Int64("amount", payment.Amount).
		Msg("payment initiated")

	return &ports.InitiatePaymentResult{
		Payment:    payment,
		PaymentURL: session.PaymentURL,
	}, nil
}

// FinalizePayment maps a provider status callback to a terminal state and,
// in the same database transaction, enqueues the merchant webhook. Calling
// it again for an already-terminal payment is a no-op.
func (s *PaymentServiceImpl) FinalizePayment(ctx context.Context, req ports.FinalizePaymentRequest) (*domain.Payment, error) {
	status, err := provider.MapStatus(req.Provider, req.ProviderStatus)
	if err != nil {
		return nil, apperror.ErrUnknownProviderStatus(req.ProviderStatus)
	}

	payment, err := s.paymentRepo.GetByID(ctx, req.PaymentID)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("fetch payment: %w", err))
	}
	if payment == nil {
		return nil, apperror.ErrNotFound("payment")
	}
	if payment.IsTerminal() {
		s.log.Debug().Str("payment_id", payment.ID.String()).Msg("payment already finalized, ignoring callback")
		return payment, nil
	}

	merchant, err := s.merchantRepo.GetByID(ctx, payment.MerchantID)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("fetch merchant: %w", err))
	}

	var providerTxnID *string
	if req.ProviderTxnID != "" {
		providerTxnID = &req.ProviderTxnID
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	updated, err := s.paymentRepo.UpdateStatus(ctx, dbTx, payment.ID, status, providerTxnID)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("update payment status: %w", err))
	}
	if !updated {
		// Lost the race against a concurrent callback: the terminal-state
		// check above ran before the other transaction committed. Nothing
		// to enqueue; the winner already did.
		s.log.Debug().Str("payment_id", payment.ID.String()).Msg("payment already finalized, ignoring callback")
		current, err := s.paymentRepo.GetByID(ctx, payment.ID)
		if err != nil {
			return nil, apperror.ErrDatabaseError(fmt.Errorf("fetch payment: %w", err))
		}
		return current, nil
	}

	now := time.Now().UTC()
	payment.Status = status
	payment.ProviderTxnID = providerTxnID
	payment.CompletedAt = &now

	if _, err := s.enqueuer.EnqueueForPayment(ctx, dbTx, payment, merchant); err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("enqueue webhook: %w", err))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("commit tx: %w", err))
	}

	s.log.Info().
		Str("payment_id", payment.ID.String()).
		Str("status", string(status)).
		Msg("payment finalized")

	return payment, nil
}

// GetPayment fetches a payment by its UUID.
func (s *PaymentServiceImpl) GetPayment(ctx context.Context, id uuid.UUID) (*domain.Payment, error) {
	payment, err := s.paymentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("fetch payment: %w", err))
	}
	if payment == nil {
		return nil, apperror.ErrNotFound("payment")
	}
	return payment, nil
}
