package service

import (
	"context"
	"fmt"
	"time"

	"senepay/internal/core/domain"
	"senepay/internal/core/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// webhookService implements ports.WebhookEnqueuer.
type webhookService struct {
	eventRepo   ports.WebhookEventRepository
	maxAttempts int
	log         zerolog.Logger
}

// NewWebhookService creates the producer-side webhook service.
func NewWebhookService(eventRepo ports.WebhookEventRepository, maxAttempts int, log zerolog.Logger) ports.WebhookEnqueuer {
	if maxAttempts <= 0 {
		maxAttempts = domain.DefaultMaxAttempts
	}
	return &webhookService{
		eventRepo:   eventRepo,
		maxAttempts: maxAttempts,
		log:         log,
	}
}

// EnqueueForPayment creates one notification record for a terminal payment.
//
// The payload is marshaled exactly once here; the stored bytes are what
// every delivery attempt sends and signs. Runs inside the caller's database
// transaction so a finalized payment is never left without its event.
func (s *webhookService) EnqueueForPayment(ctx context.Context, tx pgx.Tx, payment *domain.Payment, merchant *domain.Merchant) (*domain.WebhookEvent, error) {
	if !payment.IsTerminal() {
		return nil, fmt.Errorf("payment %s is not in a terminal state", payment.ID)
	}
	if merchant == nil || !merchant.HasWebhook() {
		s.log.Debug().
			Str("payment_id", payment.ID.String()).
			Msg("webhook: no webhook URL configured, skipping")
		return nil, nil
	}

	now := time.Now().UTC()
	payloadBytes, err := domain.NewWebhookPayload(payment, now).Marshal()
	if err != nil {
		return nil, fmt.Errorf("marshal webhook payload: %w", err)
	}

	paymentID := payment.ID
	event := &domain.WebhookEvent{
		ID:          uuid.New(),
		MerchantID:  payment.MerchantID,
		PaymentID:   &paymentID,
		EventType:   payment.WebhookEventType(),
		Payload:     payloadBytes,
		WebhookURL:  *merchant.WebhookURL,
		Attempts:    0,
		MaxAttempts: s.maxAttempts,
		Delivered:   false,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.eventRepo.Create(ctx, tx, event); err != nil {
		return nil, fmt.Errorf("insert webhook event: %w", err)
	}

	s.log.Info().
		Str("event_id", event.ID.String()).
		Str("event_type", string(event.EventType)).
		Str("merchant_id", event.MerchantID.String()).
		Msg("webhook: event enqueued")

	return event, nil
}
