package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"senepay/internal/core/domain"
	"senepay/internal/core/ports/mocks"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// stubTx satisfies pgx.Tx for services that only pass the transaction
// through to mocked repositories. Commit and Rollback are tracked; any
// other method panics, which is a test bug.
type stubTx struct {
	pgx.Tx
	committed  bool
	rolledBack bool
}

func (t *stubTx) Commit(ctx context.Context) error {
	t.committed = true
	return nil
}

func (t *stubTx) Rollback(ctx context.Context) error {
	if !t.committed {
		t.rolledBack = true
	}
	return nil
}

func completedPayment() *domain.Payment {
	txnID := "wave-txn-001"
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return &domain.Payment{
		ID:            uuid.New(),
		MerchantID:    uuid.New(),
		Reference:     "ORDER-2026-001",
		Amount:        15000,
		Currency:      "XOF",
		Status:        domain.PaymentStatusCompleted,
		PaymentMethod: domain.PaymentMethodWave,
		CustomerPhone: "+221770000000",
		ProviderTxnID: &txnID,
		CreatedAt:     now.Add(-5 * time.Minute),
		CompletedAt:   &now,
	}
}

func activeMerchant(webhookURL string) *domain.Merchant {
	m := &domain.Merchant{
		ID:     uuid.New(),
		Name:   "Boutique Sandaga",
		Status: domain.MerchantStatusActive,
	}
	if webhookURL != "" {
		m.WebhookURL = &webhookURL
	}
	return m
}

func TestWebhookService_EnqueueForPayment_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockWebhookEventRepository(ctrl)
	svc := NewWebhookService(mockRepo, 5, newTestLogger())

	payment := completedPayment()
	merchant := activeMerchant("https://merchant.example.sn/webhook")
	tx := &stubTx{}

	var created *domain.WebhookEvent
	mockRepo.EXPECT().Create(gomock.Any(), tx, gomock.Any()).DoAndReturn(
		func(ctx context.Context, tx pgx.Tx, e *domain.WebhookEvent) error {
			created = e
			return nil
		},
	)

	event, err := svc.EnqueueForPayment(context.Background(), tx, payment, merchant)
	require.NoError(t, err)
	require.NotNil(t, event)
	assert.Same(t, created, event)

	assert.Equal(t, payment.MerchantID, event.MerchantID)
	require.NotNil(t, event.PaymentID)
	assert.Equal(t, payment.ID, *event.PaymentID)
	assert.Equal(t, domain.EventPaymentCompleted, event.EventType)
	assert.Equal(t, *merchant.WebhookURL, event.WebhookURL)
	assert.Equal(t, 0, event.Attempts)
	assert.Equal(t, 5, event.MaxAttempts)
	assert.False(t, event.Delivered)
	assert.Nil(t, event.NextRetryAt)

	// Stored bytes are the canonical payload.
	var payload domain.WebhookPayload
	require.NoError(t, json.Unmarshal(event.Payload, &payload))
	assert.Equal(t, domain.EventPaymentCompleted, payload.Event)
	assert.Equal(t, payment.ID.String(), payload.PaymentID)
	assert.Equal(t, "ORDER-2026-001", payload.Reference)
	assert.Equal(t, int64(15000), payload.Amount)
	assert.Equal(t, "XOF", payload.Currency)
	require.NotNil(t, payload.Wave)
	assert.Equal(t, "wave-txn-001", payload.Wave.TransactionID)
}

func TestWebhookService_EnqueueForPayment_FailedPaymentEvent(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockWebhookEventRepository(ctrl)
	svc := NewWebhookService(mockRepo, 5, newTestLogger())

	payment := completedPayment()
	payment.Status = domain.PaymentStatusFailed
	merchant := activeMerchant("https://merchant.example.sn/webhook")

	mockRepo.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

	event, err := svc.EnqueueForPayment(context.Background(), &stubTx{}, payment, merchant)
	require.NoError(t, err)
	require.NotNil(t, event)
	assert.Equal(t, domain.EventPaymentFailed, event.EventType)
}

func TestWebhookService_EnqueueForPayment_NoWebhookURL(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockWebhookEventRepository(ctrl)
	svc := NewWebhookService(mockRepo, 5, newTestLogger())

	// No Create expectation: nothing must be inserted.
	event, err := svc.EnqueueForPayment(context.Background(), &stubTx{}, completedPayment(), activeMerchant(""))
	require.NoError(t, err)
	assert.Nil(t, event)
}

func TestWebhookService_EnqueueForPayment_NonTerminalPayment(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockWebhookEventRepository(ctrl)
	svc := NewWebhookService(mockRepo, 5, newTestLogger())

	payment := completedPayment()
	payment.Status = domain.PaymentStatusPending

	event, err := svc.EnqueueForPayment(context.Background(), &stubTx{}, payment, activeMerchant("https://merchant.example.sn/webhook"))
	require.Error(t, err)
	assert.Nil(t, event)
}

func TestWebhookService_EnqueueForPayment_InsertError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockWebhookEventRepository(ctrl)
	svc := NewWebhookService(mockRepo, 5, newTestLogger())

	mockRepo.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("insert failed"))

	event, err := svc.EnqueueForPayment(context.Background(), &stubTx{}, completedPayment(), activeMerchant("https://merchant.example.sn/webhook"))
	require.Error(t, err)
	assert.Nil(t, event)
}

func TestWebhookService_DefaultMaxAttempts(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockWebhookEventRepository(ctrl)
	svc := NewWebhookService(mockRepo, 0, newTestLogger())

	var created *domain.WebhookEvent
	mockRepo.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, tx pgx.Tx, e *domain.WebhookEvent) error {
			created = e
			return nil
		},
	)

	_, err := svc.EnqueueForPayment(context.Background(), &stubTx{}, completedPayment(), activeMerchant("https://merchant.example.sn/webhook"))
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultMaxAttempts, created.MaxAttempts)
}
