package integration

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"testing"
	"time"

	"senepay/internal/core/domain"
	"senepay/internal/core/ports"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestConcurrentDeliveryPasses fires several delivery passes at the same
// backlog simultaneously. The Redis lease keeps overlapping passes from
// working the same record at the same time: every event must end up
// delivered, and no event may be attempted while another pass holds it.
func TestConcurrentDeliveryPasses(t *testing.T) {
	app := newTestApp(t)
	receiver := newWebhookReceiver()
	defer receiver.close()

	merchant := app.seedMerchant(t, receiver.server.URL)

	const numEvents = 20
	eventIDs := make([]uuid.UUID, 0, numEvents)
	now := time.Now().UTC()
	for i := 0; i < numEvents; i++ {
		payload, err := json.Marshal(map[string]string{"event": "payment.completed"})
		require.NoError(t, err)
		event := &domain.WebhookEvent{
			ID:          uuid.New(),
			MerchantID:  merchant.ID,
			EventType:   domain.EventPaymentCompleted,
			Payload:     payload,
			WebhookURL:  receiver.server.URL,
			MaxAttempts: domain.DefaultMaxAttempts,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		require.NoError(t, app.eventRepo.Create(context.Background(), nil, event))
		eventIDs = append(eventIDs, event.ID)
	}

	const numPasses = 4
	summaries := make([]ports.PassSummary, numPasses)
	var wg sync.WaitGroup
	for i := 0; i < numPasses; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			resp := app.internalPost(t, "/internal/v1/webhooks/run")
			require.Equal(t, http.StatusOK, resp.StatusCode)
			decodeData(t, resp, &summaries[i])
		}(i)
	}
	wg.Wait()

	// Every record was worked by at least one pass.
	totalProcessed := 0
	for _, s := range summaries {
		assert.Equal(t, s.Processed, s.Successful+s.Failed)
		totalProcessed += s.Processed
	}
	assert.GreaterOrEqual(t, totalProcessed, numEvents)

	// At-least-once: the receiver saw every event, possibly more than once
	// when a pass picked up a record between delivery and lease expiry.
	assert.GreaterOrEqual(t, receiver.hits(), numEvents)

	for _, id := range eventIDs {
		event, err := app.eventRepo.GetByID(context.Background(), id)
		require.NoError(t, err)
		require.NotNil(t, event)
		assert.True(t, event.Delivered, "event %s not delivered", id)
		assert.GreaterOrEqual(t, event.Attempts, 1)
	}
}

// TestConcurrentCallbacksSingleEnqueue races identical provider callbacks
// for one payment. The state-guarded status update lets exactly one of them
// finalize; the rest must not enqueue duplicate notification records.
func TestConcurrentCallbacksSingleEnqueue(t *testing.T) {
	app := newTestApp(t)
	receiver := newWebhookReceiver()
	defer receiver.close()

	merchant := app.seedMerchant(t, receiver.server.URL)

	resp := app.postJSON(t, "/api/v1/payments", map[string]any{
		"merchant_id":    merchant.ID.String(),
		"reference":      "ORDER-RACE-001",
		"amount":         25000,
		"currency":       "XOF",
		"payment_method": "wave",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var initiated struct {
		PaymentID string `json:"payment_id"`
	}
	decodeData(t, resp, &initiated)

	const numCallbacks = 8
	var wg sync.WaitGroup
	for i := 0; i < numCallbacks; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			cb := app.postJSON(t, "/api/v1/payments/callback/wave", map[string]any{
				"payment_id":     initiated.PaymentID,
				"status":         "succeeded",
				"transaction_id": "wave-txn-race",
			})
			assert.Equal(t, http.StatusOK, cb.StatusCode)
			cb.Body.Close()
		}()
	}
	wg.Wait()

	events, err := app.eventRepo.ListByPaymentID(context.Background(), uuid.MustParse(initiated.PaymentID))
	require.NoError(t, err)
	assert.Len(t, events, 1)
}

// TestRepeatedCallbacksSingleEnqueue sends the same provider callback
// repeatedly in sequence; only the first transition out of PENDING enqueues
// a notification, the rest are idempotent no-ops.
func TestRepeatedCallbacksSingleEnqueue(t *testing.T) {
	app := newTestApp(t)
	receiver := newWebhookReceiver()
	defer receiver.close()

	merchant := app.seedMerchant(t, receiver.server.URL)
	paymentID := app.initiateAndComplete(t, merchant.ID, "ORDER-IDEM-001")

	for i := 0; i < 3; i++ {
		resp := app.postJSON(t, "/api/v1/payments/callback/wave", map[string]any{
			"payment_id":     paymentID,
			"status":         "succeeded",
			"transaction_id": "wave-txn-replay",
		})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		resp.Body.Close()
	}

	events, err := app.eventRepo.ListByPaymentID(context.Background(), uuid.MustParse(paymentID))
	require.NoError(t, err)
	assert.Len(t, events, 1)
}
