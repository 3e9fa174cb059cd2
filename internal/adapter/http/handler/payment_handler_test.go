package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"senepay/internal/core/domain"
	"senepay/internal/core/ports"
	"senepay/pkg/apperror"
	"senepay/pkg/response"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func jsonBody(t *testing.T, v interface{}) *bytes.Reader {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewReader(data)
}

func TestPaymentHandler_InitiatePayment(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	router, paymentSvc, _, _ := newTestRouter(t, ctrl)

	merchantID := uuid.New()
	paymentID := uuid.New()

	paymentSvc.EXPECT().InitiatePayment(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ interface{}, req ports.InitiatePaymentRequest) (*ports.InitiatePaymentResult, error) {
			assert.Equal(t, merchantID, req.MerchantID)
			assert.Equal(t, int64(15000), req.Amount)
			assert.Equal(t, domain.PaymentMethodWave, req.PaymentMethod)
			return &ports.InitiatePaymentResult{
				Payment: &domain.Payment{
					ID:     paymentID,
					Status: domain.PaymentStatusPending,
				},
				PaymentURL: "https://pay.wave.com/c/cos-001",
			}, nil
		},
	)

	body := jsonBody(t, map[string]interface{}{
		"merchant_id":    merchantID.String(),
		"reference":      "ORDER-2026-001",
		"amount":         15000,
		"currency":       "XOF",
		"payment_method": "wave",
		"customer_phone": "+221770000000",
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments", body)
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp response.SuccessResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, paymentID.String(), data["payment_id"])
	assert.Equal(t, "PENDING", data["status"])
	assert.Equal(t, "https://pay.wave.com/c/cos-001", data["payment_url"])
}

func TestPaymentHandler_InitiatePayment_ValidationFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	router, _, _, _ := newTestRouter(t, ctrl)

	// Unknown payment method fails the binding's oneof constraint.
	body := jsonBody(t, map[string]interface{}{
		"merchant_id":    uuid.New().String(),
		"reference":      "ORDER-1",
		"amount":         1000,
		"currency":       "XOF",
		"payment_method": "paypal",
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments", body)
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPaymentHandler_InitiatePayment_DuplicateReference(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	router, paymentSvc, _, _ := newTestRouter(t, ctrl)

	paymentSvc.EXPECT().InitiatePayment(gomock.Any(), gomock.Any()).
		Return(nil, apperror.ErrDuplicateReference())

	body := jsonBody(t, map[string]interface{}{
		"merchant_id":    uuid.New().String(),
		"reference":      "ORDER-DUP",
		"amount":         1000,
		"currency":       "XOF",
		"payment_method": "wave",
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments", body)
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)

	var resp response.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "PAY_002", resp.ErrorCode)
}

func TestPaymentHandler_ProviderCallback(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	router, paymentSvc, _, _ := newTestRouter(t, ctrl)

	paymentID := uuid.New()
	now := time.Now().UTC()
	txnID := "wave-txn-001"

	paymentSvc.EXPECT().FinalizePayment(gomock.Any(), ports.FinalizePaymentRequest{
		PaymentID:      paymentID,
		Provider:       domain.PaymentMethodWave,
		ProviderStatus: "succeeded",
		ProviderTxnID:  txnID,
	}).Return(&domain.Payment{
		ID:            paymentID,
		Reference:     "ORDER-2026-001",
		Amount:        15000,
		Currency:      "XOF",
		Status:        domain.PaymentStatusCompleted,
		PaymentMethod: domain.PaymentMethodWave,
		ProviderTxnID: &txnID,
		CreatedAt:     now.Add(-time.Minute),
		CompletedAt:   &now,
	}, nil)

	body := jsonBody(t, map[string]interface{}{
		"payment_id":     paymentID.String(),
		"status":         "succeeded",
		"transaction_id": txnID,
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/callback/wave", body)
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp response.SuccessResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "COMPLETED", data["status"])
	assert.NotEmpty(t, data["completed_at"])
}

func TestPaymentHandler_ProviderCallback_UnknownProvider(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	router, _, _, _ := newTestRouter(t, ctrl)

	body := jsonBody(t, map[string]interface{}{
		"payment_id": uuid.New().String(),
		"status":     "succeeded",
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/callback/paypal", body)
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp response.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "PAY_004", resp.ErrorCode)
}

func TestPaymentHandler_GetPayment(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	router, paymentSvc, _, _ := newTestRouter(t, ctrl)

	payment := &domain.Payment{
		ID:            uuid.New(),
		Reference:     "ORDER-2026-001",
		Amount:        15000,
		Currency:      "XOF",
		Status:        domain.PaymentStatusPending,
		PaymentMethod: domain.PaymentMethodOrangeMoney,
		CreatedAt:     time.Now().UTC(),
	}
	paymentSvc.EXPECT().GetPayment(gomock.Any(), payment.ID).Return(payment, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/payments/"+payment.ID.String(), nil))

	assert.Equal(t, http.StatusOK, w.Code)

	var resp response.SuccessResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, payment.ID.String(), data["id"])
	assert.Equal(t, "orange_money", data["payment_method"])
}

func TestPaymentHandler_GetPayment_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	router, paymentSvc, _, _ := newTestRouter(t, ctrl)

	id := uuid.New()
	paymentSvc.EXPECT().GetPayment(gomock.Any(), id).Return(nil, apperror.ErrNotFound("payment"))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/payments/"+id.String(), nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPaymentHandler_GetPayment_InvalidID(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	router, _, _, _ := newTestRouter(t, ctrl)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/payments/not-a-uuid", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
