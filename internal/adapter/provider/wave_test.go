package provider

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWaveClient_InitiatePayment_Success(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody waveCheckoutRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &gotBody)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(waveCheckoutResponse{
			ID:             "cos-18qq25rgr100a",
			WaveLaunchURL:  "https://pay.wave.com/c/cos-18qq25rgr100a",
			CheckoutStatus: "open",
		})
	}))
	defer server.Close()

	client := NewWaveClient(server.URL, "wave_sn_test_key", server.Client())

	session, err := client.InitiatePayment(context.Background(), InitiateRequest{
		PaymentID: "pay-001",
		Amount:    15000,
		Currency:  "XOF",
	})
	require.NoError(t, err)

	assert.Equal(t, "/v1/checkout/sessions", gotPath)
	assert.Equal(t, "Bearer wave_sn_test_key", gotAuth)
	assert.Equal(t, "15000", gotBody.Amount, "wave API takes amounts as strings")
	assert.Equal(t, "XOF", gotBody.Currency)
	assert.Equal(t, "pay-001", gotBody.ClientReference)

	assert.Equal(t, "cos-18qq25rgr100a", session.ProviderRef)
	assert.Equal(t, "https://pay.wave.com/c/cos-18qq25rgr100a", session.PaymentURL)
}

func TestWaveClient_InitiatePayment_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(waveCheckoutResponse{
			ErrorCode:    "insufficient-funds",
			ErrorMessage: "merchant account cannot accept payments",
		})
	}))
	defer server.Close()

	client := NewWaveClient(server.URL, "key", server.Client())

	_, err := client.InitiatePayment(context.Background(), InitiateRequest{PaymentID: "pay-001", Amount: 100, Currency: "XOF"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insufficient-funds")
}

func TestWaveClient_InitiatePayment_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewWaveClient(server.URL, "bad-key", server.Client())

	_, err := client.InitiatePayment(context.Background(), InitiateRequest{PaymentID: "pay-001", Amount: 100, Currency: "XOF"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 401")
}

func TestWaveClient_InitiatePayment_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // immediately

	client := NewWaveClient(server.URL, "key", http.DefaultClient)

	_, err := client.InitiatePayment(context.Background(), InitiateRequest{PaymentID: "pay-001", Amount: 100, Currency: "XOF"})
	assert.Error(t, err)
}
