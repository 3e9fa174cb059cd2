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

func TestOrangeMoneyClient_InitiatePayment_Success(t *testing.T) {
	var gotPath string
	var gotBody orangeMoneyPaymentRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &gotBody)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(orangeMoneyPaymentResponse{
			PayToken:   "omp-93f2a",
			PaymentURL: "https://webpayment.orange-money.com/p/omp-93f2a",
			Status:     "INITIATED",
		})
	}))
	defer server.Close()

	client := NewOrangeMoneyClient(server.URL, "om_sn_test_key", server.Client())

	session, err := client.InitiatePayment(context.Background(), InitiateRequest{
		PaymentID:     "pay-002",
		Amount:        25000,
		Currency:      "XOF",
		CustomerPhone: "+221770000000",
	})
	require.NoError(t, err)

	assert.Equal(t, "/omcoreapis/1.0.2/webpayment", gotPath)
	assert.Equal(t, int64(25000), gotBody.Amount)
	assert.Equal(t, "pay-002", gotBody.OrderID)
	assert.Equal(t, "+221770000000", gotBody.Phone)

	assert.Equal(t, "omp-93f2a", session.ProviderRef)
	assert.Equal(t, "https://webpayment.orange-money.com/p/omp-93f2a", session.PaymentURL)
}

func TestOrangeMoneyClient_InitiatePayment_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewOrangeMoneyClient(server.URL, "key", server.Client())

	_, err := client.InitiatePayment(context.Background(), InitiateRequest{PaymentID: "pay-002", Amount: 100, Currency: "XOF"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 503")
}

func TestOrangeMoneyClient_InitiatePayment_MalformedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>not json</html>"))
	}))
	defer server.Close()

	client := NewOrangeMoneyClient(server.URL, "key", server.Client())

	_, err := client.InitiatePayment(context.Background(), InitiateRequest{PaymentID: "pay-002", Amount: 100, Currency: "XOF"})
	assert.Error(t, err)
}
