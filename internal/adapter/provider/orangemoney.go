package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"senepay/internal/core/domain"
)

// OrangeMoneyClient integrates with the Orange Money Web Payment API.
type OrangeMoneyClient struct {
	baseURL    string
	apiKey     string
	httpClient HTTPClient
}

// NewOrangeMoneyClient creates an Orange Money provider client.
func NewOrangeMoneyClient(baseURL, apiKey string, httpClient HTTPClient) *OrangeMoneyClient {
	return &OrangeMoneyClient{baseURL: baseURL, apiKey: apiKey, httpClient: httpClient}
}

// Method returns the payment method this client serves.
func (c *OrangeMoneyClient) Method() domain.PaymentMethod {
	return domain.PaymentMethodOrangeMoney
}

type orangeMoneyPaymentRequest struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	OrderID  string `json:"order_id"`
	Phone    string `json:"phone,omitempty"`
}

type orangeMoneyPaymentResponse struct {
	PayToken   string `json:"pay_token"`
	PaymentURL string `json:"payment_url"`
	Status     string `json:"status"`
	Message    string `json:"message"`
}

// InitiatePayment opens an Orange Money web payment session.
func (c *OrangeMoneyClient) InitiatePayment(ctx context.Context, req InitiateRequest) (*Session, error) {
	body, err := json.Marshal(orangeMoneyPaymentRequest{
		Amount:   req.Amount,
		Currency: req.Currency,
		OrderID:  req.PaymentID,
		Phone:    req.CustomerPhone,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal payment request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/omcoreapis/1.0.2/webpayment", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build payment request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("orange money webpayment: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read payment response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("orange money returned status %d: %s", resp.StatusCode, respBody)
	}

	var payment orangeMoneyPaymentResponse
	if err := json.Unmarshal(respBody, &payment); err != nil {
		return nil, fmt.Errorf("decode payment response: %w", err)
	}

	return &Session{
		ProviderRef: payment.PayToken,
		PaymentURL:  payment.PaymentURL,
	}, nil
}
