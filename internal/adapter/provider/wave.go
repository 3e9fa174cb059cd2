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

// WaveClient integrates with the Wave checkout API.
type WaveClient struct {
	baseURL    string
	apiKey     string
	httpClient HTTPClient
}

// NewWaveClient creates a Wave provider client.
func NewWaveClient(baseURL, apiKey string, httpClient HTTPClient) *WaveClient {
	return &WaveClient{baseURL: baseURL, apiKey: apiKey, httpClient: httpClient}
}

// Method returns the payment method this client serves.
func (c *WaveClient) Method() domain.PaymentMethod {
	return domain.PaymentMethodWave
}

type waveCheckoutRequest struct {
	Amount          string `json:"amount"`
	Currency        string `json:"currency"`
	ClientReference string `json:"client_reference"`
}

type waveCheckoutResponse struct {
	ID               string `json:"id"`
	WaveLaunchURL    string `json:"wave_launch_url"`
	CheckoutStatus   string `json:"checkout_status"`
	ErrorCode        string `json:"error_code"`
	ErrorMessage     string `json:"error_message"`
}

// InitiatePayment opens a Wave checkout session.
func (c *WaveClient) InitiatePayment(ctx context.Context, req InitiateRequest) (*Session, error) {
	body, err := json.Marshal(waveCheckoutRequest{
		Amount:          fmt.Sprintf("%d", req.Amount),
		Currency:        req.Currency,
		ClientReference: req.PaymentID,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal checkout request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/checkout/sessions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build checkout request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("wave checkout: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read checkout response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("wave checkout returned status %d: %s", resp.StatusCode, respBody)
	}

	var checkout waveCheckoutResponse
	if err := json.Unmarshal(respBody, &checkout); err != nil {
		return nil, fmt.Errorf("decode checkout response: %w", err)
	}
	if checkout.ErrorCode != "" {
		return nil, fmt.Errorf("wave checkout error %s: %s", checkout.ErrorCode, checkout.ErrorMessage)
	}

	return &Session{
		ProviderRef: checkout.ID,
		PaymentURL:  checkout.WaveLaunchURL,
	}, nil
}
