package provider

import (
	"context"
	"fmt"
	"net/http"

	"senepay/internal/core/domain"
)

// Client is the contract for a mobile-money provider integration.
type Client interface {
	// InitiatePayment opens a checkout session with the provider and
	// returns the URL the customer is redirected to.
	InitiatePayment(ctx context.Context, req InitiateRequest) (*Session, error)
	Method() domain.PaymentMethod
}

// InitiateRequest holds the fields providers need to open a session.
type InitiateRequest struct {
	PaymentID     string
	Amount        int64
	Currency      string
	CustomerPhone string
}

// Session is a provider checkout session.
type Session struct {
	ProviderRef string
	PaymentURL  string
}

// HTTPClient interface for testability.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Registry resolves a provider client by payment method.
type Registry map[domain.PaymentMethod]Client

// NewRegistry builds a registry from the given clients.
func NewRegistry(clients ...Client) Registry {
	r := make(Registry, len(clients))
	for _, c := range clients {
		r[c.Method()] = c
	}
	return r
}

// Get returns the client for the given method.
func (r Registry) Get(method domain.PaymentMethod) (Client, error) {
	c, ok := r[method]
	if !ok {
		return nil, fmt.Errorf("no client registered for method %q", method)
	}
	return c, nil
}

// waveStatusMap translates Wave checkout statuses to payment states.
var waveStatusMap = map[string]domain.PaymentStatus{
	"succeeded": domain.PaymentStatusCompleted,
	"complete":  domain.PaymentStatusCompleted,
	"failed":    domain.PaymentStatusFailed,
	"cancelled": domain.PaymentStatusFailed,
	"expired":   domain.PaymentStatusFailed,
}

// orangeMoneyStatusMap translates Orange Money transaction statuses.
// The API reports "SUCCESSFULL" (sic) on some endpoints; both spellings
// are accepted.
var orangeMoneyStatusMap = map[string]domain.PaymentStatus{
	"SUCCESS":     domain.PaymentStatusCompleted,
	"SUCCESSFULL": domain.PaymentStatusCompleted,
	"FAILED":      domain.PaymentStatusFailed,
	"EXPIRED":     domain.PaymentStatusFailed,
	"CANCELLED":   domain.PaymentStatusFailed,
}

// MapStatus translates a provider-reported status into a terminal payment
// state. Unknown statuses are rejected rather than guessed at.
func MapStatus(method domain.PaymentMethod, providerStatus string) (domain.PaymentStatus, error) {
	var table map[string]domain.PaymentStatus
	switch method {
	case domain.PaymentMethodWave:
		table = waveStatusMap
	case domain.PaymentMethodOrangeMoney:
		table = orangeMoneyStatusMap
	default:
		return "", fmt.Errorf("unknown payment method %q", method)
	}

	status, ok := table[providerStatus]
	if !ok {
		return "", fmt.Errorf("unrecognized %s status %q", method, providerStatus)
	}
	return status, nil
}
