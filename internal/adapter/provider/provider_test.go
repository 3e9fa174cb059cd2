package provider

import (
	"testing"

	"senepay/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapStatus_Wave(t *testing.T) {
	tests := []struct {
		providerStatus string
		want           domain.PaymentStatus
	}{
		{"succeeded", domain.PaymentStatusCompleted},
		{"complete", domain.PaymentStatusCompleted},
		{"failed", domain.PaymentStatusFailed},
		{"cancelled", domain.PaymentStatusFailed},
		{"expired", domain.PaymentStatusFailed},
	}

	for _, tt := range tests {
		got, err := MapStatus(domain.PaymentMethodWave, tt.providerStatus)
		require.NoError(t, err, "status %q", tt.providerStatus)
		assert.Equal(t, tt.want, got, "status %q", tt.providerStatus)
	}
}

func TestMapStatus_OrangeMoney(t *testing.T) {
	tests := []struct {
		providerStatus string
		want           domain.PaymentStatus
	}{
		{"SUCCESS", domain.PaymentStatusCompleted},
		{"SUCCESSFULL", domain.PaymentStatusCompleted},
		{"FAILED", domain.PaymentStatusFailed},
		{"EXPIRED", domain.PaymentStatusFailed},
		{"CANCELLED", domain.PaymentStatusFailed},
	}

	for _, tt := range tests {
		got, err := MapStatus(domain.PaymentMethodOrangeMoney, tt.providerStatus)
		require.NoError(t, err, "status %q", tt.providerStatus)
		assert.Equal(t, tt.want, got, "status %q", tt.providerStatus)
	}
}

func TestMapStatus_UnknownStatusRejected(t *testing.T) {
	_, err := MapStatus(domain.PaymentMethodWave, "processing")
	assert.Error(t, err)

	_, err = MapStatus(domain.PaymentMethodOrangeMoney, "PENDING")
	assert.Error(t, err)
}

func TestMapStatus_UnknownMethodRejected(t *testing.T) {
	_, err := MapStatus(domain.PaymentMethod("paypal"), "succeeded")
	assert.Error(t, err)
}

func TestMapStatus_CaseSensitive(t *testing.T) {
	// Wave reports lowercase, Orange Money uppercase; the other casing is
	// not silently accepted.
	_, err := MapStatus(domain.PaymentMethodWave, "SUCCEEDED")
	assert.Error(t, err)

	_, err = MapStatus(domain.PaymentMethodOrangeMoney, "success")
	assert.Error(t, err)
}

func TestRegistry_Get(t *testing.T) {
	wave := NewWaveClient("https://api.wave.com", "key", nil)
	om := NewOrangeMoneyClient("https://api.orange.sn", "key", nil)
	registry := NewRegistry(wave, om)

	client, err := registry.Get(domain.PaymentMethodWave)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentMethodWave, client.Method())

	client, err = registry.Get(domain.PaymentMethodOrangeMoney)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentMethodOrangeMoney, client.Method())
}

func TestRegistry_Get_Unregistered(t *testing.T) {
	registry := NewRegistry(NewWaveClient("https://api.wave.com", "key", nil))

	_, err := registry.Get(domain.PaymentMethodOrangeMoney)
	assert.Error(t, err)
}

func TestRegistry_Get_Empty(t *testing.T) {
	registry := NewRegistry()

	_, err := registry.Get(domain.PaymentMethodWave)
	assert.Error(t, err)
}
