package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHMACSignatureService_KnownVector(t *testing.T) {
	svc := NewHMACSignatureService()

	payload := []byte(`{"event":"payment.completed","payment_id":"abc"}`)
	signature := svc.Sign("s3cr3t", payload)

	assert.Equal(t, "f532ed057cb480d80b04ceac3df46957740e594bd75162ab09db2e956a27ee5b", signature)
}

func TestHMACSignatureService_SignFormat(t *testing.T) {
	svc := NewHMACSignatureService()

	signature := svc.Sign("my-secret-key", []byte(`{"amount":50000}`))

	// Lowercase hex SHA-256 digest
	assert.Regexp(t, `^[0-9a-f]{64}$`, signature)
}

func TestHMACSignatureService_DeterministicSign(t *testing.T) {
	svc := NewHMACSignatureService()

	sig1 := svc.Sign("key", []byte("data"))
	sig2 := svc.Sign("key", []byte("data"))

	assert.Equal(t, sig1, sig2, "same key+payload should produce same signature")
}

func TestHMACSignatureService_PayloadSensitivity(t *testing.T) {
	svc := NewHMACSignatureService()

	sig1 := svc.Sign("s3cr3t", []byte(`{"event":"payment.completed","payment_id":"abc"}`))
	sig2 := svc.Sign("s3cr3t", []byte(`{"event":"payment.completed","payment_id":"abd"}`))

	assert.NotEqual(t, sig1, sig2, "one changed byte must change the signature")
	assert.Equal(t, "b188a1eda373009a3a63eddd4528b52845a454039447a5a9faca77a69d029ba3", sig2)
}

func TestHMACSignatureService_KeySensitivity(t *testing.T) {
	svc := NewHMACSignatureService()
	payload := []byte("test payload")

	signature := svc.Sign("correct-key", payload)
	assert.False(t, svc.Verify("wrong-key", payload, signature))
}

func TestHMACSignatureService_SignAndVerify(t *testing.T) {
	svc := NewHMACSignatureService()
	payload := []byte(`{"amount":5000}`)

	signature := svc.Sign("test-signing-secret", payload)

	assert.Equal(t, "74e1d1b08ed9817bbad5c426546232e0cb8cd0a6d57bc3e9c322bcf6054a6e1f", signature)
	assert.True(t, svc.Verify("test-signing-secret", payload, signature))
}

func TestHMACSignatureService_VerifyFails_WrongSignature(t *testing.T) {
	svc := NewHMACSignatureService()
	assert.False(t, svc.Verify("key", []byte("payload"), "invalidsignature"))
}

func TestHMACSignatureService_EmptyPayload(t *testing.T) {
	svc := NewHMACSignatureService()

	signature := svc.Sign("key", nil)

	assert.Regexp(t, `^[0-9a-f]{64}$`, signature)
	assert.True(t, svc.Verify("key", nil, signature))
}
