package apperror

import (
	"fmt"
	"net/http"
)

// AppError is a structured error that maps to HTTP responses.
type AppError struct {
	Code       string `json:"error_code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"` // Wrapped internal error (not exposed to client)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError.
func New(code string, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap wraps an internal error with an AppError.
func Wrap(code string, message string, httpStatus int, err error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// ---- Payments (PAY) ----

func ErrInvalidAmount() *AppError {
	return New("PAY_001", "Invalid amount", http.StatusBadRequest)
}

func ErrDuplicateReference() *AppError {
	return New("PAY_002", "Duplicate payment reference", http.StatusConflict)
}

func ErrNotFound(entity string) *AppError {
	return New("PAY_003", fmt.Sprintf("%s not found", entity), http.StatusNotFound)
}

func ErrUnknownProvider(provider string) *AppError {
	return New("PAY_004", fmt.Sprintf("Unknown payment provider: %s", provider), http.StatusBadRequest)
}

func ErrUnknownProviderStatus(status string) *AppError {
	return New("PAY_005", fmt.Sprintf("Unrecognized provider status: %s", status), http.StatusBadRequest)
}

func ErrMerchantSuspended() *AppError {
	return New("PAY_006", "Merchant account is suspended", http.StatusForbidden)
}

// ---- Webhooks (WBH) ----

// ErrMissingSigningSecret is a fatal misconfiguration: the delivery pass
// must abort rather than send unsigned payloads.
func ErrMissingSigningSecret() *AppError {
	return New("WBH_001", "Webhook signing secret is not configured", http.StatusInternalServerError)
}

func ErrWebhookEventNotFound() *AppError {
	return New("WBH_002", "Webhook event not found", http.StatusNotFound)
}

// ---- Authentication (AUTH) ----

func ErrUnauthorized() *AppError {
	return New("AUTH_001", "Unauthorized", http.StatusUnauthorized)
}

// ---- System & Infrastructure (SYS) ----

func ErrDatabaseError(err error) *AppError {
	return Wrap("SYS_001", "Internal database error", http.StatusInternalServerError, err)
}

func ErrProviderUnreachable(err error) *AppError {
	return Wrap("SYS_002", "Payment provider unreachable", http.StatusBadGateway, err)
}

// InternalError wraps an internal error as a SYS_001 error.
func InternalError(err error) *AppError {
	return Wrap("SYS_001", "Internal server error", http.StatusInternalServerError, err)
}

// Validation returns a request validation error.
func Validation(message string) *AppError {
	return New("PAY_001", message, http.StatusBadRequest)
}
